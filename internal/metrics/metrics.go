// Package metrics defines the Prometheus instruments exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExpensesRecorded counts expenses appended to the ledger.
	ExpensesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_expenses_recorded_total",
		Help: "Number of expenses recorded.",
	})

	// BalanceCacheHits counts balance reads served from the incremental
	// cache without replaying history.
	BalanceCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_balance_cache_hits_total",
		Help: "Balance queries answered from the up-to-date cache.",
	})

	// BalanceRecomputes counts full recomputations of a group's
	// balances from the expense log.
	BalanceRecomputes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_balance_recomputes_total",
		Help: "Full balance recomputations from expense history.",
	})

	// SettlementPlans counts settlement plans produced.
	SettlementPlans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_settlement_plans_total",
		Help: "Settlement plans computed.",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
