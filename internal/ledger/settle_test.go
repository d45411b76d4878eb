package ledger

import (
	"errors"
	"testing"

	"github.com/mmynk/splitledger/internal/money"
)

func TestPlanSettlement(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]money.Money
		want     []Transfer
		wantErr  error
	}{
		{
			name:     "empty ledger",
			balances: map[string]money.Money{},
			want:     nil,
		},
		{
			name: "all settled",
			balances: map[string]money.Money{
				"alice": 0,
				"bob":   0,
			},
			want: nil,
		},
		{
			name: "one debtor one creditor",
			balances: map[string]money.Money{
				"alice": 5000,
				"bob":   -5000,
			},
			want: []Transfer{
				{From: "bob", To: "alice", Amount: 5000},
			},
		},
		{
			name: "one debtor covers two creditors",
			balances: map[string]money.Money{
				"alice": 4600,
				"bob":   700,
				"carol": -5300,
			},
			want: []Transfer{
				{From: "carol", To: "alice", Amount: 4600},
				{From: "carol", To: "bob", Amount: 700},
			},
		},
		{
			name: "largest creditor paired with largest debtor first",
			balances: map[string]money.Money{
				"alice": 3000,
				"bob":   1000,
				"carol": -2500,
				"dave":  -1500,
			},
			want: []Transfer{
				{From: "carol", To: "alice", Amount: 2500},
				{From: "dave", To: "bob", Amount: 1000},
				{From: "dave", To: "alice", Amount: 500},
			},
		},
		{
			name: "ties broken by member id",
			balances: map[string]money.Money{
				"bob":   1000,
				"alice": 1000,
				"zed":   -1000,
				"carol": -1000,
			},
			want: []Transfer{
				{From: "carol", To: "alice", Amount: 1000},
				{From: "zed", To: "bob", Amount: 1000},
			},
		},
		{
			name: "nonzero sum rejected",
			balances: map[string]money.Money{
				"alice": 100,
				"bob":   -99,
			},
			wantErr: ErrUnbalancedLedger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanSettlement(tt.balances)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("PlanSettlement() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlanSettlement() unexpected error: %v", err)
			}
			if len(plan) != len(tt.want) {
				t.Fatalf("PlanSettlement() = %+v, want %+v", plan, tt.want)
			}
			for i := range plan {
				if plan[i] != tt.want[i] {
					t.Errorf("transfer %d = %+v, want %+v", i, plan[i], tt.want[i])
				}
			}
		})
	}
}

// Applying the plan to the input balances must zero every member, and
// the plan must never need more transfers than members minus one.
func TestPlanSettlementZeroesBalances(t *testing.T) {
	cases := []map[string]money.Money{
		{"a": 6600, "b": -3300, "c": -3300},
		{"a": 4600, "b": 700, "c": -5300},
		{"a": 1, "b": 1, "c": 1, "d": -3},
		{"a": 123456, "b": -1, "c": -123455},
		{"a": 500, "b": -200, "c": -200, "d": -100, "e": 0},
	}

	for _, balances := range cases {
		plan, err := PlanSettlement(balances)
		if err != nil {
			t.Fatalf("PlanSettlement(%v) error: %v", balances, err)
		}

		nonzero := 0
		remaining := make(map[string]money.Money, len(balances))
		for member, b := range balances {
			remaining[member] = b
			if !b.IsZero() {
				nonzero++
			}
		}
		if nonzero > 0 && len(plan) > nonzero-1 {
			t.Errorf("PlanSettlement(%v) used %d transfers, want <= %d", balances, len(plan), nonzero-1)
		}

		for _, tr := range plan {
			if !tr.Amount.IsPositive() {
				t.Errorf("transfer %+v has non-positive amount", tr)
			}
			remaining[tr.From] += tr.Amount
			remaining[tr.To] -= tr.Amount
		}
		for member, b := range remaining {
			if !b.IsZero() {
				t.Errorf("PlanSettlement(%v) leaves %s at %d", balances, member, b)
			}
		}
	}
}
