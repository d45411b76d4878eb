package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/money"
)

// Transfer is a suggested payment from one member to another that
// reduces outstanding balances toward zero. Transfers are derived on
// demand and never persisted.
type Transfer struct {
	From   string
	To     string
	Amount money.Money
}

// PlanSettlement computes an ordered sequence of transfers that zeroes
// every balance in the map, minimizing the number of transfers.
//
// Algorithm: repeatedly match the creditor with the largest remaining
// positive balance against the debtor with the largest remaining debt
// and transfer min of the two. Ties are broken by member ID so the plan
// is deterministic. For n members with nonzero balances the plan never
// exceeds n-1 transfers.
//
// Returns ErrUnbalancedLedger if the balances do not sum to zero. That
// should be unreachable for balances produced by this package, but it
// is checked rather than assumed.
func PlanSettlement(balances map[string]money.Money) ([]Transfer, error) {
	remaining := make(map[string]money.Money, len(balances))
	sum := money.Money(0)
	for member, balance := range balances {
		var err error
		if sum, err = sum.Add(balance); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnbalancedLedger, err)
		}
		if !balance.IsZero() {
			remaining[member] = balance
		}
	}
	if !sum.IsZero() {
		return nil, fmt.Errorf("%w: balances sum to %s, want 0.00", ErrUnbalancedLedger, sum)
	}

	var plan []Transfer
	for len(remaining) > 0 {
		creditor := selectExtreme(remaining, func(b money.Money) bool { return b.IsPositive() })
		debtor := selectExtreme(remaining, func(b money.Money) bool { return b.IsNegative() })

		amount := remaining[creditor]
		if debt := remaining[debtor].Abs(); debt < amount {
			amount = debt
		}

		plan = append(plan, Transfer{From: debtor, To: creditor, Amount: amount})

		settle(remaining, creditor, amount.Neg())
		settle(remaining, debtor, amount)
	}
	return plan, nil
}

// selectExtreme returns the member whose balance has the largest
// absolute value among those matching the sign filter, breaking ties by
// member ID. An explicit scan per step keeps the tie-break rule
// testable in isolation.
func selectExtreme(remaining map[string]money.Money, match func(money.Money) bool) string {
	var best string
	var bestAbs money.Money
	for member, balance := range remaining {
		if !match(balance) {
			continue
		}
		abs := balance.Abs()
		if best == "" || abs > bestAbs || (abs == bestAbs && member < best) {
			best, bestAbs = member, abs
		}
	}
	return best
}

// settle adjusts a member's remaining balance by delta, dropping the
// entry once it reaches zero. Balances produced by the ledger fit well
// within int64, so the adjustment cannot overflow.
func settle(remaining map[string]money.Money, member string, delta money.Money) {
	updated := remaining[member] + delta
	if updated.IsZero() {
		delete(remaining, member)
	} else {
		remaining[member] = updated
	}
}
