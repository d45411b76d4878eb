// Package ledger implements the expense ledger and balance-settlement
// engine: equal-split share computation, per-member balance aggregation
// over an append-only expense log, and minimal-transfer settlement
// planning.
package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/money"
)

// Share is one participant's portion of an expense total.
type Share struct {
	Member string
	Amount money.Money
}

// Shares splits total equally among the given participants.
//
// Every share is base = total div n; the first total mod n participants
// in the given order receive one extra minor unit, so the shares always
// sum to total exactly. The extra-unit assignment follows the recorded
// participant order — deterministic for a given input, not an
// implementation accident.
//
// Shares is pure: it does not touch any state and is safe to call
// concurrently.
func Shares(total money.Money, participants []string) ([]Share, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: no participants", ErrInvalidParticipants)
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: duplicate participant %q", ErrInvalidParticipants, p)
		}
		seen[p] = struct{}{}
	}

	base, remainder, err := total.Split(len(participants))
	if err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		shares[i] = Share{Member: p, Amount: amount}
	}
	return shares, nil
}
