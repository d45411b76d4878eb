package ledger

import "errors"

var (
	// ErrInvalidParticipants is returned when an expense's participant
	// set is empty or contains duplicates.
	ErrInvalidParticipants = errors.New("invalid participants")

	// ErrNotAGroupMember is returned when the payer or a participant is
	// not currently a member of the group.
	ErrNotAGroupMember = errors.New("not a group member")

	// ErrUnbalancedLedger is returned when a group's balances fail to
	// sum to zero. This indicates an internal invariant violation; it is
	// surfaced rather than silently corrected.
	ErrUnbalancedLedger = errors.New("unbalanced ledger")
)
