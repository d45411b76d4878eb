package models

import "github.com/mmynk/splitledger/internal/money"

// Expense is one immutable record in a group's expense log.
//
// Expenses are append-only: once stored they are never updated or
// deleted. Corrections are modeled as new offsetting expenses.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Seq is the per-group sequence number, assigned by the store on
	// append. Strictly increasing within a group; insertion order.
	Seq int64

	// PayerID is the user who paid the full amount.
	PayerID string

	// Amount is the total amount paid, in minor units. Always positive.
	Amount money.Money

	// Participants is the ordered list of user IDs sharing this
	// expense. The order is recorded at creation time and determines
	// which participants absorb indivisible remainder units when the
	// amount does not divide evenly.
	Participants []string

	// Description is optional free-form text (e.g. "Dinner expense").
	Description string

	// Category is an optional label (e.g. "food", "rent").
	Category string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
