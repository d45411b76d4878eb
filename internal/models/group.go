package models

// Group represents a set of users who share expenses.
//
// Membership is ordered: Members preserves join order, with the creator
// always first. A group therefore always has at least one member.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g. "Roommates").
	Name string

	// Description is optional free-form text about the group.
	Description string

	// CreatedBy is the user ID of the group's creator.
	CreatedBy string

	// Members is the list of member user IDs in join order.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
