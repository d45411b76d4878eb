// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a uniqueness constraint would
	// be violated (duplicate email, username, or group membership).
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the persistence operations the ledger and its
// surrounding services depend on. This abstraction allows swapping
// storage backends (SQLite, in-memory, PostgreSQL, ...) without
// changing the service layer.
//
// Expenses are append-only: there is deliberately no update or delete
// operation for them. AppendExpense must assign a strictly increasing
// per-group sequence number, and ListExpenses must return expenses in
// that order.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Groups and membership. Member lists preserve join order.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)
	AddGroupMember(ctx context.Context, groupID, userID string) error
	GroupMembers(ctx context.Context, groupID string) ([]string, error)
	DeleteGroup(ctx context.Context, groupID string) error

	// Append-only expense log.
	AppendExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*models.Expense, error)
	LastSeq(ctx context.Context, groupID string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
