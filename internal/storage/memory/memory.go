// Package memory provides an in-memory implementation of the
// storage.Store interface, used in tests and for the memory backend.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with in-process maps.
// All operations are safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*models.User    // by ID
	groups   map[string]*models.Group   // by ID, Members in join order
	expenses map[string][]*models.Expense // by group ID, in seq order
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*models.User),
		groups:   make(map[string]*models.Group),
		expenses: make(map[string][]*models.Expense),
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// CreateUser stores a new user.
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) ||
			(user.Username != "" && strings.EqualFold(existing.Username, user.Username)) {
			return fmt.Errorf("%w: user with this email or username", storage.ErrAlreadyExists)
		}
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, fmt.Errorf("%w: user", storage.ErrNotFound)
}

// GetUserByID retrieves a user by ID.
func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", storage.ErrNotFound, id)
	}
	return cloneUser(user), nil
}

// UpdateUser replaces a user's mutable fields.
func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("%w: user %s", storage.ErrNotFound, user.ID)
	}
	for id, other := range s.users {
		if id == user.ID {
			continue
		}
		if strings.EqualFold(other.Email, user.Email) ||
			(user.Username != "" && strings.EqualFold(other.Username, user.Username)) {
			return fmt.Errorf("%w: user with this email or username", storage.ErrAlreadyExists)
		}
	}

	existing.Email = user.Email
	existing.Username = user.Username
	existing.PasswordHash = user.PasswordHash
	existing.UpdatedAt = time.Now().Unix()
	user.UpdatedAt = existing.UpdatedAt
	return nil
}

// CreateGroup stores a new group with its initial member list.
func (s *MemoryStore) CreateGroup(ctx context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	s.groups[group.ID] = cloneGroup(group)
	return nil
}

// GetGroup retrieves a group by ID.
func (s *MemoryStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	return cloneGroup(group), nil
}

// ListGroupsByMember retrieves all groups the user belongs to, oldest
// first.
func (s *MemoryStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var groups []*models.Group
	for _, group := range s.groups {
		if slices.Contains(group.Members, userID) {
			groups = append(groups, cloneGroup(group))
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt < groups[j].CreatedAt
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

// AddGroupMember appends a user to a group's member list.
func (s *MemoryStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	if slices.Contains(group.Members, userID) {
		return fmt.Errorf("%w: user %s in group %s", storage.ErrAlreadyExists, userID, groupID)
	}
	group.Members = append(group.Members, userID)
	return nil
}

// GroupMembers returns the group's member IDs in join order.
func (s *MemoryStore) GroupMembers(ctx context.Context, groupID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	return slices.Clone(group.Members), nil
}

// DeleteGroup removes a group and its expense log.
func (s *MemoryStore) DeleteGroup(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	delete(s.groups, groupID)
	delete(s.expenses, groupID)
	return nil
}

// AppendExpense stores one expense with the next per-group sequence
// number. The log is append-only; there is no update or delete.
func (s *MemoryStore) AppendExpense(ctx context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[expense.GroupID]; !ok {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, expense.GroupID)
	}
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	log := s.expenses[expense.GroupID]
	expense.Seq = 1
	if n := len(log); n > 0 {
		expense.Seq = log[n-1].Seq + 1
	}
	s.expenses[expense.GroupID] = append(log, cloneExpense(expense))
	return nil
}

// ListExpenses returns a page of the group's expenses in insertion
// order.
func (s *MemoryStore) ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.expenses[groupID]
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if offset >= len(log) {
		return nil, nil
	}
	end := offset + limit
	if end > len(log) {
		end = len(log)
	}

	page := make([]*models.Expense, 0, end-offset)
	for _, expense := range log[offset:end] {
		page = append(page, cloneExpense(expense))
	}
	return page, nil
}

// LastSeq returns the sequence number of the group's latest expense,
// or 0 if the group has none.
func (s *MemoryStore) LastSeq(ctx context.Context, groupID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.expenses[groupID]
	if len(log) == 0 {
		return 0, nil
	}
	return log[len(log)-1].Seq, nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneGroup(g *models.Group) *models.Group {
	c := *g
	c.Members = slices.Clone(g.Members)
	return &c
}

func cloneExpense(e *models.Expense) *models.Expense {
	c := *e
	c.Participants = slices.Clone(e.Participants)
	return &c
}
