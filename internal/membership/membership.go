// Package membership owns group creation and membership management and
// provides the membership lookups the ledger consumes.
package membership

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	// ErrEmptyName is returned when a group is created without a name.
	ErrEmptyName = errors.New("group name is required")

	// ErrNotCreator is returned when a non-creator tries to delete a
	// group.
	ErrNotCreator = errors.New("only the group creator can delete the group")
)

// Service implements group management over a storage.Store. It also
// satisfies the ledger's Directory interface.
type Service struct {
	store storage.Store
}

// NewService creates a membership Service backed by the given store.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// CreateGroup creates a group with the creator as its first member, so
// a group always has at least one member.
func (s *Service) CreateGroup(ctx context.Context, name, description, creatorID string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   creatorID,
		Members:     []string{creatorID},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

// Group retrieves a group by ID.
func (s *Service) Group(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// UserGroups returns all groups the user belongs to.
func (s *Service) UserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, userID)
}

// AddMember adds a user to a group. The user must exist; adding an
// existing member fails with storage.ErrAlreadyExists.
func (s *Service) AddMember(ctx context.Context, groupID, userID string) error {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return err
	}
	return s.store.AddGroupMember(ctx, groupID, userID)
}

// DeleteGroup removes a group. Only the creator may delete it.
func (s *Service) DeleteGroup(ctx context.Context, groupID, requesterID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != requesterID {
		return ErrNotCreator
	}
	return s.store.DeleteGroup(ctx, groupID)
}

// IsMember reports whether the user is currently a member of the group.
func (s *Service) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	members, err := s.store.GroupMembers(ctx, groupID)
	if err != nil {
		return false, err
	}
	return slices.Contains(members, userID), nil
}

// Members returns the group's member IDs in join order.
func (s *Service) Members(ctx context.Context, groupID string) ([]string, error) {
	return s.store.GroupMembers(ctx, groupID)
}
