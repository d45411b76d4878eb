package membership

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/memory"
)

func newTestService(t *testing.T, userIDs ...string) *Service {
	t.Helper()

	store := memory.New()
	now := time.Now().Unix()
	for _, id := range userIDs {
		err := store.CreateUser(context.Background(), &models.User{
			ID:           id,
			Email:        id + "@example.com",
			PasswordHash: "hash",
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			t.Fatalf("CreateUser(%s) error: %v", id, err)
		}
	}
	return NewService(store)
}

func TestCreateGroup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "alice")

	group, err := svc.CreateGroup(ctx, "  trip  ", "summer trip", "alice")
	if err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	if group.Name != "trip" {
		t.Errorf("group name = %q, want %q", group.Name, "trip")
	}
	if group.CreatedBy != "alice" {
		t.Errorf("group created_by = %s, want alice", group.CreatedBy)
	}
	// The creator is always the first member.
	if len(group.Members) != 1 || group.Members[0] != "alice" {
		t.Errorf("group members = %v, want [alice]", group.Members)
	}

	if _, err := svc.CreateGroup(ctx, "   ", "", "alice"); !errors.Is(err, ErrEmptyName) {
		t.Errorf("CreateGroup(blank name) error = %v, want ErrEmptyName", err)
	}
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "alice", "bob")

	group, err := svc.CreateGroup(ctx, "trip", "", "alice")
	if err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}

	if err := svc.AddMember(ctx, group.ID, "bob"); err != nil {
		t.Fatalf("AddMember() error: %v", err)
	}
	if err := svc.AddMember(ctx, group.ID, "bob"); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("AddMember(again) error = %v, want ErrAlreadyExists", err)
	}
	// Unknown users cannot be added.
	if err := svc.AddMember(ctx, group.ID, "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("AddMember(unknown user) error = %v, want ErrNotFound", err)
	}

	members, err := svc.Members(ctx, group.ID)
	if err != nil {
		t.Fatalf("Members() error: %v", err)
	}
	if len(members) != 2 || members[0] != "alice" || members[1] != "bob" {
		t.Errorf("Members() = %v, want [alice bob]", members)
	}

	ok, err := svc.IsMember(ctx, group.ID, "bob")
	if err != nil || !ok {
		t.Errorf("IsMember(bob) = %v, %v, want true", ok, err)
	}
	ok, err = svc.IsMember(ctx, group.ID, "carol")
	if err != nil || ok {
		t.Errorf("IsMember(carol) = %v, %v, want false", ok, err)
	}
}

func TestDeleteGroup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "alice", "bob")

	group, err := svc.CreateGroup(ctx, "trip", "", "alice")
	if err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	if err := svc.AddMember(ctx, group.ID, "bob"); err != nil {
		t.Fatalf("AddMember() error: %v", err)
	}

	if err := svc.DeleteGroup(ctx, group.ID, "bob"); !errors.Is(err, ErrNotCreator) {
		t.Errorf("DeleteGroup(non-creator) error = %v, want ErrNotCreator", err)
	}
	if err := svc.DeleteGroup(ctx, group.ID, "alice"); err != nil {
		t.Fatalf("DeleteGroup() error: %v", err)
	}
	if _, err := svc.Group(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Group() after delete error = %v, want ErrNotFound", err)
	}
}

func TestUserGroups(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "alice", "bob")

	first, err := svc.CreateGroup(ctx, "trip", "", "alice")
	if err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	if _, err := svc.CreateGroup(ctx, "flat", "", "bob"); err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	if err := svc.AddMember(ctx, first.ID, "bob"); err != nil {
		t.Fatalf("AddMember() error: %v", err)
	}

	groups, err := svc.UserGroups(ctx, "bob")
	if err != nil {
		t.Fatalf("UserGroups() error: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("UserGroups(bob) returned %d groups, want 2", len(groups))
	}

	groups, err = svc.UserGroups(ctx, "alice")
	if err != nil {
		t.Fatalf("UserGroups() error: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != first.ID {
		t.Errorf("UserGroups(alice) = %v, want only %s", groups, first.ID)
	}
}
