package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/yayiti-52/tasksync-hub/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedTeam registers a leader (first signup) and a member, in that order.
func seedTeam(t *testing.T, store *Store) (leader, member models.Profile) {
	t.Helper()
	ctx := context.Background()

	_, leader, role, err := store.CreateAccount(ctx, "lead@example.com", "hash-1", "Greta Leader")
	if err != nil {
		t.Fatalf("create leader account: %v", err)
	}
	if role != models.RoleLeader {
		t.Fatalf("first signup role = %q, want leader", role)
	}

	_, member, role, err = store.CreateAccount(ctx, "member@example.com", "hash-2", "Milo Member")
	if err != nil {
		t.Fatalf("create member account: %v", err)
	}
	if role != models.RoleMember {
		t.Fatalf("second signup role = %q, want member", role)
	}
	return leader, member
}

func mustCreateTask(t *testing.T, store *Store, creator, assignee models.Profile, title string) models.Task {
	t.Helper()
	task, err := store.CreateTask(context.Background(), models.Task{
		Title:       title,
		AssigneeID:  &assignee.ID,
		CreatedByID: creator.ID,
		Deadline:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return task
}
