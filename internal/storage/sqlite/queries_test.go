package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/yayiti-52/tasksync-hub/internal/models"
)

func TestQueryLifecycle(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	ctx := context.Background()

	query, err := store.CreateQuery(ctx, member.ID, leader.ID, nil, "Clarify scope", "Which mockups?")
	if err != nil {
		t.Fatalf("create query: %v", err)
	}
	if query.Status != models.QueryPending {
		t.Fatalf("status = %q, want pending", query.Status)
	}
	if query.Response != nil || query.RespondedAt != nil {
		t.Fatal("fresh query already carries a response")
	}

	sent, err := store.ListQueriesSent(ctx, member.ID)
	if err != nil {
		t.Fatalf("list sent: %v", err)
	}
	if len(sent) != 1 || sent[0].ID != query.ID {
		t.Fatalf("sent = %v", sent)
	}

	received, err := store.ListQueriesReceived(ctx, leader.ID)
	if err != nil {
		t.Fatalf("list received: %v", err)
	}
	if len(received) != 1 || received[0].ID != query.ID {
		t.Fatalf("received = %v", received)
	}

	pending, err := store.PendingQueryCount(ctx, leader.ID)
	if err != nil {
		t.Fatalf("pending count: %v", err)
	}
	if pending != 1 {
		t.Fatalf("pending = %d, want 1", pending)
	}

	responded, err := store.RespondToQuery(ctx, query.ID, "Use the new mockups")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if responded.Status != models.QueryResponded {
		t.Fatalf("status = %q, want responded", responded.Status)
	}
	if responded.Response == nil || *responded.Response != "Use the new mockups" {
		t.Fatalf("response = %v", responded.Response)
	}
	if responded.RespondedAt == nil {
		t.Fatal("responded_at not stamped")
	}

	pending, err = store.PendingQueryCount(ctx, leader.ID)
	if err != nil {
		t.Fatalf("pending count: %v", err)
	}
	if pending != 0 {
		t.Fatalf("pending = %d, want 0 after response", pending)
	}

	// The sender sees the answer on its copy.
	sent, err = store.ListQueriesSent(ctx, member.ID)
	if err != nil {
		t.Fatalf("list sent: %v", err)
	}
	if sent[0].Status != models.QueryResponded || sent[0].Response == nil {
		t.Fatalf("sender copy = %+v", sent[0])
	}
}

// Pending count must equal the pending entries of the received list after
// any create or respond.
func TestPendingCountMatchesReceivedList(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	ctx := context.Background()

	q1, err := store.CreateQuery(ctx, member.ID, leader.ID, nil, "a", "first")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.CreateQuery(ctx, member.ID, leader.ID, nil, "b", "second"); err != nil {
		t.Fatalf("create: %v", err)
	}

	check := func() {
		t.Helper()
		received, err := store.ListQueriesReceived(ctx, leader.ID)
		if err != nil {
			t.Fatalf("list received: %v", err)
		}
		want := 0
		for _, q := range received {
			if q.Status == models.QueryPending {
				want++
			}
		}
		got, err := store.PendingQueryCount(ctx, leader.ID)
		if err != nil {
			t.Fatalf("pending count: %v", err)
		}
		if got != want {
			t.Fatalf("pending = %d, list says %d", got, want)
		}
	}

	check()
	if _, err := store.RespondToQuery(ctx, q1.ID, "done"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	check()
}

func TestQueryLinkedToTask(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "context")
	ctx := context.Background()

	query, err := store.CreateQuery(ctx, member.ID, leader.ID, &task.ID, "about this task", "question")
	if err != nil {
		t.Fatalf("create query: %v", err)
	}
	if query.TaskID == nil || *query.TaskID != task.ID {
		t.Fatalf("task link = %v, want %s", query.TaskID, task.ID)
	}
}

func TestCreateQueryValidation(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	ctx := context.Background()

	if _, err := store.CreateQuery(ctx, member.ID, leader.ID, nil, "", "msg"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("empty subject err = %v", err)
	}
	if _, err := store.CreateQuery(ctx, member.ID, leader.ID, nil, "subj", ""); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("empty message err = %v", err)
	}
}
