package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
)

func TestReminderInboxEnrichedAndNewestFirst(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "overdue work")
	ctx := context.Background()

	if _, err := store.SendReminder(ctx, task.ID, leader.ID, member.ID, "please update"); err != nil {
		t.Fatalf("send reminder: %v", err)
	}
	if _, err := store.SendReminder(ctx, task.ID, leader.ID, member.ID, "still waiting"); err != nil {
		t.Fatalf("send reminder: %v", err)
	}

	inbox, err := store.ListRemindersFor(ctx, member.ID)
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("inbox = %d, want 2", len(inbox))
	}
	if inbox[0].Message != "still waiting" {
		t.Fatalf("newest first violated: %q", inbox[0].Message)
	}
	if inbox[0].SenderName != "Greta Leader" {
		t.Fatalf("sender name = %q", inbox[0].SenderName)
	}
	if inbox[0].TaskTitle != "overdue work" {
		t.Fatalf("task title = %q", inbox[0].TaskTitle)
	}
	if inbox[0].IsRead {
		t.Fatal("new reminder should start unread")
	}

	// The leader's own inbox stays empty.
	leaderInbox, err := store.ListRemindersFor(ctx, leader.ID)
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(leaderInbox) != 0 {
		t.Fatalf("leader inbox = %d, want 0", len(leaderInbox))
	}
}

func TestMarkReminderReadIdempotent(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "nudged")
	ctx := context.Background()

	reminder, err := store.SendReminder(ctx, task.ID, leader.ID, member.ID, "ping")
	if err != nil {
		t.Fatalf("send reminder: %v", err)
	}

	first, err := store.MarkReminderRead(ctx, reminder.ID)
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if !first.IsRead {
		t.Fatal("is_read not set")
	}

	second, err := store.MarkReminderRead(ctx, reminder.ID)
	if err != nil {
		t.Fatalf("second mark must be a no-op, got %v", err)
	}
	if !second.IsRead {
		t.Fatal("is_read flipped back")
	}
}

func TestMarkReminderReadMissing(t *testing.T) {
	store := testStore(t)
	seedTeam(t, store)

	_, err := store.MarkReminderRead(context.Background(), uuid.Must(uuid.NewV4()))
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSendReminderRejectsEmptyMessage(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "silent")

	_, err := store.SendReminder(context.Background(), task.ID, leader.ID, member.ID, " ")
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
