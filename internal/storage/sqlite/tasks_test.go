package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
)

func TestCreateTaskDefaults(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)

	task, err := store.CreateTask(context.Background(), models.Task{
		Title:       "Design homepage",
		AssigneeID:  &member.ID,
		CreatedByID: leader.ID,
		Deadline:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		// Priority deliberately unset, status deliberately bogus.
		Status: models.StatusDone,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if task.Status != models.StatusTodo {
		t.Fatalf("status = %q, want todo regardless of caller input", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Fatalf("priority = %q, want medium default", task.Priority)
	}
	if task.AssigneeID == nil || *task.AssigneeID != member.ID {
		t.Fatalf("assignee = %v, want %s", task.AssigneeID, member.ID)
	}
	if task.CompletedAt != nil {
		t.Fatalf("completed_at = %v, want nil", task.CompletedAt)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	ctx := context.Background()

	cases := []struct {
		name string
		task models.Task
	}{
		{"empty title", models.Task{AssigneeID: &member.ID, CreatedByID: leader.ID, Deadline: time.Now()}},
		{"blank title", models.Task{Title: "   ", AssigneeID: &member.ID, CreatedByID: leader.ID, Deadline: time.Now()}},
		{"missing deadline", models.Task{Title: "x", AssigneeID: &member.ID, CreatedByID: leader.ID}},
		{"missing creator", models.Task{Title: "x", AssigneeID: &member.ID, Deadline: time.Now()}},
		{"bad priority", models.Task{Title: "x", Priority: "urgent", AssigneeID: &member.ID, CreatedByID: leader.ID, Deadline: time.Now()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.CreateTask(ctx, tc.task); !errors.Is(err, models.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestListTasksNewestFirst(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)

	mustCreateTask(t, store, leader, member, "first")
	mustCreateTask(t, store, leader, member, "second")
	mustCreateTask(t, store, leader, member, "third")

	tasks, err := store.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("tasks = %d, want 3", len(tasks))
	}
	if tasks[0].Title != "third" || tasks[2].Title != "first" {
		t.Fatalf("order = %q, %q, %q", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestUpdateTaskStatusAnyDirection(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "wander")
	ctx := context.Background()

	// Transitions are not restricted to board order.
	for _, status := range []models.TaskStatus{
		models.StatusReview, models.StatusTodo, models.StatusDone, models.StatusInProgress,
	} {
		updated, err := store.UpdateTaskStatus(ctx, task.ID, status)
		if err != nil {
			t.Fatalf("update to %q: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("status = %q, want %q", updated.Status, status)
		}
		if _, ok := models.ValidTaskStatuses[updated.Status]; !ok {
			t.Fatalf("illegal status %q reachable", updated.Status)
		}
	}
}

func TestUpdateTaskStatusRejectsUnknown(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "strict")

	if _, err := store.UpdateTaskStatus(context.Background(), task.ID, "archived"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	current, err := store.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if current.Status != models.StatusTodo {
		t.Fatalf("status = %q, want untouched todo", current.Status)
	}
}

func TestCompletedAtSetOnceAndKept(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "finish me")
	ctx := context.Background()

	done, err := store.UpdateTaskStatus(ctx, task.ID, models.StatusDone)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.CompletedAt == nil {
		t.Fatal("completed_at not set on first done transition")
	}
	stamp := *done.CompletedAt

	reopened, err := store.UpdateTaskStatus(ctx, task.ID, models.StatusInProgress)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.CompletedAt == nil || !reopened.CompletedAt.Equal(stamp) {
		t.Fatalf("completed_at changed on reopen: %v", reopened.CompletedAt)
	}

	redone, err := store.UpdateTaskStatus(ctx, task.ID, models.StatusDone)
	if err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if !redone.CompletedAt.Equal(stamp) {
		t.Fatalf("completed_at restamped: %v != %v", redone.CompletedAt, stamp)
	}
}

func TestUpdateStatusMissingTask(t *testing.T) {
	store := testStore(t)
	seedTeam(t, store)

	_, err := store.UpdateTaskStatus(context.Background(), uuid.Must(uuid.NewV4()), models.StatusDone)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
