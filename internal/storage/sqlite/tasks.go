package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
)

const taskColumns = `id, title, description, priority, status, assignee_id, created_by_id, deadline, tags, created_at, updated_at, completed_at`

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var (
		t           models.Task
		rawID       string
		rawCreator  string
		rawAssignee sql.NullString
		rawTags     string
		completedAt sql.NullTime
	)
	if err := row.Scan(&rawID, &t.Title, &t.Description, &t.Priority, &t.Status,
		&rawAssignee, &rawCreator, &t.Deadline, &rawTags, &t.CreatedAt, &t.UpdatedAt, &completedAt); err != nil {
		return models.Task{}, err
	}
	var err error
	if t.ID, err = uuid.FromString(rawID); err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}
	if t.CreatedByID, err = uuid.FromString(rawCreator); err != nil {
		return models.Task{}, fmt.Errorf("task creator id: %w", err)
	}
	t.AssigneeID = scanUUID(rawAssignee)
	t.Tags = decodeStrings(rawTags)
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return t, nil
}

// CreateTask inserts a new card. Status is always forced to todo no matter
// what the caller put on the struct, and an empty priority defaults to
// medium.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return models.Task{}, fmt.Errorf("%w: task title must not be empty", models.ErrValidation)
	}
	if t.Deadline.IsZero() {
		return models.Task{}, fmt.Errorf("%w: task deadline is required", models.ErrValidation)
	}
	if t.CreatedByID == uuid.Nil {
		return models.Task{}, fmt.Errorf("%w: task creator is required", models.ErrValidation)
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if _, ok := models.ValidPriorities[t.Priority]; !ok {
		return models.Task{}, fmt.Errorf("%w: unknown priority %q", models.ErrValidation, t.Priority)
	}

	id := newID()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO tasks(id, title, description, priority, status, assignee_id, created_by_id, deadline, tags, created_at, updated_at)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), t.Title, strings.TrimSpace(t.Description), string(t.Priority), string(models.StatusTodo),
		uuidValue(t.AssigneeID), t.CreatedByID.String(), t.Deadline.UTC(), encodeStrings(t.Tags), now, now)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("%w: task", models.ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasks returns every task, newest created first.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus moves a task to any of the four columns; transitions are
// not restricted to board order. The first move into done stamps
// completed_at, and reopening leaves that stamp alone.
func (s *Store) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status models.TaskStatus) (models.Task, error) {
	if _, ok := models.ValidTaskStatuses[status]; !ok {
		return models.Task{}, fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
        UPDATE tasks SET status = ?,
            updated_at = ?,
            completed_at = CASE WHEN ? = 'done' AND completed_at IS NULL THEN ? ELSE completed_at END
        WHERE id = ?`,
		string(status), now, string(status), now, id.String())
	if err != nil {
		return models.Task{}, fmt.Errorf("update task status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, err
	}
	if affected == 0 {
		return models.Task{}, fmt.Errorf("%w: task", models.ErrNotFound)
	}
	return s.GetTask(ctx, id)
}
