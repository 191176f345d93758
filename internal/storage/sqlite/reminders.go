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

// SendReminder creates an unread reminder addressed to a task's assignee.
func (s *Store) SendReminder(ctx context.Context, taskID, sentBy, sentTo uuid.UUID, message string) (models.Reminder, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.Reminder{}, fmt.Errorf("%w: reminder message must not be empty", models.ErrValidation)
	}

	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO task_reminders(id, task_id, sent_by, sent_to, message, created_at) VALUES(?, ?, ?, ?, ?, ?)`,
		id.String(), taskID.String(), sentBy.String(), sentTo.String(), message, time.Now().UTC())
	if err != nil {
		return models.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	return s.getReminder(ctx, id)
}

func (s *Store) getReminder(ctx context.Context, id uuid.UUID) (models.Reminder, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, task_id, sent_by, sent_to, message, is_read, created_at
        FROM task_reminders WHERE id = ?`, id.String())
	r, err := scanReminder(row, false)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reminder{}, fmt.Errorf("%w: reminder", models.ErrNotFound)
	}
	if err != nil {
		return models.Reminder{}, fmt.Errorf("get reminder: %w", err)
	}
	return r, nil
}

func scanReminder(row interface{ Scan(...any) error }, enriched bool) (models.Reminder, error) {
	var (
		r                       models.Reminder
		rawID, rawTask          string
		rawSender, rawRecipient string
	)
	dest := []any{&rawID, &rawTask, &rawSender, &rawRecipient, &r.Message, &r.IsRead, &r.CreatedAt}
	if enriched {
		dest = append(dest, &r.SenderName, &r.TaskTitle)
	}
	if err := row.Scan(dest...); err != nil {
		return models.Reminder{}, err
	}
	var err error
	if r.ID, err = uuid.FromString(rawID); err != nil {
		return models.Reminder{}, fmt.Errorf("reminder id: %w", err)
	}
	if r.TaskID, err = uuid.FromString(rawTask); err != nil {
		return models.Reminder{}, fmt.Errorf("reminder task id: %w", err)
	}
	if r.SentBy, err = uuid.FromString(rawSender); err != nil {
		return models.Reminder{}, fmt.Errorf("reminder sender id: %w", err)
	}
	if r.SentTo, err = uuid.FromString(rawRecipient); err != nil {
		return models.Reminder{}, fmt.Errorf("reminder recipient id: %w", err)
	}
	return r, nil
}

// ListRemindersFor returns a recipient's inbox newest first, each row
// enriched with the sender's display name and the task title at read time.
func (s *Store) ListRemindersFor(ctx context.Context, recipientID uuid.UUID) ([]models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT r.id, r.task_id, r.sent_by, r.sent_to, r.message, r.is_read, r.created_at,
               COALESCE(p.display_name, 'Unknown'),
               COALESCE(t.title, 'Unknown task')
        FROM task_reminders r
        LEFT JOIN profiles p ON p.id = r.sent_by
        LEFT JOIN tasks t ON t.id = r.task_id
        WHERE r.sent_to = ?
        ORDER BY r.created_at DESC, r.id DESC`, recipientID.String())
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// MarkReminderRead flips is_read to true. Marking an already-read reminder
// again is a no-op, not an error.
func (s *Store) MarkReminderRead(ctx context.Context, id uuid.UUID) (models.Reminder, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE task_reminders SET is_read = 1 WHERE id = ?`, id.String())
	if err != nil {
		return models.Reminder{}, fmt.Errorf("mark reminder read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Reminder{}, err
	}
	if affected == 0 {
		return models.Reminder{}, fmt.Errorf("%w: reminder", models.ErrNotFound)
	}
	return s.getReminder(ctx, id)
}
