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

// AddComment appends an immutable entry to a task's discussion thread.
func (s *Store) AddComment(ctx context.Context, taskID, authorID uuid.UUID, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("%w: comment content must not be empty", models.ErrValidation)
	}

	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO task_comments(id, task_id, author_id, content, created_at) VALUES(?, ?, ?, ?, ?)`,
		id.String(), taskID.String(), authorID.String(), content, time.Now().UTC())
	if err != nil {
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return s.getComment(ctx, id)
}

func (s *Store) getComment(ctx context.Context, id uuid.UUID) (models.Comment, error) {
	var (
		c                       models.Comment
		rawID, rawTask, rawUser string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, task_id, author_id, content, created_at FROM task_comments WHERE id = ?`,
		id.String()).Scan(&rawID, &rawTask, &rawUser, &c.Content, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, fmt.Errorf("%w: comment", models.ErrNotFound)
	}
	if err != nil {
		return models.Comment{}, fmt.Errorf("get comment: %w", err)
	}
	if c.ID, err = uuid.FromString(rawID); err != nil {
		return models.Comment{}, fmt.Errorf("comment id: %w", err)
	}
	if c.TaskID, err = uuid.FromString(rawTask); err != nil {
		return models.Comment{}, fmt.Errorf("comment task id: %w", err)
	}
	if c.AuthorID, err = uuid.FromString(rawUser); err != nil {
		return models.Comment{}, fmt.Errorf("comment author id: %w", err)
	}
	return c, nil
}

// ListComments returns a task's thread oldest first. A task without
// comments yields an empty slice, not an error.
func (s *Store) ListComments(ctx context.Context, taskID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, task_id, author_id, content, created_at
        FROM task_comments WHERE task_id = ?
        ORDER BY created_at ASC, id ASC`, taskID.String())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var (
			c                       models.Comment
			rawID, rawTask, rawUser string
		)
		if err := rows.Scan(&rawID, &rawTask, &rawUser, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if c.ID, err = uuid.FromString(rawID); err != nil {
			return nil, fmt.Errorf("comment id: %w", err)
		}
		if c.TaskID, err = uuid.FromString(rawTask); err != nil {
			return nil, fmt.Errorf("comment task id: %w", err)
		}
		if c.AuthorID, err = uuid.FromString(rawUser); err != nil {
			return nil, fmt.Errorf("comment author id: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
