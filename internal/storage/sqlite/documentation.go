package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
)

// GetDocumentation returns a task's note, or (nil, nil) when none was ever
// saved. Callers treat that as an empty note.
func (s *Store) GetDocumentation(ctx context.Context, taskID uuid.UUID) (*models.Documentation, error) {
	var (
		d              models.Documentation
		rawID, rawTask string
		rawEditor      sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT id, task_id, content, updated_by, created_at, updated_at
        FROM task_documentation WHERE task_id = ?`, taskID.String()).
		Scan(&rawID, &rawTask, &d.Content, &rawEditor, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get documentation: %w", err)
	}
	if d.ID, err = uuid.FromString(rawID); err != nil {
		return nil, fmt.Errorf("documentation id: %w", err)
	}
	if d.TaskID, err = uuid.FromString(rawTask); err != nil {
		return nil, fmt.Errorf("documentation task id: %w", err)
	}
	d.UpdatedBy = scanUUID(rawEditor)
	return &d, nil
}

// SaveDocumentation creates the task's note on first save and overwrites
// content, editor and updated_at on every save after that. The note is not
// reassigned or cleared when the task's assignee later changes.
func (s *Store) SaveDocumentation(ctx context.Context, taskID, editorID uuid.UUID, content string) (*models.Documentation, error) {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO task_documentation(id, task_id, content, updated_by)
        VALUES(?, ?, ?, ?)
        ON CONFLICT(task_id) DO UPDATE SET
            content = excluded.content,
            updated_by = excluded.updated_by,
            updated_at = CURRENT_TIMESTAMP`,
		newID().String(), taskID.String(), content, editorID.String())
	if err != nil {
		return nil, fmt.Errorf("save documentation: %w", err)
	}
	return s.GetDocumentation(ctx, taskID)
}
