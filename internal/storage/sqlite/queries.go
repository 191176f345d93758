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

const queryColumns = `id, from_profile_id, to_profile_id, task_id, subject, message, response, status, created_at, responded_at`

func scanQuery(row interface{ Scan(...any) error }) (models.Query, error) {
	var (
		q                     models.Query
		rawID, rawFrom, rawTo string
		rawTask               sql.NullString
		response              sql.NullString
		respondedAt           sql.NullTime
	)
	if err := row.Scan(&rawID, &rawFrom, &rawTo, &rawTask, &q.Subject, &q.Message,
		&response, &q.Status, &q.CreatedAt, &respondedAt); err != nil {
		return models.Query{}, err
	}
	var err error
	if q.ID, err = uuid.FromString(rawID); err != nil {
		return models.Query{}, fmt.Errorf("query id: %w", err)
	}
	if q.FromProfileID, err = uuid.FromString(rawFrom); err != nil {
		return models.Query{}, fmt.Errorf("query sender id: %w", err)
	}
	if q.ToProfileID, err = uuid.FromString(rawTo); err != nil {
		return models.Query{}, fmt.Errorf("query recipient id: %w", err)
	}
	q.TaskID = scanUUID(rawTask)
	if response.Valid {
		q.Response = &response.String
	}
	if respondedAt.Valid {
		q.RespondedAt = &respondedAt.Time
	}
	return q, nil
}

// CreateQuery files a member's question to a leader, always starting out
// pending. taskID may be nil for questions not tied to a task.
func (s *Store) CreateQuery(ctx context.Context, fromID, toID uuid.UUID, taskID *uuid.UUID, subject, message string) (models.Query, error) {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" {
		return models.Query{}, fmt.Errorf("%w: query subject must not be empty", models.ErrValidation)
	}
	if message == "" {
		return models.Query{}, fmt.Errorf("%w: query message must not be empty", models.ErrValidation)
	}

	id := newID()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO queries(id, from_profile_id, to_profile_id, task_id, subject, message, status, created_at)
        VALUES(?, ?, ?, ?, ?, ?, 'pending', ?)`,
		id.String(), fromID.String(), toID.String(), uuidValue(taskID), subject, message, time.Now().UTC())
	if err != nil {
		return models.Query{}, fmt.Errorf("insert query: %w", err)
	}
	return s.GetQuery(ctx, id)
}

// GetQuery retrieves a query by id.
func (s *Store) GetQuery(ctx context.Context, id uuid.UUID) (models.Query, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+queryColumns+` FROM queries WHERE id = ?`, id.String())
	q, err := scanQuery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Query{}, fmt.Errorf("%w: query", models.ErrNotFound)
	}
	if err != nil {
		return models.Query{}, fmt.Errorf("get query: %w", err)
	}
	return q, nil
}

// RespondToQuery records the leader's answer and marks the query responded.
// The write itself is unconditional (last write wins); the handler checks
// the current status first and rejects a second response.
func (s *Store) RespondToQuery(ctx context.Context, id uuid.UUID, response string) (models.Query, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return models.Query{}, fmt.Errorf("%w: response must not be empty", models.ErrValidation)
	}

	res, err := s.db.ExecContext(ctx, `
        UPDATE queries SET response = ?, status = 'responded', responded_at = ? WHERE id = ?`,
		response, time.Now().UTC(), id.String())
	if err != nil {
		return models.Query{}, fmt.Errorf("respond to query: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Query{}, err
	}
	if affected == 0 {
		return models.Query{}, fmt.Errorf("%w: query", models.ErrNotFound)
	}
	return s.GetQuery(ctx, id)
}

func (s *Store) listQueries(ctx context.Context, column string, profileID uuid.UUID) ([]models.Query, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+queryColumns+` FROM queries WHERE `+column+` = ? ORDER BY created_at DESC, id DESC`,
		profileID.String())
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	queries := []models.Query{}
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// ListQueriesReceived returns queries addressed to a profile, newest first.
func (s *Store) ListQueriesReceived(ctx context.Context, profileID uuid.UUID) ([]models.Query, error) {
	return s.listQueries(ctx, "to_profile_id", profileID)
}

// ListQueriesSent returns queries a profile raised, newest first.
func (s *Store) ListQueriesSent(ctx context.Context, profileID uuid.UUID) ([]models.Query, error) {
	return s.listQueries(ctx, "from_profile_id", profileID)
}

// PendingQueryCount counts the still-unanswered queries in a profile's inbox.
func (s *Store) PendingQueryCount(ctx context.Context, profileID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM queries WHERE to_profile_id = ? AND status = 'pending'`,
		profileID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pending query count: %w", err)
	}
	return count, nil
}
