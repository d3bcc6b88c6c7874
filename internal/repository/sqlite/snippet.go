package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/model"
	"github.com/sakif/bandolera/internal/repository"
)

// compile-time check that *DB implements repository.SnippetRepository
var _ repository.SnippetRepository = (*DB)(nil)

// CreateSnippet inserts a new snippet, generating the ID and timestamps.
// An empty SubtopicID is stored as NULL.
func (db *DB) CreateSnippet(ctx context.Context, snippet *model.Snippet) error {
	now := time.Now()
	snippet.ID = xid.New().String()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, title, image, content, subtopic_id, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Image,
		snippet.Content,
		nullable(snippet.SubtopicID),
		snippet.UserID,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetSnippetByID retrieves a single snippet, scoped to its owner.
func (db *DB) GetSnippetByID(ctx context.Context, userID, id string) (*model.Snippet, error) {
	var (
		s          model.Snippet
		subtopicID sql.NullString
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, image, content, subtopic_id, user_id, created_at, updated_at
		 FROM snippets WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&s.ID, &s.Title, &s.Image, &s.Content, &subtopicID, &s.UserID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}
	s.SubtopicID = subtopicID.String

	return &s, nil
}

// ListSnippets returns the user's snippets, most recently updated first,
// optionally filtered to one subtopic.
func (db *DB) ListSnippets(ctx context.Context, userID string, filter repository.SnippetFilter) ([]model.Snippet, error) {
	query := `SELECT id, title, image, content, subtopic_id, user_id, created_at, updated_at
	          FROM snippets WHERE user_id = ?`
	args := []any{userID}

	if filter.SubtopicID != "" {
		query += ` AND subtopic_id = ?`
		args = append(args, filter.SubtopicID)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		var (
			s          model.Snippet
			subtopicID sql.NullString
		)
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Image, &s.Content, &subtopicID,
			&s.UserID, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		s.SubtopicID = subtopicID.String
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// UpdateSnippet saves the snippet's mutable fields, scoped to its owner.
func (db *DB) UpdateSnippet(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets SET title = ?, image = ?, content = ?, subtopic_id = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		snippet.Title,
		snippet.Image,
		snippet.Content,
		nullable(snippet.SubtopicID),
		snippet.UpdatedAt,
		snippet.ID,
		snippet.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// DeleteSnippet removes one of the user's snippets.
func (db *DB) DeleteSnippet(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// DeleteSnippetsBySubtopics removes every snippet of the user under any of
// the given subtopics. No-op on an empty id list.
func (db *DB) DeleteSnippetsBySubtopics(ctx context.Context, userID string, subtopicIDs []string) error {
	if len(subtopicIDs) == 0 {
		return nil
	}

	args := []any{userID}
	for _, id := range subtopicIDs {
		args = append(args, id)
	}

	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE user_id = ? AND subtopic_id IN (`+placeholders(len(subtopicIDs))+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippets by subtopics: %w", err)
	}
	return nil
}

// ClearSnippetSubtopic unlinks the user's snippets from a subtopic by setting
// subtopic_id to NULL. The snippets themselves survive.
func (db *DB) ClearSnippetSubtopic(ctx context.Context, userID, subtopicID string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE snippets SET subtopic_id = NULL, updated_at = ?
		 WHERE user_id = ? AND subtopic_id = ?`,
		time.Now(),
		userID,
		subtopicID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: unlinking snippets of subtopic %s: %w", subtopicID, err)
	}
	return nil
}
