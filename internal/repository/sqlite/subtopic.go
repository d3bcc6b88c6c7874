package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/model"
	"github.com/sakif/bandolera/internal/repository"
)

// compile-time check that *DB implements repository.SubtopicRepository
var _ repository.SubtopicRepository = (*DB)(nil)

// CreateSubtopic inserts a new subtopic, generating the ID and timestamps.
// An empty TopicID is stored as NULL. The UNIQUE(user_id, title) index is the
// backstop behind the service's check-then-insert: a concurrent insert of the
// same title surfaces here as ErrConflict.
func (db *DB) CreateSubtopic(ctx context.Context, subtopic *model.Subtopic) error {
	now := time.Now()
	subtopic.ID = xid.New().String()
	subtopic.CreatedAt = now
	subtopic.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO subtopics (id, title, topic_id, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		subtopic.ID,
		subtopic.Title,
		nullable(subtopic.TopicID),
		subtopic.UserID,
		subtopic.CreatedAt,
		subtopic.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("title", "Subtopic title already exists")
		}
		return fmt.Errorf("sqlite: creating subtopic: %w", err)
	}

	return nil
}

// GetSubtopicByID retrieves a single subtopic, scoped to its owner.
func (db *DB) GetSubtopicByID(ctx context.Context, userID, id string) (*model.Subtopic, error) {
	var (
		s       model.Subtopic
		topicID sql.NullString
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, topic_id, user_id, created_at, updated_at
		 FROM subtopics WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&s.ID, &s.Title, &topicID, &s.UserID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("subtopic", id)
		}
		return nil, fmt.Errorf("sqlite: getting subtopic %s: %w", id, err)
	}
	s.TopicID = topicID.String

	return &s, nil
}

// ListSubtopics returns the user's subtopics ordered by title ascending.
func (db *DB) ListSubtopics(ctx context.Context, userID string) ([]model.Subtopic, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, topic_id, user_id, created_at, updated_at
		 FROM subtopics WHERE user_id = ?
		 ORDER BY title ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing subtopics: %w", err)
	}
	defer rows.Close()

	subtopics := []model.Subtopic{}
	for rows.Next() {
		var (
			s       model.Subtopic
			topicID sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &topicID, &s.UserID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning subtopic row: %w", err)
		}
		s.TopicID = topicID.String
		subtopics = append(subtopics, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating subtopics: %w", err)
	}

	return subtopics, nil
}

// UpdateSubtopic saves the subtopic's title and parent link, scoped to its
// owner.
func (db *DB) UpdateSubtopic(ctx context.Context, subtopic *model.Subtopic) error {
	subtopic.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE subtopics SET title = ?, topic_id = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		subtopic.Title,
		nullable(subtopic.TopicID),
		subtopic.UpdatedAt,
		subtopic.ID,
		subtopic.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("title", "Subtopic title already exists")
		}
		return fmt.Errorf("sqlite: updating subtopic %s: %w", subtopic.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("subtopic", subtopic.ID)
	}

	return nil
}

// DeleteSubtopic removes exactly one of the user's subtopics. Unlinking its
// snippets is the caller's responsibility.
func (db *DB) DeleteSubtopic(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM subtopics WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting subtopic %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("subtopic", id)
	}

	return nil
}

// SubtopicExists reports whether the user owns a subtopic with the given id.
func (db *DB) SubtopicExists(ctx context.Context, userID, id string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subtopics WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking subtopic %s: %w", id, err)
	}
	return count > 0, nil
}

// SubtopicTitleTaken reports whether another of the user's subtopics already
// uses the title. excludeID skips the row being updated.
func (db *DB) SubtopicTitleTaken(ctx context.Context, userID, title, excludeID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subtopics WHERE user_id = ? AND title = ? AND id != ?`,
		userID, title, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking subtopic title %q: %w", title, err)
	}
	return count > 0, nil
}

// SubtopicIDsByTopic resolves the ids of the user's subtopics under a topic.
// First step of the topic-delete cascade.
func (db *DB) SubtopicIDsByTopic(ctx context.Context, userID, topicID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM subtopics WHERE user_id = ? AND topic_id = ?`,
		userID, topicID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: resolving subtopics of topic %s: %w", topicID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning subtopic id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating subtopic ids: %w", err)
	}

	return ids, nil
}

// DeleteSubtopicsByTopic removes all of the user's subtopics under a topic.
// Deleting zero rows is fine — a topic may have no subtopics.
func (db *DB) DeleteSubtopicsByTopic(ctx context.Context, userID, topicID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM subtopics WHERE user_id = ? AND topic_id = ?`,
		userID, topicID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting subtopics of topic %s: %w", topicID, err)
	}
	return nil
}

// placeholders builds a "?, ?, ?" list for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
