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

// compile-time check that *DB implements repository.TopicRepository
var _ repository.TopicRepository = (*DB)(nil)

// CreateTopic inserts a new topic, generating the ID and timestamps.
func (db *DB) CreateTopic(ctx context.Context, topic *model.Topic) error {
	now := time.Now()
	topic.ID = xid.New().String()
	topic.CreatedAt = now
	topic.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO topics (id, title, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		topic.ID,
		topic.Title,
		topic.UserID,
		topic.CreatedAt,
		topic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating topic: %w", err)
	}

	return nil
}

// GetTopicByID retrieves a single topic, scoped to its owner. A topic owned
// by a different user scans zero rows and returns the same NotFound as a
// missing id.
func (db *DB) GetTopicByID(ctx context.Context, userID, id string) (*model.Topic, error) {
	var t model.Topic

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, user_id, created_at, updated_at
		 FROM topics WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("topic", id)
		}
		return nil, fmt.Errorf("sqlite: getting topic %s: %w", id, err)
	}

	return &t, nil
}

// ListTopics returns the user's topics ordered by title ascending.
func (db *DB) ListTopics(ctx context.Context, userID string) ([]model.Topic, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, user_id, created_at, updated_at
		 FROM topics WHERE user_id = ?
		 ORDER BY title ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing topics: %w", err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning topic row: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating topics: %w", err)
	}

	return topics, nil
}

// UpdateTopic saves the topic's title. The WHERE clause carries both id and
// user_id; zero rows affected means not found (or not owned — same thing).
func (db *DB) UpdateTopic(ctx context.Context, topic *model.Topic) error {
	topic.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE topics SET title = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		topic.Title,
		topic.UpdatedAt,
		topic.ID,
		topic.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating topic %s: %w", topic.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("topic", topic.ID)
	}

	return nil
}

// DeleteTopic removes the user's topic. Descendants are the cascade
// coordinator's job — this deletes exactly one row.
func (db *DB) DeleteTopic(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM topics WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting topic %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("topic", id)
	}

	return nil
}

// TopicExists reports whether the user owns a topic with the given id.
func (db *DB) TopicExists(ctx context.Context, userID, id string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM topics WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking topic %s: %w", id, err)
	}
	return count > 0, nil
}
