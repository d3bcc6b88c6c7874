// Package repository declares the storage interfaces the service layer
// depends on.
//
// OWNERSHIP SCOPING:
// Every topic/subtopic/snippet method takes the owning user's ID and the
// implementation appends it to the query filter. A lookup by id that matches
// a row owned by someone else behaves exactly like "no such row" — the
// repository returns apperror.ErrNotFound either way, so ownership can never
// leak through error shapes.
//
// Method names are resource-qualified (CreateTopic, not Create) so a single
// store type can implement all four interfaces.
package repository

import (
	"context"

	"github.com/sakif/bandolera/internal/model"
)

// UserRepository persists account records.
type UserRepository interface {
	// CreateUser inserts a new user. A duplicate username returns
	// apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByUsername returns the user with the given username, or
	// apperror.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// ListUsers returns all users, newest first. Debug endpoint only.
	ListUsers(ctx context.Context) ([]model.User, error)
}

// TopicRepository persists topics, scoped to their owner.
type TopicRepository interface {
	CreateTopic(ctx context.Context, topic *model.Topic) error
	GetTopicByID(ctx context.Context, userID, id string) (*model.Topic, error)
	// ListTopics returns the user's topics ordered by title ascending.
	ListTopics(ctx context.Context, userID string) ([]model.Topic, error)
	UpdateTopic(ctx context.Context, topic *model.Topic) error
	DeleteTopic(ctx context.Context, userID, id string) error
	// TopicExists reports whether the user owns a topic with this id. Used
	// to validate parent references before a subtopic write.
	TopicExists(ctx context.Context, userID, id string) (bool, error)
}

// SubtopicRepository persists subtopics, scoped to their owner, plus the
// primitives the cascade coordinator composes on topic deletion.
type SubtopicRepository interface {
	CreateSubtopic(ctx context.Context, subtopic *model.Subtopic) error
	GetSubtopicByID(ctx context.Context, userID, id string) (*model.Subtopic, error)
	// ListSubtopics returns the user's subtopics ordered by title ascending.
	ListSubtopics(ctx context.Context, userID string) ([]model.Subtopic, error)
	UpdateSubtopic(ctx context.Context, subtopic *model.Subtopic) error
	DeleteSubtopic(ctx context.Context, userID, id string) error
	// SubtopicExists reports whether the user owns a subtopic with this id.
	SubtopicExists(ctx context.Context, userID, id string) (bool, error)
	// SubtopicTitleTaken reports whether the user already has a subtopic
	// with this title, excluding the row with excludeID (empty on create).
	SubtopicTitleTaken(ctx context.Context, userID, title, excludeID string) (bool, error)
	// SubtopicIDsByTopic returns the ids of the user's subtopics under the
	// topic.
	SubtopicIDsByTopic(ctx context.Context, userID, topicID string) ([]string, error)
	// DeleteSubtopicsByTopic removes all of the user's subtopics under the
	// topic.
	DeleteSubtopicsByTopic(ctx context.Context, userID, topicID string) error
}

// SnippetFilter narrows snippet listings. The zero value means "all of the
// user's snippets".
type SnippetFilter struct {
	SubtopicID string
}

// SnippetRepository persists snippets, scoped to their owner.
type SnippetRepository interface {
	CreateSnippet(ctx context.Context, snippet *model.Snippet) error
	GetSnippetByID(ctx context.Context, userID, id string) (*model.Snippet, error)
	// ListSnippets returns the user's snippets ordered by update time
	// descending.
	ListSnippets(ctx context.Context, userID string, filter SnippetFilter) ([]model.Snippet, error)
	UpdateSnippet(ctx context.Context, snippet *model.Snippet) error
	DeleteSnippet(ctx context.Context, userID, id string) error
	// DeleteSnippetsBySubtopics removes every snippet of the user linked to
	// any of the given subtopic ids. Used by the topic-delete cascade.
	DeleteSnippetsBySubtopics(ctx context.Context, userID string, subtopicIDs []string) error
	// ClearSnippetSubtopic unlinks (does not delete) the user's snippets
	// that reference the subtopic. Used on direct subtopic deletion.
	ClearSnippetSubtopic(ctx context.Context, userID, subtopicID string) error
}
