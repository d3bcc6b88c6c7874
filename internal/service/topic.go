package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/model"
	"github.com/sakif/bandolera/internal/repository"
)

// TopicService handles business logic for topics, including the
// cascade-delete that removes a topic's whole subtree.
type TopicService struct {
	topics    repository.TopicRepository
	subtopics repository.SubtopicRepository
	snippets  repository.SnippetRepository
	logger    *slog.Logger
}

// NewTopicService creates a TopicService. It needs all three hierarchy
// repositories because deleting a topic touches all three collections.
func NewTopicService(
	topics repository.TopicRepository,
	subtopics repository.SubtopicRepository,
	snippets repository.SnippetRepository,
	logger *slog.Logger,
) *TopicService {
	return &TopicService{
		topics:    topics,
		subtopics: subtopics,
		snippets:  snippets,
		logger:    logger,
	}
}

// List returns the user's topics, title ascending.
func (s *TopicService) List(ctx context.Context, userID string) ([]model.Topic, error) {
	topics, err := s.topics.ListTopics(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list topics", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	return topics, nil
}

// Get returns one of the user's topics by id.
func (s *TopicService) Get(ctx context.Context, userID, id string) (*model.Topic, error) {
	if !validID(id) {
		return nil, apperror.InvalidID("id")
	}
	return s.topics.GetTopicByID(ctx, userID, id)
}

// Create validates and saves a new topic owned by the user.
func (s *TopicService) Create(ctx context.Context, userID, title string) (*model.Topic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "Missing `title` in request body")
	}

	topic := &model.Topic{
		Title:  title,
		UserID: userID,
	}

	if err := s.topics.CreateTopic(ctx, topic); err != nil {
		s.logger.Error("failed to create topic",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating topic: %w", err)
	}

	s.logger.Info("topic created",
		slog.String("id", topic.ID),
		slog.String("userId", userID),
	)

	return topic, nil
}

// Update replaces the topic's title.
func (s *TopicService) Update(ctx context.Context, userID, id, title string) (*model.Topic, error) {
	if !validID(id) {
		return nil, apperror.InvalidID("id")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "Missing `title` in request body")
	}

	topic, err := s.topics.GetTopicByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	topic.Title = title
	if err := s.topics.UpdateTopic(ctx, topic); err != nil {
		s.logger.Error("failed to update topic",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating topic: %w", err)
	}

	return topic, nil
}

// Delete removes the topic and its whole subtree: the user's subtopics under
// it and every snippet under those subtopics.
//
// CASCADE ORDER (leaves first):
//  1. resolve the subtopic ids under the topic
//  2. delete the snippets linked to any of those subtopics
//  3. delete the subtopics
//  4. delete the topic itself
//
// The steps are NOT wrapped in a transaction — the store only guarantees
// per-statement atomicity. A failure mid-cascade leaves the earlier steps
// applied; there is no rollback or retry. Such a failure propagates to the
// caller as an internal error rather than being swallowed.
func (s *TopicService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return apperror.InvalidID("id")
	}

	subtopicIDs, err := s.subtopics.SubtopicIDsByTopic(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("resolving subtopics of topic %s: %w", id, err)
	}

	if err := s.snippets.DeleteSnippetsBySubtopics(ctx, userID, subtopicIDs); err != nil {
		return fmt.Errorf("cascading snippet delete for topic %s: %w", id, err)
	}

	if err := s.subtopics.DeleteSubtopicsByTopic(ctx, userID, id); err != nil {
		return fmt.Errorf("cascading subtopic delete for topic %s: %w", id, err)
	}

	// NotFound from this final step propagates as-is: an id the user does
	// not own produced empty earlier steps, so nothing was touched.
	if err := s.topics.DeleteTopic(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("topic deleted",
		slog.String("id", id),
		slog.String("userId", userID),
		slog.Int("subtopics", len(subtopicIDs)),
	)

	return nil
}
