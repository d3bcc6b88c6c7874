package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/model"
	"github.com/sakif/bandolera/internal/repository"
)

// SubtopicService handles business logic for subtopics: per-user title
// uniqueness, parent-topic validation, and the delete-then-unlink pair.
type SubtopicService struct {
	subtopics repository.SubtopicRepository
	topics    repository.TopicRepository
	snippets  repository.SnippetRepository
	logger    *slog.Logger
}

// NewSubtopicService creates a SubtopicService.
func NewSubtopicService(
	subtopics repository.SubtopicRepository,
	topics repository.TopicRepository,
	snippets repository.SnippetRepository,
	logger *slog.Logger,
) *SubtopicService {
	return &SubtopicService{
		subtopics: subtopics,
		topics:    topics,
		snippets:  snippets,
		logger:    logger,
	}
}

// SubtopicUpdate carries a partial update. Nil fields are left unchanged; a
// non-nil empty TopicID clears the parent link.
type SubtopicUpdate struct {
	Title   *string
	TopicID *string
}

// List returns the user's subtopics, title ascending.
func (s *SubtopicService) List(ctx context.Context, userID string) ([]model.Subtopic, error) {
	subtopics, err := s.subtopics.ListSubtopics(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list subtopics", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing subtopics: %w", err)
	}
	return subtopics, nil
}

// Get returns one of the user's subtopics by id.
func (s *SubtopicService) Get(ctx context.Context, userID, id string) (*model.Subtopic, error) {
	if !validID(id) {
		return nil, apperror.InvalidID("id")
	}
	return s.subtopics.GetSubtopicByID(ctx, userID, id)
}

// Create validates and saves a new subtopic owned by the user.
//
// A supplied topicId must be a well-formed id AND resolve to a topic the user
// owns; otherwise the request fails before any write. The title must be
// unique among the user's subtopics.
func (s *SubtopicService) Create(ctx context.Context, userID, title, topicID string) (*model.Subtopic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "Missing `title` in request body")
	}

	if topicID != "" {
		if err := s.checkTopicRef(ctx, userID, topicID); err != nil {
			return nil, err
		}
	}

	taken, err := s.subtopics.SubtopicTitleTaken(ctx, userID, title, "")
	if err != nil {
		return nil, fmt.Errorf("checking subtopic title: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("title", "Subtopic title already exists")
	}

	subtopic := &model.Subtopic{
		Title:   title,
		TopicID: topicID,
		UserID:  userID,
	}

	// The repository's UNIQUE(user_id, title) backstop still reports
	// ErrConflict if a concurrent create slipped past the check above.
	if err := s.subtopics.CreateSubtopic(ctx, subtopic); err != nil {
		if !errors.Is(err, apperror.ErrConflict) {
			s.logger.Error("failed to create subtopic",
				slog.String("title", title),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("subtopic created",
		slog.String("id", subtopic.ID),
		slog.String("userId", userID),
	)

	return subtopic, nil
}

// Update applies a partial update to one of the user's subtopics.
func (s *SubtopicService) Update(ctx context.Context, userID, id string, upd SubtopicUpdate) (*model.Subtopic, error) {
	if !validID(id) {
		return nil, apperror.InvalidID("id")
	}

	subtopic, err := s.subtopics.GetSubtopicByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "Missing `title` in request body")
		}
		if title != subtopic.Title {
			taken, err := s.subtopics.SubtopicTitleTaken(ctx, userID, title, id)
			if err != nil {
				return nil, fmt.Errorf("checking subtopic title: %w", err)
			}
			if taken {
				return nil, apperror.Conflict("title", "Subtopic title already exists")
			}
		}
		subtopic.Title = title
	}

	if upd.TopicID != nil {
		if *upd.TopicID == "" {
			subtopic.TopicID = ""
		} else {
			if err := s.checkTopicRef(ctx, userID, *upd.TopicID); err != nil {
				return nil, err
			}
			subtopic.TopicID = *upd.TopicID
		}
	}

	if err := s.subtopics.UpdateSubtopic(ctx, subtopic); err != nil {
		return nil, err
	}

	return subtopic, nil
}

// Delete removes the subtopic and unlinks — does not delete — the snippets
// that referenced it.
//
// The two writes are issued concurrently and BOTH must succeed for the
// operation to report success. They are independent single-statement writes,
// so order does not matter: the unlink matches on the subtopic id, not on the
// row still existing.
func (s *SubtopicService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return apperror.InvalidID("id")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.subtopics.DeleteSubtopic(gctx, userID, id)
	})
	g.Go(func() error {
		if err := s.snippets.ClearSnippetSubtopic(gctx, userID, id); err != nil {
			return fmt.Errorf("unlinking snippets of subtopic %s: %w", id, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("subtopic deleted",
		slog.String("id", id),
		slog.String("userId", userID),
	)

	return nil
}

// checkTopicRef validates a parent-topic reference: well-formed id AND owned
// by the user. Both failures look identical to the caller.
func (s *SubtopicService) checkTopicRef(ctx context.Context, userID, topicID string) error {
	if !validID(topicID) {
		return apperror.InvalidID("topicId")
	}
	ok, err := s.topics.TopicExists(ctx, userID, topicID)
	if err != nil {
		return fmt.Errorf("checking topic %s: %w", topicID, err)
	}
	if !ok {
		return apperror.InvalidID("topicId")
	}
	return nil
}
