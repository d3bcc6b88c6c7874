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

// SnippetService handles business logic for snippets.
type SnippetService struct {
	snippets  repository.SnippetRepository
	subtopics repository.SubtopicRepository
	logger    *slog.Logger
}

// NewSnippetService creates a SnippetService.
func NewSnippetService(
	snippets repository.SnippetRepository,
	subtopics repository.SubtopicRepository,
	logger *slog.Logger,
) *SnippetService {
	return &SnippetService{
		snippets:  snippets,
		subtopics: subtopics,
		logger:    logger,
	}
}

// SnippetCreate carries the fields accepted on creation.
type SnippetCreate struct {
	Title      string
	Image      string
	Content    string
	SubtopicID string
}

// SnippetUpdate carries a partial update. Nil fields are left unchanged; a
// non-nil empty SubtopicID clears the parent link.
type SnippetUpdate struct {
	Title      *string
	Image      *string
	Content    *string
	SubtopicID *string
}

// List returns the user's snippets, most recently updated first. A non-empty
// subtopicID narrows the listing to that parent; an unknown or foreign
// subtopic id simply matches nothing.
func (s *SnippetService) List(ctx context.Context, userID, subtopicID string) ([]model.Snippet, error) {
	snippets, err := s.snippets.ListSnippets(ctx, userID, repository.SnippetFilter{
		SubtopicID: subtopicID,
	})
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Get returns one of the user's snippets by id.
func (s *SnippetService) Get(ctx context.Context, userID, id string) (*model.Snippet, error) {
	if !validID(id) {
		return nil, apperror.InvalidID("id")
	}
	return s.snippets.GetSnippetByID(ctx, userID, id)
}

// Create validates and saves a new snippet owned by the user. A supplied
// subtopicId must be well-formed AND resolve to a subtopic the user owns.
func (s *SnippetService) Create(ctx context.Context, userID string, in SnippetCreate) (*model.Snippet, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "Missing `title` in request body")
	}

	if in.SubtopicID != "" {
		if err := s.checkSubtopicRef(ctx, userID, in.SubtopicID); err != nil {
			return nil, err
		}
	}

	snippet := &model.Snippet{
		Title:      title,
		Image:      in.Image,
		Content:    in.Content,
		SubtopicID: in.SubtopicID,
		UserID:     userID,
	}

	if err := s.snippets.CreateSnippet(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("userId", userID),
	)

	return snippet, nil
}

// Update applies a partial update to one of the user's snippets. Issuing the
// same payload twice yields the same final state (only updatedAt advances).
func (s *SnippetService) Update(ctx context.Context, userID, id string, upd SnippetUpdate) (*model.Snippet, error) {
	if !validID(id) {
		return nil, apperror.InvalidID("id")
	}

	snippet, err := s.snippets.GetSnippetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "Missing `title` in request body")
		}
		snippet.Title = title
	}
	if upd.Image != nil {
		snippet.Image = *upd.Image
	}
	if upd.Content != nil {
		snippet.Content = *upd.Content
	}
	if upd.SubtopicID != nil {
		if *upd.SubtopicID == "" {
			snippet.SubtopicID = ""
		} else {
			if err := s.checkSubtopicRef(ctx, userID, *upd.SubtopicID); err != nil {
				return nil, err
			}
			snippet.SubtopicID = *upd.SubtopicID
		}
	}

	if err := s.snippets.UpdateSnippet(ctx, snippet); err != nil {
		return nil, err
	}

	return snippet, nil
}

// Delete removes one of the user's snippets. No cascade — snippets are
// leaves.
func (s *SnippetService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return apperror.InvalidID("id")
	}

	if err := s.snippets.DeleteSnippet(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted",
		slog.String("id", id),
		slog.String("userId", userID),
	)

	return nil
}

// checkSubtopicRef validates a parent-subtopic reference: well-formed id AND
// owned by the user.
func (s *SnippetService) checkSubtopicRef(ctx context.Context, userID, subtopicID string) error {
	if !validID(subtopicID) {
		return apperror.InvalidID("subtopicId")
	}
	ok, err := s.subtopics.SubtopicExists(ctx, userID, subtopicID)
	if err != nil {
		return fmt.Errorf("checking subtopic %s: %w", subtopicID, err)
	}
	if !ok {
		return apperror.InvalidID("subtopicId")
	}
	return nil
}
