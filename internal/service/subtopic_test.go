package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/xid"

	"github.com/sakif/bandolera/internal/apperror"
)

func newTestSubtopicService(t *testing.T, store *mockStore) *SubtopicService {
	t.Helper()
	return NewSubtopicService(store, store, store, testLogger(t))
}

func TestSubtopicCreate(t *testing.T) {
	store := newMockStore()
	topics := newTestTopicService(t, store)
	svc := newTestSubtopicService(t, store)

	topic, err := topics.Create(context.Background(), "user-a", "Cooking")
	if err != nil {
		t.Fatalf("Create topic failed: %v", err)
	}

	subtopic, err := svc.Create(context.Background(), "user-a", "Desserts", topic.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if subtopic.TopicID != topic.ID {
		t.Errorf("topicID = %q, want %q", subtopic.TopicID, topic.ID)
	}
}

func TestSubtopicCreate_WithoutTopic(t *testing.T) {
	svc := newTestSubtopicService(t, newMockStore())

	subtopic, err := svc.Create(context.Background(), "user-a", "Standalone", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if subtopic.TopicID != "" {
		t.Errorf("topicID = %q, want empty", subtopic.TopicID)
	}
}

func TestSubtopicCreate_BadTopicRef(t *testing.T) {
	store := newMockStore()
	topics := newTestTopicService(t, store)
	svc := newTestSubtopicService(t, store)

	other, err := topics.Create(context.Background(), "user-b", "Theirs")
	if err != nil {
		t.Fatalf("Create topic failed: %v", err)
	}

	tests := []struct {
		name    string
		topicID string
	}{
		{"malformed id", "NOT-A-VALID-ID"},
		{"well-formed but nonexistent", xid.New().String()},
		{"another user's topic", other.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-a", "Desserts", tt.topicID)
			if !errors.Is(err, apperror.ErrInvalidID) {
				t.Fatalf("error = %v, want ErrInvalidID", err)
			}
			if err.Error() != "The `topicId` is not valid" {
				t.Errorf("message = %q, want %q", err.Error(), "The `topicId` is not valid")
			}
		})
	}
}

func TestSubtopicCreate_DuplicateTitle(t *testing.T) {
	store := newMockStore()
	svc := newTestSubtopicService(t, store)

	if _, err := svc.Create(context.Background(), "user-a", "Desserts", ""); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := svc.Create(context.Background(), "user-a", "Desserts", "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
	if err.Error() != "Subtopic title already exists" {
		t.Errorf("message = %q, want %q", err.Error(), "Subtopic title already exists")
	}

	// The same title under a different user is fine.
	if _, err := svc.Create(context.Background(), "user-b", "Desserts", ""); err != nil {
		t.Errorf("other user's Create failed: %v", err)
	}
}

func TestSubtopicUpdate_PartialFields(t *testing.T) {
	store := newMockStore()
	topics := newTestTopicService(t, store)
	svc := newTestSubtopicService(t, store)

	topic, err := topics.Create(context.Background(), "user-a", "Cooking")
	if err != nil {
		t.Fatalf("Create topic failed: %v", err)
	}
	subtopic, err := svc.Create(context.Background(), "user-a", "Desserts", topic.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Title only: the parent link stays.
	title := "Pastries"
	updated, err := svc.Update(context.Background(), "user-a", subtopic.ID, SubtopicUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Pastries" {
		t.Errorf("title = %q, want %q", updated.Title, "Pastries")
	}
	if updated.TopicID != topic.ID {
		t.Errorf("topicID = %q, want unchanged %q", updated.TopicID, topic.ID)
	}

	// Empty topicId clears the parent link.
	noTopic := ""
	updated, err = svc.Update(context.Background(), "user-a", subtopic.ID, SubtopicUpdate{TopicID: &noTopic})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.TopicID != "" {
		t.Errorf("topicID = %q, want cleared", updated.TopicID)
	}
}

func TestSubtopicUpdate_SameTitleNoConflict(t *testing.T) {
	store := newMockStore()
	svc := newTestSubtopicService(t, store)

	subtopic, err := svc.Create(context.Background(), "user-a", "Desserts", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Re-submitting the current title must not trip the uniqueness check.
	title := "Desserts"
	if _, err := svc.Update(context.Background(), "user-a", subtopic.ID, SubtopicUpdate{Title: &title}); err != nil {
		t.Errorf("Update with unchanged title failed: %v", err)
	}
}

func TestSubtopicUpdate_TitleConflict(t *testing.T) {
	store := newMockStore()
	svc := newTestSubtopicService(t, store)

	if _, err := svc.Create(context.Background(), "user-a", "Desserts", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	soups, err := svc.Create(context.Background(), "user-a", "Soups", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	title := "Desserts"
	_, err = svc.Update(context.Background(), "user-a", soups.ID, SubtopicUpdate{Title: &title})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestSubtopicDelete_UnlinksSnippets(t *testing.T) {
	store := newMockStore()
	svc := newTestSubtopicService(t, store)
	snippets := NewSnippetService(store, store, testLogger(t))

	subtopic, err := svc.Create(context.Background(), "user-a", "Desserts", "")
	if err != nil {
		t.Fatalf("Create subtopic failed: %v", err)
	}
	cake, err := snippets.Create(context.Background(), "user-a", SnippetCreate{
		Title: "Cake", SubtopicID: subtopic.ID,
	})
	if err != nil {
		t.Fatalf("Create snippet failed: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-a", subtopic.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), "user-a", subtopic.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("subtopic: error = %v, want ErrNotFound", err)
	}

	// The snippet survives with its parent link cleared.
	got, err := snippets.Get(context.Background(), "user-a", cake.ID)
	if err != nil {
		t.Fatalf("snippet should survive, got %v", err)
	}
	if got.SubtopicID != "" {
		t.Errorf("snippet subtopicID = %q, want cleared", got.SubtopicID)
	}
}

func TestSubtopicDelete_OtherUsersSubtopicIsNotFound(t *testing.T) {
	store := newMockStore()
	svc := newTestSubtopicService(t, store)

	subtopic, err := svc.Create(context.Background(), "user-a", "Desserts", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-b", subtopic.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
