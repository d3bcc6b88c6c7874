package service

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"testing"

	"github.com/rs/xid"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/model"
	"github.com/sakif/bandolera/internal/repository"
)

// mockStore is an in-memory implementation of all four repository
// interfaces. It mirrors the ownership scoping of the real store: lookups by
// id check the owner and report NotFound on a mismatch. IDs are real xids so
// the services' syntactic id checks pass.
type mockStore struct {
	users     map[string]*model.User
	topics    map[string]*model.Topic
	subtopics map[string]*model.Subtopic
	snippets  map[string]*model.Snippet

	// forcedErr, when set, is returned by every method — used to simulate a
	// store outage.
	forcedErr error
}

var (
	_ repository.UserRepository     = (*mockStore)(nil)
	_ repository.TopicRepository    = (*mockStore)(nil)
	_ repository.SubtopicRepository = (*mockStore)(nil)
	_ repository.SnippetRepository  = (*mockStore)(nil)
)

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[string]*model.User),
		topics:    make(map[string]*model.Topic),
		subtopics: make(map[string]*model.Subtopic),
		snippets:  make(map[string]*model.Snippet),
	}
}

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.Conflict("username", "Username already taken")
		}
	}
	user.ID = xid.New().String()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockStore) ListUsers(_ context.Context) ([]model.User, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockStore) CreateTopic(_ context.Context, topic *model.Topic) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	topic.ID = xid.New().String()
	stored := *topic
	m.topics[topic.ID] = &stored
	return nil
}

func (m *mockStore) GetTopicByID(_ context.Context, userID, id string) (*model.Topic, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	t, ok := m.topics[id]
	if !ok || t.UserID != userID {
		return nil, apperror.NotFound("topic", id)
	}
	result := *t
	return &result, nil
}

func (m *mockStore) ListTopics(_ context.Context, userID string) ([]model.Topic, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	topics := []model.Topic{}
	for _, t := range m.topics {
		if t.UserID == userID {
			topics = append(topics, *t)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Title < topics[j].Title })
	return topics, nil
}

func (m *mockStore) UpdateTopic(_ context.Context, topic *model.Topic) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	t, ok := m.topics[topic.ID]
	if !ok || t.UserID != topic.UserID {
		return apperror.NotFound("topic", topic.ID)
	}
	stored := *topic
	m.topics[topic.ID] = &stored
	return nil
}

func (m *mockStore) DeleteTopic(_ context.Context, userID, id string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	t, ok := m.topics[id]
	if !ok || t.UserID != userID {
		return apperror.NotFound("topic", id)
	}
	delete(m.topics, id)
	return nil
}

func (m *mockStore) TopicExists(_ context.Context, userID, id string) (bool, error) {
	if m.forcedErr != nil {
		return false, m.forcedErr
	}
	t, ok := m.topics[id]
	return ok && t.UserID == userID, nil
}

func (m *mockStore) CreateSubtopic(_ context.Context, subtopic *model.Subtopic) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	for _, s := range m.subtopics {
		if s.UserID == subtopic.UserID && s.Title == subtopic.Title {
			return apperror.Conflict("title", "Subtopic title already exists")
		}
	}
	subtopic.ID = xid.New().String()
	stored := *subtopic
	m.subtopics[subtopic.ID] = &stored
	return nil
}

func (m *mockStore) GetSubtopicByID(_ context.Context, userID, id string) (*model.Subtopic, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	s, ok := m.subtopics[id]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("subtopic", id)
	}
	result := *s
	return &result, nil
}

func (m *mockStore) ListSubtopics(_ context.Context, userID string) ([]model.Subtopic, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	subtopics := []model.Subtopic{}
	for _, s := range m.subtopics {
		if s.UserID == userID {
			subtopics = append(subtopics, *s)
		}
	}
	sort.Slice(subtopics, func(i, j int) bool { return subtopics[i].Title < subtopics[j].Title })
	return subtopics, nil
}

func (m *mockStore) UpdateSubtopic(_ context.Context, subtopic *model.Subtopic) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	s, ok := m.subtopics[subtopic.ID]
	if !ok || s.UserID != subtopic.UserID {
		return apperror.NotFound("subtopic", subtopic.ID)
	}
	stored := *subtopic
	m.subtopics[subtopic.ID] = &stored
	return nil
}

func (m *mockStore) DeleteSubtopic(_ context.Context, userID, id string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	s, ok := m.subtopics[id]
	if !ok || s.UserID != userID {
		return apperror.NotFound("subtopic", id)
	}
	delete(m.subtopics, id)
	return nil
}

func (m *mockStore) SubtopicExists(_ context.Context, userID, id string) (bool, error) {
	if m.forcedErr != nil {
		return false, m.forcedErr
	}
	s, ok := m.subtopics[id]
	return ok && s.UserID == userID, nil
}

func (m *mockStore) SubtopicTitleTaken(_ context.Context, userID, title, excludeID string) (bool, error) {
	if m.forcedErr != nil {
		return false, m.forcedErr
	}
	for id, s := range m.subtopics {
		if s.UserID == userID && s.Title == title && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) SubtopicIDsByTopic(_ context.Context, userID, topicID string) ([]string, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	ids := []string{}
	for id, s := range m.subtopics {
		if s.UserID == userID && s.TopicID == topicID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockStore) DeleteSubtopicsByTopic(_ context.Context, userID, topicID string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	for id, s := range m.subtopics {
		if s.UserID == userID && s.TopicID == topicID {
			delete(m.subtopics, id)
		}
	}
	return nil
}

func (m *mockStore) CreateSnippet(_ context.Context, snippet *model.Snippet) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	snippet.ID = xid.New().String()
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *mockStore) GetSnippetByID(_ context.Context, userID, id string) (*model.Snippet, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	s, ok := m.snippets[id]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("snippet", id)
	}
	result := *s
	return &result, nil
}

func (m *mockStore) ListSnippets(_ context.Context, userID string, filter repository.SnippetFilter) ([]model.Snippet, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	snippets := []model.Snippet{}
	for _, s := range m.snippets {
		if s.UserID != userID {
			continue
		}
		if filter.SubtopicID != "" && s.SubtopicID != filter.SubtopicID {
			continue
		}
		snippets = append(snippets, *s)
	}
	sort.Slice(snippets, func(i, j int) bool {
		return snippets[i].UpdatedAt.After(snippets[j].UpdatedAt)
	})
	return snippets, nil
}

func (m *mockStore) UpdateSnippet(_ context.Context, snippet *model.Snippet) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	s, ok := m.snippets[snippet.ID]
	if !ok || s.UserID != snippet.UserID {
		return apperror.NotFound("snippet", snippet.ID)
	}
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *mockStore) DeleteSnippet(_ context.Context, userID, id string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	s, ok := m.snippets[id]
	if !ok || s.UserID != userID {
		return apperror.NotFound("snippet", id)
	}
	delete(m.snippets, id)
	return nil
}

func (m *mockStore) DeleteSnippetsBySubtopics(_ context.Context, userID string, subtopicIDs []string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	members := make(map[string]bool, len(subtopicIDs))
	for _, id := range subtopicIDs {
		members[id] = true
	}
	for id, s := range m.snippets {
		if s.UserID == userID && members[s.SubtopicID] {
			delete(m.snippets, id)
		}
	}
	return nil
}

func (m *mockStore) ClearSnippetSubtopic(_ context.Context, userID, subtopicID string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	for _, s := range m.snippets {
		if s.UserID == userID && s.SubtopicID == subtopicID {
			s.SubtopicID = ""
		}
	}
	return nil
}

// testLogger discards everything below Error so test output stays readable.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
