package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/auth"
	"github.com/sakif/bandolera/internal/service"
)

// TopicHandler serves CRUD for topics. All routes sit behind RequireAuth, so
// every method starts by pulling the authenticated user out of the context —
// the services scope every query to that user.
type TopicHandler struct {
	topics *service.TopicService
	logger *slog.Logger
}

// NewTopicHandler creates a TopicHandler.
func NewTopicHandler(topics *service.TopicService, logger *slog.Logger) *TopicHandler {
	return &TopicHandler{topics: topics, logger: logger}
}

// currentUser returns the claim set by the auth middleware. A miss means the
// route was wired without RequireAuth — treated as unauthorized, never as an
// anonymous pass-through.
func currentUser(r *http.Request) (*auth.UserClaim, error) {
	claim, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, apperror.Unauthorized()
	}
	return claim, nil
}

// HandleList returns the caller's topics, title ascending.
//
// HTTP: GET /topics
func (h *TopicHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	topics, err := h.topics.List(r.Context(), claim.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, topics)
}

// HandleGet returns a single topic.
//
// HTTP: GET /topics/{id}
func (h *TopicHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	topic, err := h.topics.Get(r.Context(), claim.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, topic)
}

// HandleCreate saves a new topic.
//
// HTTP: POST /topics, body {"title": "..."}
func (h *TopicHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}

	topic, err := h.topics.Create(r.Context(), claim.ID, body.Title)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%s", r.URL.Path, topic.ID))
	writeJSON(w, http.StatusCreated, topic)
}

// HandleUpdate replaces a topic's title.
//
// HTTP: PUT /topics/{id}, body {"title": "..."}
func (h *TopicHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}

	topic, err := h.topics.Update(r.Context(), claim.ID, r.PathValue("id"), body.Title)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, topic)
}

// HandleDelete removes a topic and cascades to its subtopics and their
// snippets.
//
// HTTP: DELETE /topics/{id} → 204
func (h *TopicHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.topics.Delete(r.Context(), claim.ID, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
