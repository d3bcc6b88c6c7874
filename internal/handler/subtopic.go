package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/bandolera/internal/service"
)

// SubtopicHandler serves CRUD for subtopics.
type SubtopicHandler struct {
	subtopics *service.SubtopicService
	logger    *slog.Logger
}

// NewSubtopicHandler creates a SubtopicHandler.
func NewSubtopicHandler(subtopics *service.SubtopicService, logger *slog.Logger) *SubtopicHandler {
	return &SubtopicHandler{subtopics: subtopics, logger: logger}
}

// HandleList returns the caller's subtopics, title ascending.
//
// HTTP: GET /subtopics
func (h *SubtopicHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	subtopics, err := h.subtopics.List(r.Context(), claim.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subtopics)
}

// HandleGet returns a single subtopic.
//
// HTTP: GET /subtopics/{id}
func (h *SubtopicHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	subtopic, err := h.subtopics.Get(r.Context(), claim.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subtopic)
}

// HandleCreate saves a new subtopic. An optional topicId links it under one
// of the caller's topics.
//
// HTTP: POST /subtopics, body {"title": "...", "topicId"?: "..."}
func (h *SubtopicHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		Title   string `json:"title"`
		TopicID string `json:"topicId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}

	subtopic, err := h.subtopics.Create(r.Context(), claim.ID, body.Title, body.TopicID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%s", r.URL.Path, subtopic.ID))
	writeJSON(w, http.StatusCreated, subtopic)
}

// HandleUpdate applies a partial update. Omitted fields stay as they are; an
// explicit empty topicId unfiles the subtopic.
//
// HTTP: PUT /subtopics/{id}, body {"title"?: "...", "topicId"?: "..."}
func (h *SubtopicHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		Title   *string `json:"title"`
		TopicID *string `json:"topicId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}

	subtopic, err := h.subtopics.Update(r.Context(), claim.ID, r.PathValue("id"), service.SubtopicUpdate{
		Title:   body.Title,
		TopicID: body.TopicID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subtopic)
}

// HandleDelete removes a subtopic; its snippets survive with the link
// cleared.
//
// HTTP: DELETE /subtopics/{id} → 204
func (h *SubtopicHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.subtopics.Delete(r.Context(), claim.ID, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
