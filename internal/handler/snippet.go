package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/bandolera/internal/service"
)

// SnippetHandler serves CRUD for snippets.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// HandleList returns the caller's snippets, most recently updated first.
//
// HTTP: GET /snippets[?subtopicId=...]
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	snippets, err := h.snippets.List(r.Context(), claim.ID, r.URL.Query().Get("subtopicId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleGet returns a single snippet.
//
// HTTP: GET /snippets/{id}
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	snippet, err := h.snippets.Get(r.Context(), claim.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleCreate saves a new snippet. An optional subtopicId links it under
// one of the caller's subtopics.
//
// HTTP: POST /snippets, body {"title": "...", "image"?, "content"?, "subtopicId"?}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		Title      string `json:"title"`
		Image      string `json:"image"`
		Content    string `json:"content"`
		SubtopicID string `json:"subtopicId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}

	snippet, err := h.snippets.Create(r.Context(), claim.ID, service.SnippetCreate{
		Title:      body.Title,
		Image:      body.Image,
		Content:    body.Content,
		SubtopicID: body.SubtopicID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%s", r.URL.Path, snippet.ID))
	writeJSON(w, http.StatusCreated, snippet)
}

// HandleUpdate applies a partial update. Omitted fields stay as they are; an
// explicit empty subtopicId unlinks the snippet.
//
// HTTP: PUT /snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		Title      *string `json:"title"`
		Image      *string `json:"image"`
		Content    *string `json:"content"`
		SubtopicID *string `json:"subtopicId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}

	snippet, err := h.snippets.Update(r.Context(), claim.ID, r.PathValue("id"), service.SnippetUpdate{
		Title:      body.Title,
		Image:      body.Image,
		Content:    body.Content,
		SubtopicID: body.SubtopicID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete removes a snippet.
//
// HTTP: DELETE /snippets/{id} → 204
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claim, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.snippets.Delete(r.Context(), claim.ID, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
