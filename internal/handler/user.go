package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/service"
)

// UserHandler serves registration and the debug user listing.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleRegister creates a new account.
//
// HTTP: POST /users, body {"username", "password", "fullName"?}
//
// The handler owns the request-shape checks — field presence and string
// typing — because those are JSON concerns; decoding into a map keeps the
// distinction between "absent" and "wrong type" that a struct would erase.
// Everything else (trimming rules, lengths, uniqueness) lives in the service.
// All validation failures are 422 with {code, reason, message, location}.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}

	for _, field := range []string{"username", "password"} {
		if _, ok := body[field]; !ok {
			writeError(w, h.logger, apperror.Registration("Missing field", field))
			return
		}
	}

	values := map[string]string{"fullName": ""}
	for _, field := range []string{"username", "password", "fullName"} {
		raw, ok := body[field]
		if !ok {
			continue
		}
		str, isString := raw.(string)
		if !isString {
			writeError(w, h.logger, apperror.Registration("Incorrect field type: expected string", field))
			return
		}
		values[field] = str
	}

	user, err := h.users.Register(r.Context(), values["username"], values["password"], values["fullName"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/users/%s", user.ID))
	writeJSON(w, http.StatusCreated, user)
}

// HandleList returns every registered user, passwords omitted.
//
// HTTP: GET /users
//
// Debug visibility only — a production deployment would drop this route.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
