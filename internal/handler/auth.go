package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/auth"
	"github.com/sakif/bandolera/internal/service"
)

// AuthHandler serves login and token refresh.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, logger: logger}
}

// tokenResponse is the body of successful login/refresh calls.
type tokenResponse struct {
	AuthToken string `json:"authToken"`
}

// HandleLogin authenticates a username/password pair and returns a token.
//
// HTTP: POST /auth/login, body {"username": "...", "password": "..."}
//
// Every failure — malformed body, unknown user, wrong password — produces
// the same 401 body, so the response never reveals whether an account exists.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, apperror.Unauthorized())
		return
	}

	token, err := h.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
}

// HandleRefresh issues a fresh token for the already-authenticated caller.
//
// HTTP: POST /auth/refresh (behind RequireAuth)
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	claim, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthorized())
		return
	}

	token, err := h.auth.Refresh(claim)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
}
