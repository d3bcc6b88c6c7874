// Package handler contains the HTTP layer: request parsing, response
// encoding, and the translation of domain errors to status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/bandolera/internal/apperror"
)

// ErrorResponse is the standard error body: a single message field, the
// same shape the router-level 404 and the auth middleware emit.
type ErrorResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must go out before the body; after the first write they are fixed.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent — can only log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP representation. This is the
// single place status codes are chosen, so the services stay HTTP-free.
//
//	RegistrationError            → 422, its own {code, reason, message, location} body
//	ErrValidation / ErrInvalidID → 400
//	ErrConflict                  → 400 (duplicate unique field)
//	ErrNotFound                  → 404
//	ErrUnauthorized              → 401
//	anything else                → 500, generic body; the real error is never leaked
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var regErr *apperror.RegistrationError
	if errors.As(err, &regErr) {
		writeJSON(w, http.StatusUnprocessableEntity, regErr)
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrInvalidID),
			errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{Message: appErr.Message})
			return
		}
	}

	logger.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Message: "Internal Server Error",
	})
}
