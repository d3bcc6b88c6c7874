package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/auth"
	"github.com/sakif/bandolera/internal/model"
	"github.com/sakif/bandolera/internal/repository"
)

// Credential length bounds. The password maximum matches bcrypt's 72-byte
// input limit — storing longer input would only pretend to add entropy.
const (
	MinUsernameLength = 1
	MinPasswordLength = 10
	MaxPasswordLength = 72
)

// UserService handles registration and the debug user listing.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register validates the credentials, hashes the password, and stores the new
// account.
//
// Validation rules (each failure is a *apperror.RegistrationError carrying
// the offending field as its location):
//   - username and password must not start or end with whitespace — they are
//     credentials, so we reject rather than silently trim
//   - username must be at least 1 character, password 10–72 characters
//   - username must not already be taken
//
// fullName is not a credential and IS silently trimmed; it defaults to "".
//
// Uniqueness is check-then-insert: the read catches the common case with a
// friendly error, and the UNIQUE column catches the concurrent-registration
// race, which the repository reports as ErrConflict and we translate to the
// same 422 body.
func (s *UserService) Register(ctx context.Context, username, password, fullName string) (*model.User, error) {
	for _, f := range []struct{ name, value string }{
		{"username", username},
		{"password", password},
	} {
		if f.value != strings.TrimSpace(f.value) {
			return nil, apperror.Registration("Cannot start or end with whitespace", f.name)
		}
	}

	// Minimum bounds count characters, so multibyte input is measured the
	// way users see it. The maximum stays in bytes: it exists for bcrypt's
	// 72-byte input limit, not for display length.
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return nil, apperror.Registration(
			fmt.Sprintf("Must be at least %d characters long", MinUsernameLength), "username")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, apperror.Registration(
			fmt.Sprintf("Must be at least %d characters long", MinPasswordLength), "password")
	}
	if len(password) > MaxPasswordLength {
		return nil, apperror.Registration(
			fmt.Sprintf("Must be at most %d characters long", MaxPasswordLength), "password")
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, apperror.Registration("Username already taken", "username")
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("checking username %q: %w", username, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost the race against a concurrent registration.
			return nil, apperror.Registration("Username already taken", "username")
		}
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// List returns all registered users. Debug endpoint — never expose this in a
// real deployment.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}
