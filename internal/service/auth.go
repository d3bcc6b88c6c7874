package service

import (
	"context"
	"log/slog"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/auth"
	"github.com/sakif/bandolera/internal/model"
	"github.com/sakif/bandolera/internal/repository"
)

// AuthService performs username/password login and token refresh.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Login verifies the credentials and issues a signed token.
//
// Unknown username and wrong password return the exact same Unauthorized
// error — the response must not reveal whether an account exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", apperror.Unauthorized()
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		return "", apperror.Unauthorized()
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", apperror.Unauthorized()
	}

	s.logger.Info("user logged in",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return token, nil
}

// Refresh re-issues a token from an already-verified identity. The caller
// (the refresh handler, behind RequireAuth) guarantees the claim came from a
// currently-valid token.
func (s *AuthService) Refresh(claim *auth.UserClaim) (string, error) {
	token, err := s.tokens.Issue(&model.User{
		ID:       claim.ID,
		Username: claim.Username,
		FullName: claim.FullName,
	})
	if err != nil {
		return "", apperror.Unauthorized()
	}
	return token, nil
}
