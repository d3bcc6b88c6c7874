// Package auth provides JWT token issuance/verification, bcrypt password
// hashing, and the middleware that gates every hierarchy route.
//
// AUTHENTICATION FLOW:
//  1. POST /users registers an account (password stored as a bcrypt hash)
//  2. POST /auth/login verifies the password and returns a signed JWT
//  3. Every data route requires "Authorization: Bearer <token>"
//  4. RequireAuth validates the token and puts the embedded UserClaim in the
//     request context — handlers never see the raw token
//
// The token is stateless: the server keeps no session store. All the identity
// needed to scope queries (user id, username) travels inside the signed token.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/model"
)

// DefaultExpiry is the token lifetime used when none is configured.
const DefaultExpiry = 7 * 24 * time.Hour

const issuer = "bandolera"

// UserClaim is the identity embedded in every token. It is what handlers see
// after the middleware verifies a request — deliberately free of the password
// hash and timestamps.
type UserClaim struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// claims is the JWT payload: the user claim plus the registered fields
// (sub = username, iat, exp, iss).
type claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a TokenService. The secret must be at least 16
// characters; expiry <= 0 falls back to DefaultExpiry (7 days).
func NewTokenService(secret string, expiry time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &TokenService{secret: []byte(secret), expiry: expiry}, nil
}

// Issue signs a new token for the given user with the configured expiry.
// The subject is the username; the full user claim rides in the "user" field.
func (s *TokenService) Issue(user *model.User) (string, error) {
	return s.IssueWithDuration(user, s.expiry)
}

// IssueWithDuration signs a token with a custom lifetime. Used by tests to
// mint already-expired tokens.
func (s *TokenService) IssueWithDuration(user *model.User, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		User: UserClaim{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperror.Unauthorized()
	}

	return signed, nil
}

// Verify parses and validates a token string and returns the embedded
// identity.
//
// Every failure mode — malformed token, bad signature, wrong algorithm,
// expired, missing subject — collapses into the same uniform Unauthorized
// error. Callers (and therefore clients) cannot tell which check failed.
func (s *TokenService) Verify(tokenStr string) (*UserClaim, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("auth: unexpected signing method")
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperror.Unauthorized()
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.User.ID == "" {
		return nil, apperror.Unauthorized()
	}

	return &c.User, nil
}
