package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/bandolera/internal/apperror"
	"github.com/sakif/bandolera/internal/auth"
)

// bcrypt's minimum cost keeps the hashing in these tests fast.
func newTestUserService(t *testing.T, store *mockStore) *UserService {
	t.Helper()
	return NewUserService(store, auth.NewPasswordServiceWithCost(4), testLogger(t))
}

func TestRegister_Success(t *testing.T) {
	store := newMockStore()
	svc := newTestUserService(t, store)

	user, err := svc.Register(context.Background(), "alice", "verysecurepw1", "Alice Liddell")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.ID == "" {
		t.Error("expected a generated id")
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}
	if user.FullName != "Alice Liddell" {
		t.Errorf("fullName = %q, want %q", user.FullName, "Alice Liddell")
	}
	if user.PasswordHash == "verysecurepw1" {
		t.Error("password stored in plaintext")
	}
	if !strings.HasPrefix(user.PasswordHash, "$2a$") {
		t.Errorf("password hash %q is not a bcrypt hash", user.PasswordHash)
	}
}

func TestRegister_TrimsFullName(t *testing.T) {
	store := newMockStore()
	svc := newTestUserService(t, store)

	user, err := svc.Register(context.Background(), "alice", "verysecurepw1", "  Alice Liddell  ")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.FullName != "Alice Liddell" {
		t.Errorf("fullName = %q, want trimmed %q", user.FullName, "Alice Liddell")
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		password     string
		wantMessage  string
		wantLocation string
	}{
		{
			name:         "username leading whitespace",
			username:     " alice",
			password:     "verysecurepw1",
			wantMessage:  "Cannot start or end with whitespace",
			wantLocation: "username",
		},
		{
			name:         "password trailing whitespace",
			username:     "alice",
			password:     "verysecurepw1 ",
			wantMessage:  "Cannot start or end with whitespace",
			wantLocation: "password",
		},
		{
			name:         "empty username",
			username:     "",
			password:     "verysecurepw1",
			wantMessage:  "Must be at least 1 characters long",
			wantLocation: "username",
		},
		{
			name:         "short password",
			username:     "alice",
			password:     "short",
			wantMessage:  "Must be at least 10 characters long",
			wantLocation: "password",
		},
		{
			// 5 characters but 10 bytes — the minimum counts characters,
			// so the byte length must not sneak this past the check.
			name:         "short multibyte password",
			username:     "alice",
			password:     "ááááá",
			wantMessage:  "Must be at least 10 characters long",
			wantLocation: "password",
		},
		{
			name:         "overlong password",
			username:     "alice",
			password:     strings.Repeat("x", 73),
			wantMessage:  "Must be at most 72 characters long",
			wantLocation: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestUserService(t, newMockStore())

			_, err := svc.Register(context.Background(), tt.username, tt.password, "")
			if err == nil {
				t.Fatal("expected a validation error")
			}

			var regErr *apperror.RegistrationError
			if !errors.As(err, &regErr) {
				t.Fatalf("error type = %T, want *apperror.RegistrationError", err)
			}
			if regErr.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", regErr.Message, tt.wantMessage)
			}
			if regErr.Location != tt.wantLocation {
				t.Errorf("location = %q, want %q", regErr.Location, tt.wantLocation)
			}
			if regErr.Code != 422 || regErr.Reason != "ValidationError" {
				t.Errorf("code/reason = %d/%q, want 422/ValidationError", regErr.Code, regErr.Reason)
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Error("registration error should unwrap to ErrValidation")
			}
		})
	}
}

func TestRegister_MultibytePasswordAtMinimumLength(t *testing.T) {
	// 10 characters (20 bytes) satisfies the character-counted minimum.
	svc := newTestUserService(t, newMockStore())

	if _, err := svc.Register(context.Background(), "alice", "áéíóúáéíóú", ""); err != nil {
		t.Errorf("Register failed: %v", err)
	}
}

func TestRegister_WhitespaceOrderBeforeLength(t *testing.T) {
	// A password that is both untrimmed and too short fails on the
	// whitespace rule first.
	svc := newTestUserService(t, newMockStore())

	_, err := svc.Register(context.Background(), "alice", " x ", "")

	var regErr *apperror.RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("error type = %T, want *apperror.RegistrationError", err)
	}
	if regErr.Message != "Cannot start or end with whitespace" {
		t.Errorf("message = %q, want whitespace rule to win", regErr.Message)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := newMockStore()
	svc := newTestUserService(t, store)

	if _, err := svc.Register(context.Background(), "alice", "verysecurepw1", ""); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), "alice", "otherpassword9", "")
	if err == nil {
		t.Fatal("expected duplicate-username error")
	}

	var regErr *apperror.RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("error type = %T, want *apperror.RegistrationError", err)
	}
	if regErr.Message != "Username already taken" {
		t.Errorf("message = %q, want %q", regErr.Message, "Username already taken")
	}
	if regErr.Location != "username" {
		t.Errorf("location = %q, want %q", regErr.Location, "username")
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	store := newMockStore()
	store.forcedErr = errors.New("disk on fire")
	svc := newTestUserService(t, store)

	_, err := svc.Register(context.Background(), "alice", "verysecurepw1", "")
	if err == nil {
		t.Fatal("expected an error")
	}
	var regErr *apperror.RegistrationError
	if errors.As(err, &regErr) {
		t.Errorf("store failure must not surface as a validation error, got %v", regErr)
	}
}

func TestList_ReturnsUsers(t *testing.T) {
	store := newMockStore()
	svc := newTestUserService(t, store)

	for _, name := range []string{"alice", "bob"} {
		if _, err := svc.Register(context.Background(), name, "verysecurepw1", ""); err != nil {
			t.Fatalf("Register(%s) failed: %v", name, err)
		}
	}

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}
