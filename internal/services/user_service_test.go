package services

import (
	"context"
	"errors"
	"testing"

	"inventory-api/internal/models"
	"inventory-api/internal/store"

	"github.com/rs/zerolog"
)

func newUserService() *UserService {
	return NewUserService(store.NewMemory(), zerolog.Nop())
}

func TestRegister(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	userID, err := svc.Register(ctx, &models.SignupRequest{Username: "alice", Password: "pw123456"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if userID != 1 {
		t.Errorf("expected user id 1, got %d", userID)
	}

	user, err := svc.Authenticate(ctx, &models.LoginRequest{Username: "alice", Password: "pw123456"})
	if err != nil {
		t.Fatalf("Authenticate after Register failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected username alice, got %q", user.Username)
	}
	if user.PasswordHash == "pw123456" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &models.SignupRequest{Username: "alice", Password: "pw123456"}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register(ctx, &models.SignupRequest{Username: "alice", Password: "different"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// The first record must be untouched by the failed signup.
	if _, err := svc.Authenticate(ctx, &models.LoginRequest{Username: "alice", Password: "pw123456"}); err != nil {
		t.Errorf("original credentials stopped working after duplicate signup: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	cases := []models.SignupRequest{
		{Username: "", Password: "pw123456"},
		{Username: "alice", Password: ""},
		{},
	}
	for _, req := range cases {
		_, err := svc.Register(ctx, &req)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Register(%+v): expected ValidationError, got %v", req, err)
		}
	}
}

func TestAuthenticateDoesNotLeakUsernames(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &models.SignupRequest{Username: "alice", Password: "pw123456"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, wrongPassword := svc.Authenticate(ctx, &models.LoginRequest{Username: "alice", Password: "nope"})
	_, unknownUser := svc.Authenticate(ctx, &models.LoginRequest{Username: "bob", Password: "nope"})

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("wrong-password and unknown-user errors differ: %q vs %q",
			wrongPassword.Error(), unknownUser.Error())
	}
}
