package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Evgen-Mutagen/tapcash/internal/repository"
)

func TestRegisterLoginValidate(t *testing.T) {
	svc := NewAuthService(repository.NewMemoryStore(), "test-secret")
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "tapper", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	id, err := svc.ValidateToken(token)
	if err != nil || id != user.ID {
		t.Fatalf("ValidateToken = %d, %v", id, err)
	}

	if _, _, err := svc.Register(ctx, "tapper", "other"); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}

	if _, _, err := svc.Login(ctx, "tapper", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	logged, token, err := svc.Login(ctx, "tapper", "hunter2")
	if err != nil || logged.ID != user.ID || token == "" {
		t.Fatalf("Login = %+v, %q, %v", logged, token, err)
	}
}

func TestRegisterRequiresCredentials(t *testing.T) {
	svc := NewAuthService(repository.NewMemoryStore(), "test-secret")
	if _, _, err := svc.Register(context.Background(), " ", "pw"); !errors.Is(err, ErrEmptyCredentials) {
		t.Fatalf("expected ErrEmptyCredentials, got %v", err)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	store := repository.NewMemoryStore()
	_, token, err := NewAuthService(store, "one").Register(context.Background(), "u", "p")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := NewAuthService(store, "two").ValidateToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
