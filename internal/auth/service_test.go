package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/learnforge/learnforge/internal/auth"
	"github.com/learnforge/learnforge/internal/store/memory"
)

func TestService_RegisterAndLogin(t *testing.T) {
	svc := auth.NewService(memory.NewStore(), time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, auth.RegisterRequest{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password must not be stored in plain text")
	}

	result, err := svc.Login(ctx, auth.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() should issue a session token")
	}

	got, _, err := svc.ValidateSession(ctx, result.Token)
	if err != nil {
		t.Fatalf("ValidateSession() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ValidateSession() user = %v; want %v", got.ID, user.ID)
	}
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	svc := auth.NewService(memory.NewStore(), time.Hour)
	ctx := context.Background()

	req := auth.RegisterRequest{Email: "dup@example.com", Password: "password1"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, auth.ErrEmailExists) {
		t.Errorf("second Register() error = %v; want ErrEmailExists", err)
	}
}

func TestService_LoginWrongPassword(t *testing.T) {
	svc := auth.NewService(memory.NewStore(), time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, auth.RegisterRequest{Email: "bob@example.com", Password: "password1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "bob@example.com", Password: "wrong"})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v; want ErrInvalidCredentials", err)
	}
}

func TestService_ExpiredSession(t *testing.T) {
	svc := auth.NewService(memory.NewStore(), -time.Minute) // sessions already expired
	ctx := context.Background()

	if _, err := svc.Register(ctx, auth.RegisterRequest{Email: "eve@example.com", Password: "password1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	result, err := svc.Login(ctx, auth.LoginRequest{Email: "eve@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, _, err := svc.ValidateSession(ctx, result.Token); !errors.Is(err, auth.ErrSessionExpired) {
		t.Errorf("ValidateSession() error = %v; want ErrSessionExpired", err)
	}
}

func TestService_Logout(t *testing.T) {
	svc := auth.NewService(memory.NewStore(), time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, auth.RegisterRequest{Email: "kim@example.com", Password: "password1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	result, err := svc.Login(ctx, auth.LoginRequest{Email: "kim@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(ctx, result.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, _, err := svc.ValidateSession(ctx, result.Token); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("ValidateSession() after logout error = %v; want ErrSessionNotFound", err)
	}
}
