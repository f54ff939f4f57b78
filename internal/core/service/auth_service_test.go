package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/readquest/library-system/internal/core/domain"
)

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Signup(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.XP != 0 || user.Level != 0 {
		t.Fatalf("expected fresh account at xp 0 level 0, got xp=%d level=%d", user.XP, user.Level)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Signup(context.Background(), "alice", "pass123"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "alice", "other"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_EmptyFields(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	if _, err := svc.Signup(context.Background(), "", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty username, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "alice", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Signup(context.Background(), "alice", "pass123"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if user == nil || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims["user_id"] != user.ID {
		t.Fatalf("expected user_id %q in claims, got %v", user.ID, claims["user_id"])
	}
	if claims["role"] != domain.RoleUser {
		t.Fatalf("expected role %q in claims, got %v", domain.RoleUser, claims["role"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Signup(context.Background(), "alice", "pass123"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
