package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/core/ports"
)

func newProgressFixture() (*stubProgressRepo, *stubUserRepo, ports.ProgressService) {
	progress := newStubProgressRepo()
	users := newStubUserRepo()
	progression := NewProgressionService(users, nil, zerolog.Nop())
	svc := NewProgressService(progress, users, progression, zerolog.Nop())
	return progress, users, svc
}

func TestProgressService_SaveAndGet(t *testing.T) {
	_, users, svc := newProgressFixture()
	users.put(&domain.User{ID: "u1", Username: "alice"})

	if err := svc.Save(context.Background(), "u1", "b1", 42); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	status, err := svc.Get(context.Background(), "u1", "b1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if status.CurrentPage != 42 || status.Completed {
		t.Fatalf("unexpected status %+v", status)
	}

	// Saving again overwrites the page.
	if err := svc.Save(context.Background(), "u1", "b1", 57); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	status, _ = svc.Get(context.Background(), "u1", "b1")
	if status.CurrentPage != 57 {
		t.Fatalf("expected page 57, got %d", status.CurrentPage)
	}
}

func TestProgressService_Save_ClampsPageToOne(t *testing.T) {
	_, _, svc := newProgressFixture()

	if err := svc.Save(context.Background(), "u1", "b1", 0); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	status, _ := svc.Get(context.Background(), "u1", "b1")
	if status.CurrentPage != 1 {
		t.Fatalf("expected page clamped to 1, got %d", status.CurrentPage)
	}
}

func TestProgressService_Get_DefaultWithoutRecord(t *testing.T) {
	progress, _, svc := newProgressFixture()

	status, err := svc.Get(context.Background(), "u1", "b1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if status.CurrentPage != 1 || status.Completed {
		t.Fatalf("expected default {1,false}, got %+v", status)
	}

	// The default must be synthesized, never written back.
	if _, err := progress.Find(context.Background(), "u1", "b1"); !errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected no record created by Get, got %v", err)
	}
}

func TestProgressService_Finish_CreditsXPOnce(t *testing.T) {
	_, users, svc := newProgressFixture()
	users.put(&domain.User{ID: "u1", Username: "alice"})

	if err := svc.Save(context.Background(), "u1", "b1", 300); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	user, err := svc.Finish(context.Background(), "u1", "b1")
	if err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if user.XP != domain.XPRewardCompletion {
		t.Fatalf("expected +%d xp, got %d", domain.XPRewardCompletion, user.XP)
	}

	// A second finish must fail and must not credit again.
	if _, err := svc.Finish(context.Background(), "u1", "b1"); !errors.Is(err, domain.ErrAlreadyFinished) {
		t.Fatalf("expected ErrAlreadyFinished, got %v", err)
	}
	stored, _ := users.FindByID(context.Background(), "u1")
	if stored.XP != domain.XPRewardCompletion {
		t.Fatalf("expected xp unchanged after repeated finish, got %d", stored.XP)
	}
}

func TestProgressService_Finish_WithoutProgress(t *testing.T) {
	_, users, svc := newProgressFixture()
	users.put(&domain.User{ID: "u1", Username: "alice"})

	if _, err := svc.Finish(context.Background(), "u1", "b1"); !errors.Is(err, domain.ErrNoProgress) {
		t.Fatalf("expected ErrNoProgress, got %v", err)
	}
	stored, _ := users.FindByID(context.Background(), "u1")
	if stored.XP != 0 {
		t.Fatalf("expected no xp without a completion, got %d", stored.XP)
	}
}

func TestProgressService_Finish_UnknownUser(t *testing.T) {
	_, _, svc := newProgressFixture()

	if _, err := svc.Finish(context.Background(), "ghost", "b1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProgressService_Finish_CanLevelUp(t *testing.T) {
	_, users, svc := newProgressFixture()
	users.put(&domain.User{ID: "u1", Username: "alice", XP: 60, Level: 0})

	if err := svc.Save(context.Background(), "u1", "b1", 12); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	user, err := svc.Finish(context.Background(), "u1", "b1")
	if err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if user.XP != 110 || user.Level != 1 {
		t.Fatalf("expected xp=110 level=1, got xp=%d level=%d", user.XP, user.Level)
	}
}
