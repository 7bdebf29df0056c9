package kapici

import (
	"context"
	"errors"
	"testing"
)

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := validTestConfig()
	cfg.Admin.Password = ""

	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected build to fail on invalid config")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(validTestConfig())

	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestBuilderCustomTrackerWins(t *testing.T) {
	cfg := validTestConfig()
	custom := &stubTracker{locked: true}

	engine, err := New().WithConfig(cfg).WithAttemptTracker(custom).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)

	_, err = engine.Login(clientCtx("1.2.3.4"), "admin", "correct-horse-battery")
	if !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected custom tracker to be consulted, got %v", err)
	}
}

func TestBuilderConfigIsCopied(t *testing.T) {
	cfg := validTestConfig()

	engine, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)

	// Mutating the caller's secret after Build must not affect the engine.
	cfg.JWT.Secret[0] ^= 0xff
	cfg.Admin.Password = "changed"

	token, err := engine.Login(clientCtx("1.2.3.4"), "admin", "correct-horse-battery")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := engine.Verify(context.Background(), token); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

type stubTracker struct {
	locked bool
}

func (s *stubTracker) Locked(context.Context, string) (bool, error) { return s.locked, nil }
func (s *stubTracker) RecordFailure(context.Context, string) error  { return nil }
func (s *stubTracker) Clear(context.Context, string) error          { return nil }
