package usage

import (
	"context"
	"errors"
	"testing"
)

func TestConsumeWithinLimit(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	u, err := svc.Consume(ctx, "user-1", 1)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if u.Used != 1 {
		t.Errorf("used = %d, want 1", u.Used)
	}
	if u.Limit != defaultLimit {
		t.Errorf("limit = %d, want %d", u.Limit, defaultLimit)
	}
}

func TestConsumeOverLimit(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "user-1", defaultLimit); err != nil {
		t.Fatalf("Consume up to limit: %v", err)
	}
	if _, err := svc.Consume(ctx, "user-1", 1); !errors.Is(err, ErrLimitReached) {
		t.Errorf("expected ErrLimitReached, got %v", err)
	}

	ok, _, err := svc.CanConsume(ctx, "user-1", 1)
	if err != nil {
		t.Fatalf("CanConsume: %v", err)
	}
	if ok {
		t.Error("CanConsume should be false at limit")
	}
}

func TestResetClearsUsage(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "user-1", 3); err != nil {
		t.Fatal(err)
	}
	u, err := svc.Reset(ctx, "user-1")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if u.Used != 0 {
		t.Errorf("used after reset = %d, want 0", u.Used)
	}
}
