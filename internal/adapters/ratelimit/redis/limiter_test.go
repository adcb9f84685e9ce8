package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newLimiter(t *testing.T, limit int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l, err := New(client, "test:rl", limit, time.Minute)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return l, mr
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newLimiter(t, 2)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "adoption:vol-1")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if ok != want {
			t.Fatalf("request %d: expected %v, got %v", i+1, want, ok)
		}
	}

	ok, err := l.Allow(ctx, "adoption:vol-2")
	if err != nil || !ok {
		t.Fatalf("other key must have its own quota, ok=%v err=%v", ok, err)
	}
}

func TestLimiter_NewWindowResets(t *testing.T) {
	l, _ := newLimiter(t, 1)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatalf("first must pass")
	}
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatalf("second in same window must be blocked")
	}

	l.now = func() time.Time { return base.Add(time.Minute) }
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatalf("next window must pass")
	}
}

func TestLimiter_ReturnsRedisErrors(t *testing.T) {
	l, mr := newLimiter(t, 1)
	mr.Close()
	if _, err := l.Allow(context.Background(), "k"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, "", 1, time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	if _, err := New(client, "", 0, time.Second); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}

func TestLimiter_RetryAfterUntilWindowEnds(t *testing.T) {
	l, _ := newLimiter(t, 1)
	l.now = func() time.Time { return time.UnixMilli(10*60_000 + 15_000) }

	if got := l.RetryAfter(); got != 45*time.Second {
		t.Fatalf("expected 45s, got %s", got)
	}
}
