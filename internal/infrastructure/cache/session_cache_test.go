package cache

import (
	"context"
	"errors"
	"testing"
	"time"
	"volunteer-match/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/sony/gobreaker"
)

func newTestCache(t *testing.T) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionCache(client, time.Minute), mr
}

func TestSessionCache_SetThenGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "tok-1", 42); err != nil {
		t.Fatalf("set: %v", err)
	}

	userID, found, err := c.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || userID != 42 {
		t.Fatalf("expected user 42, got %d (found=%v)", userID, found)
	}

	if ttl := mr.TTL(sessionKeyPrefix + "tok-1"); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", ttl)
	}
}

func TestSessionCache_MissIsNotAnError(t *testing.T) {
	c, _ := newTestCache(t)

	_, found, err := c.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("expected no error on miss, got %v", err)
	}
	if found {
		t.Fatalf("expected miss")
	}
}

func TestSessionCache_ExpiredEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "tok", 7); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, found, err := c.Get(ctx, "tok"); err != nil || found {
		t.Fatalf("expected expired miss, got found=%v err=%v", found, err)
	}
}

func TestSessionCache_OutageOpensBreaker(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	for i := 0; i < 3; i++ {
		if _, _, err := c.Get(context.Background(), "tok"); err == nil {
			t.Fatalf("expected error while redis is down")
		}
	}

	_, _, err := c.Get(context.Background(), "tok")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}
