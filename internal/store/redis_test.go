package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"intraday-arb/internal/intraday"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "scan:", ttl)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStorePutGet(t *testing.T) {
	s, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	res := &intraday.Result{
		ID:        "abc",
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Params:    intraday.DefaultParams(),
		Stats:     intraday.Stats{Trades: 4, Windows: 1, Evaluated: 1, Opportunities: 1, TotalProfit: 270},
	}
	if err := s.Put(ctx, res); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !mr.Exists("scan:abc") {
		t.Fatalf("key not written under prefix; keys = %v", mr.Keys())
	}

	got, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != res.ID || !got.CreatedAt.Equal(res.CreatedAt) {
		t.Fatalf("got %+v", got)
	}
	if got.Params != res.Params {
		t.Fatalf("params = %+v, want %+v", got.Params, res.Params)
	}
	if got.Stats.TotalProfit != 270 || got.Stats.Opportunities != 1 {
		t.Fatalf("stats = %+v", got.Stats)
	}
}

func TestRedisStoreMissing(t *testing.T) {
	s, _ := newRedisStore(t, time.Hour)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()
	if err := s.Put(ctx, &intraday.Result{ID: "old"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ttl := mr.TTL("scan:old"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := s.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired entry still readable: %v", err)
	}
}

func TestRedisStoreServerError(t *testing.T) {
	s, mr := newRedisStore(t, time.Hour)
	mr.SetError("LOADING")
	err := s.Put(context.Background(), &intraday.Result{ID: "x"})
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Put err = %v, want a server error", err)
	}
	if _, err := s.Get(context.Background(), "x"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Get err = %v, want a server error", err)
	}
}
