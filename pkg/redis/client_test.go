package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeCmdable struct {
	counts  map[string]int64
	expires map[string]time.Duration
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCmdable) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestKeyBuilders(t *testing.T) {
	c := &Client{}
	if got := c.RateLimitKey("login:ip:10.0.0.1"); got != "cmz:rate_limit:login:ip:10.0.0.1" {
		t.Fatalf("unexpected rate limit key %q", got)
	}
	if got := c.AccessSessionKey("abc"); got != "cmz:session:access:abc" {
		t.Fatalf("unexpected session key %q", got)
	}
	if got := c.CounterKey("readings_ingested"); got != "cmz:counter:readings_ingested" {
		t.Fatalf("unexpected counter key %q", got)
	}
}

func TestFixedWindowAllow(t *testing.T) {
	fake := newFakeCmdable()
	c := &Client{store: fake}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, count, err := c.FixedWindowAllow(ctx, "login:email:ana@example.com", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow #%d: %v", i, err)
		}
		if !ok {
			t.Fatalf("expected attempt %d to be allowed", i)
		}
		if count != int64(i) {
			t.Fatalf("expected count %d, got %d", i, count)
		}
	}

	ok, count, err := c.FixedWindowAllow(ctx, "login:email:ana@example.com", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if ok {
		t.Fatal("expected fourth attempt to be denied")
	}
	if count != 4 {
		t.Fatalf("expected count 4, got %d", count)
	}

	key := c.RateLimitKey("login:email:ana@example.com")
	if fake.expires[key] != time.Minute {
		t.Fatalf("expected ttl set on first increment, got %v", fake.expires[key])
	}
}

func TestUninitializedClient(t *testing.T) {
	c := &Client{}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
	if _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
}
