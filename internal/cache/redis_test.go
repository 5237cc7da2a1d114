package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewRedisLimiterUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewRedisLimiter(ctx, RedisConfig{Address: "127.0.0.1:1"}, 10, time.Minute); err == nil {
		t.Fatal("expected an error for an unreachable server")
	}
}

func TestBucketKey(t *testing.T) {
	start := time.Unix(1_700_000_040, 0) // multiple of one minute
	window := time.Minute

	tests := []struct {
		name     string
		at       time.Time
		sameAsAt bool
	}{
		{name: "window start", at: start, sameAsAt: true},
		{name: "middle of window", at: start.Add(30 * time.Second), sameAsAt: true},
		{name: "last nanosecond of window", at: start.Add(window - time.Nanosecond), sameAsAt: true},
		{name: "next window", at: start.Add(window), sameAsAt: false},
		{name: "two windows later", at: start.Add(2*window + time.Second), sameAsAt: false},
	}

	base := bucketKey("ratelimit:", "10.0.0.1", start, window)
	if !strings.HasPrefix(base, "ratelimit:10.0.0.1:") {
		t.Fatalf("key = %q, want ratelimit:10.0.0.1: prefix", base)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bucketKey("ratelimit:", "10.0.0.1", tt.at, window)
			if (got == base) != tt.sameAsAt {
				t.Errorf("bucketKey(%v) = %q, base %q, same = %v", tt.at, got, base, tt.sameAsAt)
			}
		})
	}

	if bucketKey("ratelimit:", "10.0.0.2", start, window) == base {
		t.Error("different clients share a counter")
	}
}

func TestWithinLimit(t *testing.T) {
	tests := []struct {
		count, max int64
		want       bool
	}{
		{count: 1, max: 3, want: true},
		{count: 3, max: 3, want: true},
		{count: 4, max: 3, want: false},
		{count: 1, max: 0, want: false},
	}
	for _, tt := range tests {
		if got := withinLimit(tt.count, tt.max); got != tt.want {
			t.Errorf("withinLimit(%d, %d) = %v, want %v", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestAllowReportsCounterError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()

	fixed := time.Unix(1_700_000_040, 0)
	l := &RedisLimiter{
		client: client,
		max:    5,
		window: time.Minute,
		prefix: "ratelimit:",
		now:    func() time.Time { return fixed },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	allowed, err := l.Allow(ctx, "10.0.0.1")
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if allowed {
		t.Error("allowed = true on counter error")
	}
	want := bucketKey("ratelimit:", "10.0.0.1", fixed, time.Minute)
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not name counter %q", err, want)
	}
}
