package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/richxcame/cardlink/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper: default config
// ---------------------------------------------------------------------------

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:       true,
		WindowSeconds: 60,
		ScanLimit:     5,
		RedisPrefix:   "rl",
	}
}

func windowKeyFor(cfg config.RateLimitConfig, key string, at time.Time) string {
	return fmt.Sprintf("%s:%s:%d", cfg.RedisPrefix, key, at.Unix()/int64(cfg.Window()))
}

// ---------------------------------------------------------------------------
// NewLimiter
// ---------------------------------------------------------------------------

func TestNewLimiter(t *testing.T) {
	client, _ := redismock.NewClientMock()
	cfg := testConfig()

	limiter := NewLimiter(client, cfg)

	assert.NotNil(t, limiter)
	assert.NotNil(t, limiter.client)
	assert.NotNil(t, limiter.script)
	assert.NotNil(t, limiter.now)
	assert.Equal(t, cfg.Enabled, limiter.cfg.Enabled)
	assert.Equal(t, cfg.ScanLimit, limiter.cfg.ScanLimit)
	assert.Equal(t, cfg.RedisPrefix, limiter.cfg.RedisPrefix)
}

func TestNewLimiter_NowReturnsCurrentTime(t *testing.T) {
	client, _ := redismock.NewClientMock()
	limiter := NewLimiter(client, testConfig())

	before := time.Now()
	got := limiter.now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

// ---------------------------------------------------------------------------
// WithNow
// ---------------------------------------------------------------------------

func TestWithNow(t *testing.T) {
	client, _ := redismock.NewClientMock()
	limiter := NewLimiter(client, testConfig())

	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	limiter.WithNow(func() time.Time { return fixed })

	assert.Equal(t, fixed, limiter.now())
}

// ---------------------------------------------------------------------------
// Allow
// ---------------------------------------------------------------------------

func TestAllow_Disabled(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := testConfig()
	cfg.Enabled = false
	limiter := NewLimiter(client, cfg)

	allowed, count, err := limiter.Allow(context.Background(), "10.0.0.1")

	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_UnderLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := testConfig()
	limiter := NewLimiter(client, cfg)

	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	limiter.WithNow(func() time.Time { return fixed })

	key := windowKeyFor(cfg, "10.0.0.1", fixed)
	mock.ExpectEvalSha(limiter.script.Hash(), []string{key}, cfg.Window()).SetVal(int64(1))

	allowed, count, err := limiter.Allow(context.Background(), "10.0.0.1")

	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_AtLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := testConfig()
	limiter := NewLimiter(client, cfg)

	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	limiter.WithNow(func() time.Time { return fixed })

	key := windowKeyFor(cfg, "10.0.0.1", fixed)
	mock.ExpectEvalSha(limiter.script.Hash(), []string{key}, cfg.Window()).SetVal(int64(cfg.ScanLimit))

	allowed, count, err := limiter.Allow(context.Background(), "10.0.0.1")

	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(cfg.ScanLimit), count)
}

func TestAllow_OverLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := testConfig()
	limiter := NewLimiter(client, cfg)

	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	limiter.WithNow(func() time.Time { return fixed })

	key := windowKeyFor(cfg, "10.0.0.1", fixed)
	mock.ExpectEvalSha(limiter.script.Hash(), []string{key}, cfg.Window()).SetVal(int64(cfg.ScanLimit + 1))

	allowed, _, err := limiter.Allow(context.Background(), "10.0.0.1")

	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAllow_RedisError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := testConfig()
	limiter := NewLimiter(client, cfg)

	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	limiter.WithNow(func() time.Time { return fixed })

	key := windowKeyFor(cfg, "10.0.0.1", fixed)
	mock.ExpectEvalSha(limiter.script.Hash(), []string{key}, cfg.Window()).SetErr(assert.AnError)

	allowed, _, err := limiter.Allow(context.Background(), "10.0.0.1")

	require.Error(t, err)
	assert.False(t, allowed)
}

func TestAllow_WindowRollsOver(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := testConfig()
	limiter := NewLimiter(client, cfg)

	first := time.Date(2025, 6, 15, 12, 0, 30, 0, time.UTC)
	second := first.Add(time.Duration(cfg.Window()) * time.Second)

	keyFirst := windowKeyFor(cfg, "10.0.0.1", first)
	keySecond := windowKeyFor(cfg, "10.0.0.1", second)
	assert.NotEqual(t, keyFirst, keySecond)

	limiter.WithNow(func() time.Time { return first })
	mock.ExpectEvalSha(limiter.script.Hash(), []string{keyFirst}, cfg.Window()).SetVal(int64(5))
	allowed, _, err := limiter.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	limiter.WithNow(func() time.Time { return second })
	mock.ExpectEvalSha(limiter.script.Hash(), []string{keySecond}, cfg.Window()).SetVal(int64(1))
	allowed, _, err = limiter.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}
