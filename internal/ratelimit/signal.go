package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrihub/fieldbill/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keySignalClient = "signal:client:%s"

// SignalLimiter throttles the hardware signal endpoint per client. The
// zero value (nil) allows everything, so deployments without redis pay
// nothing.
type SignalLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewSignalLimiter(cfg config.Config) (*SignalLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.SignalRate <= 0 || limitCfg.SignalBurst <= 0 {
		return nil, errors.New("signal rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &SignalLimiter{
		bucket: NewTokenBucket(client),
		rate:   limitCfg.SignalRate,
		burst:  limitCfg.SignalBurst,
	}, nil
}

func (l *SignalLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *SignalLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keySignalClient, strings.TrimSpace(clientKey)), l.rate, l.burst)
}
