package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  5 * time.Millisecond,
		MaxWait:        20 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  2,
	}
}

func TestRetryPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *RetryPolicy)
	}{
		{name: "connect timeout", mutate: func(p *RetryPolicy) { p.ConnectTimeout = 0 }},
		{name: "retry interval", mutate: func(p *RetryPolicy) { p.RetryInterval = 0 }},
		{name: "max wait", mutate: func(p *RetryPolicy) { p.MaxWait = -time.Second }},
		{name: "ping timeout", mutate: func(p *RetryPolicy) { p.PingTimeout = 0 }},
		{name: "warn threshold", mutate: func(p *RetryPolicy) { p.WarnThreshold = -1 }},
	}

	require.NoError(t, fastPolicy().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fastPolicy()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestWaitReadySucceedsAfterRetries(t *testing.T) {
	attempts := 0
	ping := func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	err := WaitReady(context.Background(), Target{Backend: "redis", Addr: "localhost:6379"},
		fastPolicy(), ping, logger.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWaitReadyTimesOut(t *testing.T) {
	down := errors.New("connection refused")
	ping := func(context.Context) error { return down }

	start := time.Now()
	err := WaitReady(context.Background(), Target{Backend: "mongo", Addr: "localhost:27017"},
		fastPolicy(), ping, logger.NewNop())

	require.Error(t, err)
	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "mongo unavailable at localhost:27017")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWaitReadyInvalidPolicy(t *testing.T) {
	called := false
	ping := func(context.Context) error { called = true; return nil }

	err := WaitReady(context.Background(), Target{Backend: "redis"}, RetryPolicy{}, ping, logger.NewNop())

	assert.Error(t, err)
	assert.False(t, called)
}
