// Package bootstrap waits for backing stores to come up at process start.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

// RetryPolicy bounds the start-up connection attempts of a backend.
type RetryPolicy struct {
	ConnectTimeout time.Duration // total time allowed for attempts (ex: 30s)
	RetryInterval  time.Duration // initial wait between attempts, doubles each time (ex: 2s)
	MaxWait        time.Duration // cap on the wait between attempts (ex: 10s)
	PingTimeout    time.Duration // timeout of a single attempt (ex: 2s)
	WarnThreshold  int           // attempts logged as warnings before escalating to errors
}

// Validate ensures every bound is usable.
func (p RetryPolicy) Validate() error {
	if p.ConnectTimeout <= 0 {
		return fmt.Errorf("ConnectTimeout must be > 0, got %v", p.ConnectTimeout)
	}
	if p.RetryInterval <= 0 {
		return fmt.Errorf("RetryInterval must be > 0, got %v", p.RetryInterval)
	}
	if p.MaxWait <= 0 {
		return fmt.Errorf("MaxWait must be > 0, got %v", p.MaxWait)
	}
	if p.PingTimeout <= 0 {
		return fmt.Errorf("PingTimeout must be > 0, got %v", p.PingTimeout)
	}
	if p.WarnThreshold < 0 {
		return fmt.Errorf("WarnThreshold must be >= 0, got %d", p.WarnThreshold)
	}
	return nil
}

// PingFunc performs one connection check.
type PingFunc func(ctx context.Context) error

// Target names the backend being waited on, for logs and errors.
type Target struct {
	Backend string // "redis", "mongo"
	Addr    string
}

// WaitReady pings until it succeeds or the policy's ConnectTimeout runs out,
// backing off exponentially between attempts.
func WaitReady(ctx context.Context, target Target, policy RetryPolicy, ping PingFunc, log logger.Logger) error {
	if err := policy.Validate(); err != nil {
		log.Error("invalid retry policy",
			logger.String("backend", target.Backend),
			logger.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, policy.ConnectTimeout)
	defer cancel()

	log.Info("connecting to "+target.Backend,
		logger.String("addr", target.Addr),
		logger.Duration("timeout", policy.ConnectTimeout))

	attempt := 0
	wait := policy.RetryInterval

	for {
		attempt++

		pingCtx, pingCancel := context.WithTimeout(ctx, policy.PingTimeout)
		err := ping(pingCtx)
		pingCancel()

		if err == nil {
			logSuccess(log, target, attempt, policy.ConnectTimeout-timeLeft(ctx))
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error(target.Backend+" unavailable - failed to connect after timeout",
				logger.String("addr", target.Addr),
				logger.Int("attempts", attempt),
				logger.Duration("timeout", policy.ConnectTimeout),
				logger.Error(err))
			return fmt.Errorf("%s unavailable at %s after %d attempts (timeout: %v): %w",
				target.Backend, target.Addr, attempt, policy.ConnectTimeout, err)

		case <-timer.C:
			logRetry(log, target, attempt, timeLeft(ctx), wait, policy.WarnThreshold, err)
			wait *= 2
			if wait > policy.MaxWait {
				wait = policy.MaxWait
			}
		}
	}
}

func logSuccess(log logger.Logger, target Target, attempts int, elapsed time.Duration) {
	if attempts > 1 {
		log.Warn("connected to "+target.Backend+" after retry",
			logger.String("addr", target.Addr),
			logger.Int("attempts", attempts),
			logger.Duration("elapsed", elapsed))
		return
	}
	log.Info("connected to "+target.Backend, logger.String("addr", target.Addr))
}

func logRetry(log logger.Logger, target Target, attempt int, remaining, nextRetry time.Duration, warnThreshold int, err error) {
	fields := []logger.Field{
		logger.String("addr", target.Addr),
		logger.Int("attempt", attempt),
		logger.Duration("next_retry_in", nextRetry),
		logger.Error(err),
	}
	switch {
	case remaining < 10*time.Second:
		log.Error(target.Backend+" still down - retrying but timeout approaching",
			append(fields, logger.Duration("remaining", remaining))...)
	case attempt <= warnThreshold:
		log.Warn(target.Backend+" connection failed, retrying", fields...)
	default:
		log.Error(target.Backend+" still unavailable - connection attempts failing", fields...)
	}
}

// timeLeft returns the remaining time before context deadline.
func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
