package rate

import (
	"context"
	"time"
)

// Reason explains why a check denied an attempt.
type Reason string

const (
	// ReasonCooldown means an earlier violation put the key into a timed lockout.
	ReasonCooldown Reason = "cooldown"
	// ReasonMaxAttempts means the sliding-window attempt count reached the maximum.
	ReasonMaxAttempts Reason = "max_attempts"
)

// Decision is the result of a limit check.
type Decision struct {
	Limited   bool
	Reason    Reason
	Remaining time.Duration
}

// Config holds limiter tuning parameters. Fixed at construction.
type Config struct {
	MaxAttempts         int
	Window              time.Duration
	BaseCooldown        time.Duration
	MaxCooldown         time.Duration
	ProgressiveCooldown bool
}

// AttemptStore is the persistence boundary for attempt timestamps and
// cooldown expiries. Implementations never return errors; a store that can
// lose its backend (Redis) fails open and reports no data instead.
type AttemptStore interface {
	// Attempts returns the recorded attempt timestamps at or after since,
	// in chronological order.
	Attempts(ctx context.Context, key string, since time.Time) []time.Time
	// AddAttempt appends an attempt timestamp and prunes entries older than
	// keepSince.
	AddAttempt(ctx context.Context, key string, at, keepSince time.Time)
	// ClearAttempts removes all attempt history for the key.
	ClearAttempts(ctx context.Context, key string)
	// Cooldown returns the cooldown expiry for the key, if one is set.
	Cooldown(ctx context.Context, key string) (time.Time, bool)
	// SetCooldown stores an absolute cooldown expiry for the key.
	SetCooldown(ctx context.Context, key string, until time.Time)
	// ClearCooldown removes any cooldown for the key.
	ClearCooldown(ctx context.Context, key string)
}

// Limiter tracks authentication attempts per identifier and operation within
// a sliding window and escalates cooldowns on repeat violations.
type Limiter struct {
	store  AttemptStore
	config Config
	now    func() time.Time
}

// New creates a [Limiter] over the given store. A nil now falls back to
// time.Now.
func New(store AttemptStore, cfg Config, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		store:  store,
		config: cfg,
		now:    now,
	}
}

// IsLimited reports whether the identifier+operation pair is currently
// blocked. An active cooldown wins; otherwise the sliding-window count is
// evaluated and, when it reaches the maximum, a cooldown is triggered as a
// side effect so subsequent checks fail fast.
func (l *Limiter) IsLimited(ctx context.Context, identifier, operation string) Decision {
	key := attemptKey(identifier, operation)
	now := l.now()

	if until, ok := l.store.Cooldown(ctx, key); ok {
		if now.Before(until) {
			return Decision{Limited: true, Reason: ReasonCooldown, Remaining: until.Sub(now)}
		}
		l.store.ClearCooldown(ctx, key)
	}

	attempts := l.store.Attempts(ctx, key, now.Add(-l.config.Window))
	if len(attempts) >= l.config.MaxAttempts {
		until := l.triggerCooldown(ctx, key, len(attempts), now)
		return Decision{Limited: true, Reason: ReasonMaxAttempts, Remaining: until.Sub(now)}
	}

	return Decision{}
}

// Peek reports the current limit state without side effects: no cooldown is
// installed, cleared, or extended. Status queries use this; the sign-in gate
// uses [Limiter.IsLimited].
func (l *Limiter) Peek(ctx context.Context, identifier, operation string) Decision {
	key := attemptKey(identifier, operation)
	now := l.now()

	if until, ok := l.store.Cooldown(ctx, key); ok && now.Before(until) {
		return Decision{Limited: true, Reason: ReasonCooldown, Remaining: until.Sub(now)}
	}

	attempts := l.store.Attempts(ctx, key, now.Add(-l.config.Window))
	if len(attempts) >= l.config.MaxAttempts {
		return Decision{Limited: true, Reason: ReasonMaxAttempts}
	}
	return Decision{}
}

// RecordAttempt appends the current time to the attempt history. A successful
// attempt clears both the history and any cooldown for the key; failed
// attempts are only forgiven by this explicit clear, never by elapsed time
// alone within the window.
func (l *Limiter) RecordAttempt(ctx context.Context, identifier, operation string, success bool) {
	key := attemptKey(identifier, operation)
	if success {
		l.store.ClearAttempts(ctx, key)
		l.store.ClearCooldown(ctx, key)
		return
	}

	now := l.now()
	l.store.AddAttempt(ctx, key, now, now.Add(-l.config.Window))
}

// AttemptCount returns the number of attempts recorded within the current
// window for the identifier+operation pair.
func (l *Limiter) AttemptCount(ctx context.Context, identifier, operation string) int {
	key := attemptKey(identifier, operation)
	return len(l.store.Attempts(ctx, key, l.now().Add(-l.config.Window)))
}

func (l *Limiter) triggerCooldown(ctx context.Context, key string, attemptCount int, now time.Time) time.Time {
	violations := attemptCount / l.config.MaxAttempts
	if violations < 1 {
		violations = 1
	}

	duration := l.config.BaseCooldown
	if l.config.ProgressiveCooldown {
		for i := 1; i < violations; i++ {
			duration *= 2
			if duration >= l.config.MaxCooldown {
				break
			}
		}
	}
	if duration > l.config.MaxCooldown {
		duration = l.config.MaxCooldown
	}

	until := now.Add(duration)
	l.store.SetCooldown(ctx, key, until)
	return until
}

func attemptKey(identifier, operation string) string {
	return identifier + ":" + operation
}
