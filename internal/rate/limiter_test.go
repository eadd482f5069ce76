package rate

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testConfig() Config {
	return Config{
		MaxAttempts:         5,
		Window:              15 * time.Minute,
		BaseCooldown:        30 * time.Minute,
		MaxCooldown:         24 * time.Hour,
		ProgressiveCooldown: true,
	}
}

func newTestLimiter(cfg Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	return New(NewMemoryStore(), cfg, clock.Now), clock
}

func failTimes(t *testing.T, l *Limiter, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		l.RecordAttempt(context.Background(), "fp-1", "signin:google", false)
	}
}

func TestLimiter_AllowsUnderMax(t *testing.T) {
	l, _ := newTestLimiter(testConfig())
	ctx := context.Background()

	failTimes(t, l, 4)

	if d := l.IsLimited(ctx, "fp-1", "signin:google"); d.Limited {
		t.Fatalf("expected not limited at 4 of 5 attempts, got %+v", d)
	}
}

func TestLimiter_BlocksAtMaxAttempts(t *testing.T) {
	l, _ := newTestLimiter(testConfig())
	ctx := context.Background()

	failTimes(t, l, 5)

	d := l.IsLimited(ctx, "fp-1", "signin:google")
	if !d.Limited {
		t.Fatal("expected limited after 5 failures")
	}
	if d.Reason != ReasonMaxAttempts {
		t.Fatalf("expected reason %q, got %q", ReasonMaxAttempts, d.Reason)
	}
	// Crossing the threshold installs the base cooldown.
	if d.Remaining != 30*time.Minute {
		t.Fatalf("expected 30m cooldown, got %v", d.Remaining)
	}
}

func TestLimiter_PeekReportsWithoutArmingCooldown(t *testing.T) {
	l, clock := newTestLimiter(testConfig())
	ctx := context.Background()

	failTimes(t, l, 5)

	d := l.Peek(ctx, "fp-1", "signin:google")
	if !d.Limited || d.Reason != ReasonMaxAttempts {
		t.Fatalf("expected max-attempts limit from peek, got %+v", d)
	}

	// Had Peek armed the 30m cooldown, the key would still be blocked once
	// the attempts age out of the 15m window.
	clock.Advance(16 * time.Minute)
	if d := l.IsLimited(ctx, "fp-1", "signin:google"); d.Limited {
		t.Fatalf("peek must not arm a cooldown, got %+v", d)
	}
}

func TestLimiter_PeekSeesActiveCooldown(t *testing.T) {
	l, clock := newTestLimiter(testConfig())
	ctx := context.Background()

	failTimes(t, l, 5)
	if !l.IsLimited(ctx, "fp-1", "signin:google").Limited {
		t.Fatal("expected limited after 5 failures")
	}

	clock.Advance(10 * time.Minute)
	d := l.Peek(ctx, "fp-1", "signin:google")
	if !d.Limited || d.Reason != ReasonCooldown {
		t.Fatalf("expected cooldown from peek, got %+v", d)
	}
	if d.Remaining != 20*time.Minute {
		t.Fatalf("expected 20m remaining, got %v", d.Remaining)
	}
}

func TestLimiter_SuccessResetsCounterAndCooldown(t *testing.T) {
	l, _ := newTestLimiter(testConfig())
	ctx := context.Background()

	failTimes(t, l, 5)
	if !l.IsLimited(ctx, "fp-1", "signin:google").Limited {
		t.Fatal("expected limited before reset")
	}

	l.RecordAttempt(ctx, "fp-1", "signin:google", true)

	if d := l.IsLimited(ctx, "fp-1", "signin:google"); d.Limited {
		t.Fatalf("expected reset after success, got %+v", d)
	}
	if n := l.AttemptCount(ctx, "fp-1", "signin:google"); n != 0 {
		t.Fatalf("expected 0 attempts after success, got %d", n)
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(testConfig())
	ctx := context.Background()

	failTimes(t, l, 5)

	if !l.IsLimited(ctx, "fp-1", "signin:google").Limited {
		t.Fatal("expected fp-1 limited")
	}
	if l.IsLimited(ctx, "fp-2", "signin:google").Limited {
		t.Fatal("different identifier must not be limited")
	}
	if l.IsLimited(ctx, "fp-1", "signin:github").Limited {
		t.Fatal("different operation must not be limited")
	}
}

func TestLimiter_CooldownBlocksDuringWindow(t *testing.T) {
	l, clock := newTestLimiter(testConfig())
	ctx := context.Background()

	failTimes(t, l, 5)
	l.IsLimited(ctx, "fp-1", "signin:google")

	clock.Advance(29 * time.Minute)
	d := l.IsLimited(ctx, "fp-1", "signin:google")
	if !d.Limited || d.Reason != ReasonCooldown {
		t.Fatalf("expected cooldown at 29m, got %+v", d)
	}
	if d.Remaining != time.Minute {
		t.Fatalf("expected 1m remaining, got %v", d.Remaining)
	}
}

func TestLimiter_CooldownExpiresWithWindow(t *testing.T) {
	l, clock := newTestLimiter(testConfig())
	ctx := context.Background()

	failTimes(t, l, 5)
	l.IsLimited(ctx, "fp-1", "signin:google")

	// Past both the cooldown and the attempt window.
	clock.Advance(31 * time.Minute)
	if d := l.IsLimited(ctx, "fp-1", "signin:google"); d.Limited {
		t.Fatalf("expected clear after cooldown and window expiry, got %+v", d)
	}
}

func TestLimiter_ProgressiveCooldownDoubles(t *testing.T) {
	cfg := testConfig()
	cfg.Window = 24 * time.Hour // keep every failure in window
	l, _ := newTestLimiter(cfg)
	ctx := context.Background()

	failTimes(t, l, 10)

	d := l.IsLimited(ctx, "fp-1", "signin:google")
	if !d.Limited {
		t.Fatal("expected limited")
	}
	if d.Remaining != time.Hour {
		t.Fatalf("second violation should double to 1h, got %v", d.Remaining)
	}

	failTimes(t, l, 5)
	// Force re-evaluation of the window count past the stale cooldown.
	l.store.ClearCooldown(ctx, attemptKey("fp-1", "signin:google"))
	d = l.IsLimited(ctx, "fp-1", "signin:google")
	if d.Remaining != 2*time.Hour {
		t.Fatalf("third violation should double to 2h, got %v", d.Remaining)
	}
}

func TestLimiter_ProgressiveCooldownCapped(t *testing.T) {
	cfg := testConfig()
	cfg.Window = 30 * 24 * time.Hour
	l, _ := newTestLimiter(cfg)
	ctx := context.Background()

	// Enough violations to overflow past the cap without clamping.
	failTimes(t, l, 60)

	d := l.IsLimited(ctx, "fp-1", "signin:google")
	if d.Remaining != 24*time.Hour {
		t.Fatalf("cooldown must clamp at 24h, got %v", d.Remaining)
	}
}

func TestLimiter_FixedCooldownWhenProgressionDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ProgressiveCooldown = false
	cfg.Window = 24 * time.Hour
	l, _ := newTestLimiter(cfg)
	ctx := context.Background()

	failTimes(t, l, 20)

	d := l.IsLimited(ctx, "fp-1", "signin:google")
	if d.Remaining != 30*time.Minute {
		t.Fatalf("expected fixed 30m cooldown, got %v", d.Remaining)
	}
}

func TestLimiter_OldAttemptsFallOutOfWindow(t *testing.T) {
	l, clock := newTestLimiter(testConfig())
	ctx := context.Background()

	failTimes(t, l, 4)
	clock.Advance(16 * time.Minute)
	failTimes(t, l, 1)

	if d := l.IsLimited(ctx, "fp-1", "signin:google"); d.Limited {
		t.Fatalf("expired attempts must not count, got %+v", d)
	}
	if n := l.AttemptCount(ctx, "fp-1", "signin:google"); n != 1 {
		t.Fatalf("expected 1 in-window attempt, got %d", n)
	}
}
