package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultActivityThrottle is the minimum spacing between two timer resets
// caused by activity signals.
const DefaultActivityThrottle = 30 * time.Second

var (
	// ErrBackendUnavailable indicates the persistence backend has not been initialized.
	ErrBackendUnavailable = errors.New("auth backend unavailable")
	// ErrInvalidMode indicates a mode outside the three defined persistence modes.
	ErrInvalidMode = errors.New("invalid persistence mode")
	// ErrTimerNotAllowed indicates an attempt to arm the inactivity timer in memory-only mode.
	ErrTimerNotAllowed = errors.New("inactivity timer not allowed in memory-only mode")
)

// Options carries the per-SetMode knobs.
type Options struct {
	// AutoSignOutMinutes arms the inactivity timer when > 0 and the mode is
	// not memory-only. Zero cancels any existing timer.
	AutoSignOutMinutes int
}

// PolicyConfig wires a [Policy]. Backend is required; nil Clock and
// Scheduler fall back to the system implementations.
type PolicyConfig struct {
	Backend     PersistenceBackend
	Preferences PreferenceStore
	Clock       Clock
	Scheduler   Scheduler
	Activity    ActivitySource

	// ActivityThrottle overrides [DefaultActivityThrottle] when > 0.
	ActivityThrottle time.Duration

	// Warn receives non-fatal diagnostics. Nil discards them.
	Warn func(msg string, args ...any)

	// OnAutoSignOut fires after an inactivity deadline elapses, whether or
	// not the backend sign-out call succeeded.
	OnAutoSignOut func()
}

// Policy defines a public type used by goSignin APIs.
//
// Policy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Policy struct {
	backend       PersistenceBackend
	prefs         PreferenceStore
	clock         Clock
	scheduler     Scheduler
	activity      ActivitySource
	throttleEvery time.Duration
	warn          func(string, ...any)
	onAutoSignOut func()

	mu             sync.Mutex
	mode           Mode
	autoSignOut    time.Duration
	throttle       *rate.Limiter
	cancelTimer    CancelFunc
	cancelActivity CancelFunc
}

// NewPolicy describes the newpolicy operation and its observable behavior.
//
// NewPolicy may return an error when input validation, dependency calls, or security checks fail.
// NewPolicy does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewPolicy(cfg PolicyConfig) *Policy {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler{}
	}
	if cfg.ActivityThrottle <= 0 {
		cfg.ActivityThrottle = DefaultActivityThrottle
	}
	if cfg.Warn == nil {
		cfg.Warn = func(string, ...any) {}
	}
	if cfg.OnAutoSignOut == nil {
		cfg.OnAutoSignOut = func() {}
	}

	return &Policy{
		backend:       cfg.Backend,
		prefs:         cfg.Preferences,
		clock:         cfg.Clock,
		scheduler:     cfg.Scheduler,
		activity:      cfg.Activity,
		throttleEvery: cfg.ActivityThrottle,
		warn:          cfg.Warn,
		onAutoSignOut: cfg.OnAutoSignOut,
	}
}

// SetMode applies a persistence mode through the backend, records it as
// current, persists the choice, and arms or disarms the inactivity timer.
// Entering memory-only always disarms, regardless of the requested window.
func (p *Policy) SetMode(ctx context.Context, mode Mode, opts Options) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if p == nil || p.backend == nil {
		return ErrBackendUnavailable
	}

	if err := p.backend.SetPersistence(ctx, mode); err != nil {
		return fmt.Errorf("set persistence: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.mode = mode
	if p.prefs != nil {
		pref := Preference{Mode: mode, AutoSignOutMinutes: opts.AutoSignOutMinutes}
		if err := p.prefs.Save(ctx, pref); err != nil {
			p.warn("goSignin: persistence preference save failed", "error", err)
		}
	}

	if opts.AutoSignOutMinutes > 0 && mode != ModeMemoryOnly {
		p.armLocked(time.Duration(opts.AutoSignOutMinutes) * time.Minute)
	} else {
		p.disarmLocked()
	}

	return nil
}

// Restore loads the saved preference and reapplies it. It returns the
// preference that was applied, or (nil, nil) when none was saved. Call it
// once at startup before any other session logic.
func (p *Policy) Restore(ctx context.Context) (*Preference, error) {
	if p == nil || p.prefs == nil {
		return nil, nil
	}

	pref, err := p.prefs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load persistence preference: %w", err)
	}
	if pref == nil {
		return nil, nil
	}

	if err := p.SetMode(ctx, pref.Mode, Options{AutoSignOutMinutes: pref.AutoSignOutMinutes}); err != nil {
		return nil, err
	}
	return pref, nil
}

// Arm schedules the inactivity deadline minutes from now, replacing any
// existing deadline. Memory-only mode rejects the timer.
func (p *Policy) Arm(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("auto sign-out minutes must be > 0, got %d", minutes)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode == ModeMemoryOnly {
		return ErrTimerNotAllowed
	}
	p.armLocked(time.Duration(minutes) * time.Minute)
	return nil
}

// Disarm cancels any pending deadline and removes the activity subscription.
// Called on explicit sign-out or a mode change into memory-only.
func (p *Policy) Disarm() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disarmLocked()
}

// Mode returns the currently active persistence mode. Empty until the first
// successful SetMode.
func (p *Policy) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Armed reports whether an inactivity deadline is currently scheduled.
func (p *Policy) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelTimer != nil
}

// AutoSignOut returns the configured inactivity window, zero when disarmed.
func (p *Policy) AutoSignOut() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelTimer == nil {
		return 0
	}
	return p.autoSignOut
}

func (p *Policy) armLocked(window time.Duration) {
	if p.cancelTimer != nil {
		p.cancelTimer()
	}

	p.autoSignOut = window
	// Burst of one: the first activity signal after arming may reset
	// immediately, then one reset per throttle interval.
	p.throttle = rate.NewLimiter(rate.Every(p.throttleEvery), 1)
	p.cancelTimer = p.scheduler.Schedule(window, p.fireDeadline)

	if p.cancelActivity == nil && p.activity != nil {
		p.cancelActivity = p.activity.Subscribe(p.handleActivity)
	}
}

func (p *Policy) disarmLocked() {
	if p.cancelTimer != nil {
		p.cancelTimer()
		p.cancelTimer = nil
	}
	if p.cancelActivity != nil {
		p.cancelActivity()
		p.cancelActivity = nil
	}
	p.autoSignOut = 0
}

func (p *Policy) handleActivity(ActivitySignal) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancelTimer == nil {
		return
	}
	if !p.throttle.AllowN(p.clock.Now(), 1) {
		return
	}

	p.cancelTimer()
	p.cancelTimer = p.scheduler.Schedule(p.autoSignOut, p.fireDeadline)
}

func (p *Policy) fireDeadline() {
	p.mu.Lock()
	p.cancelTimer = nil
	signedIn := p.backend != nil && p.backend.SignedIn()
	p.mu.Unlock()

	if !signedIn {
		return
	}

	// Best effort: a failed backend sign-out is logged, and the policy
	// still reports the timer as fired.
	if err := p.backend.SignOut(context.Background()); err != nil {
		p.warn("goSignin: inactivity sign-out failed", "error", err)
	}
	p.onAutoSignOut()
}
