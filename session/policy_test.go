package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type policyClock struct {
	mu  sync.Mutex
	now time.Time
}

func newPolicyClock() *policyClock {
	return &policyClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *policyClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *policyClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// manualScheduler records scheduled callbacks and fires them only on demand,
// so tests control time completely.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*scheduled
}

type scheduled struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &scheduled{delay: d, fn: fn}
	s.pending = append(s.pending, entry)
	return func() {
		s.mu.Lock()
		entry.cancelled = true
		s.mu.Unlock()
	}
}

// FireLatest runs the most recent non-cancelled callback.
func (s *manualScheduler) FireLatest(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	var target *scheduled
	for i := len(s.pending) - 1; i >= 0; i-- {
		if !s.pending[i].cancelled {
			target = s.pending[i]
			break
		}
	}
	s.mu.Unlock()
	if target == nil {
		t.Fatal("no live scheduled callback")
	}
	target.fn()
}

func (s *manualScheduler) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.pending {
		if !p.cancelled {
			n++
		}
	}
	return n
}

func (s *manualScheduler) LatestDelay(t *testing.T) time.Duration {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.pending) - 1; i >= 0; i-- {
		if !s.pending[i].cancelled {
			return s.pending[i].delay
		}
	}
	t.Fatal("no live scheduled callback")
	return 0
}

type fakeBackend struct {
	mu        sync.Mutex
	mode      Mode
	signedIn  bool
	signOuts  int
	modeErr   error
	signErr   error
	modeCalls int
}

func (b *fakeBackend) SetPersistence(_ context.Context, mode Mode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modeCalls++
	if b.modeErr != nil {
		return b.modeErr
	}
	b.mode = mode
	return nil
}

func (b *fakeBackend) SignOut(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signOuts++
	if b.signErr != nil {
		return b.signErr
	}
	b.signedIn = false
	return nil
}

func (b *fakeBackend) SignedIn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.signedIn
}

func (b *fakeBackend) SignOuts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.signOuts
}

type fanoutActivity struct {
	mu   sync.Mutex
	subs []func(ActivitySignal)
}

func (a *fanoutActivity) Subscribe(fn func(ActivitySignal)) CancelFunc {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subs = append(a.subs, fn)
	idx := len(a.subs) - 1
	return func() {
		a.mu.Lock()
		a.subs[idx] = nil
		a.mu.Unlock()
	}
}

func (a *fanoutActivity) Emit(sig ActivitySignal) {
	a.mu.Lock()
	subs := append(([]func(ActivitySignal))(nil), a.subs...)
	a.mu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(sig)
		}
	}
}

type policyFixture struct {
	policy    *Policy
	backend   *fakeBackend
	clock     *policyClock
	scheduler *manualScheduler
	activity  *fanoutActivity
	prefs     *MemoryPreferenceStore
	autoFired int
}

func newPolicyFixture(t *testing.T) *policyFixture {
	t.Helper()

	f := &policyFixture{
		backend:   &fakeBackend{signedIn: true},
		clock:     newPolicyClock(),
		scheduler: &manualScheduler{},
		activity:  &fanoutActivity{},
		prefs:     NewMemoryPreferenceStore(),
	}
	f.policy = NewPolicy(PolicyConfig{
		Backend:       f.backend,
		Preferences:   f.prefs,
		Clock:         f.clock,
		Scheduler:     f.scheduler,
		Activity:      f.activity,
		OnAutoSignOut: func() { f.autoFired++ },
	})
	return f
}

func TestPolicy_SetModeAppliesAndPersists(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeDurable, Options{AutoSignOutMinutes: 15}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	if f.backend.mode != ModeDurable {
		t.Fatalf("backend mode = %q", f.backend.mode)
	}
	if f.policy.Mode() != ModeDurable {
		t.Fatalf("policy mode = %q", f.policy.Mode())
	}
	pref, err := f.prefs.Load(ctx)
	if err != nil || pref == nil {
		t.Fatalf("expected saved preference, got %v, %v", pref, err)
	}
	if pref.Mode != ModeDurable || pref.AutoSignOutMinutes != 15 {
		t.Fatalf("unexpected preference %+v", pref)
	}
	if !f.policy.Armed() {
		t.Fatal("expected timer armed")
	}
	if d := f.scheduler.LatestDelay(t); d != 15*time.Minute {
		t.Fatalf("expected 15m deadline, got %v", d)
	}
}

func TestPolicy_SetModeRejectsInvalidMode(t *testing.T) {
	f := newPolicyFixture(t)

	err := f.policy.SetMode(context.Background(), Mode("sticky"), Options{})
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if f.backend.modeCalls != 0 {
		t.Fatal("backend must not be touched for invalid mode")
	}
}

func TestPolicy_BackendFailureLeavesModeUnchanged(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeDurable, Options{}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	f.backend.modeErr = errors.New("backend down")

	if err := f.policy.SetMode(ctx, ModeTabSession, Options{}); err == nil {
		t.Fatal("expected error from failing backend")
	}
	if f.policy.Mode() != ModeDurable {
		t.Fatalf("mode must stay %q, got %q", ModeDurable, f.policy.Mode())
	}
}

func TestPolicy_MemoryOnlyForcesDisarm(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeDurable, Options{AutoSignOutMinutes: 15}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if !f.policy.Armed() {
		t.Fatal("expected armed")
	}

	// Requesting a window together with memory-only must still disarm.
	if err := f.policy.SetMode(ctx, ModeMemoryOnly, Options{AutoSignOutMinutes: 15}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if f.policy.Armed() {
		t.Fatal("memory-only mode must disarm the timer")
	}
	if f.scheduler.LiveCount() != 0 {
		t.Fatalf("expected all deadlines cancelled, %d live", f.scheduler.LiveCount())
	}
}

func TestPolicy_ArmRejectedInMemoryOnly(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeMemoryOnly, Options{}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if err := f.policy.Arm(15); !errors.Is(err, ErrTimerNotAllowed) {
		t.Fatalf("expected ErrTimerNotAllowed, got %v", err)
	}
}

func TestPolicy_DeadlineSignsOutOnce(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeDurable, Options{AutoSignOutMinutes: 15}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	f.scheduler.FireLatest(t)

	if n := f.backend.SignOuts(); n != 1 {
		t.Fatalf("expected exactly one sign-out, got %d", n)
	}
	if f.autoFired != 1 {
		t.Fatalf("expected one auto sign-out notification, got %d", f.autoFired)
	}
	if f.policy.Armed() {
		t.Fatal("deadline must not re-arm itself")
	}
}

func TestPolicy_DeadlineSignOutFailureStillNotifies(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeDurable, Options{AutoSignOutMinutes: 15}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	f.backend.mu.Lock()
	f.backend.signErr = errors.New("backend down")
	f.backend.mu.Unlock()

	f.scheduler.FireLatest(t)

	if f.autoFired != 1 {
		t.Fatalf("notification must fire despite sign-out failure, got %d", f.autoFired)
	}
}

func TestPolicy_DeadlineNoOpWhenSignedOut(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeDurable, Options{AutoSignOutMinutes: 15}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	f.backend.mu.Lock()
	f.backend.signedIn = false
	f.backend.mu.Unlock()

	f.scheduler.FireLatest(t)

	if n := f.backend.SignOuts(); n != 0 {
		t.Fatalf("expected no sign-out call, got %d", n)
	}
	if f.autoFired != 0 {
		t.Fatal("expected no auto sign-out notification")
	}
}

func TestPolicy_ActivityResetsDeadline(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeDurable, Options{AutoSignOutMinutes: 15}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	f.clock.Advance(10 * time.Minute)
	f.activity.Emit(ActivityKeyPress)

	// Old deadline cancelled, fresh one scheduled for the full window.
	if f.scheduler.LiveCount() != 1 {
		t.Fatalf("expected one live deadline, got %d", f.scheduler.LiveCount())
	}
	if d := f.scheduler.LatestDelay(t); d != 15*time.Minute {
		t.Fatalf("expected reset to full 15m, got %v", d)
	}
}

func TestPolicy_ActivityThrottled(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeDurable, Options{AutoSignOutMinutes: 15}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	f.activity.Emit(ActivityPointerMove) // consumes the burst token
	before := f.scheduler.LiveCount()

	// Inside the 30s throttle window: ignored.
	f.clock.Advance(29 * time.Second)
	f.activity.Emit(ActivityPointerMove)
	if f.scheduler.LiveCount() != before {
		t.Fatal("activity within throttle window must not reschedule")
	}

	// Exactly at the 30s boundary: a full token is available again.
	f.clock.Advance(time.Second)
	f.activity.Emit(ActivityPointerMove)
	if d := f.scheduler.LatestDelay(t); d != 15*time.Minute {
		t.Fatalf("expected reschedule at throttle boundary, got %v", d)
	}
}

func TestPolicy_ActivityIgnoredWhenDisarmed(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.policy.SetMode(ctx, ModeDurable, Options{AutoSignOutMinutes: 15}); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	f.policy.Disarm()

	f.activity.Emit(ActivityScroll)
	if f.scheduler.LiveCount() != 0 {
		t.Fatal("disarmed policy must not schedule on activity")
	}
}

func TestPolicy_RestoreReappliesPreference(t *testing.T) {
	f := newPolicyFixture(t)
	ctx := context.Background()

	if err := f.prefs.Save(ctx, Preference{Mode: ModeTabSession, AutoSignOutMinutes: 10}); err != nil {
		t.Fatalf("seed preference: %v", err)
	}

	pref, err := f.policy.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if pref == nil || pref.Mode != ModeTabSession {
		t.Fatalf("unexpected restored preference %+v", pref)
	}
	if f.policy.Mode() != ModeTabSession {
		t.Fatalf("mode = %q", f.policy.Mode())
	}
	if !f.policy.Armed() {
		t.Fatal("expected timer armed from restored preference")
	}
}

func TestPolicy_RestoreNoOpWithoutPreference(t *testing.T) {
	f := newPolicyFixture(t)

	pref, err := f.policy.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if pref != nil {
		t.Fatalf("expected nil preference, got %+v", pref)
	}
	if f.policy.Mode() != "" {
		t.Fatalf("mode must stay unset, got %q", f.policy.Mode())
	}
}
