package session

import (
	"context"
	"time"
)

// PersistenceBackend is the slice of the vendor auth capability that the
// policy needs: applying a persistence mode, signing out, and reporting
// whether a user is currently signed in.
type PersistenceBackend interface {
	SetPersistence(ctx context.Context, mode Mode) error
	SignOut(ctx context.Context) error
	SignedIn() bool
}

// Clock defines a public type used by goSignin APIs.
//
// Clock instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Clock interface {
	Now() time.Time
}

// CancelFunc cancels a scheduled callback or an active subscription.
// Calling it more than once is a no-op.
type CancelFunc func()

// Scheduler schedules a single callback after a delay. The returned
// [CancelFunc] prevents the callback from firing if invoked first.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

// ActivitySignal identifies the kind of user activity observed.
type ActivitySignal uint8

const (
	// ActivityPointerDown is an exported constant or variable used by the sign-in engine.
	ActivityPointerDown ActivitySignal = iota
	// ActivityPointerMove is an exported constant or variable used by the sign-in engine.
	ActivityPointerMove
	// ActivityKeyPress is an exported constant or variable used by the sign-in engine.
	ActivityKeyPress
	// ActivityScroll is an exported constant or variable used by the sign-in engine.
	ActivityScroll
	// ActivityTouchStart is an exported constant or variable used by the sign-in engine.
	ActivityTouchStart
)

// ActivitySource delivers user-activity signals to a subscriber. The
// composition root adapts whatever event plumbing the host UI has; tests
// drive it directly.
type ActivitySource interface {
	Subscribe(fn func(ActivitySignal)) CancelFunc
}

// SystemClock is the wall-clock [Clock].
type SystemClock struct{}

// Now describes the now operation and its observable behavior.
func (SystemClock) Now() time.Time { return time.Now() }

// TimerScheduler is the real [Scheduler] backed by time.AfterFunc.
type TimerScheduler struct{}

// Schedule describes the schedule operation and its observable behavior.
//
// Schedule may return an error when input validation, dependency calls, or security checks fail.
// Schedule does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (TimerScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
