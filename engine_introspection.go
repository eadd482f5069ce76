package goSignin

import (
	"context"

	"github.com/MrEthical07/goSignin/session"
)

// CurrentUser describes the currentuser operation and its observable behavior.
//
// CurrentUser may return an error when input validation, dependency calls, or security checks fail.
// CurrentUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CurrentUser() *User {
	if e == nil || e.backend == nil {
		return nil
	}
	return e.backend.CurrentUser()
}

// SignedIn describes the signedin operation and its observable behavior.
//
// SignedIn may return an error when input validation, dependency calls, or security checks fail.
// SignedIn does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SignedIn() bool {
	if e == nil || e.backend == nil {
		return false
	}
	return e.backend.SignedIn()
}

// LinkedProviders returns the live linked-credential method IDs of the
// current user, always read from the backend, never from a cached copy.
// Empty when nobody is signed in.
func (e *Engine) LinkedProviders() []string {
	user := e.CurrentUser()
	if user == nil {
		return nil
	}
	out := make([]string, len(user.ProviderIDs))
	copy(out, user.ProviderIDs)
	return out
}

// AttemptsRemaining reports how many sign-in attempts for the provider the
// caller has left in the current window before the limiter blocks. Zero when
// already limited. A pure read: it never arms a cooldown.
func (e *Engine) AttemptsRemaining(ctx context.Context, provider Provider) int {
	if e == nil || e.limiter == nil || !provider.Valid() {
		return 0
	}
	identifier := rateLimitIdentifier(ctx)
	operation := signInOperation(provider.String())
	if d := e.limiter.Peek(ctx, identifier, operation); d.Limited {
		return 0
	}
	used := e.limiter.AttemptCount(ctx, identifier, operation)
	remaining := e.config.RateLimit.MaxAttempts - used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PersistenceMode describes the persistencemode operation and its observable behavior.
//
// PersistenceMode may return an error when input validation, dependency calls, or security checks fail.
// PersistenceMode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) PersistenceMode() session.Mode {
	if e == nil || e.policy == nil {
		return ""
	}
	return e.policy.Mode()
}

// InactivityTimerArmed describes the inactivitytimerarmed operation and its observable behavior.
//
// InactivityTimerArmed may return an error when input validation, dependency calls, or security checks fail.
// InactivityTimerArmed does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) InactivityTimerArmed() bool {
	if e == nil || e.policy == nil {
		return false
	}
	return e.policy.Armed()
}
