package goSignin

import (
	"context"

	"github.com/MrEthical07/goSignin/session"
)

// SetPersistenceMode describes the setpersistencemode operation and its observable behavior.
//
// SetPersistenceMode may return an error when input validation, dependency calls, or security checks fail.
// SetPersistenceMode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SetPersistenceMode(ctx context.Context, mode session.Mode, opts session.Options) error {
	if e == nil || e.policy == nil {
		return ErrEngineNotReady
	}
	if err := e.policy.SetMode(ctx, mode, opts); err != nil {
		return err
	}

	e.metricInc(MetricPersistenceChanged)
	e.emitAudit(ctx, auditEventPersistenceChanged, true, "", rateLimitIdentifier(ctx), "", "", nil, func() map[string]string {
		return map[string]string{
			"mode": string(mode),
		}
	})
	return nil
}

// RestorePreference describes the restorepreference operation and its observable behavior.
//
// RestorePreference may return an error when input validation, dependency calls, or security checks fail.
// RestorePreference does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RestorePreference(ctx context.Context) (*session.Preference, error) {
	if e == nil || e.policy == nil {
		return nil, ErrEngineNotReady
	}
	return e.policy.Restore(ctx)
}

// RecommendPersistence describes the recommendpersistence operation and its observable behavior.
//
// RecommendPersistence may return an error when input validation, dependency calls, or security checks fail.
// RecommendPersistence does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RecommendPersistence(ctx context.Context) session.Recommendation {
	info := clientInfoFromContext(ctx)
	return session.Recommend(session.Environment{
		Hostname:  info.Hostname,
		UserAgent: info.UserAgent,
	})
}

// ArmInactivityTimer describes the arminactivitytimer operation and its observable behavior.
//
// ArmInactivityTimer may return an error when input validation, dependency calls, or security checks fail.
// ArmInactivityTimer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ArmInactivityTimer(minutes int) error {
	if e == nil || e.policy == nil {
		return ErrEngineNotReady
	}
	return e.policy.Arm(minutes)
}

// DisarmInactivityTimer describes the disarminactivitytimer operation and its observable behavior.
//
// DisarmInactivityTimer may return an error when input validation, dependency calls, or security checks fail.
// DisarmInactivityTimer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) DisarmInactivityTimer() {
	if e == nil || e.policy == nil {
		return
	}
	e.policy.Disarm()
}

// SignOut describes the signout operation and its observable behavior.
//
// SignOut may return an error when input validation, dependency calls, or security checks fail.
// SignOut does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SignOut(ctx context.Context) error {
	if e == nil || e.backend == nil {
		return ErrEngineNotReady
	}

	// Timer first. A failing backend sign-out must not leave a deadline
	// armed against a session the caller already abandoned.
	if e.policy != nil {
		e.policy.Disarm()
	}

	if err := e.backend.SignOut(ctx); err != nil {
		return err
	}

	e.metricInc(MetricSignOut)
	e.emitAudit(ctx, auditEventSignOut, true, "", rateLimitIdentifier(ctx), "", "", nil, nil)
	return nil
}
