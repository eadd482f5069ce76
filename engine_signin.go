package goSignin

import (
	"context"
	"fmt"
	"time"
)

// SignIn describes the signin operation and its observable behavior.
//
// SignIn may return an error when input validation, dependency calls, or security checks fail.
// SignIn does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SignIn(ctx context.Context, provider Provider) SignInResult {
	if e == nil || !e.flows.Initialized() {
		return SignInResult{Err: ErrEngineNotReady}
	}
	if !provider.Valid() {
		return SignInResult{Err: fmt.Errorf("%w: %d", ErrInvalidProvider, provider)}
	}

	start := time.Now()
	out := e.flows.SignIn(ctx, provider.String())
	if e.metrics != nil {
		e.metrics.Observe(MetricSignInLatency, time.Since(start))
	}
	return toResult(out)
}
