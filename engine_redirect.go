package goSignin

import "context"

// CompleteRedirect describes the completeredirect operation and its observable behavior.
//
// CompleteRedirect may return an error when input validation, dependency calls, or security checks fail.
// CompleteRedirect does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CompleteRedirect(ctx context.Context) SignInResult {
	if e == nil || !e.flows.Initialized() {
		return SignInResult{Err: ErrEngineNotReady}
	}
	return toResult(e.flows.CompleteRedirect(ctx))
}
