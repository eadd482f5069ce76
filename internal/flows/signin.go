package flows

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SignInMetrics carries metric IDs needed by the sign-in flow.
type SignInMetrics struct {
	Success              int
	Failure              int
	RateLimited          int
	RateLimitHit         int
	RedirectPending      int
	NetworkError         int
	ProviderDenied       int
	ProfileUpsertFailure int
}

// SignInEvents carries audit event names used by the sign-in flow.
type SignInEvents struct {
	Success            string
	Failure            string
	RateLimited        string
	RedirectPending    string
	RateLimitTriggered string
}

// SignInErrors carries host-level sentinel errors used by the sign-in flow.
type SignInErrors struct {
	EngineNotReady     error
	RateLimited        error
	NetworkUnavailable error
	ProviderDenied     error
	Backend            error
}

// SignInDeps captures sign-in dependencies.
type SignInDeps struct {
	LinkingEnabled bool

	Operation   func(provider string) string
	Identifier  func(context.Context) string
	DeviceClass func(context.Context) string

	IsLimited       func(ctx context.Context, identifier, operation string) (limited bool, reason string, remaining time.Duration)
	RecordAttempt   func(ctx context.Context, identifier, operation string, success bool)
	ReportRateLimit func(remaining time.Duration)

	PopupSignIn    func(ctx context.Context, provider string) (*UserRecord, error)
	RedirectSignIn func(ctx context.Context, provider string) error

	CollisionEmail   func(err error) (email string, ok bool)
	IsNetworkError   func(err error) bool
	IsProviderDenied func(err error) bool

	NegotiateLink func(ctx context.Context, provider, email string) Outcome

	UpsertProfile    func(ctx context.Context, user *UserRecord) error
	ApplyPersistence func(ctx context.Context) error

	MetricInc func(int)
	EmitAudit EmitAuditFunc
	Warn      func(string, ...any)

	Metrics SignInMetrics
	Events  SignInEvents
	Errors  SignInErrors
}

// RunSignIn executes one sign-in attempt end to end: rate-limit gate,
// device-class branch, popup completion or redirect hand-off, and collision
// negotiation. The attempt is recorded exactly once — on the blocked path or
// on the completion path — never both.
func RunSignIn(ctx context.Context, provider string, deps SignInDeps) Outcome {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, string, string, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.Identifier == nil ||
		deps.Operation == nil ||
		deps.DeviceClass == nil ||
		deps.IsLimited == nil ||
		deps.RecordAttempt == nil ||
		deps.PopupSignIn == nil ||
		deps.RedirectSignIn == nil {
		return Outcome{Err: deps.Errors.EngineNotReady}
	}

	identifier := deps.Identifier(ctx)
	operation := deps.Operation(provider)

	limited, reason, remaining := deps.IsLimited(ctx, identifier, operation)
	if limited {
		deps.RecordAttempt(ctx, identifier, operation, false)
		deps.MetricInc(deps.Metrics.RateLimited)
		deps.MetricInc(deps.Metrics.RateLimitHit)
		deps.EmitAudit(ctx, deps.Events.RateLimited, false, provider, identifier, "", "", deps.Errors.RateLimited, func() map[string]string {
			return map[string]string{
				"reason":       reason,
				"remaining_ms": fmt.Sprintf("%d", remaining.Milliseconds()),
			}
		})
		deps.EmitAudit(ctx, deps.Events.RateLimitTriggered, false, provider, identifier, "", "", deps.Errors.RateLimited, nil)
		if deps.ReportRateLimit != nil {
			deps.ReportRateLimit(remaining)
		}
		return Outcome{RateLimited: true, Remaining: remaining, Err: deps.Errors.RateLimited}
	}

	if deps.DeviceClass(ctx) == "mobile" {
		if err := deps.RedirectSignIn(ctx, provider); err != nil {
			return failSignIn(ctx, provider, identifier, operation, err, deps)
		}
		deps.MetricInc(deps.Metrics.RedirectPending)
		deps.EmitAudit(ctx, deps.Events.RedirectPending, true, provider, identifier, "", "redirect", nil, nil)
		// Completion is observed later by the redirect-result check; the
		// attempt is recorded there, not here.
		return Outcome{Success: true, Pending: true, Method: "redirect"}
	}

	user, err := deps.PopupSignIn(ctx, provider)
	if err == nil && user == nil {
		// A backend must never report success without a user; treat it as a
		// backend failure instead of dereferencing nil below.
		err = errors.New("backend returned no user")
	}
	if err == nil {
		deps.RecordAttempt(ctx, identifier, operation, true)
		finishSignIn(ctx, user, deps)
		deps.MetricInc(deps.Metrics.Success)
		deps.EmitAudit(ctx, deps.Events.Success, true, provider, identifier, user.UID, "popup", nil, nil)
		return Outcome{Success: true, User: user, Method: "popup"}
	}

	if email, ok := deps.CollisionEmail(err); ok && deps.LinkingEnabled && deps.NegotiateLink != nil {
		out := deps.NegotiateLink(ctx, provider, email)
		deps.RecordAttempt(ctx, identifier, operation, out.Success)
		if out.Success {
			finishSignIn(ctx, out.User, deps)
		}
		return out
	}

	return failSignIn(ctx, provider, identifier, operation, err, deps)
}

func failSignIn(ctx context.Context, provider, identifier, operation string, cause error, deps SignInDeps) Outcome {
	deps.RecordAttempt(ctx, identifier, operation, false)
	deps.MetricInc(deps.Metrics.Failure)

	out := Outcome{}
	switch {
	case deps.IsNetworkError != nil && deps.IsNetworkError(cause):
		deps.MetricInc(deps.Metrics.NetworkError)
		out.NetworkError = true
		out.Err = fmt.Errorf("%w: %v", deps.Errors.NetworkUnavailable, cause)
	case deps.IsProviderDenied != nil && deps.IsProviderDenied(cause):
		deps.MetricInc(deps.Metrics.ProviderDenied)
		out.Err = fmt.Errorf("%w: %v", deps.Errors.ProviderDenied, cause)
	default:
		out.Err = fmt.Errorf("%w: %v", deps.Errors.Backend, cause)
	}

	deps.EmitAudit(ctx, deps.Events.Failure, false, provider, identifier, "", "", out.Err, func() map[string]string {
		return map[string]string{
			"cause": cause.Error(),
		}
	})
	return out
}

// finishSignIn performs the post-success side effects shared by the popup
// and linking paths: profile upsert and persistence-policy application.
// Neither may block or fail the sign-in result.
func finishSignIn(ctx context.Context, user *UserRecord, deps SignInDeps) {
	if deps.UpsertProfile != nil && user != nil {
		if err := deps.UpsertProfile(ctx, user); err != nil {
			deps.MetricInc(deps.Metrics.ProfileUpsertFailure)
			deps.Warn("goSignin: profile upsert failed", "error", err)
		}
	}
	if deps.ApplyPersistence != nil {
		if err := deps.ApplyPersistence(ctx); err != nil {
			deps.Warn("goSignin: persistence apply failed", "error", err)
		}
	}
}
