package flows

import (
	"context"
	"fmt"
)

// RedirectMetrics carries metric IDs needed by the redirect-completion flow.
type RedirectMetrics struct {
	Completed            int
	Failure              int
	NetworkError         int
	ProfileUpsertFailure int
}

// RedirectEvents carries audit event names used by the redirect-completion
// flow.
type RedirectEvents struct {
	Completed string
	Failure   string
}

// RedirectErrors carries host-level sentinel errors used by the
// redirect-completion flow.
type RedirectErrors struct {
	NetworkUnavailable error
	Backend            error
}

// RedirectDeps captures redirect-completion dependencies.
type RedirectDeps struct {
	Identifier func(context.Context) string

	FetchResult   func(ctx context.Context) (*UserRecord, error)
	RecordSuccess func(ctx context.Context, identifier string)
	RecordFailure func(ctx context.Context, identifier string)

	IsNetworkError func(err error) bool

	UpsertProfile    func(ctx context.Context, user *UserRecord) error
	ApplyPersistence func(ctx context.Context) error

	MetricInc func(int)
	EmitAudit EmitAuditFunc
	Warn      func(string, ...any)

	Metrics RedirectMetrics
	Events  RedirectEvents
	Errors  RedirectErrors
}

// RunCompleteRedirect resumes a redirect-based sign-in after page reload. A
// nil result with no error means no redirect is pending; the call is a no-op
// and safe to repeat. The deferred attempt from the redirect hand-off is
// recorded here, on the completion side.
func RunCompleteRedirect(ctx context.Context, deps RedirectDeps) Outcome {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, string, string, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.FetchResult == nil {
		return Outcome{}
	}

	identifier := ""
	if deps.Identifier != nil {
		identifier = deps.Identifier(ctx)
	}

	user, err := deps.FetchResult(ctx)
	if err != nil {
		if deps.RecordFailure != nil {
			deps.RecordFailure(ctx, identifier)
		}
		deps.MetricInc(deps.Metrics.Failure)

		out := Outcome{}
		if deps.IsNetworkError != nil && deps.IsNetworkError(err) {
			deps.MetricInc(deps.Metrics.NetworkError)
			out.NetworkError = true
			out.Err = fmt.Errorf("%w: %v", deps.Errors.NetworkUnavailable, err)
		} else {
			out.Err = fmt.Errorf("%w: %v", deps.Errors.Backend, err)
		}
		deps.EmitAudit(ctx, deps.Events.Failure, false, "", identifier, "", "redirect", out.Err, func() map[string]string {
			return map[string]string{
				"cause": err.Error(),
			}
		})
		return out
	}
	if user == nil {
		// Nothing pending. Startup calls hit this path on every cold load.
		return Outcome{}
	}

	if deps.RecordSuccess != nil {
		deps.RecordSuccess(ctx, identifier)
	}
	if deps.UpsertProfile != nil {
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

	deps.MetricInc(deps.Metrics.Completed)
	deps.EmitAudit(ctx, deps.Events.Completed, true, "", identifier, user.UID, "redirect", nil, nil)
	return Outcome{Success: true, User: user, Method: "redirect"}
}
