package flows

import (
	"context"
	"fmt"
)

// LinkingMetrics carries metric IDs needed by the linking flow.
type LinkingMetrics struct {
	Success  int
	Declined int
	Failure  int
}

// LinkingEvents carries audit event names used by the linking flow.
type LinkingEvents struct {
	Success  string
	Declined string
	Failure  string
}

// LinkingErrors carries host-level sentinel errors used by the linking flow.
type LinkingErrors struct {
	Declined error
	Failed   error
}

// LinkingDeps captures account-linking dependencies.
type LinkingDeps struct {
	Identifier func(context.Context) string

	FetchMethods     func(ctx context.Context, email string) ([]string, error)
	Confirm          func(ctx context.Context, email string, methods []string, provider string) (bool, error)
	SignInWithMethod func(ctx context.Context, email, methodID string) (*UserRecord, error)
	LinkWithPopup    func(ctx context.Context, provider string) (*UserRecord, error)

	MetricInc func(int)
	EmitAudit EmitAuditFunc
	Warn      func(string, ...any)

	Metrics LinkingMetrics
	Events  LinkingEvents
	Errors  LinkingErrors
}

// RunLinking negotiates attaching a new provider credential to an existing
// account that shares the same email. No account is modified before the
// confirmation step grants consent. On acceptance the flow signs in with the
// first existing method — the ordering is backend-defined and deliberately
// not re-sorted here — then links the new credential.
func RunLinking(ctx context.Context, provider, email string, deps LinkingDeps) Outcome {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, string, string, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}

	identifier := ""
	if deps.Identifier != nil {
		identifier = deps.Identifier(ctx)
	}

	fail := func(cause error, reason string) Outcome {
		err := cause
		if err == nil {
			err = fmt.Errorf("%w: %s", deps.Errors.Failed, reason)
		}
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, deps.Events.Failure, false, provider, identifier, "", "", err, func() map[string]string {
			return map[string]string{
				"reason": reason,
			}
		})
		return Outcome{Err: err}
	}

	if email == "" {
		return fail(nil, "email unavailable")
	}
	if deps.FetchMethods == nil || deps.Confirm == nil || deps.SignInWithMethod == nil || deps.LinkWithPopup == nil {
		return fail(nil, "linking not wired")
	}

	methods, err := deps.FetchMethods(ctx, email)
	if err != nil {
		return fail(fmt.Errorf("%w: fetch sign-in methods: %v", deps.Errors.Failed, err), "fetch_methods_failed")
	}
	if len(methods) == 0 {
		return fail(nil, "no existing sign-in methods")
	}

	accepted, err := deps.Confirm(ctx, email, methods, provider)
	if err != nil {
		return fail(fmt.Errorf("%w: confirmation: %v", deps.Errors.Failed, err), "confirmation_failed")
	}
	if !accepted {
		deps.MetricInc(deps.Metrics.Declined)
		deps.EmitAudit(ctx, deps.Events.Declined, false, provider, identifier, "", "", deps.Errors.Declined, nil)
		return Outcome{Err: deps.Errors.Declined}
	}

	existing, err := deps.SignInWithMethod(ctx, email, methods[0])
	if err != nil {
		return fail(fmt.Errorf("%w: sign in with %s: %v", deps.Errors.Failed, methods[0], err), "existing_method_signin_failed")
	}

	linked, err := deps.LinkWithPopup(ctx, provider)
	if err != nil {
		return fail(fmt.Errorf("%w: link credential: %v", deps.Errors.Failed, err), "link_failed")
	}
	if linked == nil {
		// Some backends report link success without returning the record;
		// the re-authenticated user is still signed in.
		linked = existing
	}
	if linked == nil {
		return fail(nil, "no user after linking")
	}

	deps.MetricInc(deps.Metrics.Success)
	deps.EmitAudit(ctx, deps.Events.Success, true, provider, identifier, linked.UID, "popup", nil, func() map[string]string {
		return map[string]string{
			"existing_method": methods[0],
		}
	})
	return Outcome{Success: true, Linked: true, User: linked, Method: "popup"}
}
