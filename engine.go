package goSignin

import (
	"context"
	"time"

	internalflows "github.com/MrEthical07/goSignin/internal/flows"
	"github.com/MrEthical07/goSignin/internal/rate"
	"github.com/MrEthical07/goSignin/session"
)

// rate-limit operation tracked for redirect completions, where the
// initiating provider is no longer recoverable after the page reload.
const redirectOperation = "signin:redirect"

// Engine defines a public type used by goSignin APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config   Config
	backend  AuthBackend
	profiles ProfileStore
	confirm  ConfirmationPort
	status   StatusReporter
	policy   *session.Policy
	limiter  *rate.Limiter
	audit    *auditDispatcher
	metrics  *Metrics
	logger   Logger
	clock    session.Clock
	flows    internalflows.Service
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.policy != nil {
		e.policy.Disarm()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func signInOperation(provider string) string {
	return "signin:" + provider
}

// applyPersistence runs after a completed sign-in. An already-chosen mode is
// left alone; otherwise the environment recommendation is applied.
func (e *Engine) applyPersistence(ctx context.Context) error {
	if e.policy.Mode() != "" {
		return nil
	}
	rec := e.RecommendPersistence(ctx)
	return e.policy.SetMode(ctx, rec.Mode, session.Options{
		AutoSignOutMinutes: rec.AutoSignOutMinutes,
	})
}

func toUser(rec *internalflows.UserRecord) *User {
	if rec == nil {
		return nil
	}
	return &User{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		PhotoURL:    rec.PhotoURL,
		ProviderIDs: rec.ProviderIDs,
		IDToken:     rec.IDToken,
	}
}

func toFlowUser(u *User) *internalflows.UserRecord {
	if u == nil {
		return nil
	}
	return &internalflows.UserRecord{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		ProviderIDs: u.ProviderIDs,
		IDToken:     u.IDToken,
	}
}

func toResult(out internalflows.Outcome) SignInResult {
	return SignInResult{
		Success:      out.Success,
		User:         toUser(out.User),
		Method:       out.Method,
		Pending:      out.Pending,
		Linked:       out.Linked,
		RateLimited:  out.RateLimited,
		Remaining:    out.Remaining,
		NetworkError: out.NetworkError,
		Err:          out.Err,
	}
}

func parseProvider(name string) Provider {
	switch name {
	case "google":
		return ProviderGoogle
	case "facebook":
		return ProviderFacebook
	case "twitter":
		return ProviderTwitter
	case "github":
		return ProviderGitHub
	}
	return providerCount
}

// newFlowService wires the flow dependency sets against the engine's
// collaborators. Built once, at the end of Build, after every engine field
// is in place.
func newFlowService(e *Engine) internalflows.Service {
	upsert := func(ctx context.Context, rec *internalflows.UserRecord) error {
		if e.profiles == nil {
			return nil
		}
		return e.profiles.UpsertUser(ctx, toUser(rec))
	}

	signIn := internalflows.SignInDeps{
		LinkingEnabled: e.config.Linking.Enabled,

		Operation:   signInOperation,
		Identifier:  rateLimitIdentifier,
		DeviceClass: deviceClassFromContext,

		IsLimited: func(ctx context.Context, identifier, operation string) (bool, string, time.Duration) {
			d := e.limiter.IsLimited(ctx, identifier, operation)
			return d.Limited, string(d.Reason), d.Remaining
		},
		RecordAttempt: e.limiter.RecordAttempt,
		ReportRateLimit: func(remaining time.Duration) {
			e.status.ReportRateLimit(0, remaining)
		},

		PopupSignIn: func(ctx context.Context, provider string) (*internalflows.UserRecord, error) {
			user, err := e.backend.SignInWithPopup(ctx, parseProvider(provider))
			if err != nil {
				return nil, err
			}
			return toFlowUser(user), nil
		},
		RedirectSignIn: func(ctx context.Context, provider string) error {
			return e.backend.SignInWithRedirect(ctx, parseProvider(provider))
		},

		CollisionEmail:   CollisionEmail,
		IsNetworkError:   IsNetworkError,
		IsProviderDenied: IsProviderDenied,

		NegotiateLink: func(ctx context.Context, provider, email string) internalflows.Outcome {
			return e.flows.NegotiateLink(ctx, provider, email)
		},

		UpsertProfile:    upsert,
		ApplyPersistence: e.applyPersistence,

		MetricInc: func(id int) { e.metricInc(MetricID(id)) },
		EmitAudit: e.emitAudit,
		Warn:      e.logger.Warn,

		Metrics: internalflows.SignInMetrics{
			Success:              int(MetricSignInSuccess),
			Failure:              int(MetricSignInFailure),
			RateLimited:          int(MetricSignInRateLimited),
			RateLimitHit:         int(MetricRateLimitHit),
			RedirectPending:      int(MetricRedirectPending),
			NetworkError:         int(MetricNetworkError),
			ProviderDenied:       int(MetricProviderDenied),
			ProfileUpsertFailure: int(MetricProfileUpsertFailure),
		},
		Events: internalflows.SignInEvents{
			Success:            auditEventSignInSuccess,
			Failure:            auditEventSignInFailure,
			RateLimited:        auditEventSignInRateLimited,
			RedirectPending:    auditEventRedirectPending,
			RateLimitTriggered: auditEventRateLimitTriggered,
		},
		Errors: internalflows.SignInErrors{
			EngineNotReady:     ErrEngineNotReady,
			RateLimited:        ErrRateLimited,
			NetworkUnavailable: ErrNetworkUnavailable,
			ProviderDenied:     ErrProviderDenied,
			Backend:            ErrBackendError,
		},
	}

	linking := internalflows.LinkingDeps{
		Identifier: rateLimitIdentifier,

		FetchMethods: e.backend.FetchSignInMethodsForEmail,
		Confirm: func(ctx context.Context, email string, methods []string, provider string) (bool, error) {
			if e.confirm == nil {
				return false, nil
			}
			return e.confirm(ctx, LinkingPrompt{
				Email:           email,
				ExistingMethods: methods,
				NewProvider:     parseProvider(provider),
			})
		},
		SignInWithMethod: func(ctx context.Context, email, methodID string) (*internalflows.UserRecord, error) {
			user, err := e.backend.SignInWithMethod(ctx, email, methodID)
			if err != nil {
				return nil, err
			}
			return toFlowUser(user), nil
		},
		LinkWithPopup: func(ctx context.Context, provider string) (*internalflows.UserRecord, error) {
			user, err := e.backend.LinkWithPopup(ctx, parseProvider(provider))
			if err != nil {
				return nil, err
			}
			return toFlowUser(user), nil
		},

		MetricInc: func(id int) { e.metricInc(MetricID(id)) },
		EmitAudit: e.emitAudit,
		Warn:      e.logger.Warn,

		Metrics: internalflows.LinkingMetrics{
			Success:  int(MetricLinkSuccess),
			Declined: int(MetricLinkDeclined),
			Failure:  int(MetricLinkFailure),
		},
		Events: internalflows.LinkingEvents{
			Success:  auditEventAccountLinkSuccess,
			Declined: auditEventAccountLinkDeclined,
			Failure:  auditEventAccountLinkFailure,
		},
		Errors: internalflows.LinkingErrors{
			Declined: ErrAccountLinkingDeclined,
			Failed:   ErrAccountLinkingFailed,
		},
	}

	redirect := internalflows.RedirectDeps{
		Identifier: rateLimitIdentifier,

		FetchResult: func(ctx context.Context) (*internalflows.UserRecord, error) {
			user, err := e.backend.GetRedirectResult(ctx)
			if err != nil {
				return nil, err
			}
			return toFlowUser(user), nil
		},
		RecordSuccess: func(ctx context.Context, identifier string) {
			// A completed redirect resets the counter for every sign-in
			// operation of the identifier; the provider that initiated the
			// redirect is unknown here.
			for p := ProviderGoogle; p < providerCount; p++ {
				e.limiter.RecordAttempt(ctx, identifier, signInOperation(p.String()), true)
			}
			e.limiter.RecordAttempt(ctx, identifier, redirectOperation, true)
		},
		RecordFailure: func(ctx context.Context, identifier string) {
			e.limiter.RecordAttempt(ctx, identifier, redirectOperation, false)
		},

		IsNetworkError: IsNetworkError,

		UpsertProfile:    upsert,
		ApplyPersistence: e.applyPersistence,

		MetricInc: func(id int) { e.metricInc(MetricID(id)) },
		EmitAudit: e.emitAudit,
		Warn:      e.logger.Warn,

		Metrics: internalflows.RedirectMetrics{
			Completed:            int(MetricRedirectCompleted),
			Failure:              int(MetricSignInFailure),
			NetworkError:         int(MetricNetworkError),
			ProfileUpsertFailure: int(MetricProfileUpsertFailure),
		},
		Events: internalflows.RedirectEvents{
			Completed: auditEventRedirectCompleted,
			Failure:   auditEventSignInFailure,
		},
		Errors: internalflows.RedirectErrors{
			NetworkUnavailable: ErrNetworkUnavailable,
			Backend:            ErrBackendError,
		},
	}

	return internalflows.New(internalflows.Deps{
		SignIn:   signIn,
		Linking:  linking,
		Redirect: redirect,
	})
}
