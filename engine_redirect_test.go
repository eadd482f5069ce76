package goSignin

import (
	"errors"
	"testing"
)

func TestCompleteRedirect_NothingPending(t *testing.T) {
	backend := &stubBackend{}
	engine := newSignInTestEngine(t, backend)

	res := engine.CompleteRedirect(desktopCtx())

	if res.Success || res.Err != nil {
		t.Fatalf("expected empty no-op result, got %+v", res)
	}
}

func TestCompleteRedirect_ResumesPendingSignIn(t *testing.T) {
	backend := &stubBackend{
		pendingResult: &User{UID: "u1", Email: "alice@example.com"},
	}
	profiles := &recordingProfiles{}
	engine := newSignInTestEngine(t, backend, func(b *Builder) {
		b.WithProfileStore(profiles)
	})

	res := engine.CompleteRedirect(mobileCtx())

	if !res.Success || res.Err != nil {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Method != MethodRedirect {
		t.Fatalf("method = %q", res.Method)
	}
	if res.User == nil || res.User.UID != "u1" {
		t.Fatalf("user = %+v", res.User)
	}
	if profiles.Count() != 1 {
		t.Fatalf("expected one upsert, got %d", profiles.Count())
	}
	if got := engine.metrics.Value(MetricRedirectCompleted); got != 1 {
		t.Fatalf("MetricRedirectCompleted = %d", got)
	}
}

func TestCompleteRedirect_Idempotent(t *testing.T) {
	backend := &stubBackend{
		pendingResult: &User{UID: "u1"},
	}
	engine := newSignInTestEngine(t, backend)
	ctx := mobileCtx()

	first := engine.CompleteRedirect(ctx)
	second := engine.CompleteRedirect(ctx)

	if !first.Success {
		t.Fatalf("first completion should succeed, got %+v", first)
	}
	if second.Success || second.Err != nil {
		t.Fatalf("second completion must be an empty no-op, got %+v", second)
	}
	if got := engine.metrics.Value(MetricRedirectCompleted); got != 1 {
		t.Fatalf("completion counted twice: %d", got)
	}
}

func TestCompleteRedirect_SuccessClearsAttempts(t *testing.T) {
	backend := &stubBackend{
		popupErr:      &BackendError{Code: CodePopupClosedByUser},
		pendingResult: &User{UID: "u1"},
	}
	engine := newSignInTestEngine(t, backend)
	ctx := desktopCtx()

	engine.SignIn(ctx, ProviderGoogle)
	engine.SignIn(ctx, ProviderGoogle)
	if got := engine.AttemptsRemaining(ctx, ProviderGoogle); got >= DefaultConfig().RateLimit.MaxAttempts {
		t.Fatalf("expected consumed attempts, got %d remaining", got)
	}

	if res := engine.CompleteRedirect(ctx); !res.Success {
		t.Fatalf("completion failed: %+v", res)
	}

	if got := engine.AttemptsRemaining(ctx, ProviderGoogle); got != DefaultConfig().RateLimit.MaxAttempts {
		t.Fatalf("completed redirect must reset the budget, got %d", got)
	}
}

func TestCompleteRedirect_NetworkErrorMapping(t *testing.T) {
	backend := &stubBackend{
		pendingErr: &BackendError{Code: CodeNetworkRequestFailed},
	}
	engine := newSignInTestEngine(t, backend)

	res := engine.CompleteRedirect(mobileCtx())

	if !res.NetworkError {
		t.Fatal("expected NetworkError flag")
	}
	if !errors.Is(res.Err, ErrNetworkUnavailable) {
		t.Fatalf("expected ErrNetworkUnavailable, got %v", res.Err)
	}
}
