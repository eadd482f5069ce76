package internaldefs

import (
	goSignin "github.com/MrEthical07/goSignin"
)

// CounterDef defines a public type used by goSignin APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSignin.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSignin APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSignin.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the sign-in engine.
var CounterDefs = []CounterDef{
	{ID: goSignin.MetricSignInSuccess, Name: "gosignin_signin_success_total", Help: "Successful sign-in attempts."},
	{ID: goSignin.MetricSignInFailure, Name: "gosignin_signin_failure_total", Help: "Failed sign-in attempts."},
	{ID: goSignin.MetricSignInRateLimited, Name: "gosignin_signin_rate_limited_total", Help: "Rate-limited sign-in attempts."},
	{ID: goSignin.MetricRedirectPending, Name: "gosignin_redirect_pending_total", Help: "Redirect hand-offs started."},
	{ID: goSignin.MetricRedirectCompleted, Name: "gosignin_redirect_completed_total", Help: "Redirect sign-ins completed."},
	{ID: goSignin.MetricLinkSuccess, Name: "gosignin_link_success_total", Help: "Successful account-linking negotiations."},
	{ID: goSignin.MetricLinkDeclined, Name: "gosignin_link_declined_total", Help: "Account-linking prompts declined by the user."},
	{ID: goSignin.MetricLinkFailure, Name: "gosignin_link_failure_total", Help: "Failed account-linking negotiations."},
	{ID: goSignin.MetricNetworkError, Name: "gosignin_network_error_total", Help: "Sign-in attempts failed by missing connectivity."},
	{ID: goSignin.MetricProviderDenied, Name: "gosignin_provider_denied_total", Help: "Sign-in attempts cancelled at the provider."},
	{ID: goSignin.MetricRateLimitHit, Name: "gosignin_rate_limit_hit_total", Help: "Rate-limit checks that denied requests."},
	{ID: goSignin.MetricAutoSignOut, Name: "gosignin_auto_signout_total", Help: "Inactivity deadlines that signed the user out."},
	{ID: goSignin.MetricSignOut, Name: "gosignin_signout_total", Help: "Explicit sign-out operations."},
	{ID: goSignin.MetricPersistenceChanged, Name: "gosignin_persistence_changed_total", Help: "Persistence mode changes."},
	{ID: goSignin.MetricProfileUpsertFailure, Name: "gosignin_profile_upsert_failure_total", Help: "Profile upserts that failed after sign-in."},
}

// HistogramDefs is an exported constant or variable used by the sign-in engine.
var HistogramDefs = []HistogramDef{
	{ID: goSignin.MetricSignInLatency, Name: "gosignin_signin_latency_seconds", Help: "Sign-in latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the sign-in engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the sign-in engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
