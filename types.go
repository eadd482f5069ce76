package goSignin

import (
	"context"
	"time"

	"github.com/MrEthical07/goSignin/session"
)

// Provider defines a public type used by goSignin APIs.
//
// Provider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Provider uint8

const (
	// ProviderGoogle is an exported constant or variable used by the sign-in engine.
	ProviderGoogle Provider = iota
	// ProviderFacebook is an exported constant or variable used by the sign-in engine.
	ProviderFacebook
	// ProviderTwitter is an exported constant or variable used by the sign-in engine.
	ProviderTwitter
	// ProviderGitHub is an exported constant or variable used by the sign-in engine.
	ProviderGitHub

	providerCount
)

// Valid reports whether p is one of the closed set of supported providers.
func (p Provider) Valid() bool {
	return p < providerCount
}

// String describes the string operation and its observable behavior.
func (p Provider) String() string {
	switch p {
	case ProviderGoogle:
		return "google"
	case ProviderFacebook:
		return "facebook"
	case ProviderTwitter:
		return "twitter"
	case ProviderGitHub:
		return "github"
	}
	return "unknown"
}

// MethodID returns the vendor sign-in method identifier for the provider,
// the same namespace FetchSignInMethodsForEmail reports.
func (p Provider) MethodID() string {
	switch p {
	case ProviderGoogle:
		return "google.com"
	case ProviderFacebook:
		return "facebook.com"
	case ProviderTwitter:
		return "twitter.com"
	case ProviderGitHub:
		return "github.com"
	}
	return ""
}

// User is the authenticated user record surfaced by the backend. ProviderIDs
// is the live linked-credential set; it is never cached independently so
// linking flows cannot observe stale data.
type User struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	ProviderIDs []string
	IDToken     string
	CreatedAt   time.Time
	LastLoginAt time.Time
}

// AuthBackend is the vendor identity capability consumed by the engine. It
// is treated as an opaque, atomic black box: the engine only branches on the
// Code field of returned [BackendError] values.
//
// The persistence-related subset (SetPersistence, SignOut, SignedIn)
// structurally satisfies [session.PersistenceBackend].
type AuthBackend interface {
	SignInWithPopup(ctx context.Context, provider Provider) (*User, error)
	SignInWithRedirect(ctx context.Context, provider Provider) error
	// GetRedirectResult returns (nil, nil) when no redirect completion is
	// pending.
	GetRedirectResult(ctx context.Context) (*User, error)
	// SignInWithMethod authenticates with an already-registered sign-in
	// method for the email, used during account-linking negotiation.
	SignInWithMethod(ctx context.Context, email, methodID string) (*User, error)
	// LinkWithPopup links the provider's credential to the currently
	// authenticated session.
	LinkWithPopup(ctx context.Context, provider Provider) (*User, error)
	FetchSignInMethodsForEmail(ctx context.Context, email string) ([]string, error)
	SetPersistence(ctx context.Context, mode session.Mode) error
	SignOut(ctx context.Context) error
	SignedIn() bool
	CurrentUser() *User
}

// ProfileStore ensures a user record exists after sign-in. Upserts are
// idempotent create-or-touch-lastLogin; failures are logged by the engine
// and never block a sign-in result.
type ProfileStore interface {
	UpsertUser(ctx context.Context, user *User) error
}

// LinkingPrompt is what the confirmation port presents before any account
// mutation: the colliding email, its existing sign-in methods, and the new
// provider asking to be linked.
type LinkingPrompt struct {
	Email           string
	ExistingMethods []string
	NewProvider     Provider
}

// ConfirmationPort asks the user for explicit linking consent. The
// orchestrator never guesses consent; a false return aborts the flow with no
// account modified.
type ConfirmationPort func(ctx context.Context, prompt LinkingPrompt) (bool, error)

// StatusReporter is an optional capability for surfacing rate-limit state to
// a UI layer. The composition root supplies an implementation or leaves the
// default no-op in place.
type StatusReporter interface {
	ReportRateLimit(remaining int, cooldown time.Duration)
}

type noopStatusReporter struct{}

func (noopStatusReporter) ReportRateLimit(int, time.Duration) {}

// SignInResult is the uniform outcome of [Engine.SignIn],
// [Engine.CompleteRedirect], and the linking sub-flow. Exactly one of the
// terminal shapes holds: Success with a User, Success with Pending for a
// redirect in flight, or a failure with Err set to one of the sentinel
// taxonomy errors.
type SignInResult struct {
	Success      bool
	User         *User
	Method       string
	Pending      bool
	Linked       bool
	RateLimited  bool
	Remaining    time.Duration
	NetworkError bool
	Err          error
}

// Sign-in methods reported in [SignInResult.Method].
const (
	// MethodPopup is an exported constant or variable used by the sign-in engine.
	MethodPopup = "popup"
	// MethodRedirect is an exported constant or variable used by the sign-in engine.
	MethodRedirect = "redirect"
)
