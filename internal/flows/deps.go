package flows

import (
	"context"
	"time"
)

// UserRecord is the flow-local authenticated-user model.
type UserRecord struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	ProviderIDs []string
	IDToken     string
}

// Outcome is the flow-local result shape shared by the sign-in, linking, and
// redirect-completion flows. Every flow path produces an Outcome; no error
// ever escapes a Run function.
type Outcome struct {
	Success      bool
	User         *UserRecord
	Method       string
	Pending      bool
	Linked       bool
	RateLimited  bool
	Remaining    time.Duration
	NetworkError bool
	Err          error
}

// EmitAuditFunc is the host audit emission callback. The metadata builder is
// lazy so disabled audit costs no allocations.
type EmitAuditFunc func(
	ctx context.Context,
	event string,
	success bool,
	provider, identifier, userID, method string,
	err error,
	metadata func() map[string]string,
)

// Deps groups flow dependency sets. Root engine builds this once and
// delegates request methods to the matching flow implementation.
type Deps struct {
	SignIn   SignInDeps
	Linking  LinkingDeps
	Redirect RedirectDeps
}
