package goSignin

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the sign-in engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrInvalidProvider is an exported constant or variable used by the sign-in engine.
	ErrInvalidProvider = errors.New("invalid provider")
	// ErrRateLimited is an exported constant or variable used by the sign-in engine.
	ErrRateLimited = errors.New("too many sign-in attempts")
	// ErrNetworkUnavailable is an exported constant or variable used by the sign-in engine.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrProviderDenied is an exported constant or variable used by the sign-in engine.
	ErrProviderDenied = errors.New("provider sign-in denied")
	// ErrAccountLinkingDeclined is an exported constant or variable used by the sign-in engine.
	ErrAccountLinkingDeclined = errors.New("user declined account linking")
	// ErrAccountLinkingFailed is an exported constant or variable used by the sign-in engine.
	ErrAccountLinkingFailed = errors.New("account linking failed")
	// ErrBackendUnavailable is an exported constant or variable used by the sign-in engine.
	ErrBackendUnavailable = errors.New("auth backend unavailable")
	// ErrBackendError is an exported constant or variable used by the sign-in engine.
	ErrBackendError = errors.New("auth backend error")
)

// Vendor error codes recognized by the engine. The backend reports errors
// with an opaque code string; these are the codes the flows branch on.
const (
	// CodeAccountExistsWithDifferentCredential signals a credential collision
	// that triggers account-linking negotiation.
	CodeAccountExistsWithDifferentCredential = "account-exists-with-different-credential"
	// CodePopupClosedByUser is an exported constant or variable used by the sign-in engine.
	CodePopupClosedByUser = "popup-closed-by-user"
	// CodePopupBlocked is an exported constant or variable used by the sign-in engine.
	CodePopupBlocked = "popup-blocked"
	// CodeCancelledPopupRequest is an exported constant or variable used by the sign-in engine.
	CodeCancelledPopupRequest = "cancelled-popup-request"
	// CodeNetworkRequestFailed is an exported constant or variable used by the sign-in engine.
	CodeNetworkRequestFailed = "network-request-failed"
	// CodeTimeout is an exported constant or variable used by the sign-in engine.
	CodeTimeout = "timeout"
)

// BackendError is the uniform shape of vendor backend failures. Code carries
// the vendor's error code string for branching; Email is populated on
// credential-collision errors when the vendor reports it.
type BackendError struct {
	Code    string
	Message string
	Email   string
}

// Error describes the error operation and its observable behavior.
func (e *BackendError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Is makes BackendError match [ErrBackendError] with errors.Is.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendError
}

// CollisionEmail extracts the colliding email from an
// account-exists-with-different-credential error. ok is false for every
// other error shape.
func CollisionEmail(err error) (email string, ok bool) {
	var be *BackendError
	if !errors.As(err, &be) {
		return "", false
	}
	if be.Code != CodeAccountExistsWithDifferentCredential {
		return "", false
	}
	return be.Email, true
}

// IsNetworkError reports whether the backend failure looks like missing
// connectivity rather than a definitive denial.
func IsNetworkError(err error) bool {
	var be *BackendError
	if !errors.As(err, &be) {
		return false
	}
	switch be.Code {
	case CodeNetworkRequestFailed, CodeTimeout:
		return true
	}
	return false
}

// IsProviderDenied reports whether the user cancelled the provider flow or
// the browser blocked the popup.
func IsProviderDenied(err error) bool {
	var be *BackendError
	if !errors.As(err, &be) {
		return false
	}
	switch be.Code {
	case CodePopupClosedByUser, CodePopupBlocked, CodeCancelledPopupRequest:
		return true
	}
	return false
}
