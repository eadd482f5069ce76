package local

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	goSignin "github.com/MrEthical07/goSignin"
	"github.com/MrEthical07/goSignin/session"
)

const tokenTTL = time.Hour

// Account seeds one identity known to the backend. Methods lists the
// sign-in method IDs already registered for the email, for example
// "google.com" or "github.com".
type Account struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	Methods     []string
}

type account struct {
	Account
	createdAt time.Time
}

// Backend is an in-memory [goSignin.AuthBackend]. The zero value is not
// usable; construct with [New].
type Backend struct {
	mu sync.Mutex

	secret     []byte
	now        func() time.Time
	accounts   map[string]*account
	identities map[goSignin.Provider]string

	current     *goSignin.User
	mode        session.Mode
	pendingFrom *goSignin.Provider

	networkDown   bool
	nextPopupCode string
}

// New returns an empty backend signing ID tokens with secret.
func New(secret []byte) *Backend {
	return &Backend{
		secret:     secret,
		now:        time.Now,
		accounts:   map[string]*account{},
		identities: map[goSignin.Provider]string{},
	}
}

// WithClock replaces the wall clock, for deterministic token timestamps in
// tests.
func (b *Backend) WithClock(now func() time.Time) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
	return b
}

// Seed registers an account the provider side already knows about.
func (b *Backend) Seed(acc Account) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[acc.Email] = &account{Account: acc, createdAt: b.now()}
	return b
}

// SetIdentity declares which email the device's provider session resolves
// to. A popup or redirect for the provider signs in as this email.
func (b *Backend) SetIdentity(provider goSignin.Provider, email string) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.identities[provider] = email
	return b
}

// SetNetworkDown makes every provider call fail with a network error code
// until cleared.
func (b *Backend) SetNetworkDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.networkDown = down
}

// FailNextPopup makes the next popup attempt fail with the given vendor
// code, for example [goSignin.CodePopupClosedByUser].
func (b *Backend) FailNextPopup(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextPopupCode = code
}

// PendingRedirect reports whether a redirect hand-off is awaiting
// completion.
func (b *Backend) PendingRedirect() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingFrom != nil
}

// PersistenceMode returns the last applied persistence mode.
func (b *Backend) PersistenceMode() session.Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// SignInWithPopup describes the signinwithpopup operation and its observable behavior.
//
// SignInWithPopup may return an error when input validation, dependency calls, or security checks fail.
// SignInWithPopup does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) SignInWithPopup(_ context.Context, provider goSignin.Provider) (*goSignin.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.networkDown {
		return nil, &goSignin.BackendError{Code: goSignin.CodeNetworkRequestFailed, Message: "simulated outage"}
	}
	if b.nextPopupCode != "" {
		code := b.nextPopupCode
		b.nextPopupCode = ""
		return nil, &goSignin.BackendError{Code: code}
	}
	return b.completeLocked(provider)
}

// SignInWithRedirect describes the signinwithredirect operation and its observable behavior.
//
// SignInWithRedirect may return an error when input validation, dependency calls, or security checks fail.
// SignInWithRedirect does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) SignInWithRedirect(_ context.Context, provider goSignin.Provider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.networkDown {
		return &goSignin.BackendError{Code: goSignin.CodeNetworkRequestFailed, Message: "simulated outage"}
	}
	p := provider
	b.pendingFrom = &p
	return nil
}

// GetRedirectResult describes the getredirectresult operation and its observable behavior.
//
// GetRedirectResult may return an error when input validation, dependency calls, or security checks fail.
// GetRedirectResult does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) GetRedirectResult(_ context.Context) (*goSignin.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pendingFrom == nil {
		return nil, nil
	}
	provider := *b.pendingFrom
	b.pendingFrom = nil

	if b.networkDown {
		return nil, &goSignin.BackendError{Code: goSignin.CodeNetworkRequestFailed, Message: "simulated outage"}
	}
	return b.completeLocked(provider)
}

// SignInWithMethod describes the signinwithmethod operation and its observable behavior.
//
// SignInWithMethod may return an error when input validation, dependency calls, or security checks fail.
// SignInWithMethod does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) SignInWithMethod(_ context.Context, email, methodID string) (*goSignin.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.accounts[email]
	if !ok {
		return nil, &goSignin.BackendError{Code: "user-not-found", Email: email}
	}
	if !hasMethod(acc.Methods, methodID) {
		return nil, &goSignin.BackendError{Code: "wrong-sign-in-method", Email: email}
	}
	return b.signInLocked(acc)
}

// LinkWithPopup describes the linkwithpopup operation and its observable behavior.
//
// LinkWithPopup may return an error when input validation, dependency calls, or security checks fail.
// LinkWithPopup does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) LinkWithPopup(_ context.Context, provider goSignin.Provider) (*goSignin.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return nil, &goSignin.BackendError{Code: "no-current-user"}
	}
	acc, ok := b.accounts[b.current.Email]
	if !ok {
		return nil, &goSignin.BackendError{Code: "user-not-found", Email: b.current.Email}
	}

	methodID := provider.MethodID()
	if !hasMethod(acc.Methods, methodID) {
		acc.Methods = append(acc.Methods, methodID)
	}
	return b.signInLocked(acc)
}

// FetchSignInMethodsForEmail describes the fetchsigninmethodsforemail operation and its observable behavior.
//
// FetchSignInMethodsForEmail may return an error when input validation, dependency calls, or security checks fail.
// FetchSignInMethodsForEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) FetchSignInMethodsForEmail(_ context.Context, email string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.networkDown {
		return nil, &goSignin.BackendError{Code: goSignin.CodeNetworkRequestFailed, Message: "simulated outage"}
	}
	acc, ok := b.accounts[email]
	if !ok {
		return nil, nil
	}
	out := make([]string, len(acc.Methods))
	copy(out, acc.Methods)
	return out, nil
}

// SetPersistence describes the setpersistence operation and its observable behavior.
//
// SetPersistence may return an error when input validation, dependency calls, or security checks fail.
// SetPersistence does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) SetPersistence(_ context.Context, mode session.Mode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = mode
	return nil
}

// SignOut describes the signout operation and its observable behavior.
//
// SignOut may return an error when input validation, dependency calls, or security checks fail.
// SignOut does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) SignOut(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
	return nil
}

// SignedIn describes the signedin operation and its observable behavior.
func (b *Backend) SignedIn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current != nil
}

// CurrentUser describes the currentuser operation and its observable behavior.
func (b *Backend) CurrentUser() *goSignin.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	u := *b.current
	u.ProviderIDs = append([]string(nil), b.current.ProviderIDs...)
	return &u
}

// completeLocked resolves the provider's device identity and either signs
// in or reports a credential collision.
func (b *Backend) completeLocked(provider goSignin.Provider) (*goSignin.User, error) {
	email, ok := b.identities[provider]
	if !ok {
		return nil, &goSignin.BackendError{Code: "user-not-found"}
	}
	acc, ok := b.accounts[email]
	if !ok {
		// First sign-in with this provider creates the account.
		acc = &account{
			Account: Account{
				UID:     "local-" + email,
				Email:   email,
				Methods: []string{provider.MethodID()},
			},
			createdAt: b.now(),
		}
		b.accounts[email] = acc
		return b.signInLocked(acc)
	}
	if !hasMethod(acc.Methods, provider.MethodID()) {
		return nil, &goSignin.BackendError{
			Code:  goSignin.CodeAccountExistsWithDifferentCredential,
			Email: email,
		}
	}
	return b.signInLocked(acc)
}

func (b *Backend) signInLocked(acc *account) (*goSignin.User, error) {
	now := b.now()
	token, err := b.mintToken(acc, now)
	if err != nil {
		return nil, &goSignin.BackendError{Code: "token-mint-failed", Message: err.Error()}
	}

	user := &goSignin.User{
		UID:         acc.UID,
		Email:       acc.Email,
		DisplayName: acc.DisplayName,
		PhotoURL:    acc.PhotoURL,
		ProviderIDs: append([]string(nil), acc.Methods...),
		IDToken:     token,
		CreatedAt:   acc.createdAt,
		LastLoginAt: now,
	}
	b.current = user
	return user, nil
}

func (b *Backend) mintToken(acc *account, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   acc.UID,
		"email": acc.Email,
		"name":  acc.DisplayName,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

func hasMethod(methods []string, methodID string) bool {
	for _, m := range methods {
		if m == methodID {
			return true
		}
	}
	return false
}
