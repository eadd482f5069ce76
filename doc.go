// Package goSignin provides a client-side sign-in policy engine: sliding-window
// rate limiting of authentication attempts, persistence-mode management with
// inactivity auto-sign-out, and an orchestrated sign-in flow with
// account-linking negotiation over a vendor auth backend.
//
// The package never talks to an identity provider itself. The vendor SDK is
// injected as an [AuthBackend]; profile upserts go through a [ProfileStore];
// linking consent goes through a [ConfirmationPort]; clocks, schedulers, and
// activity signals are injected so every time-based behavior is testable with
// simulated time.
//
// # Architecture boundaries
//
// goSignin is the public surface. It exposes [Engine], [Builder], [Config],
// result and port types, and the sentinel error taxonomy. All internal
// coordination — flow orchestration, attempt bookkeeping, fingerprint
// derivation — lives under internal/ and is never exported. The session
// package is the one public leaf: persistence modes, the inactivity policy,
// and preference stores.
//
// # What this package must NOT do
//
//   - Contact any backend while a rate limit is active for the caller.
//   - Let a backend exception escape [Engine.SignIn]; every path returns a
//     [SignInResult].
//   - Mutate any account during linking negotiation before the confirmation
//     port grants consent.
package goSignin
