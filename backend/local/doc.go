// Package local is an in-memory auth backend for development and tests. It
// simulates the vendor identity provider: popup and redirect sign-in,
// credential collisions, linking, persistence modes, and signed ID tokens.
//
// # Architecture boundaries
//
// The package holds no real credentials and talks to no network. Accounts
// are seeded by the caller; tokens are HS256-signed with a per-backend
// secret and carry no security value outside a test.
//
// # What this package must NOT do
//
// It must not be used in production, and it must not grow vendor-specific
// behavior beyond what the engine's flows observe.
package local
