// Package internal contains helper utilities that are intentionally private to goSignin,
// including the client fingerprint derivation and device-class detection.
//
// # Sub-packages
//
//   - flows — pure-function flow orchestrators for every Engine operation
//   - rate — sliding-window attempt tracking with progressive cooldowns
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSignin API.
//   - Be imported by any package outside the goSignin module.
package internal
