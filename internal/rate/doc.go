// Package rate implements sliding-window attempt tracking with progressive
// cooldowns for sign-in operations.
//
// Unlike fixed-bucket counters, the window is re-evaluated relative to "now"
// on every check, so an abuser cannot game bucket boundaries. Repeat
// violations double the cooldown duration up to a hard cap. A single
// successful attempt clears all state for its key, so a legitimate user who
// recovers their credentials is not penalized further.
//
// Limiter operations never fail: they are in-memory bookkeeping by default,
// and the optional Redis-backed store degrades to fail-open when the backend
// is unreachable.
package rate
