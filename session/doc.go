// Package session owns the client persistence mode and the optional
// inactivity-based auto sign-out.
//
// A [Policy] holds exactly one active [Mode] at a time — durable,
// tab-session, or memory-only — and delegates the actual persistence change
// to the injected [PersistenceBackend]. When an auto-sign-out window is
// configured and the mode is not memory-only, the policy arms a single
// inactivity deadline through the injected [Scheduler]; activity signals
// reset the deadline, throttled to at most one reschedule per throttle
// interval. Memory-only mode can never carry an armed timer.
//
// All time sources are injected ([Clock], [Scheduler]) so the whole state
// machine is testable with simulated time.
package session
