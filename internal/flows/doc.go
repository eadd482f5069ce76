// Package flows contains the pure-function orchestrators behind every Engine
// operation. Each flow is a RunX function taking a deps struct of injected
// function fields, so the whole sign-in state machine runs deterministically
// under test without a real backend, clock, or UI.
//
// Flows never import the root package; they operate on flow-local record
// types and host-supplied sentinel errors, event names, and metric IDs.
package flows
