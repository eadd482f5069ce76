package goSignin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventSignInSuccess       = "signin_success"
	auditEventSignInFailure       = "signin_failure"
	auditEventSignInRateLimited   = "signin_rate_limited"
	auditEventRedirectPending     = "redirect_pending"
	auditEventRedirectCompleted   = "redirect_completed"
	auditEventAccountLinkSuccess  = "account_link_success"
	auditEventAccountLinkDeclined = "account_link_declined"
	auditEventAccountLinkFailure  = "account_link_failure"
	auditEventAutoSignOut         = "auto_signout"
	auditEventSignOut             = "signout"
	auditEventPersistenceChanged  = "persistence_changed"
	auditEventRateLimitTriggered  = "rate_limit_triggered"
)

// AuditErrorCode defines a public type used by goSignin APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrNetworkUnavailable AuditErrorCode = "network_unavailable"
	auditErrProviderDenied     AuditErrorCode = "provider_denied"
	auditErrLinkingDeclined    AuditErrorCode = "linking_declined"
	auditErrLinkingFailed      AuditErrorCode = "linking_failed"
	auditErrBackendUnavailable AuditErrorCode = "backend_unavailable"
	auditErrBackend            AuditErrorCode = "backend_error"
)

func auditErrorCode(err error) AuditErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrNetworkUnavailable):
		return auditErrNetworkUnavailable
	case errors.Is(err, ErrProviderDenied):
		return auditErrProviderDenied
	case errors.Is(err, ErrAccountLinkingDeclined):
		return auditErrLinkingDeclined
	case errors.Is(err, ErrAccountLinkingFailed):
		return auditErrLinkingFailed
	case errors.Is(err, ErrBackendUnavailable):
		return auditErrBackendUnavailable
	default:
		return auditErrBackend
	}
}

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	provider string,
	identifier string,
	userID string,
	method string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		Provider:   provider,
		Identifier: identifier,
		UserID:     userID,
		Method:     method,
		Success:    success,
		Metadata:   metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}
