package goSignin

import (
	"context"

	"github.com/MrEthical07/goSignin/internal"
)

// ClientInfo carries the client-reported environment signals used for the
// rate-limit fingerprint and device-class detection. All fields are
// spoofable; no network address is available client-side.
type ClientInfo struct {
	UserAgent        string
	ScreenResolution string
	Timezone         string
	Locale           string
	Hostname         string
}

type clientInfoContextKey struct{}

// WithClientInfo attaches the caller's environment signals to ctx. The
// Engine uses them for the rate-limit identifier, the popup/redirect branch,
// and audit events.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoContextKey{}, info)
}

func clientInfoFromContext(ctx context.Context) ClientInfo {
	if ctx == nil {
		return ClientInfo{}
	}
	info, _ := ctx.Value(clientInfoContextKey{}).(ClientInfo)
	return info
}

func rateLimitIdentifier(ctx context.Context) string {
	info := clientInfoFromContext(ctx)
	return internal.Fingerprint(info.UserAgent, info.ScreenResolution, info.Timezone, info.Locale)
}

func deviceClassFromContext(ctx context.Context) string {
	return internal.DetectDeviceClass(clientInfoFromContext(ctx).UserAgent)
}
