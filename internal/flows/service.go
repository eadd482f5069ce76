package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.SignIn.PopupSignIn != nil
}

func (s Service) SignIn(ctx context.Context, provider string) Outcome {
	return RunSignIn(ctx, provider, s.deps.SignIn)
}

func (s Service) NegotiateLink(ctx context.Context, provider, email string) Outcome {
	return RunLinking(ctx, provider, email, s.deps.Linking)
}

func (s Service) CompleteRedirect(ctx context.Context) Outcome {
	return RunCompleteRedirect(ctx, s.deps.Redirect)
}
