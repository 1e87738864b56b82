package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// TokenSourceProvider adapts any oauth2.TokenSource into session states, for
// deployments where the bearer token is issued by an external identity
// provider rather than the backend's login endpoint.
type TokenSourceProvider struct {
	ts     oauth2.TokenSource
	bridge *Bridge
	log    zerolog.Logger

	nowFunc func() time.Time
}

type TokenSourceOption func(*TokenSourceProvider)

func WithTokenSourceLogger(log zerolog.Logger) TokenSourceOption {
	return func(p *TokenSourceProvider) {
		p.log = log
	}
}

// WithTokenSourceNowFunc sets the now time function (primarily for testing).
func WithTokenSourceNowFunc(now func() time.Time) TokenSourceOption {
	return func(p *TokenSourceProvider) {
		p.nowFunc = now
	}
}

func NewTokenSourceProvider(ts oauth2.TokenSource, bridge *Bridge, options ...TokenSourceOption) *TokenSourceProvider {
	p := &TokenSourceProvider{
		ts:      ts,
		bridge:  bridge,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Sync pulls the current token from the source and applies it. A failed or
// invalid token yields an unauthenticated state.
func (p *TokenSourceProvider) Sync() Snapshot {
	p.bridge.Apply(State{Status: StatusLoading})

	token, err := p.ts.Token()
	if err != nil {
		p.log.Warn().Err(err).Msg("token source failed, treating session as signed out")
		return p.bridge.Apply(State{Status: StatusUnauthenticated})
	}
	if !token.Valid() {
		return p.bridge.Apply(State{Status: StatusUnauthenticated})
	}
	return p.bridge.Apply(State{Status: StatusAuthenticated, Token: token.AccessToken})
}

// Run keeps the bridge in sync until ctx is done, re-syncing shortly before
// each token expiry. oauth2.TokenSource handles the actual refreshing;
// this loop only re-reads it on schedule.
func (p *TokenSourceProvider) Run(ctx context.Context) {
	for {
		p.Sync()

		wait := p.nextSyncDelay()
		select {
		case <-ctx.Done():
			p.bridge.Apply(State{Status: StatusUnauthenticated})
			return
		case <-time.After(wait):
		}
	}
}

func (p *TokenSourceProvider) nextSyncDelay() time.Duration {
	const fallback = time.Minute

	token, err := p.ts.Token()
	if err != nil || token.AccessToken == "" {
		return fallback
	}

	expiry := token.Expiry
	if expiry.IsZero() {
		// Some providers return no expiry metadata; the JWT itself knows.
		if claimExpiry, claimErr := TokenExpiry(token.AccessToken); claimErr == nil {
			expiry = claimExpiry
		}
	}
	if expiry.IsZero() {
		return fallback
	}

	wait := expiry.Sub(p.nowFunc()) - RefreshLeeway
	if wait < fallback {
		return fallback
	}
	return wait
}
