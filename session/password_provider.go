package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/veridata/dataquality-go/client"
)

// PasswordProvider drives the bridge from credential sign-in against the
// backend's own login endpoint. One provider per browser-context equivalent:
// a process holds at most one active session.
type PasswordProvider struct {
	source *client.Source
	bridge *Bridge
}

func NewPasswordProvider(source *client.Source, bridge *Bridge) *PasswordProvider {
	return &PasswordProvider{source: source, bridge: bridge}
}

// SignIn exchanges credentials for a token and propagates it through the
// bridge. The bridge sees loading → authenticated on success, loading →
// unauthenticated on failure.
func (p *PasswordProvider) SignIn(ctx context.Context, email, password string) (Snapshot, error) {
	p.bridge.Apply(State{Status: StatusLoading})

	c, err := p.source.Get()
	if err != nil {
		snap := p.bridge.Apply(State{Status: StatusUnauthenticated})
		return snap, errors.Wrap(err, "[PasswordProvider.SignIn] source.Get")
	}

	tr, err := c.Login(ctx, client.Credentials{Email: email, Password: password})
	if err != nil {
		snap := p.bridge.Apply(State{Status: StatusUnauthenticated})
		return snap, errors.Wrap(err, "[PasswordProvider.SignIn] Login")
	}

	return p.bridge.Apply(State{Status: StatusAuthenticated, Token: tr.AccessToken}), nil
}

// SignOut clears the session.
func (p *PasswordProvider) SignOut() Snapshot {
	return p.bridge.Apply(State{Status: StatusUnauthenticated})
}

// Resume restores a previous session from the durable token mirror, if the
// stored token exists and has not expired. Returns false when no usable
// token was found; the caller then signs in normally.
func (p *PasswordProvider) Resume(ctx context.Context, nowToken func() (string, error)) (bool, error) {
	p.bridge.Apply(State{Status: StatusLoading})

	token, err := nowToken()
	if err != nil {
		return false, errors.Wrap(err, "[PasswordProvider.Resume] load token")
	}
	if token == "" || Expired(token, timeNow()) {
		p.bridge.Apply(State{Status: StatusUnauthenticated})
		return false, nil
	}

	p.bridge.Apply(State{Status: StatusAuthenticated, Token: token})
	return true, nil
}
