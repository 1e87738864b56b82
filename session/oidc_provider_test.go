package session

import (
	"context"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type stubSetter struct {
	token      string
	clearCalls int
}

func (s *stubSetter) SetToken(token string) error {
	s.token = token
	return nil
}

func (s *stubSetter) ClearToken() error {
	s.token = ""
	s.clearCalls++
	return nil
}

type failingVerifier struct {
	err error
}

func (v failingVerifier) Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error) {
	return nil, v.err
}

func TestOIDCAuthenticateWithoutIDToken(t *testing.T) {
	setter := &stubSetter{}
	provider := &OIDCProvider{bridge: NewBridge(setter)}

	token := &oauth2.Token{AccessToken: "access-token"}
	claims, err := provider.Authenticate(context.Background(), token)
	require.Error(t, err)
	require.Nil(t, claims)
	require.Contains(t, err.Error(), "no ID token")

	// The unverified access token never reaches the client.
	require.Empty(t, setter.token)
	require.False(t, provider.bridge.Ready())
	require.Equal(t, 1, setter.clearCalls)
}

func TestOIDCAuthenticateVerificationFailure(t *testing.T) {
	setter := &stubSetter{}
	provider := &OIDCProvider{
		verifier: failingVerifier{err: errors.New("id token issued by unknown issuer")},
		bridge:   NewBridge(setter),
	}

	token := (&oauth2.Token{AccessToken: "access-token"}).
		WithExtra(map[string]any{"id_token": "header.payload.signature"})

	claims, err := provider.Authenticate(context.Background(), token)
	require.Error(t, err)
	require.Nil(t, claims)

	require.Empty(t, setter.token)
	require.False(t, provider.bridge.Ready())
}

func TestOIDCSignOut(t *testing.T) {
	setter := &stubSetter{}
	provider := &OIDCProvider{bridge: NewBridge(setter)}

	snap := provider.SignOut()
	require.False(t, snap.IsAuthenticated)
	require.Equal(t, 1, setter.clearCalls)
}
