package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/veridata/dataquality-go/session"
)

type errTokenSource struct {
	err error
}

func (s errTokenSource) Token() (*oauth2.Token, error) {
	return nil, s.err
}

func TestTokenSourceSyncAuthenticated(t *testing.T) {
	setter := &fakeSetter{}
	bridge := session.NewBridge(setter)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "sso-token"})
	provider := session.NewTokenSourceProvider(ts, bridge)

	snap := provider.Sync()
	require.True(t, snap.IsAuthenticated)
	require.True(t, snap.HasToken)
	require.Equal(t, "sso-token", setter.token)
	require.True(t, bridge.Ready())
}

func TestTokenSourceSyncExpiredToken(t *testing.T) {
	setter := &fakeSetter{}
	bridge := session.NewBridge(setter)
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: "sso-token",
		Expiry:      time.Now().Add(-time.Hour),
	})
	provider := session.NewTokenSourceProvider(ts, bridge)

	snap := provider.Sync()
	require.False(t, snap.IsAuthenticated)
	require.False(t, snap.HasToken)
	require.Equal(t, 0, setter.setCalls)
	require.Equal(t, 1, setter.clearCalls)
}

func TestTokenSourceSyncSourceFailure(t *testing.T) {
	setter := &fakeSetter{}
	bridge := session.NewBridge(setter)
	ts := errTokenSource{err: errors.New("refresh endpoint unreachable")}
	provider := session.NewTokenSourceProvider(ts, bridge)

	snap := provider.Sync()
	require.False(t, snap.IsAuthenticated)
	require.False(t, bridge.Ready())
	require.Equal(t, 0, setter.setCalls)
}

func TestTokenSourceRunSignsOutOnStop(t *testing.T) {
	setter := &fakeSetter{}
	bridge := session.NewBridge(setter)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "sso-token"})
	provider := session.NewTokenSourceProvider(ts, bridge)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		provider.Run(ctx)
		close(done)
	}()

	require.Eventually(t, bridge.Ready, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	require.False(t, bridge.Ready())
	require.Equal(t, 1, setter.clearCalls)
}
