package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veridata/dataquality-go/client"
	"github.com/veridata/dataquality-go/client/credstore/repofakes"
	ierrors "github.com/veridata/dataquality-go/internal/errors"
)

// recordingServer captures the headers of every request it serves.
type recordingServer struct {
	*httptest.Server

	lock     sync.Mutex
	requests []http.Header
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.lock.Lock()
		rs.requests = append(rs.requests, r.Header.Clone())
		rs.lock.Unlock()
		handler(w, r)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) header(i int) http.Header {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.requests[i]
}

func (rs *recordingServer) count() int {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return len(rs.requests)
}

func newTestClient(t *testing.T, baseURL string, store *repofakes.FakeCredRepo) *client.Client {
	t.Helper()
	cfg := client.Config{BaseURL: baseURL}
	if store != nil {
		// Assigning a nil *FakeCredRepo directly would produce a non-nil
		// credstore.Repo interface and defeat the client's nil check.
		cfg.Store = store
	}
	c, err := client.New(cfg)
	require.NoError(t, err)
	return c
}

func TestBearerTokenInjection(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","email":"a@b.c"}`))
	})

	c := newTestClient(t, srv.URL, repofakes.NewFakeCredRepo())
	require.NoError(t, c.SetToken("tok-123"))

	_, err := c.Me(context.Background())
	require.NoError(t, err)

	require.Equal(t, "Bearer tok-123", srv.header(0).Get("Authorization"))
	require.NotEmpty(t, srv.header(0).Get("X-Request-ID"))
	require.Equal(t, "application/json", srv.header(0).Get("Accept"))
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u1"}`))
	})

	c := newTestClient(t, srv.URL, repofakes.NewFakeCredRepo())
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Empty(t, srv.header(0).Get("Authorization"))
}

func TestUnauthorizedClearsTokenEverywhere(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	})

	store := repofakes.NewFakeCredRepo()
	c := newTestClient(t, srv.URL, store)
	require.NoError(t, c.SetToken("tok-held"))

	_, err := c.Me(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, ierrors.ErrUnauthorized)

	// Token is gone from memory and from the durable mirror.
	require.Empty(t, c.Token())
	require.Empty(t, store.Stored())

	// The next request goes out without a credential.
	_, err = c.Me(context.Background())
	require.Error(t, err)
	require.Empty(t, srv.header(1).Get("Authorization"))
}

func TestPersistedTokenPickedUpOnBuild(t *testing.T) {
	store := repofakes.NewFakeCredRepo()
	require.NoError(t, store.Save("persisted-tok"))

	c := newTestClient(t, "http://localhost:8000", store)
	require.Equal(t, "persisted-tok", c.Token())
}

func TestAPIErrorCarriesStatusAndDetail(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"name must not be empty"}`))
	})

	c := newTestClient(t, srv.URL, nil)
	_, err := c.GetRule(context.Background(), "r1")
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.HTTPStatus())
	require.Equal(t, "name must not be empty", apiErr.Detail)
	require.ErrorIs(t, err, ierrors.ErrBadRequest)
}

func TestServerErrorMapsToSentinel(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := newTestClient(t, srv.URL, nil)
	_, err := c.ListRules(context.Background())
	require.ErrorIs(t, err, ierrors.ErrServer)
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	// Never reaches the network.
	c := newTestClient(t, "http://localhost:8000", nil)

	_, err := c.Login(context.Background(), client.Credentials{Email: "a@b.c"})
	require.ErrorIs(t, err, ierrors.ErrInvalidCredentials)

	_, err = c.Login(context.Background(), client.Credentials{Password: "secret"})
	require.ErrorIs(t, err, ierrors.ErrInvalidCredentials)
}

func TestLoginReturnsTokenWithoutStoringIt(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"access_token":"fresh-tok","token_type":"bearer","expires_in":3600}`))
	})

	store := repofakes.NewFakeCredRepo()
	c := newTestClient(t, srv.URL, store)

	tr, err := c.Login(context.Background(), client.Credentials{Email: "a@b.c", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "fresh-tok", tr.AccessToken)

	// Propagation is the session bridge's job, not the client's.
	require.Empty(t, c.Token())
	require.Empty(t, store.Stored())
}

func TestEmptyIDShortCircuits(t *testing.T) {
	c := newTestClient(t, "http://localhost:8000", nil)

	_, err := c.GetDataset(context.Background(), "")
	require.ErrorIs(t, err, ierrors.ErrEmptyID)

	_, err = c.GetExecution(context.Background(), "")
	require.ErrorIs(t, err, ierrors.ErrEmptyID)

	require.ErrorIs(t, c.DeleteRule(context.Background(), ""), ierrors.ErrEmptyID)
}
