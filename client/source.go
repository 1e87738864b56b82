package client

import (
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/veridata/dataquality-go/client/credstore"
	"github.com/veridata/dataquality-go/internal/config"
)

// Source is the accessor callers go through instead of holding a Client
// directly. Get re-resolves the base URL on every call and rebuilds the
// client when the resolved origin changed, so no caller can keep using a
// stale instance after an environment switch.
type Source struct {
	cfg        config.APIConfig
	store      credstore.Repo
	httpClient *http.Client
	log        zerolog.Logger

	lock    sync.Mutex
	current *Client
}

// SourceOption configures a Source.
type SourceOption func(*Source)

func WithStore(store credstore.Repo) SourceOption {
	return func(s *Source) {
		s.store = store
	}
}

func WithHTTPClient(httpClient *http.Client) SourceOption {
	return func(s *Source) {
		s.httpClient = httpClient
	}
}

func WithLogger(log zerolog.Logger) SourceOption {
	return func(s *Source) {
		s.log = log
	}
}

func NewSource(cfg config.APIConfig, options ...SourceOption) *Source {
	s := &Source{cfg: cfg}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Get returns the client for the currently resolved base URL, rebuilding it
// when the resolution changed since the last access. The rebuilt client
// re-reads the credstore, so the bearer token survives the swap.
func (s *Source) Get() (*Client, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	resolved := s.cfg.GetAPIBaseURL()
	if s.current != nil && s.current.BaseURL() == resolved {
		return s.current, nil
	}

	c, err := New(Config{
		BaseURL:      resolved,
		HTTPClient:   s.httpClient,
		Store:        s.store,
		Logger:       s.log,
		RequestRate:  s.cfg.GetRequestRate(),
		RequestBurst: s.cfg.GetRequestBurst(),
	})
	if err != nil {
		return nil, err
	}
	if s.current != nil {
		s.log.Info().Str("from", s.current.BaseURL()).Str("to", resolved).Msg("api base url changed, client rebuilt")
		// Carry the in-memory token across the rebuild; the credstore mirror
		// may be absent or behind.
		if token := s.current.Token(); token != "" {
			c.token = token
		}
	}
	s.current = c
	return c, nil
}

// SetToken propagates the token to the current client. Implements the
// session bridge's setter contract.
func (s *Source) SetToken(token string) error {
	c, err := s.Get()
	if err != nil {
		return err
	}
	return c.SetToken(token)
}

// ClearToken clears the token on the current client.
func (s *Source) ClearToken() error {
	c, err := s.Get()
	if err != nil {
		return err
	}
	return c.ClearToken()
}
