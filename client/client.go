// Package client is the single point of contact for all HTTP calls to the
// Veridata backend. It owns bearer-token injection, 401-triggered token
// invalidation, and the per-environment base URL.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/veridata/dataquality-go/client/credstore"
)

const requestIDHeader = "X-Request-ID"

// Client is a Veridata REST API client. The token field is the only mutable
// state besides the nothing-shared http.Client; it is written by SetToken and
// ClearToken and mirrored into the credstore.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	store      credstore.Repo
	log        zerolog.Logger

	lock  sync.RWMutex
	token string
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      credstore.Repo
	Logger     zerolog.Logger

	// Requests per second across all callers; zero disables throttling.
	RequestRate  float64
	RequestBurst int
}

// New creates a new API client. When a credstore is configured, a previously
// persisted token is picked up so a fresh process (or a rebuilt client) keeps
// the last issued credential until the session bridge says otherwise.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("[client.New] BaseURL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	var limiter *rate.Limiter
	if cfg.RequestRate > 0 {
		burst := cfg.RequestBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestRate), burst)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		store:      cfg.Store,
		log:        cfg.Logger,
	}

	if c.store != nil {
		if token, err := c.store.Load(); err != nil {
			c.log.Warn().Err(err).Msg("credstore load failed, starting unauthenticated")
		} else {
			c.token = token
		}
	}

	return c, nil
}

// BaseURL returns the origin this client was built against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken stores the bearer token in memory and mirrors it into the
// credstore. The in-memory write always happens, even when the mirror fails.
func (c *Client) SetToken(token string) error {
	c.lock.Lock()
	c.token = token
	c.lock.Unlock()

	if c.store == nil {
		return nil
	}
	if err := c.store.Save(token); err != nil {
		return errors.Wrap(err, "[Client.SetToken] store.Save")
	}
	return nil
}

// ClearToken removes the token from memory and from the credstore.
func (c *Client) ClearToken() error {
	c.lock.Lock()
	c.token = ""
	c.lock.Unlock()

	if c.store == nil {
		return nil
	}
	if err := c.store.Clear(); err != nil {
		return errors.Wrap(err, "[Client.ClearToken] store.Clear")
	}
	return nil
}

// Token returns the current bearer token, empty when unauthenticated.
func (c *Client) Token() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.token
}

// json performs a JSON round trip: method + path (+ query), optional request
// body, decoded response into out when out is non-nil.
func (c *Client) json(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "[Client] marshal %s %s body", method, path)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	raw, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "[Client] decode %s %s response", method, path)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client] create %s %s request", method, path)
	}
	return req, nil
}

// send attaches headers, executes the request, and applies the central
// response policy: a 401 clears the token (memory and credstore) before the
// error is surfaced; other non-2xx statuses become an APIError with the raw
// body attached; transport errors propagate untouched.
func (c *Client) send(req *http.Request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.send] read response body")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if clearErr := c.ClearToken(); clearErr != nil {
			c.log.Warn().Err(clearErr).Msg("failed to clear token after 401")
		}
		return nil, newAPIError(resp.StatusCode, raw)
	}
	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, raw)
	}
	return raw, nil
}

func decodeJSON(raw []byte, out any) error {
	return json.Unmarshal(raw, out)
}

func (c *Client) setHeaders(req *http.Request) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set(requestIDHeader, uuid.New().String())
}
