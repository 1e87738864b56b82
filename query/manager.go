package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	ierrors "github.com/veridata/dataquality-go/internal/errors"
)

// FetchFunc loads fresh data for one key, usually a single API client call.
type FetchFunc func(ctx context.Context) (any, error)

// GateFunc reports whether queries may fire at all. Wired to the session
// bridge's readiness so nothing hits the network before the bearer token has
// been propagated.
type GateFunc func() bool

const (
	defaultGCAfter = 5 * time.Minute

	// backgroundFetchTimeout bounds each shared fetch, which runs detached
	// from any single caller's context.
	backgroundFetchTimeout = 30 * time.Second
)

// entry is one cached read. generation increments on every invalidation or
// reset; an in-flight response whose generation snapshot is behind is
// discarded instead of applied.
type entry struct {
	value      any
	hasValue   bool
	fetchedAt  time.Time
	lastAccess time.Time
	generation uint64
}

// Manager owns the cache and the request lifecycle around it: freshness,
// in-flight deduplication, retries, supersession, invalidation, and garbage
// collection of unused entries.
type Manager struct {
	gate    GateFunc
	retry   RetryConfig
	log     zerolog.Logger
	nowFunc func() time.Time
	gcAfter time.Duration

	lock      sync.Mutex
	entries   map[string]*entry
	flight    singleflight.Group
	lastSweep time.Time
}

type ManagerOption func(*Manager)

func WithGate(gate GateFunc) ManagerOption {
	return func(m *Manager) {
		m.gate = gate
	}
}

func WithRetry(retry RetryConfig) ManagerOption {
	return func(m *Manager) {
		m.retry = retry
	}
}

func WithManagerLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithNowFunc sets the now time function (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithGCAfter sets how long an untouched entry survives before eviction.
func WithGCAfter(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.gcAfter = d
	}
}

func NewManager(options ...ManagerOption) *Manager {
	m := &Manager{
		retry:   DefaultRetryConfig(),
		nowFunc: time.Now,
		gcAfter: defaultGCAfter,
		entries: make(map[string]*entry),
	}
	for _, opt := range options {
		opt(m)
	}
	m.lastSweep = m.nowFunc()
	return m
}

// Get serves the cached value when it is within its staleness window. A
// stale value is returned immediately while a background refetch refreshes
// the entry; a missing value blocks on the (deduplicated, retried) fetch.
func (m *Manager) Get(ctx context.Context, key Key, staleAfter time.Duration, fetch FetchFunc) (any, error) {
	if m.gate != nil && !m.gate() {
		return nil, ierrors.ErrNotReady
	}

	now := m.nowFunc()
	ks := key.String()

	m.lock.Lock()
	m.sweepLocked(now)
	e := m.entryForLocked(ks)
	e.lastAccess = now
	if e.hasValue {
		value := e.value
		fresh := now.Sub(e.fetchedAt) < staleAfter
		m.lock.Unlock()
		if !fresh {
			go m.revalidate(key, fetch)
		}
		return value, nil
	}
	m.lock.Unlock()

	return m.Refresh(ctx, key, fetch)
}

// Refresh always fetches, bypassing the freshness check but keeping the
// gate, deduplication, retry, and supersession rules. Pollers use it to
// force a round trip regardless of staleness.
func (m *Manager) Refresh(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	if m.gate != nil && !m.gate() {
		return nil, ierrors.ErrNotReady
	}

	ks := key.String()

	m.lock.Lock()
	e := m.entryForLocked(ks)
	e.lastAccess = m.nowFunc()
	generation := e.generation
	m.lock.Unlock()

	// The flight is shared by every caller of this key, so it must not die
	// with whichever caller happened to start it. Detach from the caller's
	// cancellation and bound the fetch on its own timeout; each caller still
	// abandons its own result below.
	value, err, _ := m.flight.Do(ks, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundFetchTimeout)
		defer cancel()
		return m.fetchWithRetry(fetchCtx, ks, fetch)
	})

	// Abandoned by the caller: never applied, whatever came back.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	current, ok := m.entries[ks]
	if !ok || current.generation != generation || (m.gate != nil && !m.gate()) {
		// Invalidated, reset, or signed out while in flight.
		return nil, ierrors.ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	current.value = value
	current.hasValue = true
	current.fetchedAt = m.nowFunc()
	return value, nil
}

// revalidate refreshes a stale entry in the background. Errors leave the
// stale value in place for the next reader. The fetch timeout is applied
// inside Refresh.
func (m *Manager) revalidate(key Key, fetch FetchFunc) {
	if _, err := m.Refresh(context.Background(), key, fetch); err != nil &&
		!ierrors.Is(err, ierrors.ErrSuperseded) && !ierrors.Is(err, ierrors.ErrNotReady) {
		m.log.Debug().Err(err).Str("key", key.String()).Msg("background refetch failed")
	}
}

// fetchWithRetry runs the fetch up to MaxAttempts times with exponential
// backoff, giving up early on non-retryable failures.
func (m *Manager) fetchWithRetry(ctx context.Context, ks string, fetch FetchFunc) (any, error) {
	var lastErr error
	for attempt := 1; attempt <= m.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(m.retry.backoff(attempt - 1)):
			}
			m.log.Debug().Str("key", ks).Int("attempt", attempt).Msg("retrying query")
		}

		value, err := fetch(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if !m.retry.retryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// Invalidate drops the listed entries and bumps their generations so any
// response still in flight for them is discarded. The next read fetches.
func (m *Manager) Invalidate(keys ...Key) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, key := range keys {
		m.invalidateLocked(key.String())
	}
}

// InvalidateResource invalidates every key under a resource name, whatever
// its parameters. Mutations use this for conservative superset invalidation
// of filtered listings.
func (m *Manager) InvalidateResource(resource string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	prefix := resource + "\x1f"
	for ks := range m.entries {
		if ks == resource || strings.HasPrefix(ks, prefix) {
			m.invalidateLocked(ks)
		}
	}
}

// Reset invalidates everything. Wired to the session bridge's cleared hook
// so a sign-out discards all cached and in-flight data.
func (m *Manager) Reset() {
	m.lock.Lock()
	defer m.lock.Unlock()
	for ks := range m.entries {
		m.invalidateLocked(ks)
	}
}

func (m *Manager) invalidateLocked(ks string) {
	m.flight.Forget(ks)
	if e, ok := m.entries[ks]; ok {
		e.generation++
		e.value = nil
		e.hasValue = false
		e.fetchedAt = time.Time{}
	}
}

func (m *Manager) entryForLocked(ks string) *entry {
	e, ok := m.entries[ks]
	if !ok {
		e = &entry{}
		m.entries[ks] = e
	}
	return e
}

// sweepLocked evicts entries untouched for gcAfter. Runs at most once per
// gcAfter window.
func (m *Manager) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < m.gcAfter {
		return
	}
	m.lastSweep = now
	for ks, e := range m.entries {
		if now.Sub(e.lastAccess) > m.gcAfter {
			delete(m.entries, ks)
		}
	}
}

// Poll re-fetches a key on a fixed interval until ctx is done, delivering
// every settled result. The first round trip happens immediately. Not-ready
// and superseded outcomes are skipped, not delivered.
func (m *Manager) Poll(ctx context.Context, key Key, interval time.Duration, fetch FetchFunc, deliver func(value any, err error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		value, err := m.Refresh(ctx, key, fetch)
		if err == nil || (!ierrors.Is(err, ierrors.ErrNotReady) && !ierrors.Is(err, ierrors.ErrSuperseded) && ctx.Err() == nil) {
			deliver(value, err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
