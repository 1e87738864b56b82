package session

import (
	"sync"

	"github.com/rs/zerolog"
)

// TokenSetter is the client-side surface the bridge drives. Both
// client.Client and client.Source satisfy it.
type TokenSetter interface {
	SetToken(token string) error
	ClearToken() error
}

// Bridge reconciles session-state transitions with the API client's bearer
// token. Exactly one synchronization action runs per (status, token)
// transition; re-applying an identical state is a no-op, so callers may feed
// the bridge from a render loop or a refresh ticker without looping.
type Bridge struct {
	setter TokenSetter
	log    zerolog.Logger

	lock       sync.Mutex
	phase      Phase
	lastStatus Status
	lastToken  string
	applied    bool
	onCleared  []func()
}

type BridgeOption func(*Bridge)

func WithLogger(log zerolog.Logger) BridgeOption {
	return func(b *Bridge) {
		b.log = log
	}
}

func NewBridge(setter TokenSetter, options ...BridgeOption) *Bridge {
	b := &Bridge{
		setter: setter,
		phase:  PhaseUninitialized,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// OnCleared registers a hook fired whenever the session transitions to
// unauthenticated. The query layer hangs its cache reset here so responses in
// flight at sign-out are discarded.
func (b *Bridge) OnCleared(fn func()) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.onCleared = append(b.onCleared, fn)
}

// Apply feeds one observed session state into the bridge and returns the
// resulting snapshot. Propagation failures are logged, never surfaced:
// readiness degrades to false instead of crashing the caller.
func (b *Bridge) Apply(state State) Snapshot {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.applied && state.Status == b.lastStatus && state.Token == b.lastToken {
		return b.snapshotLocked()
	}
	b.applied = true
	b.lastStatus = state.Status
	b.lastToken = state.Token

	switch state.Status {
	case StatusLoading:
		// Indeterminate: leave the token alone but gate queries off.
		if b.phase != PhaseUninitialized {
			b.phase = PhaseSyncing
		}

	case StatusAuthenticated:
		b.phase = PhaseSyncing
		if err := b.setter.SetToken(state.Token); err != nil {
			b.log.Error().Err(err).Msg("token propagation failed, session stays not ready")
			break
		}
		b.phase = PhaseReady

	case StatusUnauthenticated:
		if err := b.setter.ClearToken(); err != nil {
			// The in-memory token is gone either way; only the durable
			// mirror may be stale.
			b.log.Warn().Err(err).Msg("token clear did not fully propagate")
		}
		b.phase = PhaseCleared
		hooks := make([]func(), len(b.onCleared))
		copy(hooks, b.onCleared)
		b.lock.Unlock()
		for _, fn := range hooks {
			fn()
		}
		b.lock.Lock()
	}

	return b.snapshotLocked()
}

// Ready reports whether dependent queries may fire. True only in the ready
// phase, after token propagation completed.
func (b *Bridge) Ready() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.phase == PhaseReady
}

// Phase returns the bridge's current synchronization phase.
func (b *Bridge) Phase() Phase {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.phase
}

// Snapshot returns the current readiness view.
func (b *Bridge) Snapshot() Snapshot {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.snapshotLocked()
}

func (b *Bridge) snapshotLocked() Snapshot {
	return Snapshot{
		IsAuthenticated: b.applied && b.lastStatus == StatusAuthenticated,
		IsLoading:       !b.applied || b.lastStatus == StatusLoading,
		HasToken:        b.phase == PhaseReady,
	}
}
