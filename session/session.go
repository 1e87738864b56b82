// Package session keeps the API client's bearer token consistent with the
// authentication session lifecycle and exposes readiness for dependent
// queries.
package session

// Status is the externally observed session status fed into the bridge.
type Status int

const (
	// StatusLoading means the provider has not yet determined whether a
	// session exists. The token is left untouched and readiness is false.
	StatusLoading Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// State is one observed session state. Token is only meaningful when Status
// is StatusAuthenticated.
type State struct {
	Status Status
	Token  string
}

// Phase is the bridge's internal synchronization phase. It is deliberately
// explicit instead of being implied by the last applied state, so "token
// observed on the session" and "token propagated to the client" cannot be
// conflated.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseSyncing
	PhaseReady
	PhaseCleared
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseSyncing:
		return "syncing"
	case PhaseReady:
		return "ready"
	case PhaseCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Snapshot is what dependent layers read. HasToken is true only once the
// token has actually been propagated to the API client, not merely when the
// session reports one.
type Snapshot struct {
	IsAuthenticated bool
	IsLoading       bool
	HasToken        bool
}
