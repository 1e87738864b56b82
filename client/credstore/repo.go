// Package credstore persists the bearer token between runs. It is a mirror of
// the in-memory token held by the API client, never a second source of truth:
// on conflict the in-memory value wins.
package credstore

type Repo interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}
