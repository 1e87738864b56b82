package repofakes

import (
	"sync"

	"github.com/veridata/dataquality-go/client/credstore"
)

var _ credstore.Repo = (*FakeCredRepo)(nil)

// FakeCredRepo is an in-memory Repo with injectable failures for testing
// propagation error handling.
type FakeCredRepo struct {
	lock  sync.Mutex
	token string
	saved bool

	SaveErr  error
	LoadErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

func NewFakeCredRepo() *FakeCredRepo {
	return &FakeCredRepo{}
}

func (r *FakeCredRepo) Save(token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.SaveCalls++
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.token = token
	r.saved = true
	return nil
}

func (r *FakeCredRepo) Load() (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.LoadErr != nil {
		return "", r.LoadErr
	}
	return r.token, nil
}

func (r *FakeCredRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.ClearCalls++
	if r.ClearErr != nil {
		return r.ClearErr
	}
	r.token = ""
	r.saved = false
	return nil
}

// Stored reports the currently persisted token.
func (r *FakeCredRepo) Stored() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.token
}
