package credstore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var _ Repo = (*FileRepo)(nil)

// FileRepo stores the token in a single file, created with owner-only
// permissions.
type FileRepo struct {
	path string
	lock sync.Mutex
}

func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (r *FileRepo) Save(token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileRepo.Save] MkdirAll")
	}
	if err := os.WriteFile(r.path, []byte(token), 0o600); err != nil {
		return errors.Wrap(err, "[FileRepo.Save] WriteFile")
	}
	return nil
}

// Load returns an empty token, not an error, when nothing has been stored.
func (r *FileRepo) Load() (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "[FileRepo.Load] ReadFile")
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *FileRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileRepo.Clear] Remove")
	}
	return nil
}
