package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/noteforge/noteforge/internal/domain"
)

// FSStore keeps one <id>.tex file per document under root.
type FSStore struct {
	root   string
	locker Locker
}

// NewFSStore creates a store rooted at root. A nil locker means an in-process KeyedMutex.
func NewFSStore(root string, locker Locker) *FSStore {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &FSStore{root: root, locker: locker}
}

// Path returns where the artifact for id lives.
func (s *FSStore) Path(id string) string {
	return filepath.Join(s.root, id+".tex")
}

// Put replaces the artifact for id. Readers see either the previous or the new text, never a mix.
func (s *FSStore) Put(ctx context.Context, id string, text string) error {
	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return domain.IOError(fmt.Sprintf("lock artifact %s", id), err)
	}
	defer unlock()

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return domain.IOError("create latex directory", err)
	}

	tmp, err := os.CreateTemp(s.root, "."+id+".tex.*")
	if err != nil {
		return domain.IOError("create temp artifact", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.IOError("write artifact", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.IOError("close artifact", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return domain.IOError("chmod artifact", err)
	}

	if err := os.Rename(tmpName, s.Path(id)); err != nil {
		os.Remove(tmpName)
		return domain.IOError("replace artifact", err)
	}

	return nil
}

// Get returns the stored text for id.
func (s *FSStore) Get(ctx context.Context, id string) (string, error) {
	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return "", domain.IOError(fmt.Sprintf("lock artifact %s", id), err)
	}
	defer unlock()

	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.NotFoundError(fmt.Sprintf("LaTeX file not found for id %s", id), err)
	}
	if err != nil {
		return "", domain.IOError("read artifact", err)
	}

	return string(data), nil
}
