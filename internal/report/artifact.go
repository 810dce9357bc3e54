package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactStore persists report artifacts. The production deployment fronts
// hosted object storage; this module ships the filesystem implementation
// and treats the uploader as an external collaborator behind this interface.
type ArtifactStore interface {
	Put(name string, content []byte) error
}

// FSStore writes artifacts under a single run directory.
type FSStore struct {
	Dir string
}

// NewFSStore creates the run directory.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return &FSStore{Dir: dir}, nil
}

func (s *FSStore) Put(name string, content []byte) error {
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", name, err)
	}
	return nil
}
