package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/gnatci/gprstep/pkg/api"
)

type toolsFile struct {
	Installations []api.Installation `toml:"installation"`
}

// FileStore persists installations in a TOML file.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the file; a missing file holds no installations.
func (s *FileStore) Load() ([]api.Installation, error) {
	var f toolsFile
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return f.Installations, nil
}

// Save replaces the file through a rename, so readers never see a partially
// written file.
func (s *FileStore) Save(insts []api.Installation) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tools-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(toolsFile{Installations: insts}); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode installations: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
