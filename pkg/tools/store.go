package tools

import (
	"sync"

	"github.com/gnatci/gprstep/pkg/api"
)

// Store persists the configured installations.
type Store interface {
	Load() ([]api.Installation, error)
	Save([]api.Installation) error
}

// MemStore keeps installations in memory.
type MemStore struct {
	lk    sync.Mutex
	insts []api.Installation
	saves int
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns a MemStore seeded with insts.
func NewMemStore(insts ...api.Installation) *MemStore {
	return &MemStore{insts: insts}
}

func (m *MemStore) Load() ([]api.Installation, error) {
	m.lk.Lock()
	defer m.lk.Unlock()

	out := make([]api.Installation, len(m.insts))
	copy(out, m.insts)
	return out, nil
}

func (m *MemStore) Save(insts []api.Installation) error {
	m.lk.Lock()
	defer m.lk.Unlock()

	m.insts = make([]api.Installation, len(insts))
	copy(m.insts, insts)
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemStore) Saves() int {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.saves
}
