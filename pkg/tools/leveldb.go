package tools

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/gnatci/gprstep/pkg/api"
)

const prefixInstallation = "installation/"

// LevelDBStore persists installations in a leveldb database, one key per
// installation. Keys carry the zero-padded position, so iteration order is
// registration order.
type LevelDBStore struct {
	db *leveldb.DB
}

var _ Store = (*LevelDBStore)(nil)

// NewLevelDBStore opens the database at path. Close releases the file lock.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

func NewInmemLevelDBStore() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) Load() ([]api.Installation, error) {
	var out []api.Installation

	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefixInstallation)), nil)
	defer iter.Release()

	for iter.Next() {
		var inst api.Installation
		if err := json.Unmarshal(iter.Value(), &inst); err != nil {
			return nil, fmt.Errorf("corrupt installation record %s: %w", iter.Key(), err)
		}
		out = append(out, inst)
	}
	return out, iter.Error()
}

// Save rewrites all records in a single batch.
func (s *LevelDBStore) Save(insts []api.Installation) error {
	b := new(leveldb.Batch)

	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefixInstallation)), nil)
	for iter.Next() {
		b.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return err
	}

	for i, inst := range insts {
		v, err := json.Marshal(inst)
		if err != nil {
			return err
		}
		b.Put([]byte(fmt.Sprintf("%s%06d", prefixInstallation, i)), v)
	}

	return s.db.Write(b, &opt.WriteOptions{Sync: true})
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
