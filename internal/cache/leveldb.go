package cache

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	werrors "github.com/cristianoliveira/wardlink/internal/errors"
)

// keySep separates the partition name from the entry key inside LevelDB.
// Partition names never contain it (they are kind + "-" + version).
const keySep = "\x00"

// LevelDBStore is a persistent Store backed by LevelDB. Entries survive
// process restarts, which is what makes offline serving useful after the
// browser-equivalent of a reload.
type LevelDBStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens (or creates) a LevelDB store at path.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("leveldb store: open %s: %w", path, err)
	}
	return &LevelDBStore{db: db}, nil
}

func ldbKey(partition, key string) []byte {
	return []byte(partition + keySep + key)
}

func (s *LevelDBStore) Get(partition, key string) (*Entry, error) {
	data, err := s.db.Get(ldbKey(partition, key), nil)
	if err == leveldb.ErrNotFound {
		return nil, fmt.Errorf("%w: %s/%s", werrors.ErrCacheMiss, partition, key)
	}
	if err != nil {
		return nil, fmt.Errorf("leveldb store: get: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("leveldb store: decode entry: %w", err)
	}
	return &e, nil
}

func (s *LevelDBStore) Put(partition, key string, e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("leveldb store: encode entry: %w", err)
	}
	if err := s.db.Put(ldbKey(partition, key), data, nil); err != nil {
		return fmt.Errorf("leveldb store: put: %w", err)
	}
	return nil
}

func (s *LevelDBStore) Delete(partition, key string) error {
	if err := s.db.Delete(ldbKey(partition, key), nil); err != nil {
		return fmt.Errorf("leveldb store: delete: %w", err)
	}
	return nil
}

func (s *LevelDBStore) DeletePartition(partition string) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(partition+keySep)), nil)
	defer iter.Release()
	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("leveldb store: scan partition: %w", err)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("leveldb store: delete partition: %w", err)
	}
	return nil
}

func (s *LevelDBStore) Partitions() ([]string, error) {
	seen := make(map[string]bool)
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		k := string(iter.Key())
		if i := strings.Index(k, keySep); i > 0 {
			seen[k[:i]] = true
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("leveldb store: scan: %w", err)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names, nil
}

func (s *LevelDBStore) Len(partition string) (int, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(partition+keySep)), nil)
	defer iter.Release()
	n := 0
	for iter.Next() {
		n++
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("leveldb store: scan partition: %w", err)
	}
	return n, nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
