package mintlog

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore keeps each list under a keyspace of monotonically increasing
// sequence numbers. Reading the range backwards yields head-first order, so
// a Push behaves like a prepend.
type LevelDBStore struct {
	mu sync.Mutex
	db *leveldb.DB
}

func OpenLevelDBStore(dbPath string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

func seqKeyPrefix(list string) []byte {
	return []byte("l/" + list + "/")
}

func seqKey(list string, seq uint64) []byte {
	key := seqKeyPrefix(list)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	return append(key, buf[:]...)
}

func counterKey(list string) []byte {
	return []byte("c/" + list)
}

func (s *LevelDBStore) Push(list string, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seq uint64
	raw, err := s.db.Get(counterKey(list), nil)
	switch err {
	case nil:
		if len(raw) != 8 {
			return fmt.Errorf("corrupt counter for list %s", list)
		}
		seq = binary.BigEndian.Uint64(raw) + 1
	case leveldb.ErrNotFound:
		seq = 0
	default:
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put(seqKey(list, seq), []byte(entry))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	batch.Put(counterKey(list), buf[:])
	return s.db.Write(batch, nil)
}

func (s *LevelDBStore) All(list string) ([]string, error) {
	iter := s.db.NewIterator(util.BytesPrefix(seqKeyPrefix(list)), nil)
	defer iter.Release()

	entries := make([]string, 0)
	for ok := iter.Last(); ok; ok = iter.Prev() {
		entries = append(entries, string(iter.Value()))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
