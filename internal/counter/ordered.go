package counter

// spellchecker:words iradix leveldb memdb

import (
	"encoding/binary"
	"errors"
	"fmt"

	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"

	"github.com/FAU-CDI/wordcount/internal/loadfactor"
)

// radixCounter counts inside a single open transaction of an immutable radix tree.
// Counts are boxed and updated in place, so only new keys modify the tree.
//
// Radix trees have no notion of load; cfg is ignored.
type radixCounter struct {
	txn  *iradix.Txn
	size int
}

func newRadix(expected int, cfg loadfactor.Config) Counter {
	return &radixCounter{txn: iradix.New().Txn()}
}

func (rc *radixCounter) Increment(key string) {
	k := []byte(key)
	if value, ok := rc.txn.Get(k); ok {
		value.(*mutableInt).value++
		return
	}
	rc.txn.Insert(k, &mutableInt{value: 1})
	rc.size++
}

func (rc *radixCounter) Get(key string) int {
	value, ok := rc.txn.Get([]byte(key))
	if !ok {
		return 0
	}
	return value.(*mutableInt).value
}

func (rc *radixCounter) Clear() {
	rc.txn = iradix.New().Txn()
	rc.size = 0
}

func (rc *radixCounter) Len() int { return rc.size }

// levelCounter stores counts as varints in the in-memory table leveldb buffers writes in.
// The table is append-only: every increment appends the key and its new count.
//
// Errors returned by the table cannot be recovered from and cause a panic.
type levelCounter struct {
	db *memdb.DB

	buffer [binary.MaxVarintLen64]byte
}

// levelEntryBytes is the estimated number of bytes a single count occupies in the table.
const levelEntryBytes = 32

func newLevelDB(expected int, cfg loadfactor.Config) Counter {
	return &levelCounter{db: memdb.New(comparer.DefaultComparer, cfg.Capacity(expected)*levelEntryBytes)}
}

func (lc *levelCounter) Increment(key string) {
	k := []byte(key)

	count, err := lc.get(k)
	if err != nil {
		panic(fmt.Errorf("leveldb: failed to get %q: %w", key, err))
	}

	n := binary.PutUvarint(lc.buffer[:], uint64(count+1))
	if err := lc.db.Put(k, lc.buffer[:n]); err != nil {
		panic(fmt.Errorf("leveldb: failed to put %q: %w", key, err))
	}
}

func (lc *levelCounter) Get(key string) int {
	count, err := lc.get([]byte(key))
	if err != nil {
		panic(fmt.Errorf("leveldb: failed to get %q: %w", key, err))
	}
	return count
}

var errInvalidCount = errors.New("invalid count")

// get returns the count stored for key, or 0.
func (lc *levelCounter) get(key []byte) (int, error) {
	value, err := lc.db.Get(key)
	if errors.Is(err, memdb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count, n := binary.Uvarint(value)
	if n <= 0 {
		return 0, errInvalidCount
	}
	return int(count), nil
}

// Clear resets the table, keeping its buffers.
func (lc *levelCounter) Clear()   { lc.db.Reset() }
func (lc *levelCounter) Len() int { return lc.db.Len() }
