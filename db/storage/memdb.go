package storage

//
// This file implements Database interface based on an in-memory red-black tree.
//

import (
	"bytes"
	"sync"

	"github.com/petar/GoLLRB/llrb"
)

type memItem struct {
	key, value []byte
}

func (a *memItem) Less(b llrb.Item) bool {
	return bytes.Compare(a.key, b.(*memItem).key) < 0
}

type MemoryDatabase struct {
	tree *llrb.LLRB
	lock sync.RWMutex
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{tree: llrb.New()}
}

func (db *MemoryDatabase) Close() {

}

func (db *MemoryDatabase) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	return db.tree.Has(&memItem{key: key}), nil
}

func (db *MemoryDatabase) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if item := db.tree.Get(&memItem{key: key}); item != nil {
		return copyBytes(item.(*memItem).value), nil
	}
	return nil, ErrNotFound
}

func (db *MemoryDatabase) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.tree.ReplaceOrInsert(&memItem{key: copyBytes(key), value: copyBytes(value)})
	return nil
}

// it's ok to delete a non-existent key
func (db *MemoryDatabase) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.tree.Delete(&memItem{key: key})
	return nil
}

func (db *MemoryDatabase) Iterate(start, limit []byte, reverse bool, callback func(key, value []byte) bool) {
	// snapshot the range so callbacks may write to the database
	var items []*memItem
	db.lock.RLock()
	collect := func(i llrb.Item) bool {
		it := i.(*memItem)
		if limit != nil && bytes.Compare(it.key, limit) >= 0 {
			return false
		}
		items = append(items, &memItem{key: copyBytes(it.key), value: copyBytes(it.value)})
		return true
	}
	// a nil start compares as the empty key, lesser than any existing key
	db.tree.AscendGreaterOrEqual(&memItem{key: start}, collect)
	db.lock.RUnlock()

	if callback == nil {
		return
	}
	n := len(items)
	for i := 0; i < n; i++ {
		it := items[i]
		if reverse {
			it = items[n-1-i]
		}
		if !callback(it.key, it.value) {
			return
		}
	}
}

func (db *MemoryDatabase) NewBatch() Batch {
	return &memoryDatabaseBatch{db: db}
}

type writeOp struct {
	key, value []byte
	del        bool
}

type memoryDatabaseBatch struct {
	db *MemoryDatabase
	op []writeOp
}

// execute all batched operations
func (b *memoryDatabaseBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	for _, kv := range b.op {
		if kv.del {
			b.db.tree.Delete(&memItem{key: kv.key})
		} else {
			b.db.tree.ReplaceOrInsert(&memItem{key: kv.key, value: kv.value})
		}
	}
	return nil
}

// reset the batch to empty
func (b *memoryDatabaseBatch) Reset() {
	b.op = b.op[:0]
}

func (b *memoryDatabaseBatch) Put(key []byte, value []byte) error {
	b.op = append(b.op, writeOp{copyBytes(key), copyBytes(value), false})
	return nil
}

func (b *memoryDatabaseBatch) Delete(key []byte) error {
	b.op = append(b.op, writeOp{copyBytes(key), nil, true})
	return nil
}
