package storage

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectKeys(db Database, start, limit []byte, reverse bool) []string {
	var keys []string
	db.Iterate(start, limit, reverse, func(key, value []byte) bool {
		keys = append(keys, string(key))
		return true
	})
	return keys
}

func dbTest(t *testing.T, db Database) {
	myassert := assert.New(t)

	// fail to get non-existent keys
	_, err := db.Get([]byte("key_one"))
	myassert.Equal(ErrNotFound, err)

	for i, k := range []string{"key_one", "key_two", "key_three"} {
		require.NoError(t, db.Put([]byte(k), []byte(fmt.Sprintf("value_%d", i))))
	}
	v, err := db.Get([]byte("key_two"))
	myassert.NoError(err)
	myassert.Equal("value_1", string(v))

	require.NoError(t, db.Delete([]byte("key_two")))
	has, err := db.Has([]byte("key_two"))
	myassert.NoError(err)
	myassert.False(has)

	// it's ok to delete non-existent keys
	myassert.NoError(db.Delete([]byte("key_two")))

	myassert.Equal([]string{"key_one", "key_three"}, collectKeys(db, nil, nil, false))
	myassert.Equal([]string{"key_three", "key_one"}, collectKeys(db, nil, nil, true))
	myassert.Equal([]string{"key_three"}, collectKeys(db, []byte("key_p"), nil, false))
	myassert.Equal([]string{"key_one"}, collectKeys(db, nil, []byte("key_p"), false))

	// stop early
	n := 0
	db.Iterate(nil, nil, false, func(key, value []byte) bool {
		n++
		return false
	})
	myassert.Equal(1, n)

	b := db.NewBatch()
	myassert.NoError(b.Put([]byte("key_four"), []byte("value_4")))
	myassert.NoError(b.Delete([]byte("key_one")))
	has, _ = db.Has([]byte("key_four"))
	myassert.False(has)
	myassert.NoError(b.Write())
	myassert.Equal([]string{"key_four", "key_three"}, collectKeys(db, nil, nil, false))

	b.Reset()
	myassert.NoError(b.Write())
	myassert.Equal([]string{"key_four", "key_three"}, collectKeys(db, nil, nil, false))
}

func TestMemoryDatabase(t *testing.T) {
	db := NewMemoryDatabase()
	defer db.Close()

	myassert := assert.New(t)
	myassert.Empty(collectKeys(db, nil, nil, false))
	dbTest(t, db)
}

func TestLevelDatabase(t *testing.T) {
	dir, err := ioutil.TempDir("", "leveldb")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	db, err := NewLevelDatabase(filepath.Join(dir, "journal"))
	require.NoError(t, err)
	defer db.Close()

	dbTest(t, db)
}
