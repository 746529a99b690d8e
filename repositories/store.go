package repositories

import (
	"github.com/dgraph-io/badger/v4"
)

// Keyspace layout:
//
//	user:{uuid}  -> JSON domain.User
//	uname:{name} -> user id (username uniqueness probe)
//	group:{uuid} -> JSON domain.Group
//	conv:{key}   -> JSON domain.Conversation (canonical key, not a uuid)
var entityPrefixes = []string{"user:", "uname:", "group:", "conv:"}

// ClearAll deletes every entity of every kind. Called once before a run.
func ClearAll(db *badger.DB) error {
	for _, prefix := range entityPrefixes {
		if err := db.DropPrefix([]byte(prefix)); err != nil {
			return err
		}
	}
	return nil
}

// scanPrefix streams the value of every key under prefix within txn.
func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	options := badger.DefaultIteratorOptions
	options.Prefix = []byte(prefix)
	it := txn.NewIterator(options)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
