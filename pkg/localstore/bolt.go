package localstore

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("eatup")

// BoltStore keeps values in a single bbolt bucket on disk.
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("localstore: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("localstore: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}

func (b *BoltStore) Read(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			// bolt memory is only valid inside the transaction.
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

func (b *BoltStore) Update(key string, fn func([]byte) ([]byte, error)) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketName)

		var cur []byte
		if v := bkt.Get([]byte(key)); v != nil {
			cur = append([]byte(nil), v...)
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}
		if next == nil {
			return bkt.Delete([]byte(key))
		}
		return bkt.Put([]byte(key), next)
	})
	if errors.Is(err, ErrKeep) {
		return nil
	}
	return err
}
