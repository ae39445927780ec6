package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"go.etcd.io/bbolt"
)

// PersistentStore keeps JSON-encoded values in a single bbolt bucket.
type PersistentStore[T any] struct {
	Db       *bbolt.DB
	DbFile   string
	FileMode os.FileMode
	Bucket   string
}

func (p *PersistentStore[T]) CreateBucket() error {
	return p.Db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucket([]byte(p.Bucket))
		return err
	})
}

func (p *PersistentStore[T]) Count() (int, error) {
	count := 0

	err := p.Db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(p.Bucket))
		return b.ForEach(func(k, v []byte) error {
			count++
			return nil
		})
	})

	if err != nil {
		return -1, err
	}

	return count, nil

}

func (p *PersistentStore[T]) Get(key string) (v T, err error) {

	err = p.Db.View(func(tx *bbolt.Tx) error {

		b := tx.Bucket([]byte(p.Bucket))
		raw := b.Get([]byte(key))
		if raw == nil {
			return fmt.Errorf("key %s: %w", key, ErrNotFound)
		}

		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}

		return nil
	})

	return
}

func (p *PersistentStore[T]) List() (vs []T, err error) {

	vs = []T{}
	err = p.Db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(p.Bucket))
		return b.ForEach(func(k, v []byte) error {

			var ret T
			if err := json.Unmarshal(v, &ret); err != nil {
				return fmt.Errorf("decoding %s: %w", k, err)
			}

			vs = append(vs, ret)
			return nil
		})
	})

	return

}

func (p *PersistentStore[T]) Put(key string, value T) error {

	buf, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	return p.Db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(p.Bucket))
		return b.Put([]byte(key), buf)
	})

}

func NewPersistentStore[T any](file string, mode os.FileMode, bucket string) (*PersistentStore[T], error) {

	db, err := bbolt.Open(file, mode, nil)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file, err)
	}

	p := &PersistentStore[T]{
		Db:       db,
		DbFile:   file,
		FileMode: mode,
		Bucket:   bucket,
	}

	err = p.CreateBucket()
	if errors.Is(err, bbolt.ErrBucketExists) {
		log.Printf("bucket %s already exists, will use it instead of creating new one", bucket)
	} else if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
	}

	return p, nil
}

func (p *PersistentStore[T]) Close() error {
	return p.Db.Close()
}
