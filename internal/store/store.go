// Package store is the kiosk's local durable key-value store. Values are
// JSON documents kept in a single bolt bucket.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/boltdb/bolt"
)

// Keys of the documents held in the store.
const (
	KeyRecords    = "patients"
	KeySettings   = "settings"
	KeyAssistance = "assistance"
	KeySequence   = "id_sequence"
)

var bucket = []byte("vitalis")

var dbPermissions os.FileMode = 0600

var (
	// ErrNotFound is returned when a key holds no value.
	ErrNotFound = errors.New("key not found")
	// ErrLocked is returned when another process holds the database file.
	ErrLocked = errors.New("store is in use by another process")
)

// Store wraps a bolt database.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, dbPermissions, &bolt.Options{Timeout: time.Second})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("open store %s: %w", path, ErrLocked)
	}
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get decodes the value at key into v. It reports false if the key is unset.
func (s *Store) Get(key string, v interface{}) (bool, error) {
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, v)
	})
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return found, nil
}

// Set encodes v and stores it at key.
func (s *Store) Set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

// Delete removes key. Deleting an unset key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}

// Update decodes the value at key into v, calls fn to modify it and writes
// it back, all in one transaction. v is left at its zero value when the key
// is unset. An error from fn aborts the write.
func (s *Store) Update(key string, v interface{}, fn func() error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if data := b.Get([]byte(key)); data != nil {
			if err := json.Unmarshal(data, v); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		}
		if err := fn(); err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		return b.Put([]byte(key), data)
	})
}
