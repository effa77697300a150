// Package boltstore persists monster snapshots in a bbolt file so monsters
// keep their health, mode and position across restarts.
package boltstore

import (
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/cory-johannsen/mudtrix/internal/game/npc"
)

var (
	bucketMeta     = []byte("meta")
	bucketMonsters = []byte("monsters")

	keySavedAt = []byte("saved_at")
)

// Store wraps a bbolt database holding one JSON-encoded npc.State per monster
// instance, keyed by instance ID.
type Store struct {
	bolt *bbolt.DB
}

// Open opens or creates a bbolt database file and ensures all buckets exist.
//
// Postcondition: Returns an open Store or a non-nil error.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketMonsters} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: create buckets: %w", err)
	}
	return &Store{bolt: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Path returns the filesystem path of the underlying bbolt database.
func (s *Store) Path() string {
	if s.bolt != nil {
		return s.bolt.Path()
	}
	return ""
}

// PutMonster persists a single monster snapshot (write-through).
func (s *Store) PutMonster(st npc.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("boltstore: encode monster %s: %w", st.ID, err)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMonsters).Put([]byte(st.ID), data)
	})
}

// DeleteMonster removes a monster snapshot. Missing keys are not an error.
func (s *Store) DeleteMonster(id string) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMonsters).Delete([]byte(id))
	})
}

// ReplaceMonsters swaps the whole monster bucket for states in a single
// transaction and stamps the save time.
//
// Postcondition: The bucket holds exactly states; a failed encode leaves the
// previous snapshot untouched.
func (s *Store) ReplaceMonsters(states []npc.State, savedAt time.Time) error {
	encoded := make(map[string][]byte, len(states))
	for _, st := range states {
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("boltstore: encode monster %s: %w", st.ID, err)
		}
		encoded[st.ID] = data
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketMonsters); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketMonsters)
		if err != nil {
			return err
		}
		for id, data := range encoded {
			if err := b.Put([]byte(id), data); err != nil {
				return err
			}
		}
		stamp, err := savedAt.UTC().MarshalText()
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySavedAt, stamp)
	})
}

// LoadMonsters returns every stored snapshot in key order.
func (s *Store) LoadMonsters() ([]npc.State, error) {
	var out []npc.State
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMonsters).ForEach(func(k, v []byte) error {
			var st npc.State
			if err := json.Unmarshal(v, &st); err != nil {
				return fmt.Errorf("decode monster %s: %w", k, err)
			}
			out = append(out, st)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: load monsters: %w", err)
	}
	return out, nil
}

// SavedAt returns the time of the last ReplaceMonsters, or the zero time.
func (s *Store) SavedAt() (time.Time, error) {
	var t time.Time
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketMeta).Get(keySavedAt)
		if v == nil {
			return nil
		}
		return t.UnmarshalText(v)
	})
	return t, err
}
