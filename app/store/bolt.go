package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	bolt "go.etcd.io/bbolt"
)

const translationsBktName = "translations"

// Bolt is a storage that uses BoltDB as a backend.
type Bolt struct {
	db *bolt.DB
}

// NewBolt creates new Bolt storage.
func NewBolt(dir string) (*Bolt, error) {
	db, err := bolt.Open(path.Join(dir, "translations.db"), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", dir, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{translationsBktName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create top-level bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &Bolt{db: db}, nil
}

// PutTranslation puts translation to storage.
func (b *Bolt) PutTranslation(_ context.Context, tr Translation) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(translationsBktName))

		bts, err := json.Marshal(tr)
		if err != nil {
			return fmt.Errorf("marshal translation: %w", err)
		}

		if err := bkt.Put([]byte(tr.TranslationKey.String()), bts); err != nil {
			return fmt.Errorf("put translation to storage: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// GetTranslation returns translation from storage.
func (b *Bolt) GetTranslation(_ context.Context, key TranslationKey) (tr Translation, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(translationsBktName))

		bts := bkt.Get([]byte(key.String()))
		if bts == nil {
			return ErrNotFound
		}

		if err := json.Unmarshal(bts, &tr); err != nil {
			return fmt.Errorf("unmarshal translation: %w", err)
		}

		return nil
	})
	if err != nil {
		return Translation{}, fmt.Errorf("view storage: %w", err)
	}

	return tr, nil
}

// Close closes the storage.
func (b *Bolt) Close() error { return b.db.Close() }
