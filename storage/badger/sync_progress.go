package badger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/keelnetwork/keel/storage"
)

const syncProgressKeyPrefix = "sync_progress/"

// SyncProgress persists the replica's synced version in badger. The consumer
// name distinguishes progress entries of independent consumers sharing one
// database.
type SyncProgress struct {
	db       *badger.DB
	consumer string
}

var _ storage.SyncProgress = (*SyncProgress)(nil)

func NewSyncProgress(db *badger.DB, consumer string) *SyncProgress {
	return &SyncProgress{
		db:       db,
		consumer: consumer,
	}
}

func (p *SyncProgress) key() []byte {
	return []byte(syncProgressKeyPrefix + p.consumer)
}

func (p *SyncProgress) SyncedVersion() (uint64, error) {
	var version uint64
	err := p.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(p.key())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("malformed sync progress entry: expected 8 bytes, got %d", len(val))
			}
			version = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("could not retrieve sync progress: %w", err)
	}
	return version, nil
}

func (p *SyncProgress) InitSyncedVersion(defaultVersion uint64) error {
	err := p.db.Update(func(tx *badger.Txn) error {
		_, err := tx.Get(p.key())
		if err == nil {
			return storage.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return tx.Set(p.key(), encodeVersion(defaultVersion))
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("could not init sync progress: %w", err)
	}
	return nil
}

func (p *SyncProgress) SetSyncedVersion(version uint64) error {
	err := p.db.Update(func(tx *badger.Txn) error {
		_, err := tx.Get(p.key())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("sync progress was never initialized")
		}
		if err != nil {
			return err
		}
		return tx.Set(p.key(), encodeVersion(version))
	})
	if err != nil {
		return fmt.Errorf("could not update sync progress: %w", err)
	}
	return nil
}

func encodeVersion(version uint64) []byte {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, version)
	return val
}
