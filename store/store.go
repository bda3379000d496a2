package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.etcd.io/bbolt"

	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

var (
	bucketPayouts  = []byte("payouts")
	bucketSettings = []byte("settings")
)

var ErrNotFound = errors.New("store: snapshot not found")

// Record is a finished snapshot, as persisted
type Record struct {
	_          struct{} `cbor:",toarray"`
	SettingsID string
	PayoutHash string
	CreatedAt  time.Time
	Payouts    types.PayoutList
}

// Store keeps finished payout lists keyed by the hash of the settings that produced them
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at dbPath, creating its directory if needed
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPayouts, bucketSettings} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Put saves the payouts computed for settings, replacing any earlier result for the same settings
func (s *Store) Put(settings types.SnapshotSettings, payouts types.PayoutList, createdAt time.Time) (Record, error) {
	settingsID, err := settings.Hash()
	if err != nil {
		return Record{}, fmt.Errorf("store: hash settings: %w", err)
	}
	payoutHash, err := payouts.Hash()
	if err != nil {
		return Record{}, fmt.Errorf("store: hash payouts: %w", err)
	}
	settingsBytes, err := settings.MarshalJSON()
	if err != nil {
		return Record{}, fmt.Errorf("store: encode settings: %w", err)
	}
	record := Record{
		SettingsID: settingsID,
		PayoutHash: payoutHash,
		CreatedAt:  createdAt.UTC().Truncate(time.Second),
		Payouts:    payouts,
	}
	data, err := cbor.Marshal(&record)
	if err != nil {
		return Record{}, fmt.Errorf("store: encode record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketPayouts).Put([]byte(settingsID), data); err != nil {
			return fmt.Errorf("store: put payouts: %w", err)
		}
		if err := tx.Bucket(bucketSettings).Put([]byte(settingsID), settingsBytes); err != nil {
			return fmt.Errorf("store: put settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

// Get returns the snapshot saved for settings, or ErrNotFound
func (s *Store) Get(settings types.SnapshotSettings) (Record, error) {
	settingsID, err := settings.Hash()
	if err != nil {
		return Record{}, fmt.Errorf("store: hash settings: %w", err)
	}
	var record Record
	err = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPayouts).Get([]byte(settingsID))
		if data == nil {
			return ErrNotFound
		}
		if err := cbor.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("store: decode record: %w", err)
		}
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	// the hash is recorded to catch a corrupted or hand-edited entry
	hash, err := record.Payouts.Hash()
	if err != nil || hash != record.PayoutHash {
		return Record{}, fmt.Errorf("store: payout hash mismatch for %v", settingsID)
	}
	return record, nil
}

// Delete removes the snapshot saved for settings, so the next run starts from scratch
func (s *Store) Delete(settings types.SnapshotSettings) error {
	settingsID, err := settings.Hash()
	if err != nil {
		return fmt.Errorf("store: hash settings: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketPayouts).Delete([]byte(settingsID)); err != nil {
			return err
		}
		return tx.Bucket(bucketSettings).Delete([]byte(settingsID))
	})
}

// List returns the settings hashes of every saved snapshot, in key order
func (s *Store) List() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPayouts).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}
