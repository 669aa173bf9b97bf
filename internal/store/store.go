// Package store provides a BoltDB-backed snapshot history for hwpanel.
package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"hwpanel/internal/model"
)

var snapshotsBucket = []byte("snapshots")

// Record is one stored poll.
type Record struct {
	At       time.Time      `msgpack:"at" json:"at"`
	Snapshot model.Snapshot `msgpack:"snapshot" json:"snapshot"`
}

// Store wraps a bbolt database of snapshots keyed by poll time.
type Store struct {
	db  *bolt.DB
	mu  sync.RWMutex
	log zerolog.Logger
}

// New opens or creates a BoltDB file at the given path.
func New(path string, log zerolog.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshots bucket: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying BoltDB.
func (s *Store) Close() error {
	return s.db.Close()
}

// timeKey sorts chronologically under bbolt's byte ordering.
func timeKey(t time.Time) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(t.UnixNano()))
	return k
}

// Append stores snap under at. A second snapshot at the same instant
// replaces the first.
func (s *Store) Append(at time.Time, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := msgpack.Marshal(Record{At: at.UTC(), Snapshot: snap})
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put(timeKey(at), data)
	})
}

// Latest returns the newest record, or false if the history is empty.
func (s *Store) Latest() (Record, bool, error) {
	records, err := s.Recent(1)
	if err != nil || len(records) == 0 {
		return Record{}, false, err
	}
	return records[0], true, nil
}

// Recent returns up to limit records, newest first. A limit of zero or
// less returns the whole history.
func (s *Store) Recent(limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(snapshotsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var record Record
			if err := msgpack.Unmarshal(v, &record); err != nil {
				s.log.Warn().Err(err).Hex("key", k).Msg("Skipping corrupt record")
				continue
			}
			records = append(records, record)
			if limit > 0 && len(records) >= limit {
				break
			}
		}
		return nil
	})
	return records, err
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(snapshotsBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// Prune deletes every record stored before cutoff and returns how many
// were removed.
func (s *Store) Prune(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := timeKey(cutoff)
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(snapshotsBucket).Cursor()
		for k, _ := c.First(); k != nil && string(k) < string(limit); k, _ = c.First() {
			if err := c.Delete(); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// RunPrune starts a background goroutine that drops records older than
// retention every interval, until ctx is done. The returned channel is
// closed once the goroutine has exited; Close must not be called before.
func (s *Store) RunPrune(ctx context.Context, interval, retention time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.pruneOlderThan(now, retention)
			}
		}
	}()
	return done
}

func (s *Store) pruneOlderThan(now time.Time, retention time.Duration) {
	removed, err := s.Prune(now.Add(-retention))
	if err != nil {
		s.log.Error().Err(err).Msg("Database error during prune")
		return
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Dur("retention", retention).Msg("History pruned")
	}
}
