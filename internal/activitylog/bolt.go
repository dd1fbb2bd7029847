package activitylog

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketEntries = []byte("entries")

// BoltLog implements Log on top of BoltDB. Entries are keyed by a
// monotonically increasing sequence number, so a cursor scan returns them in
// write order. Every Append commits its own transaction; BoltDB fsyncs on
// commit, which gives the per-entry durability the engine relies on for
// crash-safe resume.
type BoltLog struct {
	db *bolt.DB
}

// NewBoltLog opens (or creates) an activity log at path.
func NewBoltLog(path string) (*BoltLog, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open activity log: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create entries bucket: %w", err)
	}

	return &BoltLog{db: db}, nil
}

// Append writes an entry at the end of the log. The entry's timestamp is
// clamped so that timestamps never decrease in write order even if the wall
// clock steps backwards.
func (l *BoltLog) Append(ctx context.Context, e *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)

		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now()
		}
		if _, v := b.Cursor().Last(); v != nil {
			var last Entry
			if err := json.Unmarshal(v, &last); err == nil && e.Timestamp.Before(last.Timestamp) {
				e.Timestamp = last.Timestamp
			}
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}

		if err := b.Put(seqKey(seq), data); err != nil {
			return fmt.Errorf("failed to store entry: %w", err)
		}
		return nil
	})
}

// ReadAll returns every entry in write order.
func (l *BoltLog) ReadAll(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []Entry
	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketEntries).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to unmarshal entry: %w", err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

// Stats returns per-outcome entry counts.
func (l *BoltLog) Stats(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &Stats{}
	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketEntries).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				continue
			}
			stats.Total++
			switch e.Outcome {
			case OutcomeSent:
				stats.Sent++
			case OutcomeDrafted:
				stats.Drafted++
			case OutcomeErrored:
				stats.Errored++
			}
		}
		return nil
	})
	return stats, err
}

// Close closes the underlying database.
func (l *BoltLog) Close() error {
	return l.db.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
