// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package resultstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/tanimoto/internal/logging"
	"github.com/tomtom215/tanimoto/internal/metrics"
	"github.com/tomtom215/tanimoto/internal/models"
	"github.com/tomtom215/tanimoto/internal/similarity"
)

// Key prefixes for BadgerDB storage
const (
	similarKeyPrefix = "sim:"
	lastRunKey       = "meta:last_run"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("result not found")

// entry is the stored value for one item.
type entry struct {
	RunID     string                        `json:"run_id"`
	Neighbors similarity.RankedNeighborList `json:"neighbors"`
}

// Store keeps the latest neighbor list of every item and the summary of the
// run that produced them.
type Store struct {
	db       *badger.DB
	path     string
	inMemory bool
}

// Open opens (or creates) the store at path. An empty path keeps everything
// in memory.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", path).
		Bool("in_memory", path == "").
		Msg("Result store opened")

	return &Store{db: db, path: path, inMemory: path == ""}, nil
}

// InMemory reports whether the store has no backing directory.
func (s *Store) InMemory() bool {
	return s.inMemory
}

func similarKey(item similarity.ItemID) []byte {
	return []byte(similarKeyPrefix + strconv.FormatInt(int64(item), 10))
}

// Put stores the neighbor list of a single item.
func (s *Store) Put(runID string, item similarity.ItemID, neighbors similarity.RankedNeighborList) error {
	data, err := json.Marshal(entry{RunID: runID, Neighbors: neighbors})
	if err != nil {
		return fmt.Errorf("marshal neighbors: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(similarKey(item), data); err != nil {
			return fmt.Errorf("set neighbors: %w", err)
		}
		return nil
	})
}

// Get returns the stored neighbor list of item, or ErrNotFound.
func (s *Store) Get(item similarity.ItemID) (similarity.RankedNeighborList, error) {
	var e entry
	err := s.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get(similarKey(item))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get neighbors: %w", err)
		}
		return it.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if err != nil {
		return nil, err
	}
	if e.Neighbors == nil {
		e.Neighbors = similarity.RankedNeighborList{}
	}
	return e.Neighbors, nil
}

// PutAll replaces every stored neighbor list with results. Existing lists
// are dropped first so items missing from results do not linger.
func (s *Store) PutAll(ctx context.Context, runID string, results map[similarity.ItemID]similarity.RankedNeighborList) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("put_all", "badger", time.Since(start), err)
	}()

	if err = ctx.Err(); err != nil {
		return err
	}
	if err = s.db.DropPrefix([]byte(similarKeyPrefix)); err != nil {
		return fmt.Errorf("drop previous results: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	n := 0
	for item, neighbors := range results {
		if n%1024 == 0 {
			if err = ctx.Err(); err != nil {
				return err
			}
		}
		n++

		var data []byte
		data, err = json.Marshal(entry{RunID: runID, Neighbors: neighbors})
		if err != nil {
			return fmt.Errorf("marshal neighbors for item %d: %w", item, err)
		}
		if err = wb.Set(similarKey(item), data); err != nil {
			return fmt.Errorf("batch set item %d: %w", item, err)
		}
	}

	if err = wb.Flush(); err != nil {
		return fmt.Errorf("flush write batch: %w", err)
	}

	logging.Debug().
		Str("run_id", runID).
		Int("items", n).
		Dur("duration", time.Since(start)).
		Msg("Result store updated")
	return nil
}

// Count returns the number of stored neighbor lists.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(similarKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// SaveRun stores the summary of the run that produced the current results.
func (s *Store) SaveRun(run *models.RunSummary) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(lastRunKey), data)
	})
}

// LoadRun returns the last saved run summary, or ErrNotFound.
func (s *Store) LoadRun() (*models.RunSummary, error) {
	var run models.RunSummary
	err := s.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get([]byte(lastRunKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		return it.Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
