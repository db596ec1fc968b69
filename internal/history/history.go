// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package history records movie lookups in a local bbolt database so the
// history command can replay them. Recording is best-effort and can be
// disabled entirely with MOVCTL_HISTORY=0.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"go.etcd.io/bbolt"

	"movctl/internal/cacheutil"
)

var bucketLookups = []byte("lookups")

// Record is one remembered lookup. Title/Year/ImdbID are empty for search
// queries that never resolved to a single movie.
type Record struct {
	Query  string    `json:"query"`
	Title  string    `json:"title"`
	Year   string    `json:"year"`
	ImdbID string    `json:"imdb_id"`
	When   time.Time `json:"when"`
}

// Enabled returns true unless MOVCTL_HISTORY explicitly disables it
// ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("MOVCTL_HISTORY")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// Path resolves the database location beneath the cache base directory.
func Path() (string, bool) {
	base, ok := cacheutil.Dir()
	if !ok {
		return "", false
	}
	return filepath.Join(base, "history.db"), true
}

// DB wraps the bbolt handle.
type DB struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the history database at the default path.
func Open() (*DB, error) {
	path, ok := Path()
	if !ok {
		return nil, fmt.Errorf("no usable history location")
	}
	return OpenPath(path)
}

// OpenPath opens the history database at an explicit path.
func OpenPath(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second}) //nolint:mnd
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLookups)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history bucket: %w", err)
	}

	return &DB{db: db}, nil
}

func (h *DB) Close() error {
	return h.db.Close()
}

// Append stores one record keyed by its timestamp. Keys sort
// chronologically, which is what Recent relies on.
func (h *DB) Append(rec Record) error {
	if rec.When.IsZero() {
		rec.When = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode history record: %w", err)
	}

	key := []byte(rec.When.UTC().Format(time.RFC3339Nano))
	err = h.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLookups).Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("failed to write history record: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (h *DB) Recent(n int) ([]Record, error) {
	var records []Record

	err := h.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketLookups).Cursor()
		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				log.WithError(err).Warnf("skipping corrupt history record %s", k)
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	return records, nil
}

// Append is the best-effort package-level entry point used by commands. A
// disabled or unusable history is silent; real failures are warnings.
func Append(rec Record) {
	if !Enabled() {
		return
	}

	h, err := Open()
	if err != nil {
		log.WithError(err).Warn("failed to open lookup history")
		return
	}
	defer h.Close()

	if err := h.Append(rec); err != nil {
		log.WithError(err).Warn("failed to record lookup")
	}
}
