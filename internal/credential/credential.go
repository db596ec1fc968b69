// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package credential owns the lifecycle of the single OMDb API key: on-disk
// persistence at a fixed user-scoped path, in-memory memoization for the
// process lifetime, and explicit save/reset. It never prompts or prints;
// interactive acquisition belongs to the calling command.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// DefaultFileName is the dotfile kept under the user's home directory.
const DefaultFileName = ".movie"

// Store persists exactly one credential value. Absence is signalled by an
// error wrapping fs.ErrNotExist from Read; Delete on an absent value is not
// an error.
type Store interface {
	Read() (string, error)
	Write(value string) error
	Delete() error
}

// FileStore keeps the credential as the raw content of a single file.
// Content is trimmed on both read and write so stray newlines from editors
// or shell redirects can never corrupt the key.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath resolves the backing file location. MOVCTL_KEY_FILE wins when
// set; otherwise the file lives directly under the user's home directory.
func DefaultPath() (string, error) {
	if p := os.Getenv("MOVCTL_KEY_FILE"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

// Path returns the file backing this store.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Read() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Write replaces the file content. The value lands in a temp file first and
// is renamed into place so a partial write never becomes visible.
func (s *FileStore) Write(value string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, DefaultFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create credential file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil { //nolint:mnd
		tmp.Close()
		return fmt.Errorf("failed to restrict credential file mode: %w", err)
	}
	if _, err := tmp.WriteString(strings.TrimSpace(value)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credential: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credential: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}

// Delete removes the file. Deleting an absent file is a no-op.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}

// Cache is the per-process credential cache. The zero value is not usable;
// construct one with New or NewDefault. Not safe for concurrent use, which
// matches the single-threaded command dispatch that drives it.
type Cache struct {
	store  Store
	value  string
	loaded bool
}

func New(store Store) *Cache {
	return &Cache{store: store}
}

// NewDefault returns a Cache backed by the default credential file.
func NewDefault() (*Cache, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return New(NewFileStore(path)), nil
}

// Get returns the credential and true when one is available. An absent
// credential is ("", false, nil), never an error. A miss is not memoized, so
// every call re-probes the store until a value appears. A file whose content
// trims to the empty string counts as absent.
func (c *Cache) Get() (string, bool, error) {
	if c.loaded {
		return c.value, true, nil
	}

	value, err := c.store.Read()
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no stored credential")
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read credential: %w", err)
	}
	if value == "" {
		log.Debug("stored credential is empty, treating as absent")
		return "", false, nil
	}

	c.value = value
	c.loaded = true
	return c.value, true, nil
}

// Save persists value and then memoizes it. The slot is only updated after
// the store reports success, so a failed write leaves the cache unchanged.
// An empty value is rejected because it would read back as absent.
func (c *Cache) Save(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("credential must not be empty")
	}

	if err := c.store.Write(value); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	c.value = value
	c.loaded = true
	return nil
}

// Reset clears the memoization slot unconditionally and deletes the backing
// file. Resetting when nothing is stored succeeds.
func (c *Cache) Reset() error {
	c.value = ""
	c.loaded = false

	if err := c.store.Delete(); err != nil {
		return fmt.Errorf("failed to reset credential: %w", err)
	}
	return nil
}
