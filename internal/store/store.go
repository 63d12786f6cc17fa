package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/movelogapp/movelog-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Movements      *Entity[domain.Movement]
	Tags           *Entity[domain.Tag]
	PasswordResets *Entity[domain.PasswordReset]
	CleanupTasks   *Entity[domain.CleanupTask]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	// Initialize generic entities
	store.initMovements()
	store.initTags()
	store.initPasswordResets()
	store.initCleanupTasks()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// initMovements initializes the Movements entity on the store.
// Movement names are not unique, so no secondary indexes are kept;
// name and tag queries scan the (team-sized) collection.
func (s *Store) initMovements() {
	s.Movements = NewEntity[domain.Movement](s, "movement:")
}

// initTags initializes the Tags entity on the store.
// Uses case-insensitive name indexing via NormalizeTagName so uniqueness
// checks and lookups ignore case.
func (s *Store) initTags() {
	s.Tags = NewEntity[domain.Tag](s, "tag:").
		WithIndexTransform("name",
			func(t *domain.Tag) []string {
				return []string{domain.NormalizeTagName(t.Name)}
			},
			domain.NormalizeTagName,
		)
}

// initPasswordResets initializes the PasswordResets entity on the store.
// Indexed by token hash for the public reset-completion lookup.
func (s *Store) initPasswordResets() {
	s.PasswordResets = NewEntity[domain.PasswordReset](s, "pwreset:").
		WithIndex("token", func(p *domain.PasswordReset) []string {
			return []string{p.TokenHash}
		})
}

// initCleanupTasks initializes the CleanupTasks entity on the store.
func (s *Store) initCleanupTasks() {
	s.CleanupTasks = NewEntity[domain.CleanupTask](s, "cleanup:")
}
