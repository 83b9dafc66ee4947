// Package store persists LabDesk data to an embedded Badger database.
//
// Member documents are flat field mappings held in a Collection, which gives
// them Firestore-style semantics: get/set with optional merge, idempotent
// delete, full streams, and equality queries. Typed entities (teams, assets,
// users, sessions) live in generic Entity collections with secondary indexes.
package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/labdeskapp/labdesk-server/internal/domain"
	"github.com/labdeskapp/labdesk-server/internal/normalize"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Members holds flat member documents keyed by tax ID.
	Members *Collection

	// Typed entities.
	Teams    *Entity[domain.Team]
	Assets   *Entity[domain.Asset]
	Users    *Entity[domain.User]
	Sessions *Entity[domain.Session]
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Admin tool, correctness over write throughput
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	s.Members = NewCollection(s, "member:")
	s.Teams = NewEntity[domain.Team](s, "team:")
	s.Assets = NewEntity[domain.Asset](s, "asset:")
	s.Sessions = NewEntity[domain.Session](s, "session:")
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalize.ASCIILower(u.Email)}
			},
			normalize.ASCIILower, // Case-insensitive email lookups
		)

	if logger != nil {
		logger.Info("database opened", "path", path)
	}

	return s, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database")
	}
	return s.db.Close()
}
