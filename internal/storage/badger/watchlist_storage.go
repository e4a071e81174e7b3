package badger

import (
	"fmt"
	"strings"
	"time"

	"github.com/signalist/notifier/internal/interfaces"
	"github.com/signalist/notifier/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// WatchlistStorage implements the WatchlistStorage interface for Badger
type WatchlistStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewWatchlistStorage creates a new WatchlistStorage instance
func NewWatchlistStorage(db *BadgerDB, logger arbor.ILogger) interfaces.WatchlistStorage {
	return &WatchlistStorage{
		db:     db,
		logger: logger,
	}
}

// SaveWatchlist inserts or updates a watchlist keyed by email
func (s *WatchlistStorage) SaveWatchlist(list *models.Watchlist) error {
	if list.Email == "" {
		return fmt.Errorf("watchlist email cannot be empty")
	}

	list.Email = strings.ToLower(strings.TrimSpace(list.Email))
	list.UpdatedAt = time.Now()

	if err := s.db.Store().Upsert(list.Email, list); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}

	return nil
}

// GetWatchlistSymbols returns the symbols on a user's watchlist.
// A missing watchlist is not an error; it returns an empty slice so the
// caller can fall back to general market news.
func (s *WatchlistStorage) GetWatchlistSymbols(email string) ([]string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var list models.Watchlist
	err := s.db.Store().Get(email, &list)
	if err == badgerhold.ErrNotFound {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}

	return list.Symbols, nil
}

// DeleteWatchlist removes a user's watchlist
func (s *WatchlistStorage) DeleteWatchlist(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	err := s.db.Store().Delete(email, &models.Watchlist{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete watchlist: %w", err)
	}
	return nil
}
