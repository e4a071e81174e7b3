package badger

import (
	"github.com/signalist/notifier/internal/common"
	"github.com/signalist/notifier/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db        *BadgerDB
	user      interfaces.UserStorage
	watchlist interfaces.WatchlistStorage
	run       interfaces.RunStorage
	kv        interfaces.KeyValueStorage
	logger    arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:        db,
		user:      NewUserStorage(db, logger),
		watchlist: NewWatchlistStorage(db, logger),
		run:       NewRunStorage(db, logger),
		kv:        NewKVStorage(db, logger),
		logger:    logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// UserStorage returns the User storage interface
func (m *Manager) UserStorage() interfaces.UserStorage {
	return m.user
}

// WatchlistStorage returns the Watchlist storage interface
func (m *Manager) WatchlistStorage() interfaces.WatchlistStorage {
	return m.watchlist
}

// RunStorage returns the Run storage interface
func (m *Manager) RunStorage() interfaces.RunStorage {
	return m.run
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// DB returns the underlying database connection
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.Store()
	}
	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
