package interfaces

import (
	"context"
	"errors"

	"github.com/signalist/notifier/internal/models"
)

// ErrNotFound is returned by storage lookups when the record does not exist
var ErrNotFound = errors.New("record not found")

// UserStorage persists user accounts and notification preferences
type UserStorage interface {
	SaveUser(user *models.User) error
	GetUser(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	// GetAllUsersForNewsEmail returns every user eligible for the daily
	// summary, excluding opted-out accounts.
	GetAllUsersForNewsEmail() ([]models.User, error)
	DeleteUser(id string) error
	CountUsers() (int, error)
}

// WatchlistStorage persists per-user symbol watchlists keyed by email
type WatchlistStorage interface {
	SaveWatchlist(list *models.Watchlist) error
	GetWatchlistSymbols(email string) ([]string, error)
	DeleteWatchlist(email string) error
}

// RunStorage persists durable run records and their step checkpoints
type RunStorage interface {
	SaveRun(run *models.JobRun) error
	GetRun(id string) (*models.JobRun, error)
	GetRunsByJobID(jobID string) ([]models.JobRun, error)
	SaveStep(step *models.StepRecord) error
	GetStep(runID, name string) (*models.StepRecord, error)
	GetStepsByRunID(runID string) ([]models.StepRecord, error)
	DeleteRun(id string) error
}

// StorageManager owns the database connection and the typed stores
type StorageManager interface {
	UserStorage() UserStorage
	WatchlistStorage() WatchlistStorage
	RunStorage() RunStorage
	KeyValueStorage() KeyValueStorage

	// LoadEnvFile loads variables from a .env file into the KV store
	LoadEnvFile(ctx context.Context, filePath string) error

	// LoadUsersFromFiles seeds users and watchlists from YAML files
	LoadUsersFromFiles(ctx context.Context, dirPath string) error

	Close() error
}
