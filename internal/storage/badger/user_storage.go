package badger

import (
	"fmt"
	"strings"
	"time"

	"github.com/signalist/notifier/internal/common"
	"github.com/signalist/notifier/internal/interfaces"
	"github.com/signalist/notifier/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// UserStorage implements the UserStorage interface for Badger
type UserStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewUserStorage creates a new UserStorage instance
func NewUserStorage(db *BadgerDB, logger arbor.ILogger) interfaces.UserStorage {
	return &UserStorage{
		db:     db,
		logger: logger,
	}
}

// SaveUser inserts or updates a user record
func (s *UserStorage) SaveUser(user *models.User) error {
	if user.Email == "" {
		return fmt.Errorf("user email cannot be empty")
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if user.ID == "" {
		user.ID = common.NewUserID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(user.ID, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("User saved")

	return nil
}

// GetUser retrieves a user by ID
func (s *UserStorage) GetUser(id string) (*models.User, error) {
	var user models.User
	err := s.db.Store().Get(id, &user)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address
func (s *UserStorage) GetUserByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var users []models.User
	if err := s.db.Store().Find(&users, badgerhold.Where("Email").Eq(email).Index("Email")); err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &users[0], nil
}

// GetAllUsersForNewsEmail returns every user eligible for the daily news
// summary. Opted-out accounts and records without an email are excluded.
func (s *UserStorage) GetAllUsersForNewsEmail() ([]models.User, error) {
	var users []models.User
	if err := s.db.Store().Find(&users, badgerhold.Where("NewsEmailOptOut").Eq(false).SortBy("CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to query users for news email: %w", err)
	}

	eligible := make([]models.User, 0, len(users))
	for _, user := range users {
		if user.Email == "" {
			continue
		}
		eligible = append(eligible, user)
	}

	return eligible, nil
}

// DeleteUser removes a user by ID
func (s *UserStorage) DeleteUser(id string) error {
	err := s.db.Store().Delete(id, &models.User{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// CountUsers returns the total number of stored users
func (s *UserStorage) CountUsers() (int, error) {
	count, err := s.db.Store().Count(&models.User{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return int(count), nil
}
