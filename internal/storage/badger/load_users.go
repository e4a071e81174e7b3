package badger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/signalist/notifier/internal/models"
	"gopkg.in/yaml.v3"
)

// userSeedFile is the on-disk YAML format for seeding users and watchlists
type userSeedFile struct {
	Users []userSeed `yaml:"users"`
}

type userSeed struct {
	Email             string   `yaml:"email"`
	Name              string   `yaml:"name"`
	Country           string   `yaml:"country"`
	InvestmentGoals   string   `yaml:"investment_goals"`
	RiskTolerance     string   `yaml:"risk_tolerance"`
	PreferredIndustry string   `yaml:"preferred_industry"`
	NewsEmailOptOut   bool     `yaml:"news_email_opt_out"`
	Watchlist         []string `yaml:"watchlist"`
}

// LoadUsersFromFiles seeds users and watchlists from YAML files in dirPath.
// Existing users are updated by email so seed files can be re-applied on
// startup. A missing directory is not an error.
func (m *Manager) LoadUsersFromFiles(ctx context.Context, dirPath string) error {
	if dirPath == "" {
		return nil
	}

	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		m.logger.Debug().Str("dir", dirPath).Msg("User seed directory does not exist, skipping")
		return nil
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read user seed directory: %w", err)
	}

	loadedCount := 0
	fileCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		filePath := filepath.Join(dirPath, entry.Name())
		data, err := os.ReadFile(filePath)
		if err != nil {
			m.logger.Warn().Err(err).Str("file", filePath).Msg("Failed to read user seed file")
			continue
		}

		var seedFile userSeedFile
		if err := yaml.Unmarshal(data, &seedFile); err != nil {
			m.logger.Warn().Err(err).Str("file", filePath).Msg("Failed to parse user seed file")
			continue
		}

		fileCount++

		for _, seed := range seedFile.Users {
			if seed.Email == "" {
				m.logger.Warn().Str("file", filePath).Msg("Skipping seed entry without email")
				continue
			}

			user := &models.User{
				Email:             seed.Email,
				Name:              seed.Name,
				Country:           seed.Country,
				InvestmentGoals:   seed.InvestmentGoals,
				RiskTolerance:     seed.RiskTolerance,
				PreferredIndustry: seed.PreferredIndustry,
				NewsEmailOptOut:   seed.NewsEmailOptOut,
			}

			// Preserve identity of previously seeded users
			if existing, err := m.user.GetUserByEmail(seed.Email); err == nil {
				user.ID = existing.ID
				user.CreatedAt = existing.CreatedAt
			}

			if err := m.user.SaveUser(user); err != nil {
				m.logger.Warn().Err(err).Str("email", seed.Email).Msg("Failed to save seeded user")
				continue
			}

			if len(seed.Watchlist) > 0 {
				list := &models.Watchlist{
					Email:   user.Email,
					Symbols: seed.Watchlist,
				}
				if err := m.watchlist.SaveWatchlist(list); err != nil {
					m.logger.Warn().Err(err).Str("email", seed.Email).Msg("Failed to save seeded watchlist")
				}
			}

			loadedCount++
		}
	}

	m.logger.Info().
		Str("dir", dirPath).
		Int("files", fileCount).
		Int("users", loadedCount).
		Msg("User seed files loaded")

	return nil
}
