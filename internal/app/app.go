// -----------------------------------------------------------------------
// App - Component wiring and lifecycle
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/signalist/notifier/internal/common"
	"github.com/signalist/notifier/internal/interfaces"
	"github.com/signalist/notifier/internal/jobs"
	"github.com/signalist/notifier/internal/market"
	"github.com/signalist/notifier/internal/services/content"
	"github.com/signalist/notifier/internal/services/events"
	"github.com/signalist/notifier/internal/services/llm"
	"github.com/signalist/notifier/internal/services/mailer"
	"github.com/signalist/notifier/internal/services/scheduler"
	"github.com/signalist/notifier/internal/storage/badger"
	"github.com/ternarybob/arbor"
)

// App holds all application components and dependencies
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	ctx       context.Context
	cancelCtx context.CancelFunc

	StorageManager interfaces.StorageManager

	// Event-driven services
	EventService     interfaces.EventService
	SchedulerService interfaces.SchedulerService

	// Content generation
	ProviderFactory *llm.ProviderFactory
	ContentService  interfaces.ContentService

	// Delivery
	MailerService interfaces.MailerService
	MarketClient  *market.Client

	// Notification pipelines
	JobService *jobs.Service
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		Config:    cfg,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	if err := app.initStorage(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.StorageManager.Close()
		cancel()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Str("daily_schedule", cfg.Jobs.DailySchedule).
		Msg("Application initialized")

	return app, nil
}

func (a *App) initStorage() error {
	manager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.StorageManager = manager

	// Secrets from .env land in the KV store so API key resolution can
	// find them after a database reset
	if err := a.StorageManager.LoadEnvFile(context.Background(), ".env"); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	if err := a.StorageManager.LoadUsersFromFiles(context.Background(), a.Config.Users.SeedDir); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to load user seed files")
	}

	return nil
}

func (a *App) initServices() error {
	a.EventService = events.NewService(a.Logger)
	a.SchedulerService = scheduler.NewService(a.Logger)

	a.ProviderFactory = llm.NewProviderFactory(
		&a.Config.Gemini,
		&a.Config.Claude,
		&a.Config.LLM,
		a.StorageManager.KeyValueStorage(),
		a.Logger,
	)
	a.ContentService = content.NewService(a.ProviderFactory, &a.Config.Gemini, a.Logger)

	a.MailerService = mailer.NewService(&a.Config.Mail, a.Logger)
	if !a.MailerService.IsConfigured() {
		a.Logger.Warn().Msg("SMTP is not fully configured, email delivery will fail")
	}

	marketKey, err := common.ResolveAPIKey(context.Background(), a.StorageManager.KeyValueStorage(), "market_api_key", a.Config.Market.APIKey)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Market API key not resolved, news fetching will fail")
	}

	marketOpts := []market.Option{
		market.WithRateLimit(a.Config.Market.RateLimit),
		market.WithLookbackDays(a.Config.Market.NewsLookback),
	}
	if a.Config.Market.BaseURL != "" {
		marketOpts = append(marketOpts, market.WithBaseURL(a.Config.Market.BaseURL))
	}
	if timeout, err := time.ParseDuration(a.Config.Market.RequestTimeout); err == nil && timeout > 0 {
		marketOpts = append(marketOpts, market.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	a.MarketClient = market.NewClient(marketKey, a.Logger, marketOpts...)

	a.JobService = jobs.NewService(
		a.Config,
		a.StorageManager,
		a.EventService,
		a.SchedulerService,
		a.ContentService,
		a.MailerService,
		a.MarketClient,
		a.Logger,
	)
	if err := a.JobService.Start(); err != nil {
		return err
	}

	return nil
}

// Start begins scheduled job dispatching
func (a *App) Start() error {
	return a.SchedulerService.Start()
}

// Close shuts down all components in reverse initialization order
func (a *App) Close() error {
	if a.cancelCtx != nil {
		a.cancelCtx()
	}

	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.ProviderFactory != nil {
		if err := a.ProviderFactory.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close provider factory")
		}
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage manager")
			return err
		}
	}

	a.Logger.Info().Msg("Application shut down")
	return nil
}
