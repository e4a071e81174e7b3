package jobs

import (
	"context"
	"sync"

	"github.com/signalist/notifier/internal/common"
	"github.com/signalist/notifier/internal/interfaces"
	"github.com/signalist/notifier/internal/models"
	"github.com/ternarybob/arbor"
)

// memRunStorage is an in-memory RunStorage for pipeline tests
type memRunStorage struct {
	mu    sync.Mutex
	runs  map[string]models.JobRun
	steps map[string]models.StepRecord
}

func newMemRunStorage() *memRunStorage {
	return &memRunStorage{
		runs:  make(map[string]models.JobRun),
		steps: make(map[string]models.StepRecord),
	}
}

func (m *memRunStorage) SaveRun(run *models.JobRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = *run
	return nil
}

func (m *memRunStorage) GetRun(id string) (*models.JobRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &run, nil
}

func (m *memRunStorage) GetRunsByJobID(jobID string) ([]models.JobRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var runs []models.JobRun
	for _, run := range m.runs {
		if run.JobID == jobID {
			runs = append(runs, run)
		}
	}
	return runs, nil
}

func (m *memRunStorage) SaveStep(step *models.StepRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	step.Key = models.StepKey(step.RunID, step.Name)
	m.steps[step.Key] = *step
	return nil
}

func (m *memRunStorage) GetStep(runID, name string) (*models.StepRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	step, ok := m.steps[models.StepKey(runID, name)]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &step, nil
}

func (m *memRunStorage) GetStepsByRunID(runID string) ([]models.StepRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var steps []models.StepRecord
	for _, step := range m.steps {
		if step.RunID == runID {
			steps = append(steps, step)
		}
	}
	return steps, nil
}

func (m *memRunStorage) DeleteRun(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, id)
	return nil
}

// mockUserStorage serves a fixed user list
type mockUserStorage struct {
	users []models.User
	err   error
}

func (m *mockUserStorage) SaveUser(user *models.User) error { return nil }
func (m *mockUserStorage) GetUser(id string) (*models.User, error) {
	return nil, interfaces.ErrNotFound
}
func (m *mockUserStorage) GetUserByEmail(email string) (*models.User, error) {
	return nil, interfaces.ErrNotFound
}
func (m *mockUserStorage) GetAllUsersForNewsEmail() ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}
func (m *mockUserStorage) DeleteUser(id string) error { return nil }
func (m *mockUserStorage) CountUsers() (int, error)   { return len(m.users), nil }

// mockWatchlistStorage serves symbols per email
type mockWatchlistStorage struct {
	symbols map[string][]string
}

func (m *mockWatchlistStorage) SaveWatchlist(list *models.Watchlist) error { return nil }
func (m *mockWatchlistStorage) GetWatchlistSymbols(email string) ([]string, error) {
	return m.symbols[email], nil
}
func (m *mockWatchlistStorage) DeleteWatchlist(email string) error { return nil }

// mockKVStorage is an empty KV store
type mockKVStorage struct{}

func (m *mockKVStorage) Get(ctx context.Context, key string) (string, error) {
	return "", interfaces.ErrKeyNotFound
}
func (m *mockKVStorage) Set(ctx context.Context, key, value, description string) error { return nil }
func (m *mockKVStorage) Delete(ctx context.Context, key string) error                  { return nil }
func (m *mockKVStorage) GetAll(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

// mockStorageManager bundles the mock stores
type mockStorageManager struct {
	user      *mockUserStorage
	watchlist *mockWatchlistStorage
	run       *memRunStorage
	kv        *mockKVStorage
}

func newMockStorageManager() *mockStorageManager {
	return &mockStorageManager{
		user:      &mockUserStorage{},
		watchlist: &mockWatchlistStorage{symbols: map[string][]string{}},
		run:       newMemRunStorage(),
		kv:        &mockKVStorage{},
	}
}

func (m *mockStorageManager) UserStorage() interfaces.UserStorage           { return m.user }
func (m *mockStorageManager) WatchlistStorage() interfaces.WatchlistStorage { return m.watchlist }
func (m *mockStorageManager) RunStorage() interfaces.RunStorage             { return m.run }
func (m *mockStorageManager) KeyValueStorage() interfaces.KeyValueStorage   { return m.kv }
func (m *mockStorageManager) LoadEnvFile(ctx context.Context, filePath string) error {
	return nil
}
func (m *mockStorageManager) LoadUsersFromFiles(ctx context.Context, dirPath string) error {
	return nil
}
func (m *mockStorageManager) Close() error { return nil }

// mockContentService routes calls to configurable funcs
type mockContentService struct {
	mu            sync.Mutex
	introFn       func(profile models.UserCreatedPayload) (models.ModelResponse, error)
	summarizeFn   func(articles []models.NewsArticle) (models.ModelResponse, error)
	introCalls    int
	summarizeWith [][]models.NewsArticle
}

func (m *mockContentService) GenerateWelcomeIntro(ctx context.Context, profile models.UserCreatedPayload) (models.ModelResponse, error) {
	m.mu.Lock()
	m.introCalls++
	m.mu.Unlock()
	if m.introFn != nil {
		return m.introFn(profile)
	}
	return models.TextResponse("<p>Welcome!</p>"), nil
}

func (m *mockContentService) SummarizeNews(ctx context.Context, articles []models.NewsArticle) (models.ModelResponse, error) {
	m.mu.Lock()
	m.summarizeWith = append(m.summarizeWith, articles)
	m.mu.Unlock()
	if m.summarizeFn != nil {
		return m.summarizeFn(articles)
	}
	return models.TextResponse("<p>Market digest</p>"), nil
}

// mockMailer records sends and routes to configurable funcs
type mockMailer struct {
	mu           sync.Mutex
	welcomeFn    func(email models.WelcomeEmail) (*models.SendResult, error)
	newsFn       func(email models.NewsSummaryEmail) (*models.SendResult, error)
	welcomeSent  []models.WelcomeEmail
	newsSent     []models.NewsSummaryEmail
	welcomeCalls int
}

func (m *mockMailer) SendWelcomeEmail(ctx context.Context, email models.WelcomeEmail) (*models.SendResult, error) {
	m.mu.Lock()
	m.welcomeCalls++
	m.mu.Unlock()
	if m.welcomeFn != nil {
		result, err := m.welcomeFn(email)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.welcomeSent = append(m.welcomeSent, email)
		m.mu.Unlock()
		return result, nil
	}
	m.mu.Lock()
	m.welcomeSent = append(m.welcomeSent, email)
	m.mu.Unlock()
	return &models.SendResult{MessageID: "<test@localhost>", Accepted: true}, nil
}

func (m *mockMailer) SendNewsSummaryEmail(ctx context.Context, email models.NewsSummaryEmail) (*models.SendResult, error) {
	if m.newsFn != nil {
		result, err := m.newsFn(email)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.newsSent = append(m.newsSent, email)
		m.mu.Unlock()
		return result, nil
	}
	m.mu.Lock()
	m.newsSent = append(m.newsSent, email)
	m.mu.Unlock()
	return &models.SendResult{MessageID: "<test@localhost>", Accepted: true}, nil
}

func (m *mockMailer) IsConfigured() bool { return true }

func (m *mockMailer) sentNewsEmails() []models.NewsSummaryEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.NewsSummaryEmail, len(m.newsSent))
	copy(out, m.newsSent)
	return out
}

// mockNewsClient routes fetches to configurable funcs
type mockNewsClient struct {
	mu           sync.Mutex
	newsFn       func(symbols []string, limit int) ([]models.NewsArticle, error)
	generalFn    func(limit int) ([]models.NewsArticle, error)
	generalCalls int
}

func (m *mockNewsClient) GetNews(ctx context.Context, symbols []string, limit int) ([]models.NewsArticle, error) {
	if m.newsFn != nil {
		return m.newsFn(symbols, limit)
	}
	return []models.NewsArticle{}, nil
}

func (m *mockNewsClient) GetGeneralNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	m.mu.Lock()
	m.generalCalls++
	m.mu.Unlock()
	if m.generalFn != nil {
		return m.generalFn(limit)
	}
	return []models.NewsArticle{}, nil
}

// testConfig returns a config suitable for pipeline tests
func testConfig() *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.Jobs.SendConcurrency = 2
	cfg.Jobs.MaxAttempts = 1
	return cfg
}

// newTestService wires a jobs service from mocks
func newTestService(storage *mockStorageManager, content *mockContentService, mail *mockMailer, news *mockNewsClient, cfg *common.Config) *Service {
	return NewService(cfg, storage, nil, nil, content, mail, news, arbor.NewLogger())
}

func makeArticles(n int) []models.NewsArticle {
	articles := make([]models.NewsArticle, n)
	for i := range articles {
		articles[i] = models.NewsArticle{Headline: "Headline", Source: "Test Wire"}
	}
	return articles
}
