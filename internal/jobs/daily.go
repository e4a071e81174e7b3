package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/signalist/notifier/internal/jobs/step"
	"github.com/signalist/notifier/internal/models"
	"github.com/signalist/notifier/internal/services/content"
)

// maxArticlesPerUser caps how many articles feed one user's summary
const maxArticlesPerUser = 6

// SendDailyNewsSummary runs the broadcast pipeline: load recipients, fetch
// news per user, summarize per user, then dispatch the emails. A problem
// with one user never aborts the batch; per-user failures degrade to empty
// article lists, fallback content, or an unsent outcome in the report.
func (s *Service) SendDailyNewsSummary(ctx context.Context) (*models.JobResult, error) {
	return s.runWithRetry(ctx, JobIDDailyNewsSummary, func(ctx context.Context, r *step.Runner) (*models.JobResult, error) {
		users, err := step.Do(ctx, r, "get-all-users", func(ctx context.Context) ([]models.User, error) {
			return s.storage.UserStorage().GetAllUsersForNewsEmail()
		})
		if err != nil {
			return nil, err
		}

		if len(users) == 0 {
			return &models.JobResult{
				Success: false,
				Message: "No users found for news mail",
			}, nil
		}

		userNews, err := step.Do(ctx, r, "fetch-user-news", func(ctx context.Context) ([]models.UserNews, error) {
			return s.fetchUserNews(ctx, users), nil
		})
		if err != nil {
			return nil, err
		}

		summaries := s.summarizeUserNews(ctx, r, userNews)

		report, err := step.Do(ctx, r, "send-news-emails", func(ctx context.Context) (*models.SendReport, error) {
			return s.dispatchSummaries(ctx, summaries), nil
		})
		if err != nil {
			return nil, err
		}

		return &models.JobResult{
			Success:     true,
			Message:     "Daily news summary emails sent successfully",
			SendResults: report,
		}, nil
	})
}

// fetchUserNews collects articles per user, sequentially. Watchlist news is
// preferred; an empty result falls back to general market news. Any error
// for a user yields an empty article list for that user.
func (s *Service) fetchUserNews(ctx context.Context, users []models.User) []models.UserNews {
	perUser := make([]models.UserNews, 0, len(users))

	for _, user := range users {
		articles, err := s.fetchArticlesForUser(ctx, user)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("email", user.Email).
				Msg("Failed to fetch news for user")
			articles = []models.NewsArticle{}
		}
		perUser = append(perUser, models.UserNews{User: user, Articles: articles})
	}

	return perUser
}

func (s *Service) fetchArticlesForUser(ctx context.Context, user models.User) ([]models.NewsArticle, error) {
	symbols, err := s.storage.WatchlistStorage().GetWatchlistSymbols(user.Email)
	if err != nil {
		return nil, err
	}

	articles, err := s.news.GetNews(ctx, symbols, maxArticlesPerUser)
	if err != nil {
		return nil, err
	}
	articles = truncateArticles(articles, maxArticlesPerUser)

	if len(articles) == 0 {
		articles, err = s.news.GetGeneralNews(ctx, maxArticlesPerUser)
		if err != nil {
			return nil, err
		}
		articles = truncateArticles(articles, maxArticlesPerUser)
	}

	return articles, nil
}

func truncateArticles(articles []models.NewsArticle, limit int) []models.NewsArticle {
	if articles == nil {
		return []models.NewsArticle{}
	}
	if len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

// summarizeUserNews generates one summary per user, sequentially. Each
// user's summarization is its own durable step so a retried run only pays
// for the users it has not summarized yet. A model error leaves that user's
// content nil; a successful call with no text gets the fallback content.
func (s *Service) summarizeUserNews(ctx context.Context, r *step.Runner, userNews []models.UserNews) []models.UserSummary {
	summaries := make([]models.UserSummary, 0, len(userNews))

	for _, entry := range userNews {
		articles := entry.Articles

		resp, err := step.Do(ctx, r, "summarize-news-"+entry.User.Email, func(ctx context.Context) (models.ModelResponse, error) {
			return s.content.SummarizeNews(ctx, articles)
		})
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("email", entry.User.Email).
				Msg("Failed to summarize news for user")
			summaries = append(summaries, models.UserSummary{User: entry.User, NewsContent: nil})
			continue
		}

		newsContent := content.NoMarketNewsContent
		if resp.HasText {
			newsContent = resp.Text
		}
		summaries = append(summaries, models.UserSummary{User: entry.User, NewsContent: &newsContent})
	}

	return summaries
}

// dispatchSummaries sends the summary emails with bounded concurrency and
// collects one outcome per recipient, in input order. Users without content
// are reported as skipped without a send attempt.
func (s *Service) dispatchSummaries(ctx context.Context, summaries []models.UserSummary) *models.SendReport {
	concurrency := s.config.Jobs.SendConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	details := make([]models.DispatchOutcome, len(summaries))
	date := formatDateToday()

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, summary := range summaries {
		if summary.NewsContent == nil {
			details[i] = models.DispatchOutcome{
				Email:  summary.User.Email,
				Sent:   false,
				Reason: "no-content",
			}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, summary models.UserSummary) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.mailer.SendNewsSummaryEmail(ctx, models.NewsSummaryEmail{
				Email:       summary.User.Email,
				Date:        date,
				NewsContent: *summary.NewsContent,
			})
			if err != nil {
				s.logger.Error().
					Err(err).
					Str("email", summary.User.Email).
					Msg("Failed to send news summary email")
				details[i] = models.DispatchOutcome{
					Email: summary.User.Email,
					Sent:  false,
					Error: fmt.Sprint(err),
				}
				return
			}

			details[i] = models.DispatchOutcome{
				Email:  summary.User.Email,
				Sent:   true,
				Result: result,
			}
		}(i, summary)
	}

	wg.Wait()

	sentCount := 0
	for _, d := range details {
		if d.Sent {
			sentCount++
		}
	}

	return &models.SendReport{
		Total:     len(details),
		SentCount: sentCount,
		Details:   details,
	}
}

// formatDateToday renders today's date the way the summary email shows it
func formatDateToday() string {
	return time.Now().Format("Monday, January 2, 2006")
}
