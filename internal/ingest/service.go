// Package ingest runs the collect-classify-store pipeline: pull articles
// from the configured feeds, stage them raw, classify each one and persist
// the analysis.
package ingest

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/feed"
	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
	"github.com/WillianTomaz/magfi/internal/sentiment"
)

// Collector is the feed side of the pipeline.
type Collector interface {
	Collect(ctx context.Context) []feed.Article
	Health() []feed.SourceHealth
}

// Classifier is the sentiment side of the pipeline. It never errors; provider
// failures surface as degraded outcomes.
type Classifier interface {
	Classify(ctx context.Context, text string) sentiment.Outcome
}

// Summary reports one completed ingestion cycle.
type Summary struct {
	Collected int `json:"collected"`
	Stored    int `json:"stored"`
	Analyzed  int `json:"analyzed"`
	Degraded  int `json:"degraded"`
	Failed    int `json:"failed"`
}

// Service owns the ingestion cycle. Articles are staged first and analyzed
// second, so a classification failure can never lose the raw article; the
// unprocessed row stays behind for ReprocessUnprocessed to pick up.
type Service struct {
	Repo       repository.Repository
	Collector  Collector
	Classifier Classifier
	Logger     *zap.Logger
	Workers    int
}

// Run executes one full cycle. Per-article failures are counted and logged,
// never propagated; the cycle always completes over whatever articles it
// could handle. Collection honors the caller's context, but once an article
// is in flight its classification and writes run on a detached context, so
// a caller that abandons the cycle (an HTTP disconnect) cannot tear down
// half-written work.
func (s *Service) Run(ctx context.Context) Summary {
	articles := s.Collector.Collect(ctx)
	summary := Summary{Collected: len(articles)}
	work := context.WithoutCancel(ctx)
	if len(articles) == 0 {
		s.recordFeedHealth(work)
		return summary
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(articles) {
		workers = len(articles)
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		queue = make(chan feed.Article)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for article := range queue {
				stored, analyzed, degraded := s.handleArticle(work, article)
				mu.Lock()
				if stored {
					summary.Stored++
				}
				if analyzed {
					summary.Analyzed++
				}
				if degraded {
					summary.Degraded++
				}
				if !stored || !analyzed {
					summary.Failed++
				}
				mu.Unlock()
			}
		}()
	}
	for _, article := range articles {
		queue <- article
	}
	close(queue)
	wg.Wait()

	s.recordFeedHealth(work)
	if s.Logger != nil {
		s.Logger.Info("ingestion cycle finished",
			zap.Int("collected", summary.Collected),
			zap.Int("stored", summary.Stored),
			zap.Int("analyzed", summary.Analyzed),
			zap.Int("degraded", summary.Degraded),
			zap.Int("failed", summary.Failed),
		)
	}
	return summary
}

func (s *Service) handleArticle(ctx context.Context, article feed.Article) (stored, analyzed, degraded bool) {
	raw := &models.NewsRaw{
		FeedSource:  article.FeedSource,
		Title:       article.Title,
		Content:     article.Content,
		PublishedAt: article.PublishedAt,
		RawData:     []byte(article.Raw),
	}
	if article.Link != "" {
		link := article.Link
		raw.Link = &link
	}
	if err := s.Repo.InsertNewsRaw(ctx, raw); err != nil {
		if s.Logger != nil {
			s.Logger.Error("failed to stage article",
				zap.String("source", article.FeedSource),
				zap.String("title", article.Title),
				zap.Error(err),
			)
		}
		return false, false, false
	}

	ok, wasDegraded := s.analyzeRaw(ctx, raw)
	return true, ok, wasDegraded
}

// analyzeRaw classifies one staged row, stores the analysis and flips the
// processed flag. The flag only flips after the analysis row is durably
// saved; a crash between the two re-analyzes the article on the next pass,
// which the append-only analysis table tolerates.
func (s *Service) analyzeRaw(ctx context.Context, raw *models.NewsRaw) (ok, degraded bool) {
	outcome := s.Classifier.Classify(ctx, raw.Title+"\n\n"+raw.Content)

	analysis := &models.NewsAnalysis{
		Title:       raw.Title,
		Content:     raw.Content,
		Sentiment:   outcome.Sentiment,
		ImpactScore: outcome.ImpactScore,
		SourceURL:   raw.Link,
		Degraded:    outcome.Degraded,
		AnalyzedAt:  time.Now().UTC(),
	}
	if outcome.Analysis != "" {
		text := outcome.Analysis
		analysis.Analysis = &text
	}
	// Only the first mentioned ticker is attributed to the article.
	if len(outcome.Tickers) > 0 {
		ticker := strings.ToUpper(outcome.Tickers[0])
		analysis.Ticker = &ticker
	}
	if outcome.Degraded && outcome.Reason != "" {
		reason := outcome.Reason
		analysis.DegradedReason = &reason
	}

	if err := s.Repo.InsertNewsAnalysis(ctx, analysis); err != nil {
		if s.Logger != nil {
			s.Logger.Error("failed to store analysis",
				zap.Uint64("news_raw_id", raw.ID),
				zap.Error(err),
			)
		}
		return false, outcome.Degraded
	}
	if err := s.Repo.MarkNewsProcessed(ctx, raw.ID); err != nil {
		if s.Logger != nil {
			s.Logger.Error("failed to mark article processed",
				zap.Uint64("news_raw_id", raw.ID),
				zap.Error(err),
			)
		}
		return false, outcome.Degraded
	}
	return true, outcome.Degraded
}

// ReprocessUnprocessed sweeps staged rows whose analysis never landed and
// runs them through classification again. Returns how many were analyzed.
func (s *Service) ReprocessUnprocessed(ctx context.Context, limit int) (int, error) {
	rows, err := s.Repo.ListNewsRaw(ctx, repository.ListNewsRawParams{
		Limit:           limit,
		UnprocessedOnly: true,
	})
	if err != nil {
		return 0, err
	}

	work := context.WithoutCancel(ctx)
	analyzed := 0
	for i := range rows {
		if ok, _ := s.analyzeRaw(work, &rows[i]); ok {
			analyzed++
		}
	}
	if s.Logger != nil && len(rows) > 0 {
		s.Logger.Info("reprocessed unanalyzed articles",
			zap.Int("found", len(rows)),
			zap.Int("analyzed", analyzed),
		)
	}
	return analyzed, nil
}

func (s *Service) recordFeedHealth(ctx context.Context) {
	for _, h := range s.Collector.Health() {
		src := &models.FeedSource{
			URL:          h.URL,
			Enabled:      true,
			HealthStatus: h.Status,
			LastError:    h.LastError,
		}
		if !h.LastPollAt.IsZero() {
			at := h.LastPollAt
			src.LastPollAt = &at
		}
		if err := s.Repo.UpsertFeedSource(ctx, src); err != nil && s.Logger != nil {
			s.Logger.Warn("failed to record feed health",
				zap.String("url", h.URL),
				zap.Error(err),
			)
		}
	}
}
