package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/feed"
	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
	"github.com/WillianTomaz/magfi/internal/sentiment"
)

type stubRepo struct {
	repository.Repository

	mu         sync.Mutex
	raws       []*models.NewsRaw
	analyses   []*models.NewsAnalysis
	processed  []uint64
	feeds      []*models.FeedSource
	rawErr     error
	analyseErr error
	unraws     []models.NewsRaw
	honorCtx   bool
}

func (s *stubRepo) InsertNewsRaw(ctx context.Context, item *models.NewsRaw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.honorCtx && ctx.Err() != nil {
		return ctx.Err()
	}
	if s.rawErr != nil {
		return s.rawErr
	}
	item.ID = uint64(len(s.raws) + 1)
	s.raws = append(s.raws, item)
	return nil
}

func (s *stubRepo) InsertNewsAnalysis(ctx context.Context, item *models.NewsAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.honorCtx && ctx.Err() != nil {
		return ctx.Err()
	}
	if s.analyseErr != nil {
		return s.analyseErr
	}
	s.analyses = append(s.analyses, item)
	return nil
}

func (s *stubRepo) MarkNewsProcessed(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.honorCtx && ctx.Err() != nil {
		return ctx.Err()
	}
	s.processed = append(s.processed, id)
	return nil
}

func (s *stubRepo) ListNewsRaw(ctx context.Context, params repository.ListNewsRawParams) ([]models.NewsRaw, error) {
	return s.unraws, nil
}

func (s *stubRepo) UpsertFeedSource(ctx context.Context, item *models.FeedSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds = append(s.feeds, item)
	return nil
}

type stubCollector struct {
	articles []feed.Article
	health   []feed.SourceHealth
}

func (s *stubCollector) Collect(ctx context.Context) []feed.Article { return s.articles }
func (s *stubCollector) Health() []feed.SourceHealth                { return s.health }

type stubClassifier struct {
	outcome sentiment.Outcome
}

func (s *stubClassifier) Classify(ctx context.Context, text string) sentiment.Outcome {
	return s.outcome
}

func articles(n int) []feed.Article {
	out := make([]feed.Article, n)
	for i := range out {
		out[i] = feed.Article{
			FeedSource: "https://feeds.example.com/markets",
			Title:      "headline",
			Content:    "body",
			Link:       "https://example.com/a",
		}
	}
	return out
}

func TestRunStoresAndAnalyzesEveryArticle(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{
		Repo:      repo,
		Collector: &stubCollector{articles: articles(6)},
		Classifier: &stubClassifier{outcome: sentiment.Outcome{Result: sentiment.Result{
			Sentiment:   models.SentimentPositive,
			ImpactScore: 0.6,
			Analysis:    "good",
			Tickers:     []string{"petr4", "VALE3"},
		}}},
		Logger:  zap.NewNop(),
		Workers: 3,
	}

	sum := svc.Run(context.Background())
	if sum.Collected != 6 || sum.Stored != 6 || sum.Analyzed != 6 || sum.Failed != 0 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if len(repo.processed) != 6 {
		t.Fatalf("expected 6 processed marks, got %d", len(repo.processed))
	}
	first := repo.analyses[0]
	if first.Ticker == nil || *first.Ticker != "PETR4" {
		t.Fatalf("expected first ticker upper-cased, got %v", first.Ticker)
	}
}

// cancelingClassifier cancels the cycle's triggering context on its first
// call, simulating an HTTP caller disconnecting mid-batch.
type cancelingClassifier struct {
	cancel  context.CancelFunc
	once    sync.Once
	outcome sentiment.Outcome
}

func (c *cancelingClassifier) Classify(ctx context.Context, text string) sentiment.Outcome {
	c.once.Do(c.cancel)
	return c.outcome
}

func TestRunFinishesInFlightWorkAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &stubRepo{honorCtx: true}
	svc := &Service{
		Repo:      repo,
		Collector: &stubCollector{articles: articles(3)},
		Classifier: &cancelingClassifier{
			cancel:  cancel,
			outcome: sentiment.Outcome{Result: sentiment.Result{Sentiment: models.SentimentNeutral, ImpactScore: 0.5}},
		},
		Workers: 1,
	}

	sum := svc.Run(ctx)
	if sum.Stored != 3 || sum.Analyzed != 3 || sum.Failed != 0 {
		t.Fatalf("caller cancellation must not tear down item writes, got %+v", sum)
	}
	if len(repo.analyses) != 3 || len(repo.processed) != 3 {
		t.Fatalf("expected 3 analyses and 3 processed marks, got %d and %d",
			len(repo.analyses), len(repo.processed))
	}
}

func TestRunCountsDegradedOutcomes(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{
		Repo:      repo,
		Collector: &stubCollector{articles: articles(2)},
		Classifier: &stubClassifier{outcome: sentiment.Outcome{
			Result:   sentiment.Result{Sentiment: models.SentimentNeutral, ImpactScore: 0.5, Analysis: "unable to analyze"},
			Degraded: true,
			Reason:   "provider down",
		}},
	}

	sum := svc.Run(context.Background())
	if sum.Degraded != 2 || sum.Analyzed != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	for _, a := range repo.analyses {
		if !a.Degraded || a.DegradedReason == nil {
			t.Fatalf("analysis missing degraded marker: %+v", a)
		}
	}
}

func TestRunStagingFailureCountsAsFailed(t *testing.T) {
	repo := &stubRepo{rawErr: errors.New("disk full")}
	svc := &Service{
		Repo:       repo,
		Collector:  &stubCollector{articles: articles(3)},
		Classifier: &stubClassifier{outcome: sentiment.Outcome{Result: sentiment.Result{Sentiment: models.SentimentNeutral, ImpactScore: 0.5}}},
	}

	sum := svc.Run(context.Background())
	if sum.Stored != 0 || sum.Failed != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if len(repo.analyses) != 0 {
		t.Fatal("no analysis should be stored when staging fails")
	}
}

func TestRunAnalysisFailureKeepsRawUnprocessed(t *testing.T) {
	repo := &stubRepo{analyseErr: errors.New("constraint violation")}
	svc := &Service{
		Repo:       repo,
		Collector:  &stubCollector{articles: articles(1)},
		Classifier: &stubClassifier{outcome: sentiment.Outcome{Result: sentiment.Result{Sentiment: models.SentimentNeutral, ImpactScore: 0.5}}},
	}

	sum := svc.Run(context.Background())
	if sum.Stored != 1 || sum.Analyzed != 0 || sum.Failed != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if len(repo.processed) != 0 {
		t.Fatal("processed flag must not flip when the analysis insert fails")
	}
}

func TestRunRecordsFeedHealth(t *testing.T) {
	errMsg := "timeout"
	repo := &stubRepo{}
	svc := &Service{
		Repo: repo,
		Collector: &stubCollector{health: []feed.SourceHealth{
			{URL: "https://a.example.com/rss", Status: "ok"},
			{URL: "https://b.example.com/rss", Status: "down", LastError: &errMsg},
		}},
		Classifier: &stubClassifier{},
	}

	svc.Run(context.Background())
	if len(repo.feeds) != 2 {
		t.Fatalf("expected 2 feed health upserts, got %d", len(repo.feeds))
	}
	if repo.feeds[1].HealthStatus != "down" || repo.feeds[1].LastError == nil {
		t.Fatalf("unexpected feed health record %+v", repo.feeds[1])
	}
}

func TestReprocessUnprocessed(t *testing.T) {
	repo := &stubRepo{unraws: []models.NewsRaw{
		{ID: 10, Title: "stale a", Content: "x"},
		{ID: 11, Title: "stale b", Content: "y"},
	}}
	svc := &Service{
		Repo:       repo,
		Collector:  &stubCollector{},
		Classifier: &stubClassifier{outcome: sentiment.Outcome{Result: sentiment.Result{Sentiment: models.SentimentNeutral, ImpactScore: 0.5}}},
	}

	n, err := svc.ReprocessUnprocessed(context.Background(), 50)
	if err != nil {
		t.Fatalf("ReprocessUnprocessed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 reprocessed, got %d", n)
	}
	if len(repo.processed) != 2 || repo.processed[0] != 10 {
		t.Fatalf("unexpected processed ids %v", repo.processed)
	}
}
