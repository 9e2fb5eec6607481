package sentiment

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/config"
	"github.com/WillianTomaz/magfi/internal/models"
)

// Result is the provider contract: one classification of one text.
type Result struct {
	Sentiment   string   `json:"sentiment"`
	ImpactScore float64  `json:"impact_score"`
	Analysis    string   `json:"analysis"`
	Tickers     []string `json:"tickers"`
}

// Outcome wraps a Result with its provenance. Degraded means the provider
// failed and the neutral default was substituted; callers and tests can tell
// that apart from a provider that genuinely answered "neutral".
type Outcome struct {
	Result
	Degraded bool
	Reason   string
}

// Provider is the pluggable classification strategy. Implementations return
// an error on any failure; degradation to the neutral default is the
// Classifier's job, not theirs.
type Provider interface {
	Name() string
	Classify(ctx context.Context, text string) (Result, error)
}

const prompt = `Analyze this financial news and provide:
1. Sentiment (positive, negative, neutral)
2. Impact score (0-1)
3. Brief analysis
4. Potential asset tickers mentioned

Text: %s

Return as JSON with keys sentiment, impact_score, analysis, tickers.`

func neutralDefault() Result {
	return Result{
		Sentiment:   models.SentimentNeutral,
		ImpactScore: 0.5,
		Analysis:    "unable to analyze",
	}
}

// Classifier degrades provider failures into the neutral default so a broken
// or rate-limited provider can never abort an ingestion batch.
type Classifier struct {
	Provider Provider
	Logger   *zap.Logger
}

func (c *Classifier) Classify(ctx context.Context, text string) Outcome {
	if c == nil || c.Provider == nil {
		return Outcome{Result: neutralDefault(), Degraded: true, Reason: "no provider configured"}
	}
	res, err := c.Provider.Classify(ctx, text)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warn("sentiment classification degraded",
				zap.String("provider", c.Provider.Name()),
				zap.Error(err),
			)
		}
		return Outcome{Result: neutralDefault(), Degraded: true, Reason: err.Error()}
	}
	return Outcome{Result: res}
}

// NewProvider selects the configured provider. Adding a provider means
// adding a case here; the pipeline itself never branches on provider kind.
func NewProvider(cfg config.SentimentConfig, logger *zap.Logger) (Provider, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai":
		return &OpenAIProvider{
			APIKey: os.Getenv(cfg.OpenAIKeyEnv),
			Model:  cfg.OpenAIModel,
		}, nil
	case "gemini":
		return &GeminiProvider{
			HTTP:   httpClient,
			APIKey: os.Getenv(cfg.GeminiKeyEnv),
			Model:  cfg.GeminiModel,
		}, nil
	default:
		return nil, fmt.Errorf("unknown sentiment provider %q", cfg.Provider)
	}
}
