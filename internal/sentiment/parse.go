package sentiment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/WillianTomaz/magfi/internal/models"
)

// parseResult decodes a model reply into a Result. Models routinely wrap the
// JSON in markdown fences or surround it with prose, so the decoder first
// strips fences and then falls back to the outermost brace pair.
func parseResult(raw string) (Result, error) {
	body := stripFences(raw)
	if i := strings.Index(body, "{"); i >= 0 {
		if j := strings.LastIndex(body, "}"); j > i {
			body = body[i : j+1]
		}
	}

	var res Result
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return Result{}, fmt.Errorf("decode classification reply: %w", err)
	}

	res.Sentiment = strings.ToLower(strings.TrimSpace(res.Sentiment))
	switch res.Sentiment {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
	default:
		res.Sentiment = models.SentimentNeutral
	}
	if res.ImpactScore < 0 {
		res.ImpactScore = 0
	}
	if res.ImpactScore > 1 {
		res.ImpactScore = 1
	}
	for i, t := range res.Tickers {
		res.Tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	return res, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
