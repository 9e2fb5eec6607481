package sentiment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WillianTomaz/magfi/internal/models"
)

type stubProvider struct {
	res Result
	err error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Classify(ctx context.Context, text string) (Result, error) {
	return s.res, s.err
}

func TestClassifierPassesThroughProviderResult(t *testing.T) {
	c := &Classifier{Provider: &stubProvider{res: Result{
		Sentiment:   models.SentimentPositive,
		ImpactScore: 0.8,
		Analysis:    "earnings beat",
		Tickers:     []string{"PETR4"},
	}}}

	out := c.Classify(context.Background(), "some headline")
	if out.Degraded {
		t.Fatalf("expected non-degraded outcome, got reason %q", out.Reason)
	}
	if out.Sentiment != models.SentimentPositive || out.ImpactScore != 0.8 {
		t.Fatalf("unexpected result: %+v", out.Result)
	}
}

func TestClassifierDegradesOnProviderError(t *testing.T) {
	c := &Classifier{Provider: &stubProvider{err: errors.New("quota exhausted")}}

	out := c.Classify(context.Background(), "some headline")
	if !out.Degraded {
		t.Fatal("expected degraded outcome")
	}
	if out.Sentiment != models.SentimentNeutral {
		t.Fatalf("expected neutral fallback, got %q", out.Sentiment)
	}
	if out.ImpactScore != 0.5 {
		t.Fatalf("expected fallback impact 0.5, got %v", out.ImpactScore)
	}
	if out.Analysis != "unable to analyze" {
		t.Fatalf("unexpected fallback analysis %q", out.Analysis)
	}
	if out.Reason != "quota exhausted" {
		t.Fatalf("unexpected reason %q", out.Reason)
	}
}

func TestClassifierDegradesWithoutProvider(t *testing.T) {
	c := &Classifier{}
	out := c.Classify(context.Background(), "text")
	if !out.Degraded || out.Sentiment != models.SentimentNeutral {
		t.Fatalf("expected degraded neutral outcome, got %+v", out)
	}
}

func TestParseResultStripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"sentiment\":\"negative\",\"impact_score\":0.7,\"analysis\":\"guidance cut\",\"tickers\":[\"vale3\"]}\n```"
	res, err := parseResult(raw)
	if err != nil {
		t.Fatalf("parseResult: %v", err)
	}
	if res.Sentiment != models.SentimentNegative {
		t.Fatalf("unexpected sentiment %q", res.Sentiment)
	}
	if len(res.Tickers) != 1 || res.Tickers[0] != "VALE3" {
		t.Fatalf("expected upper-cased tickers, got %v", res.Tickers)
	}
}

func TestParseResultExtractsJSONFromProse(t *testing.T) {
	raw := `Here is my assessment: {"sentiment":"positive","impact_score":0.6,"analysis":"ok"} hope it helps`
	res, err := parseResult(raw)
	if err != nil {
		t.Fatalf("parseResult: %v", err)
	}
	if res.Sentiment != models.SentimentPositive || res.ImpactScore != 0.6 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestParseResultNormalizesBadValues(t *testing.T) {
	res, err := parseResult(`{"sentiment":"Bullish","impact_score":3.5,"analysis":"x"}`)
	if err != nil {
		t.Fatalf("parseResult: %v", err)
	}
	if res.Sentiment != models.SentimentNeutral {
		t.Fatalf("unknown label should normalize to neutral, got %q", res.Sentiment)
	}
	if res.ImpactScore != 1 {
		t.Fatalf("impact should clamp to 1, got %v", res.ImpactScore)
	}
}

func TestParseResultRejectsGarbage(t *testing.T) {
	if _, err := parseResult("no json here at all"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGeminiProviderRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("missing api key in query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"sentiment\":\"positive\",\"impact_score\":0.9,\"analysis\":\"strong\"}"}]}}]}`))
	}))
	defer srv.Close()

	p := &GeminiProvider{HTTP: srv.Client(), APIKey: "test-key", BaseURL: srv.URL}
	res, err := p.Classify(context.Background(), "headline")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Sentiment != models.SentimentPositive || res.ImpactScore != 0.9 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestGeminiProviderSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &GeminiProvider{HTTP: srv.Client(), APIKey: "k", BaseURL: srv.URL}
	if _, err := p.Classify(context.Background(), "headline"); err == nil {
		t.Fatal("expected error from non-200 response")
	}
}
