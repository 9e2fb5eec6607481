package peers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestCoreClientFetchAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/market/assets" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"ticker_symbol":"PETR4","asset_name":"Petrobras","current_price":"38.5"}]}`))
	}))
	defer srv.Close()

	c := NewCoreClient(srv.Client(), srv.URL, zap.NewNop())
	assets, err := c.FetchAssets(context.Background())
	if err != nil {
		t.Fatalf("FetchAssets: %v", err)
	}
	if len(assets) != 1 || assets[0].Ticker != "PETR4" {
		t.Fatalf("unexpected assets %+v", assets)
	}
}

func TestCoreClientFetchAssetsDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewCoreClient(srv.Client(), srv.URL, zap.NewNop())
	assets, err := c.FetchAssets(context.Background())
	if err != nil {
		t.Fatalf("expected degraded nil error, got %v", err)
	}
	if len(assets) != 0 {
		t.Fatalf("expected empty assets, got %+v", assets)
	}
}

func TestCoreClientFetchAssetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tickerSymbol"); got != "NOPE" {
			t.Fatalf("unexpected ticker query %q", got)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"asset not found"}`))
	}))
	defer srv.Close()

	c := NewCoreClient(srv.Client(), srv.URL, zap.NewNop())
	asset, err := c.FetchAsset(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("404 must map to nil asset, got error %v", err)
	}
	if asset != nil {
		t.Fatalf("expected nil asset, got %+v", asset)
	}
}

func TestCoreClientFetchAssetEnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"database unavailable"}`))
	}))
	defer srv.Close()

	c := NewCoreClient(srv.Client(), srv.URL, zap.NewNop())
	if _, err := c.FetchAsset(context.Background(), "PETR4"); err == nil {
		t.Fatal("expected error for success=false envelope")
	}
}

func TestIngestorClientFetchAnalyzedNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ingest/news/analyzed" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ticker"); got != "PETR4" {
			t.Fatalf("unexpected ticker %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Fatalf("unexpected limit %q", got)
		}
		w.Write([]byte(`{"success":true,"data":[{"sentiment":"positive","impact_score":0.7}]}`))
	}))
	defer srv.Close()

	c := NewIngestorClient(srv.Client(), srv.URL, zap.NewNop())
	news, err := c.FetchAnalyzedNews(context.Background(), "PETR4", 100)
	if err != nil {
		t.Fatalf("FetchAnalyzedNews: %v", err)
	}
	if len(news) != 1 || news[0].ImpactScore != 0.7 {
		t.Fatalf("unexpected news %+v", news)
	}
}

func TestIngestorClientDegradesToEmpty(t *testing.T) {
	c := NewIngestorClient(nil, "http://127.0.0.1:1", zap.NewNop())
	news, err := c.FetchAnalyzedNews(context.Background(), "PETR4", 10)
	if err != nil {
		t.Fatalf("expected degraded nil error, got %v", err)
	}
	if len(news) != 0 {
		t.Fatalf("expected empty news, got %+v", news)
	}
}
