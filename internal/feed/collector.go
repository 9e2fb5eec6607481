package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// Article is a collected feed entry before persistence. Nothing here is
// authoritative until the row is saved; the collector holds no state between
// cycles and the same entry may be returned again on the next run.
type Article struct {
	FeedSource  string
	Title       string
	Content     string
	Link        string
	PublishedAt *time.Time
	Raw         json.RawMessage
}

type SourceHealth struct {
	URL        string
	Status     string
	LastPollAt time.Time
	LastError  *string
}

// Collector pulls the most recent entries from every configured feed
// endpoint. Endpoints are fetched concurrently with independent timeouts;
// one failing endpoint is logged and skipped, never aborting the rest.
type Collector struct {
	HTTP   *http.Client
	Logger *zap.Logger

	URLs           []string
	MaxPerFeed     int
	FetchTimeout   time.Duration
	MaxConcurrency int

	mu     sync.Mutex
	health map[string]SourceHealth
}

func (c *Collector) Collect(ctx context.Context) []Article {
	if c == nil || len(c.URLs) == 0 {
		return nil
	}
	maxPerFeed := c.MaxPerFeed
	if maxPerFeed <= 0 {
		maxPerFeed = 10
	}
	timeout := c.FetchTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	workers := c.MaxConcurrency
	if workers <= 0 {
		workers = 4
	}

	var (
		wg    sync.WaitGroup
		outMu sync.Mutex
		out   []Article
		sem   = make(chan struct{}, workers)
	)

	for _, url := range c.URLs {
		url := strings.TrimSpace(url)
		if url == "" {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			items, err := c.fetchOne(fetchCtx, url, maxPerFeed)
			if err != nil {
				if c.Logger != nil {
					c.Logger.Warn("feed fetch failed", zap.String("url", url), zap.Error(err))
				}
				c.setHealth(url, "down", err)
				return
			}
			c.setHealth(url, "healthy", nil)

			outMu.Lock()
			out = append(out, items...)
			outMu.Unlock()
		}()
	}
	wg.Wait()

	return out
}

func (c *Collector) fetchOne(ctx context.Context, url string, maxPerFeed int) ([]Article, error) {
	parser := gofeed.NewParser()
	if c.HTTP != nil {
		parser.Client = c.HTTP
	}
	parsed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	items := parsed.Items
	if len(items) > maxPerFeed {
		items = items[:maxPerFeed]
	}

	out := make([]Article, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		content := item.Description
		if strings.TrimSpace(content) == "" {
			content = item.Content
		}
		raw, _ := json.Marshal(item)
		out = append(out, Article{
			FeedSource:  url,
			Title:       item.Title,
			Content:     content,
			Link:        item.Link,
			PublishedAt: item.PublishedParsed,
			Raw:         raw,
		})
	}
	return out, nil
}

func (c *Collector) setHealth(url, status string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.health == nil {
		c.health = map[string]SourceHealth{}
	}
	h := SourceHealth{
		URL:        url,
		Status:     status,
		LastPollAt: time.Now().UTC(),
	}
	if err != nil {
		msg := err.Error()
		h.LastError = &msg
	}
	c.health[url] = h
}

// Health reports the last observed state of every configured endpoint,
// sorted by URL for stable persistence order.
func (c *Collector) Health() []SourceHealth {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SourceHealth, 0, len(c.health))
	for _, h := range c.health {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}
