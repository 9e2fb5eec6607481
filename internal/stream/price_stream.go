// Package stream keeps tracked instrument quotes current from a live
// websocket quote feed. The stream is optional; when disabled, prices only
// move through the REST API.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
)

// Tick is one quote update from the feed.
type Tick struct {
	Ticker string          `json:"ticker"`
	Kind   string          `json:"kind"`
	Price  decimal.Decimal `json:"price"`
	At     string          `json:"timestamp"`
}

type Options struct {
	URL               string
	ReconnectMin      time.Duration
	ReconnectMax      time.Duration
	HeartbeatInterval time.Duration
	PingTimeout       time.Duration
	Logger            *zap.Logger
}

// PriceStream consumes quote ticks and writes them through to the instrument
// store: current price updated in place, plus one append-only history row.
type PriceStream struct {
	opts Options
	repo repository.Repository
}

func New(repo repository.Repository, opts Options) *PriceStream {
	if opts.ReconnectMin == 0 {
		opts.ReconnectMin = 1 * time.Second
	}
	if opts.ReconnectMax == 0 {
		opts.ReconnectMax = 30 * time.Second
	}
	if opts.HeartbeatInterval == 0 {
		opts.HeartbeatInterval = 20 * time.Second
	}
	if opts.PingTimeout == 0 {
		opts.PingTimeout = 5 * time.Second
	}
	return &PriceStream{opts: opts, repo: repo}
}

// Run connects, consumes until the connection drops, and reconnects with
// jittered exponential backoff until ctx is cancelled.
func (s *PriceStream) Run(ctx context.Context) error {
	if s == nil || s.opts.URL == "" {
		return errors.New("price stream not configured")
	}
	backoff := s.opts.ReconnectMin
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, _, err := websocket.Dial(ctx, s.opts.URL, nil)
		if err != nil {
			if s.opts.Logger != nil {
				s.opts.Logger.Warn("price ws connect failed", zap.Error(err))
			}
			if err := sleepWithJitter(ctx, backoff); err != nil {
				return err
			}
			backoff = nextBackoff(backoff, s.opts.ReconnectMax)
			continue
		}
		if s.opts.Logger != nil {
			s.opts.Logger.Info("price ws connected", zap.String("url", s.opts.URL))
		}
		backoff = s.opts.ReconnectMin

		err = s.consume(ctx, conn)
		_ = conn.Close(websocket.StatusNormalClosure, "reconnect")
		if err == nil || errors.Is(err, context.Canceled) {
			return err
		}
		if err := sleepWithJitter(ctx, backoff); err != nil {
			return err
		}
		backoff = nextBackoff(backoff, s.opts.ReconnectMax)
	}
}

func (s *PriceStream) consume(ctx context.Context, conn *websocket.Conn) error {
	heartbeatErr := make(chan error, 1)
	heartbeatCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(s.opts.HeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-heartbeatCtx.Done():
				heartbeatErr <- heartbeatCtx.Err()
				return
			case <-ticker.C:
				pingCtx, cancelPing := context.WithTimeout(heartbeatCtx, s.opts.PingTimeout)
				err := conn.Ping(pingCtx)
				cancelPing()
				if err != nil {
					heartbeatErr <- err
					return
				}
			}
		}
	}()

	for {
		select {
		case err := <-heartbeatErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		default:
		}
		_, raw, err := conn.Read(ctx)
		if err != nil {
			if s.opts.Logger != nil && !errors.Is(err, context.Canceled) {
				s.opts.Logger.Warn("price ws read failed", zap.Error(err))
			}
			return err
		}

		var tick Tick
		if err := json.Unmarshal(raw, &tick); err != nil || tick.Ticker == "" {
			continue
		}
		if err := s.Apply(ctx, tick); err != nil && s.opts.Logger != nil {
			s.opts.Logger.Warn("price tick rejected",
				zap.String("ticker", tick.Ticker),
				zap.Error(err),
			)
		}
	}
}

// Apply writes one tick through to the store. Ticks for unknown instruments
// are dropped; the feed is allowed to be a superset of what we track.
func (s *PriceStream) Apply(ctx context.Context, tick Tick) error {
	ticker := strings.ToUpper(strings.TrimSpace(tick.Ticker))
	if ticker == "" {
		return errors.New("tick without ticker")
	}
	if tick.Price.IsNegative() {
		return fmt.Errorf("negative price %s for %s", tick.Price, ticker)
	}

	if tick.Kind == models.KindCurrency {
		currency, err := s.repo.GetCurrencyByCode(ctx, ticker)
		if err != nil {
			return err
		}
		if currency == nil {
			return nil
		}
		currency.CurrentPrice = tick.Price
		if err := s.repo.SaveCurrency(ctx, currency); err != nil {
			return err
		}
		return s.repo.RecordCurrencyPrice(ctx, currency.ID, tick.Price)
	}

	asset, err := s.repo.GetAssetByTicker(ctx, ticker)
	if err != nil {
		return err
	}
	if asset == nil {
		return nil
	}
	asset.CurrentPrice = tick.Price
	if err := s.repo.SaveAsset(ctx, asset); err != nil {
		return err
	}
	return s.repo.RecordAssetPrice(ctx, asset.ID, tick.Price)
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func sleepWithJitter(ctx context.Context, base time.Duration) error {
	if base <= 0 {
		return nil
	}
	var jitter time.Duration
	if half := int64(base / 2); half > 0 {
		jitter = time.Duration(rand.Int63n(half))
	}
	timer := time.NewTimer(base + jitter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
