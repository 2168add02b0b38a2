// Package scan runs the signal pipeline across a batch of tickers with a
// bounded worker pool. A single ticker failing or coming back empty never
// aborts the batch.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trendwise/options-scanner/internal/marketdata"
	"github.com/trendwise/options-scanner/internal/signal"
)

// Outcome classifies what a single ticker's scan produced.
type Outcome string

const (
	OutcomeSignal     Outcome = "signal"
	OutcomeNoData     Outcome = "no_data"
	OutcomeNeutral    Outcome = "neutral"
	OutcomeNoContract Outcome = "no_contract"
	OutcomeFailed     Outcome = "failed"
)

// TickerResult is the per-ticker outcome collected by Execute.
type TickerResult struct {
	Ticker  string
	Outcome Outcome
	Signal  *signal.Signal
	Err     error
}

// BatchResult summarizes one scan run.
type BatchResult struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	Duration   time.Duration   `json:"duration"`
	Total      int             `json:"total"`
	NoData     int             `json:"no_data"`
	Neutral    int             `json:"neutral"`
	NoContract int             `json:"no_contract"`
	Failed     int             `json:"failed"`
	Signals    []signal.Signal `json:"signals"`
	Errors     []string        `json:"errors,omitempty"`
}

type Scanner struct {
	client  marketdata.Client
	params  signal.Params
	workers int
	logger  *zap.Logger
}

func NewScanner(client marketdata.Client, params signal.Params, workers int, logger *zap.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		client:  client,
		params:  params,
		workers: workers,
		logger:  logger,
	}
}

// Execute scans all tickers and collects the signals. Per-ticker fetch
// failures are counted and logged but never fail the batch; only context
// cancellation stops it early.
func (s *Scanner) Execute(ctx context.Context, tickers []string) (*BatchResult, error) {
	runID := uuid.NewString()
	start := time.Now()

	result := &BatchResult{
		RunID:     runID,
		StartedAt: start,
		Total:     len(tickers),
	}

	logger := s.logger.With(zap.String("run_id", runID))
	logger.Info("starting scan", zap.Int("tickers", len(tickers)), zap.Int("workers", s.workers))

	if len(tickers) == 0 {
		return result, nil
	}

	jobs := make(chan string, len(tickers))
	results := make(chan TickerResult, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, logger, jobs, results)
		}()
	}

	go func() {
		// jobs must close even on cancellation or the workers never
		// leave their range loop and Execute hangs.
		defer close(jobs)
		for _, ticker := range tickers {
			select {
			case <-ctx.Done():
				return
			case jobs <- ticker:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		switch r.Outcome {
		case OutcomeSignal:
			result.Signals = append(result.Signals, *r.Signal)
		case OutcomeNoData:
			result.NoData++
		case OutcomeNeutral:
			result.Neutral++
		case OutcomeNoContract:
			result.NoContract++
		case OutcomeFailed:
			result.Failed++
			if r.Err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.Ticker, r.Err))
			}
		}
	}

	// Worker completion order is nondeterministic; keep output stable.
	sort.Slice(result.Signals, func(i, j int) bool {
		return result.Signals[i].Ticker < result.Signals[j].Ticker
	})

	result.Duration = time.Since(start)
	logger.Info("scan complete",
		zap.Int("total", result.Total),
		zap.Int("signals", len(result.Signals)),
		zap.Int("no_data", result.NoData),
		zap.Int("neutral", result.Neutral),
		zap.Int("no_contract", result.NoContract),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)

	return result, ctx.Err()
}

func (s *Scanner) worker(ctx context.Context, logger *zap.Logger, jobs <-chan string, results chan<- TickerResult) {
	for ticker := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r := s.scanTicker(ctx, logger, ticker)

		select {
		case <-ctx.Done():
			return
		case results <- r:
		}
	}
}

// scanTicker runs the full pipeline for one ticker: history, trend, chain,
// contract selection. Expected data absence maps to non-error outcomes.
func (s *Scanner) scanTicker(ctx context.Context, logger *zap.Logger, ticker string) TickerResult {
	bars, err := s.client.GetDailyBars(ctx, ticker)
	if err != nil {
		if errors.Is(err, marketdata.ErrNotFound) {
			logger.Debug("no price history", zap.String("ticker", ticker))
			return TickerResult{Ticker: ticker, Outcome: OutcomeNoData}
		}
		logger.Warn("fetching history failed", zap.String("ticker", ticker), zap.Error(err))
		return TickerResult{Ticker: ticker, Outcome: OutcomeFailed, Err: err}
	}

	trend := signal.ClassifyTrend(bars, s.params.Trend)
	if trend.Label == signal.NoData {
		logger.Debug("insufficient history", zap.String("ticker", ticker), zap.Int("bars", bars.Len()))
		return TickerResult{Ticker: ticker, Outcome: OutcomeNoData}
	}

	ct, ok := signal.ChainType(trend.Label)
	if !ok {
		logger.Debug("neutral trend", zap.String("ticker", ticker), zap.Float64("rsi", trend.RSI))
		return TickerResult{Ticker: ticker, Outcome: OutcomeNeutral}
	}

	logger.Debug("directional trend",
		zap.String("ticker", ticker),
		zap.String("trend", string(trend.Label)),
		zap.Float64("sma_short", trend.SMAShort),
		zap.Float64("sma_long", trend.SMALong),
		zap.Float64("rsi", trend.RSI),
	)

	chain, err := s.client.GetOptionChain(ctx, ticker, string(ct))
	if err != nil {
		if errors.Is(err, marketdata.ErrNotFound) {
			return TickerResult{Ticker: ticker, Outcome: OutcomeNoContract}
		}
		logger.Warn("fetching chain failed", zap.String("ticker", ticker), zap.Error(err))
		return TickerResult{Ticker: ticker, Outcome: OutcomeFailed, Err: err}
	}

	sig, ok := signal.PickSignal(s.params, ticker, trend, chain, time.Now().UTC())
	if !ok {
		logger.Debug("no eligible contracts", zap.String("ticker", ticker), zap.Int("chain", len(chain)))
		return TickerResult{Ticker: ticker, Outcome: OutcomeNoContract}
	}

	logger.Info("signal",
		zap.String("ticker", ticker),
		zap.String("trend", string(sig.Trend)),
		zap.String("contract", sig.Contract.Symbol),
	)
	return TickerResult{Ticker: ticker, Outcome: OutcomeSignal, Signal: &sig}
}
