package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/trendwise/options-scanner/internal/marketdata"
	"github.com/trendwise/options-scanner/internal/series"
	"github.com/trendwise/options-scanner/internal/signal"
)

// fakeClient serves canned data per ticker.
type fakeClient struct {
	bars   map[string]*series.Series
	chains map[string][]marketdata.OptionSnapshot
	errs   map[string]error
}

func (f *fakeClient) GetDailyBars(_ context.Context, ticker string) (*series.Series, error) {
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	return f.bars[ticker], nil
}

func (f *fakeClient) GetOptionChain(_ context.Context, ticker, _ string) ([]marketdata.OptionSnapshot, error) {
	return f.chains[ticker], nil
}

func testParams() signal.Params {
	return signal.Params{
		Trend:           signal.TrendParams{MAShort: 3, MALong: 5, RSIPeriod: 3},
		Criteria:        signal.Criteria{MinDTE: 10, MaxDTE: 60, MinOpenInterest: 100},
		TargetDeltaCall: 0.35,
		TargetDeltaPut:  -0.35,
		AssumedMovePct:  0.05,
	}
}

func barsFromCloses(t *testing.T, closes []float64) *series.Series {
	t.Helper()
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]series.Bar, len(closes))
	for i, c := range closes {
		bars[i] = series.Bar{Date: start.AddDate(0, 0, i), Close: c}
	}
	s, err := series.New(bars)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}
	return s
}

// bullishCloses is choppy-rising: short SMA above long with mid-range RSI.
var bullishCloses = []float64{100, 101, 100.5, 101.5, 102, 101.2, 102.5, 103}

func eligibleSnapshot(delta float64) marketdata.OptionSnapshot {
	strike := 105.0
	bid, ask := 2.90, 3.10
	oi := 500.0
	exp := time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	return marketdata.OptionSnapshot{
		Details: &marketdata.ContractDetails{
			Ticker:         "O:TEST",
			ContractType:   "call",
			ExpirationDate: exp,
			StrikePrice:    &strike,
		},
		Greeks:       &marketdata.Greeks{Delta: &delta},
		LastQuote:    &marketdata.Quote{BidPrice: &bid, AskPrice: &ask},
		OpenInterest: &oi,
	}
}

func TestExecuteMixedBatch(t *testing.T) {
	client := &fakeClient{
		bars: map[string]*series.Series{
			"SIG":   barsFromCloses(t, bullishCloses),
			"SHORT": barsFromCloses(t, []float64{100, 101}),
			"FLAT":  barsFromCloses(t, []float64{100, 100, 100, 100, 100, 100, 100, 100}),
			"EMPTY": barsFromCloses(t, bullishCloses),
		},
		chains: map[string][]marketdata.OptionSnapshot{
			"SIG": {eligibleSnapshot(0.36)},
			// EMPTY has a bullish trend but no contracts.
		},
		errs: map[string]error{
			"BROKEN": errors.New("connection reset"),
		},
	}

	scanner := NewScanner(client, testParams(), 3, zap.NewNop())

	result, err := scanner.Execute(context.Background(), []string{"SIG", "SHORT", "FLAT", "EMPTY", "BROKEN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Total)
	}
	if len(result.Signals) != 1 || result.Signals[0].Ticker != "SIG" {
		t.Fatalf("expected one signal for SIG, got %+v", result.Signals)
	}
	if result.NoData != 1 {
		t.Errorf("expected 1 no_data (SHORT), got %d", result.NoData)
	}
	if result.Neutral != 1 {
		t.Errorf("expected 1 neutral (FLAT), got %d", result.Neutral)
	}
	if result.NoContract != 1 {
		t.Errorf("expected 1 no_contract (EMPTY), got %d", result.NoContract)
	}
	if result.Failed != 1 || len(result.Errors) != 1 {
		t.Errorf("expected 1 failure (BROKEN), got %d (%v)", result.Failed, result.Errors)
	}
	if result.RunID == "" {
		t.Error("expected a run ID")
	}
}

func TestExecuteNotFoundIsNoData(t *testing.T) {
	client := &fakeClient{
		errs: map[string]error{"GONE": marketdata.ErrNotFound},
	}

	scanner := NewScanner(client, testParams(), 1, zap.NewNop())

	result, err := scanner.Execute(context.Background(), []string{"GONE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NoData != 1 || result.Failed != 0 {
		t.Errorf("expected ErrNotFound to count as no_data, got no_data=%d failed=%d",
			result.NoData, result.Failed)
	}
}

func TestExecuteSignalsSortedByTicker(t *testing.T) {
	client := &fakeClient{
		bars: map[string]*series.Series{
			"ZZZ": barsFromCloses(t, bullishCloses),
			"AAA": barsFromCloses(t, bullishCloses),
		},
		chains: map[string][]marketdata.OptionSnapshot{
			"ZZZ": {eligibleSnapshot(0.36)},
			"AAA": {eligibleSnapshot(0.34)},
		},
	}

	scanner := NewScanner(client, testParams(), 2, zap.NewNop())

	result, err := scanner.Execute(context.Background(), []string{"ZZZ", "AAA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(result.Signals))
	}
	if result.Signals[0].Ticker != "AAA" || result.Signals[1].Ticker != "ZZZ" {
		t.Errorf("expected sorted signals, got %s then %s",
			result.Signals[0].Ticker, result.Signals[1].Ticker)
	}
}

func TestExecuteCancelledContextReturns(t *testing.T) {
	client := &fakeClient{
		bars: map[string]*series.Series{
			"AAA": barsFromCloses(t, bullishCloses),
			"BBB": barsFromCloses(t, bullishCloses),
			"CCC": barsFromCloses(t, bullishCloses),
		},
	}

	scanner := NewScanner(client, testParams(), 2, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err = scanner.Execute(ctx, []string{"AAA", "BBB", "CCC"})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Execute did not return after cancellation")
	}

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExecuteEmptyTickers(t *testing.T) {
	scanner := NewScanner(&fakeClient{}, testParams(), 2, zap.NewNop())

	result, err := scanner.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Signals) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
