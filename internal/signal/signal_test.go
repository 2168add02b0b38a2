package signal

import (
	"math"
	"testing"
	"time"

	"github.com/trendwise/options-scanner/internal/marketdata"
	"github.com/trendwise/options-scanner/internal/series"
)

func testParams() Params {
	return Params{
		Trend:           TrendParams{MAShort: 10, MALong: 20, RSIPeriod: 14},
		Criteria:        Criteria{MinDTE: 10, MaxDTE: 60, MinOpenInterest: 100},
		TargetDeltaCall: 0.35,
		TargetDeltaPut:  -0.35,
		AssumedMovePct:  0.05,
	}
}

// risingSeries builds 21 bars drifting upward with periodic pullbacks so
// the RSI settles mid-range instead of pinning at 100.
func risingSeries(t *testing.T) *series.Series {
	t.Helper()
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	bars := make([]series.Bar, 21)
	price := 100.0
	for i := range bars {
		if i > 0 {
			if i%3 == 0 {
				price -= 0.9
			} else {
				price += 0.5
			}
		}
		bars[i] = series.Bar{Date: start.AddDate(0, 0, i), Close: price}
	}

	s, err := series.New(bars)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}
	return s
}

func rawCall(symbol, expiration string, strike, delta, bid, ask, oi float64) marketdata.OptionSnapshot {
	return marketdata.OptionSnapshot{
		Details: &marketdata.ContractDetails{
			Ticker:         symbol,
			ContractType:   "call",
			ExpirationDate: expiration,
			StrikePrice:    &strike,
		},
		Greeks:       &marketdata.Greeks{Delta: &delta},
		LastQuote:    &marketdata.Quote{BidPrice: &bid, AskPrice: &ask},
		OpenInterest: &oi,
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	p := testParams()
	s := risingSeries(t)

	trend := ClassifyTrend(s, p.Trend)
	if trend.Label != Bullish {
		t.Fatalf("expected bullish trend, got %s (rsi=%.2f)", trend.Label, trend.RSI)
	}
	if trend.RSI < 40 || trend.RSI > 70 {
		t.Fatalf("expected mid-range RSI, got %.2f", trend.RSI)
	}

	asOf := time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)

	good := rawCall("O:ACME250722C00105000", "2025-07-22", 105, 0.36, 2.90, 3.10, 500)
	lowOI := rawCall("O:ACME250707C00102000", "2025-07-07", 102, 0.50, 1.90, 2.10, 50)

	underlying := 104.0
	good.UnderlyingAsset = &marketdata.UnderlyingAsset{
		Ticker:  "ACME",
		Session: &marketdata.UnderlyingPrices{ClosePrice: &underlying},
	}

	sig, ok := PickSignal(p, "ACME", trend, []marketdata.OptionSnapshot{lowOI, good}, asOf)
	if !ok {
		t.Fatal("expected a signal")
	}

	if sig.Contract.Symbol != "O:ACME250722C00105000" {
		t.Errorf("expected the delta-0.36 contract, got %s", sig.Contract.Symbol)
	}
	if sig.Contract.Mark == nil || math.Abs(*sig.Contract.Mark-3.00) > 1e-9 {
		t.Errorf("expected mark 3.00, got %v", sig.Contract.Mark)
	}
	if sig.UnderlyingPrice == nil || *sig.UnderlyingPrice != 104.0 {
		t.Errorf("expected underlying 104.0, got %v", sig.UnderlyingPrice)
	}
	if sig.Projection == nil {
		t.Fatal("expected a projection")
	}

	// The low-OI contract must never be selectable: even alone it yields
	// no signal.
	if _, ok := PickSignal(p, "ACME", trend, []marketdata.OptionSnapshot{lowOI}, asOf); ok {
		t.Error("expected no signal when only ineligible contracts remain")
	}
}

func TestPickSignalNeutralTrend(t *testing.T) {
	p := testParams()
	trend := TrendResult{Label: Neutral}

	if _, ok := PickSignal(p, "ACME", trend, nil, time.Now()); ok {
		t.Error("expected no signal for a neutral trend")
	}
}

func TestPickSignalEmptyChain(t *testing.T) {
	p := testParams()
	trend := TrendResult{Label: Bullish, LatestClose: 100}

	if _, ok := PickSignal(p, "ACME", trend, nil, time.Now()); ok {
		t.Error("expected no signal for an empty chain")
	}
}

func TestPickSignalUnderlyingFallsBackToLatestClose(t *testing.T) {
	p := testParams()
	trend := TrendResult{Label: Bullish, LatestClose: 104.4}
	asOf := time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)

	// Chain record without an underlying_asset block.
	raw := rawCall("O:ACME250722C00105000", "2025-07-22", 105, 0.36, 2.90, 3.10, 500)

	sig, ok := PickSignal(p, "ACME", trend, []marketdata.OptionSnapshot{raw}, asOf)
	if !ok {
		t.Fatal("expected a signal")
	}
	if sig.UnderlyingPrice == nil || *sig.UnderlyingPrice != 104.4 {
		t.Errorf("expected fallback to latest close, got %v", sig.UnderlyingPrice)
	}
}

func TestChainType(t *testing.T) {
	if ct, ok := ChainType(Bullish); !ok || ct != Call {
		t.Errorf("bullish should scan calls, got %s (ok=%v)", ct, ok)
	}
	if ct, ok := ChainType(Bearish); !ok || ct != Put {
		t.Errorf("bearish should scan puts, got %s (ok=%v)", ct, ok)
	}
	if _, ok := ChainType(Neutral); ok {
		t.Error("neutral has no chain type")
	}
	if _, ok := ChainType(NoData); ok {
		t.Error("no_data has no chain type")
	}
}
