package signal

import (
	"time"

	"github.com/trendwise/options-scanner/internal/marketdata"
)

// Params bundles every knob the pipeline needs; callers build it once from
// configuration and pass it by value.
type Params struct {
	Trend           TrendParams
	Criteria        Criteria
	TargetDeltaCall float64
	TargetDeltaPut  float64
	AssumedMovePct  float64
}

// Signal is a ranked trade candidate for one ticker.
type Signal struct {
	Ticker          string      `json:"ticker"`
	Trend           Direction   `json:"trend"`
	UnderlyingPrice *float64    `json:"underlying_price,omitempty"`
	Contract        Contract    `json:"contract"`
	Projection      *Projection `json:"projection,omitempty"`
}

// ChainType returns the contract type to scan for a trend direction.
func ChainType(trend Direction) (ContractType, bool) {
	switch trend {
	case Bullish:
		return Call, true
	case Bearish:
		return Put, true
	default:
		return "", false
	}
}

// TargetDelta returns the configured target delta for a contract type.
func (p Params) TargetDelta(ct ContractType) float64 {
	if ct == Put {
		return p.TargetDeltaPut
	}
	return p.TargetDeltaCall
}

// PickSignal normalizes and filters a raw chain, selects the contract
// closest to the configured target delta and attaches the linear return
// projection. The underlying price falls back to the trend's latest close
// when the chain does not carry one. ok is false when the trend is not
// directional or no contract survives filtering; both are routine.
func PickSignal(p Params, ticker string, trend TrendResult, chain []marketdata.OptionSnapshot, asOf time.Time) (Signal, bool) {
	ct, ok := ChainType(trend.Label)
	if !ok {
		return Signal{}, false
	}

	underlying := marketdata.UnderlyingPrice(chain)
	if underlying == nil && trend.LatestClose > 0 {
		latest := trend.LatestClose
		underlying = &latest
	}

	contracts := make([]Contract, 0, len(chain))
	for _, raw := range chain {
		contracts = append(contracts, NormalizeContract(raw, asOf))
	}

	eligible := FilterEligible(contracts, p.Criteria)
	best, ok := SelectBest(eligible, p.TargetDelta(ct))
	if !ok {
		return Signal{}, false
	}

	return Signal{
		Ticker:          ticker,
		Trend:           trend.Label,
		UnderlyingPrice: underlying,
		Contract:        best,
		Projection:      ProjectReturn(underlying, best, trend.Label, p.AssumedMovePct),
	}, true
}
