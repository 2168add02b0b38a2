package signal

// Projection is a first-order projected P&L for a contract under an assumed
// underlying move. This is a fixed linear stress scenario, not an options
// pricing model: gamma, theta decay and volatility changes are ignored.
type Projection struct {
	UnderlyingChange float64 `json:"projected_underlying_change"`
	OptionChange     float64 `json:"projected_option_change"`
	ReturnPct        float64 `json:"projected_return_pct"`
}

// ProjectReturn computes the projection for a selected contract, assuming
// the underlying moves by +movePct for a bullish trend and -movePct for a
// bearish one. Returns nil when the underlying price is unknown or the
// contract has no positive mark; the three fields are always produced
// together or not at all.
func ProjectReturn(underlying *float64, c Contract, trend Direction, movePct float64) *Projection {
	if underlying == nil || c.Mark == nil || *c.Mark == 0 {
		return nil
	}

	move := movePct
	if trend == Bearish {
		move = -movePct
	}

	delta := 0.0
	if c.Delta != nil {
		delta = *c.Delta
	}

	underlyingChange := *underlying * move
	optionChange := delta * underlyingChange

	return &Projection{
		UnderlyingChange: underlyingChange,
		OptionChange:     optionChange,
		ReturnPct:        optionChange / *c.Mark * 100,
	}
}
