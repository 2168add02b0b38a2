package signal

import (
	"time"

	"github.com/trendwise/options-scanner/internal/marketdata"
)

// ContractType distinguishes calls from puts.
type ContractType string

const (
	Call ContractType = "call"
	Put  ContractType = "put"
)

// Contract is a normalized option contract. Fields the provider may omit
// are pointers; nil means absent. Mark is the bid/ask midpoint when both
// sides are quoted with a positive ask, otherwise the last traded price.
type Contract struct {
	Symbol       string       `json:"symbol"`
	Type         ContractType `json:"contract_type"`
	Expiration   string       `json:"expiration_date,omitempty"`
	Strike       *float64     `json:"strike_price,omitempty"`
	Delta        *float64     `json:"delta,omitempty"`
	Theta        *float64     `json:"theta,omitempty"`
	Gamma        *float64     `json:"gamma,omitempty"`
	Vega         *float64     `json:"vega,omitempty"`
	ImpliedVol   *float64     `json:"implied_volatility,omitempty"`
	OpenInterest int64        `json:"open_interest"`
	Mark         *float64     `json:"mark,omitempty"`
	DTE          *int         `json:"dte,omitempty"`
}

// NormalizeContract converts a raw chain record into a Contract, deriving
// the mark price and days to expiration against asOf. It is total: missing
// or unparsable fields come back absent, never as an error.
func NormalizeContract(raw marketdata.OptionSnapshot, asOf time.Time) Contract {
	c := Contract{}

	if raw.Details != nil {
		c.Symbol = raw.Details.Ticker
		c.Type = ContractType(raw.Details.ContractType)
		c.Expiration = raw.Details.ExpirationDate
		c.Strike = raw.Details.StrikePrice
	}

	if raw.Greeks != nil {
		c.Delta = raw.Greeks.Delta
		c.Theta = raw.Greeks.Theta
		c.Gamma = raw.Greeks.Gamma
		c.Vega = raw.Greeks.Vega
	}

	c.ImpliedVol = raw.ImpliedVolatility

	if raw.OpenInterest != nil {
		c.OpenInterest = int64(*raw.OpenInterest)
	}

	c.Mark = deriveMark(raw.LastQuote, raw.LastTrade)
	c.DTE = daysToExpiry(c.Expiration, asOf)

	return c
}

// deriveMark prefers the bid/ask midpoint; without a two-sided quote with a
// positive ask it falls back to the last traded price.
func deriveMark(quote *marketdata.Quote, trade *marketdata.Trade) *float64 {
	if quote != nil && quote.BidPrice != nil && quote.AskPrice != nil && *quote.AskPrice > 0 {
		mid := (*quote.BidPrice + *quote.AskPrice) / 2
		return &mid
	}
	if trade != nil && trade.Price != nil {
		p := *trade.Price
		return &p
	}
	return nil
}

// daysToExpiry returns the calendar-day distance from asOf to the
// expiration date, or nil when the date is absent or unparsable.
func daysToExpiry(expiration string, asOf time.Time) *int {
	if expiration == "" {
		return nil
	}
	exp, err := time.ParseInLocation("2006-01-02", expiration, time.UTC)
	if err != nil {
		return nil
	}
	today := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	days := int(exp.Sub(today).Hours() / 24)
	return &days
}
