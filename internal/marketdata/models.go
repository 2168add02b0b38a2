package marketdata

// aggsResponse is the provider's daily aggregates envelope.
// Bars carry millisecond epoch timestamps and single-letter OHLCV keys.
type aggsResponse struct {
	Ticker  string    `json:"ticker"`
	Results []aggsBar `json:"results"`
	Status  string    `json:"status"`
	Count   int       `json:"resultsCount"`
}

type aggsBar struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

// chainResponse is the provider's options chain snapshot envelope.
type chainResponse struct {
	Results []OptionSnapshot `json:"results"`
	Status  string           `json:"status"`
}

// OptionSnapshot is one raw contract record from the chain snapshot.
// Every nested object and numeric field can be missing, so all of them
// decode into pointers; downstream normalization treats nil as absent.
type OptionSnapshot struct {
	Details           *ContractDetails `json:"details"`
	Greeks            *Greeks          `json:"greeks"`
	LastQuote         *Quote           `json:"last_quote"`
	LastTrade         *Trade           `json:"last_trade"`
	ImpliedVolatility *float64         `json:"implied_volatility"`
	OpenInterest      *float64         `json:"open_interest"`
	UnderlyingAsset   *UnderlyingAsset `json:"underlying_asset"`
}

type ContractDetails struct {
	Ticker         string   `json:"ticker"`
	ContractType   string   `json:"contract_type"`
	ExpirationDate string   `json:"expiration_date"`
	StrikePrice    *float64 `json:"strike_price"`
}

type Greeks struct {
	Delta *float64 `json:"delta"`
	Gamma *float64 `json:"gamma"`
	Theta *float64 `json:"theta"`
	Vega  *float64 `json:"vega"`
}

type Quote struct {
	BidPrice *float64 `json:"bid_price"`
	AskPrice *float64 `json:"ask_price"`
}

type Trade struct {
	Price *float64 `json:"price"`
}

type UnderlyingAsset struct {
	Ticker    string            `json:"ticker"`
	Session   *UnderlyingPrices `json:"session"`
	LastTrade *Trade            `json:"last_trade"`
}

type UnderlyingPrices struct {
	ClosePrice *float64 `json:"close_price"`
}

// UnderlyingPrice scans a chain for the first contract that carries a usable
// underlying price: the session close when present, otherwise the last
// trade. Returns nil when no contract has one.
func UnderlyingPrice(chain []OptionSnapshot) *float64 {
	for _, c := range chain {
		ua := c.UnderlyingAsset
		if ua == nil {
			continue
		}
		if ua.Session != nil && ua.Session.ClosePrice != nil {
			return ua.Session.ClosePrice
		}
		if ua.LastTrade != nil && ua.LastTrade.Price != nil {
			return ua.LastTrade.Price
		}
	}
	return nil
}
