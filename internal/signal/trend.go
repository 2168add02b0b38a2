// Package signal turns price history and an options chain snapshot into a
// single ranked trade candidate per ticker. All functions here are pure:
// fetching inputs and delivering results belong to the callers.
package signal

import (
	"time"

	"github.com/trendwise/options-scanner/internal/series"
)

// Direction is the trend label assigned to a ticker.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Neutral Direction = "neutral"
	NoData  Direction = "no_data"
)

// TrendParams holds the indicator windows used for classification.
type TrendParams struct {
	MAShort   int
	MALong    int
	RSIPeriod int
}

// TrendResult carries the trend label and the indicator values it was
// derived from. When Label is NoData the numeric fields are zero and
// meaningless.
type TrendResult struct {
	Label       Direction `json:"label"`
	LatestClose float64   `json:"latest_close,omitempty"`
	SMAShort    float64   `json:"sma_short,omitempty"`
	SMALong     float64   `json:"sma_long,omitempty"`
	RSI         float64   `json:"rsi,omitempty"`
	AsOf        time.Time `json:"as_of,omitzero"`
}

// ClassifyTrend labels a price series:
//
//	bullish  iff smaShort > smaLong and 40 <= RSI <= 70
//	bearish  iff smaShort < smaLong and 30 <= RSI <= 60
//	neutral  otherwise
//
// A series too short for any of the three indicators yields NoData.
func ClassifyTrend(s *series.Series, p TrendParams) TrendResult {
	closes := s.Closes()

	smaShort, okShort := series.Latest(series.SMA(closes, p.MAShort))
	smaLong, okLong := series.Latest(series.SMA(closes, p.MALong))
	rsi, okRSI := series.Latest(series.RSI(closes, p.RSIPeriod))

	if !okShort || !okLong || !okRSI {
		return TrendResult{Label: NoData}
	}

	last, _ := s.Last()

	label := Neutral
	switch {
	case smaShort > smaLong && rsi >= 40 && rsi <= 70:
		label = Bullish
	case smaShort < smaLong && rsi >= 30 && rsi <= 60:
		label = Bearish
	}

	return TrendResult{
		Label:       label,
		LatestClose: last.Close,
		SMAShort:    smaShort,
		SMALong:     smaLong,
		RSI:         rsi,
		AsOf:        last.Date,
	}
}
