// Package series provides ordered daily price history and the technical
// indicators computed over it.
package series

import (
	"fmt"
	"time"
)

// Bar is a single daily OHLCV price bar.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is a chronologically ordered sequence of daily bars. Dates are
// strictly increasing with no duplicates; the constructor enforces this.
type Series struct {
	bars []Bar
}

// New builds a Series from bars, rejecting out-of-order or duplicate dates.
func New(bars []Bar) (*Series, error) {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return nil, fmt.Errorf("bars out of order at index %d: %s followed by %s",
				i, bars[i-1].Date.Format("2006-01-02"), bars[i].Date.Format("2006-01-02"))
		}
	}
	return &Series{bars: bars}, nil
}

// Len returns the number of bars.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bars)
}

// Bars returns the underlying bars in chronological order.
func (s *Series) Bars() []Bar {
	if s == nil {
		return nil
	}
	return s.bars
}

// Closes returns the close prices in chronological order.
func (s *Series) Closes() []float64 {
	if s == nil {
		return nil
	}
	closes := make([]float64, len(s.bars))
	for i, b := range s.bars {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the most recent bar. ok is false for an empty series.
func (s *Series) Last() (Bar, bool) {
	if s == nil || len(s.bars) == 0 {
		return Bar{}, false
	}
	return s.bars[len(s.bars)-1], true
}

// Tail returns a new Series keeping at most n trailing bars.
func (s *Series) Tail(n int) *Series {
	if s == nil || n >= len(s.bars) {
		return s
	}
	if n < 0 {
		n = 0
	}
	return &Series{bars: s.bars[len(s.bars)-n:]}
}
