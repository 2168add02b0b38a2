package server

import (
	"sync"

	"github.com/trendwise/options-scanner/internal/scan"
	"github.com/trendwise/options-scanner/internal/signal"
)

// Store holds the most recent scan result for the HTTP API. Reads vastly
// outnumber writes; a single RWMutex is enough.
type Store struct {
	mu     sync.RWMutex
	latest *scan.BatchResult
}

func NewStore() *Store {
	return &Store{}
}

// Set replaces the stored snapshot.
func (s *Store) Set(result *scan.BatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = result
}

// Latest returns the stored snapshot, or nil if no scan has completed yet.
func (s *Store) Latest() *scan.BatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Signal looks up the latest signal for one ticker.
func (s *Store) Signal(ticker string) (signal.Signal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return signal.Signal{}, false
	}
	for _, sig := range s.latest.Signals {
		if sig.Ticker == ticker {
			return sig, true
		}
	}
	return signal.Signal{}, false
}
