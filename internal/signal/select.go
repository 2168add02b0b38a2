package signal

import "math"

// SelectBest picks the eligible contract whose delta is closest to
// targetDelta, breaking exact distance ties with the nearer expiration.
// ok is false when the slice is empty, which is a routine outcome.
func SelectBest(contracts []Contract, targetDelta float64) (Contract, bool) {
	if len(contracts) == 0 {
		return Contract{}, false
	}

	best := contracts[0]
	bestDist := deltaDistance(best, targetDelta)

	for _, c := range contracts[1:] {
		dist := deltaDistance(c, targetDelta)
		switch {
		case dist < bestDist:
			best, bestDist = c, dist
		case dist == bestDist && dteValue(c) < dteValue(best):
			best = c
		}
	}
	return best, true
}

func deltaDistance(c Contract, target float64) float64 {
	delta := 0.0
	if c.Delta != nil {
		delta = *c.Delta
	}
	return math.Abs(delta - target)
}

func dteValue(c Contract) int {
	if c.DTE == nil {
		return math.MaxInt
	}
	return *c.DTE
}
