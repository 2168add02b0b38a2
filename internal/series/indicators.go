package series

import "math"

// SMA computes the simple moving average of closes with the given window.
// The result is aligned with the input; entries before the window fills
// (index < window-1) are NaN. A window below 1 yields an all-NaN result.
func SMA(closes []float64, window int) []float64 {
	out := nanSlice(len(closes))
	if window < 1 || len(closes) < window {
		return out
	}

	var sum float64
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RSI computes the Wilder-style relative strength index over a trailing
// window of `period` price deltas. The result is aligned with the input;
// entries with fewer than `period` preceding deltas (index < period) are
// NaN.
//
// Conventions for degenerate windows: when the average loss is zero and the
// average gain is positive, RSI is 100; when both averages are zero (flat
// prices) RSI is 50, since a flat market carries no directional information.
func RSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period < 1 || len(closes) < period+1 {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			out[i] = 50
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// Latest returns the final entry of an indicator slice, with ok reporting
// whether that entry is defined (non-NaN).
func Latest(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	v := vals[len(vals)-1]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
