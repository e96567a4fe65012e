// Package ticks implements axis tick generation: "nice" linear ticks snapped to
// {1, 2, 2.5, 5, 10} × 10^n, and calendar-aware time ticks snapped to human-meaningful
// intervals. Grounded on original_source's NiceTicks/NiceTimeTicks, a spec.md §3.1
// supplement not named by spec.md's own component table.
package ticks

import "math"

// TickSet is the result of computing nice linear ticks for a value-space axis range.
type TickSet struct {
	Min, Max, Step float32
	Values         []float32
}

// ComputeNiceTicks computes tick values for [lo, hi], snapping the raw step
// (range/targetCount) up to the smallest of {1, 2, 2.5, 5, 10} × 10^n that is at
// least the raw step.
func ComputeNiceTicks(lo, hi float32, targetCount int) TickSet {
	if targetCount < 1 {
		targetCount = 1
	}
	if hi <= lo {
		return TickSet{Min: lo, Max: hi, Step: 1, Values: []float32{lo}}
	}

	rangeVal := hi - lo
	rawStep := rangeVal / float32(targetCount)

	mag := float32(math.Pow(10, math.Floor(math.Log10(float64(rawStep)))))
	residual := rawStep / mag

	var niceStep float32
	switch {
	case residual <= 1:
		niceStep = 1 * mag
	case residual <= 2:
		niceStep = 2 * mag
	case residual <= 2.5:
		niceStep = 2.5 * mag
	case residual <= 5:
		niceStep = 5 * mag
	default:
		niceStep = 10 * mag
	}

	result := TickSet{Step: niceStep}
	result.Min = float32(math.Floor(float64(lo/niceStep))) * niceStep
	result.Max = float32(math.Ceil(float64(hi/niceStep))) * niceStep

	for v := result.Min; v <= result.Max+niceStep*0.01; v += niceStep {
		result.Values = append(result.Values, v)
	}
	return result
}
