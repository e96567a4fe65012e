package ticks

import "time"

// TimeTickSet is the result of computing nice time-axis ticks. Values are Unix
// seconds (UTC) aligned to a human-meaningful boundary (minute, hour, day, month...).
type TimeTickSet struct {
	StepSeconds float64
	Values      []float64
}

// timeIntervals are the fixed candidate step sizes, in seconds, from 1 second
// through 1 year. Chosen to snap raw steps to intervals a human reads naturally.
var timeIntervals = []float64{
	1, 2, 5, 10, 15, 30,
	60, 120, 300, 600, 900, 1800,
	3600, 7200, 14400, 21600, 43200, 86400,
	172800, 604800,
	2592000, 7776000, 15552000, 31536000,
}

const (
	secondsPerDay   = 86400
	secondsPerMonth = 2592000
)

// NiceTimeTicks computes tick timestamps spanning [tMin, tMax] (Unix seconds,
// UTC), aiming for roughly targetCount ticks.
func NiceTimeTicks(tMin, tMax float64, targetCount int) TimeTickSet {
	if targetCount < 1 {
		targetCount = 1
	}
	if tMax <= tMin {
		return TimeTickSet{StepSeconds: 1, Values: []float64{tMin}}
	}

	rawStep := (tMax - tMin) / float64(targetCount)
	step := timeIntervals[len(timeIntervals)-1]
	for _, iv := range timeIntervals {
		if iv >= rawStep {
			step = iv
			break
		}
	}

	first := alignFirstTick(tMin, step)

	result := TimeTickSet{StepSeconds: step}
	maxIterations := targetCount * 3
	t := first
	for i := 0; i <= maxIterations && t <= tMax; i++ {
		if t >= tMin {
			result.Values = append(result.Values, t)
		}
		t = advanceTick(t, step)
	}
	return result
}

// alignFirstTick finds the last tick at or before tMin, snapped to a natural
// boundary for step: for sub-day steps, a modular boundary; for day+ steps, a
// calendar boundary (midnight, first-of-month, or Jan 1 for month+/year+ steps).
func alignFirstTick(tMin, step float64) float64 {
	if step < secondsPerDay {
		return float64(int64(tMin/step)) * step
	}

	tm := time.Unix(int64(tMin), 0).UTC()
	dayStart := time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC)

	if step < secondsPerMonth {
		aligned := dayStart
		for aligned.Unix() > int64(tMin) {
			aligned = aligned.AddDate(0, 0, -int(step/secondsPerDay))
		}
		for aligned.Unix()+int64(step) <= int64(tMin) {
			aligned = aligned.AddDate(0, 0, int(step/secondsPerDay))
		}
		return float64(aligned.Unix())
	}

	if step < 31536000 {
		months := int(step / secondsPerMonth)
		if months < 1 {
			months = 1
		}
		aligned := time.Date(tm.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		for aligned.AddDate(0, months, 0).Unix() <= int64(tMin) {
			aligned = aligned.AddDate(0, months, 0)
		}
		return float64(aligned.Unix())
	}

	years := int(step / 31536000)
	if years < 1 {
		years = 1
	}
	aligned := time.Date(tm.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	for aligned.Unix() > int64(tMin) {
		aligned = aligned.AddDate(-years, 0, 0)
	}
	return float64(aligned.Unix())
}

// advanceTick steps forward from t by step seconds. Sub-month steps advance by
// uniform addition; month+/year+ steps advance by calendar month/year increments
// so ticks land on calendar boundaries regardless of month length.
func advanceTick(t, step float64) float64 {
	if step < secondsPerMonth {
		return t + step
	}
	tm := time.Unix(int64(t), 0).UTC()
	if step < 31536000 {
		months := int(step / secondsPerMonth)
		if months < 1 {
			months = 1
		}
		return float64(tm.AddDate(0, months, 0).Unix())
	}
	years := int(step / 31536000)
	if years < 1 {
		years = 1
	}
	return float64(tm.AddDate(years, 0, 0).Unix())
}
