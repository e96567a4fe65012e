package ticks

import (
	"testing"
	"time"
)

func TestNiceTimeTicksDegenerate(t *testing.T) {
	ts := NiceTimeTicks(1000, 1000, 6)
	if len(ts.Values) != 1 || ts.Values[0] != 1000 {
		t.Fatalf("values = %v, want [1000]", ts.Values)
	}
}

func TestNiceTimeTicksSubDayAlignsToMinuteBoundary(t *testing.T) {
	// one hour window, expect a 10-minute interval aligned to a modular boundary
	ts := NiceTimeTicks(0, 3600, 6)
	if ts.StepSeconds <= 0 {
		t.Fatalf("step = %v, want positive", ts.StepSeconds)
	}
	for _, v := range ts.Values {
		if int64(v)%int64(ts.StepSeconds) != 0 {
			t.Fatalf("tick %v not aligned to step %v", v, ts.StepSeconds)
		}
	}
}

func TestNiceTimeTicksMultiMonthAlignsToMonthBoundary(t *testing.T) {
	// 2024-01-01 through 2024-07-01 UTC
	tMin := float64(1704067200)
	tMax := float64(1719792000)
	ts := NiceTimeTicks(tMin, tMax, 6)
	if len(ts.Values) == 0 {
		t.Fatalf("expected at least one tick")
	}
	for _, v := range ts.Values {
		tm := time.Unix(int64(v), 0).UTC()
		if tm.Day() != 1 || tm.Hour() != 0 || tm.Minute() != 0 || tm.Second() != 0 {
			t.Fatalf("tick %v not aligned to a month boundary: %v", v, tm)
		}
	}
}
