package ticks

import "testing"

func TestComputeNiceTicksDegenerate(t *testing.T) {
	ts := ComputeNiceTicks(5, 5, 5)
	if len(ts.Values) != 1 || ts.Values[0] != 5 {
		t.Fatalf("values = %v, want [5]", ts.Values)
	}
}

func TestComputeNiceTicksSnapsStep(t *testing.T) {
	ts := ComputeNiceTicks(0, 97, 5)
	if ts.Step != 20 {
		t.Fatalf("step = %v, want 20", ts.Step)
	}
	if ts.Min != 0 || ts.Max != 100 {
		t.Fatalf("min/max = %v/%v, want 0/100", ts.Min, ts.Max)
	}
	want := []float32{0, 20, 40, 60, 80, 100}
	if len(ts.Values) != len(want) {
		t.Fatalf("values = %v, want %v", ts.Values, want)
	}
	for i, v := range want {
		if ts.Values[i] != v {
			t.Fatalf("values[%d] = %v, want %v", i, ts.Values[i], v)
		}
	}
}

func TestComputeNiceTicksSmallRange(t *testing.T) {
	ts := ComputeNiceTicks(0, 1, 4)
	if ts.Step <= 0 {
		t.Fatalf("step = %v, want positive", ts.Step)
	}
	if ts.Values[0] > 0 || ts.Values[len(ts.Values)-1] < 1 {
		t.Fatalf("values %v do not cover [0,1]", ts.Values)
	}
}
