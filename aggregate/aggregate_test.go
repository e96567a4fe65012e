package aggregate

import (
	"encoding/binary"
	"math"
	"testing"
)

func buildCandles(n int) []byte {
	buf := make([]byte, n*24)
	for i := 0; i < n; i++ {
		off := i * 24
		put := func(field int, v float32) {
			binary.LittleEndian.PutUint32(buf[off+field*4:off+field*4+4], math.Float32bits(v))
		}
		put(0, float32(i))            // x
		put(1, float32(100+i))        // open
		put(2, float32(105+i))        // high
		put(3, float32(95+i))         // low
		put(4, float32(102+i))        // close
		put(5, 0.4)                   // halfWidth
	}
	return buf
}

func readField(b []byte, rec, field int) float32 {
	off := rec*24 + field*4
	bits := binary.LittleEndian.Uint32(b[off : off+4])
	return math.Float32frombits(bits)
}

func TestAggregateBoundaryEmpty(t *testing.T) {
	raw := buildCandles(5)

	if r := Aggregate(raw, len(raw), 1); r.CandleCount != 0 {
		t.Fatalf("factor<2 should be empty, got %d", r.CandleCount)
	}
	if r := Aggregate(raw, len(raw), 10); r.CandleCount != 0 {
		t.Fatalf("rawCount<factor should be empty, got %d", r.CandleCount)
	}
}

func TestAggregateSpecScenario(t *testing.T) {
	raw := buildCandles(12)
	r := Aggregate(raw, len(raw), 3)

	if r.CandleCount != 4 {
		t.Fatalf("CandleCount = %d, want 4", r.CandleCount)
	}

	// group 0: x=0, open=100, high=107, low=95, close=104, halfWidth=1.2
	if x := readField(r.Bytes, 0, 0); x != 0 {
		t.Errorf("group0 x = %v, want 0", x)
	}
	if open := readField(r.Bytes, 0, 1); open != 100 {
		t.Errorf("group0 open = %v, want 100", open)
	}
	if high := readField(r.Bytes, 0, 2); high != 107 {
		t.Errorf("group0 high = %v, want 107", high)
	}
	if low := readField(r.Bytes, 0, 3); low != 95 {
		t.Errorf("group0 low = %v, want 95", low)
	}
	if close := readField(r.Bytes, 0, 4); close != 104 {
		t.Errorf("group0 close = %v, want 104", close)
	}
	if hw := readField(r.Bytes, 0, 5); hw != 1.2 {
		t.Errorf("group0 halfWidth = %v, want 1.2", hw)
	}

	// group 3: x=9, open=109, high=116, low=104, close=113, halfWidth=1.2
	if x := readField(r.Bytes, 3, 0); x != 9 {
		t.Errorf("group3 x = %v, want 9", x)
	}
	if open := readField(r.Bytes, 3, 1); open != 109 {
		t.Errorf("group3 open = %v, want 109", open)
	}
	if high := readField(r.Bytes, 3, 2); high != 116 {
		t.Errorf("group3 high = %v, want 116", high)
	}
	if low := readField(r.Bytes, 3, 3); low != 104 {
		t.Errorf("group3 low = %v, want 104", low)
	}
	if close := readField(r.Bytes, 3, 4); close != 113 {
		t.Errorf("group3 close = %v, want 113", close)
	}
}

func TestAggregateRaggedTail(t *testing.T) {
	const factor = 4
	raw := buildCandles(10) // 10 = 2*4 + 2, ragged tail of 2
	r := Aggregate(raw, len(raw), factor)

	if r.CandleCount != 3 {
		t.Fatalf("CandleCount = %d, want 3", r.CandleCount)
	}
	tailHalfWidth := readField(r.Bytes, 2, 5)
	if tailHalfWidth != float32(0.4*2) {
		t.Fatalf("tail halfWidth = %v, want %v", tailHalfWidth, 0.4*2)
	}
}
