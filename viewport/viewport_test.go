package viewport

import (
	"math"
	"testing"

	"github.com/dynacharting/core/scene"
)

func approxEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func newTestViewport() Viewport {
	return New(
		PixelSize{W: 800, H: 600},
		scene.Region{ClipXMin: -1, ClipXMax: 1, ClipYMin: -1, ClipYMax: 1},
		DataRange{XMin: 0, XMax: 100, YMin: 0, YMax: 50},
	)
}

func TestComputeTransformParams(t *testing.T) {
	v := newTestViewport()
	p := v.ComputeTransformParams()

	if !approxEqual(float64(p.Sx), 2.0/100.0, 1e-6) {
		t.Fatalf("Sx = %v, want %v", p.Sx, 2.0/100.0)
	}
	if !approxEqual(float64(p.Sy), 2.0/50.0, 1e-6) {
		t.Fatalf("Sy = %v, want %v", p.Sy, 2.0/50.0)
	}
}

func TestDataClipRoundTrip(t *testing.T) {
	v := newTestViewport()
	cx, cy := v.DataToClip(50, 25)
	x, y := v.ClipToData(cx, cy)
	if !approxEqual(x, 50, 1e-9) || !approxEqual(y, 25, 1e-9) {
		t.Fatalf("round trip = (%v, %v), want (50, 25)", x, y)
	}
}

func TestPixelDataRoundTrip(t *testing.T) {
	v := newTestViewport()
	x, y := v.PixelToData(400, 300)
	px, py := v.DataToPixel(x, y)
	if !approxEqual(px, 400, 1e-6) || !approxEqual(py, 300, 1e-6) {
		t.Fatalf("round trip = (%v, %v), want (400, 300)", px, py)
	}
}

func TestZoomAnchorsCursor(t *testing.T) {
	v := newTestViewport()
	beforeX, beforeY := v.PixelToData(200, 200)

	v.Zoom(2, 200, 200)

	afterX, afterY := v.PixelToData(200, 200)
	if !approxEqual(beforeX, afterX, 1e-6) || !approxEqual(beforeY, afterY, 1e-6) {
		t.Fatalf("zoom did not anchor cursor: before=(%v,%v) after=(%v,%v)", beforeX, beforeY, afterX, afterY)
	}

	dr := v.DataRange()
	if !approxEqual(dr.XMax-dr.XMin, 50, 1e-6) {
		t.Fatalf("data width after 2x zoom = %v, want 50", dr.XMax-dr.XMin)
	}
}

func TestPixelsPerDataUnit(t *testing.T) {
	v := newTestViewport()
	if !approxEqual(v.PixelsPerDataUnitX(), 8, 1e-6) {
		t.Fatalf("ppduX = %v, want 8", v.PixelsPerDataUnitX())
	}
}

func TestContainsPixel(t *testing.T) {
	v := newTestViewport()
	if !v.ContainsPixel(0, 0) {
		t.Fatalf("origin should be contained")
	}
	if v.ContainsPixel(-1, 0) {
		t.Fatalf("negative x should not be contained")
	}
	if v.ContainsPixel(801, 0) {
		t.Fatalf("x beyond width should not be contained")
	}
}
