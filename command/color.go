package command

import "github.com/cogentcore/webgpu/wgpu"

// rgba packs four float32 channels into a wgpu.Color, matching the teacher's own use
// of wgpu.Color as a plain value type (no GPU context required to construct one).
func rgba(r, g, b, a float32) wgpu.Color {
	return wgpu.Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}
}

func anyOf(fs ...*float32) bool {
	for _, f := range fs {
		if f != nil {
			return true
		}
	}
	return false
}

func deref(f *float32, fallback float32) float32 {
	if f == nil {
		return fallback
	}
	return *f
}
