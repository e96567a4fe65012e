// Package viewport implements the Viewport: a bijection between data space, clip
// space, and pixel space, exposing transform params and input-space queries.
package viewport

import "github.com/dynacharting/core/scene"

// DataRange is the visible data-space rectangle.
type DataRange struct {
	XMin, XMax float64
	YMin, YMax float64
}

// PixelSize is the viewport's size in device pixels.
type PixelSize struct {
	W, H float64
}

// TransformParams is the {scale, translate} pair mapping data space onto the clip
// rectangle, matching scene.TransformParams in shape.
type TransformParams struct {
	Sx, Sy float32
	Tx, Ty float32
}

// Viewport is the triple {pixelViewport, clipRegion, dataRange} defining the
// mapping between data, clip, and pixel coordinate systems.
type Viewport interface {
	SetPixelViewport(w, h float64)
	SetClipRegion(r scene.Region)
	SetDataRange(r DataRange)

	PixelViewport() PixelSize
	ClipRegion() scene.Region
	DataRange() DataRange

	// DataToClip maps a data-space point to clip space.
	DataToClip(x, y float64) (cx, cy float64)
	// ClipToData maps a clip-space point to data space.
	ClipToData(cx, cy float64) (x, y float64)
	// PixelToData maps a pixel-space point (origin top-left) to data space.
	PixelToData(px, py float64) (x, y float64)
	// DataToPixel maps a data-space point to pixel space (origin top-left).
	DataToPixel(x, y float64) (px, py float64)

	// ContainsPixel reports whether (px, py) falls within the pixel viewport.
	ContainsPixel(px, py float64) bool

	// Pan shifts the visible data range by a pixel-space delta.
	Pan(dxPx, dyPx float64)

	// Zoom scales the visible data range by factor, anchored so that the data
	// point currently under (cursorPx, cursorPy) stays fixed on screen.
	Zoom(factor float64, cursorPx, cursorPy float64)

	// PixelsPerDataUnitX/Y report the current zoom signal along each axis.
	PixelsPerDataUnitX() float64
	PixelsPerDataUnitY() float64

	// ComputeTransformParams returns the affine {scale, translate} mapping the
	// current data range onto the current clip region.
	ComputeTransformParams() TransformParams
}

type viewport struct {
	pixels PixelSize
	clip   scene.Region
	data   DataRange
}

var _ Viewport = (*viewport)(nil)

// New creates a Viewport with the given initial pixel size, clip region, and data range.
func New(pixels PixelSize, clip scene.Region, data DataRange) Viewport {
	return &viewport{pixels: pixels, clip: clip, data: data}
}

func (v *viewport) SetPixelViewport(w, h float64) { v.pixels = PixelSize{W: w, H: h} }
func (v *viewport) SetClipRegion(r scene.Region)  { v.clip = r }
func (v *viewport) SetDataRange(r DataRange)      { v.data = r }

func (v *viewport) PixelViewport() PixelSize { return v.pixels }
func (v *viewport) ClipRegion() scene.Region { return v.clip }
func (v *viewport) DataRange() DataRange     { return v.data }

func (v *viewport) dataWidth() float64  { return v.data.XMax - v.data.XMin }
func (v *viewport) dataHeight() float64 { return v.data.YMax - v.data.YMin }
func (v *viewport) clipWidth() float64  { return float64(v.clip.ClipXMax - v.clip.ClipXMin) }
func (v *viewport) clipHeight() float64 { return float64(v.clip.ClipYMax - v.clip.ClipYMin) }

func (v *viewport) scaleX() float64 {
	dw := v.dataWidth()
	if dw == 0 {
		return 0
	}
	return v.clipWidth() / dw
}

func (v *viewport) scaleY() float64 {
	dh := v.dataHeight()
	if dh == 0 {
		return 0
	}
	return v.clipHeight() / dh
}

func (v *viewport) DataToClip(x, y float64) (float64, float64) {
	sx, sy := v.scaleX(), v.scaleY()
	cx := float64(v.clip.ClipXMin) + (x-v.data.XMin)*sx
	cy := float64(v.clip.ClipYMin) + (y-v.data.YMin)*sy
	return cx, cy
}

func (v *viewport) ClipToData(cx, cy float64) (float64, float64) {
	sx, sy := v.scaleX(), v.scaleY()
	var x, y float64
	if sx != 0 {
		x = v.data.XMin + (cx-float64(v.clip.ClipXMin))/sx
	}
	if sy != 0 {
		y = v.data.YMin + (cy-float64(v.clip.ClipYMin))/sy
	}
	return x, y
}

func (v *viewport) PixelToData(px, py float64) (float64, float64) {
	if v.pixels.W == 0 || v.pixels.H == 0 {
		return v.data.XMin, v.data.YMin
	}
	x := v.data.XMin + (px/v.pixels.W)*v.dataWidth()
	// Pixel space has its origin top-left while data Y commonly increases upward,
	// so the Y axis is flipped.
	y := v.data.YMax - (py/v.pixels.H)*v.dataHeight()
	return x, y
}

func (v *viewport) DataToPixel(x, y float64) (float64, float64) {
	dw, dh := v.dataWidth(), v.dataHeight()
	var px, py float64
	if dw != 0 {
		px = (x - v.data.XMin) / dw * v.pixels.W
	}
	if dh != 0 {
		py = v.pixels.H - (y-v.data.YMin)/dh*v.pixels.H
	}
	return px, py
}

func (v *viewport) ContainsPixel(px, py float64) bool {
	return px >= 0 && px <= v.pixels.W && py >= 0 && py <= v.pixels.H
}

func (v *viewport) Pan(dxPx, dyPx float64) {
	if v.pixels.W == 0 || v.pixels.H == 0 {
		return
	}
	dxData := dxPx / v.pixels.W * v.dataWidth()
	dyData := dyPx / v.pixels.H * v.dataHeight()
	// Positive pixel dx pans the view right, meaning the visible data range
	// shifts left (content moves right under a fixed cursor) -- subtract.
	v.data.XMin -= dxData
	v.data.XMax -= dxData
	// Pixel Y grows downward while data Y grows upward.
	v.data.YMin += dyData
	v.data.YMax += dyData
}

func (v *viewport) Zoom(factor float64, cursorPx, cursorPy float64) {
	if factor <= 0 {
		return
	}
	anchorX, anchorY := v.PixelToData(cursorPx, cursorPy)

	newWidth := v.dataWidth() / factor
	newHeight := v.dataHeight() / factor

	fracX := (anchorX - v.data.XMin) / v.dataWidth()
	fracY := (anchorY - v.data.YMin) / v.dataHeight()

	v.data.XMin = anchorX - fracX*newWidth
	v.data.XMax = v.data.XMin + newWidth
	v.data.YMin = anchorY - fracY*newHeight
	v.data.YMax = v.data.YMin + newHeight
}

func (v *viewport) PixelsPerDataUnitX() float64 {
	dw := v.dataWidth()
	if dw == 0 {
		return 0
	}
	return v.pixels.W / dw
}

func (v *viewport) PixelsPerDataUnitY() float64 {
	dh := v.dataHeight()
	if dh == 0 {
		return 0
	}
	return v.pixels.H / dh
}

func (v *viewport) ComputeTransformParams() TransformParams {
	sx, sy := v.scaleX(), v.scaleY()
	tx := float64(v.clip.ClipXMin) - v.data.XMin*sx
	ty := float64(v.clip.ClipYMin) - v.data.YMin*sy
	return TransformParams{Sx: float32(sx), Sy: float32(sy), Tx: float32(tx), Ty: float32(ty)}
}
