package recipe

import "github.com/dynacharting/core/internal/dcerr"

// ScrollIndicatorConfig configures a thin horizontal bar showing viewport
// position within the full data range.
//
// ID layout (6 slots): 0-2 track (buffer, geometry, drawItem), 3-5 thumb.
// Grounded on original_source's ScrollIndicatorRecipe.hpp/.cpp.
type ScrollIndicatorConfig struct {
	LayerId     dcerr.Id
	Name        string
	BarHeight   float32
	BarY        float32
	BarXMin     float32
	BarXMax     float32
	TrackColor  [4]float32
	ThumbColor  [4]float32
}

// DefaultScrollIndicatorConfig matches the original's defaults.
func DefaultScrollIndicatorConfig(layerId dcerr.Id) ScrollIndicatorConfig {
	return ScrollIndicatorConfig{
		LayerId: layerId, Name: "scroll",
		BarHeight: 0.02, BarY: -0.98, BarXMin: -0.95, BarXMax: 0.95,
		TrackColor: [4]float32{0.2, 0.2, 0.2, 0.5},
		ThumbColor: [4]float32{0.6, 0.6, 0.6, 0.8},
	}
}

// ScrollIndicatorRecipe renders a track + thumb pair.
type ScrollIndicatorRecipe struct {
	Base
	config ScrollIndicatorConfig
}

// NewScrollIndicatorRecipe constructs a ScrollIndicatorRecipe reserving 6 ID slots from idBase.
func NewScrollIndicatorRecipe(idBase dcerr.Id, config ScrollIndicatorConfig) *ScrollIndicatorRecipe {
	return &ScrollIndicatorRecipe{Base: NewBase(idBase), config: config}
}

func (r *ScrollIndicatorRecipe) TrackBufferId() dcerr.Id   { return r.rid(0) }
func (r *ScrollIndicatorRecipe) TrackGeometryId() dcerr.Id { return r.rid(1) }
func (r *ScrollIndicatorRecipe) TrackDrawItemId() dcerr.Id { return r.rid(2) }
func (r *ScrollIndicatorRecipe) ThumbBufferId() dcerr.Id   { return r.rid(3) }
func (r *ScrollIndicatorRecipe) ThumbGeometryId() dcerr.Id { return r.rid(4) }
func (r *ScrollIndicatorRecipe) ThumbDrawItemId() dcerr.Id { return r.rid(5) }

// ScrollIndicatorIdSlots is the fixed number of IDs a ScrollIndicatorRecipe reserves.
const ScrollIndicatorIdSlots = 6

func (r *ScrollIndicatorRecipe) Build() BuildResult {
	var result BuildResult

	result.CreateCommands = append(result.CreateCommands,
		createBufferCmd(r.TrackBufferId()),
		createGeometryCmd(r.TrackGeometryId(), r.TrackBufferId(), "Rect4", 1),
		createDrawItemCmd(r.TrackDrawItemId(), r.config.LayerId, r.config.Name+"_track"),
		bindDrawItemCmd(r.TrackDrawItemId(), "instancedRect@1", r.TrackGeometryId()),
		setDrawItemColorCmd(r.TrackDrawItemId(), r.config.TrackColor[0], r.config.TrackColor[1], r.config.TrackColor[2], r.config.TrackColor[3]),

		createBufferCmd(r.ThumbBufferId()),
		createGeometryCmd(r.ThumbGeometryId(), r.ThumbBufferId(), "Rect4", 1),
		createDrawItemCmd(r.ThumbDrawItemId(), r.config.LayerId, r.config.Name+"_thumb"),
		bindDrawItemCmd(r.ThumbDrawItemId(), "instancedRect@1", r.ThumbGeometryId()),
		setDrawItemColorCmd(r.ThumbDrawItemId(), r.config.ThumbColor[0], r.config.ThumbColor[1], r.config.ThumbColor[2], r.config.ThumbColor[3]),
	)

	result.DisposeCommands = append(result.DisposeCommands,
		deleteCmd(r.ThumbDrawItemId()), deleteCmd(r.ThumbGeometryId()), deleteCmd(r.ThumbBufferId()),
		deleteCmd(r.TrackDrawItemId()), deleteCmd(r.TrackGeometryId()), deleteCmd(r.TrackBufferId()),
	)

	return result
}

func (r *ScrollIndicatorRecipe) DrawItemIds() []dcerr.Id {
	return []dcerr.Id{r.TrackDrawItemId(), r.ThumbDrawItemId()}
}

func (r *ScrollIndicatorRecipe) SeriesInfoList() []SeriesInfo { return nil }

var _ Recipe = (*ScrollIndicatorRecipe)(nil)

// IndicatorRects is the rect4 geometry for the track and thumb bars.
type IndicatorRects struct {
	TrackRect [4]float32
	ThumbRect [4]float32
}

// ComputeIndicator positions the track across the full bar and the thumb
// proportional to the visible range within the full data range, clamped to a
// minimum visible width.
func (r *ScrollIndicatorRecipe) ComputeIndicator(fullXMin, fullXMax, viewXMin, viewXMax float64) IndicatorRects {
	var out IndicatorRects

	barW := r.config.BarXMax - r.config.BarXMin
	y0 := r.config.BarY
	y1 := r.config.BarY + r.config.BarHeight

	out.TrackRect = [4]float32{r.config.BarXMin, y0, r.config.BarXMax, y1}

	fullRange := fullXMax - fullXMin
	if fullRange <= 0 {
		fullRange = 1
	}

	thumbStart := (viewXMin - fullXMin) / fullRange
	if thumbStart < 0 {
		thumbStart = 0
	}
	thumbEnd := (viewXMax - fullXMin) / fullRange
	if thumbEnd > 1 {
		thumbEnd = 1
	}

	if thumbEnd-thumbStart < 0.02 {
		mid := (thumbStart + thumbEnd) * 0.5
		thumbStart = mid - 0.01
		thumbEnd = mid + 0.01
	}

	out.ThumbRect = [4]float32{
		r.config.BarXMin + float32(thumbStart)*barW, y0,
		r.config.BarXMin + float32(thumbEnd)*barW, y1,
	}
	return out
}
