package recipe

import (
	"github.com/dynacharting/core/drawing"
	"github.com/dynacharting/core/internal/dcerr"
)

// fibLevels are the standard retracement levels drawn between a fib
// drawing's two anchor prices.
var fibLevels = []float64{0, 0.236, 0.382, 0.5, 0.618, 1.0}

// DrawingOverlayConfig configures the user-drawing overlay.
//
// ID layout (3 slots): 0 buffer, 1 geometry, 2 drawItem.
// Grounded on original_source's DrawingRecipe.hpp/.cpp.
type DrawingOverlayConfig struct {
	LayerId          dcerr.Id
	Name             string
	DefaultColor     [4]float32
	DefaultLineWidth float32
}

// DefaultDrawingOverlayConfig matches the original's defaults.
func DefaultDrawingOverlayConfig(layerId dcerr.Id) DrawingOverlayConfig {
	return DrawingOverlayConfig{
		LayerId: layerId, Name: "drawings",
		DefaultColor: [4]float32{1, 1, 0, 1}, DefaultLineWidth: 2,
	}
}

// DrawingOverlayRecipe renders every annotation in a drawing.Store as
// lineAA@1 line segments.
type DrawingOverlayRecipe struct {
	Base
	config DrawingOverlayConfig
}

// NewDrawingOverlayRecipe constructs a DrawingOverlayRecipe reserving 3 ID slots from idBase.
func NewDrawingOverlayRecipe(idBase dcerr.Id, config DrawingOverlayConfig) *DrawingOverlayRecipe {
	return &DrawingOverlayRecipe{Base: NewBase(idBase), config: config}
}

func (r *DrawingOverlayRecipe) BufferId() dcerr.Id   { return r.rid(0) }
func (r *DrawingOverlayRecipe) GeometryId() dcerr.Id { return r.rid(1) }
func (r *DrawingOverlayRecipe) DrawItemId() dcerr.Id { return r.rid(2) }

// DrawingOverlayIdSlots is the fixed number of IDs a DrawingOverlayRecipe reserves.
const DrawingOverlayIdSlots = 3

func (r *DrawingOverlayRecipe) Build() BuildResult {
	var result BuildResult
	result.CreateCommands = append(result.CreateCommands,
		createBufferCmd(r.BufferId()),
		createGeometryCmd(r.GeometryId(), r.BufferId(), "Rect4", 1),
		createDrawItemCmd(r.DrawItemId(), r.config.LayerId, r.config.Name),
		bindDrawItemCmd(r.DrawItemId(), "lineAA@1", r.GeometryId()),
		setDrawItemStyleCmd(r.DrawItemId(), map[string]any{
			"r": r.config.DefaultColor[0], "g": r.config.DefaultColor[1],
			"b": r.config.DefaultColor[2], "a": r.config.DefaultColor[3],
			"lineWidth": r.config.DefaultLineWidth,
		}),
	)
	result.DisposeCommands = append(result.DisposeCommands,
		deleteCmd(r.DrawItemId()), deleteCmd(r.GeometryId()), deleteCmd(r.BufferId()))
	return result
}

func (r *DrawingOverlayRecipe) DrawItemIds() []dcerr.Id { return []dcerr.Id{r.DrawItemId()} }

func (r *DrawingOverlayRecipe) SeriesInfoList() []SeriesInfo { return nil }

var _ Recipe = (*DrawingOverlayRecipe)(nil)

// DrawingLines is the rect4-encoded line-segment geometry for every drawing.
type DrawingLines struct {
	LineSegments []float32
	SegmentCount uint32
}

// ComputeDrawings expands every stored drawing into line segments. Horizontal
// levels span the full visible X range; vertical lines span the full visible
// Y range; rectangles emit four border segments; fib retracements emit one
// horizontal segment per standard level between the drawing's two Y anchors.
func (r *DrawingOverlayRecipe) ComputeDrawings(store *drawing.Store, dataXMin, dataXMax, dataYMin, dataYMax float64) DrawingLines {
	var out DrawingLines
	emit := func(x0, y0, x1, y1 float64) {
		out.LineSegments = append(out.LineSegments, float32(x0), float32(y0), float32(x1), float32(y1))
		out.SegmentCount++
	}

	for _, d := range store.Drawings() {
		switch d.Type {
		case drawing.TypeTrendline:
			emit(d.X0, d.Y0, d.X1, d.Y1)
		case drawing.TypeHorizontalLevel:
			emit(dataXMin, d.Y0, dataXMax, d.Y0)
		case drawing.TypeVerticalLine:
			emit(d.X0, dataYMin, d.X0, dataYMax)
		case drawing.TypeRectangle:
			emit(d.X0, d.Y0, d.X1, d.Y0) // top
			emit(d.X0, d.Y1, d.X1, d.Y1) // bottom
			emit(d.X0, d.Y0, d.X0, d.Y1) // left
			emit(d.X1, d.Y0, d.X1, d.Y1) // right
		case drawing.TypeFibRetracement:
			yRange := d.Y1 - d.Y0
			for _, level := range fibLevels {
				y := d.Y0 + yRange*level
				emit(d.X0, y, d.X1, y)
			}
		}
	}

	return out
}
