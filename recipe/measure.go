package recipe

import "github.com/dynacharting/core/internal/dcerr"

// MeasureConfig configures the measure-tool overlay: an L-shaped diagonal +
// horizontal + vertical line trio showing dx/dy between two data-space points.
//
// ID layout (3 slots): 0 buffer, 1 geometry, 2 drawItem.
// Grounded on original_source's MeasureRecipe.hpp/.cpp.
type MeasureConfig struct {
	LayerId   dcerr.Id
	Name      string
	LineColor [4]float32
	LineWidth float32
}

// DefaultMeasureConfig matches the original's defaults.
func DefaultMeasureConfig(layerId dcerr.Id) MeasureConfig {
	return MeasureConfig{LayerId: layerId, Name: "measure", LineColor: [4]float32{0.8, 0.8, 0.8, 0.8}, LineWidth: 1}
}

// MeasureRecipe renders the measure overlay.
type MeasureRecipe struct {
	Base
	config MeasureConfig
}

// NewMeasureRecipe constructs a MeasureRecipe reserving 3 ID slots from idBase.
func NewMeasureRecipe(idBase dcerr.Id, config MeasureConfig) *MeasureRecipe {
	return &MeasureRecipe{Base: NewBase(idBase), config: config}
}

func (r *MeasureRecipe) BufferId() dcerr.Id   { return r.rid(0) }
func (r *MeasureRecipe) GeometryId() dcerr.Id { return r.rid(1) }
func (r *MeasureRecipe) DrawItemId() dcerr.Id { return r.rid(2) }

// MeasureIdSlots is the fixed number of IDs a MeasureRecipe reserves.
const MeasureIdSlots = 3

func (r *MeasureRecipe) Build() BuildResult {
	var result BuildResult
	result.CreateCommands = append(result.CreateCommands,
		createBufferCmd(r.BufferId()),
		createGeometryCmd(r.GeometryId(), r.BufferId(), "Rect4", 1),
		createDrawItemCmd(r.DrawItemId(), r.config.LayerId, r.config.Name),
		bindDrawItemCmd(r.DrawItemId(), "lineAA@1", r.GeometryId()),
		setDrawItemStyleCmd(r.DrawItemId(), map[string]any{
			"r": r.config.LineColor[0], "g": r.config.LineColor[1],
			"b": r.config.LineColor[2], "a": r.config.LineColor[3],
			"lineWidth": r.config.LineWidth,
		}),
	)
	result.DisposeCommands = append(result.DisposeCommands,
		deleteCmd(r.DrawItemId()), deleteCmd(r.GeometryId()), deleteCmd(r.BufferId()))
	return result
}

func (r *MeasureRecipe) DrawItemIds() []dcerr.Id { return []dcerr.Id{r.DrawItemId()} }

func (r *MeasureRecipe) SeriesInfoList() []SeriesInfo { return nil }

var _ Recipe = (*MeasureRecipe)(nil)

// MeasureValues mirrors the interaction package's measure result, decoupled so
// recipe has no dependency on it.
type MeasureValues struct {
	X0, Y0, X1, Y1 float64
	Valid          bool
}

// MeasureLines is the rect4-encoded line-segment geometry for the overlay.
type MeasureLines struct {
	LineSegments []float32
	SegmentCount uint32
}

// ComputeMeasure emits three segments forming an L: the diagonal, then the
// horizontal and vertical legs showing dx and dy independently.
func (r *MeasureRecipe) ComputeMeasure(m MeasureValues) MeasureLines {
	var out MeasureLines
	if !m.Valid {
		return out
	}

	x0, y0 := float32(m.X0), float32(m.Y0)
	x1, y1 := float32(m.X1), float32(m.Y1)

	out.LineSegments = append(out.LineSegments,
		x0, y0, x1, y1, // diagonal
		x0, y0, x1, y0, // horizontal
		x1, y0, x1, y1, // vertical
	)
	out.SegmentCount = 3
	return out
}
