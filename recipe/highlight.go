package recipe

import (
	"encoding/binary"
	"math"

	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/scene"
)

// HighlightConfig configures selection-highlight markers.
//
// ID layout (3 slots): 0 buffer, 1 geometry, 2 drawItem.
// Grounded on original_source's HighlightRecipe.hpp/.cpp.
type HighlightConfig struct {
	LayerId    dcerr.Id
	Name       string
	MarkerSize float32
}

// DefaultHighlightConfig matches the original's defaults.
func DefaultHighlightConfig(layerId dcerr.Id) HighlightConfig {
	return HighlightConfig{LayerId: layerId, Name: "highlight", MarkerSize: 0.02}
}

// SelectedKey identifies one highlighted record, decoupled from the
// interaction package's SelectionState so recipe has no dependency on it;
// callers extract keys from a SelectionState and pass them in directly.
type SelectedKey struct {
	DrawItemId  dcerr.Id
	RecordIndex uint32
}

// HighlightRecipe renders a small marker rect over each selected record.
type HighlightRecipe struct {
	Base
	config HighlightConfig
}

// NewHighlightRecipe constructs a HighlightRecipe reserving 3 ID slots from idBase.
func NewHighlightRecipe(idBase dcerr.Id, config HighlightConfig) *HighlightRecipe {
	return &HighlightRecipe{Base: NewBase(idBase), config: config}
}

func (r *HighlightRecipe) BufferId() dcerr.Id   { return r.rid(0) }
func (r *HighlightRecipe) GeometryId() dcerr.Id { return r.rid(1) }
func (r *HighlightRecipe) DrawItemId() dcerr.Id { return r.rid(2) }

// HighlightIdSlots is the fixed number of IDs a HighlightRecipe reserves.
const HighlightIdSlots = 3

func (r *HighlightRecipe) Build() BuildResult {
	var result BuildResult
	result.CreateCommands = append(result.CreateCommands,
		createBufferCmd(r.BufferId()),
		createGeometryCmd(r.GeometryId(), r.BufferId(), "Rect4", 1),
		createDrawItemCmd(r.DrawItemId(), r.config.LayerId, r.config.Name),
		bindDrawItemCmd(r.DrawItemId(), "instancedRect@1", r.GeometryId()),
		setDrawItemColorCmd(r.DrawItemId(), 1, 1, 0, 0.7),
	)
	result.DisposeCommands = append(result.DisposeCommands,
		deleteCmd(r.DrawItemId()), deleteCmd(r.GeometryId()), deleteCmd(r.BufferId()))
	return result
}

func (r *HighlightRecipe) DrawItemIds() []dcerr.Id { return []dcerr.Id{r.DrawItemId()} }

func (r *HighlightRecipe) SeriesInfoList() []SeriesInfo { return nil }

var _ Recipe = (*HighlightRecipe)(nil)

// HighlightRects is the rect4 geometry for every selected record's marker.
type HighlightRects struct {
	Rects         []float32
	InstanceCount uint32
}

// ComputeHighlights reads the source record for each key out of sc/ing and
// emits a centred marker rect sized by MarkerSize. Keys whose draw item,
// geometry, or record are no longer live are silently skipped.
func (r *HighlightRecipe) ComputeHighlights(keys []SelectedKey, sc scene.Scene, ing ingest.Processor) HighlightRects {
	var out HighlightRects
	sz := r.config.MarkerSize

	for _, key := range keys {
		di, ok := sc.GetDrawItem(key.DrawItemId)
		if !ok || di.GeometryId == 0 {
			continue
		}
		geo, ok := sc.GetGeometry(di.GeometryId)
		if !ok {
			continue
		}
		buf := ing.Bytes(geo.VertexBufferId)
		stride := dcerr.StrideOf(geo.Format)
		if len(buf) == 0 || stride == 0 {
			continue
		}
		recordCount := uint32(len(buf) / stride)
		if key.RecordIndex >= recordCount {
			continue
		}

		rec := buf[int(key.RecordIndex)*stride:]
		var x, y float32
		switch geo.Format {
		case dcerr.FormatPos2Clip:
			x = readF32(rec, 0)
			y = readF32(rec, 1)
		case dcerr.FormatCandle6:
			x = readF32(rec, 0)
			y = (readF32(rec, 1) + readF32(rec, 4)) * 0.5
		case dcerr.FormatRect4:
			x = (readF32(rec, 0) + readF32(rec, 2)) * 0.5
			y = (readF32(rec, 1) + readF32(rec, 3)) * 0.5
		default:
			continue
		}

		out.Rects = append(out.Rects, x-sz, y-sz, x+sz, y+sz)
		out.InstanceCount++
	}

	return out
}

func readF32(b []byte, floatIndex int) float32 {
	off := floatIndex * 4
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}
