package recipe

import "github.com/dynacharting/core/internal/dcerr"

// VolumeConfig configures a volume histogram, encoded as Candle6 records so the
// instanced candle pipeline's up/down coloring applies to volume bars for free.
//
// ID layout (4 slots): 0 buffer, 1 geometry, 2 drawItem, 3 transform.
// Grounded on original_source's VolumeRecipe.hpp/.cpp.
type VolumeConfig struct {
	LayerId         dcerr.Id
	Name            string
	CreateTransform bool
	ColorUp         [4]float32
	ColorDown       [4]float32
}

// DefaultVolumeConfig matches the original's defaults.
func DefaultVolumeConfig(layerId dcerr.Id) VolumeConfig {
	return VolumeConfig{
		LayerId: layerId, Name: "Volume", CreateTransform: true,
		ColorUp:   [4]float32{0, 0.5, 0, 0.6},
		ColorDown: [4]float32{0.5, 0, 0, 0.6},
	}
}

// VolumeRecipe renders a volume histogram. No data subscription: volume bars
// are derived from candle + volume data by a session compute callback, not
// fed directly by ingest.
type VolumeRecipe struct {
	Base
	config VolumeConfig
}

// NewVolumeRecipe constructs a VolumeRecipe reserving 4 ID slots from idBase.
func NewVolumeRecipe(idBase dcerr.Id, config VolumeConfig) *VolumeRecipe {
	return &VolumeRecipe{Base: NewBase(idBase), config: config}
}

func (r *VolumeRecipe) BufferId() dcerr.Id    { return r.rid(0) }
func (r *VolumeRecipe) GeometryId() dcerr.Id  { return r.rid(1) }
func (r *VolumeRecipe) DrawItemId() dcerr.Id  { return r.rid(2) }
func (r *VolumeRecipe) TransformId() dcerr.Id { return r.rid(3) }

// VolumeIdSlots is the fixed number of IDs a VolumeRecipe reserves.
const VolumeIdSlots = 4

func (r *VolumeRecipe) Build() BuildResult {
	var result BuildResult

	result.CreateCommands = append(result.CreateCommands,
		createBufferCmd(r.BufferId()),
		createGeometryCmd(r.GeometryId(), r.BufferId(), "Candle6", 1),
		createDrawItemCmd(r.DrawItemId(), r.config.LayerId, r.config.Name),
		bindDrawItemCmd(r.DrawItemId(), "instancedCandle@1", r.GeometryId()),
		setDrawItemStyleCmd(r.DrawItemId(), map[string]any{
			"colorUpR": r.config.ColorUp[0], "colorUpG": r.config.ColorUp[1],
			"colorUpB": r.config.ColorUp[2], "colorUpA": r.config.ColorUp[3],
			"colorDownR": r.config.ColorDown[0], "colorDownG": r.config.ColorDown[1],
			"colorDownB": r.config.ColorDown[2], "colorDownA": r.config.ColorDown[3],
		}),
	)

	if r.config.CreateTransform {
		result.CreateCommands = append(result.CreateCommands,
			createTransformCmd(r.TransformId()),
			attachTransformCmd(r.DrawItemId(), r.TransformId()),
		)
	}

	if r.config.CreateTransform {
		result.DisposeCommands = append(result.DisposeCommands, deleteCmd(r.TransformId()))
	}
	result.DisposeCommands = append(result.DisposeCommands,
		deleteCmd(r.DrawItemId()), deleteCmd(r.GeometryId()), deleteCmd(r.BufferId()))

	return result
}

func (r *VolumeRecipe) DrawItemIds() []dcerr.Id { return []dcerr.Id{r.DrawItemId()} }

func (r *VolumeRecipe) SeriesInfoList() []SeriesInfo {
	name := r.config.Name
	if name == "" {
		name = "Volume"
	}
	return []SeriesInfo{{Name: name, ColorHint: r.config.ColorUp, DefaultVisible: true, DrawItemIds: r.DrawItemIds()}}
}

var _ Recipe = (*VolumeRecipe)(nil)

// VolumeBars is the Candle6-encoded output of ComputeVolumeBars.
type VolumeBars struct {
	Candle6   []float32
	BarCount  uint32
}

// ComputeVolumeBars encodes candle + volume data as Candle6 records so the
// instanced candle pipeline colors bars by direction: x = timestamp,
// open/close carry the bar height on the up/down side, low = 0, high = volume.
func (r *VolumeRecipe) ComputeVolumeBars(candleData, volumes []float32, count int, barHalfWidth float32) VolumeBars {
	var out VolumeBars
	if len(candleData) < count*6 || len(volumes) < count || count <= 0 {
		return out
	}

	out.Candle6 = make([]float32, count*6)
	out.BarCount = uint32(count)

	for i := 0; i < count; i++ {
		x := candleData[i*6+0]
		open := candleData[i*6+1]
		close_ := candleData[i*6+4]
		vol := volumes[i]
		isUp := close_ >= open

		base := i * 6
		out.Candle6[base+0] = x
		if isUp {
			out.Candle6[base+1] = 0
			out.Candle6[base+4] = vol
		} else {
			out.Candle6[base+1] = vol
			out.Candle6[base+4] = 0
		}
		out.Candle6[base+2] = vol
		out.Candle6[base+3] = 0
		out.Candle6[base+5] = barHalfWidth
	}

	return out
}
