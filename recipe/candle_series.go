package recipe

import "github.com/dynacharting/core/internal/dcerr"

// CandleSeriesConfig configures a plain OHLC candle series.
//
// ID layout (4 slots): 0 buffer, 1 geometry, 2 drawItem, 3 transform.
type CandleSeriesConfig struct {
	LayerId        dcerr.Id
	Name           string
	CreateTransform bool
	ColorUp        [4]float32
	ColorDown      [4]float32
}

// DefaultCandleSeriesConfig matches the up/down greens and reds used elsewhere
// in the pack's candle rendering.
func DefaultCandleSeriesConfig(layerId dcerr.Id, name string) CandleSeriesConfig {
	return CandleSeriesConfig{
		LayerId: layerId, Name: name, CreateTransform: true,
		ColorUp:   [4]float32{0, 0.8, 0.2, 1},
		ColorDown: [4]float32{0.8, 0.1, 0.1, 1},
	}
}

// CandleSeriesRecipe is the core live-data series: one instanced candle
// draw item subscribed to a raw Candle6 buffer. Grounded on VolumeRecipe's
// structure (same ID layout and pipeline family) with the data subscription
// VolumeRecipe itself omits, since a candle series is fed directly by ingest
// rather than derived by a compute callback.
type CandleSeriesRecipe struct {
	Base
	config CandleSeriesConfig
}

// NewCandleSeriesRecipe constructs a CandleSeriesRecipe reserving 4 ID slots from idBase.
func NewCandleSeriesRecipe(idBase dcerr.Id, config CandleSeriesConfig) *CandleSeriesRecipe {
	return &CandleSeriesRecipe{Base: NewBase(idBase), config: config}
}

func (r *CandleSeriesRecipe) BufferId() dcerr.Id    { return r.rid(0) }
func (r *CandleSeriesRecipe) GeometryId() dcerr.Id  { return r.rid(1) }
func (r *CandleSeriesRecipe) DrawItemId() dcerr.Id  { return r.rid(2) }
func (r *CandleSeriesRecipe) TransformId() dcerr.Id { return r.rid(3) }

// CandleSeriesIdSlots is the fixed number of IDs a CandleSeriesRecipe reserves.
const CandleSeriesIdSlots = 4

func (r *CandleSeriesRecipe) Build() BuildResult {
	var result BuildResult

	result.CreateCommands = append(result.CreateCommands,
		createBufferCmd(r.BufferId()),
		createGeometryCmd(r.GeometryId(), r.BufferId(), "Candle6", 0),
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

	result.Subscriptions = append(result.Subscriptions, Subscription{
		BufferId: r.BufferId(), GeometryId: r.GeometryId(), Format: dcerr.FormatCandle6,
	})

	if r.config.CreateTransform {
		result.DisposeCommands = append(result.DisposeCommands, deleteCmd(r.TransformId()))
	}
	result.DisposeCommands = append(result.DisposeCommands,
		deleteCmd(r.DrawItemId()), deleteCmd(r.GeometryId()), deleteCmd(r.BufferId()))

	return result
}

func (r *CandleSeriesRecipe) DrawItemIds() []dcerr.Id { return []dcerr.Id{r.DrawItemId()} }

func (r *CandleSeriesRecipe) SeriesInfoList() []SeriesInfo {
	name := r.config.Name
	if name == "" {
		name = "Price"
	}
	return []SeriesInfo{{
		Name: name, ColorHint: r.config.ColorUp, DefaultVisible: true,
		DrawItemIds: r.DrawItemIds(),
	}}
}

var _ Recipe = (*CandleSeriesRecipe)(nil)
