package main

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/recipe"
)

func paneCmd(id dcerr.Id, name string) []byte {
	b, _ := json.Marshal(map[string]any{"cmd": "createPane", "id": uint64(id), "name": name})
	return b
}

func layerCmd(id, paneId dcerr.Id, name string) []byte {
	b, _ := json.Marshal(map[string]any{"cmd": "createLayer", "id": uint64(id), "paneId": uint64(paneId), "name": name})
	return b
}

func setGeometryVertexCountCmd(geometryId dcerr.Id, vertexCount int) []byte {
	b, _ := json.Marshal(map[string]any{"cmd": "setGeometryVertexCount", "geometryId": uint64(geometryId), "vertexCount": vertexCount})
	return b
}

// recipeCandle builds the price pane's live candle series, subscribed directly
// to ingest like the original's CandleRecipe.
func recipeCandle(layerId dcerr.Id) *recipe.CandleSeriesRecipe {
	return recipe.NewCandleSeriesRecipe(100, recipe.DefaultCandleSeriesConfig(layerId, "BTC-USD"))
}

// recipeVolume builds the volume pane's histogram, fed by a compute callback
// rather than ingest directly (see newVolumeComputeCallback).
func recipeVolume(layerId dcerr.Id) *recipe.VolumeRecipe {
	return recipe.NewVolumeRecipe(200, recipe.DefaultVolumeConfig(layerId))
}

// newVolumeComputeCallback derives a volume histogram from the candle series'
// own high-low spread, since the fake data source emits price candles only,
// with no independent trade-volume stream to read. Each bar's synthetic volume
// is proportional to that candle's (high-low) range — a stand-in the original's
// live_server.cpp doesn't need because it generates its own volumes array
// up front, but this demo derives one to still exercise VolumeRecipe's
// ComputeVolumeBars against live, ticking candle data.
func newVolumeComputeCallback(ing ingest.Processor, cp command.Processor, candleBufferId dcerr.Id, volume *recipe.VolumeRecipe) func([]dcerr.Id) []dcerr.Id {
	return func(_ []dcerr.Id) []dcerr.Id {
		raw := ing.Bytes(candleBufferId)
		count := len(raw) / dcerr.CandleRecordBytes
		if count == 0 {
			return nil
		}

		candles := make([]float32, count*6)
		volumes := make([]float32, count)
		for i := 0; i < count; i++ {
			off := i * dcerr.CandleRecordBytes
			for f := 0; f < 6; f++ {
				candles[i*6+f] = readF32(raw, off+f*4)
			}
			high := candles[i*6+2]
			low := candles[i*6+3]
			spread := high - low
			if spread < 0 {
				spread = -spread
			}
			volumes[i] = spread * 1000
		}

		bars := volume.ComputeVolumeBars(candles, volumes, count, 0.4)
		if bars.BarCount == 0 {
			return nil
		}

		payload := make([]byte, len(bars.Candle6)*4)
		for i, v := range bars.Candle6 {
			binary.LittleEndian.PutUint32(payload[i*4:i*4+4], math.Float32bits(v))
		}
		ing.SetBufferData(volume.BufferId(), payload)
		cp.Process(setGeometryVertexCountCmd(volume.GeometryId(), int(bars.BarCount)))

		return []dcerr.Id{volume.BufferId()}
	}
}

func readF32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}
