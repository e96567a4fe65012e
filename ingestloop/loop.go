// Package ingestloop implements the Live Ingest Loop: drains a Data Source, forwards
// batches to the Ingest Processor, updates bound geometries' vertex counts, and
// optionally auto-scrolls/auto-scales an attached Viewport off the freshest Candle6 data.
package ingestloop

import (
	"encoding/binary"
	"math"

	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/datasource"
	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/viewport"
)

// Binding pairs a buffer with the geometry whose vertex count must track its length.
type Binding struct {
	BufferId       dcerr.Id
	GeometryId     dcerr.Id
	BytesPerVertex int
}

// AutoScrollConfig governs the X auto-scroll behaviour.
type AutoScrollConfig struct {
	Enabled     bool
	ScrollMargin float64 // fraction of xSpan kept as lookahead past the last record
}

// AutoScaleConfig governs the Y auto-scale behaviour.
type AutoScaleConfig struct {
	Enabled bool
	Padding float64 // fraction of the [min,max] span padded on both sides
}

// Loop is the Live Ingest Loop. Not safe for concurrent ConsumeAndUpdate calls; it runs on the
// single designated main thread alongside the Command Processor.
type Loop struct {
	Bindings    []Binding
	Viewport    viewport.Viewport
	AutoScroll  AutoScrollConfig
	AutoScale   AutoScaleConfig
}

// New creates an empty Loop with default (disabled) auto-scroll/auto-scale.
func New() *Loop {
	return &Loop{
		AutoScroll: AutoScrollConfig{ScrollMargin: 0.05},
		AutoScale:  AutoScaleConfig{Padding: 0.05},
	}
}

// ConsumeAndUpdate drains source by repeatedly polling until empty, forwards every
// batch to ing, updates geometry vertex counts for touched bindings, and — if a
// Viewport is attached and a Candle6 binding was touched — applies auto-scroll/scale.
// Returns the deduplicated union of touched buffer ids.
func (l *Loop) ConsumeAndUpdate(source datasource.DataSource, ing ingest.Processor, cp command.Processor) []dcerr.Id {
	touchedSet := make(map[dcerr.Id]bool)
	var touchedOrder []dcerr.Id

	for {
		batch, ok := source.Poll()
		if !ok {
			break
		}
		result := ing.ProcessBatch(batch)
		for _, id := range result.TouchedBufferIds {
			if !touchedSet[id] {
				touchedSet[id] = true
				touchedOrder = append(touchedOrder, id)
			}
		}
	}

	if len(touchedOrder) == 0 {
		return nil
	}

	var candle6Binding *Binding
	for i := range l.Bindings {
		b := &l.Bindings[i]
		if !touchedSet[b.BufferId] {
			continue
		}
		vertexCount := ing.Size(b.BufferId) / b.BytesPerVertex
		cp.Process(setVertexCountCmd(b.GeometryId, vertexCount))
		if candle6Binding == nil && b.BytesPerVertex == dcerr.CandleRecordBytes {
			candle6Binding = b
		}
	}

	if l.Viewport != nil && candle6Binding != nil {
		l.applyAutoScrollScale(ing, *candle6Binding)
	}

	return touchedOrder
}

func (l *Loop) applyAutoScrollScale(ing ingest.Processor, binding Binding) {
	raw := ing.Bytes(binding.BufferId)
	count := len(raw) / dcerr.CandleRecordBytes
	if count == 0 {
		return
	}

	if l.AutoScroll.Enabled {
		lastX := readF32(raw, (count-1)*dcerr.CandleRecordBytes+0)
		dr := l.Viewport.DataRange()
		xSpan := dr.XMax - dr.XMin
		newXMax := float64(lastX) + l.AutoScroll.ScrollMargin*xSpan
		dr.XMax = newXMax
		dr.XMin = newXMax - xSpan
		l.Viewport.SetDataRange(dr)
	}

	if l.AutoScale.Enabled {
		dr := l.Viewport.DataRange()
		minLow := math.Inf(1)
		maxHigh := math.Inf(-1)
		found := false
		for i := 0; i < count; i++ {
			off := i * dcerr.CandleRecordBytes
			x := float64(readF32(raw, off+0))
			if x < dr.XMin || x > dr.XMax {
				continue
			}
			low := float64(readF32(raw, off+12))
			high := float64(readF32(raw, off+8))
			if low < minLow {
				minLow = low
			}
			if high > maxHigh {
				maxHigh = high
			}
			found = true
		}
		if !found {
			return
		}
		span := maxHigh - minLow
		pad := span * l.AutoScale.Padding
		dr.YMin = minLow - pad
		dr.YMax = maxHigh + pad
		l.Viewport.SetDataRange(dr)
	}
}

func readF32(b []byte, off int) float32 {
	bits := binary.LittleEndian.Uint32(b[off : off+4])
	return math.Float32frombits(bits)
}
