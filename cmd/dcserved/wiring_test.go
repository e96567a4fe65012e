package main

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/ids"
	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/pipeline"
	"github.com/dynacharting/core/scene"
)

func packTestCandle(x, open, high, low, close, halfWidth float32) []byte {
	out := make([]byte, dcerr.CandleRecordBytes)
	for i, v := range []float32{x, open, high, low, close, halfWidth} {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], math.Float32bits(v))
	}
	return out
}

func TestVolumeComputeCallbackDerivesBarsFromCandleSpread(t *testing.T) {
	sc := scene.New()
	cp := command.New(ids.New(), sc, pipeline.NewDefaultCatalog())
	ing := ingest.New()

	if r := cp.Process(paneCmd(1, "price")); !r.Ok {
		t.Fatalf("createPane: %v", r.Err)
	}
	if r := cp.Process(layerCmd(2, 1, "vol")); !r.Ok {
		t.Fatalf("createLayer: %v", r.Err)
	}

	candleBufferId := dcerr.Id(100)
	ing.EnsureBuffer(candleBufferId)
	var raw []byte
	raw = append(raw, packTestCandle(0, 100, 105, 98, 102, 0.4)...)
	raw = append(raw, packTestCandle(1, 102, 103, 90, 95, 0.4)...)
	ing.SetBufferData(candleBufferId, raw)

	volume := recipeVolume(2)
	built := volume.Build()
	for _, c := range built.CreateCommands {
		if r := cp.Process(c); !r.Ok {
			t.Fatalf("volume create command failed: %v", r.Err)
		}
	}

	cb := newVolumeComputeCallback(ing, cp, candleBufferId, volume)
	touched := cb(nil)
	if len(touched) != 1 || touched[0] != volume.BufferId() {
		t.Fatalf("touched = %v, want [%d]", touched, volume.BufferId())
	}

	out := ing.Bytes(volume.BufferId())
	if len(out) != 2*dcerr.CandleRecordBytes {
		t.Fatalf("volume buffer size = %d, want %d", len(out), 2*dcerr.CandleRecordBytes)
	}

	// Bar 0: high-low spread = 7 -> volume = 7000, up candle (close>=open) puts
	// volume on the close slot (index 4) and 0 on open (index 1).
	if got := readF32(out, 1*4); got != 0 {
		t.Fatalf("bar0 open slot = %v, want 0", got)
	}
	if got := readF32(out, 4*4); got != 7000 {
		t.Fatalf("bar0 close slot = %v, want 7000", got)
	}
}
