package ingestloop

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/datasource"
	"github.com/dynacharting/core/ids"
	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/pipeline"
	"github.com/dynacharting/core/scene"
	"github.com/dynacharting/core/viewport"
)

func putCandle(buf []byte, i int, x, open, high, low, close, hw float32) {
	off := i * dcerr.CandleRecordBytes
	for j, v := range []float32{x, open, high, low, close, hw} {
		binary.LittleEndian.PutUint32(buf[off+j*4:off+j*4+4], math.Float32bits(v))
	}
}

func appendRecordTest(batch []byte, op byte, bufferId uint32, offset uint32, payload []byte) []byte {
	header := make([]byte, 13)
	header[0] = op
	binary.LittleEndian.PutUint32(header[1:5], bufferId)
	binary.LittleEndian.PutUint32(header[5:9], offset)
	binary.LittleEndian.PutUint32(header[9:13], uint32(len(payload)))
	batch = append(batch, header...)
	batch = append(batch, payload...)
	return batch
}

func TestConsumeAndUpdateDrainsAndUpdatesVertexCount(t *testing.T) {
	sc := scene.New()
	cp := command.New(ids.New(), sc, pipeline.NewDefaultCatalog())
	ing := ingest.New()

	mustOk := func(r command.Result) dcerr.Id {
		t.Helper()
		if !r.Ok {
			t.Fatalf("setup: %v", r.Err)
		}
		return r.CreatedId
	}
	_ = mustOk(cp.Process([]byte(`{"cmd":"createBuffer","id":1,"byteLength":0}`)))
	geom := mustOk(cp.Process([]byte(`{"cmd":"createGeometry","id":2,"vertexBufferId":1,"format":"Candle6","vertexCount":0}`)))

	raw := make([]byte, dcerr.CandleRecordBytes)
	putCandle(raw, 0, 0, 10, 12, 9, 11, 1)
	batch := appendRecordTest(nil, 1, 1, 0, raw)

	src := datasource.NewInlineDataSource(batch)
	loop := New()
	loop.Bindings = []Binding{{BufferId: 1, GeometryId: geom, BytesPerVertex: dcerr.CandleRecordBytes}}

	touched := loop.ConsumeAndUpdate(src, ing, cp)
	if len(touched) != 1 || touched[0] != 1 {
		t.Fatalf("touched = %v, want [1]", touched)
	}

	g, ok := sc.GetGeometry(geom)
	if !ok || g.VertexCount != 1 {
		t.Fatalf("geometry vertexCount = %+v, want 1", g)
	}
}

func TestConsumeAndUpdateAppliesAutoScrollAndScale(t *testing.T) {
	sc := scene.New()
	cp := command.New(ids.New(), sc, pipeline.NewDefaultCatalog())
	ing := ingest.New()

	mustOk := func(r command.Result) dcerr.Id {
		t.Helper()
		if !r.Ok {
			t.Fatalf("setup: %v", r.Err)
		}
		return r.CreatedId
	}
	_ = mustOk(cp.Process([]byte(`{"cmd":"createBuffer","id":1,"byteLength":0}`)))
	geom := mustOk(cp.Process([]byte(`{"cmd":"createGeometry","id":2,"vertexBufferId":1,"format":"Candle6","vertexCount":0}`)))

	raw := make([]byte, 2*dcerr.CandleRecordBytes)
	putCandle(raw, 0, 0, 10, 12, 9, 11, 1)
	putCandle(raw, 1, 1, 11, 14, 8, 13, 1)
	var batch []byte
	batch = appendRecordTest(batch, 1, 1, 0, raw)

	src := datasource.NewInlineDataSource(batch)
	loop := New()
	loop.Bindings = []Binding{{BufferId: 1, GeometryId: geom, BytesPerVertex: dcerr.CandleRecordBytes}}
	loop.AutoScroll = AutoScrollConfig{Enabled: true, ScrollMargin: 0.1}
	loop.AutoScale = AutoScaleConfig{Enabled: true, Padding: 0.05}
	vp := viewport.New(viewport.PixelSize{W: 100, H: 100}, scene.Region{ClipXMin: -1, ClipXMax: 1, ClipYMin: -1, ClipYMax: 1}, viewport.DataRange{XMin: 0, XMax: 10, YMin: 0, YMax: 10})
	loop.Viewport = vp

	loop.ConsumeAndUpdate(src, ing, cp)

	dr := vp.DataRange()
	if dr.XMax <= 1 {
		t.Fatalf("xMax after scroll = %v, want > lastX(1)", dr.XMax)
	}
	if dr.YMax <= 14 || dr.YMin >= 8 {
		t.Fatalf("y range after scale = %+v, want padded around [8,14]", dr)
	}
}
