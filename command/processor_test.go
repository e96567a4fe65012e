package command

import (
	"encoding/json"
	"testing"

	"github.com/dynacharting/core/ids"
	"github.com/dynacharting/core/pipeline"
	"github.com/dynacharting/core/scene"
)

func newTestProcessor() Processor {
	return New(ids.New(), scene.New(), pipeline.NewDefaultCatalog())
}

func mustResult(t *testing.T, p Processor, cmd string) Result {
	t.Helper()
	r := p.Process([]byte(cmd))
	return r
}

func TestHelloIsNoop(t *testing.T) {
	p := newTestProcessor()
	r := mustResult(t, p, `{"cmd":"hello"}`)
	if !r.Ok {
		t.Fatalf("hello should always succeed, got err=%v", r.Err)
	}
}

func TestFrameStateTransitions(t *testing.T) {
	p := newTestProcessor()

	if r := mustResult(t, p, `{"cmd":"commitFrame"}`); r.Ok {
		t.Fatalf("commitFrame outside a frame should fail")
	}

	if r := mustResult(t, p, `{"cmd":"beginFrame"}`); !r.Ok {
		t.Fatalf("beginFrame should succeed: %v", r.Err)
	}
	if r := mustResult(t, p, `{"cmd":"beginFrame"}`); r.Ok {
		t.Fatalf("nested beginFrame should fail")
	} else if r.Err.Code != "FRAME_STATE" {
		t.Fatalf("code = %s, want FRAME_STATE", r.Err.Code)
	}

	if r := mustResult(t, p, `{"cmd":"commitFrame"}`); !r.Ok {
		t.Fatalf("commitFrame should succeed: %v", r.Err)
	}
	if r := mustResult(t, p, `{"cmd":"commitFrame"}`); r.Ok {
		t.Fatalf("double commitFrame should fail")
	}
}

func TestCreatePaneAllocatesAndRejectsDuplicate(t *testing.T) {
	p := newTestProcessor()

	r1 := mustResult(t, p, `{"cmd":"createPane","id":7,"name":"main"}`)
	if !r1.Ok || r1.CreatedId != 7 {
		t.Fatalf("createPane(id=7) = %+v", r1)
	}

	r2 := mustResult(t, p, `{"cmd":"createPane","id":7}`)
	if r2.Ok || r2.Err.Code != "DUPLICATE_ID" {
		t.Fatalf("duplicate createPane = %+v, want DUPLICATE_ID", r2)
	}

	r3 := mustResult(t, p, `{"cmd":"createPane"}`)
	if !r3.Ok || r3.CreatedId == 0 {
		t.Fatalf("createPane without id should allocate: %+v", r3)
	}
}

func TestCreatePaneAcceptsDecimalStringId(t *testing.T) {
	p := newTestProcessor()
	r := mustResult(t, p, `{"cmd":"createPane","id":"42"}`)
	if !r.Ok || r.CreatedId != 42 {
		t.Fatalf("string id = %+v, want ok createdId=42", r)
	}

	bad := mustResult(t, p, `{"cmd":"createPane","id":"4x2"}`)
	if bad.Ok || bad.Err.Code != "INVALID_ID" {
		t.Fatalf("non-digit string id = %+v, want INVALID_ID", bad)
	}
}

func TestCreateLayerRequiresLivePane(t *testing.T) {
	p := newTestProcessor()

	r := mustResult(t, p, `{"cmd":"createLayer","paneId":99}`)
	if r.Ok || r.Err.Code != "INVALID_REF" {
		t.Fatalf("createLayer with unknown paneId = %+v, want INVALID_REF", r)
	}

	mustResult(t, p, `{"cmd":"createPane","id":1}`)
	r2 := mustResult(t, p, `{"cmd":"createLayer","id":2,"paneId":1}`)
	if !r2.Ok || r2.CreatedId != 2 {
		t.Fatalf("createLayer = %+v", r2)
	}
}

// buildScene wires a pane -> layer -> drawItem, a buffer, and a Pos2Clip geometry,
// returning their ids for use by later tests in this file.
func buildScene(t *testing.T, p Processor) (pane, layer, drawItem, buf, geom uint64) {
	t.Helper()
	mustOk := func(r Result) uint64 {
		t.Helper()
		if !r.Ok {
			t.Fatalf("setup command failed: %v", r.Err)
		}
		return uint64(r.CreatedId)
	}

	pane = mustOk(mustResult(t, p, `{"cmd":"createPane","id":1}`))
	layer = mustOk(mustResult(t, p, `{"cmd":"createLayer","id":2,"paneId":1}`))
	drawItem = mustOk(mustResult(t, p, `{"cmd":"createDrawItem","id":3,"layerId":2}`))
	buf = mustOk(mustResult(t, p, `{"cmd":"createBuffer","id":4,"byteLength":64}`))
	geom = mustOk(mustResult(t, p, `{"cmd":"createGeometry","id":5,"vertexBufferId":4,"format":"Pos2Clip","vertexCount":3}`))
	return
}

func TestBindDrawItemFormatMismatch(t *testing.T) {
	p := newTestProcessor()
	_, _, drawItem, buf, _ := buildScene(t, p)

	mismatched := mustResult(t, p, `{"cmd":"createGeometry","id":6,"vertexBufferId":4,"format":"Rect4","vertexCount":1}`)
	if !mismatched.Ok {
		t.Fatalf("setup geometry failed: %v", mismatched.Err)
	}
	_ = buf

	r := mustResult(t, p, jsonCmd(map[string]any{
		"cmd": "bindDrawItem", "drawItemId": drawItem, "geometryId": 6, "pipeline": "triSolid@1",
	}))
	if r.Ok || r.Err.Code != "FORMAT_MISMATCH" {
		t.Fatalf("bindDrawItem mismatch = %+v, want FORMAT_MISMATCH", r)
	}
}

func TestBindDrawItemSuccessAndUnknownPipeline(t *testing.T) {
	p := newTestProcessor()
	_, _, drawItem, _, geom := buildScene(t, p)

	r := mustResult(t, p, jsonCmd(map[string]any{
		"cmd": "bindDrawItem", "drawItemId": drawItem, "geometryId": geom, "pipeline": "triSolid@1",
	}))
	if !r.Ok {
		t.Fatalf("bindDrawItem = %+v, want ok", r)
	}

	r2 := mustResult(t, p, jsonCmd(map[string]any{
		"cmd": "bindDrawItem", "drawItemId": drawItem, "geometryId": geom, "pipeline": "doesNotExist@1",
	}))
	if r2.Ok || r2.Err.Code != "PIPELINE_UNKNOWN" {
		t.Fatalf("bindDrawItem unknown pipeline = %+v, want PIPELINE_UNKNOWN", r2)
	}
}

func TestSetTransformAndAttach(t *testing.T) {
	p := newTestProcessor()
	_, _, drawItem, _, _ := buildScene(t, p)

	rt := mustResult(t, p, `{"cmd":"createTransform","id":10}`)
	if !rt.Ok {
		t.Fatalf("createTransform: %v", rt.Err)
	}

	rs := mustResult(t, p, `{"cmd":"setTransform","id":10,"sx":2,"sy":3,"tx":1,"ty":-1}`)
	if !rs.Ok {
		t.Fatalf("setTransform: %v", rs.Err)
	}

	ra := mustResult(t, p, jsonCmd(map[string]any{"cmd": "attachTransform", "drawItemId": drawItem, "transformId": 10}))
	if !ra.Ok {
		t.Fatalf("attachTransform: %v", ra.Err)
	}
}

func TestSetDrawItemStylePartialUpdate(t *testing.T) {
	p := newTestProcessor()
	_, _, drawItem, _, _ := buildScene(t, p)

	r1 := mustResult(t, p, jsonCmd(map[string]any{
		"cmd": "setDrawItemColor", "drawItemId": drawItem, "r": 1.0, "g": 0.5, "b": 0.25, "a": 1.0,
	}))
	if !r1.Ok {
		t.Fatalf("setDrawItemColor: %v", r1.Err)
	}

	r2 := mustResult(t, p, jsonCmd(map[string]any{
		"cmd": "setDrawItemStyle", "drawItemId": drawItem, "lineWidth": 2.5,
	}))
	if !r2.Ok {
		t.Fatalf("setDrawItemStyle: %v", r2.Err)
	}
}

func TestDeleteCascadesAndReleasesIds(t *testing.T) {
	p := newTestProcessor()
	pane, _, _, _, _ := buildScene(t, p)

	r := mustResult(t, p, jsonCmd(map[string]any{"cmd": "delete", "id": pane}))
	if !r.Ok {
		t.Fatalf("delete pane: %v", r.Err)
	}

	// The pane, its layer, and its drawItem should all be gone from Scene enumeration.
	listed, err := p.(*processor).ListResourcesJson()
	if err != nil {
		t.Fatalf("ListResourcesJson: %v", err)
	}
	var out resourceList
	if err := json.Unmarshal(listed, &out); err != nil {
		t.Fatalf("unmarshal listing: %v", err)
	}
	if len(out.Panes) != 0 || len(out.Layers) != 0 || len(out.DrawItems) != 0 {
		t.Fatalf("expected empty scene after cascade delete, got %+v", out)
	}

	// A second delete of the now-released pane id must fail as unknown.
	r2 := mustResult(t, p, jsonCmd(map[string]any{"cmd": "delete", "id": pane}))
	if r2.Ok {
		t.Fatalf("delete of already-released id should fail")
	}
}

func jsonCmd(m map[string]any) string {
	b, _ := json.Marshal(m)
	return string(b)
}
