// Package command implements the Command Processor: the single write path into the
// Scene and Id Registry. One JSON object in, one Result out, dispatched by the "cmd"
// field against the vocabulary in spec.md §4.D.
package command

import (
	"encoding/json"

	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/ids"
	"github.com/dynacharting/core/pipeline"
	"github.com/dynacharting/core/scene"
)

// Processor is the JSON command dispatcher. Process is not safe for concurrent calls;
// per spec.md §5 all command traffic originates from a single designated thread.
type Processor interface {
	// Process decodes one JSON command object and dispatches it by its "cmd" field.
	Process(raw []byte) Result

	// Frame reports the current frame counter.
	Frame() int
	// InFrame reports whether beginFrame has been called without a matching commitFrame.
	InFrame() bool

	// ListResourcesJson renders {panes, layers, drawItems, frame, inFrame} for
	// diagnostics and golden tests.
	ListResourcesJson() ([]byte, error)
}

type processor struct {
	registry ids.Registry
	scene    scene.Scene
	catalog  pipeline.Catalog

	inFrame bool
	frame   int
}

var _ Processor = (*processor)(nil)

// New creates a Processor wired against the given Registry, Scene, and Catalog. All
// three are expected to be freshly constructed and owned exclusively by this Processor
// and whatever else shares the single designated command thread.
func New(registry ids.Registry, sc scene.Scene, catalog pipeline.Catalog) Processor {
	return &processor{registry: registry, scene: sc, catalog: catalog}
}

func (p *processor) Frame() int     { return p.frame }
func (p *processor) InFrame() bool  { return p.inFrame }

// rawCommand is the union of every field any command in the vocabulary may carry.
// Unused fields for a given cmd are simply left nil/absent; handlers read only the
// fields their contract names.
type rawCommand struct {
	Cmd string `json:"cmd"`

	Id             idField `json:"id"`
	PaneId         idField `json:"paneId"`
	LayerId        idField `json:"layerId"`
	DrawItemId     idField `json:"drawItemId"`
	GeometryId     idField `json:"geometryId"`
	TransformId    idField `json:"transformId"`
	VertexBufferId idField `json:"vertexBufferId"`

	Name *string `json:"name"`

	ByteLength  *int    `json:"byteLength"`
	Format      *string `json:"format"`
	VertexCount *int    `json:"vertexCount"`
	Pipeline    *string `json:"pipeline"`

	Sx *float32 `json:"sx"`
	Sy *float32 `json:"sy"`
	Tx *float32 `json:"tx"`
	Ty *float32 `json:"ty"`

	R *float32 `json:"r"`
	G *float32 `json:"g"`
	B *float32 `json:"b"`
	A *float32 `json:"a"`

	LineWidth *float32 `json:"lineWidth"`

	ColorUpR *float32 `json:"colorUpR"`
	ColorUpG *float32 `json:"colorUpG"`
	ColorUpB *float32 `json:"colorUpB"`
	ColorUpA *float32 `json:"colorUpA"`

	ColorDownR *float32 `json:"colorDownR"`
	ColorDownG *float32 `json:"colorDownG"`
	ColorDownB *float32 `json:"colorDownB"`
	ColorDownA *float32 `json:"colorDownA"`

	ClipXMin *float32 `json:"clipXMin"`
	ClipXMax *float32 `json:"clipXMax"`
	ClipYMin *float32 `json:"clipYMin"`
	ClipYMax *float32 `json:"clipYMax"`
}

func (p *processor) Process(raw []byte) Result {
	var c rawCommand
	if err := json.Unmarshal(raw, &c); err != nil {
		return fail(dcerr.New(dcerr.CodeParseError, "malformed command json", err.Error()))
	}

	switch c.Cmd {
	case "hello":
		return p.handleHello(c)
	case "beginFrame":
		return p.handleBeginFrame(c)
	case "commitFrame":
		return p.handleCommitFrame(c)
	case "createPane":
		return p.handleCreatePane(c)
	case "createLayer":
		return p.handleCreateLayer(c)
	case "createDrawItem":
		return p.handleCreateDrawItem(c)
	case "createBuffer":
		return p.handleCreateBuffer(c)
	case "createGeometry":
		return p.handleCreateGeometry(c)
	case "createTransform":
		return p.handleCreateTransform(c)
	case "bindDrawItem":
		return p.handleBindDrawItem(c)
	case "attachTransform":
		return p.handleAttachTransform(c)
	case "setTransform":
		return p.handleSetTransform(c)
	case "setGeometryBuffer":
		return p.handleSetGeometryBuffer(c)
	case "setGeometryVertexCount":
		return p.handleSetGeometryVertexCount(c)
	case "setDrawItemColor":
		return p.handleSetDrawItemColor(c)
	case "setDrawItemStyle":
		return p.handleSetDrawItemStyle(c)
	case "setPaneClearColor":
		return p.handleSetPaneClearColor(c)
	case "setPaneRegion":
		return p.handleSetPaneRegion(c)
	case "delete":
		return p.handleDelete(c)
	default:
		return fail(dcerr.New(dcerr.CodeParseError, "unknown cmd", c.Cmd))
	}
}

// --- shared field helpers ---

// requiredId resolves a required idField, collapsing both "absent" and "malformed"
// into the stable error codes the table in spec.md §4.D promises.
func requiredId(f idField, field string) (dcerr.Id, *dcerr.Error) {
	id, present, err := f.Parse()
	if err != nil {
		if de, ok := err.(*dcerr.Error); ok {
			return 0, de
		}
		return 0, dcerr.New(dcerr.CodeInvalidId, "invalid id", field)
	}
	if !present {
		return 0, dcerr.New(dcerr.CodeMissingField, "missing required field", field)
	}
	return id, nil
}

// optionalId resolves an optional idField; present is false when the field is
// absent, and err is non-nil on a malformed value.
func optionalId(f idField) (id dcerr.Id, present bool, err *dcerr.Error) {
	v, ok, parseErr := f.Parse()
	if parseErr != nil {
		if de, ok2 := parseErr.(*dcerr.Error); ok2 {
			return 0, ok, de
		}
		return 0, ok, dcerr.New(dcerr.CodeInvalidId, "invalid id")
	}
	return v, ok, nil
}

func requiredFloat(v *float32, field string) (float32, *dcerr.Error) {
	if v == nil {
		return 0, dcerr.New(dcerr.CodeMissingField, "missing required field", field)
	}
	return *v, nil
}

func requiredInt(v *int, field string) (int, *dcerr.Error) {
	if v == nil {
		return 0, dcerr.New(dcerr.CodeMissingField, "missing required field", field)
	}
	return *v, nil
}

func requiredString(v *string, field string) (string, *dcerr.Error) {
	if v == nil || *v == "" {
		return "", dcerr.New(dcerr.CodeMissingField, "missing required field", field)
	}
	return *v, nil
}

func nameOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
