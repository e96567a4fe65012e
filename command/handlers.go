package command

import (
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/scene"
)

func (p *processor) handleHello(_ rawCommand) Result {
	return ok(dcerr.InvalidId)
}

func (p *processor) handleBeginFrame(_ rawCommand) Result {
	if p.inFrame {
		return fail(dcerr.New(dcerr.CodeFrameState, "beginFrame called while already in a frame"))
	}
	p.inFrame = true
	p.frame++
	return ok(dcerr.InvalidId)
}

func (p *processor) handleCommitFrame(_ rawCommand) Result {
	if !p.inFrame {
		return fail(dcerr.New(dcerr.CodeFrameState, "commitFrame called while not in a frame"))
	}
	p.inFrame = false
	return ok(dcerr.InvalidId)
}

// resolveOrAllocate reserves a caller-supplied id if present, otherwise mints a
// fresh one. A present zero id is an INVALID_ID error; a present-but-already-live
// id is a DUPLICATE_ID error.
func (p *processor) resolveOrAllocate(f idField, kind dcerr.ResourceKind) (dcerr.Id, *dcerr.Error) {
	id, present, err := optionalId(f)
	if err != nil {
		return 0, err
	}
	if !present {
		return p.registry.Allocate(kind), nil
	}
	if id == dcerr.InvalidId {
		return 0, dcerr.New(dcerr.CodeInvalidId, "id must be non-zero", id)
	}
	if !p.registry.Reserve(id, kind) {
		return 0, dcerr.New(dcerr.CodeDuplicateId, "id already in use", id)
	}
	return id, nil
}

func (p *processor) handleCreatePane(c rawCommand) Result {
	id, err := p.resolveOrAllocate(c.Id, dcerr.KindPane)
	if err != nil {
		return fail(err)
	}
	p.scene.AddPane(scene.Pane{Id: id, Name: nameOr(c.Name, "")})
	return ok(id)
}

func (p *processor) handleCreateLayer(c rawCommand) Result {
	paneId, err := requiredId(c.PaneId, "paneId")
	if err != nil {
		return fail(err)
	}
	if p.registry.KindOf(paneId) != dcerr.KindPane {
		return fail(dcerr.New(dcerr.CodeInvalidRef, "paneId does not refer to a live Pane", paneId))
	}

	id, err := p.resolveOrAllocate(c.Id, dcerr.KindLayer)
	if err != nil {
		return fail(err)
	}
	p.scene.AddLayer(scene.Layer{Id: id, PaneId: paneId, Name: nameOr(c.Name, "")})
	return ok(id)
}

func (p *processor) handleCreateDrawItem(c rawCommand) Result {
	layerId, err := requiredId(c.LayerId, "layerId")
	if err != nil {
		return fail(err)
	}
	if p.registry.KindOf(layerId) != dcerr.KindLayer {
		return fail(dcerr.New(dcerr.CodeInvalidRef, "layerId does not refer to a live Layer", layerId))
	}

	id, err := p.resolveOrAllocate(c.Id, dcerr.KindDrawItem)
	if err != nil {
		return fail(err)
	}
	p.scene.AddDrawItem(scene.DrawItem{Id: id, LayerId: layerId, Name: nameOr(c.Name, "")})
	return ok(id)
}

func (p *processor) handleCreateBuffer(c rawCommand) Result {
	byteLength, err := requiredInt(c.ByteLength, "byteLength")
	if err != nil {
		return fail(err)
	}

	id, err := p.resolveOrAllocate(c.Id, dcerr.KindBuffer)
	if err != nil {
		return fail(err)
	}
	p.scene.AddBuffer(scene.Buffer{Id: id, ByteLength: byteLength})
	return ok(id)
}

func (p *processor) handleCreateGeometry(c rawCommand) Result {
	vertexBufferId, err := requiredId(c.VertexBufferId, "vertexBufferId")
	if err != nil {
		return fail(err)
	}
	if p.registry.KindOf(vertexBufferId) != dcerr.KindBuffer {
		return fail(dcerr.New(dcerr.CodeInvalidRef, "vertexBufferId does not refer to a live Buffer", vertexBufferId))
	}

	formatName, err := requiredString(c.Format, "format")
	if err != nil {
		return fail(err)
	}
	format, known := dcerr.ParseVertexFormat(formatName)
	if !known {
		return fail(dcerr.New(dcerr.CodeFormatMismatch, "unrecognised vertex format", formatName))
	}

	vertexCount := 0
	if c.VertexCount != nil {
		vertexCount = *c.VertexCount
	}

	id, err := p.resolveOrAllocate(c.Id, dcerr.KindGeometry)
	if err != nil {
		return fail(err)
	}
	p.scene.AddGeometry(scene.Geometry{
		Id:             id,
		VertexBufferId: vertexBufferId,
		Format:         format,
		VertexCount:    vertexCount,
	})
	return ok(id)
}

func (p *processor) handleCreateTransform(c rawCommand) Result {
	id, err := p.resolveOrAllocate(c.Id, dcerr.KindTransform)
	if err != nil {
		return fail(err)
	}
	p.scene.AddTransform(scene.Transform{Id: id})
	return ok(id)
}

func (p *processor) handleBindDrawItem(c rawCommand) Result {
	drawItemId, err := requiredId(c.DrawItemId, "drawItemId")
	if err != nil {
		return fail(err)
	}
	geometryId, err := requiredId(c.GeometryId, "geometryId")
	if err != nil {
		return fail(err)
	}
	pipelineKey, err := requiredString(c.Pipeline, "pipeline")
	if err != nil {
		return fail(err)
	}

	item, itemOk := p.scene.GetDrawItemMutable(drawItemId)
	if !itemOk {
		return fail(dcerr.New(dcerr.CodeInvalidRef, "drawItemId does not refer to a live DrawItem", drawItemId))
	}
	geom, geomOk := p.scene.GetGeometry(geometryId)
	if !geomOk {
		return fail(dcerr.New(dcerr.CodeInvalidRef, "geometryId does not refer to a live Geometry", geometryId))
	}
	entry, known := p.catalog.Lookup(pipelineKey)
	if !known {
		return fail(dcerr.New(dcerr.CodePipelineUnknown, "pipeline not found in catalog", pipelineKey))
	}
	if entry.Format != geom.Format {
		return fail(dcerr.New(dcerr.CodeFormatMismatch, "geometry format does not match pipeline's required format", map[string]string{
			"pipeline": pipelineKey,
			"want":     entry.Format.String(),
			"have":     geom.Format.String(),
		}))
	}

	item.Pipeline = pipelineKey
	item.GeometryId = geometryId
	return ok(dcerr.InvalidId)
}

func (p *processor) handleAttachTransform(c rawCommand) Result {
	drawItemId, err := requiredId(c.DrawItemId, "drawItemId")
	if err != nil {
		return fail(err)
	}
	transformId, err := requiredId(c.TransformId, "transformId")
	if err != nil {
		return fail(err)
	}

	item, itemOk := p.scene.GetDrawItemMutable(drawItemId)
	if !itemOk {
		return fail(dcerr.New(dcerr.CodeInvalidRef, "drawItemId does not refer to a live DrawItem", drawItemId))
	}
	if _, transformOk := p.scene.GetTransform(transformId); !transformOk {
		return fail(dcerr.New(dcerr.CodeInvalidRef, "transformId does not refer to a live Transform", transformId))
	}

	item.TransformId = transformId
	return ok(dcerr.InvalidId)
}

func (p *processor) handleSetTransform(c rawCommand) Result {
	id, err := requiredId(c.Id, "id")
	if err != nil {
		return fail(err)
	}
	sx, err := requiredFloat(c.Sx, "sx")
	if err != nil {
		return fail(err)
	}
	sy, err := requiredFloat(c.Sy, "sy")
	if err != nil {
		return fail(err)
	}
	tx, err := requiredFloat(c.Tx, "tx")
	if err != nil {
		return fail(err)
	}
	ty, err := requiredFloat(c.Ty, "ty")
	if err != nil {
		return fail(err)
	}

	transform, transformOk := p.scene.GetTransformMutable(id)
	if !transformOk {
		return fail(dcerr.New(dcerr.CodeInvalidId, "id does not refer to a live Transform", id))
	}
	transform.Params = scene.TransformParams{Sx: sx, Sy: sy, Tx: tx, Ty: ty}
	return ok(dcerr.InvalidId)
}

func (p *processor) handleSetGeometryBuffer(c rawCommand) Result {
	geometryId, err := requiredId(c.GeometryId, "geometryId")
	if err != nil {
		return fail(err)
	}
	vertexBufferId, err := requiredId(c.VertexBufferId, "vertexBufferId")
	if err != nil {
		return fail(err)
	}

	geom, geomOk := p.scene.GetGeometryMutable(geometryId)
	if !geomOk {
		return fail(dcerr.New(dcerr.CodeInvalidRef, "geometryId does not refer to a live Geometry", geometryId))
	}
	if p.registry.KindOf(vertexBufferId) != dcerr.KindBuffer {
		return fail(dcerr.New(dcerr.CodeInvalidRef, "vertexBufferId does not refer to a live Buffer", vertexBufferId))
	}
	geom.VertexBufferId = vertexBufferId
	return ok(dcerr.InvalidId)
}

func (p *processor) handleSetGeometryVertexCount(c rawCommand) Result {
	geometryId, err := requiredId(c.GeometryId, "geometryId")
	if err != nil {
		return fail(err)
	}
	vertexCount, err := requiredInt(c.VertexCount, "vertexCount")
	if err != nil {
		return fail(err)
	}

	geom, geomOk := p.scene.GetGeometryMutable(geometryId)
	if !geomOk {
		return fail(dcerr.New(dcerr.CodeInvalidId, "geometryId does not refer to a live Geometry", geometryId))
	}
	geom.VertexCount = vertexCount
	return ok(dcerr.InvalidId)
}

func (p *processor) handleSetDrawItemColor(c rawCommand) Result {
	drawItemId, err := requiredId(c.DrawItemId, "drawItemId")
	if err != nil {
		return fail(err)
	}
	r, err := requiredFloat(c.R, "r")
	if err != nil {
		return fail(err)
	}
	g, err := requiredFloat(c.G, "g")
	if err != nil {
		return fail(err)
	}
	b, err := requiredFloat(c.B, "b")
	if err != nil {
		return fail(err)
	}
	a, err := requiredFloat(c.A, "a")
	if err != nil {
		return fail(err)
	}

	item, itemOk := p.scene.GetDrawItemMutable(drawItemId)
	if !itemOk {
		return fail(dcerr.New(dcerr.CodeInvalidId, "drawItemId does not refer to a live DrawItem", drawItemId))
	}
	item.Color = rgba(r, g, b, a)
	return ok(dcerr.InvalidId)
}

func (p *processor) handleSetDrawItemStyle(c rawCommand) Result {
	drawItemId, err := requiredId(c.DrawItemId, "drawItemId")
	if err != nil {
		return fail(err)
	}
	item, itemOk := p.scene.GetDrawItemMutable(drawItemId)
	if !itemOk {
		return fail(dcerr.New(dcerr.CodeInvalidId, "drawItemId does not refer to a live DrawItem", drawItemId))
	}

	if anyOf(c.R, c.G, c.B, c.A) {
		item.Color = rgba(deref(c.R, float32(item.Color.R)), deref(c.G, float32(item.Color.G)), deref(c.B, float32(item.Color.B)), deref(c.A, float32(item.Color.A)))
	}
	if anyOf(c.ColorUpR, c.ColorUpG, c.ColorUpB, c.ColorUpA) {
		item.ColorUp = rgba(deref(c.ColorUpR, float32(item.ColorUp.R)), deref(c.ColorUpG, float32(item.ColorUp.G)), deref(c.ColorUpB, float32(item.ColorUp.B)), deref(c.ColorUpA, float32(item.ColorUp.A)))
	}
	if anyOf(c.ColorDownR, c.ColorDownG, c.ColorDownB, c.ColorDownA) {
		item.ColorDown = rgba(deref(c.ColorDownR, float32(item.ColorDown.R)), deref(c.ColorDownG, float32(item.ColorDown.G)), deref(c.ColorDownB, float32(item.ColorDown.B)), deref(c.ColorDownA, float32(item.ColorDown.A)))
	}
	if c.LineWidth != nil {
		item.LineWidth = *c.LineWidth
	}
	return ok(dcerr.InvalidId)
}

func (p *processor) handleSetPaneClearColor(c rawCommand) Result {
	id, err := requiredId(c.Id, "id")
	if err != nil {
		return fail(err)
	}
	r, err := requiredFloat(c.R, "r")
	if err != nil {
		return fail(err)
	}
	g, err := requiredFloat(c.G, "g")
	if err != nil {
		return fail(err)
	}
	b, err := requiredFloat(c.B, "b")
	if err != nil {
		return fail(err)
	}
	a, err := requiredFloat(c.A, "a")
	if err != nil {
		return fail(err)
	}

	pane, paneOk := p.scene.GetPaneMutable(id)
	if !paneOk {
		return fail(dcerr.New(dcerr.CodeInvalidId, "id does not refer to a live Pane", id))
	}
	pane.ClearColor = rgba(r, g, b, a)
	pane.ClearColorPresent = true
	return ok(dcerr.InvalidId)
}

func (p *processor) handleSetPaneRegion(c rawCommand) Result {
	id, err := requiredId(c.Id, "id")
	if err != nil {
		return fail(err)
	}
	xMin, err := requiredFloat(c.ClipXMin, "clipXMin")
	if err != nil {
		return fail(err)
	}
	xMax, err := requiredFloat(c.ClipXMax, "clipXMax")
	if err != nil {
		return fail(err)
	}
	yMin, err := requiredFloat(c.ClipYMin, "clipYMin")
	if err != nil {
		return fail(err)
	}
	yMax, err := requiredFloat(c.ClipYMax, "clipYMax")
	if err != nil {
		return fail(err)
	}

	pane, paneOk := p.scene.GetPaneMutable(id)
	if !paneOk {
		return fail(dcerr.New(dcerr.CodeInvalidId, "id does not refer to a live Pane", id))
	}
	pane.Region = scene.Region{ClipXMin: xMin, ClipXMax: xMax, ClipYMin: yMin, ClipYMax: yMax}
	return ok(dcerr.InvalidId)
}

func (p *processor) handleDelete(c rawCommand) Result {
	id, err := requiredId(c.Id, "id")
	if err != nil {
		return fail(err)
	}
	kind := p.registry.KindOf(id)
	if kind == dcerr.KindUnknown {
		return fail(dcerr.New(dcerr.CodeInvalidId, "id does not refer to a live resource", id))
	}

	removed := p.scene.Delete(id, kind)
	for _, r := range removed {
		p.registry.Release(r)
	}
	return ok(dcerr.InvalidId)
}
