package scene

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/dynacharting/core/internal/dcerr"
)

// Region is a pane's viewport footprint in normalised clip coordinates [-1, +1].
type Region struct {
	ClipXMin, ClipXMax float32
	ClipYMin, ClipYMax float32
}

// Pane is the top-level scene node: a named, positioned region that owns layers.
type Pane struct {
	Id               dcerr.Id
	Name             string
	Region           Region
	ClearColor       wgpu.Color
	ClearColorPresent bool
}

// Layer belongs to exactly one pane and owns draw items.
type Layer struct {
	Id     dcerr.Id
	PaneId dcerr.Id
	Name   string
}

// DrawItem binds a geometry to a pipeline and an optional transform, producing one
// draw call per render. Belongs to exactly one layer.
type DrawItem struct {
	Id          dcerr.Id
	LayerId     dcerr.Id
	Name        string
	Pipeline    string // "{name}@{version}" catalog key
	GeometryId  dcerr.Id
	TransformId dcerr.Id
	Color       wgpu.Color
	ColorUp     wgpu.Color
	ColorDown   wgpu.Color
	LineWidth   float32
}

// Geometry describes an instanced or non-instanced vertex stream: its format fixes
// the stride, its vertexCount is the logical record/instance count, and its bounds
// are an optional cached AABB for culling.
type Geometry struct {
	Id             dcerr.Id
	VertexBufferId dcerr.Id
	Format         dcerr.VertexFormat
	VertexCount    int
	BoundsMin      [2]float32
	BoundsMax      [2]float32
	BoundsValid    bool
}

// Buffer records only the byte length of a vertex buffer; the actual bytes live in
// the ingest processor's parallel CpuBuffer store.
type Buffer struct {
	Id         dcerr.Id
	ByteLength int
}

// TransformParams is the affine {scale, translate} pair a Transform carries.
type TransformParams struct {
	Sx, Sy float32
	Tx, Ty float32
}

// Transform is a shareable affine transform; many draw items may reference the same one.
type Transform struct {
	Id     dcerr.Id
	Params TransformParams
}
