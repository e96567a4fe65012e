// Package pipeline implements the Pipeline Catalog: a static, read-only-after-init
// registry of named/versioned draw pipelines. It adapts the teacher repo's
// renderer/pipeline.Pipeline concept (itself built on cogentcore/webgpu) down to the
// metadata slice the core's render boundary needs — vertex format, draw mode, and
// vertices-per-instance — without constructing any live GPU pipeline object, since
// GPU execution belongs to the external renderer, not the core.
package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/dynacharting/core/internal/dcerr"
)

// CatalogEntry describes one registered pipeline: its required vertex format, its
// GPU draw-mode topology, and how many vertices the renderer must emit per instance
// for instanced draws (1 for non-instanced pipelines, driven by DrawCall not DrawCallIndexed).
type CatalogEntry struct {
	Name                string
	Version             int
	Format              dcerr.VertexFormat
	DrawMode            wgpu.PrimitiveTopology
	VerticesPerInstance int
}

// Key returns the catalog's canonical "{name}@{version}" lookup key for this entry.
func (e CatalogEntry) Key() string {
	return fmt.Sprintf("%s@%d", e.Name, e.Version)
}

// Catalog is the read-only-after-init pipeline registry. Implementations must be
// safe for concurrent reads once construction completes.
type Catalog interface {
	// Lookup returns the entry registered under "{name}@{version}", or false if
	// no such pipeline is known.
	//
	// Parameters:
	//   - key: the "{name}@{version}" lookup key
	//
	// Returns:
	//   - CatalogEntry: the matching entry, zero value if not found
	//   - bool: true iff found
	Lookup(key string) (CatalogEntry, bool)

	// All returns every registered entry, in registration order.
	All() []CatalogEntry
}

type catalog struct {
	byKey map[string]CatalogEntry
	order []CatalogEntry
}

var _ Catalog = (*catalog)(nil)

// NewDefaultCatalog returns a Catalog pre-populated with the core's built-in
// pipelines: triSolid@1, line2d@1, points@1, lineAA@1, instancedRect@1,
// instancedCandle@1, and textSDF@1.
func NewDefaultCatalog() Catalog {
	c := &catalog{byKey: make(map[string]CatalogEntry)}
	for _, e := range []CatalogEntry{
		{Name: "triSolid", Version: 1, Format: dcerr.FormatPos2Clip, DrawMode: wgpu.PrimitiveTopologyTriangleList, VerticesPerInstance: 1},
		{Name: "line2d", Version: 1, Format: dcerr.FormatPos2Clip, DrawMode: wgpu.PrimitiveTopologyLineList, VerticesPerInstance: 1},
		{Name: "points", Version: 1, Format: dcerr.FormatPos2Clip, DrawMode: wgpu.PrimitiveTopologyPointList, VerticesPerInstance: 1},
		{Name: "lineAA", Version: 1, Format: dcerr.FormatRect4, DrawMode: wgpu.PrimitiveTopologyLineList, VerticesPerInstance: 1},
		{Name: "instancedRect", Version: 1, Format: dcerr.FormatRect4, DrawMode: wgpu.PrimitiveTopologyTriangleList, VerticesPerInstance: 6},
		{Name: "instancedCandle", Version: 1, Format: dcerr.FormatCandle6, DrawMode: wgpu.PrimitiveTopologyTriangleList, VerticesPerInstance: 12},
		{Name: "textSDF", Version: 1, Format: dcerr.FormatGlyph8, DrawMode: wgpu.PrimitiveTopologyTriangleList, VerticesPerInstance: 6},
	} {
		c.register(e)
	}
	return c
}

func (c *catalog) register(e CatalogEntry) {
	c.byKey[e.Key()] = e
	c.order = append(c.order, e)
}

func (c *catalog) Lookup(key string) (CatalogEntry, bool) {
	e, ok := c.byKey[key]
	return e, ok
}

func (c *catalog) All() []CatalogEntry {
	out := make([]CatalogEntry, len(c.order))
	copy(out, c.order)
	return out
}
