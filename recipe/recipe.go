// Package recipe implements Recipe: a composable bundle of create/dispose JSON
// commands plus data subscriptions and series metadata, assigned a contiguous
// block of IDs from a caller-supplied base. Grounded on spec.md §6's Recipe
// interface; the built-ins are each grounded on one
// original_source/core/include/dc/recipe/*.hpp + core/src/recipe/*.cpp pair.
package recipe

import "github.com/dynacharting/core/internal/dcerr"

// Subscription declares that the Live Ingest Loop should keep geometryId's
// vertex count in sync whenever bufferId is touched.
type Subscription struct {
	BufferId   dcerr.Id
	GeometryId dcerr.Id
	Format     dcerr.VertexFormat
}

// SeriesInfo is user-facing metadata about one data series a recipe renders,
// for a legend or series-toggle UI.
type SeriesInfo struct {
	Name            string
	ColorHint       [4]float32
	DefaultVisible  bool
	DrawItemIds     []dcerr.Id
}

// BuildResult is everything a recipe contributes to a mounted session: the
// commands that create its resources, the commands that tear them back down
// (in teardown order), and any buffer subscriptions it wants kept live.
type BuildResult struct {
	CreateCommands  [][]byte
	DisposeCommands [][]byte
	Subscriptions   []Subscription
}

// Recipe is a composable bundle of scene resources plus optional data wiring.
// Implementations own a contiguous block of IDs starting at idBase; Build's
// create/dispose commands must reference exactly those IDs so a later unmount
// tears down precisely what mount created.
type Recipe interface {
	Build() BuildResult
	DrawItemIds() []dcerr.Id
	SeriesInfoList() []SeriesInfo
}

// Base provides the idBase + slot-count bookkeeping shared by every built-in
// recipe; concrete recipes embed it and expose named accessors over rid(slot).
type Base struct {
	idBase dcerr.Id
}

// NewBase returns a Base reserving idBase as slot 0.
func NewBase(idBase dcerr.Id) Base {
	return Base{idBase: idBase}
}

// rid returns the Id for the given slot offset from idBase.
func (b Base) rid(slot uint32) dcerr.Id {
	return b.idBase + dcerr.Id(slot)
}

// IdBase returns the recipe's reserved base Id.
func (b Base) IdBase() dcerr.Id { return b.idBase }
