// Package session implements the Chart Session: the per-chart orchestrator that
// owns a Command Processor, an Ingest Processor, the Live Ingest Loop, an optional
// Aggregation Manager, and one or more mounted Recipes each bound to a Viewport.
// Grounded on original_source/core/include/dc/session/ChartSession.hpp and
// core/src/session/ChartSession.cpp, extended per spec.md §4.J/§5/§6 where the
// original's single-viewport, aggregation-omitting design falls short of the
// canonical spec: this package supports multiple viewports with optional X-axis
// linking, and correctly wires aggregation into the update loop where the
// original declares aggManager_ but never calls it.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dynacharting/core/aggregation"
	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/datasource"
	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/ingestloop"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/recipe"
	"github.com/dynacharting/core/viewport"
)

// RecipeHandle identifies one mounted recipe. Minted fresh on every Mount via
// uuid.New(), rather than the original's incrementing uint32_t, so handles stay
// valid and non-colliding across reconnects and session migration.
type RecipeHandle uuid.UUID

// String renders the handle for logging.
func (h RecipeHandle) String() string { return uuid.UUID(h).String() }

// NilRecipeHandle is the zero-value handle, never assigned to a live mount.
var NilRecipeHandle = RecipeHandle(uuid.Nil)

// RetentionPolicy bounds how many bytes the Ingest Processor keeps per buffer.
type RetentionPolicy struct {
	MaxBytesPerBuffer int
}

// DefaultRetentionPolicy returns a 4 MiB per-buffer cap.
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{MaxBytesPerBuffer: 4 * 1024 * 1024}
}

// SmartRetentionConfig governs dynamically sizing a Candle6 buffer's retention cap
// to the primary viewport's visible width, instead of a fixed policy.
type SmartRetentionConfig struct {
	RetentionMultiplier float64
	MinRetention        int
	MaxRetention         int
}

// DefaultSmartRetentionConfig returns the original's tuned defaults.
func DefaultSmartRetentionConfig() SmartRetentionConfig {
	return SmartRetentionConfig{
		RetentionMultiplier: 3.0,
		MinRetention:        64 * 1024,
		MaxRetention:        8 * 1024 * 1024,
	}
}

// ChartSessionConfig bundles every tunable a Session is constructed with.
type ChartSessionConfig struct {
	Retention            RetentionPolicy
	SmartRetention        SmartRetentionConfig
	EnableAggregation     bool
	EnableSmartRetention  bool
	LinkXAxis             bool
}

// DefaultChartSessionConfig returns a Session configuration with aggregation and
// smart retention both disabled and X-axis linking enabled (the common multi-pane
// layout: one primary price pane plus linked indicator/volume panes).
func DefaultChartSessionConfig() ChartSessionConfig {
	return ChartSessionConfig{
		Retention:      DefaultRetentionPolicy(),
		SmartRetention: DefaultSmartRetentionConfig(),
		LinkXAxis:      true,
	}
}

// FrameResult reports what one Update call actually did, for metrics and test assertions.
type FrameResult struct {
	TouchedBufferIds  []dcerr.Id
	DataChanged       bool
	ViewportChanged   bool
	ResolutionChanged bool
}

// ViewportSlot is one (paneId, Viewport, transformId) triple attached to the
// session. The original C++ ChartSession supports exactly one Viewport*; spec.md
// §4.J requires multiple, with the Primary one distinguished as the source of
// truth for X-axis linking onto every other attached viewport.
type ViewportSlot struct {
	PaneId      dcerr.Id
	Viewport    viewport.Viewport
	TransformId dcerr.Id
	Primary     bool

	lastXMin, lastXMax float64
}

// MountedSlot is the bookkeeping a Session keeps for one mounted Recipe.
type MountedSlot struct {
	Handle          RecipeHandle
	Recipe          recipe.Recipe
	SharedTransform dcerr.Id
	Subscriptions   []recipe.Subscription

	computeCallback      func(touched []dcerr.Id) []dcerr.Id
	computeDependencies  map[dcerr.Id]bool
	recomputeOnViewport  bool
}

// Session is the Chart Session: the orchestrator binding the Command Processor,
// Ingest Processor, Live Ingest Loop, optional Aggregation Manager, and every
// mounted Recipe/Viewport pair into one coherent per-frame update.
type Session struct {
	cp  command.Processor
	ing ingest.Processor
	loop *ingestloop.Loop
	agg aggregation.Manager

	cfg ChartSessionConfig

	viewports []ViewportSlot

	slots        map[RecipeHandle]*MountedSlot
	slotOrder    []RecipeHandle
	dependents   map[dcerr.Id][]RecipeHandle // upstreamBufferId -> dependent handles
	managedTransforms map[dcerr.Id]bool
}

// New creates a Session over an already-constructed Command Processor, Ingest
// Processor, and Live Ingest Loop. agg may be nil if aggregation is never enabled.
func New(cp command.Processor, ing ingest.Processor, loop *ingestloop.Loop, agg aggregation.Manager, cfg ChartSessionConfig) *Session {
	return &Session{
		cp:   cp,
		ing:  ing,
		loop: loop,
		agg:  agg,
		cfg:  cfg,

		slots:             make(map[RecipeHandle]*MountedSlot),
		dependents:        make(map[dcerr.Id][]RecipeHandle),
		managedTransforms: make(map[dcerr.Id]bool),
	}
}

// AttachViewport adds a (paneId, Viewport, transformId) triple. The first viewport
// attached (or the one explicitly passed primary=true) is used as the X-axis
// linking source and drives the Live Ingest Loop's auto-scroll/auto-scale.
func (s *Session) AttachViewport(paneId dcerr.Id, vp viewport.Viewport, transformId dcerr.Id, primary bool) {
	if primary || len(s.viewports) == 0 {
		for i := range s.viewports {
			s.viewports[i].Primary = false
		}
		s.loop.Viewport = vp
	}
	dr := vp.DataRange()
	s.viewports = append(s.viewports, ViewportSlot{
		PaneId:      paneId,
		Viewport:    vp,
		TransformId: transformId,
		Primary:     primary || len(s.viewports) == 0,
		lastXMin:    dr.XMin,
		lastXMax:    dr.XMax,
	})
	if transformId != dcerr.InvalidId {
		s.managedTransforms[transformId] = true
	}
}

// Viewports returns the currently attached viewport slots, in attach order.
func (s *Session) Viewports() []ViewportSlot {
	out := make([]ViewportSlot, len(s.viewports))
	copy(out, s.viewports)
	return out
}

func (s *Session) primaryViewport() *ViewportSlot {
	for i := range s.viewports {
		if s.viewports[i].Primary {
			return &s.viewports[i]
		}
	}
	if len(s.viewports) > 0 {
		return &s.viewports[0]
	}
	return nil
}

// Mount builds r, applies its create commands, wires its subscriptions into the
// Live Ingest Loop, and optionally attaches a shared transform to every one of its
// draw items. If any create command fails, the recipe's whole dispose list is
// applied in reverse order before the error is returned; it is not narrowed to
// the resources whose create commands had already succeeded (see rollback).
func (s *Session) Mount(r recipe.Recipe, sharedTransformId dcerr.Id) (RecipeHandle, error) {
	handle := RecipeHandle(uuid.New())
	built := r.Build()

	for _, cmd := range built.CreateCommands {
		res := s.cp.Process(cmd)
		if !res.Ok {
			s.rollback(built.DisposeCommands)
			return NilRecipeHandle, fmt.Errorf("mount: create command failed: %v", res.Err)
		}
	}

	if sharedTransformId != dcerr.InvalidId {
		for _, drawItemId := range r.DrawItemIds() {
			res := s.cp.Process(attachTransformJSON(drawItemId, sharedTransformId))
			if !res.Ok {
				s.rollback(built.DisposeCommands)
				return NilRecipeHandle, fmt.Errorf("mount: attachTransform failed: %v", res.Err)
			}
		}
		s.managedTransforms[sharedTransformId] = true
	}

	for i := range built.Subscriptions {
		sub := built.Subscriptions[i]
		s.ing.EnsureBuffer(sub.BufferId)
		s.ing.SetMaxBytes(sub.BufferId, s.cfg.Retention.MaxBytesPerBuffer)

		if s.cfg.EnableAggregation && s.agg != nil && sub.Format == dcerr.FormatCandle6 {
			aggBufId := sub.BufferId + aggregation.DefaultBufferIdOffset
			s.agg.AddBinding(aggregation.Binding{
				RawBufferId: sub.BufferId,
				AggBufferId: aggBufId,
				GeometryId:  sub.GeometryId,
			})
		}
	}

	slot := &MountedSlot{
		Handle:              handle,
		Recipe:              r,
		SharedTransform:      sharedTransformId,
		Subscriptions:       built.Subscriptions,
		computeDependencies: make(map[dcerr.Id]bool),
	}
	s.slots[handle] = slot
	s.slotOrder = append(s.slotOrder, handle)

	s.rebuildBindings()

	return handle, nil
}

// rollback applies disposeCommands in reverse. A recipe's create and dispose
// lists are not always 1:1 (e.g. deleting a draw item cascades its bind/style),
// so this disposes the whole list rather than tracking exactly which create
// commands succeeded; deleting a resource that was never created is a no-op
// failure on an already-absent id, not a hazard.
func (s *Session) rollback(disposeCommands [][]byte) {
	for i := len(disposeCommands) - 1; i >= 0; i-- {
		s.cp.Process(disposeCommands[i])
	}
}

// Unmount applies slot's dispose commands in order, removes it from every
// dependency list, unregisters its shared transform if no other slot still uses
// it, and rebuilds Live Ingest Loop bindings. Returns false if handle is unknown.
func (s *Session) Unmount(handle RecipeHandle) bool {
	slot, ok := s.slots[handle]
	if !ok {
		return false
	}

	built := slot.Recipe.Build()
	for _, cmd := range built.DisposeCommands {
		s.cp.Process(cmd)
	}

	for bufId, handles := range s.dependents {
		s.dependents[bufId] = removeHandle(handles, handle)
	}

	if slot.SharedTransform != dcerr.InvalidId {
		s.unregisterTransformIfUnused(slot.SharedTransform)
	}

	delete(s.slots, handle)
	s.slotOrder = removeHandle(s.slotOrder, handle)

	s.rebuildBindings()
	return true
}

// UnmountAll tears down every mounted slot.
func (s *Session) UnmountAll() {
	for _, handle := range append([]RecipeHandle(nil), s.slotOrder...) {
		s.Unmount(handle)
	}
}

// IsMounted reports whether handle refers to a currently mounted slot.
func (s *Session) IsMounted(handle RecipeHandle) bool {
	_, ok := s.slots[handle]
	return ok
}

// GetRecipe returns the Recipe mounted under handle, if any.
func (s *Session) GetRecipe(handle RecipeHandle) (recipe.Recipe, bool) {
	slot, ok := s.slots[handle]
	if !ok {
		return nil, false
	}
	return slot.Recipe, true
}

// SetComputeCallback installs fn as handle's compute callback, invoked whenever
// any of its registered compute dependencies is touched. fn returns the buffer
// ids it mutated, so those feed back into the touched set for this frame.
func (s *Session) SetComputeCallback(handle RecipeHandle, fn func(touched []dcerr.Id) []dcerr.Id) {
	if slot, ok := s.slots[handle]; ok {
		slot.computeCallback = fn
	}
}

// AddComputeDependency registers that handle's compute callback must run
// whenever bufferId is touched by ingest or by another recipe's callback.
func (s *Session) AddComputeDependency(handle RecipeHandle, bufferId dcerr.Id) {
	slot, ok := s.slots[handle]
	if !ok {
		return
	}
	slot.computeDependencies[bufferId] = true
	s.dependents[bufferId] = appendIfAbsent(s.dependents[bufferId], handle)
}

// SetRecomputeOnViewportChange marks handle's compute callback as needing to run
// whenever any attached viewport's data range changes, in addition to any buffer
// dependency — used by recipes like ScrollIndicator whose output depends on the
// visible range rather than on raw data.
func (s *Session) SetRecomputeOnViewportChange(handle RecipeHandle, enabled bool) {
	if slot, ok := s.slots[handle]; ok {
		slot.recomputeOnViewport = enabled
	}
}

// Update runs one frame: drains source through the Live Ingest Loop, runs every
// dependent compute callback, feeds aggregation, syncs every managed transform,
// links secondary viewports' X range onto the primary, and applies smart
// retention. Implements spec.md §4.J's 7-step per-frame algorithm, which is the
// canonical, binding version — the original ChartSession::update() never invokes
// aggManager_ at all despite declaring the field; this Session always does when
// EnableAggregation is set.
func (s *Session) Update(source datasource.DataSource) FrameResult {
	result := FrameResult{}

	touched := s.loop.ConsumeAndUpdate(source, s.ing, s.cp)
	if len(touched) > 0 {
		result.DataChanged = true
	}
	touchedSet := toSet(touched)

	if len(touched) > 0 {
		ran := make(map[RecipeHandle]bool)
		for _, bufId := range touched {
			for _, handle := range s.dependents[bufId] {
				s.runComputeCallback(handle, ran, touchedSet)
			}
		}
	}

	if s.cfg.EnableAggregation && s.agg != nil {
		unionIds(touchedSet, s.agg.OnRawDataChanged(touched, s.ing))
	}

	if len(s.viewports) > 0 {
		ran := make(map[RecipeHandle]bool)
		for i := range s.viewports {
			vp := &s.viewports[i]
			dr := vp.Viewport.DataRange()
			viewportMoved := dr.XMin != vp.lastXMin || dr.XMax != vp.lastXMax
			if viewportMoved {
				result.ViewportChanged = true
			}
			for handle, slot := range s.slots {
				if slot.recomputeOnViewport && viewportMoved {
					s.runComputeCallback(handle, ran, touchedSet)
				}
			}
			vp.lastXMin, vp.lastXMax = dr.XMin, dr.XMax

			if s.cfg.EnableAggregation && s.agg != nil {
				changed := s.agg.OnViewportChanged(vp.Viewport.PixelsPerDataUnitX(), s.ing, s.cp)
				if len(changed) > 0 {
					result.ResolutionChanged = true
					unionIds(touchedSet, changed)
				}
			}
		}

		for transformId := range s.managedTransforms {
			owner := s.ownerViewportFor(transformId)
			if owner == nil {
				continue
			}
			s.syncTransform(transformId, owner.Viewport)
		}

		if s.cfg.LinkXAxis && len(s.viewports) > 1 {
			primary := s.primaryViewport()
			if primary != nil {
				primaryRange := primary.Viewport.DataRange()
				for i := range s.viewports {
					if s.viewports[i].Primary {
						continue
					}
					dr := s.viewports[i].Viewport.DataRange()
					dr.XMin, dr.XMax = primaryRange.XMin, primaryRange.XMax
					s.viewports[i].Viewport.SetDataRange(dr)
				}
			}
		}
	}

	if s.cfg.EnableSmartRetention {
		s.applySmartRetention()
	}

	result.TouchedBufferIds = setToSlice(touchedSet)
	return result
}

func (s *Session) runComputeCallback(handle RecipeHandle, ran map[RecipeHandle]bool, touchedSet map[dcerr.Id]bool) {
	if ran[handle] {
		return
	}
	ran[handle] = true
	slot, ok := s.slots[handle]
	if !ok || slot.computeCallback == nil {
		return
	}
	mutated := slot.computeCallback(setToSlice(touchedSet))
	unionIds(touchedSet, mutated)
}

func (s *Session) ownerViewportFor(transformId dcerr.Id) *ViewportSlot {
	for i := range s.viewports {
		if s.viewports[i].TransformId == transformId {
			return &s.viewports[i]
		}
	}
	for _, slot := range s.slots {
		if slot.SharedTransform == transformId {
			return s.primaryViewport()
		}
	}
	return nil
}

// syncTransform issues a setTransform command reflecting vp's current
// {scale, translate}. Update runs it for every managed transform before X-axis
// linking and smart retention.
func (s *Session) syncTransform(transformId dcerr.Id, vp viewport.Viewport) {
	p := vp.ComputeTransformParams()
	s.cp.Process(setTransformJSON(transformId, p.Sx, p.Sy, p.Tx, p.Ty))
}

func (s *Session) unregisterTransformIfUnused(transformId dcerr.Id) {
	for _, slot := range s.slots {
		if slot.SharedTransform == transformId {
			return
		}
	}
	for i := range s.viewports {
		if s.viewports[i].TransformId == transformId {
			return
		}
	}
	delete(s.managedTransforms, transformId)
}

// applySmartRetention clamps every subscribed Candle6 buffer's max byte cap to
// the primary viewport's visible data width, so a zoomed-out chart retains
// proportionally more history without an unbounded buffer at full zoom-in.
func (s *Session) applySmartRetention() {
	primary := s.primaryViewport()
	if primary == nil {
		return
	}
	dr := primary.Viewport.DataRange()
	visibleWidth := dr.XMax - dr.XMin
	if visibleWidth <= 0 {
		return
	}

	cfg := s.cfg.SmartRetention
	raw := visibleWidth * float64(dcerr.StrideOf(dcerr.FormatCandle6)) * cfg.RetentionMultiplier
	maxBytes := clampFloat(raw, float64(cfg.MinRetention), float64(cfg.MaxRetention))

	for _, slot := range s.slots {
		for _, sub := range slot.Subscriptions {
			if sub.Format == dcerr.FormatCandle6 {
				s.ing.SetMaxBytes(sub.BufferId, int(maxBytes))
			}
		}
	}
}

// rebuildBindings reassigns the Live Ingest Loop's Bindings field to the union of
// every mounted slot's subscriptions. ingestloop.Loop exposes Bindings as a plain
// field with no ClearBindings method, so this replaces it outright rather than
// mutating in place.
func (s *Session) rebuildBindings() {
	var bindings []ingestloop.Binding
	for _, handle := range s.slotOrder {
		slot := s.slots[handle]
		for _, sub := range slot.Subscriptions {
			bindings = append(bindings, ingestloop.Binding{
				BufferId:       sub.BufferId,
				GeometryId:     sub.GeometryId,
				BytesPerVertex: dcerr.StrideOf(sub.Format),
			})
		}
	}
	s.loop.Bindings = bindings
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toSet(ids []dcerr.Id) map[dcerr.Id]bool {
	set := make(map[dcerr.Id]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func setToSlice(set map[dcerr.Id]bool) []dcerr.Id {
	out := make([]dcerr.Id, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func unionIds(set map[dcerr.Id]bool, ids []dcerr.Id) {
	for _, id := range ids {
		set[id] = true
	}
}

func removeHandle(handles []RecipeHandle, target RecipeHandle) []RecipeHandle {
	out := handles[:0]
	for _, h := range handles {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

func appendIfAbsent(handles []RecipeHandle, h RecipeHandle) []RecipeHandle {
	for _, existing := range handles {
		if existing == h {
			return handles
		}
	}
	return append(handles, h)
}
