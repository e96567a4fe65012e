// Package aggregation implements the Aggregation Manager: per-binding bookkeeping
// that rebinds a geometry between its raw buffer and a shadow aggregate buffer as the
// Resolution Controller's selected tier changes, and keeps the aggregate fresh when
// raw data mutates while a non-Raw tier is active.
package aggregation

import (
	"github.com/dynacharting/core/aggregate"
	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/resolution"
)

// DefaultBufferIdOffset is the constant added to a rawBufferId to derive its
// shadow aggregate buffer's id, per spec.md §3's AggregationBinding definition.
const DefaultBufferIdOffset = 50000

// Binding is one {rawBufferId, aggBufferId, geometryId} triple tracked by the Manager.
type Binding struct {
	RawBufferId dcerr.Id
	AggBufferId dcerr.Id
	GeometryId  dcerr.Id
}

// Manager owns a set of Bindings and keeps their bound geometry pointed at either the
// raw buffer (Raw tier) or a freshly recomputed aggregate buffer (any other tier).
type Manager interface {
	// AddBinding registers a new binding. aggBufferId is rawBufferId + offset.
	AddBinding(b Binding)

	// RemoveBinding drops any binding whose GeometryId matches.
	RemoveBinding(geometryId dcerr.Id)

	// OnViewportChanged re-evaluates the Resolution Controller from ppdu; if the tier
	// changed, every binding is rebound accordingly. Returns the buffer ids that changed.
	OnViewportChanged(ppdu float64, ing ingest.Processor, cp command.Processor) []dcerr.Id

	// OnRawDataChanged recomputes the aggregate for every binding whose RawBufferId is
	// in touchedRawIds, provided the current tier is not Raw. Returns the agg-buffer
	// ids that were recomputed.
	OnRawDataChanged(touchedRawIds []dcerr.Id, ing ingest.Processor) []dcerr.Id

	// Tier exposes the controller's current tier, for callers that need to branch on it.
	Tier() resolution.Tier
}

type manager struct {
	controller resolution.Controller
	bindings   []Binding
}

var _ Manager = (*manager)(nil)

// New creates a Manager driven by the given Resolution Controller.
func New(controller resolution.Controller) Manager {
	return &manager{controller: controller}
}

func (m *manager) AddBinding(b Binding) {
	m.bindings = append(m.bindings, b)
}

func (m *manager) RemoveBinding(geometryId dcerr.Id) {
	out := m.bindings[:0]
	for _, b := range m.bindings {
		if b.GeometryId != geometryId {
			out = append(out, b)
		}
	}
	m.bindings = out
}

func (m *manager) Tier() resolution.Tier {
	return m.controller.Tier()
}

func (m *manager) OnViewportChanged(ppdu float64, ing ingest.Processor, cp command.Processor) []dcerr.Id {
	changed := m.controller.Evaluate(ppdu)
	if !changed {
		return nil
	}

	var touched []dcerr.Id
	tier := m.controller.Tier()

	for _, b := range m.bindings {
		if tier.Factor <= 1 {
			rawLen := ing.Size(b.RawBufferId)
			vertexCount := rawLen / dcerr.CandleRecordBytes
			if vertexCount < 1 {
				vertexCount = 1
			}
			cp.Process(rebindCmd(b.GeometryId, b.RawBufferId))
			cp.Process(setVertexCountCmd(b.GeometryId, vertexCount))
			touched = append(touched, b.RawBufferId)
			continue
		}

		rawBytes := ing.Bytes(b.RawBufferId)
		agg := aggregate.Aggregate(rawBytes, len(rawBytes), tier.Factor)
		ing.SetBufferData(b.AggBufferId, agg.Bytes)
		cp.Process(rebindCmd(b.GeometryId, b.AggBufferId))
		cp.Process(setVertexCountCmd(b.GeometryId, agg.CandleCount))
		touched = append(touched, b.AggBufferId)
	}

	return touched
}

func (m *manager) OnRawDataChanged(touchedRawIds []dcerr.Id, ing ingest.Processor) []dcerr.Id {
	tier := m.controller.Tier()
	if tier.Factor <= 1 {
		return nil
	}

	touchedSet := make(map[dcerr.Id]bool, len(touchedRawIds))
	for _, id := range touchedRawIds {
		touchedSet[id] = true
	}

	var modified []dcerr.Id
	for _, b := range m.bindings {
		if !touchedSet[b.RawBufferId] {
			continue
		}
		rawBytes := ing.Bytes(b.RawBufferId)
		agg := aggregate.Aggregate(rawBytes, len(rawBytes), tier.Factor)
		ing.SetBufferData(b.AggBufferId, agg.Bytes)
		modified = append(modified, b.AggBufferId)
	}
	return modified
}
