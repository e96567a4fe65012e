// Package layout implements the LayoutManager: vertical pane stacking with
// fractional heights, draggable divider resizing, and region recomputation.
// Grounded on original_source's LayoutManager.hpp/.cpp, a spec.md §3.1 supplement
// not named by spec.md's own component table. The original's PaneLayout.hpp/.cpp
// (computePaneLayout) is referenced by LayoutManager.cpp but not present in the
// reference pack; computePaneLayout below is inferred from that call site's
// contract (fractions, gap, margin -> per-pane clip regions).
package layout

import (
	"encoding/json"

	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/scene"
)

// PaneEntry assigns a fraction of the available vertical space to a pane.
type PaneEntry struct {
	PaneId   dcerr.Id
	Fraction float32
}

// Config tunes the layout's spacing and resize limits.
type Config struct {
	Gap         float32
	Margin      float32
	MinFraction float32
}

// DefaultConfig matches the original's defaults.
func DefaultConfig() Config {
	return Config{Gap: 0.05, Margin: 0.05, MinFraction: 0.1}
}

// Manager stacks panes top-to-bottom within clip space [-1, +1], separated by
// gaps and bounded by margins, each sized proportional to its fraction.
type Manager struct {
	config  Config
	entries []PaneEntry
	regions []scene.Region
}

// New creates a Manager with the given config.
func New(cfg Config) *Manager {
	return &Manager{config: cfg}
}

// SetConfig replaces the spacing configuration and recomputes regions.
func (m *Manager) SetConfig(cfg Config) {
	m.config = cfg
	m.recompute()
}

// SetPanes replaces the full set of panes and their fractions.
func (m *Manager) SetPanes(entries []PaneEntry) {
	m.entries = append([]PaneEntry(nil), entries...)
	m.recompute()
}

// AddPane appends a pane with the given fraction.
func (m *Manager) AddPane(paneId dcerr.Id, fraction float32) {
	m.entries = append(m.entries, PaneEntry{PaneId: paneId, Fraction: fraction})
	m.recompute()
}

// RemovePane removes paneId, a no-op if unknown.
func (m *Manager) RemovePane(paneId dcerr.Id) {
	out := m.entries[:0]
	for _, e := range m.entries {
		if e.PaneId != paneId {
			out = append(out, e)
		}
	}
	m.entries = out
	m.recompute()
}

// GetFraction returns paneId's fraction, or 0 if unknown.
func (m *Manager) GetFraction(paneId dcerr.Id) float32 {
	for _, e := range m.entries {
		if e.PaneId == paneId {
			return e.Fraction
		}
	}
	return 0
}

// DividerCount returns the number of draggable dividers between panes.
func (m *Manager) DividerCount() int {
	if len(m.entries) > 1 {
		return len(m.entries) - 1
	}
	return 0
}

// ResizeDivider shifts dividerIndex by delta fraction, clamping so neither
// adjacent pane's fraction drops below minFraction * totalFraction.
func (m *Manager) ResizeDivider(dividerIndex int, delta float32) {
	if dividerIndex < 0 || dividerIndex >= m.DividerCount() {
		return
	}
	above := &m.entries[dividerIndex]
	below := &m.entries[dividerIndex+1]

	var totalFrac float32
	for _, e := range m.entries {
		totalFrac += e.Fraction
	}
	minFrac := m.config.MinFraction * totalFrac

	maxGrow := below.Fraction - minFrac
	maxShrink := above.Fraction - minFrac

	clamped := delta
	if clamped > maxGrow {
		clamped = maxGrow
	}
	if clamped < -maxShrink {
		clamped = -maxShrink
	}

	above.Fraction += clamped
	below.Fraction -= clamped
	m.recompute()
}

// DividerClipY returns the clip-space Y of dividerIndex: the midpoint of the
// gap between the pane above and the pane below.
func (m *Manager) DividerClipY(dividerIndex int) float32 {
	if dividerIndex < 0 || dividerIndex >= m.DividerCount() || len(m.regions) <= dividerIndex+1 {
		return 0
	}
	return (m.regions[dividerIndex].ClipYMin + m.regions[dividerIndex+1].ClipYMax) / 2
}

// Regions returns the current per-pane clip regions, in entry order.
func (m *Manager) Regions() []scene.Region {
	return append([]scene.Region(nil), m.regions...)
}

func (m *Manager) recompute() {
	fractions := make([]float32, len(m.entries))
	for i, e := range m.entries {
		fractions[i] = e.Fraction
	}
	m.regions = computePaneLayout(fractions, m.config.Gap, m.config.Margin)
}

// ApplyLayout recomputes regions and issues one setPaneRegion command per pane
// through cp.
func (m *Manager) ApplyLayout(cp command.Processor) {
	m.recompute()
	n := len(m.entries)
	if len(m.regions) < n {
		n = len(m.regions)
	}
	for i := 0; i < n; i++ {
		b, _ := json.Marshal(map[string]any{
			"cmd":      "setPaneRegion",
			"id":       uint64(m.entries[i].PaneId),
			"clipYMin": m.regions[i].ClipYMin,
			"clipYMax": m.regions[i].ClipYMax,
			"clipXMin": m.regions[i].ClipXMin,
			"clipXMax": m.regions[i].ClipXMax,
		})
		cp.Process(b)
	}
}

// computePaneLayout stacks panes top-to-bottom, full width, within clip space
// [-1, +1], with margin at the outer top/bottom edges and gap between adjacent
// panes. Each pane's height is proportional to its fraction of the total.
func computePaneLayout(fractions []float32, gap, margin float32) []scene.Region {
	n := len(fractions)
	if n == 0 {
		return nil
	}

	var totalFrac float32
	for _, f := range fractions {
		totalFrac += f
	}
	if totalFrac <= 0 {
		totalFrac = 1
	}

	totalSpan := float32(2.0)
	available := totalSpan - 2*margin - float32(n-1)*gap
	if available < 0 {
		available = 0
	}

	regions := make([]scene.Region, n)
	y := float32(1.0) - margin
	for i, f := range fractions {
		h := (f / totalFrac) * available
		regions[i] = scene.Region{
			ClipXMin: -1, ClipXMax: 1,
			ClipYMax: y, ClipYMin: y - h,
		}
		y -= h + gap
	}
	return regions
}
