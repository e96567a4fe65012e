package session

import (
	"encoding/json"
	"fmt"

	"github.com/dynacharting/core/drawing"
	"github.com/dynacharting/core/interaction"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/viewport"
)

// ChartStateVersion is stamped onto every Snapshot and checked by nothing yet;
// a future incompatible ChartState shape bumps this.
const ChartStateVersion = "1.0"

// ViewportState is one attached viewport's visible data range, keyed by the
// pane it belongs to. original_source's ChartState carries exactly one of
// these (a single ViewportState field); this port carries one per attached
// viewport since Session supports multiple.
type ViewportState struct {
	PaneId dcerr.Id `json:"paneId"`
	XMin   float64  `json:"xMin"`
	XMax   float64  `json:"xMax"`
	YMin   float64  `json:"yMin"`
	YMax   float64  `json:"yMax"`
}

// SelectionEntry is one selected record, carried the same shape as
// interaction.SelectionKey so ChartState doesn't need to import interaction's
// internals beyond the type itself.
type SelectionEntry struct {
	DrawItemId  dcerr.Id `json:"drawItemId"`
	RecordIndex uint32   `json:"recordIndex"`
}

// ChartState is a serialisable snapshot of everything a reloaded chart needs
// to look the way it did when captured: every viewport's visible range, the
// drawing store's contents, and the current selection. Grounded on
// original_source/core/include/dc/session/ChartState.hpp; persisting it to
// disk is an external collaborator's job (spec.md's Non-goals exclude
// chart-state persistence), so ChartState and its JSON round-trip are as far
// as this package goes. themeName is deliberately omitted: spec.md's
// Non-goals exclude theme serialisation outright, unlike persistence, which
// is only excluded at the to-disk boundary.
type ChartState struct {
	Version      string          `json:"version"`
	Viewports    []ViewportState `json:"viewports,omitempty"`
	DrawingsJSON json.RawMessage `json:"drawings,omitempty"`
	Selection    []SelectionEntry `json:"selection,omitempty"`
	Symbol       string          `json:"symbol,omitempty"`
	Timeframe    string          `json:"timeframe,omitempty"`
}

// Snapshot captures every attached viewport's data range plus, when drawings
// and/or selection are non-nil, their current contents. symbol and timeframe
// are caller-supplied metadata (the Session itself tracks neither).
func (s *Session) Snapshot(drawings *drawing.Store, selection *interaction.SelectionState, symbol, timeframe string) (ChartState, error) {
	state := ChartState{Version: ChartStateVersion, Symbol: symbol, Timeframe: timeframe}

	for _, vp := range s.viewports {
		dr := vp.Viewport.DataRange()
		state.Viewports = append(state.Viewports, ViewportState{
			PaneId: vp.PaneId,
			XMin:   dr.XMin,
			XMax:   dr.XMax,
			YMin:   dr.YMin,
			YMax:   dr.YMax,
		})
	}

	if drawings != nil {
		raw, err := drawings.ToJSON()
		if err != nil {
			return ChartState{}, fmt.Errorf("snapshot: drawings: %w", err)
		}
		state.DrawingsJSON = raw
	}

	if selection != nil {
		for _, key := range selection.SelectedKeys() {
			state.Selection = append(state.Selection, SelectionEntry{
				DrawItemId:  key.DrawItemId,
				RecordIndex: key.RecordIndex,
			})
		}
	}

	return state, nil
}

// Restore applies state's viewport ranges back onto the matching attached
// viewports (matched by PaneId) and re-syncs every managed transform so the
// restored ranges take effect immediately. If drawings/selection are non-nil,
// their contents are replaced from state. Restore does not recreate panes,
// viewports, or recipes -- those must already be mounted/attached exactly as
// they were when Snapshot was taken.
func (s *Session) Restore(state ChartState, drawings *drawing.Store, selection *interaction.SelectionState) error {
	for _, vs := range state.Viewports {
		for i := range s.viewports {
			if s.viewports[i].PaneId == vs.PaneId {
				s.viewports[i].Viewport.SetDataRange(viewport.DataRange{
					XMin: vs.XMin, XMax: vs.XMax,
					YMin: vs.YMin, YMax: vs.YMax,
				})
			}
		}
	}

	for transformId := range s.managedTransforms {
		if owner := s.ownerViewportFor(transformId); owner != nil {
			s.syncTransform(transformId, owner.Viewport)
		}
	}

	if drawings != nil && len(state.DrawingsJSON) > 0 {
		if err := drawings.LoadJSON(state.DrawingsJSON); err != nil {
			return fmt.Errorf("restore: drawings: %w", err)
		}
	}

	if selection != nil {
		selection.Clear()
		for _, entry := range state.Selection {
			selection.Toggle(interaction.SelectionKey{
				DrawItemId:  entry.DrawItemId,
				RecordIndex: entry.RecordIndex,
			})
		}
	}

	return nil
}

// SerializeChartState and DeserializeChartState mirror original_source's free
// serializeChartState/deserializeChartState functions, using encoding/json in
// place of rapidjson. Unlike the original, DeserializeChartState returns an
// error on malformed JSON rather than a bool-plus-out-param.
func SerializeChartState(state ChartState) (string, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("serialize chart state: %w", err)
	}
	return string(b), nil
}

func DeserializeChartState(data string) (ChartState, error) {
	var state ChartState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return ChartState{}, fmt.Errorf("deserialize chart state: %w", err)
	}
	return state, nil
}
