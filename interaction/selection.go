package interaction

import "github.com/dynacharting/core/internal/dcerr"

// SelectionKey identifies one selected record within a draw item's buffer.
type SelectionKey struct {
	DrawItemId  dcerr.Id
	RecordIndex uint32
}

// SelectionMode governs how Select/Toggle mutate the current selection.
type SelectionMode int

const (
	SelectionSingle SelectionMode = iota
	SelectionToggle
)

// SelectionState tracks which records are selected, plus enough per-draw-item
// record counts to support Next/Previous navigation.
type SelectionState struct {
	mode         SelectionMode
	selected     []SelectionKey
	recordCounts map[dcerr.Id]uint32
}

// NewSelectionState returns an empty SelectionState in Single mode.
func NewSelectionState() *SelectionState {
	return &SelectionState{recordCounts: make(map[dcerr.Id]uint32)}
}

// SetMode changes selection mode; existing selection is left untouched.
func (s *SelectionState) SetMode(mode SelectionMode) { s.mode = mode }

// Mode reports the current selection mode.
func (s *SelectionState) Mode() SelectionMode { return s.mode }

// Select replaces the selection with {key} in both modes; in Toggle mode it
// is still exclusive. Use Toggle to add a key while keeping the others.
func (s *SelectionState) Select(key SelectionKey) {
	s.selected = append(s.selected[:0], key)
}

// Deselect removes key, a no-op if not selected.
func (s *SelectionState) Deselect(key SelectionKey) {
	s.remove(key)
}

// Toggle inserts key if absent, removes it if present. In Single mode,
// inserting clears any other selection first.
func (s *SelectionState) Toggle(key SelectionKey) {
	if s.contains(key) {
		s.remove(key)
		return
	}
	if s.mode == SelectionSingle {
		s.selected = s.selected[:0]
	}
	s.selected = append(s.selected, key)
}

// Clear empties the selection.
func (s *SelectionState) Clear() { s.selected = nil }

// IsSelected reports whether key is currently selected.
func (s *SelectionState) IsSelected(key SelectionKey) bool { return s.contains(key) }

// HasSelection reports whether any record is selected.
func (s *SelectionState) HasSelection() bool { return len(s.selected) > 0 }

// SelectedKeys returns a copy of the current selection, in selection order.
func (s *SelectionState) SelectedKeys() []SelectionKey {
	out := make([]SelectionKey, len(s.selected))
	copy(out, s.selected)
	return out
}

// SetRecordCount registers drawItemId's record count, enabling Next/Previous
// bounds checking for that draw item.
func (s *SelectionState) SetRecordCount(drawItemId dcerr.Id, count uint32) {
	s.recordCounts[drawItemId] = count
}

// SelectNext moves the current (most-recently-selected) key forward by one
// record, replacing the whole selection with just that key. Fails if there is
// no current selection, no registered record count for it, or it is already
// at the last record.
func (s *SelectionState) SelectNext() bool {
	if len(s.selected) == 0 {
		return false
	}
	cur := s.selected[len(s.selected)-1]
	count, ok := s.recordCounts[cur.DrawItemId]
	if !ok || cur.RecordIndex+1 >= count {
		return false
	}
	s.selected = []SelectionKey{{DrawItemId: cur.DrawItemId, RecordIndex: cur.RecordIndex + 1}}
	return true
}

// SelectPrevious symmetrically moves backward by one record. Fails if there is
// no current selection, no registered record count for it, or it is already at
// record 0.
func (s *SelectionState) SelectPrevious() bool {
	if len(s.selected) == 0 {
		return false
	}
	cur := s.selected[len(s.selected)-1]
	if _, ok := s.recordCounts[cur.DrawItemId]; !ok || cur.RecordIndex == 0 {
		return false
	}
	s.selected = []SelectionKey{{DrawItemId: cur.DrawItemId, RecordIndex: cur.RecordIndex - 1}}
	return true
}

// Current returns the most-recently-selected key, or the zero value if empty.
func (s *SelectionState) Current() SelectionKey {
	if len(s.selected) == 0 {
		return SelectionKey{}
	}
	return s.selected[len(s.selected)-1]
}

func (s *SelectionState) contains(key SelectionKey) bool {
	for _, k := range s.selected {
		if k == key {
			return true
		}
	}
	return false
}

func (s *SelectionState) remove(key SelectionKey) {
	out := s.selected[:0]
	for _, k := range s.selected {
		if k != key {
			out = append(out, k)
		}
	}
	s.selected = out
}
