// Package interaction implements the chart's input-driven state: the
// drawing-creation state machine, selection state, measure state, and a
// generic undo/redo command history. Grounded on original_source's
// DrawingInteraction, SelectionState, MeasureState, and CommandHistory
// (spec.md §4.L).
package interaction

import "github.com/dynacharting/core/drawing"

// DrawingMode is a state in the drawing-creation state machine.
type DrawingMode int

const (
	ModeIdle DrawingMode = iota
	ModePlacingTrendlineFirst
	ModePlacingTrendlineSecond
	ModePlacingHorizontalLevel
	ModePlacingVerticalLine
	ModePlacingRectangleFirst
	ModePlacingRectangleSecond
	ModePlacingFibFirst
	ModePlacingFibSecond
)

// DrawingFSM drives the click-sequence for placing a new annotation into a
// drawing.Store. Every Begin* call discards any in-progress placement.
type DrawingFSM struct {
	mode               DrawingMode
	firstX, firstY     float64
	previewX, previewY float64
}

// NewDrawingFSM returns an FSM in the Idle state.
func NewDrawingFSM() *DrawingFSM {
	return &DrawingFSM{}
}

func (f *DrawingFSM) BeginTrendline()      { f.mode = ModePlacingTrendlineFirst }
func (f *DrawingFSM) BeginHorizontalLevel() { f.mode = ModePlacingHorizontalLevel }
func (f *DrawingFSM) BeginVerticalLine()    { f.mode = ModePlacingVerticalLine }
func (f *DrawingFSM) BeginRectangle()       { f.mode = ModePlacingRectangleFirst }
func (f *DrawingFSM) BeginFibRetracement()  { f.mode = ModePlacingFibFirst }

// Cancel returns to Idle without emitting a drawing.
func (f *DrawingFSM) Cancel() { f.mode = ModeIdle }

// Mode reports the current state.
func (f *DrawingFSM) Mode() DrawingMode { return f.mode }

// IsActive reports whether a placement is in progress.
func (f *DrawingFSM) IsActive() bool { return f.mode != ModeIdle }

// Preview returns the last click point, used to render in-progress feedback.
func (f *DrawingFSM) Preview() (x, y float64) { return f.previewX, f.previewY }

// OnClick advances the state machine by one click in data coordinates.
// Returns the new drawing's id on the terminal click of a flow, or 0 otherwise.
func (f *DrawingFSM) OnClick(dataX, dataY float64, store *drawing.Store) uint32 {
	f.previewX, f.previewY = dataX, dataY

	switch f.mode {
	case ModePlacingTrendlineFirst:
		f.firstX, f.firstY = dataX, dataY
		f.mode = ModePlacingTrendlineSecond
		return 0

	case ModePlacingTrendlineSecond:
		id := store.AddTrendline(f.firstX, f.firstY, dataX, dataY)
		f.mode = ModeIdle
		return id

	case ModePlacingHorizontalLevel:
		id := store.AddHorizontalLevel(dataY)
		f.mode = ModeIdle
		return id

	case ModePlacingVerticalLine:
		id := store.AddVerticalLine(dataX)
		f.mode = ModeIdle
		return id

	case ModePlacingRectangleFirst:
		f.firstX, f.firstY = dataX, dataY
		f.mode = ModePlacingRectangleSecond
		return 0

	case ModePlacingRectangleSecond:
		id := store.AddRectangle(f.firstX, f.firstY, dataX, dataY)
		f.mode = ModeIdle
		return id

	case ModePlacingFibFirst:
		f.firstX, f.firstY = dataX, dataY
		f.mode = ModePlacingFibSecond
		return 0

	case ModePlacingFibSecond:
		id := store.AddFibRetracement(f.firstX, f.firstY, dataX, dataY)
		f.mode = ModeIdle
		return id

	default:
		return 0
	}
}
