package interaction

import "math"

// MeasureResult is a completed or in-progress measurement between two
// data-space points.
type MeasureResult struct {
	X0, Y0         float64
	X1, Y1         float64
	Dx, Dy         float64
	Distance       float64
	PercentChange  float64
	Valid          bool
}

// MeasureState drives a begin/update*/finish measurement gesture.
type MeasureState struct {
	active     bool
	hasSecond  bool
	x0, y0     float64
	x1, y1     float64
}

// NewMeasureState returns an inactive MeasureState.
func NewMeasureState() *MeasureState {
	return &MeasureState{}
}

// Begin starts a measurement anchored at (dataX, dataY).
func (m *MeasureState) Begin(dataX, dataY float64) {
	m.active = true
	m.hasSecond = false
	m.x0, m.y0 = dataX, dataY
	m.x1, m.y1 = dataX, dataY
}

// Update moves the second point while the gesture is in progress, a no-op if
// not active.
func (m *MeasureState) Update(dataX, dataY float64) {
	if !m.active {
		return
	}
	m.hasSecond = true
	m.x1, m.y1 = dataX, dataY
}

// Finish completes the measurement at (dataX, dataY) and deactivates the
// gesture. Returns a zero-value, invalid result if not active.
func (m *MeasureState) Finish(dataX, dataY float64) MeasureResult {
	if !m.active {
		return MeasureResult{}
	}
	m.Update(dataX, dataY)
	r := m.compute()
	m.active = false
	m.hasSecond = false
	return r
}

// Cancel abandons the gesture without producing a result.
func (m *MeasureState) Cancel() {
	m.active = false
	m.hasSecond = false
}

// IsActive reports whether a measurement gesture is in progress.
func (m *MeasureState) IsActive() bool { return m.active }

// Current returns the in-progress measurement, valid only once a second point
// has been recorded via Update.
func (m *MeasureState) Current() MeasureResult {
	if !m.active || !m.hasSecond {
		return MeasureResult{}
	}
	return m.compute()
}

func (m *MeasureState) compute() MeasureResult {
	dx := m.x1 - m.x0
	dy := m.y1 - m.y0
	var pct float64
	if m.y0 != 0 {
		pct = (m.y1 - m.y0) / m.y0 * 100
	}
	return MeasureResult{
		X0: m.x0, Y0: m.y0, X1: m.x1, Y1: m.y1,
		Dx: dx, Dy: dy,
		Distance:      math.Sqrt(dx*dx + dy*dy),
		PercentChange: pct,
		Valid:         true,
	}
}
