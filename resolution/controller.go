// Package resolution implements the Resolution Controller: a hysteresis-bounded
// tiering decision from pixels-per-data-unit (ppdu) to a resolution Tier.
package resolution

// Tier identifies one resolution level: Raw or an N-to-1 downsample.
type Tier struct {
	// Name is a human label ("Raw", "Agg2x", ...), used only for diagnostics.
	Name string
	// Factor is the downsampling factor; 1 for Raw.
	Factor int
	// Threshold is the ppdu at or above which this tier is eligible (higher ppdu
	// = more zoomed in = finer tier). Tiers must be supplied sorted descending
	// by Threshold with the finest (Raw, Factor 1) first.
	Threshold float64
}

// DefaultTiers returns a reasonable four-tier ladder: Raw, Agg2x, Agg4x, Agg8x,
// with thresholds chosen so that each halving of ppdu drops one tier.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "Raw", Factor: 1, Threshold: 8},
		{Name: "Agg2x", Factor: 2, Threshold: 4},
		{Name: "Agg4x", Factor: 4, Threshold: 2},
		{Name: "Agg8x", Factor: 8, Threshold: 0},
	}
}

// Controller selects the finest tier whose threshold is satisfied by the current
// ppdu signal, applying a hysteresis margin so a tier switch requires ppdu to
// cross the *next* threshold by more than the margin before flipping back,
// preventing flutter near a boundary.
type Controller interface {
	// Evaluate re-evaluates the current tier from ppdu (pixels per data unit).
	//
	// Parameters:
	//   - ppdu: pixels per data unit, the viewport's current zoom signal
	//
	// Returns:
	//   - bool: true iff the selected tier changed as a result of this call
	Evaluate(ppdu float64) bool

	// Tier returns the currently selected tier.
	Tier() Tier

	// Factor returns the currently selected tier's downsampling factor.
	Factor() int
}

type controller struct {
	tiers       []Tier // sorted descending by Threshold
	marginFrac  float64
	currentIdx  int
	initialized bool
}

var _ Controller = (*controller)(nil)

// New creates a Controller over tiers (must be sorted descending by Threshold,
// finest tier first) using marginFrac (e.g. 0.08 for an 8% hysteresis margin).
func New(tiers []Tier, marginFrac float64) Controller {
	return &controller{tiers: tiers, marginFrac: marginFrac}
}

// NewDefault creates a Controller over DefaultTiers() with an 8% hysteresis margin.
func NewDefault() Controller {
	return New(DefaultTiers(), 0.08)
}

func (c *controller) Evaluate(ppdu float64) bool {
	if !c.initialized {
		c.currentIdx = c.selectForPpdu(ppdu)
		c.initialized = true
		return false
	}

	target := c.selectForPpdu(ppdu)
	if target == c.currentIdx {
		return false
	}

	// Hysteresis: require ppdu to cross the boundary between current and target
	// tier by more than marginFrac before actually switching, to prevent flutter.
	if target < c.currentIdx {
		// Moving to a finer tier (target has a higher threshold): require ppdu to
		// exceed that tier's threshold by the margin.
		boundary := c.tiers[target].Threshold
		if ppdu < boundary*(1+c.marginFrac) {
			return false
		}
	} else {
		// Moving to a coarser tier: require ppdu to fall below the *current*
		// tier's threshold by the margin before giving it up.
		boundary := c.tiers[c.currentIdx].Threshold
		if ppdu > boundary*(1-c.marginFrac) {
			return false
		}
	}

	c.currentIdx = target
	return true
}

// selectForPpdu finds the finest tier (lowest index) whose threshold is <= ppdu.
func (c *controller) selectForPpdu(ppdu float64) int {
	best := len(c.tiers) - 1
	for i, t := range c.tiers {
		if ppdu >= t.Threshold {
			best = i
			break
		}
	}
	return best
}

func (c *controller) Tier() Tier {
	if !c.initialized {
		return c.tiers[0]
	}
	return c.tiers[c.currentIdx]
}

func (c *controller) Factor() int {
	return c.Tier().Factor
}
