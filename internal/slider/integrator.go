package slider

import "math"

// Geometry is a live view of the rendered layout. Widths are read fresh on
// every use and are zero until the host has measured them.
type Geometry interface {
	// ViewportWidth is the visible clipping window.
	ViewportWidth() float64
	// TrackWidth is the full replicated strip as currently rendered.
	TrackWidth() float64
	// BaseWidth is one copy of the content sequence.
	BaseWidth() float64
}

// Measure is a snapshot of everything the wraparound arithmetic needs.
type Measure struct {
	Track    float64
	Viewport float64
	Segments int // total segments, 2n+1
	Gap      float64
}

// ChunkWidth is the width of one logical content unit.
func (m Measure) ChunkWidth() float64 {
	return m.Track / float64(m.Segments)
}

func (m Measure) valid() bool {
	return m.Track > 0 && m.Viewport > 0 && m.Segments > 0
}

// Outcome reports which rule a tick applied.
type Outcome int

const (
	// OutcomeSkipped means the geometry was not measured; offset unchanged.
	OutcomeSkipped Outcome = iota
	// OutcomeLinear means the delta was applied as is.
	OutcomeLinear
	// OutcomeWrapped means the strip was reset to the mirror position.
	OutcomeWrapped
	// OutcomeClamped means an overscroll past the start was snapped back.
	OutcomeClamped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeLinear:
		return "linear"
	case OutcomeWrapped:
		return "wrapped"
	case OutcomeClamped:
		return "clamped"
	default:
		return "unknown"
	}
}

// Advance applies delta to offset under the wraparound rules and returns the
// new offset. Autoplay and drag both go through here.
func Advance(offset, delta float64, m Measure) (float64, Outcome) {
	if !m.valid() {
		return offset, OutcomeSkipped
	}

	proposed := offset + delta
	chunk := m.ChunkWidth()
	chunksInView := m.Viewport / chunk

	if math.Abs(proposed) >= m.Track-m.Viewport {
		var mag float64
		if chunksInView > 0 {
			mag = chunk*(math.Ceil(chunksInView)-chunksInView) + delta - m.Gap/2
		} else {
			// Unreachable while chunk > 0.
			mag = chunk - chunk*chunksInView + delta - m.Gap/2
		}
		return -mag, OutcomeWrapped
	}

	if proposed >= 0 {
		return -(chunk + m.Gap/2), OutcomeClamped
	}

	return proposed, OutcomeLinear
}

// Integrator owns the track offset. Offset is written only by Tick and Reset.
type Integrator struct {
	offset   float64
	gap      float64
	replicas int
}

// NewIntegrator returns an integrator at offset zero with no replicas.
func NewIntegrator(gap float64) *Integrator {
	return &Integrator{gap: gap}
}

// Offset is the current horizontal translation; negative is scrolled left.
func (in *Integrator) Offset() float64 { return in.offset }

// Replicas is the per-side replica count the wrap arithmetic assumes.
func (in *Integrator) Replicas() int { return in.replicas }

// SetReplicas updates the per-side replica count.
func (in *Integrator) SetReplicas(n int) { in.replicas = max(n, 0) }

// TotalSegments is 2n+1.
func (in *Integrator) TotalSegments() int { return 2*in.replicas + 1 }

// Reset moves the strip back to its natural position.
func (in *Integrator) Reset() { in.offset = 0 }

// Tick reads geometry and advances the offset by delta.
func (in *Integrator) Tick(delta float64, g Geometry) Outcome {
	if g == nil {
		return OutcomeSkipped
	}
	m := Measure{
		Track:    g.TrackWidth(),
		Viewport: g.ViewportWidth(),
		Segments: in.TotalSegments(),
		Gap:      in.gap,
	}
	next, out := Advance(in.offset, delta, m)
	in.offset = next
	return out
}
