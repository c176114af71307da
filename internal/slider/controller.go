package slider

import "strings"

// PauseSource is a bit set of reasons autoplay is suspended.
type PauseSource uint8

const (
	PauseDrag PauseSource = 1 << iota
	PauseHover
)

func (p PauseSource) String() string {
	if p == 0 {
		return "none"
	}
	var parts []string
	if p&PauseDrag != 0 {
		parts = append(parts, "drag")
	}
	if p&PauseHover != 0 {
		parts = append(parts, "hover")
	}
	return strings.Join(parts, "|")
}

// Controller turns pointer, touch and hover events into integrator deltas and
// pause/resume signals for the autoplay loop. It holds one interaction session
// at a time.
type Controller struct {
	tick         func(delta float64)
	loop         *Loop
	resume       *Debouncer
	pauseOnHover bool

	dragging bool
	lastX    float64
	paused   PauseSource
}

// NewController wires a controller. tick must route into the integrator.
func NewController(tick func(float64), loop *Loop, resume *Debouncer, pauseOnHover bool) *Controller {
	return &Controller{
		tick:         tick,
		loop:         loop,
		resume:       resume,
		pauseOnHover: pauseOnHover,
	}
}

// PointerDown opens a session at x and suspends autoplay. A down while a
// session is open is ignored.
func (c *Controller) PointerDown(x float64) {
	if c.dragging {
		return
	}
	c.dragging = true
	c.lastX = x
	c.resume.Cancel()
	c.pause(PauseDrag)
}

// PointerMove feeds the movement since the last event to the integrator.
func (c *Controller) PointerMove(x float64) {
	if !c.dragging {
		return
	}
	delta := x - c.lastX
	c.tick(delta)
	c.lastX = x
}

// PointerUp closes the session and schedules autoplay to resume once the
// strip has been left alone for the debounce delay. The resume is scheduled
// whether or not pause-on-hover is enabled; hover only gates HoverStart.
func (c *Controller) PointerUp() {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.resume.Trigger(func() {
		logger().Debug("slider: drag quiescent, releasing")
		c.release(PauseDrag)
	})
}

// HoverStart pauses autoplay immediately when pause-on-hover is enabled.
func (c *Controller) HoverStart() {
	if !c.pauseOnHover {
		return
	}
	c.pause(PauseHover)
}

// HoverEnd lifts the hover pause. Without a prior HoverStart it does nothing.
func (c *Controller) HoverEnd() {
	c.release(PauseHover)
}

// Stop drops the session, any pending resume and every pause source. Used
// on unmount; the loop itself is stopped by the owner.
func (c *Controller) Stop() {
	c.resume.Cancel()
	c.dragging = false
	c.paused = 0
}

// Dragging reports whether a session is open.
func (c *Controller) Dragging() bool { return c.dragging }

// Paused returns the active pause sources.
func (c *Controller) Paused() PauseSource { return c.paused }

// ResumePending reports whether a debounced resume is scheduled.
func (c *Controller) ResumePending() bool { return c.resume.Pending() }

func (c *Controller) pause(src PauseSource) {
	was := c.paused
	c.paused |= src
	if was == 0 {
		c.loop.Stop()
		logger().Debug("slider: autoplay paused", "source", src)
	}
}

func (c *Controller) release(src PauseSource) {
	if c.paused&src == 0 {
		return
	}
	c.paused &^= src
	if c.paused == 0 {
		c.loop.Start()
		logger().Debug("slider: autoplay resumed", "source", src)
	}
}
