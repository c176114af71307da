// Package slider implements the motion engine of an infinite horizontal
// slider: a strip of replicated content that drifts at constant speed, wraps
// without a seam, can be dragged at any moment and resumes by itself.
//
// The engine never draws. The host supplies Geometry, a Driver for frames and
// timers, and forwards pointer, hover and resize events. Everything runs on
// the host's loop goroutine.
package slider

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// DefaultSpeed is the autoplay drift in pixels per frame.
	DefaultSpeed = 1.0
	// DefaultResumeDelay is how long the strip must be left alone after a
	// drag before autoplay resumes.
	DefaultResumeDelay = 5000 * time.Millisecond
)

var (
	ErrNoItems      = errors.New("no items")
	ErrInvalidGap   = errors.New("invalid gap")
	ErrInvalidSpeed = errors.New("invalid speed")
	ErrNoGeometry   = errors.New("no geometry")
	ErrNoDriver     = errors.New("no driver")
)

// Config is the engine configuration surface.
type Config struct {
	Gap          float64       // px between items, required, >= 0
	PauseOnHover bool          // suspend autoplay while hovered
	Speed        float64       // px per frame; zero means DefaultSpeed
	ResumeDelay  time.Duration // zero means DefaultResumeDelay
}

func (c Config) withDefaults() Config {
	if c.Speed == 0 {
		c.Speed = DefaultSpeed
	}
	if c.ResumeDelay == 0 {
		c.ResumeDelay = DefaultResumeDelay
	}
	return c
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Gap < 0 || math.IsNaN(c.Gap) || math.IsInf(c.Gap, 0) {
		return fmt.Errorf("slider: gap %v: %w", c.Gap, ErrInvalidGap)
	}
	if c.Speed < 0 || math.IsNaN(c.Speed) || math.IsInf(c.Speed, 0) {
		return fmt.Errorf("slider: speed %v: %w", c.Speed, ErrInvalidSpeed)
	}
	return nil
}

// ViewportSize is a viewport-size notification. Two notifications with equal
// values are the same size.
type ViewportSize struct {
	Width, Height int
}

// Slider wires the replicator, integrator, interaction controller and autoplay
// loop together for one strip of items.
type Slider[T any] struct {
	cfg   Config
	geom  Geometry
	items []T

	integ *Integrator
	loop  *Loop
	ctrl  *Controller

	content  []Replica[T]
	viewport ViewportSize
	mounted  bool
	// true until the replicator has produced a count from real measurements
	needsLayout bool

	// OnLayout is called after the replica count changes and Content has been
	// regenerated.
	OnLayout func(replicas int)
}

// New validates cfg and builds a stopped slider. Call Mount to start it.
func New[T any](cfg Config, items []T, geom Geometry, driver Driver) (*Slider[T], error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("slider: %w", ErrNoItems)
	}
	if geom == nil {
		return nil, fmt.Errorf("slider: %w", ErrNoGeometry)
	}
	if driver == nil {
		return nil, fmt.Errorf("slider: %w", ErrNoDriver)
	}

	s := &Slider[T]{
		cfg:         cfg,
		geom:        geom,
		items:       append([]T(nil), items...),
		integ:       NewIntegrator(cfg.Gap),
		needsLayout: true,
	}
	s.content = Replicate(s.items, 0)
	s.loop = NewLoop(driver, s.frame)
	s.ctrl = NewController(s.step, s.loop, NewDebouncer(driver, cfg.ResumeDelay), cfg.PauseOnHover)
	return s, nil
}

// Mount starts autoplay and performs the initial replica computation.
func (s *Slider[T]) Mount() {
	if s.mounted {
		return
	}
	s.mounted = true
	s.loop.Start()
	s.relayout()
}

// Unmount cancels the pending frame and any pending resume. The slider can be
// mounted again afterwards.
func (s *Slider[T]) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.loop.Stop()
	s.ctrl.Stop()
}

// Mounted reports whether the slider is mounted.
func (s *Slider[T]) Mounted() bool { return s.mounted }

// Resize delivers a viewport-size notification. The replica count is
// recomputed only when the size actually changed.
func (s *Slider[T]) Resize(size ViewportSize) {
	if size == s.viewport {
		return
	}
	s.viewport = size
	if s.mounted {
		s.relayout()
	}
}

// SetItems replaces the content sequence, regenerates the replicas and
// moves the strip back to its natural position.
func (s *Slider[T]) SetItems(items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("slider: %w", ErrNoItems)
	}
	s.items = append(s.items[:0:0], items...)
	s.content = Replicate(s.items, s.integ.Replicas())
	// the old offset belongs to the old track width
	s.integ.Reset()
	s.needsLayout = true
	if s.mounted {
		s.relayout()
	}
	return nil
}

func (s *Slider[T]) PointerDown(x float64) {
	if s.mounted {
		s.ctrl.PointerDown(x)
	}
}

func (s *Slider[T]) PointerMove(x float64) {
	if s.mounted {
		s.ctrl.PointerMove(x)
	}
}

func (s *Slider[T]) PointerUp() {
	if s.mounted {
		s.ctrl.PointerUp()
	}
}

func (s *Slider[T]) HoverStart() {
	if s.mounted {
		s.ctrl.HoverStart()
	}
}

func (s *Slider[T]) HoverEnd() {
	if s.mounted {
		s.ctrl.HoverEnd()
	}
}

// Offset is the current track translation in pixels.
func (s *Slider[T]) Offset() float64 { return s.integ.Offset() }

// Replicas is the per-side replica count.
func (s *Slider[T]) Replicas() int { return s.integ.Replicas() }

// Content is the replicated sequence to render, left to right.
func (s *Slider[T]) Content() []Replica[T] { return s.content }

// Items is the base sequence.
func (s *Slider[T]) Items() []T { return s.items }

// Running reports whether autoplay will tick on the next frame.
func (s *Slider[T]) Running() bool { return s.loop.Running() }

// Paused returns the active pause sources.
func (s *Slider[T]) Paused() PauseSource { return s.ctrl.Paused() }

// Dragging reports whether an interaction session is open.
func (s *Slider[T]) Dragging() bool { return s.ctrl.Dragging() }

// ResumePending reports whether a debounced resume is scheduled.
func (s *Slider[T]) ResumePending() bool { return s.ctrl.ResumePending() }

// Config returns the effective configuration.
func (s *Slider[T]) Config() Config { return s.cfg }

func (s *Slider[T]) frame() {
	s.step(-s.cfg.Speed)
}

// step is the single entry into the integrator for autoplay and drag. A
// replica count deferred by an unmeasured mount is retried first.
func (s *Slider[T]) step(delta float64) {
	if s.needsLayout {
		s.relayout()
	}
	out := s.integ.Tick(delta, s.geom)
	switch out {
	case OutcomeWrapped, OutcomeClamped:
		logger().Debug("slider: boundary", "outcome", out, "delta", delta, "offset", s.integ.Offset())
	}
}

func (s *Slider[T]) relayout() {
	prev := s.integ.Replicas()
	n, ok := ReplicaCount(s.geom.ViewportWidth(), s.geom.BaseWidth(), prev)
	if !ok {
		logger().Warn("slider: geometry not measured, replica count deferred")
		return
	}
	s.needsLayout = false
	if n == prev {
		return
	}
	s.integ.SetReplicas(n)
	s.content = Replicate(s.items, n)
	logger().Debug("slider: replicas", "previous", prev, "replicas", n)
	if s.OnLayout != nil {
		s.OnLayout(n)
	}
}
