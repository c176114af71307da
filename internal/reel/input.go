package reel

// Touch is one active touch point.
type Touch struct {
	ID   int
	X, Y float64
}

// Sample is the raw pointer state read from the window once per frame.
type Sample struct {
	MouseDown   bool
	CursorX     float64
	CursorY     float64
	CursorValid bool // false when the cursor is outside the window or there is none
	Touches     []Touch
}

// Sink receives slider events. *slider.Slider satisfies it.
type Sink interface {
	PointerDown(x float64)
	PointerMove(x float64)
	PointerUp()
	HoverStart()
	HoverEnd()
}

type pointerKind int

const (
	pointerNone pointerKind = iota
	pointerMouse
	pointerTouch
)

// Tracker turns per-frame samples into discrete down/move/up and hover
// events. Only one pointer drives the strip at a time; a session started by
// the mouse ignores touches and vice versa.
type Tracker struct {
	Bounds Rect

	kind      pointerKind
	touchID   int
	lastX     float64
	mouseDown bool // previous frame, for edge detection
	hovering  bool
}

// Dragging reports whether a session is open.
func (t *Tracker) Dragging() bool { return t.kind != pointerNone }

// Hovering reports whether the cursor is over the bounds.
func (t *Tracker) Hovering() bool { return t.hovering }

// Update compares s with the previous frame and emits events to sink.
func (t *Tracker) Update(s Sample, sink Sink) {
	pressed := s.MouseDown && !t.mouseDown
	t.mouseDown = s.MouseDown

	switch t.kind {
	case pointerNone:
		if tc, ok := t.firstTouchInside(s.Touches); ok {
			t.kind = pointerTouch
			t.touchID = tc.ID
			t.lastX = tc.X
			sink.PointerDown(tc.X)
		} else if pressed && s.CursorValid && t.Bounds.Contains(s.CursorX, s.CursorY) {
			t.kind = pointerMouse
			t.lastX = s.CursorX
			sink.PointerDown(s.CursorX)
		}

	case pointerMouse:
		if !s.MouseDown {
			t.kind = pointerNone
			sink.PointerUp()
		} else if s.CursorX != t.lastX {
			t.lastX = s.CursorX
			sink.PointerMove(s.CursorX)
		}

	case pointerTouch:
		tc, ok := findTouch(s.Touches, t.touchID)
		if !ok {
			t.kind = pointerNone
			sink.PointerUp()
		} else if tc.X != t.lastX {
			t.lastX = tc.X
			sink.PointerMove(tc.X)
		}
	}

	t.updateHover(s, sink)
}

// Reset closes any open session and hover without emitting events.
func (t *Tracker) Reset() {
	t.kind = pointerNone
	t.hovering = false
	t.mouseDown = false
}

// Hover is a pointer-device concept: touches never start it.
func (t *Tracker) updateHover(s Sample, sink Sink) {
	inside := s.CursorValid && len(s.Touches) == 0 && t.Bounds.Contains(s.CursorX, s.CursorY)
	switch {
	case inside && !t.hovering:
		t.hovering = true
		sink.HoverStart()
	case !inside && t.hovering:
		t.hovering = false
		sink.HoverEnd()
	}
}

func (t *Tracker) firstTouchInside(touches []Touch) (Touch, bool) {
	for _, tc := range touches {
		if t.Bounds.Contains(tc.X, tc.Y) {
			return tc, true
		}
	}
	return Touch{}, false
}

func findTouch(touches []Touch, id int) (Touch, bool) {
	for _, tc := range touches {
		if tc.ID == id {
			return tc, true
		}
	}
	return Touch{}, false
}
