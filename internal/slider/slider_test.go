package slider

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripGeometry measures a strip whose track is base content times the
// number of segments the slider currently renders.
type stripGeometry struct {
	viewport float64
	base     float64
	segments func() int
}

func (g *stripGeometry) ViewportWidth() float64 { return g.viewport }
func (g *stripGeometry) BaseWidth() float64     { return g.base }
func (g *stripGeometry) TrackWidth() float64 {
	if g.segments == nil {
		return 0
	}
	return g.base * float64(g.segments())
}

const frame = 16 * time.Millisecond

func newTestSlider(t *testing.T, cfg Config) (*Slider[string], *Scheduler, *stripGeometry) {
	t.Helper()
	sched := NewScheduler(t0)
	geom := &stripGeometry{viewport: 300, base: 100}
	s, err := New(cfg, []string{"a", "b", "c"}, geom, sched)
	require.NoError(t, err)
	geom.segments = func() int { return 2*s.Replicas() + 1 }
	return s, sched, geom
}

func TestNewValidates(t *testing.T) {
	sched := NewScheduler(t0)
	geom := &stripGeometry{viewport: 300, base: 100}

	_, err := New(Config{Gap: 8}, []string{}, geom, sched)
	assert.True(t, errors.Is(err, ErrNoItems))

	_, err = New(Config{Gap: -1}, []string{"a"}, geom, sched)
	assert.True(t, errors.Is(err, ErrInvalidGap))

	_, err = New(Config{Gap: 1, Speed: -2}, []string{"a"}, geom, sched)
	assert.True(t, errors.Is(err, ErrInvalidSpeed))

	_, err = New[string](Config{}, []string{"a"}, nil, sched)
	assert.True(t, errors.Is(err, ErrNoGeometry))

	_, err = New(Config{}, []string{"a"}, geom, nil)
	assert.True(t, errors.Is(err, ErrNoDriver))
}

func TestNewAppliesDefaults(t *testing.T) {
	s, _, _ := newTestSlider(t, Config{Gap: 16})
	assert.Equal(t, DefaultSpeed, s.Config().Speed)
	assert.Equal(t, DefaultResumeDelay, s.Config().ResumeDelay)
}

func TestMountComputesReplicasAndStartsAutoplay(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16})
	var layouts []int
	s.OnLayout = func(n int) { layouts = append(layouts, n) }

	s.Mount()
	assert.Equal(t, 4, s.Replicas())
	assert.Equal(t, []int{4}, layouts)
	assert.Len(t, s.Content(), 3*9)
	assert.True(t, s.Running())
	assert.Equal(t, 1, sched.PendingFrames())
}

func TestAutoplayHundredFrames(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()

	start := s.Offset()
	for range 100 {
		sched.Advance(frame)
	}
	assert.Equal(t, start-100, s.Offset())
}

func TestAutoplaySpeed(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16, Speed: 2.5})
	s.Mount()
	for range 10 {
		sched.Advance(frame)
	}
	assert.Equal(t, -25.0, s.Offset())
}

func TestDragMovesOffsetAndPausesAutoplay(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()
	sched.Advance(frame)
	require.Equal(t, -1.0, s.Offset())

	s.PointerDown(200)
	assert.True(t, s.Dragging())
	assert.Equal(t, PauseDrag, s.Paused())
	assert.False(t, s.Running())
	assert.Zero(t, sched.PendingFrames())

	s.PointerMove(150)
	s.PointerMove(140)
	assert.Equal(t, -61.0, s.Offset())

	s.PointerMove(170)
	assert.Equal(t, -31.0, s.Offset())

	sched.Advance(frame)
	assert.Equal(t, -31.0, s.Offset(), "no autoplay while dragging")
}

func TestMoveWithoutSessionIsIgnored(t *testing.T) {
	s, _, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()
	s.PointerMove(500)
	s.PointerUp()
	assert.Zero(t, s.Offset())
	assert.False(t, s.ResumePending())
}

func TestSecondDownDuringSessionIsIgnored(t *testing.T) {
	s, _, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()
	s.PointerDown(100)
	s.PointerDown(300)
	s.PointerMove(90)
	assert.Equal(t, -10.0, s.Offset())
}

func TestDragEndResumesAfterDelay(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()

	s.PointerDown(100)
	s.PointerUp()
	assert.True(t, s.ResumePending())
	assert.False(t, s.Dragging())

	sched.Advance(DefaultResumeDelay - time.Millisecond)
	assert.False(t, s.Running())

	sched.Advance(time.Millisecond)
	assert.True(t, s.Running())
	assert.Equal(t, PauseSource(0), s.Paused())

	before := s.Offset()
	sched.Advance(frame)
	assert.Equal(t, before-1, s.Offset())
}

func TestDebounceRestart(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16, PauseOnHover: true})
	s.Mount()

	var resumes int
	wasRunning := s.Running()
	observe := func() {
		if s.Running() && !wasRunning {
			resumes++
		}
		wasRunning = s.Running()
	}

	s.PointerDown(100)
	observe()
	s.PointerUp()
	sched.Advance(3 * time.Second)
	observe()

	s.PointerDown(100)
	observe()
	s.PointerUp()
	assert.Equal(t, 1, sched.PendingTimers())

	// First drag's deadline passes without a resume.
	sched.Advance(2 * time.Second)
	observe()
	assert.Zero(t, resumes)

	sched.Advance(3*time.Second - time.Millisecond)
	observe()
	assert.Zero(t, resumes)

	sched.Advance(time.Millisecond)
	observe()
	assert.Equal(t, 1, resumes)

	sched.Advance(time.Minute)
	observe()
	assert.Equal(t, 1, resumes)
	assert.Zero(t, sched.PendingTimers())
}

func TestHoverPauseIsIdempotent(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16, PauseOnHover: true})
	s.Mount()

	s.HoverStart()
	s.HoverStart()
	assert.Equal(t, PauseHover, s.Paused())
	assert.False(t, s.Running())
	assert.Zero(t, sched.PendingFrames())

	s.HoverEnd()
	assert.True(t, s.Running())
	assert.Equal(t, 1, sched.PendingFrames())

	s.HoverEnd()
	assert.True(t, s.Running())
	assert.Equal(t, 1, sched.PendingFrames())
}

func TestHoverEndWithoutStartIsNoop(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16, PauseOnHover: true})
	s.Mount()
	s.HoverEnd()
	assert.True(t, s.Running())
	assert.Equal(t, 1, sched.PendingFrames())
}

func TestHoverIgnoredWithoutPauseOnHover(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()
	s.HoverStart()
	assert.True(t, s.Running())
	sched.Advance(frame)
	assert.Equal(t, -1.0, s.Offset())
}

func TestHoverAndDragCompose(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16, PauseOnHover: true})
	s.Mount()

	s.HoverStart()
	s.PointerDown(100)
	s.PointerUp()
	assert.Equal(t, PauseHover|PauseDrag, s.Paused())

	sched.Advance(DefaultResumeDelay)
	assert.Equal(t, PauseHover, s.Paused())
	assert.False(t, s.Running(), "still hovered")

	s.HoverEnd()
	assert.True(t, s.Running())
}

func TestHoverEndDuringDragKeepsPaused(t *testing.T) {
	s, _, _ := newTestSlider(t, Config{Gap: 16, PauseOnHover: true})
	s.Mount()

	s.HoverStart()
	s.PointerDown(100)
	s.HoverEnd()
	assert.Equal(t, PauseDrag, s.Paused())
	assert.False(t, s.Running())
}

func TestUnmountCancelsEverything(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()
	s.PointerDown(100)
	s.PointerUp()
	require.Equal(t, 1, sched.PendingTimers())

	s.Unmount()
	assert.Zero(t, sched.PendingTimers())
	assert.Zero(t, sched.PendingFrames())

	offset := s.Offset()
	sched.Advance(time.Minute)
	assert.Equal(t, offset, s.Offset())
	assert.False(t, s.Running())
}

func TestUnmountWhileRunning(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()
	sched.Advance(frame)
	s.Unmount()
	s.Unmount()
	assert.Zero(t, sched.PendingFrames())

	s.Mount()
	assert.True(t, s.Running())
	assert.Equal(t, PauseSource(0), s.Paused())
}

func TestEventsIgnoredWhenUnmounted(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16, PauseOnHover: true})
	s.PointerDown(100)
	s.PointerMove(50)
	s.HoverStart()
	assert.Zero(t, s.Offset())
	assert.Zero(t, sched.PendingFrames())
	assert.False(t, s.Dragging())
}

func TestResizeRecomputesOnlyOnChange(t *testing.T) {
	s, _, geom := newTestSlider(t, Config{Gap: 16})
	var layouts int
	s.OnLayout = func(int) { layouts++ }
	s.Mount()
	require.Equal(t, 4, s.Replicas())
	require.Equal(t, 1, layouts)

	// ceil(300/100/4)+1 = 2, which still covers the viewport.
	s.Resize(ViewportSize{Width: 300, Height: 200})
	assert.Equal(t, 2, s.Replicas())
	assert.Equal(t, 2, layouts)

	geom.viewport = 1000
	s.Resize(ViewportSize{Width: 300, Height: 200})
	assert.Equal(t, 2, s.Replicas(), "same size value, no recompute")
	assert.Equal(t, 2, layouts)

	s.Resize(ViewportSize{Width: 1000, Height: 200})
	assert.Equal(t, 6, s.Replicas())
	assert.Equal(t, 3, layouts)
	assert.Len(t, s.Content(), 3*13)
}

func TestReplicasDeferredUntilMeasured(t *testing.T) {
	s, sched, geom := newTestSlider(t, Config{Gap: 16})
	geom.base = 0
	s.Mount()
	assert.Zero(t, s.Replicas())
	assert.Len(t, s.Content(), 3)

	sched.Advance(frame)
	assert.Zero(t, s.Offset(), "tick skipped while unmeasured")

	geom.base = 100
	sched.Advance(frame)
	assert.Equal(t, 4, s.Replicas())
	assert.Equal(t, -1.0, s.Offset())
}

func TestDeferredReplicasComputedByDragWhilePaused(t *testing.T) {
	s, sched, geom := newTestSlider(t, Config{Gap: 16, PauseOnHover: true})
	geom.base = 0
	s.Mount()
	s.HoverStart()
	assert.Zero(t, sched.PendingFrames())

	geom.base = 100
	s.PointerDown(100)
	s.PointerMove(90)
	assert.Equal(t, 4, s.Replicas(), "drag tick must not run with one segment")
	assert.Equal(t, -10.0, s.Offset())
}

func TestSetItemsResetsOffset(t *testing.T) {
	s, sched, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()
	for range 3 {
		sched.Advance(frame)
	}
	require.Equal(t, -3.0, s.Offset())

	require.NoError(t, s.SetItems([]string{"x", "y", "z", "w"}))
	assert.Zero(t, s.Offset())
	assert.True(t, s.Running())
}

func TestSetItems(t *testing.T) {
	s, _, _ := newTestSlider(t, Config{Gap: 16})
	s.Mount()

	require.NoError(t, s.SetItems([]string{"x", "y"}))
	assert.Equal(t, []string{"x", "y"}, s.Items())
	assert.Len(t, s.Content(), 2*(2*s.Replicas()+1))
	assert.Equal(t, "x", s.Content()[0].Item)

	assert.True(t, errors.Is(s.SetItems(nil), ErrNoItems))
}

func TestPauseSourceString(t *testing.T) {
	assert.Equal(t, "none", PauseSource(0).String())
	assert.Equal(t, "drag|hover", (PauseDrag | PauseHover).String())
}
