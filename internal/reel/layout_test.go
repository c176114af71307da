package reel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/couchreel/internal/slider"
)

func fixedCount(n int) func() int { return func() int { return n } }

func TestLayoutWidths(t *testing.T) {
	l := &Layout{
		ItemWidth: 100,
		Gap:       20,
		Viewport:  Rect{X: 40, Y: 0, W: 500, H: 200},
		Rendered:  fixedCount(15),
		Base:      fixedCount(3),
	}
	assert.Equal(t, 500.0, l.ViewportWidth())
	assert.Equal(t, 15*100.0+14*20.0, l.TrackWidth())
	assert.Equal(t, 360.0, l.BaseWidth())
	assert.Equal(t, 120.0, l.Pitch())
}

func TestLayoutUnmeasured(t *testing.T) {
	l := &Layout{ItemWidth: 100, Gap: 20}
	assert.Zero(t, l.TrackWidth())
	assert.Zero(t, l.BaseWidth())
	assert.Zero(t, l.ViewportWidth())

	first, last := l.Visible(0)
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, last)
}

func TestLayoutItemX(t *testing.T) {
	l := &Layout{ItemWidth: 100, Gap: 20, Viewport: Rect{X: 40, W: 500}}
	assert.Equal(t, 40.0, l.ItemX(0, 0))
	assert.Equal(t, 40.0+240.0-30.0, l.ItemX(2, -30))
}

func TestLayoutVisible(t *testing.T) {
	l := &Layout{
		ItemWidth: 100,
		Gap:       20,
		Viewport:  Rect{W: 500},
		Rendered:  fixedCount(20),
	}

	tests := []struct {
		name        string
		offset      float64
		first, last int
	}{
		{"at rest", 0, 0, 5},
		{"first item half out", -50, 0, 5},
		{"first item fully out", -100, 1, 5},
		{"exactly one pitch", -120, 1, 6},
		{"deep in the strip", -1210, 10, 15},
		{"near the end", -2000, 16, 20},
		{"positive offset", 30, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := l.Visible(tt.offset)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestLayoutItemAt(t *testing.T) {
	l := &Layout{
		ItemWidth: 100,
		Gap:       20,
		Viewport:  Rect{X: 10, W: 500},
		Rendered:  fixedCount(4),
	}
	assert.Equal(t, 0, l.ItemAt(10, 0))
	assert.Equal(t, 0, l.ItemAt(110, 0))
	assert.Equal(t, -1, l.ItemAt(115, 0), "gap")
	assert.Equal(t, 1, l.ItemAt(130, 0))
	assert.Equal(t, 2, l.ItemAt(130, -120))
	assert.Equal(t, -1, l.ItemAt(5, 0))
	assert.Equal(t, -1, l.ItemAt(1000, 0))
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	assert.True(t, r.Contains(10, 20))
	assert.True(t, r.Contains(40, 60))
	assert.False(t, r.Contains(41, 30))
	assert.False(t, r.Contains(20, 19))
}

// The layout drives a real slider: the strip keeps covering the viewport
// while autoplay runs well past the first wrap.
func TestLayoutDrivesSlider(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	sched := slider.NewScheduler(time.Unix(0, 0))
	l := &Layout{
		ItemWidth: 100,
		Gap:       20,
		Viewport:  Rect{W: 700, H: 150},
		Base:      func() int { return len(items) },
	}

	s, err := slider.New(slider.Config{Gap: l.Gap, Speed: 7}, items, l, sched)
	require.NoError(t, err)
	l.Rendered = func() int { return len(s.Content()) }

	s.Mount()
	require.Equal(t, 3, s.Replicas())

	var wraps int
	prev := s.Offset()
	for range 2000 {
		sched.Advance(16 * time.Millisecond)
		if s.Offset() > prev {
			wraps++
		}
		prev = s.Offset()

		first, last := l.Visible(s.Offset())
		require.Greater(t, last, first)
	}
	assert.Positive(t, wraps)
}
