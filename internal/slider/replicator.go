package slider

import (
	"fmt"
	"math"
)

// ReplicaCount returns how many full copies of the base content must sit on
// each side of the original so the track overflows the viewport in both
// directions, with one replica of headroom for drag overshoot.
//
// baseWidth is the rendered width of one copy of the content. previous is the
// count currently in use (0 before the first layout). ok is false when either
// width has not been measured yet; callers keep the old count and retry on the
// next measurement.
func ReplicaCount(viewportWidth, baseWidth float64, previous int) (n int, ok bool) {
	if !(baseWidth > 0) || !(viewportWidth > 0) {
		return previous, false
	}

	n = int(math.Ceil(viewportWidth/baseWidth/float64(max(previous, 1)))) + 1
	n = max(n, 1)

	// Dividing by the previous count can shrink the strip below a viewport
	// after a resize; never go under what covers the viewport on both sides.
	n = max(n, int(math.Ceil(viewportWidth/(2*baseWidth))))
	return n, true
}

// Region says where a replica sits relative to the original sequence.
type Region int

const (
	RegionBefore Region = iota
	RegionOriginal
	RegionAfter
)

func (r Region) String() string {
	switch r {
	case RegionBefore:
		return "before"
	case RegionOriginal:
		return "original"
	case RegionAfter:
		return "after"
	default:
		return fmt.Sprintf("Region(%d)", int(r))
	}
}

// Replica is one rendered entry of the track.
type Replica[T any] struct {
	Key    string // unique across the whole track
	Item   T
	Index  int // position in the base sequence
	Copy   int // copy number within its region; 0 for the original
	Region Region
}

// Replicate lays out n copies of items before and n after the original
// sequence. Every entry gets a distinct key so copies never collide with the
// original or with each other.
func Replicate[T any](items []T, n int) []Replica[T] {
	n = max(n, 0)
	out := make([]Replica[T], 0, len(items)*(2*n+1))

	for c := 0; c < n; c++ {
		for i, it := range items {
			out = append(out, Replica[T]{
				Key:    fmt.Sprintf("before-%d-%d", c, i),
				Item:   it,
				Index:  i,
				Copy:   c,
				Region: RegionBefore,
			})
		}
	}
	for i, it := range items {
		out = append(out, Replica[T]{
			Key:    fmt.Sprintf("item-%d", i),
			Item:   it,
			Index:  i,
			Region: RegionOriginal,
		})
	}
	for c := 0; c < n; c++ {
		for i, it := range items {
			out = append(out, Replica[T]{
				Key:    fmt.Sprintf("after-%d-%d", c, i),
				Item:   it,
				Index:  i,
				Copy:   c,
				Region: RegionAfter,
			})
		}
	}
	return out
}
