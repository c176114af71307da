package source

import (
	"context"
	"fmt"
)

// DefaultDemoCount is how many cards the demo source generates.
const DefaultDemoCount = 12

var demoGenres = []string{"Drama", "Comedy", "Sci-Fi", "Documentary", "Thriller", "Animation"}

// Demo generates numbered text-only cards so the reel runs without a server.
type Demo struct {
	Count int
}

func NewDemo(count int) *Demo {
	if count <= 0 {
		count = DefaultDemoCount
	}
	return &Demo{Count: count}
}

func (d *Demo) Name() string { return "demo" }

func (d *Demo) Load(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := make([]Item, d.Count)
	for i := range items {
		items[i] = Item{
			ID:       fmt.Sprintf("demo-%d", i),
			Title:    fmt.Sprintf("Reel %02d", i+1),
			Subtitle: fmt.Sprintf("%d · %s", 1970+(i*7)%55, demoGenres[i%len(demoGenres)]),
		}
	}
	return items, nil
}
