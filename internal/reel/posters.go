package reel

import (
	"context"
	"errors"
	"image"
	"sync"
)

// Posters tracks poster loads for one strip. Request, Drain and Reset belong
// to the game goroutine; Done may be called from any goroutine.
type Posters struct {
	requested map[string]bool

	mu        sync.Mutex
	decoded   map[string]image.Image
	failed    map[string]bool
	cancelled []string
}

func NewPosters() *Posters {
	return &Posters{
		requested: make(map[string]bool),
		decoded:   make(map[string]image.Image),
		failed:    make(map[string]bool),
	}
}

// Request reports whether url still needs a load and marks it requested.
func (p *Posters) Request(url string) bool {
	if url == "" || p.requested[url] {
		return false
	}
	p.requested[url] = true
	return true
}

// Done records the outcome of a load. A cancelled load is neither a success
// nor a failure; its URL is handed back by the next Drain.
func (p *Posters) Done(url string, img image.Image, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case errors.Is(err, context.Canceled):
		p.cancelled = append(p.cancelled, url)
	case err != nil:
		p.failed[url] = true
	default:
		p.decoded[url] = img
	}
}

// Drain returns the images decoded since the last call and forgets cancelled
// requests. retry is true when any were forgotten.
func (p *Posters) Drain() (decoded map[string]image.Image, retry bool) {
	p.mu.Lock()
	decoded = p.decoded
	if len(decoded) > 0 {
		p.decoded = make(map[string]image.Image)
	}
	cancelled := p.cancelled
	p.cancelled = nil
	p.mu.Unlock()

	for _, url := range cancelled {
		delete(p.requested, url)
	}
	return decoded, len(cancelled) > 0
}

// Reset forgets every request and failure so the next Request for any URL
// loads again.
func (p *Posters) Reset() {
	clear(p.requested)
	p.mu.Lock()
	clear(p.failed)
	p.mu.Unlock()
}

// Failed is the number of URLs whose load failed.
func (p *Posters) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.failed)
}
