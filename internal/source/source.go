// Package source supplies the items a reel shows.
package source

import (
	"context"
	"errors"
)

// ErrEmpty is returned when a source yields no items.
var ErrEmpty = errors.New("source has no items")

// Item is one card on the reel. ImageURL is an http(s) URL, a local path, or
// empty for a text-only card.
type Item struct {
	ID       string
	Title    string
	Subtitle string
	ImageURL string
}

// Source loads the reel's items. Load may block on the network.
type Source interface {
	Load(ctx context.Context) ([]Item, error)
	Name() string
}
