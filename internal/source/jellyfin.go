package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/depeter/couchreel/internal/constants"
	"github.com/depeter/couchreel/internal/jellyfin"
)

// ErrLibraryNotFound is returned when the configured library matches no view.
var ErrLibraryNotFound = errors.New("library not found")

// Library is the part of the Jellyfin client the reel reads from.
type Library interface {
	GetViews(ctx context.Context) ([]jellyfin.MediaItem, error)
	GetLatestMedia(ctx context.Context, parentID string, limit int) ([]jellyfin.MediaItem, error)
	GetPosterURL(itemID string, width, height int) string
}

// Jellyfin loads the latest media from a Jellyfin server. With Library set
// only the view of that name is read; otherwise every view contributes.
type Jellyfin struct {
	Client       Library
	Library      string
	Limit        int
	PosterWidth  int
	PosterHeight int
}

func NewJellyfin(client Library, library string, limit, posterW, posterH int) *Jellyfin {
	return &Jellyfin{
		Client:       client,
		Library:      library,
		Limit:        limit,
		PosterWidth:  posterW,
		PosterHeight: posterH,
	}
}

func (j *Jellyfin) Name() string { return "jellyfin" }

func (j *Jellyfin) Load(ctx context.Context) ([]Item, error) {
	views, err := j.Client.GetViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("jellyfin: %w", err)
	}
	views, err = j.selectViews(views)
	if err != nil {
		return nil, err
	}

	perView := make([][]jellyfin.MediaItem, len(views))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range views {
		g.Go(func() error {
			media, err := j.Client.GetLatestMedia(gctx, v.ID, j.Limit)
			if err != nil {
				return fmt.Errorf("jellyfin: latest in %q: %w", v.Name, err)
			}
			perView[i] = media
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var items []Item
	for _, media := range perView {
		for _, m := range media {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			items = append(items, j.convert(m))
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("jellyfin: %w", ErrEmpty)
	}
	return items, nil
}

func (j *Jellyfin) selectViews(views []jellyfin.MediaItem) ([]jellyfin.MediaItem, error) {
	if j.Library == "" {
		return views, nil
	}
	for _, v := range views {
		if strings.EqualFold(v.Name, j.Library) {
			return []jellyfin.MediaItem{v}, nil
		}
	}
	return nil, fmt.Errorf("jellyfin: %q: %w", j.Library, ErrLibraryNotFound)
}

func (j *Jellyfin) convert(m jellyfin.MediaItem) Item {
	it := Item{
		ID:       m.ID,
		Title:    m.Name,
		Subtitle: subtitle(m),
	}
	if m.HasImage(jellyfin.ImagePrimary) {
		it.ImageURL = j.Client.GetPosterURL(m.ID, j.PosterWidth, j.PosterHeight)
	}
	return it
}

func subtitle(m jellyfin.MediaItem) string {
	var parts []string
	if m.Type == "Episode" && m.SeriesName != "" {
		parts = append(parts, m.SeriesName)
	}
	if m.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", m.Year))
	}
	if rt := formatRuntime(m.RuntimeTicks); rt != "" {
		parts = append(parts, rt)
	}
	if m.CommunityRating > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f", m.CommunityRating))
	}
	return strings.Join(parts, " · ")
}

func formatRuntime(ticks int64) string {
	mins := int(ticks / constants.TicksPerSecond / 60)
	switch {
	case mins <= 0:
		return ""
	case mins < 60:
		return fmt.Sprintf("%dm", mins)
	default:
		return fmt.Sprintf("%dh %dm", mins/60, mins%60)
	}
}
