package jellyfin

import (
	"context"
	"fmt"

	jellyfin "github.com/sj14/jellyfin-go/api"
)

// MediaItem is the slice of a Jellyfin item the reel shows.
type MediaItem struct {
	ID              string
	Name            string
	Type            string // Movie, Series, Episode, CollectionFolder, ...
	Year            int
	RuntimeTicks    int64
	CommunityRating float32
	SeriesName      string
	ImageTags       map[string]string
}

// HasImage reports whether the item carries an image of the given type.
func (m MediaItem) HasImage(t ImageType) bool {
	_, ok := m.ImageTags[string(t)]
	return ok
}

// GetViews returns the user's media libraries (Movies, TV Shows, Music, etc.)
func (c *Client) GetViews(ctx context.Context) ([]MediaItem, error) {
	result, _, err := c.api.UserViewsAPI.GetUserViews(ctx).UserId(c.userID).Execute()
	if err != nil {
		return nil, fmt.Errorf("get views: %w", err)
	}
	return convertItems(result.Items), nil
}

// GetLatestMedia returns the latest items in a library. An empty parentID
// spans every library.
func (c *Client) GetLatestMedia(ctx context.Context, parentID string, limit int) ([]MediaItem, error) {
	req := c.api.UserLibraryAPI.GetLatestMedia(ctx).
		UserId(c.userID).
		Limit(int32(limit)).
		Fields([]jellyfin.ItemFields{jellyfin.ITEMFIELDS_PRIMARY_IMAGE_ASPECT_RATIO}).
		EnableImageTypes([]jellyfin.ImageType{jellyfin.IMAGETYPE_PRIMARY}).
		ImageTypeLimit(1)
	if parentID != "" {
		req = req.ParentId(parentID)
	}
	items, _, err := req.Execute()
	if err != nil {
		return nil, fmt.Errorf("get latest: %w", err)
	}
	return convertItems(items), nil
}

func convertItems(items []jellyfin.BaseItemDto) []MediaItem {
	result := make([]MediaItem, 0, len(items))
	for _, item := range items {
		result = append(result, convertBaseItemDto(&item))
	}
	return result
}

func convertBaseItemDto(item *jellyfin.BaseItemDto) MediaItem {
	mi := MediaItem{}
	if item.Id != nil {
		mi.ID = *item.Id
	}
	mi.Name = item.GetName()
	if item.Type != nil {
		mi.Type = string(*item.Type)
	}
	mi.Year = int(item.GetProductionYear())
	mi.RuntimeTicks = item.GetRunTimeTicks()
	mi.CommunityRating = item.GetCommunityRating()
	mi.SeriesName = item.GetSeriesName()

	if len(item.ImageTags) > 0 {
		mi.ImageTags = make(map[string]string, len(item.ImageTags))
		for k, v := range item.ImageTags {
			mi.ImageTags[k] = v
		}
	}
	return mi
}
