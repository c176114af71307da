package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/depeter/couchreel/internal/config"
)

// Static serves the items listed in the config file. Relative image paths
// resolve against BaseDir.
type Static struct {
	Items   []config.ItemConfig
	BaseDir string
}

func NewStatic(items []config.ItemConfig, baseDir string) *Static {
	return &Static{Items: items, BaseDir: baseDir}
}

func (s *Static) Name() string { return "static" }

func (s *Static) Load(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.Items) == 0 {
		return nil, fmt.Errorf("static: %w", ErrEmpty)
	}
	items := make([]Item, 0, len(s.Items))
	for i, it := range s.Items {
		items = append(items, Item{
			ID:       fmt.Sprintf("static-%d", i),
			Title:    it.Title,
			Subtitle: it.Subtitle,
			ImageURL: s.resolve(it.Image),
		})
	}
	return items, nil
}

func (s *Static) resolve(image string) string {
	switch {
	case image == "",
		strings.HasPrefix(image, "http://"),
		strings.HasPrefix(image, "https://"),
		strings.HasPrefix(image, "file://"),
		filepath.IsAbs(image),
		s.BaseDir == "":
		return image
	}
	return filepath.Join(s.BaseDir, image)
}
