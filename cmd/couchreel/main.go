package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/depeter/couchreel/assets/icon"
	"github.com/depeter/couchreel/internal/app"
	"github.com/depeter/couchreel/internal/cache"
	"github.com/depeter/couchreel/internal/config"
	"github.com/depeter/couchreel/internal/slider"
	"github.com/depeter/couchreel/internal/ui"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "config file (default $XDG_CONFIG_HOME/couchreel/config.toml)")
		demo       = pflag.Bool("demo", false, "show generated demo items instead of a server")
		debug      = pflag.Bool("debug", false, "log motion engine events")
		fullscreen = pflag.BoolP("fullscreen", "f", false, "start fullscreen")
		clearCache = pflag.Bool("clear-cache", false, "delete downloaded posters before starting")
	)
	pflag.Parse()

	// Load config
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *fullscreen {
		cfg.UI.Fullscreen = true
	}

	if *debug {
		slider.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Init fonts
	if err := ui.InitFonts(goregular.TTF); err != nil {
		log.Fatalf("Failed to init fonts: %v", err)
	}

	// Init image cache
	cacheDir := filepath.Join(os.TempDir(), "couchreel", "images")
	if configDir, err := config.ConfigDir(); err == nil {
		cacheDir = filepath.Join(configDir, "cache", "images")
	}
	imgCache, err := cache.NewImageCache(cacheDir)
	if err != nil {
		log.Fatalf("Failed to init image cache: %v", err)
	}
	if *clearCache {
		if err := imgCache.ClearDisk(); err != nil {
			log.Fatalf("Failed to clear image cache: %v", err)
		}
		log.Printf("Cleared image cache %s", cacheDir)
	}

	src, err := selectSource(cfg, *demo)
	if err != nil {
		log.Fatalf("Failed to set up source: %v", err)
	}
	log.Printf("Using %s source", src.Name())

	game := app.NewGame(cfg)
	game.Screens.Push(ui.NewReelScreen(src, imgCache, cfg.Reel))

	// Configure window
	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle("CouchReel")
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.UI.Fullscreen)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
