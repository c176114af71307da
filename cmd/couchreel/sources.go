package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/depeter/couchreel/internal/config"
	"github.com/depeter/couchreel/internal/jellyfin"
	"github.com/depeter/couchreel/internal/source"
)

// passwordEnv holds the Jellyfin password for first-time sign in.
const passwordEnv = "COUCHREEL_PASSWORD"

var errNoCredentials = errors.New("no token saved and " + passwordEnv + " not set")

// selectSource picks where the reel's items come from: demo when asked, a
// Jellyfin server when one is configured, the config's static items
// otherwise, and demo as a last resort.
func selectSource(cfg *config.Config, demo bool) (source.Source, error) {
	switch {
	case demo:
		return source.NewDemo(source.DefaultDemoCount), nil
	case cfg.Server.URL != "":
		client, err := connect(cfg)
		if err != nil {
			return nil, err
		}
		r := cfg.Reel
		return source.NewJellyfin(client, r.Library, r.Limit, r.ItemWidth, r.ItemHeight), nil
	case len(cfg.Reel.Items) > 0:
		baseDir := ""
		if path, err := cfg.Path(); err == nil {
			baseDir = filepath.Dir(path)
		}
		return source.NewStatic(cfg.Reel.Items, baseDir), nil
	}
	log.Printf("No server or items configured, showing demo items")
	return source.NewDemo(source.DefaultDemoCount), nil
}

// connect returns a client for the configured server, signing in and saving
// the token when none is stored yet.
func connect(cfg *config.Config) (*jellyfin.Client, error) {
	client := jellyfin.NewClient(cfg.Server.URL)
	if cfg.Server.Token != "" {
		client.SetToken(cfg.Server.Token, cfg.Server.UserID)
		return client, nil
	}

	password, ok := os.LookupEnv(passwordEnv)
	if !ok || cfg.Server.Username == "" {
		return nil, fmt.Errorf("jellyfin %s: %w", cfg.Server.URL, errNoCredentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := client.Authenticate(ctx, cfg.Server.Username, password); err != nil {
		return nil, err
	}

	cfg.Server.Token = client.Token()
	cfg.Server.UserID = client.UserID()
	if err := cfg.Save(); err != nil {
		log.Printf("Failed to save token: %v", err)
	}
	return client, nil
}
