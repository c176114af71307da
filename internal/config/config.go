package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	ErrInvalidReel = errors.New("invalid reel settings")
	ErrInvalidUI   = errors.New("invalid ui settings")
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Reel   ReelConfig   `toml:"reel"`
	UI     UIConfig     `toml:"ui"`

	path string // file Load read from; Save writes back here
}

type ServerConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Token    string `toml:"token"`
	UserID   string `toml:"user_id"`
}

// ReelConfig configures the poster reel and its motion.
type ReelConfig struct {
	Gap           float64 `toml:"gap"`
	PauseOnHover  bool    `toml:"pause_on_hover"`
	Speed         float64 `toml:"speed"`           // px per frame
	ResumeDelayMS int     `toml:"resume_delay_ms"` // quiet time after a drag before autoplay resumes
	ItemWidth     int     `toml:"item_width"`
	ItemHeight    int     `toml:"item_height"`
	Library       string  `toml:"library"` // Jellyfin view name; empty = all views
	Limit         int     `toml:"limit"`   // latest items per view

	Items []ItemConfig `toml:"items"`
}

// ItemConfig is a static reel entry. Image is a local path or an http(s) URL.
type ItemConfig struct {
	Title    string `toml:"title"`
	Subtitle string `toml:"subtitle"`
	Image    string `toml:"image"`
}

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
}

// ResumeDelay returns the post-drag quiescence delay.
func (r ReelConfig) ResumeDelay() time.Duration {
	return time.Duration(r.ResumeDelayMS) * time.Millisecond
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{},
		Reel: ReelConfig{
			Gap:           28,
			PauseOnHover:  true,
			Speed:         1,
			ResumeDelayMS: 5000,
			ItemWidth:     220,
			ItemHeight:    330,
			Limit:         20,
		},
		UI: UIConfig{
			Fullscreen: false,
			Width:      1920,
			Height:     1080,
		},
	}
}

// Validate reports settings the reel cannot run with.
func (c *Config) Validate() error {
	r := c.Reel
	switch {
	case r.Gap < 0:
		return fmt.Errorf("reel.gap %v must not be negative: %w", r.Gap, ErrInvalidReel)
	case r.Speed <= 0:
		return fmt.Errorf("reel.speed %v must be positive: %w", r.Speed, ErrInvalidReel)
	case r.ResumeDelayMS < 0:
		return fmt.Errorf("reel.resume_delay_ms %d must not be negative: %w", r.ResumeDelayMS, ErrInvalidReel)
	case r.ItemWidth <= 0 || r.ItemHeight <= 0:
		return fmt.Errorf("reel item size %dx%d must be positive: %w", r.ItemWidth, r.ItemHeight, ErrInvalidReel)
	case r.Limit <= 0:
		return fmt.Errorf("reel.limit %d must be positive: %w", r.Limit, ErrInvalidReel)
	}
	if c.UI.Width <= 0 || c.UI.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive: %w", c.UI.Width, c.UI.Height, ErrInvalidUI)
	}
	return nil
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "couchreel"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config from the default location. A missing file yields the
// defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, falling back to defaults for a missing
// file and for keys the file does not set.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Path is the file Save writes to.
func (c *Config) Path() (string, error) {
	if c.path != "" {
		return c.path, nil
	}
	return ConfigPath()
}

func (c *Config) Save() error {
	path, err := c.Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
