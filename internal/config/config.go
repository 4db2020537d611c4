package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName     = "song-viewer"
	logFileName = "song-viewer.log"
)

type Config struct {
	BaseURL                string  `koanf:"base_url"`                  // catalog root, e.g. "https://music.example.com/catalog"
	PreferredStemFormat    string  `koanf:"preferred_stem_format"`     // "ogg" or "mp3"
	PollIntervalSeconds    float64 `koanf:"poll_interval_seconds"`     // position refresh cadence
	HTTPTimeoutSeconds     float64 `koanf:"http_timeout_seconds"`      // catalog fetch timeout
	StemLoadTimeoutSeconds float64 `koanf:"stem_load_timeout_seconds"` // per-stem load bound
	Volume                 float64 `koanf:"volume"`                    // initial level (0.0-1.0)
	DebugLog               bool    `koanf:"debug_log"`                 // write a debug log under the XDG state dir
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		PreferredStemFormat:    "ogg",
		PollIntervalSeconds:    1,
		HTTPTimeoutSeconds:     10,
		StemLoadTimeoutSeconds: 10,
		Volume:                 1,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize base URL (remove trailing slash)
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
	}

	// ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

// PollInterval returns the position refresh cadence with the default applied.
func (c *Config) PollInterval() time.Duration {
	return secondsOrDefault(c.PollIntervalSeconds, time.Second)
}

// HTTPTimeout returns the catalog fetch timeout with the default applied.
func (c *Config) HTTPTimeout() time.Duration {
	return secondsOrDefault(c.HTTPTimeoutSeconds, 10*time.Second)
}

// StemLoadTimeout returns the per-stem load bound with the default applied.
func (c *Config) StemLoadTimeout() time.Duration {
	return secondsOrDefault(c.StemLoadTimeoutSeconds, 10*time.Second)
}

// LogFilePath returns the debug log location under the XDG state dir,
// creating parent directories as needed.
func (c *Config) LogFilePath() (string, error) {
	return xdg.StateFile(filepath.Join(appName, logFileName))
}

func secondsOrDefault(secs float64, def time.Duration) time.Duration {
	if secs <= 0 {
		return def
	}
	return time.Duration(secs * float64(time.Second))
}
