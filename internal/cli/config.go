package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/NoelAshdown/kicad-devel/pkg/kicad/tracks"
)

// configName is the per-project configuration file looked up next to the
// board file when --config is not given.
const configName = ".pcbclean.toml"

// Config holds the defaults a project can set for the clean command.
type Config struct {
	Cleanup CleanupConfig `toml:"cleanup"`
}

// CleanupConfig mirrors the cleanup pass switches.
type CleanupConfig struct {
	Vias     bool `toml:"vias"`
	Merge    bool `toml:"merge"`
	Shorts   bool `toml:"shorts"`
	Dangling bool `toml:"dangling"`
}

// DefaultConfig returns the passes enabled when neither a config file
// nor flags say otherwise: everything except short-circuit removal,
// which deletes copper a user may rather re-net.
func DefaultConfig() Config {
	return Config{
		Cleanup: CleanupConfig{
			Vias:     true,
			Merge:    true,
			Shorts:   false,
			Dangling: true,
		},
	}
}

// Options converts the configuration to engine pass options.
func (c Config) Options() tracks.Options {
	return tracks.Options{
		CleanVias:          c.Cleanup.Vias,
		MergeSegments:      c.Cleanup.Merge,
		RemoveMisConnected: c.Cleanup.Shorts,
		DeleteDangling:     c.Cleanup.Dangling,
	}
}

// LoadConfig reads a TOML configuration file. Keys the file does not set
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// findConfig resolves the configuration for a board file: an explicit
// path wins, otherwise the board's directory is searched for the default
// file name, otherwise the defaults apply.
func findConfig(explicit, boardPath string) (Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	candidate := filepath.Join(filepath.Dir(boardPath), configName)
	if _, err := os.Stat(candidate); err == nil {
		return LoadConfig(candidate)
	}
	return DefaultConfig(), nil
}
