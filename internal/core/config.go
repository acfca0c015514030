package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the startup parameters of the big map. It is read once and
// never changes while a map is live.
type Config struct {
	// CellRadius is the radius of the largest object a cell can hold.
	CellRadius float64 `yaml:"cell_radius"`

	ScreenRows int `yaml:"screen_rows"`
	ScreenCols int `yaml:"screen_cols"`

	MapRows int `yaml:"map_rows"`
	MapCols int `yaml:"map_cols"`

	// StartRow and StartCol pick the screen the map opens on.
	StartRow int `yaml:"start_row"`
	StartCol int `yaml:"start_col"`

	// Seed feeds the per-cell data seeds.
	Seed int64 `yaml:"seed"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the standard configuration: a 1000x1000 map split
// into 10x5 screens.
func DefaultConfig() Config {
	return Config{
		CellRadius: 0.5,
		ScreenRows: 10,
		ScreenCols: 5,
		MapRows:    1000,
		MapCols:    1000,
		Seed:       1337,
		LogLevel:   "info",
	}
}

// Start returns the configured opening screen.
func (c Config) Start() ScreenIndex { return ScreenIndex{Row: c.StartRow, Col: c.StartCol} }

// LoadConfig reads a YAML config file on top of the defaults. A missing file
// yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// FromMap applies flag-style key/value overrides on top of c. Unknown keys
// and unparsable values are ignored.
func (c Config) FromMap(kv map[string]string) Config {
	if kv == nil {
		return c
	}
	if v, ok := kv["cell_radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.CellRadius = parsed
		}
	}
	setPositive := func(key string, dst *int) {
		if v, ok := kv[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				*dst = parsed
			}
		}
	}
	setPositive("screen_rows", &c.ScreenRows)
	setPositive("screen_cols", &c.ScreenCols)
	setPositive("map_rows", &c.MapRows)
	setPositive("map_cols", &c.MapCols)
	if v, ok := kv["start_row"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.StartRow = parsed
		}
	}
	if v, ok := kv["start_col"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.StartCol = parsed
		}
	}
	if v, ok := kv["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := kv["log_level"]; ok && v != "" {
		c.LogLevel = v
	}
	return c
}

// ParseOverrides splits key=value pairs into a map for FromMap. Entries
// without '=' are skipped; later keys win.
func ParseOverrides(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	kv := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		kv[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return kv
}
