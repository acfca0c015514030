package app

import (
	"flag"
	"strings"

	"bigmap/internal/core"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	ConfigPath string
	Scale      int
	TPS        int
	Width      int
	Height     int
	HUDWidth   int
	LogLevel   string
	Overrides  kvList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 20, TPS: 60, Width: 480, Height: 720, HUDWidth: 220}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "path to a YAML map config")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per world unit")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.Width, "width", c.Width, "map view width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "map view height in pixels")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "stats panel width in pixels (0 hides it)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level override (debug, info, warn, error)")
	fs.Var(&c.Overrides, "set", "map config override in key=value form (repeatable)")
}

// MapConfig loads the map configuration file and applies the -set and
// -log-level overrides on top of it.
func (c *Config) MapConfig() (core.Config, error) {
	cfg, err := core.LoadConfig(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	cfg = cfg.FromMap(core.ParseOverrides(c.Overrides))
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	return cfg, nil
}

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
