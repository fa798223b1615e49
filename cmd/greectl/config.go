package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-acme/lego/platform/config/env"
	"github.com/johnelliott/greectl/pkg/gree"
)

// DefaultConfigFile is read when no -config is given and it exists
const DefaultConfigFile = "greectl.toml"

// Config is everything the daemon needs at startup
type Config struct {
	Power bool      `toml:"power"`
	Mode  gree.Mode `toml:"mode"`

	// Per-mode settings keyed by mode name. Keys left out of a table keep the
	// factory default for that mode.
	States map[gree.Mode]gree.State `toml:"-"`

	HTTP struct {
		Enabled bool   `toml:"enabled"`
		Port    string `toml:"port"`
	} `toml:"http"`
	HomeKit struct {
		Enabled     bool   `toml:"enabled"`
		Pin         string `toml:"pin"`
		StoragePath string `toml:"storage_path"`
	} `toml:"homekit"`
	Sink struct {
		Path   string `toml:"path"`
		Format string `toml:"format"`
		Queue  int    `toml:"queue"`
	} `toml:"sink"`
	Timeout time.Duration `toml:"-"`
}

// NewConfig returns the defaults
func NewConfig() *Config {
	cfg := &Config{
		Power:  false,
		Mode:   gree.ModeAuto,
		States: map[gree.Mode]gree.State{},
	}
	cfg.HTTP.Enabled = true
	cfg.HTTP.Port = "8080"
	cfg.HomeKit.Enabled = false
	cfg.HomeKit.Pin = "80000000"
	cfg.HomeKit.StoragePath = "./var/local/homekitdb"
	cfg.Sink.Path = "-"
	cfg.Sink.Format = string(FormatRaw)
	cfg.Sink.Queue = 8
	return cfg
}

type stateTables struct {
	States map[string]toml.Primitive `toml:"states"`
}

// LoadConfig reads path over the defaults. An empty path falls back to
// DefaultConfigFile when it exists, and to the defaults when it doesn't.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return cfg, nil
		}
		path = DefaultConfigFile
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig: %w", err)
	}
	if _, err := toml.Decode(string(b), cfg); err != nil {
		return nil, fmt.Errorf("LoadConfig %s: %w", path, err)
	}
	// Decoded again so each mode's table lands on that mode's defaults
	var st stateTables
	md, err := toml.Decode(string(b), &st)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig %s: %w", path, err)
	}
	for name, prim := range st.States {
		m, err := gree.ParseMode(name)
		if err != nil {
			return nil, fmt.Errorf("LoadConfig %s: states: %w", path, err)
		}
		s := gree.DefaultState(m)
		if err := md.PrimitiveDecode(prim, &s); err != nil {
			return nil, fmt.Errorf("LoadConfig %s: states.%s: %w", path, name, err)
		}
		cfg.States[m] = s
	}
	return cfg, nil
}

// ApplyEnv lets environment variables override the file
func (c *Config) ApplyEnv() {
	c.HTTP.Enabled = env.GetOrDefaultBool("HTTP_ENABLED", c.HTTP.Enabled)
	c.HTTP.Port = env.GetOrDefaultString("HTTP_PORT", c.HTTP.Port)
	c.HomeKit.Enabled = env.GetOrDefaultBool("HOMEKIT_ENABLED", c.HomeKit.Enabled)
	c.HomeKit.Pin = env.GetOrDefaultString("HOMEKIT_PIN", c.HomeKit.Pin)
	c.HomeKit.StoragePath = env.GetOrDefaultString("STORAGE_PATH", c.HomeKit.StoragePath)
	c.Sink.Path = env.GetOrDefaultString("SINK_PATH", c.Sink.Path)
	c.Sink.Format = env.GetOrDefaultString("SINK_FORMAT", c.Sink.Format)
	c.Sink.Queue = env.GetOrDefaultInt("SINK_QUEUE", c.Sink.Queue)
	c.Timeout = env.GetOrDefaultSecond("TIMEOUT_SEC", c.Timeout)
}

// Controller builds the starting controller
func (c *Config) Controller() *gree.Controller {
	states := make([]*gree.State, int(gree.ModeHeat)+1)
	for m, s := range c.States {
		if int(m) >= len(states) {
			continue
		}
		s := s
		states[m] = &s
	}
	ctrl := gree.NewController(states)
	ctrl.SetPower(c.Power)
	ctrl.SetMode(c.Mode)
	return ctrl
}
