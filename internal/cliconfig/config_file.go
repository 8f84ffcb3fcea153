package cliconfig

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with string durations and pointer fields so an
// absent key leaves the current value alone.
type FileConfig struct {
	Ticks      *int   `toml:"ticks"`
	TickRate   string `toml:"tick_rate"`
	FixedDelta *bool  `toml:"fixed_delta"`

	LogLevel   string `toml:"log_level"`
	LogConsole *bool  `toml:"log_console"`
	TUI        *bool  `toml:"tui"`
	DOTPath    string `toml:"dot"`

	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`

	EnemyTopology   string `toml:"enemy_topology"`
	HoneyTopology   string `toml:"honey_topology"`
	MaxCascadeDepth *int   `toml:"max_cascade_depth"`

	EnemySpeed    *float64 `toml:"enemy_speed"`
	HoneySpeed    *float64 `toml:"honey_speed"`
	HuntTime      string   `toml:"hunt_time"`
	HoneyWaitTime string   `toml:"honey_wait"`
}

// LoadFileConfig reads a TOML file. Unknown keys are rejected.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	f, err := os.Open(path)
	if err != nil {
		return fc, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.stagesim/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".stagesim", "config.toml")
	}
	return ""
}

func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// ApplyFileConfig copies set file values into cfg, skipping flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("ticks", fc.Ticks, &cfg.Ticks)
	s.setBool("fixed-delta", fc.FixedDelta, &cfg.FixedDelta)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setBool("log-console", fc.LogConsole, &cfg.LogConsole)
	s.setBool("tui", fc.TUI, &cfg.TUI)
	s.setString("dot", fc.DOTPath, &cfg.DOTPath)
	s.setString("otlp-endpoint", fc.OTLPEndpoint, &cfg.OTLPEndpoint)
	s.setString("service-name", fc.ServiceName, &cfg.ServiceName)
	s.setString("enemy-topology", fc.EnemyTopology, &cfg.EnemyTopology)
	s.setString("honey-topology", fc.HoneyTopology, &cfg.HoneyTopology)
	s.setInt("max-cascade-depth", fc.MaxCascadeDepth, &cfg.MaxCascadeDepth)
	s.setFloat("enemy-speed", fc.EnemySpeed, &cfg.EnemySpeed)
	s.setFloat("honey-speed", fc.HoneySpeed, &cfg.HoneySpeed)

	return errors.Join(
		s.setDuration("tick-rate", fc.TickRate, &cfg.TickRate),
		s.setDuration("hunt-time", fc.HuntTime, &cfg.HuntTime),
		s.setDuration("honey-wait", fc.HoneyWaitTime, &cfg.HoneyWaitTime),
	)
}
