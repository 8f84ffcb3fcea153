package cliconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "STAGESIM_"

type envConfig struct {
	Ticks           *int           `env:"TICKS"`
	TickRate        *time.Duration `env:"TICK_RATE"`
	FixedDelta      *bool          `env:"FIXED_DELTA"`
	LogLevel        string         `env:"LOG_LEVEL"`
	LogConsole      *bool          `env:"LOG_CONSOLE"`
	TUI             *bool          `env:"TUI"`
	DOTPath         string         `env:"DOT"`
	OTLPEndpoint    string         `env:"OTLP_ENDPOINT"`
	ServiceName     string         `env:"SERVICE_NAME"`
	EnemyTopology   string         `env:"ENEMY_TOPOLOGY"`
	HoneyTopology   string         `env:"HONEY_TOPOLOGY"`
	MaxCascadeDepth *int           `env:"MAX_CASCADE_DEPTH"`
	EnemySpeed      *float64       `env:"ENEMY_SPEED"`
	HoneySpeed      *float64       `env:"HONEY_SPEED"`
	HuntTime        *time.Duration `env:"HUNT_TIME"`
	HoneyWaitTime   *time.Duration `env:"HONEY_WAIT"`
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvConfig applies STAGESIM_* variables, skipping flags in changed.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	applyEnv(cfg, ec, changed)
	return nil
}

func applyEnv(cfg *Config, ec envConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setInt("ticks", ec.Ticks, &cfg.Ticks)
	s.setBool("fixed-delta", ec.FixedDelta, &cfg.FixedDelta)
	s.setString("log-level", ec.LogLevel, &cfg.LogLevel)
	s.setBool("log-console", ec.LogConsole, &cfg.LogConsole)
	s.setBool("tui", ec.TUI, &cfg.TUI)
	s.setString("dot", ec.DOTPath, &cfg.DOTPath)
	s.setString("otlp-endpoint", ec.OTLPEndpoint, &cfg.OTLPEndpoint)
	s.setString("service-name", ec.ServiceName, &cfg.ServiceName)
	s.setString("enemy-topology", ec.EnemyTopology, &cfg.EnemyTopology)
	s.setString("honey-topology", ec.HoneyTopology, &cfg.HoneyTopology)
	s.setInt("max-cascade-depth", ec.MaxCascadeDepth, &cfg.MaxCascadeDepth)
	s.setFloat("enemy-speed", ec.EnemySpeed, &cfg.EnemySpeed)
	s.setFloat("honey-speed", ec.HoneySpeed, &cfg.HoneySpeed)

	setDur := func(flag string, v *time.Duration, dst *time.Duration) {
		if v != nil && !s.skip(flag) {
			*dst = *v
		}
	}
	setDur("tick-rate", ec.TickRate, &cfg.TickRate)
	setDur("hunt-time", ec.HuntTime, &cfg.HuntTime)
	setDur("honey-wait", ec.HoneyWaitTime, &cfg.HoneyWaitTime)
}
