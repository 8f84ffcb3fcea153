// Package cliconfig layers stagesim settings from defaults, a TOML file, the
// environment and command-line flags, in that order of increasing priority.
package cliconfig

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/tickfsm/examples/stage"
)

// Config is the resolved stagesim configuration.
type Config struct {
	Ticks      int // 0 runs until interrupted
	TickRate   time.Duration
	FixedDelta bool

	LogLevel   string
	LogConsole bool
	TUI        bool
	DOTPath    string

	OTLPEndpoint string
	ServiceName  string

	EnemyTopology   string
	HoneyTopology   string
	MaxCascadeDepth int

	EnemySpeed    float64
	HoneySpeed    float64
	HuntTime      time.Duration
	HoneyWaitTime time.Duration
}

func DefaultConfig() Config {
	sc := stage.DefaultConfig()
	return Config{
		TickRate:        16667 * time.Microsecond,
		LogLevel:        "info",
		LogConsole:      true,
		ServiceName:     "stagesim",
		MaxCascadeDepth: 64,
		EnemySpeed:      sc.EnemySpeed,
		HoneySpeed:      sc.HoneySpeed,
		HuntTime:        sc.HuntTime,
		HoneyWaitTime:   sc.HoneyWaitTime,
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick-rate must be positive, got %s", c.TickRate))
	}
	if c.Ticks < 0 {
		errs = append(errs, fmt.Errorf("ticks must not be negative, got %d", c.Ticks))
	}
	if c.MaxCascadeDepth < 0 {
		errs = append(errs, fmt.Errorf("max-cascade-depth must not be negative, got %d", c.MaxCascadeDepth))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log-level: %w", err))
	}
	if c.EnemySpeed <= 0 || c.HoneySpeed <= 0 {
		errs = append(errs, errors.New("speeds must be positive"))
	}
	if c.HuntTime <= 0 || c.HoneyWaitTime <= 0 {
		errs = append(errs, errors.New("hunt-time and honey-wait must be positive"))
	}
	if c.TUI && c.Ticks > 0 {
		errs = append(errs, errors.New("tui runs until quit and cannot be combined with ticks"))
	}
	return errors.Join(errs...)
}

// Stage returns the simulation tuning for this configuration.
func (c Config) Stage() stage.Config {
	sc := stage.DefaultConfig()
	sc.EnemySpeed = c.EnemySpeed
	sc.HoneySpeed = c.HoneySpeed
	sc.HuntTime = c.HuntTime
	sc.HoneyWaitTime = c.HoneyWaitTime
	return sc
}

// configSetter writes a value unless the matching flag was set on the
// command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) skip(flag string) bool {
	return s.changed[flag]
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.skip(flag) {
		return
	}
	*dst = value
}

// setInt applies a pointer so an explicit zero is kept.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.skip(flag) {
		return
	}
	*dst = *value
}

func (s *configSetter) setFloat(flag string, value *float64, dst *float64) {
	if value == nil || s.skip(flag) {
		return
	}
	*dst = *value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.skip(flag) {
		return
	}
	*dst = *value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.skip(flag) {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
