// Package config provides YAML-based configuration loading for the game:
// terminal backend, loop pacing, audio, key bindings and logging.
// Gameplay tuning is fixed and lives with the game itself.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all runtime configuration.
type Config struct {
	Terminal TerminalConfig `yaml:"terminal"`
	Loop     LoopConfig     `yaml:"loop"`
	Audio    AudioConfig    `yaml:"audio"`
	Keys     KeysConfig     `yaml:"keys"`
	Log      LogConfig      `yaml:"log"`
}

// TerminalConfig selects the terminal backend.
type TerminalConfig struct {
	Backend string `yaml:"backend"` // tcell | ansi
}

// LoopConfig defines game loop pacing.
type LoopConfig struct {
	TickSleep Duration `yaml:"tick_sleep"` // Sleep between simulation ticks
}

// AudioConfig defines sound output parameters.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`      // Master volume, 0..1
	SampleRate int     `yaml:"sample_rate"` // Device sample rate in Hz
	AssetsDir  string  `yaml:"assets_dir"`  // Optional directory with <cue>.wav overrides
}

// KeysConfig lists the key names bound to each action.
type KeysConfig struct {
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
	Fire  []string `yaml:"fire"`
	Quit  []string `yaml:"quit"`
}

// LogConfig defines where and how verbosely to log.
type LogConfig struct {
	File  string `yaml:"file"`  // Empty disables logging
	Level string `yaml:"level"` // debug | info | warn | error
}

// Duration is a time.Duration that reads and writes as "250ms" in YAML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the duration in time.Duration notation.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML parses a duration string such as "1ms" or "2s".
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
