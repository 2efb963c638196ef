package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/invaders.yaml
var defaultYAML []byte

// Backend names known to the configuration.
const (
	BackendTcell = "tcell"
	BackendANSI  = "ansi"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Terminal: TerminalConfig{
			Backend: BackendTcell,
		},
		Loop: LoopConfig{
			TickSleep: Duration(time.Millisecond),
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.6,
			SampleRate: 44100,
		},
		Keys: KeysConfig{
			Left:  []string{"left", "h"},
			Right: []string{"right", "l"},
			Fire:  []string{" ", "enter"},
			Quit:  []string{"esc", "q", "ctrl+c"},
		},
		Log: LogConfig{
			File:  "~/.invaders/invaders.log",
			Level: "info",
		},
	}
}
