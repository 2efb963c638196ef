package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("parse embedded defaults: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded defaults = %+v, expected %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded defaults invalid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("terminal:\n  backend: ansi\nloop:\n  tick_sleep: 5ms\naudio:\n  enabled: false\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Terminal.Backend != BackendANSI {
		t.Errorf("backend = %q, expected %q", cfg.Terminal.Backend, BackendANSI)
	}
	if cfg.Loop.TickSleep.Std() != 5*time.Millisecond {
		t.Errorf("tick_sleep = %s, expected 5ms", cfg.Loop.TickSleep)
	}
	if cfg.Audio.Enabled {
		t.Error("audio should be disabled")
	}
	// Fields absent from the file keep their defaults.
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("sample_rate = %d, expected default 44100", cfg.Audio.SampleRate)
	}
	if !reflect.DeepEqual(cfg.Keys, Default().Keys) {
		t.Errorf("keys = %+v, expected defaults", cfg.Keys)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("loop:\n  tick_sleep: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error for bad duration")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("terminal:\n  backend: curses\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load(invalid) error = %v, expected ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"ansi backend", func(c *Config) { c.Terminal.Backend = BackendANSI }, true},
		{"zero tick sleep", func(c *Config) { c.Loop.TickSleep = 0 }, true},
		{"unknown backend", func(c *Config) { c.Terminal.Backend = "curses" }, false},
		{"negative tick sleep", func(c *Config) { c.Loop.TickSleep = Duration(-time.Millisecond) }, false},
		{"volume above one", func(c *Config) { c.Audio.Volume = 1.5 }, false},
		{"negative volume", func(c *Config) { c.Audio.Volume = -0.1 }, false},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, false},
		{"no fire keys", func(c *Config) { c.Keys.Fire = nil }, false},
		{"no quit keys", func(c *Config) { c.Keys.Quit = []string{} }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalid) {
				t.Errorf("error = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in, want string
	}{
		{"~/.invaders/invaders.log", filepath.Join(home, ".invaders/invaders.log")},
		{"~", home},
		{"/var/log/invaders.log", "/var/log/invaders.log"},
		{"relative/path", "relative/path"},
		{"~user/file", "~user/file"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
