package term

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/vovakirdan/term-invaders/internal/config"
	"github.com/vovakirdan/term-invaders/internal/core"
	"github.com/vovakirdan/term-invaders/internal/registry"
)

// KeyMap defines the in-game key bindings.
type KeyMap struct {
	Left  key.Binding
	Right key.Binding
	Fire  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Fire, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right},
		{k.Fire, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(config.Default().Keys)
}

// NewKeyMap builds bindings from the configured key names.
func NewKeyMap(cfg config.KeysConfig) KeyMap {
	return KeyMap{
		Left:  binding(cfg.Left, "move left"),
		Right: binding(cfg.Right, "move right"),
		Fire:  binding(cfg.Fire, "fire"),
		Quit:  binding(cfg.Quit, "quit"),
	}
}

func binding(keys []string, desc string) key.Binding {
	names := make([]string, len(keys))
	labels := make([]string, len(keys))
	for i, k := range keys {
		names[i] = normalize(k)
		labels[i] = label(names[i])
	}
	return key.NewBinding(
		key.WithKeys(names...),
		key.WithHelp(strings.Join(labels, "/"), desc),
	)
}

// Action maps a key press to a game action. Quit wins over everything else
// when a key is bound twice.
func (k KeyMap) Action(pressed registry.Key) core.Action {
	pressed = registry.Key(normalize(string(pressed)))

	switch {
	case key.Matches(pressed, k.Quit):
		return core.ActionQuit
	case key.Matches(pressed, k.Fire):
		return core.ActionFire
	case key.Matches(pressed, k.Left):
		return core.ActionLeft
	case key.Matches(pressed, k.Right):
		return core.ActionRight
	}
	return core.ActionNone
}

// normalize folds alternative spellings onto the names backends report.
func normalize(k string) string {
	switch strings.ToLower(k) {
	case "space":
		return " "
	case "escape":
		return "esc"
	case "return":
		return "enter"
	}
	return k
}

// label returns the help text for a key name.
func label(k string) string {
	switch k {
	case " ":
		return "space"
	case "left":
		return "←"
	case "right":
		return "→"
	}
	return k
}
