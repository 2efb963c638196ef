// Package registry provides a global registry for terminal backend factories.
// Backends register themselves in init() functions, allowing the CLI to
// select one by name without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/term-invaders/internal/core"
)

// ErrUnknownBackend is returned by Create for a name nobody registered.
var ErrUnknownBackend = errors.New("registry: unknown backend")

// Key is a normalised key press, named the way bubbletea names keys:
// "left", "right", "enter", "esc", "ctrl+c", " " for space, or the rune itself.
type Key string

// Surface is the writable side of a terminal: styled cells at (column, row).
type Surface interface {
	// SetCell stages a glyph at the given position. Nothing is visible
	// until Flush.
	SetCell(x, y int, c core.Cell)

	// Flush makes all staged cells visible. A failed flush is fatal for the
	// session.
	Flush() error

	// Size returns the usable terminal size in cells.
	Size() (width, height int)
}

// Terminal is a scoped terminal resource: an output surface plus a
// non-blocking key source. Creating one takes over the terminal (alternate
// screen, raw mode, hidden cursor); Close gives it back.
type Terminal interface {
	Surface

	// Poll returns every key pressed since the last call without blocking.
	// An empty slice means no input is pending.
	Poll() ([]Key, error)

	// Close restores the terminal to its pre-game state. Safe to call more
	// than once.
	Close() error
}

// Options configures a backend at creation time.
type Options struct {
	Cols   int         // Playfield width the terminal must fit
	Rows   int         // Playfield height the terminal must fit
	In     io.Reader   // Input stream (defaults to os.Stdin in backends)
	Out    io.Writer   // Output stream (defaults to os.Stdout in backends)
	Logger *log.Logger // Optional logger
}

// BackendInfo contains metadata about a registered backend.
type BackendInfo struct {
	Name        string
	Description string
}

// Factory creates a terminal backend.
type Factory func(opts Options) (Terminal, error)

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a backend factory to the registry.
// Typically called from a backend's init() function.
// Panics if a backend with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: backend %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = description
}

// List returns information about all registered backends, sorted by name.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(factories))
	for name := range factories {
		result = append(result, BackendInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a backend by name.
func Create(name string, opts Options) (Terminal, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, name)
	}

	return f(opts)
}

// Exists checks if a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}

// String returns the key name. It lets a Key be matched by bubbles key bindings.
func (k Key) String() string {
	return string(k)
}
