// Package term provides the terminal backends the game can draw on and read
// keys from. Each backend registers itself with the registry on import:
//
//	tcell  full-screen tcell screen (default)
//	ansi   raw ANSI escape sequences, with bubbletea reading the keyboard
package term

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/term-invaders/internal/config"
	"github.com/vovakirdan/term-invaders/internal/registry"
)

// ErrTerminalTooSmall is returned when the terminal cannot fit the playfield.
var ErrTerminalTooSmall = errors.New("terminal too small")

func init() {
	registry.Register(config.BackendTcell, "tcell screen with alternate buffer (default)", newTcell)
	registry.Register(config.BackendANSI, "plain ANSI escape sequences, bubbletea keyboard input", newANSI)
}

// checkSize fails when a width x height terminal cannot hold the playfield.
func checkSize(width, height int, opts registry.Options) error {
	if width < opts.Cols || height < opts.Rows {
		return fmt.Errorf("%w: need %dx%d, have %dx%d", ErrTerminalTooSmall, opts.Cols, opts.Rows, width, height)
	}
	return nil
}

func loggerOf(opts registry.Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return log.New(io.Discard)
}
