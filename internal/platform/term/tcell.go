package term

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/term-invaders/internal/core"
	"github.com/vovakirdan/term-invaders/internal/registry"
)

// eventBuffer is how many input events may queue up between two polls.
const eventBuffer = 128

// TcellTerminal draws through a tcell.Screen.
type TcellTerminal struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	styles map[core.Color]tcell.Style
	logger *log.Logger

	closeOnce sync.Once
}

func newTcell(opts registry.Options) (registry.Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tcell: new screen: %w", err)
	}
	return NewTcellTerminal(screen, opts)
}

// NewTcellTerminal initialises screen and takes ownership of it.
// Tests pass a simulation screen.
func NewTcellTerminal(screen tcell.Screen, opts registry.Options) (*TcellTerminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tcell: init: %w", err)
	}

	w, h := screen.Size()
	if err := checkSize(w, h, opts); err != nil {
		screen.Fini()
		return nil, err
	}

	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()
	screen.Clear()

	t := &TcellTerminal{
		screen: screen,
		events: make(chan tcell.Event, eventBuffer),
		quit:   make(chan struct{}),
		styles: make(map[core.Color]tcell.Style),
		logger: loggerOf(opts),
	}
	go t.pump()

	t.logger.Debug("tcell terminal ready", "width", w, "height", h)
	return t, nil
}

// pump forwards screen events until the screen is finalized.
func (t *TcellTerminal) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// SetCell stages a styled glyph.
func (t *TcellTerminal) SetCell(x, y int, c core.Cell) {
	t.screen.SetContent(x, y, c.Rune, nil, t.style(c.Color))
}

func (t *TcellTerminal) style(c core.Color) tcell.Style {
	if s, ok := t.styles[c]; ok {
		return s
	}
	s := tcell.StyleDefault
	if idx := c.Index(); idx >= 0 {
		s = s.Foreground(tcell.PaletteColor(idx))
	}
	t.styles[c] = s
	return s
}

// Flush shows staged cells.
func (t *TcellTerminal) Flush() error {
	t.screen.Show()
	return nil
}

// Size returns the screen size.
func (t *TcellTerminal) Size() (int, int) {
	return t.screen.Size()
}

// Poll drains pending key events without blocking.
func (t *TcellTerminal) Poll() ([]registry.Key, error) {
	var keys []registry.Key
	for {
		select {
		case ev := <-t.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				keys = append(keys, keyName(ev))
			case *tcell.EventError:
				return keys, fmt.Errorf("tcell: input: %s", ev.Error())
			}
		default:
			return keys, nil
		}
	}
}

// Close finalizes the screen and gives the terminal back.
func (t *TcellTerminal) Close() error {
	t.closeOnce.Do(func() {
		close(t.quit)
		t.screen.Fini()
	})
	return nil
}

// keyName normalises a tcell key event to the names bubbletea uses. Config
// bindings are free-form key names and the ansi backend reports bubbletea's,
// so every key gets the same name on both backends, not only the defaults.
func keyName(ev *tcell.EventKey) registry.Key {
	switch ev.Key() {
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyRune:
		return registry.Key(string(ev.Rune()))
	}
	return registry.Key(strings.ToLower(ev.Name()))
}
