package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	xterm "golang.org/x/term"

	"github.com/vovakirdan/term-invaders/internal/core"
	"github.com/vovakirdan/term-invaders/internal/registry"
)

// ANSI control sequences.
const (
	seqAltScreenOn  = "\x1b[?1049h"
	seqAltScreenOff = "\x1b[?1049l"
	seqHideCursor   = "\x1b[?25l"
	seqShowCursor   = "\x1b[?25h"
	seqClear        = "\x1b[2J"
	seqResetStyle   = "\x1b[0m"
)

// quitTimeout bounds how long Close waits for the input program to stop.
const quitTimeout = time.Second

// ANSITerminal writes escape sequences straight to the output and reads keys
// through a bubbletea program that renders nothing.
type ANSITerminal struct {
	out      *bufio.Writer
	renderer *lipgloss.Renderer
	styles   map[core.Color]lipgloss.Style
	width    int
	height   int
	logger   *log.Logger

	// cursor tracks where the next write lands so runs of adjacent cells
	// skip the positioning sequence.
	cursorX, cursorY int

	inFd     int
	rawState *xterm.State

	program *tea.Program
	keys    chan registry.Key
	done    chan struct{}
	exited  chan struct{}
	runErr  error

	closeOnce sync.Once
	closeErr  error
}

func newANSI(opts registry.Options) (registry.Terminal, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return NewANSITerminal(opts)
}

// NewANSITerminal takes over opts.Out and starts reading keys from opts.In.
// When the output is not a terminal its size is assumed to fit the playfield.
func NewANSITerminal(opts registry.Options) (*ANSITerminal, error) {
	width, height := opts.Cols, opts.Rows
	if f, ok := opts.Out.(*os.File); ok && xterm.IsTerminal(int(f.Fd())) {
		w, h, err := xterm.GetSize(int(f.Fd()))
		if err != nil {
			return nil, fmt.Errorf("ansi: terminal size: %w", err)
		}
		width, height = w, h
	}
	if err := checkSize(width, height, opts); err != nil {
		return nil, err
	}

	t := &ANSITerminal{
		out:      bufio.NewWriter(opts.Out),
		renderer: lipgloss.NewRenderer(opts.Out),
		styles:   make(map[core.Color]lipgloss.Style),
		width:    width,
		height:   height,
		logger:   loggerOf(opts),
		cursorX:  -1,
		keys:     make(chan registry.Key, eventBuffer),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}

	// A renderer-less bubbletea program leaves the tty alone, so raw mode
	// is set here.
	if f, ok := opts.In.(*os.File); ok && xterm.IsTerminal(int(f.Fd())) {
		t.inFd = int(f.Fd())
		state, err := xterm.MakeRaw(t.inFd)
		if err != nil {
			return nil, fmt.Errorf("ansi: raw mode: %w", err)
		}
		t.rawState = state
	}

	t.out.WriteString(seqAltScreenOn + seqHideCursor + seqClear)
	if err := t.out.Flush(); err != nil {
		t.restoreInput()
		return nil, fmt.Errorf("ansi: enter alt screen: %w", err)
	}

	t.program = tea.NewProgram(keyForwarder{keys: t.keys, done: t.done},
		tea.WithInput(opts.In),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	go func() {
		_, err := t.program.Run()
		t.runErr = err
		close(t.exited)
	}()

	t.logger.Debug("ansi terminal ready", "width", width, "height", height)
	return t, nil
}

// keyForwarder is a headless bubbletea model that hands every key press to
// the game.
type keyForwarder struct {
	keys chan<- registry.Key
	done <-chan struct{}
}

func (m keyForwarder) Init() tea.Cmd { return nil }

func (m keyForwarder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		select {
		case m.keys <- registry.Key(k.String()):
		case <-m.done:
		}
	}
	return m, nil
}

func (m keyForwarder) View() string { return "" }

// SetCell writes a styled glyph at (x, y).
func (t *ANSITerminal) SetCell(x, y int, c core.Cell) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return
	}
	if x != t.cursorX || y != t.cursorY {
		// CUP is 1-based.
		fmt.Fprintf(t.out, "\x1b[%d;%dH", y+1, x+1)
	}
	t.out.WriteString(t.style(c.Color).Render(string(c.Rune)))
	t.cursorX, t.cursorY = x+1, y
}

func (t *ANSITerminal) style(c core.Color) lipgloss.Style {
	if s, ok := t.styles[c]; ok {
		return s
	}
	s := t.renderer.NewStyle()
	if idx := c.Index(); idx >= 0 {
		s = s.Foreground(lipgloss.Color(strconv.Itoa(idx)))
	}
	t.styles[c] = s
	return s
}

// Flush writes buffered output to the terminal.
func (t *ANSITerminal) Flush() error {
	if err := t.out.Flush(); err != nil {
		return fmt.Errorf("ansi: write: %w", err)
	}
	return nil
}

// Size returns the terminal size measured at startup.
func (t *ANSITerminal) Size() (int, int) {
	return t.width, t.height
}

// Poll drains pending keys without blocking. An input program that died
// with an error makes every later poll fail.
func (t *ANSITerminal) Poll() ([]registry.Key, error) {
	var keys []registry.Key
	for {
		select {
		case k := <-t.keys:
			keys = append(keys, k)
		default:
			select {
			case <-t.exited:
				if t.runErr != nil {
					return keys, fmt.Errorf("ansi: input: %w", t.runErr)
				}
			default:
			}
			return keys, nil
		}
	}
}

// Close stops the input program, shows the cursor and leaves the alternate
// screen.
func (t *ANSITerminal) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
		t.program.Quit()
		select {
		case <-t.exited:
		case <-time.After(quitTimeout):
			t.logger.Warn("input program did not stop, killing it")
			t.program.Kill()
			<-t.exited
		}

		t.out.WriteString(seqResetStyle + seqShowCursor + seqAltScreenOff)
		if err := t.out.Flush(); err != nil {
			t.closeErr = fmt.Errorf("ansi: restore terminal: %w", err)
		}
		if err := t.restoreInput(); err != nil && t.closeErr == nil {
			t.closeErr = err
		}
	})
	return t.closeErr
}

func (t *ANSITerminal) restoreInput() error {
	if t.rawState == nil {
		return nil
	}
	if err := xterm.Restore(t.inFd, t.rawState); err != nil {
		return fmt.Errorf("ansi: restore input: %w", err)
	}
	return nil
}
