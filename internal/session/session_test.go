package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/term-invaders/internal/audio"
	"github.com/vovakirdan/term-invaders/internal/core"
	"github.com/vovakirdan/term-invaders/internal/games/invaders"
	"github.com/vovakirdan/term-invaders/internal/registry"
)

// fakeTerminal replays scripted key batches, one per Poll, and keeps what
// was drawn in a frame.
type fakeTerminal struct {
	mu       sync.Mutex
	screen   *core.Frame
	batches  [][]registry.Key
	polls    int
	pollErr  error
	flushErr error
	flushes  int
	closes   int
	onPoll   func()
}

func newFakeTerminal(batches ...[]registry.Key) *fakeTerminal {
	return &fakeTerminal{screen: core.NewFrame(), batches: batches}
}

func (f *fakeTerminal) SetCell(x, y int, c core.Cell) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screen.SetCell(x, y, c)
}

func (f *fakeTerminal) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return f.flushErr
}

func (f *fakeTerminal) Size() (int, int) { return core.Cols, core.Rows }

func (f *fakeTerminal) Poll() ([]registry.Key, error) {
	if f.onPoll != nil {
		f.onPoll()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	var keys []registry.Key
	if f.polls < len(f.batches) {
		keys = f.batches[f.polls]
	}
	f.polls++
	return keys, nil
}

func (f *fakeTerminal) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeTerminal) screenString() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screen.String()
}

// steppingClock returns a clock that advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func repeat(k registry.Key, n int) []registry.Key {
	keys := make([]registry.Key, n)
	for i := range keys {
		keys[i] = k
	}
	return keys
}

func run(t *testing.T, opts Options) (Result, error) {
	t.Helper()
	if opts.Clock == nil {
		opts.Clock = steppingClock(20 * time.Millisecond)
	}
	opts.TickSleep = -1
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s.Run(context.Background())
}

func TestRunWon(t *testing.T) {
	// Fifteen steps left put the ship under the invader, then fire.
	batch := append(repeat("h", core.Cols/2-5), " ")
	term := newFakeTerminal(batch)
	rec := &audio.Recorder{}

	res, err := run(t, Options{
		Terminal:  term,
		Audio:     rec,
		Formation: invaders.NewFormationAt(core.Cols, core.Rows, []core.Point{{X: 5, Y: 0}}),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Outcome != StateWon {
		t.Fatalf("outcome = %v, expected won", res.Outcome)
	}
	if res.Kills != 1 {
		t.Errorf("kills = %d, expected 1", res.Kills)
	}
	if res.Frames == 0 || res.Elapsed <= 0 {
		t.Errorf("frames = %d, elapsed = %v, expected both positive", res.Frames, res.Elapsed)
	}
	for cue, want := range map[string]int{audio.CuePew: 1, audio.CueExplode: 1, audio.CueWin: 1, audio.CueLose: 0} {
		if got := rec.Count(cue); got != want {
			t.Errorf("%s played %d times, expected %d", cue, got, want)
		}
	}
	if rec.Waits() != 1 {
		t.Errorf("audio waited %d times, expected 1", rec.Waits())
	}
	if term.closes != 1 {
		t.Errorf("terminal closed %d times, expected 1", term.closes)
	}

	// The last frame reached the screen: no invader and no shot left.
	screen := term.screenString()
	if strings.ContainsAny(screen, string([]rune{invaders.InvaderChar, invaders.InvaderAltChar, invaders.ShotChar})) {
		t.Errorf("final screen still shows an invader or a shot:\n%s", screen)
	}
	if got := term.screen.Get(5, core.Rows-1).Rune; got != invaders.PlayerChar {
		t.Errorf("ship at column 5 = %q, expected %q", got, invaders.PlayerChar)
	}
}

func TestRunLost(t *testing.T) {
	term := newFakeTerminal()
	rec := &audio.Recorder{}

	// At the right edge one row above the ship: the first step descends
	// onto the player row.
	res, err := run(t, Options{
		Terminal:  term,
		Audio:     rec,
		Formation: invaders.NewFormationAt(core.Cols, core.Rows, []core.Point{{X: core.Cols - 1, Y: core.Rows - 2}}),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Outcome != StateLost {
		t.Fatalf("outcome = %v, expected lost", res.Outcome)
	}
	if res.Kills != 0 {
		t.Errorf("kills = %d, expected 0", res.Kills)
	}
	if rec.Count(audio.CueLose) != 1 || rec.Count(audio.CueMove) != 1 {
		t.Errorf("played %v, expected one move and one lose", rec.Played())
	}
	if term.closes != 1 {
		t.Errorf("terminal closed %d times, expected 1", term.closes)
	}
}

func TestRunQuit(t *testing.T) {
	term := newFakeTerminal(nil, []registry.Key{"q"})
	rec := &audio.Recorder{}

	res, err := run(t, Options{Terminal: term, Audio: rec})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Outcome != StateQuit {
		t.Fatalf("outcome = %v, expected quit", res.Outcome)
	}
	if term.polls != 2 {
		t.Errorf("polled %d times, expected the loop to end on the second tick", term.polls)
	}
	// Both queued frames were drawn before Run returned.
	if res.Frames != 2 {
		t.Errorf("frames = %d, expected 2", res.Frames)
	}
	if rec.Count(audio.CueBye) != 1 {
		t.Errorf("bye played %d times, expected 1", rec.Count(audio.CueBye))
	}
	if term.closes != 1 {
		t.Errorf("terminal closed %d times, expected 1", term.closes)
	}
	if !strings.ContainsRune(term.screenString(), invaders.PlayerChar) {
		t.Error("expected the ship on the final screen")
	}
}

func TestRunContextCancelled(t *testing.T) {
	term := newFakeTerminal()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(Options{Terminal: term, TickSleep: -1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcome != StateQuit {
		t.Errorf("outcome = %v, expected quit", res.Outcome)
	}
	if term.polls != 1 {
		t.Errorf("polled %d times, expected 1", term.polls)
	}
}

func TestRunFireCooldown(t *testing.T) {
	term := newFakeTerminal([]registry.Key{" ", " ", " "}, nil, []registry.Key{"q"})
	rec := &audio.Recorder{}

	if _, err := run(t, Options{Terminal: term, Audio: rec}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rec.Count(audio.CuePew); got != 1 {
		t.Errorf("pew played %d times, expected 1", got)
	}
}

func TestRunLongTicks(t *testing.T) {
	tests := []struct {
		name    string
		step    time.Duration
		invader core.Point
	}{
		// Ten seconds carries the shot far past the top in one tick.
		{"ten second tick", 10 * time.Second, core.Pt(core.Cols/2, 10)},
		{"invader on the top row", time.Second, core.Pt(core.Cols/2, 0)},
		{"invader next to the ship", 5 * time.Second, core.Pt(core.Cols/2, core.Rows-3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := newFakeTerminal([]registry.Key{" "})

			res, err := run(t, Options{
				Terminal:  term,
				Clock:     steppingClock(tt.step),
				Formation: invaders.NewFormationAt(core.Cols, core.Rows, []core.Point{tt.invader}),
			})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Outcome != StateWon {
				t.Errorf("outcome = %v, expected won", res.Outcome)
			}
			if res.Kills != 1 {
				t.Errorf("kills = %d, expected 1", res.Kills)
			}
		})
	}
}

func TestRunFormationKeepsWallClockPace(t *testing.T) {
	// A lone invader steps every two seconds. Twenty ticks of 200ms are
	// four seconds: two steps, whatever the tick length.
	batches := make([][]registry.Key, 21)
	batches[20] = []registry.Key{"q"}
	term := newFakeTerminal(batches...)
	rec := &audio.Recorder{}

	res, err := run(t, Options{
		Terminal:  term,
		Audio:     rec,
		Clock:     steppingClock(200 * time.Millisecond),
		Formation: invaders.NewFormationAt(core.Cols, core.Rows, []core.Point{{X: 0, Y: 0}}),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcome != StateQuit {
		t.Fatalf("outcome = %v, expected quit", res.Outcome)
	}
	if got := rec.Count(audio.CueMove); got != 2 {
		t.Errorf("formation stepped %d times, expected 2", got)
	}
	if got := term.screen.Get(2, 0).Rune; got != invaders.InvaderChar && got != invaders.InvaderAltChar {
		t.Errorf("cell (2, 0) = %q, expected the invader", got)
	}
}

func TestRunPollError(t *testing.T) {
	errInput := errors.New("input gone")
	term := newFakeTerminal()
	term.pollErr = errInput

	res, err := run(t, Options{Terminal: term})
	if !errors.Is(err, errInput) {
		t.Fatalf("error = %v, expected input error", err)
	}
	if res.Outcome != StateRunning {
		t.Errorf("outcome = %v, expected running", res.Outcome)
	}
	if term.closes != 1 {
		t.Errorf("terminal closed %d times, expected 1", term.closes)
	}
}

func TestRunRenderError(t *testing.T) {
	errWrite := errors.New("broken pipe")
	term := newFakeTerminal()
	term.flushErr = errWrite

	_, err := run(t, Options{Terminal: term})
	if !errors.Is(err, errWrite) {
		t.Fatalf("error = %v, expected write error", err)
	}
	if term.closes != 1 {
		t.Errorf("terminal closed %d times, expected 1", term.closes)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	term := newFakeTerminal()
	term.onPoll = func() { panic("keyboard on fire") }

	_, err := run(t, Options{Terminal: term})
	if err == nil || !strings.Contains(err.Error(), "keyboard on fire") {
		t.Fatalf("error = %v, expected recovered panic", err)
	}
	if term.closes != 1 {
		t.Errorf("terminal closed %d times, expected 1", term.closes)
	}
}

func TestNewRequiresTerminal(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error without a terminal")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateRunning, "running"},
		{StateWon, "won"},
		{StateLost, "lost"},
		{StateQuit, "quit"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, expected %q", tt.state, got, tt.want)
		}
	}
}
