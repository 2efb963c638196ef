// Package session runs one game: it reads input, advances the simulation,
// composes a frame per tick and hands it to the render worker until the
// player wins, loses or quits.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/term-invaders/internal/audio"
	"github.com/vovakirdan/term-invaders/internal/core"
	"github.com/vovakirdan/term-invaders/internal/games/invaders"
	"github.com/vovakirdan/term-invaders/internal/platform/term"
	"github.com/vovakirdan/term-invaders/internal/registry"
	"github.com/vovakirdan/term-invaders/internal/render"
)

// DefaultTickSleep is the pause between ticks when Options leaves it unset.
const DefaultTickSleep = time.Millisecond

// State is the lifecycle of a session.
type State int

const (
	StateRunning State = iota
	StateWon
	StateLost
	StateQuit
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	case StateQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Options configures a session.
type Options struct {
	Terminal  registry.Terminal // Required. The session closes it on exit.
	Audio     audio.Sink        // Defaults to audio.Nop
	KeyMap    term.KeyMap       // Defaults to term.DefaultKeyMap
	Logger    *log.Logger       // Defaults to a discarding logger
	Clock     func() time.Time  // Defaults to time.Now
	TickSleep time.Duration     // Zero means DefaultTickSleep, negative means no pause

	// Optional starting entities, used by tests to set up a scenario.
	Player    *invaders.Player
	Formation *invaders.Formation
}

// Result summarises a finished session.
type Result struct {
	Outcome State
	Kills   int
	Elapsed time.Duration
	Frames  int
}

// Session is a single game from the first frame to an outcome.
type Session struct {
	term      registry.Terminal
	audio     audio.Sink
	keys      term.KeyMap
	logger    *log.Logger
	clock     func() time.Time
	tickSleep time.Duration

	player    *invaders.Player
	formation *invaders.Formation
	state     State
	kills     int
}

// New validates opts and prepares a session. Nothing touches the terminal
// until Run.
func New(opts Options) (*Session, error) {
	if opts.Terminal == nil {
		return nil, errors.New("session: no terminal")
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if len(opts.KeyMap.Quit.Keys()) == 0 {
		opts.KeyMap = term.DefaultKeyMap()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.TickSleep == 0 {
		opts.TickSleep = DefaultTickSleep
	}
	if opts.Player == nil {
		opts.Player = invaders.NewPlayer(core.Cols, core.Rows)
	}
	if opts.Formation == nil {
		opts.Formation = invaders.NewFormation(core.Cols, core.Rows)
	}

	return &Session{
		term:      opts.Terminal,
		audio:     opts.Audio,
		keys:      opts.KeyMap,
		logger:    opts.Logger,
		clock:     opts.Clock,
		tickSleep: opts.TickSleep,
		player:    opts.Player,
		formation: opts.Formation,
		state:     StateRunning,
	}, nil
}

// Run plays the session to completion. Cancelling ctx ends it as a quit.
// The terminal is closed and the render worker joined on every return path.
func (s *Session) Run(ctx context.Context) (res Result, err error) {
	queue := render.NewQueue()
	worker := render.StartWorker(s.term, queue, core.Cols, core.Rows, s.logger)
	start := s.clock()

	s.logger.Info("session started", "invaders", s.formation.Count())

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session: panic: %v", r)
		}

		queue.Close()
		if werr := worker.Wait(); werr != nil && err == nil {
			err = werr
		}
		s.audio.Wait()
		if cerr := s.term.Close(); cerr != nil {
			s.logger.Error("terminal restore failed", "err", cerr)
			if err == nil {
				err = fmt.Errorf("session: close terminal: %w", cerr)
			}
		}

		res = Result{
			Outcome: s.state,
			Kills:   s.kills,
			Elapsed: s.clock().Sub(start),
			Frames:  worker.Frames(),
		}
		s.logger.Info("session ended",
			"outcome", res.Outcome,
			"kills", res.Kills,
			"elapsed", res.Elapsed.Round(time.Millisecond),
			"frames", res.Frames,
			"err", err,
		)
	}()

	last := start
	for s.state == StateRunning {
		now := s.clock()
		delta := now.Sub(last)
		last = now

		if err := s.tick(ctx, delta, queue); err != nil {
			return res, err
		}
		if werr := worker.Err(); werr != nil {
			return res, werr
		}

		if s.state == StateRunning && s.tickSleep > 0 {
			time.Sleep(s.tickSleep)
		}
	}
	return res, nil
}

// tick advances the game by one step and queues the resulting frame.
func (s *Session) tick(ctx context.Context, delta time.Duration, queue *render.Queue) error {
	delta = max(delta, 0)

	keys, err := s.term.Poll()
	if err != nil {
		return fmt.Errorf("session: poll input: %w", err)
	}
	quit := false
	for _, k := range keys {
		switch s.keys.Action(k) {
		case core.ActionLeft:
			s.player.MoveLeft()
		case core.ActionRight:
			s.player.MoveRight()
		case core.ActionFire:
			if s.player.Shoot() {
				s.audio.Play(audio.CuePew)
			}
		case core.ActionQuit:
			quit = true
		}
	}

	// Hits are resolved before and after the formation steps so a shot and
	// an invader cannot swap cells unnoticed.
	before := s.formation.Count()
	s.player.Update(delta)
	hit := s.player.DetectHits(s.formation)
	if s.formation.Update(delta) {
		s.audio.Play(audio.CueMove)
	}
	if s.player.DetectHits(s.formation) {
		hit = true
	}
	if hit {
		s.kills += before - s.formation.Count()
		s.audio.Play(audio.CueExplode)
	}

	if err := queue.Send(s.compose()); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	switch {
	case quit || ctx.Err() != nil:
		s.state = StateQuit
		s.audio.Play(audio.CueBye)
	case s.formation.AllKilled():
		s.state = StateWon
		s.audio.Play(audio.CueWin)
	case s.formation.ReachedBottom():
		s.state = StateLost
		s.audio.Play(audio.CueLose)
	}
	return nil
}

// compose draws the current world into a fresh frame. The frame belongs to
// the render worker once sent.
func (s *Session) compose() *core.Frame {
	f := core.NewFrame()
	for _, d := range []core.Drawable{s.player, s.formation} {
		d.Draw(f)
	}
	return f
}
