package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/term-invaders/internal/audio"
	"github.com/vovakirdan/term-invaders/internal/core"
	"github.com/vovakirdan/term-invaders/internal/logging"
	"github.com/vovakirdan/term-invaders/internal/platform/term"
	"github.com/vovakirdan/term-invaders/internal/registry"
	"github.com/vovakirdan/term-invaders/internal/session"
)

func runGame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// Sound
	var sink audio.Sink = audio.Nop{}
	if cfg.Audio.Enabled {
		beepSink, err := audio.NewBeepSink(cfg.Audio, logger)
		if err != nil {
			return fmt.Errorf("%w (run with --mute to play without sound)", err)
		}
		sink = beepSink
	}
	defer sink.Close()

	// Terminal
	logger.Info("opening terminal", "backend", cfg.Terminal.Backend)
	terminal, err := registry.Create(cfg.Terminal.Backend, registry.Options{
		Cols:   core.Cols,
		Rows:   core.Rows,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	sess, err := session.New(session.Options{
		Terminal:  terminal,
		Audio:     sink,
		KeyMap:    term.NewKeyMap(cfg.Keys),
		Logger:    logger,
		TickSleep: tickSleep(cfg.Loop.TickSleep.Std()),
	})
	if err != nil {
		terminal.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink.Play(audio.CueStartup)
	res, err := sess.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(summary(res))
	return nil
}

// tickSleep maps the configured pause onto session options, where zero
// means the default.
func tickSleep(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}

var (
	wonStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	lostStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	quitStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	statsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// summary renders the one-line result printed after the terminal is restored.
func summary(res session.Result) string {
	var headline string
	switch res.Outcome {
	case session.StateWon:
		headline = wonStyle.Render("You win!")
	case session.StateLost:
		headline = lostStyle.Render("Game over.")
	default:
		headline = quitStyle.Render("Bye!")
	}

	stats := fmt.Sprintf("%d invaders destroyed in %s", res.Kills, res.Elapsed.Round(time.Second))
	return headline + " " + statsStyle.Render(stats)
}
