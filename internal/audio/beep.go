package audio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/vovakirdan/term-invaders/internal/config"
)

// BeepSink plays cues on the system audio device.
type BeepSink struct {
	cues   *cueBank
	logger *log.Logger
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewBeepSink opens the audio device and prepares every cue.
func NewBeepSink(cfg config.AudioConfig, logger *log.Logger) (*BeepSink, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rate := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	logger.Info("audio ready", "sample_rate", cfg.SampleRate, "volume", cfg.Volume)

	return &BeepSink{
		cues:   newCueBank(cfg, logger),
		logger: logger,
	}, nil
}

// Play starts a cue without blocking.
func (s *BeepSink) Play(name string) {
	if s.closed.Load() {
		return
	}
	streamer := s.cues.streamer(name)
	if streamer == nil {
		s.logger.Debug("unknown sound cue", "name", name)
		return
	}

	s.wg.Add(1)
	speaker.Play(beep.Seq(streamer, beep.Callback(s.wg.Done)))
}

// Wait blocks until every cue started so far has finished.
func (s *BeepSink) Wait() {
	s.wg.Wait()
}

// Close stops playback and releases the device. Cues still queued are dropped,
// so call Wait first to let them finish.
func (s *BeepSink) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	return nil
}

// cueBank produces fresh streamers per cue: a replay of a decoded WAV
// override when one exists, otherwise a synthesized sound.
type cueBank struct {
	rate      beep.SampleRate
	volume    float64
	overrides map[string]*beep.Buffer
}

func newCueBank(cfg config.AudioConfig, logger *log.Logger) *cueBank {
	bank := &cueBank{
		rate:      beep.SampleRate(cfg.SampleRate),
		volume:    cfg.Volume,
		overrides: make(map[string]*beep.Buffer),
	}
	if cfg.AssetsDir == "" {
		return bank
	}

	dir := config.ExpandHome(cfg.AssetsDir)
	for _, name := range Cues {
		path := filepath.Join(dir, name+".wav")
		buf, err := loadWAV(path, bank.rate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			logger.Warn("ignoring sound override", "path", path, "error", err)
			continue
		}
		bank.overrides[name] = buf
		logger.Debug("sound override loaded", "cue", name, "path", path)
	}
	return bank
}

// streamer returns a new streamer for name, or nil if the cue is unknown.
func (b *cueBank) streamer(name string) beep.Streamer {
	if buf, ok := b.overrides[name]; ok {
		return newVolume(buf.Streamer(0, buf.Len()), b.volume)
	}
	return synthesize(name, b.rate, b.volume)
}

// loadWAV decodes a WAV file into memory at the given sample rate.
func loadWAV(path string, rate beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}
