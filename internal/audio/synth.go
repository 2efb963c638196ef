package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// WaveType defines oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// sweep is an oscillator whose frequency slides linearly from one value to
// another over its duration.
type sweep struct {
	from, to float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewSweep creates an oscillator gliding from one frequency to another.
// A constant tone is a sweep with from == to.
func NewSweep(from, to float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &sweep{
		from:     from,
		to:       to,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		progress := float64(o.position) / float64(o.duration)
		freq := o.from + (o.to-o.from)*progress
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *sweep) Err() error { return nil }

// envelope applies attack/release shaping to a stream and ends it after
// the given duration.
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	releaseStart int
	total        int
}

// NewEnvelope wraps s with a linear attack and release.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	rel := rate.N(release)
	return &envelope{
		streamer:     s,
		attack:       rate.N(attack),
		release:      rel,
		releaseStart: max(total-rel, 0),
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if left := e.total - e.position; left < len(samples) {
		samples = samples[:left]
	}
	if len(samples) == 0 {
		return 0, false
	}

	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= e.releaseStart && e.release > 0 {
			vol = math.Min(vol, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s by a linear gain. math.Log2(0) is -Inf, so zero
// volume is mapped to a silent effect.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is one segment of a cue: a shaped sweep followed by an optional gap.
type note struct {
	from, to float64
	wave     WaveType
	length   time.Duration
	attack   time.Duration
	release  time.Duration
	gap      time.Duration
	gain     float64
}

// cueNotes holds the synthesized recipe for every cue.
var cueNotes = map[string][]note{
	CuePew: {
		{from: 1400, to: 300, wave: WaveSquare, length: 120 * time.Millisecond, attack: 2 * time.Millisecond, release: 80 * time.Millisecond, gain: 0.25},
	},
	CueMove: {
		{from: 110, to: 95, wave: WaveSquare, length: 60 * time.Millisecond, attack: 2 * time.Millisecond, release: 30 * time.Millisecond, gain: 0.3},
	},
	CueExplode: {
		{wave: WaveNoise, length: 300 * time.Millisecond, attack: 2 * time.Millisecond, release: 250 * time.Millisecond, gain: 0.35},
	},
	CueLose: {
		{from: 440, to: 330, wave: WaveSaw, length: 300 * time.Millisecond, attack: 5 * time.Millisecond, release: 60 * time.Millisecond, gap: 40 * time.Millisecond, gain: 0.3},
		{from: 330, to: 220, wave: WaveSaw, length: 300 * time.Millisecond, attack: 5 * time.Millisecond, release: 60 * time.Millisecond, gap: 40 * time.Millisecond, gain: 0.3},
		{from: 220, to: 110, wave: WaveSaw, length: 600 * time.Millisecond, attack: 5 * time.Millisecond, release: 400 * time.Millisecond, gain: 0.3},
	},
	CueWin: {
		{from: 523.25, to: 523.25, wave: WaveSquare, length: 120 * time.Millisecond, attack: 2 * time.Millisecond, release: 40 * time.Millisecond, gap: 20 * time.Millisecond, gain: 0.2},
		{from: 659.25, to: 659.25, wave: WaveSquare, length: 120 * time.Millisecond, attack: 2 * time.Millisecond, release: 40 * time.Millisecond, gap: 20 * time.Millisecond, gain: 0.2},
		{from: 783.99, to: 783.99, wave: WaveSquare, length: 120 * time.Millisecond, attack: 2 * time.Millisecond, release: 40 * time.Millisecond, gap: 20 * time.Millisecond, gain: 0.2},
		{from: 1046.5, to: 1046.5, wave: WaveSquare, length: 400 * time.Millisecond, attack: 2 * time.Millisecond, release: 300 * time.Millisecond, gain: 0.2},
	},
	CueBye: {
		{from: 660, to: 330, wave: WaveSine, length: 250 * time.Millisecond, attack: 5 * time.Millisecond, release: 150 * time.Millisecond, gain: 0.5},
	},
}

// startupTune is played with pure sine tones: G4 C5 E5 G5.
var startupTune = []float64{392.00, 523.25, 659.25, 783.99}

// synthesize builds a fresh streamer for a cue, or nil for unknown names.
// Streamers are single-use, so every Play needs a new one.
func synthesize(name string, rate beep.SampleRate, volume float64) beep.Streamer {
	if name == CueStartup {
		return newVolume(startup(rate), volume*0.5)
	}

	notes, ok := cueNotes[name]
	if !ok {
		return nil
	}

	parts := make([]beep.Streamer, 0, len(notes)*2)
	for _, n := range notes {
		osc := NewSweep(n.from, n.to, n.length, n.wave, rate)
		shaped := NewEnvelope(osc, n.length, n.attack, n.release, rate)
		parts = append(parts, newVolume(shaped, n.gain))
		if n.gap > 0 {
			parts = append(parts, generators.Silence(rate.N(n.gap)))
		}
	}
	return newVolume(beep.Seq(parts...), volume)
}

func startup(rate beep.SampleRate) beep.Streamer {
	const length = 110 * time.Millisecond

	parts := make([]beep.Streamer, 0, len(startupTune)*2)
	for _, freq := range startupTune {
		tone, err := generators.SineTone(rate, freq)
		if err != nil {
			// Frequency above Nyquist for this rate.
			continue
		}
		parts = append(parts,
			NewEnvelope(tone, length, 3*time.Millisecond, 50*time.Millisecond, rate),
			generators.Silence(rate.N(15*time.Millisecond)),
		)
	}
	return beep.Seq(parts...)
}
