// Package audio plays the game's sound cues. Cues are fire-and-forget:
// the simulation never waits on a sound, only shutdown does.
package audio

import "sync"

// Cue names understood by every sink.
const (
	CueExplode = "explode"
	CueLose    = "lose"
	CueMove    = "move"
	CuePew     = "pew"
	CueStartup = "startup"
	CueWin     = "win"
	CueBye     = "bye"
)

// Cues lists every known cue name.
var Cues = []string{CueExplode, CueLose, CueMove, CuePew, CueStartup, CueWin, CueBye}

// Sink plays named sound cues.
type Sink interface {
	// Play queues a cue and returns immediately. Unknown names are ignored.
	Play(name string)

	// Wait blocks until every queued cue has finished playing.
	Wait()

	// Close releases the audio device.
	Close() error
}

// Nop is a silent sink.
type Nop struct{}

func (Nop) Play(string)  {}
func (Nop) Wait()        {}
func (Nop) Close() error { return nil }

// Recorder is a silent sink that remembers what was played.
type Recorder struct {
	mu     sync.Mutex
	played []string
	waits  int
}

// Play records name.
func (r *Recorder) Play(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, name)
}

// Wait counts the call.
func (r *Recorder) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits++
}

func (r *Recorder) Close() error { return nil }

// Played returns a copy of the cue names in play order.
func (r *Recorder) Played() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.played...)
}

// Count returns how many times name was played.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.played {
		if p == name {
			n++
		}
	}
	return n
}

// Waits returns how many times Wait was called.
func (r *Recorder) Waits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waits
}
