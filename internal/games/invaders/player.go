package invaders

import (
	"time"

	"github.com/vovakirdan/term-invaders/internal/core"
)

// Player is the ship on the bottom row. It owns its shots exclusively.
type Player struct {
	x          int
	row        int
	cols       int
	cooldown   core.Timer
	shots      []Shot
	explosions []explosion
}

// NewPlayer places a ship in the middle of the bottom row of a cols x rows field.
func NewPlayer(cols, rows int) *Player {
	return &Player{
		x:        cols / 2,
		row:      rows - 1,
		cols:     cols,
		cooldown: core.NewReadyTimer(ShootCooldown),
		shots:    make([]Shot, 0, MaxShots),
	}
}

// X returns the ship's column.
func (p *Player) X() int {
	return p.x
}

// Row returns the ship's row, which never changes.
func (p *Player) Row() int {
	return p.row
}

// MoveLeft shifts the ship one column left. No-op at the left edge.
func (p *Player) MoveLeft() {
	p.x = core.Clamp(p.x-1, 0, p.cols-1)
}

// MoveRight shifts the ship one column right. No-op at the right edge.
func (p *Player) MoveRight() {
	p.x = core.Clamp(p.x+1, 0, p.cols-1)
}

// Shoot fires a shot from just above the ship.
// Returns false without side effects while the cooldown runs or when
// MaxShots are already in flight; key repeats are dropped, not queued.
func (p *Player) Shoot() bool {
	if !p.cooldown.Ready() || len(p.shots) >= MaxShots {
		return false
	}
	p.shots = append(p.shots, newShot(p.x, p.row-1))
	p.cooldown.Reset()
	return true
}

// Update advances the cooldown, moves every shot up and expires old
// explosions. A shot that left the top is dropped once DetectHits has tested
// the rows it crossed on the way out.
func (p *Player) Update(delta time.Duration) {
	p.cooldown.Update(delta)

	kept := p.shots[:0]
	for _, s := range p.shots {
		s.update(delta)
		if s.retired() {
			continue
		}
		kept = append(kept, s)
	}
	p.shots = kept

	live := p.explosions[:0]
	for _, e := range p.explosions {
		e.timer.Update(delta)
		if e.timer.Ready() {
			continue
		}
		live = append(live, e)
	}
	p.explosions = live
}

// DetectHits resolves every shot against the formation in a single pass.
// A shot hits the first invader in its column between its current cell and
// the rows it swept since the previous pass; both are removed. Shots past the
// top are dropped after the test. Returns true if anything was hit.
func (p *Player) DetectHits(f *Formation) bool {
	hit := false
	kept := p.shots[:0]
	for _, s := range p.shots {
		if top, bottom, ok := s.span(); ok {
			if at, killed := f.KillInSpan(s.x, top, bottom); killed {
				hit = true
				p.explosions = append(p.explosions, newExplosion(at))
				continue
			}
		}
		s.checked()
		if !s.onField() {
			continue
		}
		kept = append(kept, s)
	}
	p.shots = kept
	return hit
}

// Shots returns the cells occupied by the shots on the playfield.
func (p *Player) Shots() []core.Point {
	out := make([]core.Point, 0, len(p.shots))
	for _, s := range p.shots {
		if s.onField() {
			out = append(out, s.Pos())
		}
	}
	return out
}

// Draw paints the ship, its shots and any hit markers.
func (p *Player) Draw(dst *core.Frame) {
	dst.Set(p.x, p.row, PlayerChar, core.ColorBrightGreen)
	for _, s := range p.shots {
		if s.onField() {
			dst.Set(s.x, s.row, ShotChar, core.ColorBrightYellow)
		}
	}
	for _, e := range p.explosions {
		dst.Set(e.at.X, e.at.Y, ExplosionChar, core.ColorOrange)
	}
}
