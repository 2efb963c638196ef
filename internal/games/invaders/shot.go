package invaders

import (
	"time"

	"github.com/vovakirdan/term-invaders/internal/core"
)

// Shot is a projectile travelling straight up from the player's ship.
// Movement is cell-discrete: travel accumulates ShotSpeed*delta and the shot
// moves one row for every whole unit. unchecked is the lowest row the shot
// passed through that has not been tested against the formation yet.
type Shot struct {
	x         int
	row       int
	unchecked int
	travel    float64
}

func newShot(x, row int) Shot {
	return Shot{x: x, row: row, unchecked: row}
}

// update advances the shot by ShotSpeed*delta rows. A long delta may carry it
// past the top; it stays around until its span has been tested.
func (s *Shot) update(delta time.Duration) {
	s.travel += ShotSpeed * delta.Seconds()
	for s.travel >= 1 {
		s.travel--
		s.row--
	}
}

// span returns the rows to test on this pass: the cell the shot is on plus
// every row it swept since the previous pass. ok is false once nothing on
// the playfield is left to test.
func (s *Shot) span() (top, bottom int, ok bool) {
	top = max(s.row, 0)
	bottom = max(s.unchecked, s.row)
	return top, bottom, top <= bottom
}

// checked records that every row down to the current one has been tested.
// The current cell is tested again next pass since invaders can step into it.
func (s *Shot) checked() {
	s.unchecked = s.row - 1
}

// onField reports whether the shot is still inside the playfield.
func (s *Shot) onField() bool {
	return s.row >= 0
}

// retired reports whether the shot left the top with no rows left to test.
func (s *Shot) retired() bool {
	return !s.onField() && s.unchecked < 0
}

// Pos returns the cell the shot currently occupies.
func (s Shot) Pos() core.Point {
	return core.Pt(s.x, s.row)
}

// explosion marks the cell of a hit for a short while.
type explosion struct {
	at    core.Point
	timer core.Timer
}

func newExplosion(at core.Point) explosion {
	return explosion{at: at, timer: core.NewTimer(ExplosionTime)}
}
