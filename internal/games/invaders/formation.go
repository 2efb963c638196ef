package invaders

import (
	"time"

	"github.com/vovakirdan/term-invaders/internal/core"
)

// Formation is the grid of live invaders. All invaders share one horizontal
// direction and step together; dead invaders are removed, never flagged.
type Formation struct {
	cols      int
	rows      int
	invaders  []core.Point
	initial   int
	direction int
	descents  int
	moveTimer core.Timer
}

// NewFormation fills the classic layout for a cols x rows field: every even
// column from 2 up to cols-4, on rows 2, 4, 6 and 8.
func NewFormation(cols, rows int) *Formation {
	var at []core.Point
	for y := 2; y < 9 && y < rows-1; y += 2 {
		for x := 2; x < cols-2; x += 2 {
			at = append(at, core.Pt(x, y))
		}
	}
	return NewFormationAt(cols, rows, at)
}

// NewFormationAt builds a formation from explicit invader positions.
// Positions outside the field are dropped.
func NewFormationAt(cols, rows int, at []core.Point) *Formation {
	f := &Formation{
		cols:      cols,
		rows:      rows,
		invaders:  make([]core.Point, 0, len(at)),
		direction: 1,
	}
	for _, p := range at {
		if p.In(cols, rows) {
			f.invaders = append(f.invaders, p)
		}
	}
	f.initial = len(f.invaders)
	f.moveTimer = core.NewTimer(f.Interval())
	return f
}

// Interval returns the current step period. It shrinks linearly with the
// number of survivors: BaseMoveInterval * remaining / initial, never below
// MinMoveInterval.
func (f *Formation) Interval() time.Duration {
	if f.initial == 0 {
		return BaseMoveInterval
	}
	d := time.Duration(int64(BaseMoveInterval) * int64(len(f.invaders)) / int64(f.initial))
	if d < MinMoveInterval {
		return MinMoveInterval
	}
	return d
}

// Update accumulates delta and performs at most one discrete formation step
// once the step period has elapsed. If any invader would leave the field on
// that step, the whole formation reverses and descends one row instead of
// moving sideways. Returns true when a step happened.
func (f *Formation) Update(delta time.Duration) bool {
	if len(f.invaders) == 0 {
		return false
	}

	f.moveTimer.Update(delta)
	if !f.moveTimer.Ready() {
		return false
	}
	f.moveTimer.Reset()

	if f.edgeAhead() {
		f.direction = -f.direction
		f.descents++
		f.shift(core.Pt(0, 1))
	} else {
		f.shift(core.Pt(f.direction, 0))
	}

	f.moveTimer.SetDuration(f.Interval())
	return true
}

func (f *Formation) shift(by core.Point) {
	for i := range f.invaders {
		f.invaders[i] = f.invaders[i].Add(by)
	}
}

// edgeAhead reports whether any invader's next sideways step leaves the field.
func (f *Formation) edgeAhead() bool {
	for _, inv := range f.invaders {
		next := inv.X + f.direction
		if next < 0 || next > f.cols-1 {
			return true
		}
	}
	return false
}

// KillAt removes the invader at p. Returns false if the cell is empty.
func (f *Formation) KillAt(p core.Point) bool {
	for i, inv := range f.invaders {
		if inv == p {
			f.remove(i)
			return true
		}
	}
	return false
}

// KillInSpan removes the invader in column x with the largest row in
// [top, bottom]: the first one a shot travelling up from bottom to top meets.
func (f *Formation) KillInSpan(x, top, bottom int) (core.Point, bool) {
	best := -1
	for i, inv := range f.invaders {
		if inv.X != x || inv.Y < top || inv.Y > bottom {
			continue
		}
		if best < 0 || inv.Y > f.invaders[best].Y {
			best = i
		}
	}
	if best < 0 {
		return core.Point{}, false
	}
	at := f.invaders[best]
	f.remove(best)
	return at, true
}

func (f *Formation) remove(i int) {
	f.invaders = append(f.invaders[:i], f.invaders[i+1:]...)
	f.moveTimer.SetDuration(f.Interval())
}

// AllKilled reports whether no invader is left.
func (f *Formation) AllKilled() bool {
	return len(f.invaders) == 0
}

// ReachedBottom reports whether any invader has reached the player's row.
func (f *Formation) ReachedBottom() bool {
	for _, inv := range f.invaders {
		if inv.Y >= f.rows-1 {
			return true
		}
	}
	return false
}

// Count returns the number of live invaders.
func (f *Formation) Count() int {
	return len(f.invaders)
}

// Invaders returns a copy of the live invader positions.
func (f *Formation) Invaders() []core.Point {
	out := make([]core.Point, len(f.invaders))
	copy(out, f.invaders)
	return out
}

// Direction returns the shared horizontal direction, +1 or -1.
func (f *Formation) Direction() int {
	return f.direction
}

// Descents returns how many rows the formation has dropped.
func (f *Formation) Descents() int {
	return f.descents
}

// Draw paints every invader. The glyph alternates halfway through each step
// period so the formation appears to march.
func (f *Formation) Draw(dst *core.Frame) {
	glyph := InvaderChar
	if f.moveTimer.Progress() >= 0.5 {
		glyph = InvaderAltChar
	}
	for _, inv := range f.invaders {
		dst.Set(inv.X, inv.Y, glyph, core.ColorBrightRed)
	}
}
