package invaders

import (
	"testing"
	"time"

	"github.com/vovakirdan/term-invaders/internal/core"
)

func TestNewFormationLayout(t *testing.T) {
	f := NewFormation(core.Cols, core.Rows)

	if f.Count() != 72 {
		t.Errorf("Count() = %d, expected 72", f.Count())
	}
	if f.Direction() != 1 {
		t.Errorf("Direction() = %d, expected 1", f.Direction())
	}
	for _, inv := range f.Invaders() {
		if inv.X < 2 || inv.X > core.Cols-4 || inv.X%2 != 0 {
			t.Errorf("Unexpected column %d", inv.X)
		}
		if inv.Y < 2 || inv.Y > 8 || inv.Y%2 != 0 {
			t.Errorf("Unexpected row %d", inv.Y)
		}
	}
}

func TestNewFormationAtDropsOutOfField(t *testing.T) {
	f := NewFormationAt(10, 5, []core.Point{core.Pt(1, 1), core.Pt(10, 1), core.Pt(-1, 0), core.Pt(3, 5)})

	if f.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", f.Count())
	}
}

func TestFormationWaitsForInterval(t *testing.T) {
	f := NewFormationAt(10, 10, []core.Point{core.Pt(3, 0)})

	if f.Update(BaseMoveInterval / 2) {
		t.Error("Update before the interval should not step")
	}
	if f.Invaders()[0] != core.Pt(3, 0) {
		t.Errorf("Formation moved early: %v", f.Invaders())
	}

	if !f.Update(BaseMoveInterval / 2) {
		t.Error("Update reaching the interval should step")
	}
	if f.Invaders()[0] != core.Pt(4, 0) {
		t.Errorf("Expected invader at (4, 0), got %v", f.Invaders()[0])
	}
}

func TestFormationStepsOncePerUpdate(t *testing.T) {
	f := NewFormationAt(10, 10, []core.Point{core.Pt(3, 0)})

	// A huge delta still yields a single discrete step.
	if !f.Update(10 * BaseMoveInterval) {
		t.Fatal("Expected a step")
	}
	if f.Invaders()[0] != core.Pt(4, 0) {
		t.Errorf("Expected a single step to (4, 0), got %v", f.Invaders()[0])
	}
}

func TestFormationFlipsExactlyAtEdge(t *testing.T) {
	f := NewFormationAt(10, 10, []core.Point{core.Pt(7, 0), core.Pt(2, 0)})
	step := f.Interval()

	// Leading invader walks 7 -> 8 -> 9 without descending.
	for i, wantX := range []int{8, 9} {
		f.Update(step)
		lead := f.Invaders()[0]
		if lead != core.Pt(wantX, 0) {
			t.Fatalf("step %d: lead at %v, expected (%d, 0)", i, lead, wantX)
		}
		if f.Descents() != 0 || f.Direction() != 1 {
			t.Fatalf("step %d: flipped early (descents=%d, dir=%d)", i, f.Descents(), f.Direction())
		}
	}

	// Next step would leave the field: reverse and descend instead.
	if !f.Update(step) {
		t.Fatal("Expected a step")
	}
	got := f.Invaders()
	if got[0] != core.Pt(9, 1) || got[1] != core.Pt(4, 1) {
		t.Errorf("Expected formation to descend in place, got %v", got)
	}
	if f.Direction() != -1 || f.Descents() != 1 {
		t.Errorf("Direction() = %d, Descents() = %d, expected -1 and 1", f.Direction(), f.Descents())
	}

	f.Update(step)
	if f.Invaders()[0] != core.Pt(8, 1) {
		t.Errorf("Expected formation to move left after flipping, got %v", f.Invaders())
	}
}

func TestFormationFlipsAtLeftEdge(t *testing.T) {
	f := NewFormationAt(10, 10, []core.Point{core.Pt(9, 0), core.Pt(1, 0)})
	step := f.Interval()

	f.Update(step) // right edge: descend, now heading left
	f.Update(step) // 1 -> 0
	if f.Invaders()[1] != core.Pt(0, 1) || f.Descents() != 1 {
		t.Fatalf("Unexpected state %v, descents=%d", f.Invaders(), f.Descents())
	}

	f.Update(step) // left edge: descend, now heading right
	if f.Invaders()[1] != core.Pt(0, 2) || f.Direction() != 1 || f.Descents() != 2 {
		t.Errorf("Expected second descent at left edge, got %v dir=%d", f.Invaders(), f.Direction())
	}
}

func TestFormationIntervalShrinksWithSurvivors(t *testing.T) {
	f := NewFormationAt(20, 10, []core.Point{
		core.Pt(0, 0), core.Pt(2, 0), core.Pt(4, 0), core.Pt(6, 0),
	})

	tests := []struct {
		kill     core.Point
		expected time.Duration
	}{
		{core.Pt(0, 0), 1500 * time.Millisecond},
		{core.Pt(2, 0), 1000 * time.Millisecond},
		{core.Pt(4, 0), 500 * time.Millisecond},
	}

	if f.Interval() != BaseMoveInterval {
		t.Fatalf("Interval() = %v, expected %v", f.Interval(), BaseMoveInterval)
	}
	for _, tc := range tests {
		if !f.KillAt(tc.kill) {
			t.Fatalf("KillAt(%v) found nothing", tc.kill)
		}
		if f.Interval() != tc.expected {
			t.Errorf("after killing %v: Interval() = %v, expected %v", tc.kill, f.Interval(), tc.expected)
		}
	}
}

func TestFormationIntervalFloor(t *testing.T) {
	var at []core.Point
	for x := 0; x < 10; x++ {
		at = append(at, core.Pt(x, 0))
	}
	f := NewFormationAt(10, 10, at)

	for x := 1; x < 10; x++ {
		f.KillAt(core.Pt(x, 0))
	}
	if f.Interval() != MinMoveInterval {
		t.Errorf("Interval() = %v, expected floor %v", f.Interval(), MinMoveInterval)
	}
}

func TestFormationAllKilled(t *testing.T) {
	f := NewFormationAt(10, 10, []core.Point{core.Pt(5, 0)})

	if f.AllKilled() {
		t.Error("AllKilled should be false with one invader")
	}
	if f.KillAt(core.Pt(4, 0)) {
		t.Error("KillAt on an empty cell should report false")
	}
	f.KillAt(core.Pt(5, 0))
	if !f.AllKilled() {
		t.Error("AllKilled should be true with no invaders")
	}
	if f.Update(time.Hour) {
		t.Error("An empty formation should never step")
	}
}

func TestFormationReachedBottom(t *testing.T) {
	f := NewFormationAt(10, 5, []core.Point{core.Pt(9, 3)})

	if f.ReachedBottom() {
		t.Error("Row 3 of 5 should not be the bottom")
	}

	f.Update(f.Interval()) // right edge: descend to row 4, the player row
	if !f.ReachedBottom() {
		t.Errorf("Invader at %v should have reached the bottom", f.Invaders())
	}
}

func TestKillInSpan(t *testing.T) {
	f := NewFormationAt(10, 10, []core.Point{core.Pt(3, 1), core.Pt(3, 4), core.Pt(4, 4)})

	if _, ok := f.KillInSpan(3, 5, 8); ok {
		t.Error("No invader in rows 5..8 of column 3")
	}
	at, ok := f.KillInSpan(3, 0, 8)
	if !ok || at != core.Pt(3, 4) {
		t.Errorf("KillInSpan = %v, %v, expected (3, 4)", at, ok)
	}
	if f.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", f.Count())
	}
}

func TestFormationDrawAnimates(t *testing.T) {
	f := NewFormationAt(10, 10, []core.Point{core.Pt(3, 3)})

	frame := core.NewFrameSize(10, 10)
	f.Draw(frame)
	if frame.Get(3, 3).Rune != InvaderChar {
		t.Errorf("Expected %q at the start of the interval, got %q", InvaderChar, frame.Get(3, 3).Rune)
	}

	f.Update(f.Interval() * 3 / 4)
	frame = core.NewFrameSize(10, 10)
	f.Draw(frame)
	if frame.Get(3, 3).Rune != InvaderAltChar {
		t.Errorf("Expected %q late in the interval, got %q", InvaderAltChar, frame.Get(3, 3).Rune)
	}
}
