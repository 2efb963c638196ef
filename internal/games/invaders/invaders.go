// Package invaders implements the gameplay entities of the shooter: the
// player's ship with its shots, and the descending invader formation.
// Everything here is pure logic driven by delta time; rendering happens by
// drawing into a core.Frame.
package invaders

import "time"

// Gameplay tuning. Difficulty is not configurable.
const (
	MaxShots         = 2                      // Active shots a player may have in flight
	ShootCooldown    = 150 * time.Millisecond // Minimum time between two shots
	ShotSpeed        = 20.0                   // Rows per second travelled by a shot
	ExplosionTime    = 250 * time.Millisecond // How long a hit marker stays on screen
	BaseMoveInterval = 2 * time.Second        // Formation step period with a full grid
	MinMoveInterval  = 250 * time.Millisecond // Fastest formation step period
)

// Visual characters for rendering
const (
	PlayerChar     = 'A'
	ShotChar       = '|'
	ExplosionChar  = '*'
	InvaderChar    = 'x'
	InvaderAltChar = '+'
)
