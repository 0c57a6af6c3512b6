package grid

import (
	"fmt"
	"math"
)

// Room geometry. Every room is RoomSize×RoomSize tiles; the border tiles at
// 0 and MaxCoord are exits into the neighbouring room.
const (
	RoomSize = 50
	MaxCoord = RoomSize - 1
)

// Unreachable marks a position search that found nothing. It lies outside
// every room so it can never be mistaken for a real tile.
var Unreachable = Pos{X: -10, Y: -10, Room: "cannotFindLocationPosition"}

// Pos is a tile inside a named room.
type Pos struct {
	X, Y int
	Room string
}

// Offset returns the position dx, dy tiles away in the same room. The result
// is not clamped to the room.
func (p Pos) Offset(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy, Room: p.Room}
}

// Step returns the neighbouring tile in direction d.
func (p Pos) Step(d Direction) Pos {
	dx, dy := d.Delta()
	return p.Offset(dx, dy)
}

// Range is the Chebyshev distance to q, or math.MaxInt when q is in another
// room.
func (p Pos) Range(q Pos) int {
	if p.Room != q.Room {
		return math.MaxInt
	}
	return max(abs(p.X-q.X), abs(p.Y-q.Y))
}

// InRange reports whether q is within r tiles of p in the same room.
func (p Pos) InRange(q Pos, r int) bool {
	return p.Range(q) <= r
}

// InBounds reports whether p lies inside its room.
func (p Pos) InBounds() bool {
	return p.X >= 0 && p.X <= MaxCoord && p.Y >= 0 && p.Y <= MaxCoord
}

// IsEdge reports whether p is an exit tile.
func (p Pos) IsEdge() bool {
	return p.X == 0 || p.X == MaxCoord || p.Y == 0 || p.Y == MaxCoord
}

// DirectionTo returns the step direction from p toward q. Positions in other
// rooms and q == p report false.
func (p Pos) DirectionTo(q Pos) (Direction, bool) {
	if p.Room != q.Room {
		return 0, false
	}
	return DirectionFromDelta(q.X-p.X, q.Y-p.Y)
}

func (p Pos) String() string {
	return fmt.Sprintf("[%s %d,%d]", p.Room, p.X, p.Y)
}

// Goal is a target band for the movement planner: any tile within Range of
// Pos satisfies it when approaching, and must be left when avoiding.
type Goal struct {
	Pos   Pos
	Range int
}

// PosWindow enumerates the rectangle spanned from anchor by dx columns and
// dy rows. Negative spans extend up/left from the anchor; a zero span is
// empty.
func PosWindow(anchor Pos, dx, dy int) []Pos {
	var out []Pos
	sx, sy := sign(dx), sign(dy)
	for ix := 0; ix != dx; ix += sx {
		for iy := 0; iy != dy; iy += sy {
			out = append(out, anchor.Offset(ix, iy))
		}
	}
	return out
}

// Ring returns the in-room tiles at Chebyshev distance radius from center,
// scanning columns left to right and each column top to bottom. Radius 0
// is the center itself.
func Ring(center Pos, radius int) []Pos {
	var out []Pos
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if abs(dx) != radius && abs(dy) != radius {
				continue
			}
			p := center.Offset(dx, dy)
			if !p.InBounds() {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
