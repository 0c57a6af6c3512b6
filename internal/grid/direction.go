package grid

import "fmt"

// Direction is one of the eight single-tile step directions. Values follow the
// clockwise numbering used by the host simulation, starting at Top = 1.
type Direction int

const (
	Top Direction = iota + 1
	TopRight
	Right
	BottomRight
	Bottom
	BottomLeft
	Left
	TopLeft
)

var directionDeltas = [...][2]int{
	Top:         {0, -1},
	TopRight:    {1, -1},
	Right:       {1, 0},
	BottomRight: {1, 1},
	Bottom:      {0, 1},
	BottomLeft:  {-1, 1},
	Left:        {-1, 0},
	TopLeft:     {-1, -1},
}

// Delta returns the (dx, dy) a single step in d moves by. Invalid directions
// return (0, 0).
func (d Direction) Delta() (int, int) {
	if !d.Valid() {
		return 0, 0
	}
	dd := directionDeltas[d]
	return dd[0], dd[1]
}

// Valid reports whether d is one of the eight step directions.
func (d Direction) Valid() bool {
	return d >= Top && d <= TopLeft
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return d
	}
	return Direction((int(d)+3)%8 + 1)
}

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case TopRight:
		return "top_right"
	case Right:
		return "right"
	case BottomRight:
		return "bottom_right"
	case Bottom:
		return "bottom"
	case BottomLeft:
		return "bottom_left"
	case Left:
		return "left"
	case TopLeft:
		return "top_left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// DirectionFromDelta quantises an offset to the step direction that reduces
// it. The zero offset has no direction and returns (0, false).
func DirectionFromDelta(dx, dy int) (Direction, bool) {
	sx, sy := sign(dx), sign(dy)
	for d := Top; d <= TopLeft; d++ {
		dd := directionDeltas[d]
		if dd[0] == sx && dd[1] == sy {
			return d, true
		}
	}
	return 0, false
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
