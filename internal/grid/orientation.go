package grid

import "fmt"

// Orientation is the facing of a rigid formation. The zero value is
// OrientTop, the facing every formation starts with.
type Orientation int

const (
	OrientTop Orientation = iota
	OrientRight
	OrientBottom
	OrientLeft
)

// Orientations lists the four facings in clockwise order.
var Orientations = [4]Orientation{OrientTop, OrientRight, OrientBottom, OrientLeft}

// RotationsFromOrientation returns the number of clockwise quarter turns that
// take a Top-facing grid to o.
func RotationsFromOrientation(o Orientation) int {
	switch o {
	case OrientRight:
		return 1
	case OrientBottom:
		return 2
	case OrientLeft:
		return 3
	default:
		return 0
	}
}

// OrientationFromRotations is the inverse of RotationsFromOrientation; turns
// is reduced mod 4 first.
func OrientationFromRotations(turns int) Orientation {
	return Orientations[mod4(turns)]
}

// Direction returns the cardinal step direction o faces.
func (o Orientation) Direction() Direction {
	switch o {
	case OrientRight:
		return Right
	case OrientBottom:
		return Bottom
	case OrientLeft:
		return Left
	default:
		return Top
	}
}

func (o Orientation) String() string {
	switch o {
	case OrientTop:
		return "top"
	case OrientRight:
		return "right"
	case OrientBottom:
		return "bottom"
	case OrientLeft:
		return "left"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// MarshalText lets orientations appear by name in YAML and JSON documents.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (o *Orientation) UnmarshalText(b []byte) error {
	for _, c := range Orientations {
		if c.String() == string(b) {
			*o = c
			return nil
		}
	}
	return fmt.Errorf("grid: unknown orientation %q", string(b))
}

// Rotated returns m turned clockwise by turns quarter turns. Cell contents
// are preserved; a w×h grid comes back h×w after an odd number of turns.
// Negative turns rotate counterclockwise.
func Rotated[T any](m [][]T, turns int) [][]T {
	out := m
	for i := 0; i < mod4(turns); i++ {
		out = rotateOnce(out)
	}
	if mod4(turns) == 0 {
		out = cloneMatrix(m)
	}
	return out
}

func rotateOnce[T any](m [][]T) [][]T {
	rows := len(m)
	if rows == 0 {
		return [][]T{}
	}
	cols := len(m[0])
	out := make([][]T, cols)
	for i := 0; i < cols; i++ {
		out[i] = make([]T, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = m[rows-1-j][i]
		}
	}
	return out
}

func cloneMatrix[T any](m [][]T) [][]T {
	out := make([][]T, len(m))
	for i, row := range m {
		out[i] = append([]T(nil), row...)
	}
	return out
}

func mod4(n int) int {
	return ((n % 4) + 4) % 4
}
