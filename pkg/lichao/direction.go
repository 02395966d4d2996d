package lichao

import "errors"

// Direction selects whether queries report the minimum or maximum value
// among inserted lines.
type Direction int

// Extremum direction constants.
const (
	Min Direction = iota
	Max
)

// ErrInvalidDirection is returned when a direction value or string is not
// one of Min/Max.
var ErrInvalidDirection = errors.New("lichao: invalid direction")

// ParseDirection converts a string to a Direction value.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	default:
		return Min, ErrInvalidDirection
	}
}

// String returns the canonical string form accepted by ParseDirection.
func (d Direction) String() string {
	switch d {
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "invalid"
	}
}
