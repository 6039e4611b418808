package field

import "errors"

var (
	ErrInvalidParams = errors.New("invalid field configuration")
	ErrOutOfBounds   = errors.New("cell position is outside of the field")
)

// PlacementError is returned when a [PlacementStrategy] produces a layout
// that does not fit the field it was asked for.
type PlacementError struct {
	message string
}

// [PlacementError] implements [error]
func (e PlacementError) Error() string {
	return "bad mine layout: " + e.message
}
