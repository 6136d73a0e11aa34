package navigation

// State holds the scroll position of a list viewport, in rendered rows
type State struct {
	ViewportOffset int
	ViewportHeight int
	TotalRows      int
}

// Direction represents movement directions
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Delta returns the cursor step for a direction
func (d Direction) Delta() int {
	switch d {
	case DirectionUp:
		return -1
	case DirectionDown:
		return 1
	}
	return 0
}
