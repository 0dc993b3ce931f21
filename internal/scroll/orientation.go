package scroll

import "strings"

// Orientation is the direction in which later items are laid out.
type Orientation int

const (
	Up Orientation = iota
	Down
	Left
	Right
)

var orientationNames = [...]string{
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

func (o Orientation) String() string {
	if o < Up || o > Right {
		return "unknown"
	}
	return orientationNames[o]
}

// ParseOrientation resolves an orientation name. Unknown names return Down
// with ok set to false.
func ParseOrientation(s string) (o Orientation, ok bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range orientationNames {
		if name == key {
			return Orientation(i), true
		}
	}
	return Down, false
}

// Horizontal reports whether items are laid out along the x axis.
func (o Orientation) Horizontal() bool {
	return o == Left || o == Right
}

// AxisSign is -1 for left and up, +1 for right and down.
func (o Orientation) AxisSign() int {
	if o == Left || o == Up {
		return -1
	}
	return 1
}
