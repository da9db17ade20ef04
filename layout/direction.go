package layout

import (
	"fmt"
	"strings"
)

// Direction is the way the tree grows away from its root.
type Direction string

const (
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
)

// Directions lists every supported direction.
var Directions = []Direction{LeftToRight, RightToLeft, TopToBottom, BottomToTop}

// ParseDirection accepts the short codes case-insensitively.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Directions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown layout direction %q (want LR, RL, TB or BT)", s)
}

// Horizontal reports whether the growth axis is x.
func (d Direction) Horizontal() bool {
	return d == LeftToRight || d == RightToLeft
}

// Reversed reports whether children sit at smaller coordinates than their parent.
func (d Direction) Reversed() bool {
	return d == RightToLeft || d == BottomToTop
}

// String returns the short code.
func (d Direction) String() string {
	return string(d)
}
