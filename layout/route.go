package layout

import (
	"math"

	"mindterm/geometry"
)

const alignEpsilon = 1e-9

// Route returns the waypoints of the connector from src to tgt. When the two
// boxes are offset on the cross-axis the connector jogs orthogonally through
// the middle of the gap between them; aligned boxes get a straight line.
func Route(src, tgt geometry.Rect, dir Direction) []geometry.Point {
	sc, tc := src.Center(), tgt.Center()

	if dir.Horizontal() {
		if math.Abs(sc.Y-tc.Y) < alignEpsilon {
			return nil
		}
		var x float64
		if dir == LeftToRight {
			gap := tgt.X - src.X - src.Width
			x = src.X + src.Width + gap/2
		} else {
			gap := tgt.X + tgt.Width - src.X
			x = src.X + gap/2
		}
		return []geometry.Point{{X: x, Y: sc.Y}, {X: x, Y: tc.Y}}
	}

	if math.Abs(sc.X-tc.X) < alignEpsilon {
		return nil
	}
	var y float64
	if dir == TopToBottom {
		gap := tgt.Y - src.Y - src.Height
		y = src.Y + src.Height + gap/2
	} else {
		gap := tgt.Y + tgt.Height - src.Y
		y = src.Y + gap/2
	}
	return []geometry.Point{{X: sc.X, Y: y}, {X: tc.X, Y: y}}
}

// Anchors returns the mid-side points where a connector leaves src and
// enters tgt.
func Anchors(src, tgt geometry.Rect, dir Direction) (from, to geometry.Point) {
	sc, tc := src.Center(), tgt.Center()
	switch dir {
	case RightToLeft:
		return geometry.Point{X: src.X, Y: sc.Y}, geometry.Point{X: tgt.Right(), Y: tc.Y}
	case TopToBottom:
		return geometry.Point{X: sc.X, Y: src.Bottom()}, geometry.Point{X: tc.X, Y: tgt.Y}
	case BottomToTop:
		return geometry.Point{X: sc.X, Y: src.Y}, geometry.Point{X: tc.X, Y: tgt.Bottom()}
	default:
		return geometry.Point{X: src.Right(), Y: sc.Y}, geometry.Point{X: tgt.X, Y: tc.Y}
	}
}

// ConnectorPath is the full polyline a renderer draws for an edge.
func ConnectorPath(src, tgt geometry.Rect, dir Direction, waypoints []geometry.Point) []geometry.Point {
	from, to := Anchors(src, tgt, dir)
	path := make([]geometry.Point, 0, len(waypoints)+2)
	path = append(path, from)
	path = append(path, waypoints...)
	return append(path, to)
}
