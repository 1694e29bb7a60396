// Package geom provides the integer grid primitives shared by the layout generator.
package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a grid coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Vec returns the point as a real-valued vector.
func (p Point) Vec() Vec2 {
	return Vec2{X: float64(p.X), Y: float64(p.Y)}
}

// String returns "x,y", the same key format the floor writers use.
func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// ParsePoint parses the "x,y" form produced by Point.String.
func ParsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Point{}, fmt.Errorf("invalid point %q: missing comma", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return Point{X: x, Y: y}, nil
}

// Vec2 is a real-valued point, used for room centers.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Rect is an axis-aligned rectangle on the grid. Cells covered are
// [X, X+Width) x [Y, Y+Height).
type Rect struct {
	X, Y          int
	Width, Height int
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{
		X: float64(r.X) + float64(r.Width)/2,
		Y: float64(r.Y) + float64(r.Height)/2,
	}
}

// Overlaps reports whether r, grown by margin cells on every side, intersects other.
// A false result means the boxes are at least margin cells apart on some axis.
func (r Rect) Overlaps(other Rect, margin int) bool {
	return r.X-margin < other.X+other.Width &&
		r.X+r.Width+margin > other.X &&
		r.Y-margin < other.Y+other.Height &&
		r.Y+r.Height+margin > other.Y
}

// Within reports whether r lies entirely inside a width x height grid.
func (r Rect) Within(width, height int) bool {
	return r.X >= 0 && r.X+r.Width <= width &&
		r.Y >= 0 && r.Y+r.Height <= height
}

// Contains reports whether p is one of the cells covered by r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Area returns Width * Height.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Gap returns the Chebyshev gap between two rectangles: the larger of the
// horizontal and vertical clearances. Overlapping rectangles have a gap of 0.
func Gap(a, b Rect) int {
	dx := max(b.X-(a.X+a.Width), a.X-(b.X+b.Width), 0)
	dy := max(b.Y-(a.Y+a.Height), a.Y-(b.Y+b.Height), 0)
	return max(dx, dy)
}
