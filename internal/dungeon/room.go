package dungeon

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/geom"
)

// Room is a placed rectangular room with its assigned role and the door
// anchors recorded by the corridor connector, one per corridor it takes part in.
type Room struct {
	geom.Rect
	Type  RoomType
	Doors []geom.Point
}

// NewRoom creates an untyped (combat) room covering r.
func NewRoom(r geom.Rect) *Room {
	return &Room{Rect: r}
}

// Bounds returns the room's rectangle.
func (r *Room) Bounds() geom.Rect {
	return r.Rect
}

// RandomInteriorPoint returns a uniformly random cell inside the room's
// one-cell border. Rooms too thin on an axis to have an interior fall back to
// the origin coordinate on that axis.
func (r *Room) RandomInteriorPoint(rng *rand.Rand) geom.Point {
	return geom.Point{
		X: interiorCoord(rng, r.X, r.Width),
		Y: interiorCoord(rng, r.Y, r.Height),
	}
}

func interiorCoord(rng *rand.Rand, origin, size int) int {
	if size < 3 {
		return origin
	}
	return randRange(rng, origin+1, origin+size-1)
}

// wallPoints lists the door candidates of a room: the cells along each wall
// strictly between the corners. Order matters, ties resolve to the first entry.
func (r *Room) wallPoints() []geom.Point {
	var points []geom.Point

	for x := r.X + 1; x < r.X+r.Width-1; x++ {
		points = append(points, geom.Point{X: x, Y: r.Y})
		points = append(points, geom.Point{X: x, Y: r.Y + r.Height})
	}

	for y := r.Y + 1; y < r.Y+r.Height-1; y++ {
		points = append(points, geom.Point{X: r.X, Y: y})
		points = append(points, geom.Point{X: r.X + r.Width, Y: y})
	}

	return points
}

// randRange returns a uniform integer in [lo, hi). When the range is empty it
// returns lo without consuming randomness.
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}
