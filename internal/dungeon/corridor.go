package dungeon

import (
	"math"

	"github.com/lawnchairsociety/dungeongen/internal/geom"
)

// Corridor is one edge of the room spanning tree.
type Corridor struct {
	From  int          // Index of the already-connected room
	To    int          // Index of the room joined by this corridor
	DoorA geom.Point   // Anchor on From's wall
	DoorB geom.Point   // Anchor on To's wall
	Path  []geom.Point // Cells carved, in walk order, DoorA first
}

// ConnectRooms joins all rooms into a spanning tree and carves the corridors
// into grid. It returns one Corridor per edge (len(rooms)-1 of them).
//
// The tree is grown greedily from rooms[0]: each step links the closest
// (connected, unconnected) pair by center distance. Pairs are scanned in list
// order and the first minimum wins, so the output is fully determined by the
// room order. Fewer than two rooms is a no-op.
func ConnectRooms(rooms []*Room, grid *Grid) []Corridor {
	if len(rooms) < 2 {
		return nil
	}

	connected := []int{0}
	remaining := make([]int, 0, len(rooms)-1)
	for i := 1; i < len(rooms); i++ {
		remaining = append(remaining, i)
	}

	corridors := make([]Corridor, 0, len(rooms)-1)
	for len(remaining) > 0 {
		bestFrom, bestTo := -1, -1
		minDistance := math.MaxFloat64

		for _, a := range connected {
			for j, b := range remaining {
				if d := geom.Distance(rooms[a].Center(), rooms[b].Center()); d < minDistance {
					minDistance = d
					bestFrom, bestTo = a, j
				}
			}
		}

		to := remaining[bestTo]
		corridors = append(corridors, connectPair(rooms, bestFrom, to, grid))

		connected = append(connected, to)
		remaining = append(remaining[:bestTo], remaining[bestTo+1:]...)
	}

	return corridors
}

// connectPair picks a door on each room facing the other, records the doors
// and carves the corridor between them.
func connectPair(rooms []*Room, from, to int, grid *Grid) Corridor {
	roomA, roomB := rooms[from], rooms[to]

	doorA := exitPoint(roomA, roomB)
	doorB := exitPoint(roomB, roomA)

	path := carveCorridor(grid, doorA, doorB)

	roomA.Doors = append(roomA.Doors, doorA)
	roomB.Doors = append(roomB.Doors, doorB)

	return Corridor{From: from, To: to, DoorA: doorA, DoorB: doorB, Path: path}
}

// exitPoint returns the wall cell of from closest to the center of toward.
func exitPoint(from, toward *Room) geom.Point {
	target := toward.Center()

	best := geom.Point{X: from.X, Y: from.Y}
	shortest := math.MaxFloat64
	for _, p := range from.wallPoints() {
		if d := geom.Distance(p.Vec(), target); d < shortest {
			shortest = d
			best = p
		}
	}

	return best
}

// carveCorridor walks from start to end along X first, then Y, marking every
// cell Floor. Cells that are already Floor are left as they are.
func carveCorridor(grid *Grid, start, end geom.Point) []geom.Point {
	path := make([]geom.Point, 0, abs(end.X-start.X)+abs(end.Y-start.Y)+1)
	current := start

	for current.X != end.X {
		grid.MarkPoint(current)
		path = append(path, current)
		current.X += sign(end.X - current.X)
	}

	for current.Y != end.Y {
		grid.MarkPoint(current)
		path = append(path, current)
		current.Y += sign(end.Y - current.Y)
	}

	grid.MarkPoint(end)
	path = append(path, end)

	return path
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
