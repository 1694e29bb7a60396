package dungeon

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/dungeongen/internal/geom"
	"github.com/zyedidia/generic/mapset"
)

// Validate checks the structural guarantees of a generated layout and returns
// every violation joined into one error, or nil.
func (l *Layout) Validate() error {
	var errs []error

	errs = append(errs, l.validateRooms()...)
	errs = append(errs, l.validateTypes()...)
	errs = append(errs, l.validateCorridors()...)

	return errors.Join(errs...)
}

func (l *Layout) validateRooms() []error {
	var errs []error
	margin := l.Config.SpacingMargin()

	for i, room := range l.Rooms {
		if room.Width <= 0 || room.Height <= 0 {
			errs = append(errs, fmt.Errorf("room %d has non-positive size %dx%d", i, room.Width, room.Height))
		}
		if !room.Within(l.Grid.Width(), l.Grid.Height()) {
			errs = append(errs, fmt.Errorf("room %d at %v is out of bounds", i, room.Rect))
		}
		for j := i + 1; j < len(l.Rooms); j++ {
			if room.Overlaps(l.Rooms[j].Rect, margin) {
				errs = append(errs, fmt.Errorf("rooms %d and %d are closer than %d cells", i, j, margin))
			}
		}
		for y := room.Y; y < room.Y+room.Height; y++ {
			for x := room.X; x < room.X+room.Width; x++ {
				if !l.Grid.IsFloor(x, y) {
					errs = append(errs, fmt.Errorf("room %d cell %d,%d is not floor", i, x, y))
				}
			}
		}
	}

	return errs
}

func (l *Layout) validateTypes() []error {
	if len(l.Rooms) == 0 {
		return nil
	}

	var errs []error
	starts := len(l.RoomsOfType(RoomStart))
	bosses := len(l.RoomsOfType(RoomBoss))

	if starts != 1 {
		errs = append(errs, fmt.Errorf("expected exactly one start room, found %d", starts))
	}

	wantBosses := 1
	if len(l.Rooms) == 1 {
		wantBosses = 0
	}
	if bosses != wantBosses {
		errs = append(errs, fmt.Errorf("expected %d boss rooms, found %d", wantBosses, bosses))
	}

	return errs
}

// validateCorridors checks that the corridors form a tree spanning every room.
func (l *Layout) validateCorridors() []error {
	if len(l.Rooms) < 2 {
		if len(l.Corridors) != 0 {
			return []error{fmt.Errorf("expected no corridors for %d rooms, found %d", len(l.Rooms), len(l.Corridors))}
		}
		return nil
	}

	var errs []error
	if len(l.Corridors) != len(l.Rooms)-1 {
		errs = append(errs, fmt.Errorf("expected %d corridors, found %d", len(l.Rooms)-1, len(l.Corridors)))
	}

	adjacency := make(map[int][]int)
	for _, c := range l.Corridors {
		if l.Room(c.From) == nil || l.Room(c.To) == nil {
			errs = append(errs, fmt.Errorf("corridor %d-%d references a missing room", c.From, c.To))
			continue
		}
		adjacency[c.From] = append(adjacency[c.From], c.To)
		adjacency[c.To] = append(adjacency[c.To], c.From)

		for _, p := range c.Path {
			if l.Grid.InBounds(p.X, p.Y) && !l.Grid.IsFloor(p.X, p.Y) {
				errs = append(errs, fmt.Errorf("corridor %d-%d cell %v is not floor", c.From, c.To, p))
				break
			}
		}
	}

	visited := mapset.New[int]()
	queue := []int{0}
	visited.Put(0)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[cur] {
			if !visited.Has(next) {
				visited.Put(next)
				queue = append(queue, next)
			}
		}
	}

	if visited.Size() != len(l.Rooms) {
		errs = append(errs, fmt.Errorf("corridors reach %d of %d rooms", visited.Size(), len(l.Rooms)))
	}

	return errs
}

// DoorCount returns the total number of door anchors across all rooms.
func (l *Layout) DoorCount() int {
	n := 0
	for _, r := range l.Rooms {
		n += len(r.Doors)
	}
	return n
}

// CorridorCells returns the set of distinct cells carved by corridors.
func (l *Layout) CorridorCells() mapset.Set[geom.Point] {
	cells := mapset.New[geom.Point]()
	for _, c := range l.Corridors {
		for _, p := range c.Path {
			cells.Put(p)
		}
	}
	return cells
}
