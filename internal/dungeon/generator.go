// Package dungeon generates 2D dungeon layouts: non-overlapping rooms on a
// bounded grid, typed by role and joined into a single tree by corridors.
package dungeon

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/geom"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// Stage identifies a step of the generation pipeline.
type Stage string

const (
	StagePlacement  Stage = "placement"
	StageAssignment Stage = "assignment"
	StageCorridors  Stage = "corridors"
)

// StageEvent is reported to observers after a stage completes.
type StageEvent struct {
	Stage     Stage   `json:"stage"`
	Rooms     int     `json:"rooms"`
	Corridors int     `json:"corridors"`
	Floor     int     `json:"floor_cells"`
	Complete  bool    `json:"complete"`
	Layout    *Layout `json:"-"`
}

// Layout is the finished output of a generation run. It is handed to
// downstream consumers read-only.
type Layout struct {
	Config     Config
	Seed       int64
	Grid       *Grid
	Rooms      []*Room
	Corridors  []Corridor
	StartIndex int // -1 when there are no rooms
	BossIndex  int // equals StartIndex for a single-room layout
	Complete   bool
}

// Room returns the room at index i, or nil.
func (l *Layout) Room(i int) *Room {
	if i < 0 || i >= len(l.Rooms) {
		return nil
	}
	return l.Rooms[i]
}

// StartRoom returns the start room, or nil when there are no rooms.
func (l *Layout) StartRoom() *Room {
	return l.Room(l.StartIndex)
}

// BossRoom returns the boss room, or nil when there are no rooms.
func (l *Layout) BossRoom() *Room {
	return l.Room(l.BossIndex)
}

// RoomsOfType returns the rooms with the given type in list order.
func (l *Layout) RoomsOfType(t RoomType) []*Room {
	var rooms []*Room
	for _, r := range l.Rooms {
		if r.Type == t {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

// RoomAt returns the index of the room covering p, or -1.
func (l *Layout) RoomAt(p geom.Point) int {
	for i, r := range l.Rooms {
		if r.Contains(p) {
			return i
		}
	}
	return -1
}

// Generator runs placement, type assignment and corridor connection in that
// order, drawing all randomness from one seeded source.
type Generator struct {
	config  Config
	seed    int64
	rng     *rand.Rand
	onStage []func(StageEvent)
}

// NewGenerator creates a generator with its own source seeded from seed.
func NewGenerator(config Config, seed int64) *Generator {
	return &Generator{
		config: config,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// NewGeneratorWithRand creates a generator drawing from an existing stream.
// Subsequent consumers of rng (furnishing) see it advanced past generation.
func NewGeneratorWithRand(config Config, seed int64, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		seed:   seed,
		rng:    rng,
	}
}

// Rand returns the generator's random source.
func (g *Generator) Rand() *rand.Rand {
	return g.rng
}

// OnStage registers fn to be called after each stage completes. Observers must
// not modify the layout.
func (g *Generator) OnStage(fn func(StageEvent)) {
	g.onStage = append(g.onStage, fn)
}

// Generate builds a new layout.
func (g *Generator) Generate() *Layout {
	grid := NewGrid(g.config.Width, g.config.Height)
	layout := &Layout{
		Config:     g.config,
		Seed:       g.seed,
		Grid:       grid,
		StartIndex: -1,
		BossIndex:  -1,
	}

	rooms, complete := PlaceRooms(g.config, grid, g.rng)
	layout.Rooms = rooms
	layout.Complete = complete
	if !complete {
		logger.Warning("Could not place all rooms, stopping placement early",
			"placed", len(rooms),
			"requested", g.config.NumberOfRooms,
			"seed", g.seed)
	}
	g.emit(StagePlacement, layout)

	layout.StartIndex, layout.BossIndex = AssignRoomTypes(g.config, rooms, g.rng)
	g.emit(StageAssignment, layout)

	layout.Corridors = ConnectRooms(rooms, grid)
	g.emit(StageCorridors, layout)

	logger.Debug("Layout generated",
		"seed", g.seed,
		"rooms", len(layout.Rooms),
		"corridors", len(layout.Corridors),
		"floor_cells", grid.FloorCount())

	return layout
}

func (g *Generator) emit(stage Stage, layout *Layout) {
	if len(g.onStage) == 0 {
		return
	}
	event := StageEvent{
		Stage:     stage,
		Rooms:     len(layout.Rooms),
		Corridors: len(layout.Corridors),
		Floor:     layout.Grid.FloorCount(),
		Complete:  layout.Complete,
		Layout:    layout,
	}
	for _, fn := range g.onStage {
		fn(event)
	}
}

// Generate is shorthand for NewGenerator(config, seed).Generate().
func Generate(config Config, seed int64) *Layout {
	return NewGenerator(config, seed).Generate()
}
