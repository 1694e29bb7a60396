// Package furnish derives walls, doors, decorations, enemy spawns and the
// player spawn from a finished layout. It produces placement data only.
package furnish

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/geom"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/zyedidia/generic/mapset"
)

// Side is the face of a cell a wall or door sits on. North is +y.
type Side int

const (
	East Side = iota
	West
	North
	South
)

func (s Side) String() string {
	switch s {
	case East:
		return "east"
	case West:
		return "west"
	case North:
		return "north"
	case South:
		return "south"
	default:
		return "unknown"
	}
}

// ParseSide converts a name produced by String back into a Side.
func ParseSide(name string) (Side, error) {
	for _, s := range []Side{East, West, North, South} {
		if s.String() == name {
			return s, nil
		}
	}
	return East, fmt.Errorf("unknown side %q", name)
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Horizontal reports whether the side faces along the X axis.
func (s Side) Horizontal() bool {
	return s == East || s == West
}

// Wall is one wall segment on the edge of a floor cell.
type Wall struct {
	Cell geom.Point `json:"cell" yaml:"cell"`
	Side Side       `json:"side" yaml:"side"`
}

// Door is a door placed on a room's door anchor.
type Door struct {
	Cell   geom.Point `json:"cell" yaml:"cell"`
	Room   int        `json:"room" yaml:"room"`
	Side   Side       `json:"side" yaml:"side"`
	Secret bool       `json:"secret" yaml:"secret"`
}

// Spawn is a decoration or enemy placed inside a room.
type Spawn struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Room     int        `json:"room" yaml:"room"`
	Cell     geom.Point `json:"cell" yaml:"cell"`
	Rotation int        `json:"rotation" yaml:"rotation"` // degrees, 0-359
	Boss     bool       `json:"boss,omitempty" yaml:"boss,omitempty"`
}

// Furnishing is everything placed on top of a layout.
type Furnishing struct {
	Walls       []Wall
	Doors       []Door
	Decorations []Spawn
	Enemies     []Spawn

	PlayerSpawn    geom.Vec2
	HasPlayerSpawn bool
}

// Furnish places doors, decorations, enemies and the player spawn, in that
// order, then collects the walls. rng continues the stream used to generate
// the layout.
func Furnish(layout *dungeon.Layout, rng *rand.Rand) *Furnishing {
	f := &Furnishing{
		Doors:       Doors(layout),
		Decorations: Decorations(layout, rng),
		Enemies:     Enemies(layout, rng),
	}
	f.PlayerSpawn, f.HasPlayerSpawn = PlayerSpawn(layout)
	f.Walls = Walls(layout.Grid)

	logger.Debug("Layout furnished",
		"seed", layout.Seed,
		"walls", len(f.Walls),
		"doors", len(f.Doors),
		"decorations", len(f.Decorations),
		"enemies", len(f.Enemies))

	return f
}

// Walls returns one wall per side of every floor cell whose neighbor on that
// side is empty or off the grid. Cells are scanned column by column.
func Walls(grid *dungeon.Grid) []Wall {
	var walls []Wall

	for x := 0; x < grid.Width(); x++ {
		for y := 0; y < grid.Height(); y++ {
			if !grid.IsFloor(x, y) {
				continue
			}
			cell := geom.Point{X: x, Y: y}
			if !grid.IsFloor(x+1, y) {
				walls = append(walls, Wall{Cell: cell, Side: East})
			}
			if !grid.IsFloor(x-1, y) {
				walls = append(walls, Wall{Cell: cell, Side: West})
			}
			if !grid.IsFloor(x, y+1) {
				walls = append(walls, Wall{Cell: cell, Side: North})
			}
			if !grid.IsFloor(x, y-1) {
				walls = append(walls, Wall{Cell: cell, Side: South})
			}
		}
	}

	return walls
}

// Doors orients a door on every door anchor. An anchor with floor on its left
// or right faces sideways; otherwise one with floor above or below faces that
// way. Anchors with no floor neighbor get no door.
func Doors(layout *dungeon.Layout) []Door {
	if !layout.Config.Furnish.UseDoors {
		return nil
	}

	grid := layout.Grid
	var doors []Door

	for i, room := range layout.Rooms {
		for _, p := range room.Doors {
			var side Side
			switch {
			case grid.IsFloor(p.X+1, p.Y) || grid.IsFloor(p.X-1, p.Y):
				side = West
				if grid.IsFloor(p.X+1, p.Y) {
					side = East
				}
			case grid.IsFloor(p.X, p.Y+1) || grid.IsFloor(p.X, p.Y-1):
				side = South
				if grid.IsFloor(p.X, p.Y+1) {
					side = North
				}
			default:
				continue
			}

			doors = append(doors, Door{
				Cell:   p,
				Room:   i,
				Side:   side,
				Secret: room.Type == dungeon.RoomSecret,
			})
		}
	}

	return doors
}

// Decorations scatters decorations through every room. Positions are kept
// MinDecorSpacing apart across the whole dungeon.
func Decorations(layout *dungeon.Layout, rng *rand.Rand) []Spawn {
	cfg := layout.Config.Furnish
	if len(cfg.DecorationKinds) == 0 {
		return nil
	}

	used := mapset.New[geom.Point]()
	var spawns []Spawn

	for i, room := range layout.Rooms {
		count := spawnCount(room, cfg.DecorationDensity)
		for n := 0; n < count; n++ {
			pos, ok := findSpawnPosition(room, used, cfg.MinDecorSpacing, spawnAttempts(cfg), rng)
			if !ok {
				continue
			}
			spawns = append(spawns, Spawn{
				Kind:     cfg.DecorationKinds[rng.Intn(len(cfg.DecorationKinds))],
				Room:     i,
				Cell:     pos,
				Rotation: rng.Intn(360),
			})
			used.Put(pos)
		}
	}

	return spawns
}

// Enemies populates combat and boss rooms. A boss room always gets exactly one
// spawn of BossKind; combat rooms scale with EnemyDensity.
func Enemies(layout *dungeon.Layout, rng *rand.Rand) []Spawn {
	cfg := layout.Config.Furnish
	if len(cfg.EnemyKinds) == 0 {
		return nil
	}

	used := mapset.New[geom.Point]()
	var spawns []Spawn

	for i, room := range layout.Rooms {
		boss := room.Type == dungeon.RoomBoss
		if room.Type != dungeon.RoomCombat && !boss {
			continue
		}

		count := 1
		if !boss {
			count = spawnCount(room, cfg.EnemyDensity)
		}

		for n := 0; n < count; n++ {
			pos, ok := findSpawnPosition(room, used, cfg.MinEnemySpacing, spawnAttempts(cfg), rng)
			if !ok {
				continue
			}

			var kind string
			if boss {
				kind = cfg.BossKind
			} else {
				kind = cfg.EnemyKinds[rng.Intn(len(cfg.EnemyKinds))]
			}
			if kind == "" {
				continue
			}

			spawns = append(spawns, Spawn{
				Kind:     kind,
				Room:     i,
				Cell:     pos,
				Rotation: rng.Intn(360),
				Boss:     boss,
			})
			used.Put(pos)
		}
	}

	return spawns
}

// PlayerSpawn returns the center of the start room. ok is false when the
// layout has no rooms.
func PlayerSpawn(layout *dungeon.Layout) (center geom.Vec2, ok bool) {
	start := layout.StartRoom()
	if start == nil {
		return geom.Vec2{}, false
	}
	return start.Center(), true
}

// spawnCount is area * density / 10, rounded half to even.
func spawnCount(room *dungeon.Room, density float64) int {
	return int(math.RoundToEven(float64(room.Area()) * density * 0.1))
}

func spawnAttempts(cfg dungeon.FurnishConfig) int {
	if cfg.SpawnAttempts <= 0 {
		return dungeon.DefaultSpawnAttempts
	}
	return cfg.SpawnAttempts
}

// findSpawnPosition samples interior points until one is at least spacing
// away from every used position.
func findSpawnPosition(room *dungeon.Room, used mapset.Set[geom.Point], spacing float64, attempts int, rng *rand.Rand) (geom.Point, bool) {
	for a := 0; a < attempts; a++ {
		pos := room.RandomInteriorPoint(rng)
		if !tooClose(pos, used, spacing) {
			return pos, true
		}
	}
	return geom.Point{}, false
}

func tooClose(pos geom.Point, used mapset.Set[geom.Point], spacing float64) bool {
	near := false
	used.Each(func(p geom.Point) {
		if !near && geom.Distance(p.Vec(), pos.Vec()) < spacing {
			near = true
		}
	})
	return near
}
