package export

import (
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/furnish"
	"github.com/lawnchairsociety/dungeongen/internal/geom"
)

// LayoutJSON is the wire form of a layout served over HTTP and websocket.
type LayoutJSON struct {
	ID         int64           `json:"id,omitempty"`
	Name       string          `json:"name,omitempty"`
	Seed       int64           `json:"seed"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Complete   bool            `json:"complete"`
	StartIndex int             `json:"start_room"`
	BossIndex  int             `json:"boss_room"`
	Rooms      []RoomJSON      `json:"rooms"`
	Corridors  []CorridorJSON  `json:"corridors"`
	Grid       []string        `json:"grid"`
	Furnishing *FurnishingJSON `json:"furnishing,omitempty"`
}

// RoomJSON is one room of a LayoutJSON.
type RoomJSON struct {
	Index  int              `json:"index"`
	Type   dungeon.RoomType `json:"type"`
	X      int              `json:"x"`
	Y      int              `json:"y"`
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Doors  []geom.Point     `json:"doors"`
}

// CorridorJSON is one corridor of a LayoutJSON.
type CorridorJSON struct {
	From  int          `json:"from"`
	To    int          `json:"to"`
	DoorA geom.Point   `json:"door_a"`
	DoorB geom.Point   `json:"door_b"`
	Path  []geom.Point `json:"path"`
}

// FurnishingJSON carries the furnishing placements. Walls are reported as a
// count; clients derive them from the grid.
type FurnishingJSON struct {
	Walls       int             `json:"walls"`
	Doors       []furnish.Door  `json:"doors"`
	Decorations []furnish.Spawn `json:"decorations"`
	Enemies     []furnish.Spawn `json:"enemies"`
	PlayerSpawn *geom.Vec2      `json:"player_spawn,omitempty"`
}

// ToJSON converts a layout and its optional furnishing to the wire form.
func ToJSON(layout *dungeon.Layout, f *furnish.Furnishing) LayoutJSON {
	out := LayoutJSON{
		Seed:       layout.Seed,
		Width:      layout.Grid.Width(),
		Height:     layout.Grid.Height(),
		Complete:   layout.Complete,
		StartIndex: layout.StartIndex,
		BossIndex:  layout.BossIndex,
		Rooms:      make([]RoomJSON, 0, len(layout.Rooms)),
		Corridors:  make([]CorridorJSON, 0, len(layout.Corridors)),
		Grid:       layout.Grid.Rows(),
	}

	for i, r := range layout.Rooms {
		doors := r.Doors
		if doors == nil {
			doors = []geom.Point{}
		}
		out.Rooms = append(out.Rooms, RoomJSON{
			Index:  i,
			Type:   r.Type,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			Doors:  doors,
		})
	}

	for _, c := range layout.Corridors {
		out.Corridors = append(out.Corridors, CorridorJSON{
			From:  c.From,
			To:    c.To,
			DoorA: c.DoorA,
			DoorB: c.DoorB,
			Path:  c.Path,
		})
	}

	if f != nil {
		fj := &FurnishingJSON{
			Walls:       len(f.Walls),
			Doors:       orEmpty(f.Doors),
			Decorations: orEmpty(f.Decorations),
			Enemies:     orEmpty(f.Enemies),
		}
		if f.HasPlayerSpawn {
			spawn := f.PlayerSpawn
			fj.PlayerSpawn = &spawn
		}
		out.Furnishing = fj
	}

	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
