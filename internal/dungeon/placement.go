package dungeon

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/geom"
)

// PlaceRooms rejection-samples up to cfg.NumberOfRooms rooms onto grid and
// marks their cells Floor. Each slot gets cfg.PlacementAttempts candidates; when
// a slot exhausts its budget placement stops and complete is false. The rooms
// placed so far are still returned and are valid.
func PlaceRooms(cfg Config, grid *Grid, rng *rand.Rand) (rooms []*Room, complete bool) {
	rooms = make([]*Room, 0, max(cfg.NumberOfRooms, 0))

	for i := 0; i < cfg.NumberOfRooms; i++ {
		room := tryPlaceRoom(cfg, rooms, rng)
		if room == nil {
			return rooms, false
		}
		rooms = append(rooms, room)
		grid.MarkRect(room.Rect)
	}

	return rooms, true
}

// tryPlaceRoom samples candidates until one is valid or the budget runs out.
func tryPlaceRoom(cfg Config, placed []*Room, rng *rand.Rand) *Room {
	margin := cfg.SpacingMargin()

	for attempt := 0; attempt < cfg.placementAttempts(); attempt++ {
		width := randRange(rng, cfg.MinRoomSize, cfg.MaxRoomSize+1)
		height := randRange(rng, cfg.MinRoomSize, cfg.MaxRoomSize+1)

		// Keep a one-cell border free on every side
		x := randRange(rng, 1, cfg.Width-width-1)
		y := randRange(rng, 1, cfg.Height-height-1)

		candidate := geom.Rect{X: x, Y: y, Width: width, Height: height}
		if isPlacementValid(cfg, candidate, placed, margin) {
			return NewRoom(candidate)
		}
	}

	return nil
}

// isPlacementValid checks bounds and spacing against every placed room.
// Candidates sampled from an empty coordinate range can cover the border and
// are rejected here.
func isPlacementValid(cfg Config, candidate geom.Rect, placed []*Room, margin int) bool {
	if candidate.Width <= 0 || candidate.Height <= 0 {
		return false
	}
	withBorder := geom.Rect{
		X:      candidate.X - 1,
		Y:      candidate.Y - 1,
		Width:  candidate.Width + 2,
		Height: candidate.Height + 2,
	}
	if !withBorder.Within(cfg.Width, cfg.Height) {
		return false
	}

	for _, other := range placed {
		if candidate.Overlaps(other.Rect, margin) {
			return false
		}
	}

	return true
}
