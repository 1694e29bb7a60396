package dungeon

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/geom"
)

// AssignRoomTypes gives every room a role and returns the indices of the start
// and boss rooms.
//
// The start room is the one nearest the grid center and the boss room the one
// farthest from the start; ties go to the earlier room. The remaining rooms
// receive the treasure, shop and secret quotas in that order, each pick drawn
// uniformly without replacement. Quotas larger than what is left saturate.
// Everything else becomes combat.
//
// An empty list is a no-op returning (-1, -1). A single room is typed start and
// is reported as both start and boss.
func AssignRoomTypes(cfg Config, rooms []*Room, rng *rand.Rand) (start, boss int) {
	if len(rooms) == 0 {
		return -1, -1
	}

	gridCenter := geom.Vec2{X: float64(cfg.Width) / 2, Y: float64(cfg.Height) / 2}

	start = 0
	best := geom.Distance(rooms[0].Center(), gridCenter)
	for i := 1; i < len(rooms); i++ {
		if d := geom.Distance(rooms[i].Center(), gridCenter); d < best {
			start, best = i, d
		}
	}

	startCenter := rooms[start].Center()
	boss = 0
	farthest := geom.Distance(startCenter, rooms[0].Center())
	for i := 1; i < len(rooms); i++ {
		if d := geom.Distance(startCenter, rooms[i].Center()); d > farthest {
			boss, farthest = i, d
		}
	}

	for _, room := range rooms {
		room.Type = RoomCombat
	}
	rooms[start].Type = RoomStart
	if boss != start {
		rooms[boss].Type = RoomBoss
	}

	remaining := make([]*Room, 0, len(rooms))
	for i, room := range rooms {
		if i != start && i != boss {
			remaining = append(remaining, room)
		}
	}

	treasureCount := randRange(rng, cfg.MinTreasureRooms, cfg.MaxTreasureRooms+1)
	remaining = assignQuota(remaining, RoomTreasure, treasureCount, rng)
	remaining = assignQuota(remaining, RoomShop, cfg.ShopRooms, rng)
	assignQuota(remaining, RoomSecret, cfg.SecretRooms, rng)

	return start, boss
}

// assignQuota types up to count randomly chosen rooms and returns the rooms
// that were not picked, in their original order.
func assignQuota(rooms []*Room, roomType RoomType, count int, rng *rand.Rand) []*Room {
	for i := 0; i < count && len(rooms) > 0; i++ {
		idx := rng.Intn(len(rooms))
		rooms[idx].Type = roomType
		rooms = append(rooms[:idx], rooms[idx+1:]...)
	}
	return rooms
}
