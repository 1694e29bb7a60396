package dungeon

import (
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/geom"
)

func roomsAt(rects ...geom.Rect) []*Room {
	rooms := make([]*Room, len(rects))
	for i, r := range rects {
		rooms[i] = NewRoom(r)
	}
	return rooms
}

func countTypes(rooms []*Room) map[RoomType]int {
	counts := make(map[RoomType]int)
	for _, r := range rooms {
		counts[r.Type]++
	}
	return counts
}

func TestAssignRoomTypesEmpty(t *testing.T) {
	start, boss := AssignRoomTypes(DefaultConfig(), nil, rand.New(rand.NewSource(1)))
	if start != -1 || boss != -1 {
		t.Errorf("AssignRoomTypes(nil) = (%d, %d), want (-1, -1)", start, boss)
	}
}

func TestAssignRoomTypesStartAndBoss(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinTreasureRooms, cfg.MaxTreasureRooms = 0, 0
	cfg.ShopRooms, cfg.SecretRooms = 0, 0

	rooms := roomsAt(
		geom.Rect{X: 0, Y: 0, Width: 4, Height: 4},
		geom.Rect{X: 23, Y: 23, Width: 4, Height: 4},
		geom.Rect{X: 40, Y: 40, Width: 4, Height: 4},
		geom.Rect{X: 2, Y: 44, Width: 4, Height: 4},
	)

	start, boss := AssignRoomTypes(cfg, rooms, rand.New(rand.NewSource(1)))

	if start != 1 {
		t.Errorf("start = %d, want 1 (nearest the grid center)", start)
	}
	if boss != 0 {
		t.Errorf("boss = %d, want 0 (farthest from the start)", boss)
	}
	if rooms[1].Type != RoomStart || rooms[0].Type != RoomBoss {
		t.Errorf("types = %v, %v, want start, boss", rooms[1].Type, rooms[0].Type)
	}
	if rooms[2].Type != RoomCombat || rooms[3].Type != RoomCombat {
		t.Errorf("unassigned rooms = %v, %v, want combat", rooms[2].Type, rooms[3].Type)
	}
}

func TestAssignRoomTypesTwoRooms(t *testing.T) {
	cfg := DefaultConfig()
	rooms := roomsAt(
		geom.Rect{X: 13, Y: 23, Width: 4, Height: 4},
		geom.Rect{X: 33, Y: 23, Width: 4, Height: 4},
	)

	start, boss := AssignRoomTypes(cfg, rooms, rand.New(rand.NewSource(1)))

	// Both centers are 10 from the grid center; the earlier room wins the tie.
	if start != 0 || boss != 1 {
		t.Errorf("AssignRoomTypes = (%d, %d), want (0, 1)", start, boss)
	}
	counts := countTypes(rooms)
	if counts[RoomTreasure]+counts[RoomShop]+counts[RoomSecret] != 0 {
		t.Errorf("quotas should have no rooms left to type: %v", counts)
	}
}

func TestAssignRoomTypesSingleRoom(t *testing.T) {
	rooms := roomsAt(geom.Rect{X: 5, Y: 5, Width: 4, Height: 4})

	start, boss := AssignRoomTypes(DefaultConfig(), rooms, rand.New(rand.NewSource(1)))

	if start != 0 || boss != 0 {
		t.Errorf("AssignRoomTypes = (%d, %d), want (0, 0)", start, boss)
	}
	if rooms[0].Type != RoomStart {
		t.Errorf("single room type = %v, want start", rooms[0].Type)
	}
}

func TestAssignRoomTypesExactQuotas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinTreasureRooms, cfg.MaxTreasureRooms = 2, 2
	cfg.ShopRooms, cfg.SecretRooms = 1, 1

	for seed := int64(0); seed < 20; seed++ {
		rooms := make([]*Room, 10)
		for i := range rooms {
			rooms[i] = NewRoom(geom.Rect{X: 1 + i*4, Y: 1 + i*4, Width: 3, Height: 3})
		}

		AssignRoomTypes(cfg, rooms, rand.New(rand.NewSource(seed)))

		counts := countTypes(rooms)
		want := map[RoomType]int{
			RoomStart:    1,
			RoomBoss:     1,
			RoomTreasure: 2,
			RoomShop:     1,
			RoomSecret:   1,
			RoomCombat:   4,
		}
		for rt, n := range want {
			if counts[rt] != n {
				t.Errorf("seed=%d: %v rooms = %d, want %d", seed, rt, counts[rt], n)
			}
		}
	}
}

func TestAssignRoomTypesQuotasSaturate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinTreasureRooms, cfg.MaxTreasureRooms = 5, 5
	cfg.ShopRooms, cfg.SecretRooms = 3, 3

	rooms := roomsAt(
		geom.Rect{X: 1, Y: 1, Width: 4, Height: 4},
		geom.Rect{X: 10, Y: 10, Width: 4, Height: 4},
		geom.Rect{X: 23, Y: 23, Width: 4, Height: 4},
		geom.Rect{X: 40, Y: 40, Width: 4, Height: 4},
	)

	AssignRoomTypes(cfg, rooms, rand.New(rand.NewSource(3)))

	counts := countTypes(rooms)
	if counts[RoomTreasure] != 2 {
		t.Errorf("treasure rooms = %d, want 2 (all that remain)", counts[RoomTreasure])
	}
	if counts[RoomShop] != 0 || counts[RoomSecret] != 0 || counts[RoomCombat] != 0 {
		t.Errorf("later quotas should find nothing left: %v", counts)
	}
}

func TestAssignRoomTypesResetsPreviousTypes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinTreasureRooms, cfg.MaxTreasureRooms = 0, 0
	cfg.ShopRooms, cfg.SecretRooms = 0, 0

	rooms := roomsAt(
		geom.Rect{X: 1, Y: 1, Width: 4, Height: 4},
		geom.Rect{X: 23, Y: 23, Width: 4, Height: 4},
		geom.Rect{X: 40, Y: 40, Width: 4, Height: 4},
		geom.Rect{X: 40, Y: 2, Width: 4, Height: 4},
	)
	for _, r := range rooms {
		r.Type = RoomShop
	}

	AssignRoomTypes(cfg, rooms, rand.New(rand.NewSource(1)))

	if counts := countTypes(rooms); counts[RoomShop] != 0 {
		t.Errorf("stale shop types survived: %v", counts)
	}
}

func TestAssignQuotaPreservesOrder(t *testing.T) {
	rooms := make([]*Room, 6)
	for i := range rooms {
		rooms[i] = NewRoom(geom.Rect{X: i, Y: 0, Width: 1, Height: 1})
	}

	left := assignQuota(append([]*Room(nil), rooms...), RoomTreasure, 3, rand.New(rand.NewSource(8)))

	if len(left) != 3 {
		t.Fatalf("assignQuota left %d rooms, want 3", len(left))
	}
	for i := 1; i < len(left); i++ {
		if left[i-1].X >= left[i].X {
			t.Errorf("remaining rooms out of order: %v before %v", left[i-1].Rect, left[i].Rect)
		}
	}
	for _, r := range left {
		if r.Type != RoomCombat {
			t.Errorf("unpicked room %v typed %v", r.Rect, r.Type)
		}
	}
}
