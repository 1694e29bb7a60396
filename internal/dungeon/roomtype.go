package dungeon

import "fmt"

// RoomType is the gameplay role of a room.
type RoomType int

const (
	RoomCombat   RoomType = iota // Default for rooms left over after the quotas
	RoomStart                    // Player entry, nearest the grid center
	RoomBoss                     // Farthest from the start room
	RoomTreasure                 // Loot room
	RoomShop                     // Merchant room
	RoomSecret                   // Hidden room, doors are secret
)

// AllRoomTypes returns every room type in declaration order.
func AllRoomTypes() []RoomType {
	return []RoomType{RoomCombat, RoomStart, RoomBoss, RoomTreasure, RoomShop, RoomSecret}
}

// String returns the string representation of a RoomType
func (t RoomType) String() string {
	switch t {
	case RoomCombat:
		return "combat"
	case RoomStart:
		return "start"
	case RoomBoss:
		return "boss"
	case RoomTreasure:
		return "treasure"
	case RoomShop:
		return "shop"
	case RoomSecret:
		return "secret"
	default:
		return "unknown"
	}
}

// Symbol returns the single-character map symbol for the room type.
func (t RoomType) Symbol() byte {
	switch t {
	case RoomStart:
		return 'S'
	case RoomBoss:
		return 'B'
	case RoomTreasure:
		return 'T'
	case RoomShop:
		return '$'
	case RoomSecret:
		return '?'
	default:
		return 'C'
	}
}

// ParseRoomType converts a string produced by String back into a RoomType.
func ParseRoomType(s string) (RoomType, error) {
	for _, t := range AllRoomTypes() {
		if t.String() == s {
			return t, nil
		}
	}
	return RoomCombat, fmt.Errorf("unknown room type %q", s)
}

// MarshalText implements encoding.TextMarshaler so room types serialize by name.
func (t RoomType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *RoomType) UnmarshalText(text []byte) error {
	parsed, err := ParseRoomType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
