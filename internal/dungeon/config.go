package dungeon

import (
	"errors"
	"fmt"
	"math"
)

// DefaultPlacementAttempts is how many candidates are sampled for a room slot
// before placement gives up and returns the rooms placed so far.
const DefaultPlacementAttempts = 50

// DefaultSpawnAttempts is how many interior points are tried for a decoration
// or enemy before that spawn is skipped.
const DefaultSpawnAttempts = 20

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid dungeon config")

// Config holds the parameters of one generation run.
type Config struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	// NumberOfRooms is the target room count. Placement may produce fewer.
	NumberOfRooms int `yaml:"number_of_rooms" json:"number_of_rooms"`
	MinRoomSize   int `yaml:"min_room_size" json:"min_room_size"`
	MaxRoomSize   int `yaml:"max_room_size" json:"max_room_size"`

	// RoomSpacing is the minimum gap between rooms; it is rounded up.
	RoomSpacing float64 `yaml:"room_spacing" json:"room_spacing"`

	MinTreasureRooms int `yaml:"min_treasure_rooms" json:"min_treasure_rooms"`
	MaxTreasureRooms int `yaml:"max_treasure_rooms" json:"max_treasure_rooms"`
	ShopRooms        int `yaml:"shop_rooms" json:"shop_rooms"`
	SecretRooms      int `yaml:"secret_rooms" json:"secret_rooms"`

	// PlacementAttempts is the per-room retry budget.
	PlacementAttempts int `yaml:"placement_attempts" json:"placement_attempts"`

	Furnish FurnishConfig `yaml:"furnish" json:"furnish"`
}

// FurnishConfig is read only by the furnishing stage.
type FurnishConfig struct {
	UseDoors          bool     `yaml:"use_doors" json:"use_doors"`
	DecorationDensity float64  `yaml:"decoration_density" json:"decoration_density"`
	EnemyDensity      float64  `yaml:"enemy_density" json:"enemy_density"`
	MinDecorSpacing   float64  `yaml:"min_decor_spacing" json:"min_decor_spacing"`
	MinEnemySpacing   float64  `yaml:"min_enemy_spacing" json:"min_enemy_spacing"`
	SpawnAttempts     int      `yaml:"spawn_attempts" json:"spawn_attempts"`
	DecorationKinds   []string `yaml:"decoration_kinds" json:"decoration_kinds"`
	EnemyKinds        []string `yaml:"enemy_kinds" json:"enemy_kinds"`
	BossKind          string   `yaml:"boss_kind" json:"boss_kind"`
}

// DefaultConfig returns a medium-sized dungeon configuration.
func DefaultConfig() Config {
	return Config{
		Width:             50,
		Height:            50,
		NumberOfRooms:     10,
		MinRoomSize:       4,
		MaxRoomSize:       8,
		RoomSpacing:       2,
		MinTreasureRooms:  1,
		MaxTreasureRooms:  2,
		ShopRooms:         1,
		SecretRooms:       1,
		PlacementAttempts: DefaultPlacementAttempts,
		Furnish:           DefaultFurnishConfig(),
	}
}

// DefaultFurnishConfig returns the furnishing defaults.
func DefaultFurnishConfig() FurnishConfig {
	return FurnishConfig{
		UseDoors:          true,
		DecorationDensity: 0.5,
		EnemyDensity:      0.3,
		MinDecorSpacing:   2,
		MinEnemySpacing:   2,
		SpawnAttempts:     DefaultSpawnAttempts,
		DecorationKinds:   []string{"barrel", "crate", "pillar", "torch"},
		EnemyKinds:        []string{"skeleton", "goblin", "slime"},
		BossKind:          "dragon",
	}
}

// SpacingMargin returns RoomSpacing rounded up to whole cells.
func (c Config) SpacingMargin() int {
	return int(math.Ceil(c.RoomSpacing))
}

// placementAttempts returns the retry budget, falling back to the default
// when the field was left zero.
func (c Config) placementAttempts() int {
	if c.PlacementAttempts <= 0 {
		return DefaultPlacementAttempts
	}
	return c.PlacementAttempts
}

// Validate checks that the configuration is structurally sane. Generation does
// not call it; callers that cannot accept an empty dungeon should.
func (c Config) Validate() error {
	var errs []error

	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid dimensions must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.NumberOfRooms < 0 {
		errs = append(errs, fmt.Errorf("number_of_rooms must be >= 0, got %d", c.NumberOfRooms))
	}
	if c.MinRoomSize < 1 {
		errs = append(errs, fmt.Errorf("min_room_size must be >= 1, got %d", c.MinRoomSize))
	}
	if c.MaxRoomSize < c.MinRoomSize {
		errs = append(errs, fmt.Errorf("max_room_size (%d) must be >= min_room_size (%d)", c.MaxRoomSize, c.MinRoomSize))
	}
	if c.RoomSpacing < 0 {
		errs = append(errs, fmt.Errorf("room_spacing must be >= 0, got %v", c.RoomSpacing))
	}
	if c.MinTreasureRooms < 0 || c.ShopRooms < 0 || c.SecretRooms < 0 {
		errs = append(errs, fmt.Errorf("room quotas must be >= 0"))
	}
	if c.MaxTreasureRooms < c.MinTreasureRooms {
		errs = append(errs, fmt.Errorf("max_treasure_rooms (%d) must be >= min_treasure_rooms (%d)", c.MaxTreasureRooms, c.MinTreasureRooms))
	}
	if c.PlacementAttempts < 0 {
		errs = append(errs, fmt.Errorf("placement_attempts must be >= 0, got %d", c.PlacementAttempts))
	}
	if c.Width > 0 && c.Height > 0 && c.MinRoomSize+2 > min(c.Width, c.Height) {
		errs = append(errs, fmt.Errorf("min_room_size %d does not fit a %dx%d grid with its border", c.MinRoomSize, c.Width, c.Height))
	}

	f := c.Furnish
	if f.DecorationDensity < 0 || f.EnemyDensity < 0 {
		errs = append(errs, fmt.Errorf("furnish densities must be >= 0"))
	}
	if f.MinDecorSpacing < 0 || f.MinEnemySpacing < 0 {
		errs = append(errs, fmt.Errorf("furnish spacings must be >= 0"))
	}
	if f.SpawnAttempts < 0 {
		errs = append(errs, fmt.Errorf("spawn_attempts must be >= 0, got %d", f.SpawnAttempts))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
