package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/geom"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// DefaultListLimit caps ListLayouts when no limit is given.
const DefaultListLimit = 50

var (
	// ErrLayoutNotFound is returned when no layout has the requested id.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrDuplicateName is returned when a layout name is already taken.
	ErrDuplicateName = errors.New("layout name already exists")
)

// LayoutSummary is one row of ListLayouts.
type LayoutSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name,omitempty"`
	Seed      int64     `json:"seed"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Rooms     int       `json:"rooms"`
	Requested int       `json:"requested_rooms"`
	Complete  bool      `json:"complete"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveLayout stores a layout with its rooms and corridors in one transaction
// and returns the new id. An empty name stores the layout unnamed.
func (d *Database) SaveLayout(l *dungeon.Layout, name string) (int64, error) {
	cfgYAML, err := yaml.Marshal(l.Config)
	if err != nil {
		return 0, fmt.Errorf("failed to encode config: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var nameArg sql.NullString
	if name = strings.TrimSpace(name); name != "" {
		nameArg = sql.NullString{String: name, Valid: true}
	}

	query := d.qb.BuildWithReturning(`
		INSERT INTO layouts (name, seed, width, height, requested_rooms, room_count,
			complete, start_index, boss_index, config, grid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{
		nameArg, l.Seed, l.Grid.Width(), l.Grid.Height(), l.Config.NumberOfRooms, len(l.Rooms),
		boolToInt(l.Complete), l.StartIndex, l.BossIndex, string(cfgYAML),
		strings.Join(l.Grid.Rows(), "\n"), time.Now().Unix(),
	}

	var id int64
	if d.dialect.SupportsLastInsertID() {
		result, err := tx.Exec(query, args...)
		if err != nil {
			return 0, d.insertError(err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get layout id: %w", err)
		}
	} else {
		if err := tx.QueryRow(query, args...).Scan(&id); err != nil {
			return 0, d.insertError(err)
		}
	}

	roomQuery := d.qb.Build(`
		INSERT INTO layout_rooms (layout_id, room_index, room_type, x, y, width, height, doors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, r := range l.Rooms {
		if _, err := tx.Exec(roomQuery, id, i, r.Type.String(), r.X, r.Y, r.Width, r.Height, encodePoints(r.Doors)); err != nil {
			return 0, fmt.Errorf("failed to save room %d: %w", i, err)
		}
	}

	corridorQuery := d.qb.Build(`
		INSERT INTO layout_corridors (layout_id, corridor_index, from_room, to_room, door_a, door_b, path)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for i, c := range l.Corridors {
		if _, err := tx.Exec(corridorQuery, id, i, c.From, c.To, c.DoorA.String(), c.DoorB.String(), encodePoints(c.Path)); err != nil {
			return 0, fmt.Errorf("failed to save corridor %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit layout: %w", err)
	}

	logger.Debug("Layout saved", "id", id, "name", name, "seed", l.Seed, "rooms", len(l.Rooms))
	return id, nil
}

func (d *Database) insertError(err error) error {
	if d.dialect.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	return fmt.Errorf("failed to save layout: %w", err)
}

// LoadLayout rebuilds an archived layout.
func (d *Database) LoadLayout(id int64) (*dungeon.Layout, error) {
	var (
		width, height int
		complete      int
		cfgYAML, grid string
	)
	l := &dungeon.Layout{}

	err := d.db.QueryRow(d.qb.Build(`
		SELECT seed, width, height, complete, start_index, boss_index, config, grid
		FROM layouts WHERE id = ?`), id).
		Scan(&l.Seed, &width, &height, &complete, &l.StartIndex, &l.BossIndex, &cfgYAML, &grid)
	if err == sql.ErrNoRows {
		return nil, ErrLayoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}

	if err := yaml.Unmarshal([]byte(cfgYAML), &l.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config of layout %d: %w", id, err)
	}
	l.Complete = complete != 0

	var rows []string
	if grid != "" {
		rows = strings.Split(grid, "\n")
	}
	if len(rows) != height {
		return nil, fmt.Errorf("layout %d: grid has %d rows, want %d", id, len(rows), height)
	}
	l.Grid = dungeon.GridFromRows(width, rows)

	if l.Rooms, err = d.loadRooms(id); err != nil {
		return nil, err
	}
	if l.Corridors, err = d.loadCorridors(id); err != nil {
		return nil, err
	}

	return l, nil
}

func (d *Database) loadRooms(id int64) ([]*dungeon.Room, error) {
	rows, err := d.db.Query(d.qb.Build(`
		SELECT room_type, x, y, width, height, doors
		FROM layout_rooms WHERE layout_id = ? ORDER BY room_index`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*dungeon.Room
	for rows.Next() {
		var (
			typeName, doors string
			rect            geom.Rect
		)
		if err := rows.Scan(&typeName, &rect.X, &rect.Y, &rect.Width, &rect.Height, &doors); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}

		room := dungeon.NewRoom(rect)
		if room.Type, err = dungeon.ParseRoomType(typeName); err != nil {
			return nil, fmt.Errorf("layout %d room %d: %w", id, len(rooms), err)
		}
		if room.Doors, err = decodePoints(doors); err != nil {
			return nil, fmt.Errorf("layout %d room %d doors: %w", id, len(rooms), err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func (d *Database) loadCorridors(id int64) ([]dungeon.Corridor, error) {
	rows, err := d.db.Query(d.qb.Build(`
		SELECT from_room, to_room, door_a, door_b, path
		FROM layout_corridors WHERE layout_id = ? ORDER BY corridor_index`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query corridors: %w", err)
	}
	defer rows.Close()

	var corridors []dungeon.Corridor
	for rows.Next() {
		var (
			c                  dungeon.Corridor
			doorA, doorB, path string
		)
		if err := rows.Scan(&c.From, &c.To, &doorA, &doorB, &path); err != nil {
			return nil, fmt.Errorf("failed to scan corridor: %w", err)
		}
		if c.DoorA, err = geom.ParsePoint(doorA); err != nil {
			return nil, err
		}
		if c.DoorB, err = geom.ParsePoint(doorB); err != nil {
			return nil, err
		}
		if c.Path, err = decodePoints(path); err != nil {
			return nil, err
		}
		corridors = append(corridors, c)
	}

	return corridors, rows.Err()
}

// ListLayouts returns archived layouts, newest first. A limit <= 0 uses DefaultListLimit.
func (d *Database) ListLayouts(limit int) ([]LayoutSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := d.db.Query(d.qb.Build(`
		SELECT id, name, seed, width, height, room_count, requested_rooms, complete, created_at
		FROM layouts ORDER BY id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	defer rows.Close()

	summaries := []LayoutSummary{}
	for rows.Next() {
		var (
			s         LayoutSummary
			name      sql.NullString
			complete  int
			createdAt int64
		)
		if err := rows.Scan(&s.ID, &name, &s.Seed, &s.Width, &s.Height, &s.Rooms, &s.Requested, &complete, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan layout: %w", err)
		}
		s.Name = name.String
		s.Complete = complete != 0
		s.CreatedAt = time.Unix(createdAt, 0)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// DeleteLayout removes a layout and its rooms and corridors.
func (d *Database) DeleteLayout(id int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"layout_corridors", "layout_rooms"} {
		if _, err := tx.Exec(d.qb.Build("DELETE FROM "+table+" WHERE layout_id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	result, err := tx.Exec(d.qb.Build("DELETE FROM layouts WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete layout: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return ErrLayoutNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// encodePoints joins points as "x,y;x,y".
func encodePoints(points []geom.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = p.String()
	}
	return strings.Join(parts, ";")
}

func decodePoints(s string) ([]geom.Point, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	points := make([]geom.Point, 0, len(parts))
	for _, part := range parts {
		p, err := geom.ParsePoint(part)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
