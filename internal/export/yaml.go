// Package export renders layouts for people and other programs: YAML files,
// ASCII maps and the JSON wire form.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/furnish"
	"github.com/lawnchairsociety/dungeongen/internal/geom"
	"gopkg.in/yaml.v3"
)

// WriteYAML writes the layout, and the furnishing when f is non-nil, as an
// ordered YAML document preceded by a comment header.
func WriteYAML(w io.Writer, layout *dungeon.Layout, f *furnish.Furnishing) error {
	fmt.Fprintf(w, "# Dungeon %dx%d\n", layout.Grid.Width(), layout.Grid.Height())
	fmt.Fprintf(w, "# Generated with seed: %d\n", layout.Seed)
	fmt.Fprintf(w, "# Room count: %d of %d requested\n\n", len(layout.Rooms), layout.Config.NumberOfRooms)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(layoutNode(layout, f)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteYAMLFile writes the layout to path, creating parent directories.
func WriteYAMLFile(path string, layout *dungeon.Layout, f *furnish.Furnishing) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return WriteYAML(file, layout, f)
}

func layoutNode(layout *dungeon.Layout, f *furnish.Furnishing) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}

	addIntField(node, "seed", layout.Seed)
	addIntField(node, "width", int64(layout.Grid.Width()))
	addIntField(node, "height", int64(layout.Grid.Height()))
	addBoolField(node, "complete", layout.Complete)
	addIntField(node, "start_room", int64(layout.StartIndex))
	addIntField(node, "boss_room", int64(layout.BossIndex))

	rooms := &yaml.Node{Kind: yaml.SequenceNode}
	for i, r := range layout.Rooms {
		room := &yaml.Node{Kind: yaml.MappingNode}
		addIntField(room, "index", int64(i))
		addStringField(room, "type", r.Type.String())
		addIntField(room, "x", int64(r.X))
		addIntField(room, "y", int64(r.Y))
		addIntField(room, "width", int64(r.Width))
		addIntField(room, "height", int64(r.Height))
		if len(r.Doors) > 0 {
			addPointsField(room, "doors", r.Doors)
		}
		rooms.Content = append(rooms.Content, room)
	}
	addNodeField(node, "rooms", rooms)

	corridors := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range layout.Corridors {
		corridor := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		addIntField(corridor, "from", int64(c.From))
		addIntField(corridor, "to", int64(c.To))
		addStringField(corridor, "door_a", c.DoorA.String())
		addStringField(corridor, "door_b", c.DoorB.String())
		addIntField(corridor, "length", int64(len(c.Path)))
		corridors.Content = append(corridors.Content, corridor)
	}
	addNodeField(node, "corridors", corridors)

	grid := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range layout.Grid.Rows() {
		grid.Content = append(grid.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: row, Style: yaml.DoubleQuotedStyle})
	}
	addNodeField(node, "grid", grid)

	if f != nil {
		addNodeField(node, "furnishing", furnishingNode(f))
	}

	return node
}

func furnishingNode(f *furnish.Furnishing) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}

	addIntField(node, "walls", int64(len(f.Walls)))
	if f.HasPlayerSpawn {
		addStringField(node, "player_spawn", fmt.Sprintf("%g,%g", f.PlayerSpawn.X, f.PlayerSpawn.Y))
	}

	doors := &yaml.Node{Kind: yaml.SequenceNode}
	for _, d := range f.Doors {
		door := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		addStringField(door, "cell", d.Cell.String())
		addIntField(door, "room", int64(d.Room))
		addStringField(door, "side", d.Side.String())
		if d.Secret {
			addBoolField(door, "secret", true)
		}
		doors.Content = append(doors.Content, door)
	}
	addNodeField(node, "doors", doors)

	addNodeField(node, "decorations", spawnsNode(f.Decorations))
	addNodeField(node, "enemies", spawnsNode(f.Enemies))

	return node
}

func spawnsNode(spawns []furnish.Spawn) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, s := range spawns {
		spawn := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		addStringField(spawn, "kind", s.Kind)
		addIntField(spawn, "room", int64(s.Room))
		addStringField(spawn, "cell", s.Cell.String())
		addIntField(spawn, "rotation", int64(s.Rotation))
		seq.Content = append(seq.Content, spawn)
	}
	return seq
}

func addStringField(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}

func addIntField(node *yaml.Node, key string, value int64) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(value, 10)},
	)
}

func addBoolField(node *yaml.Node, key string, value bool) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)},
	)
}

func addPointsField(node *yaml.Node, key string, points []geom.Point) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, p := range points {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.String()})
	}
	addNodeField(node, key, seq)
}

func addNodeField(node *yaml.Node, key string, value *yaml.Node) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}
