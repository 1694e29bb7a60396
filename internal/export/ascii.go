package export

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

// Map symbols
const (
	symbolEmpty = ' '
	symbolFloor = '#'
	symbolDoor  = '+'
)

// RenderASCII draws the layout one character per cell, row 0 first. Doors
// are drawn over floor, and each room's type symbol is drawn at its center.
func RenderASCII(layout *dungeon.Layout, showLegend bool) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("Dungeon Map (Seed: %d, Rooms: %d/%d)\n",
		layout.Seed, len(layout.Rooms), layout.Config.NumberOfRooms))
	output.WriteString(strings.Repeat("=", max(layout.Grid.Width(), 40)) + "\n")

	output.WriteString(strings.Join(renderRows(layout), "\n"))
	output.WriteString("\n")

	if len(layout.Rooms) > 0 {
		output.WriteString("\nRoom Details:\n")
		for i, r := range layout.Rooms {
			output.WriteString(fmt.Sprintf("  [%c] %-9s #%-3d (%d,%d) %dx%d doors: %d\n",
				r.Type.Symbol(), r.Type, i, r.X, r.Y, r.Width, r.Height, len(r.Doors)))
		}
	}

	if !layout.Complete {
		output.WriteString(fmt.Sprintf("\nWARNING: only %d of %d rooms could be placed.\n",
			len(layout.Rooms), layout.Config.NumberOfRooms))
	}

	if showLegend {
		output.WriteString(getLegend())
	}

	return output.String()
}

// renderRows returns one string per grid row.
func renderRows(layout *dungeon.Layout) []string {
	width, height := layout.Grid.Width(), layout.Grid.Height()

	canvas := make([][]byte, height)
	for y := range canvas {
		canvas[y] = make([]byte, width)
		for x := range canvas[y] {
			canvas[y][x] = symbolEmpty
			if layout.Grid.IsFloor(x, y) {
				canvas[y][x] = symbolFloor
			}
		}
	}

	set := func(x, y int, c byte) {
		if layout.Grid.InBounds(x, y) {
			canvas[y][x] = c
		}
	}

	for _, r := range layout.Rooms {
		for _, d := range r.Doors {
			set(d.X, d.Y, symbolDoor)
		}
	}
	for _, r := range layout.Rooms {
		set(r.X+r.Width/2, r.Y+r.Height/2, r.Type.Symbol())
	}

	rows := make([]string, height)
	for y := range canvas {
		rows[y] = strings.TrimRight(string(canvas[y]), " ")
	}
	return rows
}

func getLegend() string {
	return `
Legend:
  #   Floor (room or corridor)
  +   Door
  [S] Start room
  [B] Boss room
  [T] Treasure room
  [$] Shop
  [?] Secret room
  [C] Combat room
`
}
