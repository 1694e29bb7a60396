package dungeon

import (
	"strings"

	"github.com/lawnchairsociety/dungeongen/internal/geom"
)

// Cell is the occupancy state of a single grid cell.
type Cell uint8

const (
	Empty Cell = iota // Unused space
	Floor             // Traversable room or corridor floor
)

// String returns the string representation of a Cell
func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Floor:
		return "floor"
	default:
		return "unknown"
	}
}

// Grid is the occupancy grid of a single generation run, stored row-major.
// Cells only ever go from Empty to Floor.
type Grid struct {
	width, height int
	cells         []Cell
}

// NewGrid creates an all-Empty grid. Non-positive dimensions yield an empty grid.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the cell at (x, y). Out-of-bounds cells read as Empty.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Empty
	}
	return g.cells[y*g.width+x]
}

// IsFloor reports whether (x, y) is an in-bounds Floor cell.
func (g *Grid) IsFloor(x, y int) bool {
	return g.At(x, y) == Floor
}

// MarkFloor sets (x, y) to Floor. Out-of-bounds writes are dropped.
func (g *Grid) MarkFloor(x, y int) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = Floor
}

// MarkPoint is MarkFloor for a geom.Point.
func (g *Grid) MarkPoint(p geom.Point) {
	g.MarkFloor(p.X, p.Y)
}

// MarkRect marks every cell covered by r as Floor.
func (g *Grid) MarkRect(r geom.Rect) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			g.MarkFloor(x, y)
		}
	}
}

// FloorCount returns the number of Floor cells.
func (g *Grid) FloorCount() int {
	n := 0
	for _, c := range g.cells {
		if c == Floor {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Equal reports whether two grids have the same dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i, c := range g.cells {
		if other.cells[i] != c {
			return false
		}
	}
	return true
}

// Rows encodes the grid as one string per row ('1' = Floor, '0' = Empty),
// row 0 first. This is the storage format used by the layout archive.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		sb.Reset()
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] == Floor {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// GridFromRows rebuilds a grid encoded with Rows. Rows may be ragged; missing
// cells stay Empty and extra characters are ignored.
func GridFromRows(width int, rows []string) *Grid {
	g := NewGrid(width, len(rows))
	for y, row := range rows {
		for x := 0; x < len(row) && x < width; x++ {
			if row[x] == '1' {
				g.MarkFloor(x, y)
			}
		}
	}
	return g
}
