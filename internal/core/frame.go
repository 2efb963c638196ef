package core

import (
	"strings"
)

// Playfield dimensions. The grid is fixed for the lifetime of the process.
const (
	Cols = 40
	Rows = 20
)

// Cell is a single character-sized screen unit.
type Cell struct {
	Rune  rune
	Color Color
}

// EmptyCell is the content of a cell nothing has been drawn into.
var EmptyCell = Cell{Rune: ' ', Color: ColorDefault}

// IsEmpty reports whether the cell holds no glyph.
func (c Cell) IsEmpty() bool {
	return c == EmptyCell
}

// Frame is a fixed-size 2D grid of cells: one complete picture of the playfield.
// A frame is built fresh every tick and handed to the renderer; the producer
// must not touch it after sending.
type Frame struct {
	width  int
	height int
	cells  []Cell
}

// NewFrame returns an empty frame with the playfield dimensions.
func NewFrame() *Frame {
	return NewFrameSize(Cols, Rows)
}

// NewFrameSize returns an empty frame of the given dimensions.
func NewFrameSize(width, height int) *Frame {
	f := &Frame{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	f.Clear()
	return f
}

// Width returns the frame width in cells.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the frame height in cells.
func (f *Frame) Height() int {
	return f.height
}

// Clear empties every cell.
func (f *Frame) Clear() {
	for i := range f.cells {
		f.cells[i] = EmptyCell
	}
}

// Set places a glyph at the given position.
// Out-of-bounds coordinates are silently ignored.
func (f *Frame) Set(x, y int, r rune, color Color) {
	f.SetCell(x, y, Cell{Rune: r, Color: color})
}

// SetCell places a cell at the given position.
// Out-of-bounds coordinates are silently ignored.
func (f *Frame) SetCell(x, y int, c Cell) {
	if !f.InBounds(x, y) {
		return
	}
	f.cells[y*f.width+x] = c
}

// Get returns the cell at the given position.
// Returns EmptyCell for out-of-bounds coordinates.
func (f *Frame) Get(x, y int) Cell {
	if !f.InBounds(x, y) {
		return EmptyCell
	}
	return f.cells[y*f.width+x]
}

// InBounds reports whether (x, y) lies inside the frame.
func (f *Frame) InBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// String converts the frame to plain runes, one line per row.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(f.width*f.height + f.height)

	for y := 0; y < f.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < f.width; x++ {
			sb.WriteRune(f.cells[y*f.width+x].Rune)
		}
	}
	return sb.String()
}

// Drawable is anything that can paint itself into a frame.
type Drawable interface {
	Draw(dst *Frame)
}
