// Package render turns frames into terminal writes. A Worker goroutine drains
// frames from a Queue and writes only the cells that changed since the
// previous frame.
package render

import (
	"fmt"

	"github.com/vovakirdan/term-invaders/internal/core"
	"github.com/vovakirdan/term-invaders/internal/registry"
)

// Render writes curr to dst. Only cells that differ from prev are written,
// unless force is set or prev is nil, in which case every cell is.
// The surface is flushed once at the end. Returns the number of cells written.
func Render(dst registry.Surface, prev, curr *core.Frame, force bool) (int, error) {
	if prev == nil || prev.Width() != curr.Width() || prev.Height() != curr.Height() {
		force = true
	}

	written := 0
	for y := 0; y < curr.Height(); y++ {
		for x := 0; x < curr.Width(); x++ {
			c := curr.Get(x, y)
			if !force && prev.Get(x, y) == c {
				continue
			}
			dst.SetCell(x, y, c)
			written++
		}
	}

	if err := dst.Flush(); err != nil {
		return written, fmt.Errorf("render: flush: %w", err)
	}
	return written, nil
}
