package cover

import (
	"github.com/rook-computer/dyncover/internal/render"
	"github.com/rook-computer/dyncover/internal/render/layout"
)

// RenderGrid paints the pattern four times, once per quadrant, each copy
// mirrored around the canvas center so the result is symmetric on both
// axes. Every quadrant walks rows of boxes away from the center; bit i of
// the pattern decides whether the i-th box of the walk is filled.
func RenderGrid(canvas render.Canvas, pattern string, c render.ColorHandle, half, box float64) error {
	size := float64(canvas.Size())
	for k := 0; k < 4; k++ {
		startX, y := half-box, half-box
		u, v := -box, -box
		if k%2 == 1 {
			startX, u = half, box
		}
		if k < 2 {
			y, v = half, box
		}
		x := startX
		for i := 0; i < PatternLength && i < len(pattern); i++ {
			if pattern[i] == '1' {
				if err := canvas.FillRect(layout.Box(x, y, box), c); err != nil {
					return err
				}
			}
			x += u
			if x >= size || x < 0 {
				x = startX
				y += v
			}
		}
	}
	return nil
}

// RenderSolid fills the whole canvas with c.
func RenderSolid(canvas render.Canvas, c render.ColorHandle) error {
	return canvas.FillRect(layout.Square(canvas.Size()), c)
}
