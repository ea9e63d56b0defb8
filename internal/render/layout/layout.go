package layout

import "image"

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Square returns the full canvas rectangle for a size x size canvas.
func Square(size int) image.Rectangle {
	if size < 0 {
		size = 0
	}
	return image.Rect(0, 0, size, size)
}

// Box converts a box with a fractional corner and side into pixels.
// Corners are truncated toward zero and the far corner is inclusive,
// so a side of 10.5 at x=31.5 covers pixels 31..41.
func Box(x, y, side float64) image.Rectangle {
	x0, y0 := int(x), int(y)
	x1, y1 := int(x+side-1), int(y+side-1)
	return Normalize(image.Rect(x0, y0, x1+1, y1+1))
}

// Clip limits rect to bounds.
func Clip(rect, bounds image.Rectangle) image.Rectangle {
	return Normalize(rect).Intersect(bounds)
}
