package render

import (
	"errors"
	"image"
	"image/color"
	"io"
	"sync/atomic"
)

var (
	// ErrCanvasSize is returned when a canvas cannot be allocated for the requested size.
	ErrCanvasSize = errors.New("render: canvas size out of range")
	// ErrNoFont means the font path is empty or could not be loaded.
	ErrNoFont = errors.New("render: no usable font")
	// ErrForeignColor means a color handle was used on a canvas that did not allocate it.
	ErrForeignColor = errors.New("render: color handle belongs to another canvas")
	// ErrPaletteFull means the canvas palette has no free entries left.
	ErrPaletteFull = errors.New("render: palette full")
	// ErrClosed is returned by every operation on a closed canvas.
	ErrClosed = errors.New("render: canvas closed")
)

const (
	// MaxCanvasSize bounds the side length of a canvas in pixels.
	MaxCanvasSize = 4096
	// MaxColors is the palette capacity of a canvas.
	MaxColors = 256
	// DPI used to convert point sizes to pixels.
	DPI = 96
)

// Canvas is the raster surface a cover is painted on. Coordinates are in
// pixels with the origin at the top-left; text Y is the baseline.
type Canvas interface {
	// Size returns the side length of the square canvas.
	Size() int

	// Allocate registers c in the canvas palette. Allocating the same color
	// twice returns the same handle.
	Allocate(c color.RGBA) (ColorHandle, error)

	FillRect(rect image.Rectangle, c ColorHandle) error

	// MeasureText returns the ink width of text in pixels.
	MeasureText(text, fontPath string, size float64) (int, error)
	DrawText(text string, x, y int, fontPath string, size float64, c ColorHandle) error

	Encode(w io.Writer) error
	Close() error
}

// Factory creates a canvas of size x size pixels.
type Factory func(size int) (Canvas, error)

// ColorHandle references a palette entry of exactly one canvas.
type ColorHandle struct {
	canvas uint64
	index  int
}

// Index returns the palette index of the handle.
func (h ColorHandle) Index() int { return h.index }

// Valid reports whether the handle was produced by a successful allocation.
func (h ColorHandle) Valid() bool { return h.canvas != 0 }

var canvasIDs atomic.Uint64

func nextCanvasID() uint64 { return canvasIDs.Add(1) }

func checkSize(size int) error {
	if size <= 0 || size > MaxCanvasSize {
		return ErrCanvasSize
	}
	return nil
}
