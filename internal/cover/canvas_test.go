package cover

import (
	"errors"
	"image"
	"io"
	"testing"

	"github.com/rook-computer/dyncover/internal/render"
)

type textCall struct {
	text string
	x, y int
	size float64
	c    render.ColorHandle
}

// recordingCanvas keeps palette handling of a real canvas but replaces
// text metrics with len(text)*size and records every drawing call.
type recordingCanvas struct {
	*render.PalettedCanvas
	fills  []image.Rectangle
	texts  []textCall
	noFont bool
	closed int
	encErr error
}

func newRecordingCanvas(t *testing.T, size int) *recordingCanvas {
	t.Helper()
	pc, err := render.NewPalettedCanvas(size, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &recordingCanvas{PalettedCanvas: pc}
}

func (c *recordingCanvas) FillRect(rect image.Rectangle, h render.ColorHandle) error {
	if err := c.PalettedCanvas.FillRect(rect, h); err != nil {
		return err
	}
	c.fills = append(c.fills, rect)
	return nil
}

func (c *recordingCanvas) MeasureText(text, fontPath string, size float64) (int, error) {
	if c.noFont || fontPath == "" {
		return 0, render.ErrNoFont
	}
	return len(text) * int(size), nil
}

func (c *recordingCanvas) DrawText(text string, x, y int, fontPath string, size float64, h render.ColorHandle) error {
	if c.noFont || fontPath == "" {
		return render.ErrNoFont
	}
	c.texts = append(c.texts, textCall{text: text, x: x, y: y, size: size, c: h})
	return nil
}

func (c *recordingCanvas) Encode(w io.Writer) error {
	if c.encErr != nil {
		return c.encErr
	}
	return c.PalettedCanvas.Encode(w)
}

func (c *recordingCanvas) Close() error {
	c.closed++
	return c.PalettedCanvas.Close()
}

// factoryFor returns a factory handing out canvas once.
func factoryFor(canvas *recordingCanvas) render.Factory {
	return func(size int) (render.Canvas, error) {
		if canvas == nil {
			return nil, errors.New("no canvas")
		}
		return canvas, nil
	}
}

type staticFonts map[string]string

func (f staticFonts) FontPath(name string) (string, bool) {
	p, ok := f[name]
	return p, ok
}

// anyFont resolves every font name to the built-in Go Bold.
type anyFont struct{}

func (anyFont) FontPath(string) (string, bool) { return "builtin:GoBold.ttf", true }

type fixedRandom int64

func (r fixedRandom) Int63n(n int64) int64 {
	if int64(r) >= n {
		return n - 1
	}
	return int64(r)
}
