//go:build imagick

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/gographics/imagick/imagick"

	"github.com/rook-computer/dyncover/internal/render/layout"
)

// NewFactory returns the canvas factory for this build: ImageMagick wands.
// Fonts are handed to ImageMagick by path, so the FontCache is only used
// to reject unloadable fonts early.
func NewFactory(fonts *FontCache) Factory {
	if fonts == nil {
		fonts = NewFontCache(nil)
	}
	return func(size int) (Canvas, error) {
		return NewMagickCanvas(size, fonts)
	}
}

// MagickCanvas implements Canvas on top of an ImageMagick wand.
type MagickCanvas struct {
	id      uint64
	size    int
	fonts   *FontCache
	mw      *imagick.MagickWand
	palette []color.RGBA
}

func NewMagickCanvas(size int, fonts *FontCache) (*MagickCanvas, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	imagick.Initialize()

	mw := imagick.NewMagickWand()
	bg := imagick.NewPixelWand()
	defer bg.Destroy()
	bg.SetColor("none")
	if err := mw.NewImage(uint(size), uint(size), bg); err != nil {
		mw.Destroy()
		imagick.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrCanvasSize, err)
	}
	return &MagickCanvas{id: nextCanvasID(), size: size, fonts: fonts, mw: mw}, nil
}

func (c *MagickCanvas) Size() int { return c.size }

func (c *MagickCanvas) Allocate(rgb color.RGBA) (ColorHandle, error) {
	if c.mw == nil {
		return ColorHandle{}, ErrClosed
	}
	rgb.A = 0xFF
	for i, existing := range c.palette {
		if existing == rgb {
			return ColorHandle{canvas: c.id, index: i}, nil
		}
	}
	if len(c.palette) >= MaxColors {
		return ColorHandle{}, ErrPaletteFull
	}
	c.palette = append(c.palette, rgb)
	h := ColorHandle{canvas: c.id, index: len(c.palette) - 1}
	if h.index == 0 {
		// The first color is the background, as on a palette canvas.
		if err := c.FillRect(image.Rect(0, 0, c.size, c.size), h); err != nil {
			return ColorHandle{}, err
		}
	}
	return h, nil
}

func (c *MagickCanvas) pixel(h ColorHandle) (*imagick.PixelWand, error) {
	if c.mw == nil {
		return nil, ErrClosed
	}
	if h.canvas != c.id || h.index < 0 || h.index >= len(c.palette) {
		return nil, ErrForeignColor
	}
	rgb := c.palette[h.index]
	pw := imagick.NewPixelWand()
	pw.SetColor(fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B))
	return pw, nil
}

func (c *MagickCanvas) FillRect(rect image.Rectangle, h ColorHandle) error {
	pw, err := c.pixel(h)
	if err != nil {
		return err
	}
	defer pw.Destroy()
	rect = layout.Clip(rect, layout.Square(c.size))
	if rect.Empty() {
		return nil
	}
	dw := imagick.NewDrawingWand()
	defer dw.Destroy()
	dw.SetFillColor(pw)
	dw.Rectangle(float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Max.X-1), float64(rect.Max.Y-1))
	return c.mw.DrawImage(dw)
}

func (c *MagickCanvas) textWand(fontPath string, size float64) (*imagick.DrawingWand, error) {
	if c.mw == nil {
		return nil, ErrClosed
	}
	if _, err := c.fonts.Font(fontPath); err != nil {
		return nil, err
	}
	if _, err := os.Stat(fontPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFont, err)
	}
	dw := imagick.NewDrawingWand()
	if err := dw.SetFont(fontPath); err != nil {
		dw.Destroy()
		return nil, fmt.Errorf("%w: %v", ErrNoFont, err)
	}
	dw.SetFontSize(size * DPI / 72)
	return dw, nil
}

func (c *MagickCanvas) MeasureText(text, fontPath string, size float64) (int, error) {
	dw, err := c.textWand(fontPath, size)
	if err != nil {
		return 0, err
	}
	defer dw.Destroy()
	if text == "" {
		return 0, nil
	}
	metrics := c.mw.QueryFontMetrics(dw, text)
	if metrics == nil {
		return 0, nil
	}
	return int(metrics.TextWidth + 0.5), nil
}

func (c *MagickCanvas) DrawText(text string, x, y int, fontPath string, size float64, h ColorHandle) error {
	pw, err := c.pixel(h)
	if err != nil {
		return err
	}
	defer pw.Destroy()
	dw, err := c.textWand(fontPath, size)
	if err != nil {
		return err
	}
	defer dw.Destroy()
	if text == "" {
		return nil
	}
	dw.SetFillColor(pw)
	return c.mw.AnnotateImage(dw, float64(x), float64(y), 0, text)
}

// Encode writes the canvas as PNG. A canvas without any allocated color
// is painted black first, matching the palette canvas.
func (c *MagickCanvas) Encode(w io.Writer) error {
	if c.mw == nil {
		return ErrClosed
	}
	if len(c.palette) == 0 {
		if _, err := c.Allocate(color.RGBA{A: 0xFF}); err != nil {
			return err
		}
	}
	if err := c.mw.SetImageFormat("png"); err != nil {
		return err
	}
	_, err := io.Copy(w, bytes.NewReader(c.mw.GetImageBlob()))
	return err
}

func (c *MagickCanvas) Close() error {
	if c.mw == nil {
		return nil
	}
	c.mw.Destroy()
	c.mw = nil
	imagick.Terminate()
	return nil
}
