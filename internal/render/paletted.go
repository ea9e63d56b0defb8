package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/rook-computer/dyncover/internal/render/layout"
)

// PalettedCanvas is a palette-based canvas backed by image.Paletted.
// Pixels start at palette index 0, so the first allocated color is the
// background. Glyphs are rasterized with freetype and snapped to the
// nearest palette entry.
type PalettedCanvas struct {
	id    uint64
	img   *image.Paletted
	fonts *FontCache
	faces map[faceKey]font.Face
	ft    *freetype.Context

	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

// maxFaces bounds the faces a canvas keeps. Faces are only used for
// measuring, so each holds a single glyph mask.
const maxFaces = 8

type faceKey struct {
	path string
	size float64
}

// NewPalettedCanvas allocates a size x size canvas with an empty palette.
func NewPalettedCanvas(size int, fonts *FontCache) (*PalettedCanvas, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if fonts == nil {
		fonts = NewFontCache(nil)
	}
	img := image.NewPaletted(image.Rect(0, 0, size, size), make(color.Palette, 0, MaxColors))
	return &PalettedCanvas{
		id:    nextCanvasID(),
		img:   img,
		fonts: fonts,
		faces: make(map[faceKey]font.Face),
	}, nil
}

// NewPalettedFactory returns a Factory producing canvases that share fonts.
func NewPalettedFactory(fonts *FontCache) Factory {
	if fonts == nil {
		fonts = NewFontCache(nil)
	}
	return func(size int) (Canvas, error) {
		return NewPalettedCanvas(size, fonts)
	}
}

func (c *PalettedCanvas) Size() int {
	if c.img == nil {
		return 0
	}
	return c.img.Bounds().Dx()
}

// Palette returns a copy of the allocated colors in index order.
func (c *PalettedCanvas) Palette() color.Palette {
	if c.img == nil {
		return nil
	}
	return append(color.Palette(nil), c.img.Palette...)
}

func (c *PalettedCanvas) Allocate(rgb color.RGBA) (ColorHandle, error) {
	if c.img == nil {
		return ColorHandle{}, ErrClosed
	}
	rgb.A = 0xFF
	for i, existing := range c.img.Palette {
		if existing == rgb {
			return ColorHandle{canvas: c.id, index: i}, nil
		}
	}
	if len(c.img.Palette) >= MaxColors {
		return ColorHandle{}, ErrPaletteFull
	}
	c.img.Palette = append(c.img.Palette, rgb)
	return ColorHandle{canvas: c.id, index: len(c.img.Palette) - 1}, nil
}

func (c *PalettedCanvas) color(h ColorHandle) (color.Color, error) {
	if c.img == nil {
		return nil, ErrClosed
	}
	if h.canvas != c.id || h.index < 0 || h.index >= len(c.img.Palette) {
		return nil, ErrForeignColor
	}
	return c.img.Palette[h.index], nil
}

func (c *PalettedCanvas) FillRect(rect image.Rectangle, h ColorHandle) error {
	fill, err := c.color(h)
	if err != nil {
		return err
	}
	rect = layout.Clip(rect, c.img.Bounds())
	if rect.Empty() {
		return nil
	}
	xdraw.Draw(c.img, rect, image.NewUniform(fill), image.Point{}, xdraw.Src)
	return nil
}

func (c *PalettedCanvas) face(path string, size float64) (font.Face, *truetype.Font, error) {
	if c.img == nil {
		return nil, nil, ErrClosed
	}
	f, err := c.fonts.Font(path)
	if err != nil {
		return nil, nil, err
	}
	key := faceKey{path: path, size: size}
	if face, ok := c.faces[key]; ok {
		return face, f, nil
	}
	if len(c.faces) >= maxFaces {
		c.dropFaces()
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: DPI, Hinting: font.HintingFull, GlyphCacheEntries: 1})
	c.faces[key] = face
	return face, f, nil
}

func (c *PalettedCanvas) dropFaces() {
	for key, face := range c.faces {
		_ = face.Close()
		delete(c.faces, key)
	}
}

func (c *PalettedCanvas) MeasureText(text, fontPath string, size float64) (int, error) {
	face, _, err := c.face(fontPath, size)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	bounds, _ := font.BoundString(face, text)
	return (bounds.Max.X - bounds.Min.X).Ceil(), nil
}

func (c *PalettedCanvas) DrawText(text string, x, y int, fontPath string, size float64, h ColorHandle) error {
	fill, err := c.color(h)
	if err != nil {
		return err
	}
	_, f, err := c.face(fontPath, size)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	if c.ft == nil {
		c.ft = freetype.NewContext()
		c.ft.SetDPI(DPI)
		c.ft.SetClip(c.img.Bounds())
		c.ft.SetDst(c.img)
		c.ft.SetHinting(font.HintingFull)
	}
	c.ft.SetFont(f)
	c.ft.SetFontSize(size)
	c.ft.SetSrc(image.NewUniform(fill))
	if _, err := c.ft.DrawString(text, freetype.Pt(x, y)); err != nil {
		if c.Logger != nil {
			c.Logger.Errorf("canvas", "draw %q failed: %v", text, err)
		}
		return err
	}
	return nil
}

// Encode writes the canvas as a palette PNG. A canvas without any
// allocated color is written as a single black entry.
func (c *PalettedCanvas) Encode(w io.Writer) error {
	if c.img == nil {
		return ErrClosed
	}
	if len(c.img.Palette) == 0 {
		c.img.Palette = append(c.img.Palette, color.RGBA{A: 0xFF})
	}
	return png.Encode(w, c.img)
}

// Close releases the pixel buffer and faces. It is safe to call twice.
func (c *PalettedCanvas) Close() error {
	c.dropFaces()
	c.faces = nil
	c.img = nil
	c.ft = nil
	return nil
}
