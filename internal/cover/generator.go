// Package cover draws placeholder cover images for catalog items that have
// no cover art. The image is derived from the bibliographic text alone, so
// the same item always gets the same cover.
package cover

import (
	"bytes"
	"fmt"

	"github.com/rook-computer/dyncover/internal/assets"
	"github.com/rook-computer/dyncover/internal/render"
)

// FontResolver maps a font file name to a loadable path.
type FontResolver interface {
	FontPath(name string) (string, bool)
}

// Item is the bibliographic text a cover is made from. Empty fields are
// treated as absent.
type Item struct {
	Title      string
	Author     string
	CallNumber string
}

// Report lists how each part of the cover was drawn.
type Report struct {
	// Unresolved names the color settings that did not resolve to a color.
	// Settings set to "none" are not listed.
	Unresolved []string
	Background DrawStatus
	Title      []TextDraw
	Ellipsis   *TextDraw
	Author     *TextDraw
}

// Skipped returns the status of every part that was not drawn, empty
// text excluded.
func (r Report) Skipped() []string {
	var out []string
	add := func(s DrawStatus) {
		if s != Drawn && s != SkippedEmpty {
			out = append(out, s.String())
		}
	}
	add(r.Background)
	for _, line := range r.Title {
		add(line.Status)
	}
	if r.Ellipsis != nil {
		add(r.Ellipsis.Status)
	}
	if r.Author != nil {
		add(r.Author.Status)
	}
	return out
}

type Result struct {
	PNG     []byte
	Mode    string
	Seed    int64
	Pattern string
	Accent  RGB
	Report  Report
}

// Generator renders covers with fixed settings. It holds no per-call
// state and may be shared between goroutines as long as Random is safe
// for concurrent use.
type Generator struct {
	settings   Settings
	titleFont  string
	authorFont string
	newCanvas  render.Factory

	// Random supplies seeds for items without title and call number.
	// Nil uses the math/rand global source.
	Random RandomSource

	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

// NewGenerator validates settings and resolves the title and author fonts.
// A font that cannot be resolved is not an error: text in that font is
// skipped when drawing. A nil factory selects the build's default canvas.
func NewGenerator(settings Settings, fonts FontResolver, factory render.Factory) (*Generator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		factory = render.NewFactory(render.NewFontCache(assets.ReadFont))
	}
	g := &Generator{settings: settings, newCanvas: factory}
	if fonts != nil {
		g.titleFont, _ = fonts.FontPath(settings.TitleFont)
		g.authorFont, _ = fonts.FontPath(settings.AuthorFont)
	}
	return g, nil
}

func (g *Generator) Settings() Settings { return g.settings }

// Generate returns the PNG cover for the given title, author and call
// number.
func (g *Generator) Generate(title, author, callNumber string) ([]byte, error) {
	res, err := g.Render(Item{Title: title, Author: author, CallNumber: callNumber})
	if err != nil {
		return nil, err
	}
	return res.PNG, nil
}

// Render draws the cover for item. The canvas is created for this call and
// closed before returning; only a canvas or encoding failure is an error.
func (g *Generator) Render(item Item) (*Result, error) {
	s := g.settings
	canvas, err := g.newCanvas(s.Size)
	if err != nil {
		return nil, fmt.Errorf("create canvas: %w", err)
	}
	defer func() {
		if err := canvas.Close(); err != nil {
			g.errorf("close canvas: %v", err)
		}
	}()

	res := &Result{Mode: s.mode()}
	// Allocation order matters: the first color becomes the background.
	named := []struct {
		key  string
		name string
	}{
		{"baseColor", s.BaseColor},
		{"titleFillColor", s.TitleFillColor},
		{"titleBorderColor", s.TitleBorderColor},
		{"authorFillColor", s.AuthorFillColor},
		{"authorBorderColor", s.AuthorBorderColor},
	}
	handles := make(map[string]render.ColorHandle, len(named))
	for _, n := range named {
		h, ok := g.allocate(canvas, n.name)
		if !ok && !IsNoColor(n.name) {
			res.Report.Unresolved = append(res.Report.Unresolved, n.key)
		}
		handles[n.key] = h
	}

	res.Seed = DeriveSeed(item.Title, item.CallNumber, g.Random)
	accent, ok := g.accentColor(canvas, res.Seed, &res.Accent)
	if !ok && !IsNoColor(s.AccentColor) {
		res.Report.Unresolved = append(res.Report.Unresolved, "accentColor")
	}

	half := float64(s.Size) / 2
	box := float64(s.Size) / 8
	switch res.Mode {
	case ModeSolid:
		res.Report.Background = g.paint(accent, func() error {
			return RenderSolid(canvas, accent)
		})
	default:
		res.Pattern = MakePattern(res.Seed)
		res.Report.Background = g.paint(accent, func() error {
			return RenderGrid(canvas, res.Pattern, accent, half, box)
		})
	}

	text := &TextLayout{
		Canvas:       canvas,
		Settings:     s,
		TitleFont:    g.titleFont,
		AuthorFont:   g.authorFont,
		TitleFill:    handles["titleFillColor"],
		TitleBorder:  handles["titleBorderColor"],
		AuthorFill:   handles["authorFillColor"],
		AuthorBorder: handles["authorBorderColor"],
		Logger:       g.Logger,
	}
	if item.Title != "" {
		title := text.DrawTitle(item.Title, box)
		res.Report.Title = title.Lines
		res.Report.Ellipsis = title.Ellipsis
	}
	if item.Author != "" {
		author := text.DrawAuthor(item.Author)
		res.Report.Author = &author
	}

	var buf bytes.Buffer
	if err := canvas.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	res.PNG = buf.Bytes()
	if g.Logger != nil {
		g.Logger.Infof("cover", "rendered %s cover, seed=%d, %d bytes", res.Mode, res.Seed, len(res.PNG))
	}
	return res, nil
}

// allocate resolves a color name and registers it on the canvas. A name
// that does not resolve, or a full palette, yields an invalid handle.
func (g *Generator) allocate(canvas render.Canvas, name string) (render.ColorHandle, bool) {
	rgb, ok := ResolveColor(name)
	if !ok {
		return render.ColorHandle{}, false
	}
	return g.allocateRGB(canvas, rgb)
}

func (g *Generator) allocateRGB(canvas render.Canvas, rgb RGB) (render.ColorHandle, bool) {
	h, err := canvas.Allocate(rgb.RGBA())
	if err != nil {
		g.errorf("allocate %v: %v", rgb, err)
		return render.ColorHandle{}, false
	}
	return h, true
}

func (g *Generator) accentColor(canvas render.Canvas, seed int64, out *RGB) (render.ColorHandle, bool) {
	s := g.settings
	if s.AccentColor == RandomAccent {
		*out = HSBToRGB(int(seed%256), s.Saturation, s.Lightness)
		return g.allocateRGB(canvas, *out)
	}
	rgb, ok := ResolveColor(s.AccentColor)
	if !ok {
		return render.ColorHandle{}, false
	}
	*out = rgb
	return g.allocateRGB(canvas, rgb)
}

func (g *Generator) paint(c render.ColorHandle, fn func() error) DrawStatus {
	if !c.Valid() {
		return SkippedNoColor
	}
	if err := fn(); err != nil {
		g.errorf("paint background: %v", err)
		return Failed
	}
	return Drawn
}

func (g *Generator) errorf(format string, args ...interface{}) {
	if g.Logger != nil {
		g.Logger.Errorf("cover", format, args...)
	}
}
