package cover

import (
	"errors"
	"strings"

	"github.com/rook-computer/dyncover/internal/render"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Ellipsis takes the last title row when words were dropped.
const Ellipsis = "..."

// DrawStatus tells what happened to one piece of text or the background.
type DrawStatus int

const (
	Drawn DrawStatus = iota
	SkippedEmpty
	SkippedNoColor
	SkippedNoFont
	Failed
)

func (s DrawStatus) String() string {
	switch s {
	case Drawn:
		return "drawn"
	case SkippedEmpty:
		return "skipped: empty"
	case SkippedNoColor:
		return "skipped: no color"
	case SkippedNoFont:
		return "skipped: no font"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// TextDraw records one DrawText call.
type TextDraw struct {
	Text     string
	X, Y     int
	Size     int
	Align    Align
	Width    int
	Outlined bool
	Status   DrawStatus
}

// TitleLayout is the result of wrapping a title.
type TitleLayout struct {
	Lines     []string
	Truncated bool
}

// WrapTitle greedily wraps title, split on single spaces, into lines no
// wider than wrapWidth according to measure. A word that overflows the
// current line starts the next one; a single word wider than wrapWidth
// gets a line of its own. If the title needs more than maxLines lines,
// only the first maxLines-1 are kept and Truncated is set, leaving the
// last row for the ellipsis.
func WrapTitle(title string, measure func(string) int, wrapWidth, maxLines int) TitleLayout {
	var lines []string
	line := ""
	for _, word := range strings.Split(title, " ") {
		next := word
		if line != "" {
			next = line + " " + word
		}
		if line != "" && measure(strings.TrimRight(next, " ")) > wrapWidth {
			lines = append(lines, strings.TrimRight(line, " "))
			next = word
		}
		line = next
	}
	lines = append(lines, strings.TrimRight(line, " "))

	if len(lines) <= maxLines {
		return TitleLayout{Lines: lines}
	}
	keep := maxLines - 1
	if keep < 0 {
		keep = 0
	}
	return TitleLayout{Lines: lines[:keep], Truncated: true}
}

// FitAuthor returns the font size for the author line: one step below
// fontSize, then further down while the text is wider than wrapWidth,
// never below minFontSize.
func FitAuthor(measure func(size int) int, fontSize, minFontSize, wrapWidth int) int {
	size := fontSize
	for {
		if size > minFontSize {
			size--
		}
		if measure(size) <= wrapWidth || size <= minFontSize {
			return size
		}
	}
}

// TextLayout draws title and author text onto a canvas.
type TextLayout struct {
	Canvas   render.Canvas
	Settings Settings

	// Font paths, already resolved.
	TitleFont  string
	AuthorFont string

	TitleFill    render.ColorHandle
	TitleBorder  render.ColorHandle
	AuthorFill   render.ColorHandle
	AuthorBorder render.ColorHandle

	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

// TitleDraw records the lines drawn for a title.
type TitleDraw struct {
	Lines    []TextDraw
	Ellipsis *TextDraw
}

func (l *TextLayout) measure(text, fontPath string, size int) int {
	w, err := l.Canvas.MeasureText(text, fontPath, float64(size))
	if err != nil {
		return 0
	}
	return w
}

// DrawTitle wraps the title and draws it line by line from the top
// padding down, lineHeight pixels apart.
func (l *TextLayout) DrawTitle(title string, lineHeight float64) TitleDraw {
	s := l.Settings
	wrapped := WrapTitle(title, func(text string) int {
		return l.measure(text, l.TitleFont, s.FontSize)
	}, s.WrapWidth, s.MaxLines)

	var out TitleDraw
	for n, line := range wrapped.Lines {
		y := int(float64(s.TopPadding) + lineHeight*float64(n))
		out.Lines = append(out.Lines, l.DrawText(line, y, l.TitleFont, s.FontSize, l.TitleFill, l.TitleBorder, ""))
	}
	if wrapped.Truncated {
		y := int(float64(s.TopPadding) + lineHeight*float64(len(wrapped.Lines)))
		d := l.DrawText(Ellipsis, y, l.TitleFont, s.FontSize+1, l.TitleFill, l.TitleBorder, "")
		out.Ellipsis = &d
	}
	return out
}

// DrawAuthor shrinks the author text to fit and draws it above the bottom
// padding. Text still wider than the canvas is left aligned.
func (l *TextLayout) DrawAuthor(author string) TextDraw {
	s := l.Settings
	size := FitAuthor(func(size int) int {
		return l.measure(author, l.AuthorFont, size)
	}, s.FontSize, s.MinFontSize, s.WrapWidth)

	var align Align
	if l.measure(author, l.AuthorFont, size) > s.Size {
		align = AlignLeft
	}
	return l.DrawText(author, s.Size-s.BottomPadding, l.AuthorFont, size, l.AuthorFill, l.AuthorBorder, align)
}

// DrawText draws text with its baseline at y. An empty align means the
// configured alignment; text wider than the canvas is always left
// aligned. With a valid border color the text is first drawn offset one
// pixel up, down, left and right in that color, giving an outline. The
// outline is drawn even when the fill color is missing; the status is then
// SkippedNoColor with Outlined set.
func (l *TextLayout) DrawText(text string, y int, fontPath string, size int, fill, border render.ColorHandle, align Align) TextDraw {
	d := TextDraw{Text: text, Y: y, Size: size}
	if text == "" {
		d.Status = SkippedEmpty
		return d
	}
	if !fill.Valid() && !border.Valid() {
		d.Status = SkippedNoColor
		return d
	}
	width, err := l.Canvas.MeasureText(text, fontPath, float64(size))
	if err != nil {
		d.Status = l.failure(text, err)
		return d
	}
	d.Width = width

	canvasSize := l.Canvas.Size()
	if width > canvasSize {
		align = AlignLeft
	}
	if align == "" {
		align = l.Settings.TextAlign
	}
	d.Align = align
	switch align {
	case AlignCenter:
		d.X = (canvasSize - width) / 2
	case AlignRight:
		d.X = canvasSize - width
	}

	if border.Valid() {
		offsets := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
		for _, off := range offsets {
			if err := l.Canvas.DrawText(text, d.X+off[0], y+off[1], fontPath, float64(size), border); err != nil {
				d.Status = l.failure(text, err)
				return d
			}
		}
		d.Outlined = true
	}
	if !fill.Valid() {
		d.Status = SkippedNoColor
		return d
	}
	if err := l.Canvas.DrawText(text, d.X, y, fontPath, float64(size), fill); err != nil {
		d.Status = l.failure(text, err)
		return d
	}
	d.Status = Drawn
	return d
}

func (l *TextLayout) failure(text string, err error) DrawStatus {
	if errors.Is(err, render.ErrNoFont) {
		return SkippedNoFont
	}
	if l.Logger != nil {
		l.Logger.Errorf("text", "draw %q: %v", text, err)
	}
	return Failed
}
