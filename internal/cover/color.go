package cover

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a resolved color triple.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// htmlColors holds the sixteen HTML 4 color names.
var htmlColors = map[string]RGB{
	"black":   {0, 0, 0},
	"silver":  {192, 192, 192},
	"gray":    {128, 128, 128},
	"white":   {255, 255, 255},
	"maroon":  {128, 0, 0},
	"red":     {255, 0, 0},
	"purple":  {128, 0, 128},
	"fuchsia": {255, 0, 255},
	"green":   {0, 128, 0},
	"lime":    {0, 255, 0},
	"olive":   {128, 128, 0},
	"yellow":  {255, 255, 0},
	"navy":    {0, 0, 128},
	"blue":    {0, 0, 255},
	"teal":    {0, 128, 128},
	"aqua":    {0, 255, 255},
}

// ResolveColor maps an HTML 4 color name (any case) or a #RRGGBB string
// to its triple. Anything else, "none" included, reports false: the
// caller skips drawing with that color.
func ResolveColor(name string) (RGB, bool) {
	if c, ok := htmlColors[strings.ToLower(name)]; ok {
		return c, true
	}
	if !isHexColor(name) {
		return RGB{}, false
	}
	c, err := colorful.Hex(name)
	if err != nil {
		return RGB{}, false
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, true
}

// NoColor is the color name that deliberately turns a color off.
const NoColor = "none"

// IsNoColor reports whether name is NoColor, in any case.
func IsNoColor(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), NoColor)
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
