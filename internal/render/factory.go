//go:build !imagick

package render

// NewFactory returns the canvas factory for this build: palette canvases
// rasterized with freetype.
func NewFactory(fonts *FontCache) Factory {
	return NewPalettedFactory(fonts)
}
