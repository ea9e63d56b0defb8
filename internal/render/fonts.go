package render

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
)

// FontLoader returns the raw bytes of the font at path.
type FontLoader func(path string) ([]byte, error)

// FontCache parses each font file once and shares the result between
// canvases. Parsed fonts are read-only; faces are created per canvas.
type FontCache struct {
	load FontLoader

	mu     sync.Mutex
	fonts  map[string]*truetype.Font
	failed map[string]error
}

func NewFontCache(load FontLoader) *FontCache {
	if load == nil {
		load = os.ReadFile
	}
	return &FontCache{
		load:   load,
		fonts:  make(map[string]*truetype.Font),
		failed: make(map[string]error),
	}
}

// Font returns the parsed font at path. Any failure is reported as
// ErrNoFont wrapping the cause; failures are remembered.
func (c *FontCache) Font(path string) (*truetype.Font, error) {
	if path == "" {
		return nil, ErrNoFont
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.fonts[path]; ok {
		return f, nil
	}
	if err, ok := c.failed[path]; ok {
		return nil, err
	}

	data, err := c.load(path)
	if err != nil {
		err = fmt.Errorf("%w: load %s: %v", ErrNoFont, path, err)
		c.failed[path] = err
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		err = fmt.Errorf("%w: parse %s: %v", ErrNoFont, path, err)
		c.failed[path] = err
		return nil, err
	}
	c.fonts[path] = f
	return f, nil
}
