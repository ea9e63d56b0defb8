package assets

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// BuiltinPrefix marks font paths that are served from memory instead of disk.
const BuiltinPrefix = "builtin:"

// DefaultFont stands in for fonts that no theme provides.
const DefaultFont = "GoBold.ttf"

// Fonts are the TrueType fonts compiled into the binary, keyed by file name.
var Fonts = map[string][]byte{
	"GoRegular.ttf":   goregular.TTF,
	"GoBold.ttf":      gobold.TTF,
	"GoMono.ttf":      gomono.TTF,
	"GoMono-Bold.ttf": gomonobold.TTF,
}

// BuiltinPath returns the path under which a built-in font is addressed,
// or false if there is no built-in font with that name.
func BuiltinPath(name string) (string, bool) {
	if _, ok := Fonts[name]; !ok {
		return "", false
	}
	return BuiltinPrefix + name, true
}

// FontNames lists the built-in font names in sorted order.
func FontNames() []string {
	names := make([]string, 0, len(Fonts))
	for name := range Fonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadFont loads a font either from the built-in set or from disk.
func ReadFont(path string) ([]byte, error) {
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		data, found := Fonts[name]
		if !found {
			return nil, os.ErrNotExist
		}
		return data, nil
	}
	return os.ReadFile(path)
}
