// Package theme locates assets inside a hierarchy of theme directories.
//
// A theme is a directory under the base directory. It may contain a
// theme.json file naming the theme it extends; assets missing from a theme
// are looked up in its parent, and so on up the chain.
package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rook-computer/dyncover/internal/assets"
)

// ConfigFile is the per-theme configuration file name.
const ConfigFile = "theme.json"

// FontDir is the theme-relative directory holding font files.
const FontDir = "css/font"

var (
	ErrThemeNotFound = errors.New("theme: theme not found")
	ErrExtendsCycle  = errors.New("theme: extends cycle")
)

// Config is the content of theme.json.
type Config struct {
	Extends string `json:"extends,omitempty"`
}

type Resolver struct {
	BaseDir string
	Theme   string

	// Builtin enables the fonts compiled into the binary as a last resort.
	Builtin bool
	// Fallback names the built-in font used for names found nowhere else.
	// Empty disables substitution, so text in a missing font is skipped.
	Fallback string

	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

func NewResolver(baseDir, theme string) *Resolver {
	return &Resolver{BaseDir: baseDir, Theme: theme, Builtin: true, Fallback: assets.DefaultFont}
}

// Chain returns the theme and its ancestors, child first.
func (r *Resolver) Chain() ([]string, error) {
	if r.BaseDir == "" || r.Theme == "" {
		return nil, nil
	}
	var chain []string
	seen := make(map[string]bool)
	for name := r.Theme; name != ""; {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrExtendsCycle, name)
		}
		seen[name] = true
		if !filepath.IsLocal(name) {
			return nil, fmt.Errorf("%w: invalid name %q", ErrThemeNotFound, name)
		}
		dir := filepath.Join(r.BaseDir, name)
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
		}
		chain = append(chain, name)

		cfg, err := readConfig(filepath.Join(dir, ConfigFile))
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", name, err)
		}
		name = cfg.Extends
	}
	return chain, nil
}

func readConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	return cfg, nil
}

// FindContainingTheme returns the absolute path of the first of relPaths
// found while walking the theme chain. Each theme is searched for all
// relPaths before moving on to its parent.
func (r *Resolver) FindContainingTheme(relPaths []string) (string, bool) {
	chain, err := r.Chain()
	if err != nil {
		r.errorf("resolve chain for %q: %v", r.Theme, err)
		return "", false
	}
	for _, name := range chain {
		for _, rel := range relPaths {
			if !filepath.IsLocal(filepath.FromSlash(rel)) {
				continue
			}
			candidate := filepath.Join(r.BaseDir, name, filepath.FromSlash(rel))
			st, err := os.Stat(candidate)
			if err != nil || st.IsDir() {
				continue
			}
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, true
			}
			return abs, true
		}
	}
	return "", false
}

// FontPath resolves a font file name to a loadable path.
func (r *Resolver) FontPath(name string) (string, bool) {
	if name == "" || name != path.Base(name) {
		return "", false
	}
	if p, ok := r.FindContainingTheme([]string{path.Join(FontDir, name)}); ok {
		return p, true
	}
	if r.Builtin {
		if p, ok := assets.BuiltinPath(name); ok {
			return p, true
		}
		if p, ok := assets.BuiltinPath(r.Fallback); ok {
			if r.Logger != nil {
				r.Logger.Infof("theme", "font %q not found, using %s", name, r.Fallback)
			}
			return p, true
		}
	}
	r.errorf("font %q not found in theme %q", name, r.Theme)
	return "", false
}

func (r *Resolver) errorf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Errorf("theme", format, args...)
	}
}
