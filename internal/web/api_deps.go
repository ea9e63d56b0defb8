package web

import (
	"github.com/rook-computer/dyncover/internal/assets"
	"github.com/rook-computer/dyncover/internal/cover"
	"github.com/rook-computer/dyncover/internal/render"
	"github.com/rook-computer/dyncover/internal/state"
	"github.com/rook-computer/dyncover/internal/theme"
)

// sysLogger matches the logging shape used across the app.
type sysLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopSysLogger struct{}

func (noopSysLogger) Infof(string, string, ...interface{})  {}
func (noopSysLogger) Errorf(string, string, ...interface{}) {}

// APIV1Deps holds what the cover endpoints render with. Requests start
// from Settings and may override any key.
type APIV1Deps struct {
	Settings cover.Settings
	Fonts    cover.FontResolver
	Factory  render.Factory
	Logger   sysLogger

	// Stats, when set, counts renders and is served at /status.
	Stats *state.Store

	// MaxBodyBytes bounds POST bodies.
	MaxBodyBytes int64
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Settings == (cover.Settings{}) {
		out.Settings = cover.DefaultSettings()
	}
	if out.Fonts == nil {
		out.Fonts = theme.NewResolver("", "")
	}
	if out.Factory == nil {
		out.Factory = render.NewFactory(render.NewFontCache(assets.ReadFont))
	}
	if out.Logger == nil {
		out.Logger = noopSysLogger{}
	}
	if out.MaxBodyBytes <= 0 {
		out.MaxBodyBytes = 64 << 10
	}
	return out
}

// NewAPIV1Deps resolves fonts from the configured theme, falling back to
// the built-in fonts.
func NewAPIV1Deps(cfg ServerConfig, settings cover.Settings, stats *state.Store, logger sysLogger) APIV1Deps {
	fonts := theme.NewResolver(cfg.ThemesDir, cfg.Theme)
	if logger != nil {
		fonts.Logger = logger
	}
	return APIV1Deps{
		Settings: settings,
		Fonts:    fonts,
		Logger:   logger,
		Stats:    stats,
	}.withDefaults()
}
