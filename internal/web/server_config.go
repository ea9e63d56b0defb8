package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "DYNCOVER_LISTEN"
	EnvDevMode    = "DYNCOVER_DEV"
	EnvThemesDir  = "DYNCOVER_THEMES"
	EnvTheme      = "DYNCOVER_THEME"
)

// ServerConfig contains settings for running the HTTP server.
//
// ThemesDir and Theme select where fonts are looked up; with both empty
// only the built-in fonts are available.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
	ThemesDir  string
	Theme      string
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{
		ListenAddr: listenAddr,
		DevMode:    devMode,
		ThemesDir:  os.Getenv(EnvThemesDir),
		Theme:      os.Getenv(EnvTheme),
	}, nil
}
