package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/rook-computer/dyncover/internal/app"
	"github.com/rook-computer/dyncover/internal/cover"
	"github.com/rook-computer/dyncover/internal/state"
	"github.com/rook-computer/dyncover/internal/theme"
	"github.com/rook-computer/dyncover/internal/web"
)

const envStdioLog = "DYNCOVER_STDIO_LOG"

// settingFlags collects repeated -set key=value flags.
type settingFlags map[string]string

func (s settingFlags) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+s[k])
	}
	return strings.Join(parts, ",")
}

func (s settingFlags) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", raw)
	}
	if !cover.IsKey(key) {
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(cover.Keys(), ", "))
	}
	s[key] = value
	return nil
}

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	overrides := settingFlags{}
	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode (permissive CORS); also configurable via "+web.EnvDevMode)
	themesDir := flag.String("themes", defaults.ThemesDir, "directory holding theme folders; also configurable via "+web.EnvThemesDir)
	themeName := flag.String("theme", defaults.Theme, "theme whose css/font directory supplies fonts; also configurable via "+web.EnvTheme)
	title := flag.String("title", "", "title to render (one-shot mode)")
	author := flag.String("author", "", "author to render (one-shot mode)")
	callNumber := flag.String("callnumber", "", "call number used as seed (one-shot mode)")
	out := flag.String("out", "", "write a single cover to this file (or - for stdout) instead of serving")
	flag.Var(overrides, "set", "override a cover setting, key=value (repeatable)")
	debug := flag.Bool("debug", false, "enable debug logging to ./dyncover-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+envStdioLog)
	flag.Parse()

	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv(envStdioLog)
	}
	if logPath != "" {
		if err := redirectStdIO(logPath, *out == "-"); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./dyncover-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	settings, err := cover.DefaultSettings().ApplyOverrides(overrides)
	if err == nil {
		err = settings.Validate()
	}
	if err != nil {
		fmt.Println("settings error:", err)
		os.Exit(2)
	}

	fonts := theme.NewResolver(*themesDir, *themeName)
	fonts.Logger = logger
	if _, err := fonts.Chain(); err != nil {
		fmt.Println("theme error:", err)
		os.Exit(2)
	}

	if *out != "" {
		if err := renderOnce(settings, fonts, logger, cover.Item{Title: *title, Author: *author, CallNumber: *callNumber}, *out); err != nil {
			fmt.Fprintln(os.Stderr, "render error:", err)
			os.Exit(1)
		}
		return
	}

	store := state.NewStore()
	cfg := web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode, ThemesDir: *themesDir, Theme: *themeName}
	server := web.NewHTTPServer(cfg)
	server.Logger = logger
	server.Handler = web.NewDefaultMux(web.APIV1Config{Deps: web.NewAPIV1Deps(cfg, settings, store, logger)})

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(store, server)
	a.Logger = logger
	fmt.Println("dyncover listening on", cfg.ListenAddr)
	if err := a.Start(processCtx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
}

func renderOnce(settings cover.Settings, fonts *theme.Resolver, logger app.Logger, item cover.Item, path string) error {
	gen, err := cover.NewGenerator(settings, fonts, nil)
	if err != nil {
		return err
	}
	gen.Logger = logger
	res, err := app.RenderToFile(gen, item, path, os.Stdout)
	if err != nil {
		return err
	}
	rep := res.Report
	fmt.Fprintf(os.Stderr, "seed=%d mode=%s pattern=%s background=%s\n", res.Seed, res.Mode, res.Pattern, rep.Background)
	for _, line := range rep.Title {
		fmt.Fprintf(os.Stderr, "title %q: %s\n", line.Text, line.Status)
	}
	if rep.Author != nil {
		fmt.Fprintf(os.Stderr, "author %q (size %d): %s\n", rep.Author.Text, rep.Author.Size, rep.Author.Status)
	}
	if len(rep.Unresolved) > 0 {
		fmt.Fprintf(os.Stderr, "unresolved colors: %s\n", strings.Join(rep.Unresolved, ", "))
	}
	return nil
}
