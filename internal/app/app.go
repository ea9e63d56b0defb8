package app

import (
	"context"
	"sync/atomic"

	"github.com/rook-computer/dyncover/internal/state"
	"github.com/rook-computer/dyncover/internal/web"
)

// App runs the cover service until its context ends or Exit is called.
type App struct {
	Store  *state.Store
	Web    web.Server
	Logger Logger

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, webServer web.Server) *App {
	return &App{Store: store, Web: webServer, Logger: NoopLogger{}, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start serves until ctx is done or Exit is called and returns the reason.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Store == nil {
		app.Store = state.NewStore()
	}
	app.exitOnce.Store(false)

	if app.Web == nil {
		app.Web = &web.NoopServer{}
	}
	if err := app.Web.Start(ctx); err != nil {
		app.Logger.Errorf("app", "web server start error: %v", err)
		return err
	}
	defer func() {
		if err := app.Web.Stop(); err != nil {
			app.Logger.Errorf("app", "web server stop error: %v", err)
		}
	}()
	app.Store.SetPhase(state.READY)
	app.Logger.Infof("app", "started")

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	app.Store.SetPhase(state.STOPPING)
	app.Logger.Infof("app", "stopping: %v", err)
	return err
}

func (app *App) Stop() error {
	app.Exit(nil)
	return nil
}
