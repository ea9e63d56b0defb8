package web

import "context"

// Server is the cover service's network front end as seen by app.App:
// Start begins serving covers and returns once listening, Stop shuts it
// down. Both must be safe to call more than once.
type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

// NoopServer serves nothing. app.App falls back to it when built without
// a server.
type NoopServer struct{}

func (*NoopServer) Start(context.Context) error { return nil }
func (*NoopServer) Stop() error                 { return nil }
