package app

import (
	"context"
	"net/http"
	"studio-service/internal/audit"
	"studio-service/internal/config"
	studiohttp "studio-service/internal/http"
)

const serverAddrPrefix = ":"

// App is the running studio service.
type App struct {
	config   *config.Config
	backends *Backends
	audit    *audit.Logger
	server   *studiohttp.Server
}

// Start blocks serving HTTP until Shutdown is called.
func (a *App) Start() error {
	return a.server.Start(serverAddrPrefix + a.config.Server.Port)
}

// Shutdown stops accepting requests, flushes pending audit writes and closes
// the backends.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.audit.Wait()
	a.backends.Close()
	return err
}

func (a *App) Handler() http.Handler {
	return a.server.Handler()
}
