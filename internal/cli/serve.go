package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/switchyard/pkg/adapters/http"
	"github.com/aretw0/switchyard/pkg/adapters/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// shutdownGrace bounds how long in-flight requests may finish after a signal.
const shutdownGrace = 5 * time.Second

// Handler returns the introspection API, with /metrics on the app registry.
func (a *App) Handler(version string) (http.Handler, error) {
	flows, err := a.Onboarding.Flows()
	if err != nil {
		return nil, err
	}
	return httpadapter.NewHandler(
		httpadapter.WithFlows(flows),
		httpadapter.WithResolver(a.Resolver),
		httpadapter.WithProjects(a.Sessions.Store()),
		httpadapter.WithMetrics(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})),
		httpadapter.WithVersion(version),
		httpadapter.WithLogger(a.Logger),
	), nil
}

// Serve runs the introspection API on addr until ctx is done, then drains it.
func (a *App) Serve(ctx context.Context, addr, version string) error {
	handler, err := a.Handler(version)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", "address", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.Logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownGrace, err)
		}
		return nil
	}
}

// MCPServer exposes flows, version resolution and loader listings to MCP clients.
func (a *App) MCPServer(version string) (*mcp.Server, error) {
	flows, err := a.Onboarding.Flows()
	if err != nil {
		return nil, err
	}
	return mcp.NewServer(version,
		mcp.WithFlows(flows),
		mcp.WithResolver(a.Resolver),
		mcp.WithLoaderCatalogs(a.LoaderCatalogs()),
		mcp.WithLogger(a.Logger),
	), nil
}
