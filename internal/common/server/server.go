package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/AlibekovAA/memorize-api/internal/common/constants"
	"github.com/AlibekovAA/memorize-api/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

// Run listens on server.Addr and serves until ctx is cancelled, then shuts
// down gracefully.
func Run(ctx context.Context, server *http.Server, log *logger.Logger, hooks ...ShutdownHook) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
	}
	return Serve(ctx, server, ln, log, hooks...)
}

// Serve is Run on an existing listener. Hooks run with the drain deadline
// before in-flight requests are waited for.
func Serve(ctx context.Context, server *http.Server, ln net.Listener, log *logger.Logger, hooks ...ShutdownHook) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Infof("%s listening on %s", constants.AppName, ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down %s...", constants.AppName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	drainCtx, drainCancel := context.WithTimeout(shutdownCtx, constants.DrainTimeout)
	defer drainCancel()

	log.Infof("%s: stopping accepting new connections (drain period: %v)", constants.AppName, constants.DrainTimeout)
	server.SetKeepAlivesEnabled(false)

	for i, hook := range hooks {
		if err := hook(drainCtx); err != nil {
			log.Errorf("%s: shutdown hook %d failed: %v", constants.AppName, i, err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("%s forced to shutdown: %v", constants.AppName, err)
		return err
	}

	log.Infof("%s stopped gracefully", constants.AppName)
	return nil
}
