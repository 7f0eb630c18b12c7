package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tomasvidal/trackseek/internal/server"
)

// Serve runs the resolution HTTP API until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	var store server.ResolutionStore
	if resolutions, _, err := r.openStore(); err == nil {
		store = resolutions
	} else {
		r.logger.Warn("persistence unavailable, resolutions endpoint disabled", "error", err)
	}

	api := server.NewAPI(r.resolver, store, r.logger)
	srv := server.New(r.config.Server, api, r.logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	r.logger.Info("starting resolution API", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
