package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reachly/reachly/internal/api"
	"github.com/reachly/reachly/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m := metrics.New()

	runner := api.NewRunner(a.controller, func(st *api.RunState) {
		if st.Result == nil {
			return
		}
		outcomes := map[string]int{}
		for _, r := range st.Result.Results {
			outcomes[string(r.Outcome)]++
		}
		m.ObserveRun(string(st.Request.Mode), string(st.Result.Status), outcomes)
	})

	srv := api.NewServer(runner, a.controller, a.store, a.log, m, a.cfg, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector(m, a.controller, a.log, 30*time.Second, a.logger)
	collector.Start(ctx)
	defer collector.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down...")
		runner.Cancel()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
