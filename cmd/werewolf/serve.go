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

	"github.com/lorenzotomasdiez/werewolf/internal/game"
	"github.com/lorenzotomasdiez/werewolf/internal/server"
	"github.com/lorenzotomasdiez/werewolf/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve game sessions over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides WEREWOLF_ADDR)")
	cmd.Flags().Duration("session-ttl", 2*time.Hour, "Drop sessions older than this")
	return cmd
}

// builder creates sessions for the HTTP server, filling zero values from
// the configuration.
func (a *app) builder() server.Builder {
	return func(ctx context.Context, req server.CreateRequest) (*game.Engine, error) {
		if req.Players == 0 {
			req.Players = a.cfg.Players
		}
		if req.Wolves == 0 {
			req.Wolves = a.cfg.Wolves
		}
		return a.newEngine(ctx, req.Name, req.Players, req.Wolves, req.Seed)
	}
}

func (a *app) runServe(cmd *cobra.Command) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.Addr
	}
	ttl, _ := cmd.Flags().GetDuration("session-ttl")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.NewMemory()
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(st, a.builder(), a.log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go a.prune(ctx, st, ttl)

	errc := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Str("provider", a.cfg.Provider).Msg("serving")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// prune drops expired sessions until ctx is done.
func (a *app) prune(ctx context.Context, st *store.Memory, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	tick := time.NewTicker(min(ttl, time.Minute))
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			if n := st.Prune(now.Add(-ttl)); n > 0 {
				a.log.Info().Int("sessions", n).Msg("pruned expired sessions")
			}
		}
	}
}
