package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arcanaland/cardtags/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and the search API over HTTP",
	Long: `Serve loads the catalog once in the background and exposes it over HTTP:

  GET /resources/card_tags_merged.json   the catalog object, keys in load order
  GET /api/v1/cards?q=...                 cards matching the query
  GET /api/v1/cards/{key}                 one card by catalog key
  GET /api/v1/colors                      the color alias table
  GET /api/v1/diagnostics                 records skipped or flagged at load
  GET /health, GET /ready                 liveness and readiness

The listen address comes from --addr, CARDTAGS_LISTEN_ADDR or listen_addr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, "server")
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		addr := s.cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, os.Interrupt)
		defer stop()

		srv := server.New(addr, s.matcher, s.logger)
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			cat, err := s.load(gctx)
			if err != nil {
				s.logger.Error("catalog load failed", zap.String("source", s.source), zap.Error(err))
			}
			srv.SetCatalog(cat, err)
			return nil
		})

		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			if ctx.Err() != nil {
				s.logger.Info("shutdown signal received")
			}
			s.logger.Info("shutting down server", zap.Duration("timeout", shutdownTimeout))
			return srv.Shutdown(shutdownTimeout)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		s.logger.Info("server stopped cleanly")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address, e.g. :8080")
}
