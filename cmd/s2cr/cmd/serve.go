package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/s2cr/repair-desk/internal/app"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, ok := changedString(cmd.Flags(), "port"); ok {
			cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			e := a.Router(prometheus.DefaultRegisterer)

			errCh := make(chan error, 1)
			go func() {
				errCh <- e.Start(":" + cfg.Port)
			}()
			log.Info().
				Str("port", cfg.Port).
				Str("storage", cfg.Storage).
				Str("env", cfg.Env).
				Msg("server started")

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		})
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Listen port (env: PORT)")
}
