package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"industriguard/internal/bootstrap"
	"industriguard/internal/bootstrap/logging"
	"industriguard/internal/errs"
	"industriguard/internal/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard backend (REST API + websocket push)",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, server *httpserver.Server) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		// Migrate on boot so a fresh deployment serves immediately.
		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "init schema")
		}

		if err := server.Start(ctx); err != nil {
			return errs.Wrap(err, "start http server")
		}

		logging.Info(ctx, "IndustriGuard backend running",
			slog.String("host", app.Config.Server.Host),
			slog.Int("port", app.Config.Server.Port),
		)

		waitCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-waitCtx.Done()

		if err := server.Shutdown(cmd.Context()); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
