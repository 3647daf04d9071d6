package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"industriguard/internal/bootstrap"
	"industriguard/internal/bootstrap/logging"
	"industriguard/internal/errs"
	"industriguard/internal/httpserver"
)

var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create or migrate the violation and alert tables",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *httpserver.Server) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "init schema")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "schema ready dsn=%s\n", app.Config.Database.DSN); err != nil {
			return errs.Wrap(err, "write init-db output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
