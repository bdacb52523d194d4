// Package commands implementa posctl, la CLI de operación del punto de venta.
package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

var (
	cfg      *config.Config
	log      zerolog.Logger
	logLevel string
)

// Execute arma el árbol de comandos y lo ejecuta. Ctrl+C cancela el comando en curso.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Operación del punto de venta: migraciones, datos de demostración y reorden",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			level := logLevel
			if level == "" {
				level = cfg.App.LogLevel
			}
			log = logger.New(logger.Config{Env: "development", Level: level, Output: cmd.ErrOrStderr()}).Zerolog()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "nivel de log (default LOG_LEVEL)")

	root.AddCommand(migrateCmd(), seedCmd(), reorderCmd(), jobCmd(), permissionsCmd(), scanCmd())
	return root
}
