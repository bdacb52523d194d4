package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-api/internal/app"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/infrastructure/worker"
)

// jobCmd corre una vez una de las tareas periódicas de la API, para todas las empresas.
func jobCmd() *cobra.Command {
	names := []string{worker.JobInvoiceSync, worker.JobAutoReorder}
	return &cobra.Command{
		Use:       "job <nombre>",
		Short:     "Ejecuta una vez una tarea en segundo plano (" + strings.Join(names, ", ") + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, closeBackend, err := app.OpenBackend(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeBackend()

			svc := app.NewServices(backend, app.Options{
				JWT: auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
				Log: log,
			})
			scheduler := worker.NewScheduler(log)
			scheduler.Register(worker.InvoiceSyncJob(svc.Invoices, 0, log))
			scheduler.Register(worker.AutoReorderJob(svc.Purchasing, 0, log))

			if err := scheduler.RunOnce(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tarea %s completada\n", args[0])
			return nil
		},
	}
}
