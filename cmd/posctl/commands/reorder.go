package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-api/internal/app"
	"github.com/jhoicas/pos-api/internal/application/auth"
)

func reorderCmd() *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "Genera órdenes de compra para los productos bajo el punto de reorden",
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
			res, err := svc.Purchasing.AutoReorder(cmd.Context(), companyID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "órdenes creadas: %d\n", len(res.OrdersCreated))
			for _, id := range res.OrdersCreated {
				fmt.Fprintf(out, "  %s\n", id)
			}
			if len(res.SkippedProducts) > 0 {
				fmt.Fprintf(out, "sin proveedor: %s\n", strings.Join(res.SkippedProducts, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "ID de la empresa")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
