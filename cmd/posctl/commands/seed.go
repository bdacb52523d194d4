package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-api/internal/app"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/pkg/config"
)

func seedCmd() *cobra.Command {
	var inMemory bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga la empresa de demostración (tiendas, empleados, catálogo y existencias)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inMemory {
				cfg.Storage.Driver = config.StorageMemory
			}
			backend, closeBackend, err := app.OpenBackend(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeBackend()

			svc := app.NewServices(backend, app.Options{
				JWT: auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
				Log: log,
			})
			res, err := svc.Seed(cmd.Context(), backend)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Created {
				fmt.Fprintln(out, "la empresa de demostración ya existía")
			}
			fmt.Fprintf(out, "empresa   %s (NIT %s)\n", res.CompanyID, app.DemoNIT)
			fmt.Fprintf(out, "productos %d\n", res.Products)
			codes := make([]string, 0, len(res.StoreIDs))
			for code := range res.StoreIDs {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				fmt.Fprintf(out, "tienda    %-8s %s\n", code, res.StoreIDs[code])
			}
			roles := make([]string, 0, len(res.Users))
			for role := range res.Users {
				roles = append(roles, role)
			}
			sort.Strings(roles)
			for _, role := range roles {
				fmt.Fprintf(out, "usuario   %-10s %s / %s\n", role, res.Users[role], app.DemoPassword)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&inMemory, "memory", false, "usar almacenamiento en memoria (prueba rápida, no persiste)")
	return cmd
}
