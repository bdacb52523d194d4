package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-api/internal/domain/permission"
)

func permissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions [rol]",
		Short: "Lista los permisos de un rol o la matriz completa",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				perms := permission.ForRole(args[0])
				if len(perms) == 0 {
					return fmt.Errorf("rol desconocido %q (roles: %s)", args[0], strings.Join(permission.Roles(), ", "))
				}
				for _, p := range perms {
					fmt.Fprintln(out, p)
				}
				return nil
			}

			roles := permission.Roles()
			fmt.Fprintf(out, "%-28s", "permiso")
			for _, r := range roles {
				fmt.Fprintf(out, " %-9s", r)
			}
			fmt.Fprintln(out)
			for _, p := range permission.All() {
				fmt.Fprintf(out, "%-28s", p)
				for _, r := range roles {
					mark := "-"
					if permission.Has(r, p) {
						mark = "x"
					}
					fmt.Fprintf(out, " %-9s", mark)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
