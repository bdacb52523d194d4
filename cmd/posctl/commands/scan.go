package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-api/internal/app"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
)

// scanCmd conecta el lector simulado, le pasa stdin línea por línea e imprime
// cada lectura válida como JSON.
func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Lee códigos de barras desde stdin a través del lector simulado",
		RunE: func(cmd *cobra.Command, args []string) error {
			hwCfg := cfg.Hardware
			hwCfg.Latency = 0
			devices := app.NewHardware(hwCfg, nil, log)

			enc := json.NewEncoder(cmd.OutOrStdout())
			var writeErr error
			devices.OnScan(func(ev hardware.ScanEvent) {
				if writeErr == nil {
					writeErr = enc.Encode(ev)
				}
			})

			if err := devices.Connect(cmd.Context(), hardware.Scanner); err != nil {
				return err
			}
			defer func() { _ = devices.Disconnect(hardware.Scanner) }()

			if err := devices.ScanLines(cmd.Context(), cmd.InOrStdin()); err != nil {
				return err
			}
			return writeErr
		},
	}
}
