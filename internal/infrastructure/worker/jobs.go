package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

// OverdueMarker marca como vencidas las facturas abiertas con fecha de vencimiento pasada.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// AutoReorderer genera órdenes de compra automáticas para las empresas que lo tienen activo.
type AutoReorderer interface {
	RunAutoReorder(ctx context.Context) ([]dto.AutoReorderResult, error)
}

// InvoiceSyncJob tarea invoice-sync.
func InvoiceSyncJob(invoices OverdueMarker, interval time.Duration, log zerolog.Logger) Job {
	return Job{
		Name:     JobInvoiceSync,
		Interval: interval,
		Run: func(ctx context.Context) error {
			n, err := invoices.MarkOverdue(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info().Int64("invoices", n).Msg("worker: facturas marcadas como vencidas")
			}
			return nil
		},
	}
}

// AutoReorderJob tarea auto-reorder.
func AutoReorderJob(orders AutoReorderer, interval time.Duration, log zerolog.Logger) Job {
	return Job{
		Name:     JobAutoReorder,
		Interval: interval,
		Run: func(ctx context.Context) error {
			results, err := orders.RunAutoReorder(ctx)
			for _, r := range results {
				if len(r.OrdersCreated) > 0 {
					log.Info().Str("company_id", r.CompanyID).Strs("orders", r.OrdersCreated).Msg("worker: órdenes de reorden creadas")
				}
			}
			return err
		},
	}
}
