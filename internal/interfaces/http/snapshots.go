package http

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/realtime"
)

const snapshotLimit = 100

// Snapshots lectura inicial de cada tópico en tiempo real.
func Snapshots(deps RouterDeps) map[string]SnapshotFunc {
	page := dto.PageRequest{Limit: snapshotLimit}
	return map[string]SnapshotFunc{
		realtime.TopicProducts: func(ctx context.Context, a dto.Actor) (any, error) {
			return deps.ProductUC.List(ctx, a.CompanyID, dto.ProductListRequest{PageRequest: page, ActiveOnly: true})
		},
		realtime.TopicStock: func(ctx context.Context, a dto.Actor) (any, error) {
			return deps.StockQuery.StockLevels(ctx, a.CompanyID, dto.StockLevelRequest{PageRequest: page, StoreID: a.StoreID})
		},
		realtime.TopicSales: func(ctx context.Context, a dto.Actor) (any, error) {
			return deps.SaleUC.List(ctx, a.CompanyID, dto.SaleListRequest{PageRequest: page, StoreID: a.StoreID})
		},
		realtime.TopicBaskets: func(ctx context.Context, a dto.Actor) (any, error) {
			return deps.SaleUC.ListPending(ctx, a.CompanyID, a.StoreID)
		},
		realtime.TopicTransfers: func(ctx context.Context, a dto.Actor) (any, error) {
			return deps.TransferUC.List(ctx, a.CompanyID, "", page)
		},
		realtime.TopicInvoices: func(ctx context.Context, a dto.Actor) (any, error) {
			return deps.InvoiceUC.List(ctx, a.CompanyID, dto.InvoiceListRequest{PageRequest: page, OpenOnly: true})
		},
		realtime.TopicDevices: func(context.Context, dto.Actor) (any, error) {
			return deviceStatuses(deps.Hardware), nil
		},
	}
}
