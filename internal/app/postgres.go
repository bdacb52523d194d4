package app

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
)

// FromPostgres arma el backend sobre el pool de PostgreSQL.
func FromPostgres(pool *pgxpool.Pool) Backend {
	return Backend{
		Companies:      postgres.NewCompanyRepository(pool),
		Stores:         postgres.NewStoreRepository(pool),
		Users:          postgres.NewUserRepository(pool),
		Products:       postgres.NewProductRepository(pool),
		Categories:     postgres.NewCategoryRepository(pool),
		Suppliers:      postgres.NewSupplierRepository(pool),
		Customers:      postgres.NewCustomerRepository(pool),
		Promotions:     postgres.NewPromotionRepository(pool),
		Stock:          postgres.NewStockRepository(pool),
		Movements:      postgres.NewInventoryMovementRepository(pool),
		Sales:          postgres.NewSaleRepository(pool),
		Transfers:      postgres.NewTransferRepository(pool),
		PurchaseOrders: postgres.NewPurchaseOrderRepository(pool),
		Invoices:       postgres.NewInvoiceRepository(pool),
		CashSessions:   postgres.NewCashSessionRepository(pool),
		Settings:       postgres.NewSettingsRepository(pool),
		Analytics:      postgres.NewAnalyticsRepository(pool),
		Tx:             postgres.NewTxRunner(pool),
	}
}
