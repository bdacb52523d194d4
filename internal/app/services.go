// Package app arma los casos de uso sobre un conjunto de repositorios. Lo usan
// el servidor HTTP, la CLI de operación y los tests de extremo a extremo.
package app

import (
	"context"

	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/employee"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/pos"
	"github.com/jhoicas/pos-api/internal/application/purchasing"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-api/internal/interfaces/http"
)

// Backend puertos de persistencia que necesitan los casos de uso.
type Backend struct {
	Companies      repository.CompanyRepository
	Stores         repository.StoreRepository
	Users          repository.UserRepository
	Products       repository.ProductRepository
	Categories     repository.CategoryRepository
	Suppliers      repository.SupplierRepository
	Customers      repository.CustomerRepository
	Promotions     repository.PromotionRepository
	Stock          repository.StockRepository
	Movements      repository.InventoryMovementRepository
	Sales          repository.SaleRepository
	Transfers      repository.TransferRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Invoices       repository.InvoiceRepository
	CashSessions   repository.CashSessionRepository
	Settings       repository.SettingsRepository
	Analytics      repository.AnalyticsRepository
	Tx             repository.TxRunner
}

// FromMemory adapta los repositorios en memoria.
func FromMemory(r memory.Repositories) Backend {
	return Backend{
		Companies:      r.Companies,
		Stores:         r.Stores,
		Users:          r.Users,
		Products:       r.Products,
		Categories:     r.Categories,
		Suppliers:      r.Suppliers,
		Customers:      r.Customers,
		Promotions:     r.Promotions,
		Stock:          r.Stock,
		Movements:      r.Movements,
		Sales:          r.Sales,
		Transfers:      r.Transfers,
		PurchaseOrders: r.PurchaseOrders,
		Invoices:       r.Invoices,
		CashSessions:   r.CashSessions,
		Settings:       r.Settings,
		Analytics:      r.Analytics,
		Tx:             r.Tx,
	}
}

// Documents genera los PDF de recibos y facturas.
type Documents interface {
	hardware.ReceiptRenderer
	billing.InvoicePDFGenerator
}

// Options dependencias externas de los casos de uso.
type Options struct {
	JWT       auth.JWTConfig
	Broker    realtime.Broker   // nil = broker en proceso
	Hardware  *hardware.Manager // nil = periféricos desconectados sin spool
	Documents Documents         // nil = sin PDF
	Log       zerolog.Logger
}

// Services todos los casos de uso de la aplicación.
type Services struct {
	Auth          *auth.AuthUseCase
	Companies     *usecase.CompanyUseCase
	Modules       *usecase.ModuleService
	Stores        *usecase.StoreUseCase
	Users         *usecase.UserUseCase
	Products      *usecase.ProductUseCase
	Categories    *usecase.CategoryUseCase
	Suppliers     *usecase.SupplierUseCase
	Customers     *usecase.CustomerUseCase
	Promotions    *usecase.PromotionUseCase
	Settings      *usecase.SettingsUseCase
	Movements     *inventory.RegisterMovementUseCase
	Stock         *inventory.StockQueryUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Transfers     *inventory.TransferUseCase
	Purchasing    *purchasing.PurchaseOrderUseCase
	Invoices      *billing.InvoiceUseCase
	Sales         *pos.SaleUseCase
	CashSessions  *employee.CashSessionUseCase
	Performance   *employee.PerformanceUseCase
	Dashboard     *appanalytics.DashboardUseCase
	Financial     *appanalytics.FinancialReportUseCase

	Publisher *realtime.Publisher
	Feed      *realtime.Feed
	Hardware  *hardware.Manager
	Log       zerolog.Logger
}

// NewServices construye los casos de uso sobre el backend indicado.
func NewServices(b Backend, opts Options) *Services {
	log := opts.Log
	if opts.Broker == nil {
		opts.Broker = realtime.NewMemoryBroker(0)
	}
	publisher := realtime.NewPublisher(opts.Broker, log)
	settings := usecase.NewSettingsUseCase(b.Settings)

	s := &Services{
		Auth:          auth.NewAuthUseCase(b.Users, b.Companies, b.Stores, opts.JWT),
		Companies:     usecase.NewCompanyUseCase(b.Companies),
		Modules:       usecase.NewModuleService(b.Companies),
		Stores:        usecase.NewStoreUseCase(b.Stores),
		Users:         usecase.NewUserUseCase(b.Users, b.Stores),
		Products:      usecase.NewProductUseCase(b.Products, b.Categories, b.Suppliers, publisher),
		Categories:    usecase.NewCategoryUseCase(b.Categories, b.Products),
		Suppliers:     usecase.NewSupplierUseCase(b.Suppliers, b.PurchaseOrders),
		Customers:     usecase.NewCustomerUseCase(b.Customers, log),
		Promotions:    usecase.NewPromotionUseCase(b.Promotions),
		Settings:      settings,
		Movements:     inventory.NewRegisterMovementUseCase(b.Tx, b.Products, b.Stores, publisher),
		Stock:         inventory.NewStockQueryUseCase(b.Stock, b.Movements, b.Products, settings),
		Replenishment: inventory.NewReplenishmentUseCase(b.Stock, b.Analytics),
		Transfers:     inventory.NewTransferUseCase(b.Tx, b.Transfers, b.Products, b.Stores, publisher, log),
		Purchasing: purchasing.NewPurchaseOrderUseCase(
			b.Tx, b.PurchaseOrders, b.Suppliers, b.Products, b.Stores, b.Stock, b.Settings, publisher, log,
		),
		CashSessions: employee.NewCashSessionUseCase(b.Tx, b.CashSessions, b.Sales, b.Stores, log),
		Performance:  employee.NewPerformanceUseCase(b.Analytics),
		Dashboard:    appanalytics.NewDashboardUseCase(b.Analytics, settings),
		Financial:    appanalytics.NewFinancialReportUseCase(b.Analytics),
		Publisher:    publisher,
		Feed:         realtime.NewFeed(opts.Broker),
		Hardware:     opts.Hardware,
		Log:          log,
	}

	var invoicePDF billing.InvoicePDFGenerator
	var receipts hardware.ReceiptRenderer
	if opts.Documents != nil {
		invoicePDF = opts.Documents
		receipts = opts.Documents
	}
	if s.Hardware == nil {
		s.Hardware = hardware.NewManager(hardware.Options{Renderer: receipts, Log: log})
	}
	s.Invoices = billing.NewInvoiceUseCase(
		b.Tx, b.Invoices, b.Suppliers, b.Customers, b.Companies, settings, invoicePDF, publisher, log,
	)

	deps := pos.Deps{
		TxRunner:     b.Tx,
		Sales:        b.Sales,
		Products:     b.Products,
		Customers:    b.Customers,
		Promotions:   b.Promotions,
		CashSessions: b.CashSessions,
		Stores:       b.Stores,
		Companies:    b.Companies,
		Users:        b.Users,
		Settings:     settings,
		Devices:      s.Hardware,
		Renderer:     receipts,
		Publisher:    publisher,
		Log:          log,
	}
	// Los cambios de estado de los periféricos se difunden a todas las empresas.
	s.Hardware.OnStatusChange(func(st hardware.DeviceState) {
		publisher.Notify(context.Background(), realtime.GlobalScope, realtime.TopicDevices,
			realtime.EventUpdated, string(st.Device), st)
	})
	s.Sales = pos.NewSaleUseCase(deps)
	return s
}

// RouterDeps arma las dependencias del router HTTP.
func (s *Services) RouterDeps(jwtSecret string, limiter *apphttp.RateLimiter) apphttp.RouterDeps {
	return apphttp.RouterDeps{
		AuthUC:           s.Auth,
		CompanyUC:        s.Companies,
		ModuleService:    s.Modules,
		StoreUC:          s.Stores,
		UserUC:           s.Users,
		ProductUC:        s.Products,
		CategoryUC:       s.Categories,
		SupplierUC:       s.Suppliers,
		CustomerUC:       s.Customers,
		PromotionUC:      s.Promotions,
		SettingsUC:       s.Settings,
		RegisterMovement: s.Movements,
		StockQuery:       s.Stock,
		Replenishment:    s.Replenishment,
		TransferUC:       s.Transfers,
		PurchaseOrderUC:  s.Purchasing,
		InvoiceUC:        s.Invoices,
		SaleUC:           s.Sales,
		CashSessionUC:    s.CashSessions,
		PerformanceUC:    s.Performance,
		DashboardUC:      s.Dashboard,
		FinancialUC:      s.Financial,
		Hardware:         s.Hardware,
		Feed:             s.Feed,
		RateLimiter:      limiter,
		JWTSecret:        jwtSecret,
		Log:              s.Log,
	}
}
