package http

import (
	"github.com/gofiber/fiber/v2"
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
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	ModuleService *usecase.ModuleService
	StoreUC       *usecase.StoreUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	CategoryUC    *usecase.CategoryUseCase
	SupplierUC    *usecase.SupplierUseCase
	CustomerUC    *usecase.CustomerUseCase
	PromotionUC   *usecase.PromotionUseCase
	SettingsUC    *usecase.SettingsUseCase

	RegisterMovement *inventory.RegisterMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	TransferUC       *inventory.TransferUseCase
	PurchaseOrderUC  *purchasing.PurchaseOrderUseCase
	InvoiceUC        *billing.InvoiceUseCase
	SaleUC           *pos.SaleUseCase
	CashSessionUC    *employee.CashSessionUseCase
	PerformanceUC    *employee.PerformanceUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	FinancialUC      *appanalytics.FinancialReportUseCase

	Hardware    *hardware.Manager
	Feed        *realtime.Feed
	RateLimiter *RateLimiter // nil = sin límite
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Handler())
	}
	can := RequirePermission
	module := func(name string) fiber.Handler {
		return RequireModule(name, deps.ModuleService, deps.Log)
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	companies := protected.Group("/companies")
	companies.Get("/", RequireRole(entity.RoleAdmin), companyHandler.List)
	companies.Get("/me/modules", companyHandler.Modules)
	companies.Post("/me/modules", can(permission.SettingsManage), companyHandler.ActivateModule)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Patch("/:id/status", RequireRole(entity.RoleAdmin), companyHandler.SetStatus)

	storeHandler := NewStoreHandler(deps.StoreUC)
	stores := protected.Group("/stores")
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.Get)
	stores.Post("/", can(permission.SettingsManage), storeHandler.Create)
	stores.Put("/:id", can(permission.SettingsManage), storeHandler.Update)

	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	protected.Get("/settings", settingsHandler.Get)
	protected.Put("/settings", can(permission.SettingsManage), settingsHandler.Update)

	// Empleados
	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/permissions/:role?", userHandler.Permissions)
	users := protected.Group("/users", module(entity.ModuleEmployees))
	users.Get("/", can(permission.EmployeesView), userHandler.List)
	users.Get("/:id", can(permission.EmployeesView), userHandler.GetByID)
	users.Post("/", can(permission.EmployeesManage), userHandler.Create)
	users.Put("/:id", can(permission.EmployeesManage), userHandler.Update)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/code/:code", productHandler.GetByCode)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", can(permission.ProductsManage), productHandler.Create)
	products.Put("/:id", can(permission.ProductsManage), productHandler.Update)
	products.Delete("/:id", can(permission.ProductsManage), productHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.Tree)
	categories.Get("/:id", categoryHandler.Get)
	categories.Post("/", can(permission.CategoriesManage), categoryHandler.Create)
	categories.Put("/:id", can(permission.CategoriesManage), categoryHandler.Update)
	categories.Delete("/:id", can(permission.CategoriesManage), categoryHandler.Delete)

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers", can(permission.SuppliersManage, permission.PurchasingManage, permission.InvoicesView))
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.Get)
	suppliers.Post("/", can(permission.SuppliersManage), supplierHandler.Create)
	suppliers.Put("/:id", can(permission.SuppliersManage), supplierHandler.Update)
	suppliers.Delete("/:id", can(permission.SuppliersManage), supplierHandler.Delete)

	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers")
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Get)
	customers.Post("/", can(permission.CustomersManage), customerHandler.Create)
	customers.Put("/:id", can(permission.CustomersManage), customerHandler.Update)
	customers.Post("/:id/points", can(permission.LoyaltyManage), customerHandler.AdjustPoints)

	promotionHandler := NewPromotionHandler(deps.PromotionUC)
	promotions := protected.Group("/promotions")
	promotions.Get("/", promotionHandler.List)
	promotions.Post("/evaluate", can(permission.POSSell, permission.PromotionsManage), promotionHandler.Evaluate)
	promotions.Post("/", can(permission.PromotionsManage), promotionHandler.Create)
	promotions.Put("/:id", can(permission.PromotionsManage), promotionHandler.Update)

	// Inventario y traslados
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockQuery, deps.Replenishment)
	invGroup := protected.Group("/inventory", module(entity.ModuleInventory), can(permission.InventoryView))
	invGroup.Get("/stock", inventoryHandler.StockLevels)
	invGroup.Get("/movements/:product_id", inventoryHandler.Movements)
	invGroup.Post("/movements", can(permission.InventoryAdjust), inventoryHandler.RegisterMovement)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers := protected.Group("/transfers", module(entity.ModuleInventory), can(permission.InventoryView))
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Post("/", can(permission.InventoryTransfer), transferHandler.Request)
	transfers.Post("/:id/approve", can(permission.InventoryTransferApprove), transferHandler.Approve)
	transfers.Post("/:id/receive", can(permission.InventoryTransfer), transferHandler.Receive)
	transfers.Post("/:id/reject", can(permission.InventoryTransferApprove), transferHandler.Reject)
	transfers.Post("/:id/cancel", can(permission.InventoryTransfer), transferHandler.Cancel)

	// Compras
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	orders := protected.Group("/purchase-orders", module(entity.ModulePurchasing), can(permission.PurchasingManage))
	orders.Get("/", poHandler.List)
	orders.Post("/", poHandler.Create)
	orders.Post("/auto-reorder", poHandler.AutoReorder)
	orders.Get("/:id", poHandler.Get)
	orders.Post("/:id/send", poHandler.Send)
	orders.Post("/:id/cancel", poHandler.Cancel)
	orders.Post("/:id/receive", poHandler.Receive)

	// Punto de venta
	posHandler := NewPOSHandler(deps.SaleUC)
	posGroup := protected.Group("/pos", module(entity.ModulePOS))
	posGroup.Post("/quote", can(permission.POSSell), posHandler.Quote)
	posGroup.Post("/checkout", can(permission.POSSell), posHandler.Checkout)
	posGroup.Get("/baskets", can(permission.BasketsCreate, permission.BasketsApprove), posHandler.ListPending)
	posGroup.Post("/baskets", can(permission.BasketsCreate), posHandler.Hold)
	posGroup.Post("/baskets/:id/approve", can(permission.BasketsApprove), posHandler.Approve)
	posGroup.Post("/baskets/:id/reject", can(permission.BasketsApprove), posHandler.Reject)
	posGroup.Post("/baskets/:id/checkout", can(permission.POSSell), posHandler.CheckoutBasket)
	posGroup.Get("/sales", can(permission.POSSell, permission.ReportsView), posHandler.List)
	posGroup.Get("/sales/:id", can(permission.POSSell, permission.ReportsView), posHandler.Get)
	posGroup.Get("/sales/:id/receipt", can(permission.POSSell, permission.ReportsView), posHandler.Receipt)
	posGroup.Post("/sales/:id/void", can(permission.POSVoid), posHandler.Void)

	cashHandler := NewCashSessionHandler(deps.CashSessionUC)
	cash := protected.Group("/cash-sessions", module(entity.ModulePOS))
	cash.Get("/", can(permission.CashoutReview), cashHandler.List)
	cash.Get("/current", can(permission.CashoutManage), cashHandler.Current)
	cash.Post("/", can(permission.CashoutManage), cashHandler.Open)
	cash.Post("/:id/close", can(permission.CashoutManage, permission.CashoutReview), cashHandler.Close)
	cash.Post("/:id/review", can(permission.CashoutReview), cashHandler.Review)

	// Facturas por pagar / por cobrar
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices := protected.Group("/invoices", module(entity.ModuleBilling), can(permission.InvoicesView))
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/aging", invoiceHandler.Aging)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/", can(permission.InvoicesManage), invoiceHandler.Create)
	invoices.Post("/:id/cancel", can(permission.InvoicesManage), invoiceHandler.Cancel)
	invoices.Post("/:id/payments", can(permission.PaymentsRecord), invoiceHandler.RecordPayment)

	// Reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", module(entity.ModuleAnalytics), can(permission.DashboardView), dashboardHandler.GetSummary)

	reportsHandler := NewReportsHandler(deps.FinancialUC, deps.PerformanceUC)
	reports := protected.Group("/reports")
	reports.Get("/financial", module(entity.ModuleAnalytics), can(permission.ReportsFinancial), reportsHandler.Financial)
	reports.Get("/performance", module(entity.ModuleEmployees), can(permission.EmployeesView), reportsHandler.Performance)

	// Periféricos
	hardwareHandler := NewHardwareHandler(deps.Hardware, deps.ProductUC)
	hw := protected.Group("/hardware", can(permission.HardwareUse))
	hw.Get("/status", hardwareHandler.Status)
	hw.Post("/scan", hardwareHandler.Scan)
	hw.Post("/cash-drawer/open", hardwareHandler.OpenCashDrawer)
	hw.Post("/:device/connect", hardwareHandler.Connect)
	hw.Post("/:device/disconnect", hardwareHandler.Disconnect)

	// Tiempo real (SSE)
	realtimeHandler := NewRealtimeHandler(deps.Feed, Snapshots(deps), DefaultKeepAlive, deps.Log)
	protected.Get("/realtime/:topic", realtimeHandler.Stream)
}
