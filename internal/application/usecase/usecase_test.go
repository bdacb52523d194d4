package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

const company = "company-1"

func newRepos() memory.Repositories {
	return memory.NewStore().Repositories()
}

func TestProductUseCase_Create(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewProductUseCase(r.Products, r.Categories, r.Suppliers, nil)

	created, err := uc.Create(ctx, company, dto.CreateProductRequest{
		SKU: "CAF-500", Barcode: "7701234567890", Name: "Café 500g",
		Price: decimal.NewFromInt(18000), TaxRate: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.True(t, created.Cost.IsZero())
	assert.True(t, created.IsActive)
	assert.Equal(t, "94", created.UnitMeasure)

	t.Run("sku duplicado", func(t *testing.T) {
		_, err := uc.Create(ctx, company, dto.CreateProductRequest{SKU: "CAF-500", Name: "Otro", TaxRate: decimal.Zero})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})
	t.Run("barcode duplicado", func(t *testing.T) {
		_, err := uc.Create(ctx, company, dto.CreateProductRequest{SKU: "CAF-250", Barcode: "7701234567890", Name: "Otro", TaxRate: decimal.Zero})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})
	t.Run("iva no permitido", func(t *testing.T) {
		_, err := uc.Create(ctx, company, dto.CreateProductRequest{SKU: "X-1", Name: "X", TaxRate: decimal.NewFromInt(8)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("precio negativo", func(t *testing.T) {
		_, err := uc.Create(ctx, company, dto.CreateProductRequest{SKU: "X-2", Name: "X", Price: decimal.NewFromInt(-1)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("categoria de otra empresa", func(t *testing.T) {
		cat := &entity.Category{CompanyID: "otra", Code: "BEB", Name: "Bebidas"}
		require.NoError(t, r.Categories.Create(ctx, cat))
		_, err := uc.Create(ctx, company, dto.CreateProductRequest{SKU: "X-3", Name: "X", CategoryID: cat.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestProductUseCase_GetByCode(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewProductUseCase(r.Products, r.Categories, r.Suppliers, nil)
	p, err := uc.Create(ctx, company, dto.CreateProductRequest{SKU: "LEC-1", Barcode: "7700000000011", Name: "Leche"})
	require.NoError(t, err)

	byBarcode, err := uc.GetByCode(ctx, company, "7700000000011")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byBarcode.ID)

	bySKU, err := uc.GetByCode(ctx, company, " LEC-1 ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySKU.ID)

	_, err = uc.GetByCode(ctx, company, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetByCode(ctx, "otra", "LEC-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_UpdateAndScope(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewProductUseCase(r.Products, r.Categories, r.Suppliers, nil)
	p, err := uc.Create(ctx, company, dto.CreateProductRequest{SKU: "PAN-1", Name: "Pan"})
	require.NoError(t, err)

	price := decimal.NewFromInt(2500)
	inactive := false
	updated, err := uc.Update(ctx, company, p.ID, dto.UpdateProductRequest{Price: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))
	assert.False(t, updated.IsActive)

	_, err = uc.GetByID(ctx, "otra", p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	badTax := decimal.NewFromInt(16)
	_, err = uc.Update(ctx, company, p.ID, dto.UpdateProductRequest{TaxRate: &badTax})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.Delete(ctx, company, p.ID))
	_, err = uc.GetByID(ctx, company, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryUseCase_Hierarchy(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewCategoryUseCase(r.Categories, r.Products)

	root, err := uc.Create(ctx, company, dto.CreateCategoryRequest{Name: "Bebidas", Code: "beb"})
	require.NoError(t, err)
	assert.Equal(t, "BEB", root.Code)
	child, err := uc.Create(ctx, company, dto.CreateCategoryRequest{Name: "Gaseosas", Code: "GAS", ParentID: root.ID})
	require.NoError(t, err)
	grandchild, err := uc.Create(ctx, company, dto.CreateCategoryRequest{Name: "Light", Code: "LIG", ParentID: child.ID})
	require.NoError(t, err)

	t.Run("padre inexistente", func(t *testing.T) {
		_, err := uc.Create(ctx, company, dto.CreateCategoryRequest{Name: "X", Code: "X", ParentID: "nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("padre es ella misma", func(t *testing.T) {
		self := root.ID
		_, err := uc.Update(ctx, company, root.ID, dto.UpdateCategoryRequest{ParentID: &self})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("padre es descendiente", func(t *testing.T) {
		desc := grandchild.ID
		_, err := uc.Update(ctx, company, root.ID, dto.UpdateCategoryRequest{ParentID: &desc})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("mover a raiz", func(t *testing.T) {
		empty := ""
		moved, err := uc.Update(ctx, company, grandchild.ID, dto.UpdateCategoryRequest{ParentID: &empty})
		require.NoError(t, err)
		assert.Empty(t, moved.ParentID)
	})

	tree, err := uc.Tree(ctx, company)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	t.Run("borrar con hijas", func(t *testing.T) {
		assert.ErrorIs(t, uc.Delete(ctx, company, root.ID), domain.ErrConflict)
	})
	t.Run("borrar con productos", func(t *testing.T) {
		require.NoError(t, r.Products.Create(ctx, &entity.Product{CompanyID: company, SKU: "G-1", Name: "Gaseosa", CategoryID: child.ID}))
		assert.ErrorIs(t, uc.Delete(ctx, company, child.ID), domain.ErrConflict)
	})
	t.Run("borrar hoja", func(t *testing.T) {
		assert.NoError(t, uc.Delete(ctx, company, grandchild.ID))
	})
}

func TestSupplierUseCase(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewSupplierUseCase(r.Suppliers, r.PurchaseOrders)

	_, err := uc.Create(ctx, company, dto.CreateSupplierRequest{Name: "Mala", Rating: decimal.NewFromInt(6)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, company, dto.CreateSupplierRequest{Name: "Mala", PaymentTermsDays: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s, err := uc.Create(ctx, company, dto.CreateSupplierRequest{Name: "Distribuidora Andina", PaymentTermsDays: 30, Rating: decimal.NewFromInt(4)})
	require.NoError(t, err)
	assert.Equal(t, "active", s.Status)

	require.NoError(t, r.PurchaseOrders.Create(ctx, &entity.PurchaseOrder{CompanyID: company, SupplierID: s.ID, Status: entity.POStatusSent}))
	assert.ErrorIs(t, uc.Delete(ctx, company, s.ID), domain.ErrConflict)

	list, err := uc.List(ctx, company, "andina", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestCustomerUseCase_AdjustPoints(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewCustomerUseCase(r.Customers, zerolog.Nop())
	c, err := uc.Create(ctx, company, dto.CreateCustomerRequest{Name: "Ana Gómez"})
	require.NoError(t, err)

	got, err := uc.AdjustPoints(ctx, company, "user-1", c.ID, dto.AdjustPointsRequest{Points: 50, Reason: "bono"})
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.LoyaltyPoints)

	_, err = uc.AdjustPoints(ctx, company, "user-1", c.ID, dto.AdjustPointsRequest{Points: -80, Reason: "corrección"})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	_, err = uc.AdjustPoints(ctx, company, "user-1", c.ID, dto.AdjustPointsRequest{Points: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, company, "gomez", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestPromotionUseCase(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewPromotionUseCase(r.Promotions)

	_, err := uc.Create(ctx, company, dto.CreatePromotionRequest{Code: "x", Name: "X", Type: entity.PromotionPercentage, Value: decimal.NewFromInt(120)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.Create(ctx, company, dto.CreatePromotionRequest{
		Code: "verano10", Name: "Verano", Type: entity.PromotionPercentage,
		Value: decimal.NewFromInt(10), MinPurchase: decimal.NewFromInt(20000),
	})
	require.NoError(t, err)
	assert.Equal(t, "VERANO10", p.Code)

	_, err = uc.Create(ctx, company, dto.CreatePromotionRequest{Code: "VERANO10", Name: "Dup", Type: entity.PromotionFixed, Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	res, err := uc.Evaluate(ctx, company, dto.EvaluatePromotionRequest{Code: "verano10", Subtotal: decimal.NewFromInt(50000)})
	require.NoError(t, err)
	assert.True(t, res.Discount.Equal(decimal.NewFromInt(5000)))

	_, err = uc.Evaluate(ctx, company, dto.EvaluatePromotionRequest{Code: "VERANO10", Subtotal: decimal.NewFromInt(1000)})
	assert.ErrorIs(t, err, domain.ErrPromotionInvalid)

	past := time.Now().Add(-time.Hour)
	_, err = uc.Update(ctx, company, p.ID, dto.UpdatePromotionRequest{EndsAt: &past})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsUseCase(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewSettingsUseCase(r.Settings)

	got, err := uc.Get(ctx, company)
	require.NoError(t, err)
	assert.Equal(t, "COP", got.CurrencyCode)
	assert.Nil(t, got.UpdatedAt)

	usd, enable := "USD", true
	updated, err := uc.Update(ctx, company, dto.UpdateSettingsRequest{CurrencyCode: &usd, AutoReorderEnabled: &enable})
	require.NoError(t, err)
	assert.Equal(t, "USD", updated.CurrencyCode)
	assert.NotNil(t, updated.UpdatedAt)

	ids, err := r.Settings.ListAutoReorder(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{company}, ids)

	bad := []dto.UpdateSettingsRequest{
		{CurrencyCode: strPtr("PESOS")},
		{Locale: strPtr("!!")},
		{PointsPerUnit: decPtr(0)},
		{PointValue: decPtr(-1)},
		{MaxCashierDiscountPct: decPtr(101)},
		{DefaultTaxRate: decPtr(7)},
	}
	for _, in := range bad {
		_, err := uc.Update(ctx, company, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestUserUseCase(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewUserUseCase(r.Users, r.Stores)

	_, err := uc.Create(ctx, company, dto.CreateUserRequest{Email: "a@x.co", Password: "secreto123", Name: "A", Role: "vendedor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, company, dto.CreateUserRequest{Email: "a@x.co", Password: "corta", Name: "A", Role: entity.RoleCajero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, company, dto.CreateUserRequest{Email: "a@x.co", Password: "secreto123", Name: "A", Role: entity.RoleCajero, StoreID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	u, err := uc.Create(ctx, company, dto.CreateUserRequest{Email: " Cajera@Tienda.co ", Password: "secreto123", Name: "Luz", Role: entity.RoleCajero})
	require.NoError(t, err)
	assert.Equal(t, "cajera@tienda.co", u.Email)

	_, err = uc.Create(ctx, company, dto.CreateUserRequest{Email: "cajera@tienda.co", Password: "secreto123", Name: "Otra", Role: entity.RoleCajero})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	role := entity.RoleGerente
	updated, err := uc.Update(ctx, company, u.ID, dto.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleGerente, updated.Role)

	_, err = uc.GetByID(ctx, "otra", u.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCompanyUseCase_CreateActivatesModules(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	uc := NewCompanyUseCase(r.Companies)
	c, err := uc.Create(ctx, dto.CreateCompanyRequest{Name: "Tiendas Éxito", NIT: "900123456"})
	require.NoError(t, err)

	mods, err := uc.Modules(ctx, c.ID)
	require.NoError(t, err)
	for _, m := range mods {
		assert.True(t, m.Active, m.Module)
	}
	_, err = uc.Create(ctx, dto.CreateCompanyRequest{Name: "Otra", NIT: "900123456"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	assert.ErrorIs(t, uc.ActivateModule(ctx, c.ID, dto.ActivateModuleRequest{Module: "ai"}), domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateCompanyRequest{Name: "Mal NIT", NIT: "800123456-0"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func strPtr(s string) *string { return &s }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestModuleService_EmpresaSuspendida(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	companies := NewCompanyUseCase(r.Companies)
	c, err := companies.Create(ctx, dto.CreateCompanyRequest{Name: "Tiendas Éxito", NIT: "900123456-8"})
	require.NoError(t, err)

	svc := NewModuleService(r.Companies)
	ok, err := svc.HasActiveModule(ctx, c.ID, entity.ModulePOS)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasActiveModule(ctx, c.ID, "ai")
	require.NoError(t, err)
	assert.False(t, ok)

	suspended, err := companies.SetStatus(ctx, c.ID, dto.CompanyStatusRequest{Status: entity.CompanySuspended})
	require.NoError(t, err)
	assert.Equal(t, entity.CompanySuspended, suspended.Status)
	_, err = companies.SetStatus(ctx, c.ID, dto.CompanyStatusRequest{Status: "cerrada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ok, err = svc.HasActiveModule(ctx, c.ID, entity.ModulePOS)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.HasActiveModule(ctx, "", entity.ModulePOS)
	assert.Error(t, err)
}
