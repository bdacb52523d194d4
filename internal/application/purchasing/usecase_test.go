package purchasing

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

var receivedAt = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type fixture struct {
	repos    memory.Repositories
	uc       *PurchaseOrderUseCase
	store    *entity.Store
	supplier *entity.Supplier
	product  *entity.Product
	actor    dto.Actor
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	r := memory.NewStore().Repositories()
	store := &entity.Store{CompanyID: company, Code: "CENTRO", Name: "Centro", IsActive: true}
	require.NoError(t, r.Stores.Create(ctx, store))
	supplier := &entity.Supplier{CompanyID: company, Name: "Distribuidora Andina", PaymentTermsDays: 30, Status: "active"}
	require.NoError(t, r.Suppliers.Create(ctx, supplier))
	product := &entity.Product{
		CompanyID: company, SKU: "PAN-1", Name: "Pan tajado", SupplierID: supplier.ID,
		Price: dec(6000), Cost: dec(3000), ReorderPoint: dec(10), IsActive: true,
	}
	require.NoError(t, r.Products.Create(ctx, product))
	require.NoError(t, r.Stock.Upsert(ctx, &entity.Stock{ProductID: product.ID, StoreID: store.ID, Quantity: dec(10)}))

	uc := NewPurchaseOrderUseCase(r.Tx, r.PurchaseOrders, r.Suppliers, r.Products, r.Stores, r.Stock, r.Settings, nil, zerolog.Nop())
	uc.now = func() time.Time { return receivedAt }
	return fixture{
		repos: r, uc: uc, store: store, supplier: supplier, product: product,
		actor: dto.Actor{CompanyID: company, UserID: "bodega", Role: entity.RoleBodeguero},
	}
}

func (f fixture) create(t *testing.T, qty, cost int64) *dto.PurchaseOrderResponse {
	t.Helper()
	po, err := f.uc.Create(context.Background(), f.actor, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID, StoreID: f.store.ID,
		Items: []dto.PurchaseOrderItemRequest{{ProductID: f.product.ID, Quantity: dec(qty), UnitCost: dec(cost)}},
	})
	require.NoError(t, err)
	return po
}

func TestPurchaseOrder_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	po := f.create(t, 10, 3600)
	assert.Equal(t, entity.POStatusDraft, po.Status)
	assert.True(t, po.Total.Equal(dec(36000)))

	_, err := f.uc.Create(ctx, f.actor, dto.CreatePurchaseOrderRequest{SupplierID: f.supplier.ID, StoreID: f.store.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Create(ctx, f.actor, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID, StoreID: f.store.ID,
		Items: []dto.PurchaseOrderItemRequest{{ProductID: f.product.ID, Quantity: dec(0), UnitCost: dec(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Create(ctx, f.actor, dto.CreatePurchaseOrderRequest{
		SupplierID: "nada", StoreID: f.store.ID,
		Items: []dto.PurchaseOrderItemRequest{{ProductID: f.product.ID, Quantity: dec(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseOrder_ReceiveCreatesStockAndPayable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	po := f.create(t, 10, 3600)

	_, err := f.uc.Receive(ctx, f.actor, po.ID, dto.ReceivePurchaseOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un borrador debe enviarse antes de recibirse")

	_, err = f.uc.Send(ctx, company, po.ID)
	require.NoError(t, err)

	received, err := f.uc.Receive(ctx, f.actor, po.ID, dto.ReceivePurchaseOrderRequest{InvoiceNumber: "FV-889"})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, received.Status)
	require.NotEmpty(t, received.InvoiceID)

	st, err := f.repos.Stock.Get(ctx, f.product.ID, f.store.ID)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(dec(20)))

	p, err := f.repos.Products.GetByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.True(t, p.Cost.Equal(dec(3300)), "costo promedio: %s", p.Cost)

	inv, err := f.repos.Invoices.GetByID(ctx, received.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePayable, inv.Type)
	assert.Equal(t, "FV-889", inv.Number)
	assert.Equal(t, f.supplier.ID, inv.CounterpartyID)
	assert.True(t, inv.Total.Equal(dec(36000)))
	assert.Equal(t, receivedAt.AddDate(0, 0, 30), inv.DueDate)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)

	_, err = f.uc.Cancel(ctx, company, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPurchaseOrder_ReceiveDuplicateInvoiceRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, second := f.create(t, 1, 100), f.create(t, 2, 100)
	for _, po := range []*dto.PurchaseOrderResponse{first, second} {
		_, err := f.uc.Send(ctx, company, po.ID)
		require.NoError(t, err)
	}
	_, err := f.uc.Receive(ctx, f.actor, first.ID, dto.ReceivePurchaseOrderRequest{InvoiceNumber: "FV-1"})
	require.NoError(t, err)

	_, err = f.uc.Receive(ctx, f.actor, second.ID, dto.ReceivePurchaseOrderRequest{InvoiceNumber: "FV-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	st, err := f.repos.Stock.Get(ctx, f.product.ID, f.store.ID)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(dec(11)))
	got, err := f.uc.Get(ctx, company, second.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusSent, got.Status)
}

func TestAutoReorder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	// Bajo el punto de reorden: 4 < 10, ideal 15 -> pedir 11.
	require.NoError(t, f.repos.Stock.Upsert(ctx, &entity.Stock{ProductID: f.product.ID, StoreID: f.store.ID, Quantity: dec(4)}))
	orphan := &entity.Product{CompanyID: company, SKU: "SIN-PROV", Name: "Sin proveedor", ReorderPoint: dec(3), IsActive: true}
	require.NoError(t, f.repos.Products.Create(ctx, orphan))

	res, err := f.uc.AutoReorder(ctx, company)
	require.NoError(t, err)
	require.Len(t, res.OrdersCreated, 1)
	assert.Equal(t, []string{"SIN-PROV"}, res.SkippedProducts)

	po, err := f.uc.Get(ctx, company, res.OrdersCreated[0])
	require.NoError(t, err)
	assert.True(t, po.Auto)
	assert.Equal(t, SystemUser, po.CreatedBy)
	require.Len(t, po.Items, 1)
	assert.True(t, po.Items[0].Quantity.Equal(dec(11)))
	assert.True(t, po.Items[0].UnitCost.Equal(dec(3000)))

	// La cantidad ya pedida se descuenta: una segunda corrida no duplica la orden.
	again, err := f.uc.AutoReorder(ctx, company)
	require.NoError(t, err)
	assert.Empty(t, again.OrdersCreated)
}

func TestRunAutoReorder_OnlyEnabledCompanies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repos.Stock.Upsert(ctx, &entity.Stock{ProductID: f.product.ID, StoreID: f.store.ID, Quantity: dec(0)}))

	results, err := f.uc.RunAutoReorder(ctx)
	require.NoError(t, err)
	assert.Empty(t, results)

	settings := entity.DefaultSettings(company)
	settings.AutoReorderEnabled = true
	require.NoError(t, f.repos.Settings.Upsert(ctx, &settings))

	results, err = f.uc.RunAutoReorder(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, results[0].OrdersCreated, 1)
}
