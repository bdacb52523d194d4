package inventory

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

type fixture struct {
	repos   memory.Repositories
	product *entity.Product
	centro  *entity.Store
	norte   *entity.Store
}

type fixedSettings struct{ s entity.Settings }

func (f fixedSettings) Effective(_ context.Context, companyID string) (entity.Settings, error) {
	s := f.s
	s.CompanyID = companyID
	return s, nil
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	r := memory.NewStore().Repositories()
	centro := &entity.Store{CompanyID: company, Code: "CENTRO", Name: "Centro", IsActive: true}
	norte := &entity.Store{CompanyID: company, Code: "NORTE", Name: "Norte", IsActive: true}
	require.NoError(t, r.Stores.Create(ctx, centro))
	require.NoError(t, r.Stores.Create(ctx, norte))
	p := &entity.Product{
		CompanyID: company, SKU: "ARR-1", Name: "Arroz 1kg",
		Price: decimal.NewFromInt(4000), TaxRate: decimal.NewFromInt(5),
		ReorderPoint: decimal.NewFromInt(10), IsActive: true,
	}
	require.NoError(t, r.Products.Create(ctx, p))
	return fixture{repos: r, product: p, centro: centro, norte: norte}
}

func (f fixture) movements() *RegisterMovementUseCase {
	return NewRegisterMovementUseCase(f.repos.Tx, f.repos.Products, f.repos.Stores, nil)
}

func (f fixture) qty(t *testing.T, storeID string) decimal.Decimal {
	t.Helper()
	st, err := f.repos.Stock.GetForUpdate(context.Background(), f.product.ID, storeID)
	require.NoError(t, err)
	return st.Quantity
}

func (f fixture) cost(t *testing.T) decimal.Decimal {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	return p.Cost
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestRegisterMovement_INRecalculatesWeightedCost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.movements()

	base := MovementInputDTO{CompanyID: company, UserID: "u1", ProductID: f.product.ID, StoreID: f.centro.ID, Type: entity.MovementTypeIN}

	in := base
	in.Quantity, in.UnitCost = dec(10), decPtr(100)
	require.NoError(t, uc.RegisterMovement(ctx, in))
	assert.True(t, f.cost(t).Equal(dec(100)))

	in.UnitCost = decPtr(200)
	require.NoError(t, uc.RegisterMovement(ctx, in))
	assert.True(t, f.qty(t, f.centro.ID).Equal(dec(20)))
	assert.True(t, f.cost(t).Equal(dec(150)), "got %s", f.cost(t))

	movs, err := f.repos.Movements.ListByProduct(ctx, f.product.ID, 10)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.True(t, movs[0].TotalCost.Equal(dec(2000)))
}

func TestRegisterMovement_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.movements()

	cases := map[string]MovementInputDTO{
		"tipo desconocido": {Type: "GIFT", ProductID: f.product.ID, StoreID: f.centro.ID, Quantity: dec(1)},
		"in sin costo":     {Type: entity.MovementTypeIN, ProductID: f.product.ID, StoreID: f.centro.ID, Quantity: dec(1)},
		"out negativo":     {Type: entity.MovementTypeOUT, ProductID: f.product.ID, StoreID: f.centro.ID, Quantity: dec(-1)},
		"cantidad cero":    {Type: entity.MovementTypeADJUSTMENT, ProductID: f.product.ID, StoreID: f.centro.ID},
		"traslado misma":   {Type: entity.MovementTypeTRANSFER, ProductID: f.product.ID, FromStoreID: f.centro.ID, ToStoreID: f.centro.ID, Quantity: dec(1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			in.CompanyID = company
			assert.ErrorIs(t, uc.RegisterMovement(ctx, in), domain.ErrInvalidInput)
		})
	}

	t.Run("producto de otra empresa", func(t *testing.T) {
		err := uc.RegisterMovement(ctx, MovementInputDTO{CompanyID: "otra", Type: entity.MovementTypeOUT, ProductID: f.product.ID, StoreID: f.centro.ID, Quantity: dec(1)})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
	t.Run("tienda inexistente", func(t *testing.T) {
		err := uc.RegisterMovement(ctx, MovementInputDTO{CompanyID: company, Type: entity.MovementTypeOUT, ProductID: f.product.ID, StoreID: "nada", Quantity: dec(1)})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRegisterMovement_OUTAndAdjustment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.movements()
	require.NoError(t, uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID: company, ProductID: f.product.ID, StoreID: f.centro.ID,
		Type: entity.MovementTypeIN, Quantity: dec(5), UnitCost: decPtr(80),
	}))

	err := uc.RegisterMovement(ctx, MovementInputDTO{CompanyID: company, ProductID: f.product.ID, StoreID: f.centro.ID, Type: entity.MovementTypeOUT, Quantity: dec(6)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.qty(t, f.centro.ID).Equal(dec(5)))

	require.NoError(t, uc.RegisterMovement(ctx, MovementInputDTO{CompanyID: company, ProductID: f.product.ID, StoreID: f.centro.ID, Type: entity.MovementTypeADJUSTMENT, Quantity: dec(-2)}))
	assert.True(t, f.qty(t, f.centro.ID).Equal(dec(3)))

	// Un ajuste positivo sin costo no diluye el promedio.
	require.NoError(t, uc.RegisterMovement(ctx, MovementInputDTO{CompanyID: company, ProductID: f.product.ID, StoreID: f.centro.ID, Type: entity.MovementTypeADJUSTMENT, Quantity: dec(4)}))
	assert.True(t, f.qty(t, f.centro.ID).Equal(dec(7)))
	assert.True(t, f.cost(t).Equal(dec(80)))
}

func TestRegisterMovement_TransferIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := f.movements()
	require.NoError(t, uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID: company, ProductID: f.product.ID, StoreID: f.centro.ID,
		Type: entity.MovementTypeIN, Quantity: dec(8), UnitCost: decPtr(50),
	}))

	transfer := MovementInputDTO{
		CompanyID: company, ProductID: f.product.ID, Type: entity.MovementTypeTRANSFER,
		FromStoreID: f.centro.ID, ToStoreID: f.norte.ID, Quantity: dec(3),
	}
	require.NoError(t, uc.RegisterMovement(ctx, transfer))
	assert.True(t, f.qty(t, f.centro.ID).Equal(dec(5)))
	assert.True(t, f.qty(t, f.norte.ID).Equal(dec(3)))
	assert.True(t, f.cost(t).Equal(dec(50)))

	transfer.Quantity = dec(100)
	assert.ErrorIs(t, uc.RegisterMovement(ctx, transfer), domain.ErrInsufficientStock)
	assert.True(t, f.qty(t, f.centro.ID).Equal(dec(5)))
	assert.True(t, f.qty(t, f.norte.ID).Equal(dec(3)))
}

func TestStockQuery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.movements().RegisterMovement(ctx, MovementInputDTO{
		CompanyID: company, ProductID: f.product.ID, StoreID: f.centro.ID,
		Type: entity.MovementTypeIN, Quantity: dec(4), UnitCost: decPtr(10),
	}))
	other := &entity.Product{CompanyID: company, SKU: "SAL-1", Name: "Sal", IsActive: true}
	require.NoError(t, f.repos.Products.Create(ctx, other))
	require.NoError(t, f.repos.Stock.Upsert(ctx, &entity.Stock{ProductID: other.ID, StoreID: f.centro.ID, Quantity: dec(50)}))

	uc := NewStockQueryUseCase(f.repos.Stock, f.repos.Movements, f.repos.Products, fixedSettings{entity.DefaultSettings(company)})

	all, err := uc.StockLevels(ctx, company, dto.StockLevelRequest{StoreID: f.centro.ID})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, 20, all.Page.Limit)

	low, err := uc.StockLevels(ctx, company, dto.StockLevelRequest{StoreID: f.centro.ID, LowOnly: true})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "ARR-1", low.Items[0].SKU)
	assert.True(t, low.Items[0].Low)

	movs, err := uc.Movements(ctx, company, f.product.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)

	_, err = uc.Movements(ctx, "otra", f.product.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReplenishment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	// ARR-1: punto de reorden 10, sin stock -> ideal 15.
	withQty := &entity.Product{
		CompanyID: company, SKU: "ACE-1", Name: "Aceite", SupplierID: "sup-1",
		Price: decimal.NewFromInt(100), Cost: decimal.NewFromInt(40),
		ReorderPoint: dec(6), ReorderQty: dec(24), IsActive: true,
	}
	require.NoError(t, f.repos.Products.Create(ctx, withQty))
	require.NoError(t, f.repos.Stock.Upsert(ctx, &entity.Stock{ProductID: withQty.ID, StoreID: f.centro.ID, Quantity: dec(2)}))

	uc := NewReplenishmentUseCase(f.repos.Stock, f.repos.Analytics)
	list, err := uc.GenerateReplenishmentList(ctx, company, f.centro.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	bySKU := map[string]dto.ReplenishmentSuggestionDTO{}
	for _, s := range list {
		bySKU[s.SKU] = s
	}
	assert.True(t, bySKU["ARR-1"].IdealStock.Equal(dec(15)))
	assert.True(t, bySKU["ARR-1"].SuggestedOrderQty.Equal(dec(15)))
	assert.True(t, bySKU["ACE-1"].SuggestedOrderQty.Equal(dec(24)))
	assert.Equal(t, "sup-1", bySKU["ACE-1"].SupplierID)
	assert.True(t, bySKU["ACE-1"].EstimatedOrderCost.Equal(dec(960)))

	// Sin ventas el margen se estima por precio y costo: arroz (costo 0) va primero.
	assert.Equal(t, "ARR-1", list[0].SKU)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, 2, list[1].Priority)
}

func TestTransferLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.movements().RegisterMovement(ctx, MovementInputDTO{
		CompanyID: company, ProductID: f.product.ID, StoreID: f.centro.ID,
		Type: entity.MovementTypeIN, Quantity: dec(10), UnitCost: decPtr(30),
	}))
	uc := NewTransferUseCase(f.repos.Tx, f.repos.Transfers, f.repos.Products, f.repos.Stores, nil, zerolog.Nop())
	uc.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }

	clerk := dto.Actor{CompanyID: company, UserID: "bodega", Role: entity.RoleBodeguero}
	manager := dto.Actor{CompanyID: company, UserID: "gerente", Role: entity.RoleGerente}

	req := dto.CreateTransferRequest{
		FromStoreID: f.centro.ID, ToStoreID: f.norte.ID,
		Items: []dto.TransferItemRequest{{ProductID: f.product.ID, Quantity: dec(4)}},
	}
	tr, err := uc.Request(ctx, clerk, req)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	assert.Contains(t, tr.Number, "TR-20260302-")

	_, err = uc.Receive(ctx, clerk, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	approved, err := uc.Approve(ctx, manager, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusInTransit, approved.Status)
	assert.True(t, f.qty(t, f.centro.ID).Equal(dec(6)))
	assert.True(t, f.qty(t, f.norte.ID).IsZero())

	received, err := uc.Receive(ctx, clerk, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, received.Status)
	assert.True(t, f.qty(t, f.norte.ID).Equal(dec(4)))
	assert.True(t, f.cost(t).Equal(dec(30)))

	_, err = uc.Cancel(ctx, clerk, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	list, err := uc.List(ctx, company, entity.TransferStatusCompleted, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestTransfer_ApproveRollsBackOnShortage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	second := &entity.Product{CompanyID: company, SKU: "FRI-1", Name: "Fríjol", IsActive: true}
	require.NoError(t, f.repos.Products.Create(ctx, second))
	require.NoError(t, f.repos.Stock.Upsert(ctx, &entity.Stock{ProductID: f.product.ID, StoreID: f.centro.ID, Quantity: dec(10)}))
	require.NoError(t, f.repos.Stock.Upsert(ctx, &entity.Stock{ProductID: second.ID, StoreID: f.centro.ID, Quantity: dec(1)}))

	uc := NewTransferUseCase(f.repos.Tx, f.repos.Transfers, f.repos.Products, f.repos.Stores, nil, zerolog.Nop())
	actor := dto.Actor{CompanyID: company, UserID: "gerente", Role: entity.RoleGerente}
	tr, err := uc.Request(ctx, actor, dto.CreateTransferRequest{
		FromStoreID: f.centro.ID, ToStoreID: f.norte.ID,
		Items: []dto.TransferItemRequest{
			{ProductID: f.product.ID, Quantity: dec(5)},
			{ProductID: second.ID, Quantity: dec(2)},
		},
	})
	require.NoError(t, err)

	_, err = uc.Approve(ctx, actor, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.qty(t, f.centro.ID).Equal(dec(10)))

	got, err := uc.Get(ctx, company, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, got.Status)
}

func TestTransfer_RequestValidationAndCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := NewTransferUseCase(f.repos.Tx, f.repos.Transfers, f.repos.Products, f.repos.Stores, nil, zerolog.Nop())
	clerk := dto.Actor{CompanyID: company, UserID: "bodega", Role: entity.RoleBodeguero}
	other := dto.Actor{CompanyID: company, UserID: "cajero", Role: entity.RoleCajero}

	item := dto.TransferItemRequest{ProductID: f.product.ID, Quantity: dec(1)}
	_, err := uc.Request(ctx, clerk, dto.CreateTransferRequest{FromStoreID: f.centro.ID, ToStoreID: f.centro.ID, Items: []dto.TransferItemRequest{item}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Request(ctx, clerk, dto.CreateTransferRequest{FromStoreID: f.centro.ID, ToStoreID: f.norte.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Request(ctx, clerk, dto.CreateTransferRequest{FromStoreID: f.centro.ID, ToStoreID: f.norte.ID, Items: []dto.TransferItemRequest{item, item}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tr, err := uc.Request(ctx, clerk, dto.CreateTransferRequest{FromStoreID: f.centro.ID, ToStoreID: f.norte.ID, Items: []dto.TransferItemRequest{item}})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, other, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Reject(ctx, clerk, tr.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cancelled, err := uc.Cancel(ctx, clerk, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)

	_, err = uc.Get(ctx, "otra", tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
