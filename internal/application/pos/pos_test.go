package pos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

type defaults struct{}

func (defaults) Effective(_ context.Context, companyID string) (entity.Settings, error) {
	return entity.DefaultSettings(companyID), nil
}

type fakeRenderer struct{}

func (fakeRenderer) RenderReceipt(_ context.Context, r hardware.Receipt) ([]byte, error) {
	return []byte("%PDF-" + r.Number), nil
}

type fixture struct {
	repos    memory.Repositories
	uc       *SaleUseCase
	devices  *hardware.Manager
	company  *entity.Company
	store    *entity.Store
	product  *entity.Product
	customer *entity.Customer
	cajero   dto.Actor
	gerente  dto.Actor
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newFixture(t *testing.T, opts hardware.Options) fixture {
	t.Helper()
	ctx := context.Background()
	r := memory.NewStore().Repositories()

	company := &entity.Company{Name: "Tiendas Demo", NIT: "900123456", Status: "active"}
	require.NoError(t, r.Companies.Create(ctx, company))
	store := &entity.Store{CompanyID: company.ID, Code: "CENTRO", Name: "Centro", IsActive: true}
	require.NoError(t, r.Stores.Create(ctx, store))
	cajero := &entity.User{CompanyID: company.ID, StoreID: store.ID, Email: "caja@demo.co", Name: "Carla Caja", Role: entity.RoleCajero, Status: entity.UserStatusActive}
	gerente := &entity.User{CompanyID: company.ID, Email: "gerente@demo.co", Name: "Gema Gerente", Role: entity.RoleGerente, Status: entity.UserStatusActive}
	require.NoError(t, r.Users.Create(ctx, cajero))
	require.NoError(t, r.Users.Create(ctx, gerente))

	product := &entity.Product{
		CompanyID: company.ID, SKU: "CAFE-500", Name: "Café 500g",
		Price: dec(10000), Cost: dec(6000), TaxRate: dec(19), IsActive: true,
	}
	require.NoError(t, r.Products.Create(ctx, product))
	require.NoError(t, r.Stock.Upsert(ctx, &entity.Stock{ProductID: product.ID, StoreID: store.ID, Quantity: dec(10)}))

	customer := &entity.Customer{CompanyID: company.ID, Name: "Ana Cliente", LoyaltyPoints: 500}
	require.NoError(t, r.Customers.Create(ctx, customer))

	opts.SpoolDir = t.TempDir()
	opts.Renderer = fakeRenderer{}
	opts.Log = zerolog.Nop()
	devices := hardware.NewManager(opts)
	for _, d := range hardware.Devices {
		require.NoError(t, devices.Connect(ctx, d))
	}

	uc := NewSaleUseCase(Deps{
		TxRunner:     r.Tx,
		Sales:        r.Sales,
		Products:     r.Products,
		Customers:    r.Customers,
		Promotions:   r.Promotions,
		CashSessions: r.CashSessions,
		Stores:       r.Stores,
		Companies:    r.Companies,
		Users:        r.Users,
		Settings:     defaults{},
		Devices:      devices,
		Renderer:     fakeRenderer{},
		Log:          zerolog.Nop(),
	})
	return fixture{
		repos: r, uc: uc, devices: devices, company: company, store: store,
		product: product, customer: customer,
		cajero:  dto.Actor{CompanyID: company.ID, UserID: cajero.ID, StoreID: store.ID, Role: entity.RoleCajero},
		gerente: dto.Actor{CompanyID: company.ID, UserID: gerente.ID, StoreID: store.ID, Role: entity.RoleGerente},
	}
}

func (f fixture) openSession(t *testing.T, actor dto.Actor) *entity.CashSession {
	t.Helper()
	cs := &entity.CashSession{
		CompanyID: actor.CompanyID, StoreID: f.store.ID, UserID: actor.UserID,
		Status: entity.CashSessionOpen, OpeningFloat: dec(100000), OpenedAt: time.Now(),
	}
	require.NoError(t, f.repos.CashSessions.Create(context.Background(), cs))
	return cs
}

func (f fixture) cart(qty int64, discountPct int64) dto.CartRequest {
	return dto.CartRequest{
		StoreID: f.store.ID,
		Lines:   []dto.CartLineRequest{{ProductID: f.product.ID, Quantity: dec(qty), DiscountPct: dec(discountPct)}},
	}
}

func (f fixture) stock(t *testing.T) decimal.Decimal {
	t.Helper()
	st, err := f.repos.Stock.Get(context.Background(), f.product.ID, f.store.ID)
	require.NoError(t, err)
	if st == nil {
		return decimal.Zero
	}
	return st.Quantity
}

func (f fixture) points(t *testing.T) int64 {
	t.Helper()
	c, err := f.repos.Customers.GetByID(context.Background(), f.customer.ID)
	require.NoError(t, err)
	return c.LoyaltyPoints
}

func cash(v int64) []dto.PaymentRequest {
	return []dto.PaymentRequest{{Method: entity.PaymentCash, Amount: dec(v)}}
}

func TestQuote(t *testing.T) {
	f := newFixture(t, hardware.Options{})

	q, err := f.uc.Quote(context.Background(), f.cajero, f.cart(2, 5))
	require.NoError(t, err)
	assert.True(t, dec(20000).Equal(q.Subtotal))
	assert.True(t, dec(1000).Equal(q.DiscountTotal))
	assert.True(t, dec(3610).Equal(q.TaxTotal))
	assert.True(t, dec(22610).Equal(q.Total))
	assert.True(t, dec(22610).Equal(q.AmountDue))
	assert.False(t, q.NeedsApproval)
	assert.Equal(t, int64(22), q.PointsEarnable)

	q, err = f.uc.Quote(context.Background(), f.cajero, f.cart(1, 30))
	require.NoError(t, err)
	assert.True(t, q.NeedsApproval)
}

func TestCheckout_CashWithChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})
	session := f.openSession(t, f.cajero)

	in := dto.CheckoutRequest{Cart: f.cart(2, 5), Payments: cash(30000)}
	in.Cart.CustomerID = f.customer.ID
	out, err := f.uc.Checkout(ctx, f.cajero, in)
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCompleted, out.Status)
	assert.True(t, dec(7390).Equal(out.ChangeDue), out.ChangeDue.String())
	assert.Equal(t, session.ID, out.CashSessionID)
	assert.Equal(t, int64(22), out.PointsEarned)
	assert.NotNil(t, out.CompletedAt)
	assert.True(t, dec(8).Equal(f.stock(t)))
	assert.Equal(t, int64(522), f.points(t))
	assert.Equal(t, 1, f.devices.DrawerOpenings())

	require.NotEmpty(t, out.ReceiptPath)
	_, statErr := os.Stat(out.ReceiptPath)
	assert.NoError(t, statErr)

	sale, err := f.repos.Sales.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.True(t, dec(6000).Equal(sale.Items[0].UnitCost))

	cust, err := f.repos.Customers.GetByID(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.True(t, dec(22610).Equal(cust.TotalSpent))
}

func TestCheckout_Rules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})

	_, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: f.cart(1, 0), Payments: cash(20000)})
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)

	f.openSession(t, f.cajero)

	_, err = f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: f.cart(1, 20), Payments: cash(20000)})
	assert.ErrorIs(t, err, domain.ErrApprovalRequired)

	override := f.cart(1, 0)
	price := dec(5000)
	override.Lines[0].UnitPrice = &price
	_, err = f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: override, Payments: cash(20000)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: f.cart(1, 0), Payments: cash(1000)})
	assert.ErrorIs(t, err, domain.ErrPaymentInsufficient)

	_, err = f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{
		Cart:     f.cart(1, 0),
		Payments: []dto.PaymentRequest{{Method: entity.PaymentCard, Amount: dec(20000)}},
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	_, err = f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: f.cart(20, 0), Payments: cash(300000)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, dec(10).Equal(f.stock(t)))

	// El gerente puede aplicar el descuento y sobrescribir el precio.
	f.openSession(t, f.gerente)
	gerenteCart := f.cart(1, 20)
	gerenteCart.Lines[0].UnitPrice = &price
	out, err := f.uc.Checkout(ctx, f.gerente, dto.CheckoutRequest{Cart: gerenteCart, Payments: cash(10000)})
	require.NoError(t, err)
	assert.True(t, dec(4760).Equal(out.Total), out.Total.String())
}

func TestCheckout_SplitCardAndCash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})
	f.openSession(t, f.cajero)

	out, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{
		Cart: f.cart(1, 0), // total 11900
		Payments: []dto.PaymentRequest{
			{Method: entity.PaymentCard, Amount: dec(5000)},
			{Method: entity.PaymentCash, Amount: dec(10000)},
		},
	})
	require.NoError(t, err)
	assert.True(t, dec(3100).Equal(out.ChangeDue))
	require.Len(t, out.Payments, 2)
	assert.Equal(t, entity.PaymentCard, out.Payments[0].Method)
	assert.Len(t, out.Payments[0].Reference, 6)
	assert.Equal(t, "4242", out.Payments[0].CardLast4)
}

func TestCheckout_CardDeclinedAbortsSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{DeclineOver: dec(5000)})

	_, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{
		Cart:     f.cart(1, 0),
		Payments: []dto.PaymentRequest{{Method: entity.PaymentCard, Amount: dec(11900)}},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	assert.True(t, dec(10).Equal(f.stock(t)))

	list, err := f.uc.List(ctx, f.company.ID, dto.SaleListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCheckout_AnulaAutorizacionesAlFallar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{DeclineOver: dec(6000)})

	// La segunda tarjeta se rechaza: la primera queda anulada.
	_, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{
		Cart: f.cart(1, 0),
		Payments: []dto.PaymentRequest{
			{Method: entity.PaymentCard, Amount: dec(5000)},
			{Method: entity.PaymentCard, Amount: dec(6900)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	assert.Equal(t, 1, f.devices.VoidedAuthorizations())

	// Autorizada pero sin stock suficiente: la transacción falla y se anula.
	f.devices = hardware.NewManager(hardware.Options{Log: zerolog.Nop()})
	require.NoError(t, f.devices.Connect(ctx, hardware.CardReader))
	f.uc.Devices = f.devices
	_, err = f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{
		Cart:     f.cart(11, 0),
		Payments: []dto.PaymentRequest{{Method: entity.PaymentCard, Amount: dec(130900)}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.devices.VoidedAuthorizations())
	assert.True(t, dec(10).Equal(f.stock(t)))
}

func TestCheckout_CardWithoutDevices(t *testing.T) {
	f := newFixture(t, hardware.Options{})
	f.uc.Devices = nil

	_, err := f.uc.Checkout(context.Background(), f.cajero, dto.CheckoutRequest{
		Cart:     f.cart(1, 0),
		Payments: []dto.PaymentRequest{{Method: entity.PaymentCard, Amount: dec(11900)}},
	})
	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
}

func TestCheckout_RedeemPoints(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})
	f.openSession(t, f.cajero)

	noCustomer := f.cart(1, 0)
	noCustomer.PointsToRedeem = 100
	_, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: noCustomer, Payments: cash(20000)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tooMany := f.cart(1, 0)
	tooMany.CustomerID = f.customer.ID
	tooMany.PointsToRedeem = 501
	_, err = f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: tooMany, Payments: cash(20000)})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	// 500 puntos * 10 = 5000; total 11900 => 6900 en efectivo.
	c := f.cart(1, 0)
	c.CustomerID = f.customer.ID
	c.PointsToRedeem = 500
	out, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: c, Payments: cash(6900)})
	require.NoError(t, err)
	assert.True(t, out.ChangeDue.IsZero())
	assert.Equal(t, int64(500), out.PointsRedeemed)
	assert.Equal(t, int64(6), out.PointsEarned)
	assert.Equal(t, int64(6), f.points(t))
	require.Len(t, out.Payments, 2)
	assert.Equal(t, entity.PaymentPoints, out.Payments[1].Method)
	assert.True(t, dec(5000).Equal(out.Payments[1].Amount))
}

func TestCheckout_PromotionUsageLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})
	f.openSession(t, f.cajero)
	promo := &entity.Promotion{
		CompanyID: f.company.ID, Code: "BIENVENIDA", Name: "Bienvenida",
		Type: entity.PromotionPercentage, Value: dec(10),
		StartsAt: time.Now().Add(-time.Hour), UsageLimit: 1, IsActive: true,
	}
	require.NoError(t, f.repos.Promotions.Create(ctx, promo))

	c := f.cart(1, 0)
	c.PromotionCode = "bienvenida"
	out, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: c, Payments: cash(20000)})
	require.NoError(t, err)
	assert.Equal(t, "BIENVENIDA", out.PromotionCode)
	assert.True(t, dec(1000).Equal(out.DiscountTotal))
	assert.True(t, dec(10710).Equal(out.Total), out.Total.String())

	_, err = f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: c, Payments: cash(20000)})
	assert.ErrorIs(t, err, domain.ErrPromotionInvalid)

	c.PromotionCode = "NO-EXISTE"
	_, err = f.uc.Quote(ctx, f.cajero, c)
	assert.ErrorIs(t, err, domain.ErrPromotionInvalid)
}

func TestBasketLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})
	f.openSession(t, f.cajero)

	held, err := f.uc.Hold(ctx, f.cajero, dto.HoldRequest{Cart: f.cart(2, 20), Note: "cliente frecuente"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPendingApproval, held.Status)
	assert.True(t, dec(10).Equal(f.stock(t)), "la canasta no reserva stock")

	pending, err := f.uc.ListPending(ctx, f.company.ID, "")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = f.uc.CheckoutBasket(ctx, f.cajero, held.ID, dto.PayBasketRequest{Payments: cash(50000)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	approved, err := f.uc.Approve(ctx, f.gerente, held.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusApproved, approved.Status)
	assert.Equal(t, f.gerente.UserID, approved.ApprovedBy)

	_, err = f.uc.Approve(ctx, f.gerente, held.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// 2 * 10000 - 20% = 16000 + 19% = 19040
	done, err := f.uc.CheckoutBasket(ctx, f.cajero, held.ID, dto.PayBasketRequest{Payments: cash(20000)})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, done.Status)
	assert.True(t, dec(960).Equal(done.ChangeDue), done.ChangeDue.String())
	assert.Equal(t, "cliente frecuente", done.Notes)
	assert.True(t, dec(8).Equal(f.stock(t)))

	pending, err = f.uc.ListPending(ctx, f.company.ID, "")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCheckoutBasket_RevalidaPuntos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})
	f.openSession(t, f.cajero)

	// 10 * 10000 + 19% = 119000; 500 puntos valen 5000 y la venta gana 114.
	c := f.cart(10, 0)
	c.CustomerID = f.customer.ID
	c.PointsToRedeem = 500
	held, err := f.uc.Hold(ctx, f.cajero, dto.HoldRequest{Cart: c})
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.gerente, held.ID)
	require.NoError(t, err)

	// El cliente gasta 50 puntos antes de que se cobre la canasta.
	require.NoError(t, f.repos.Customers.AddLoyalty(ctx, f.customer.ID, -50, decimal.Zero))

	_, err = f.uc.CheckoutBasket(ctx, f.cajero, held.ID, dto.PayBasketRequest{Payments: cash(114000)})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
	assert.Equal(t, int64(450), f.points(t))
	assert.True(t, dec(10).Equal(f.stock(t)))

	got, err := f.uc.Get(ctx, f.company.ID, held.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusApproved, got.Status)
}

func TestBasketReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})

	held, err := f.uc.Hold(ctx, f.cajero, dto.HoldRequest{Cart: f.cart(1, 50)})
	require.NoError(t, err)

	_, err = f.uc.Reject(ctx, f.gerente, held.ID, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rejected, err := f.uc.Reject(ctx, f.gerente, held.ID, "descuento excesivo")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusRejected, rejected.Status)
	assert.Equal(t, "descuento excesivo", rejected.VoidReason)

	_, err = f.uc.CheckoutBasket(ctx, f.cajero, held.ID, dto.PayBasketRequest{Payments: cash(50000)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	other := dto.Actor{CompanyID: "otra", UserID: "x", Role: entity.RoleAdmin}
	_, err = f.uc.Get(ctx, other.CompanyID, held.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestVoid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})
	f.openSession(t, f.cajero)

	c := f.cart(2, 0) // total 23800 => 23 puntos
	c.CustomerID = f.customer.ID
	sale, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: c, Payments: cash(23800)})
	require.NoError(t, err)
	assert.Equal(t, int64(523), f.points(t))

	_, err = f.uc.Void(ctx, f.gerente, sale.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	voided, err := f.uc.Void(ctx, f.gerente, sale.ID, "producto equivocado")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusVoided, voided.Status)
	assert.True(t, dec(10).Equal(f.stock(t)))
	assert.Equal(t, int64(500), f.points(t))

	_, err = f.uc.Void(ctx, f.gerente, sale.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	movements, err := f.repos.Movements.ListByProduct(ctx, f.product.ID, 10)
	require.NoError(t, err)
	var types []string
	for _, m := range movements {
		types = append(types, m.Type)
	}
	assert.Contains(t, types, entity.MovementTypeRETURN)

	pdf, name, err := f.uc.ReceiptPDF(ctx, f.company.ID, sale.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "recibo_"+sale.Number+".pdf", name)
}

func TestVoid_OnlySameDayAndClampsPoints(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})
	f.openSession(t, f.cajero)

	c := f.cart(2, 0)
	c.CustomerID = f.customer.ID
	sale, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: c, Payments: cash(23800)})
	require.NoError(t, err)

	// El cliente gasta todos sus puntos antes de la anulación.
	require.NoError(t, f.repos.Customers.AddLoyalty(ctx, f.customer.ID, -523, decimal.Zero))
	_, err = f.uc.Void(ctx, f.gerente, sale.ID, "devolución")
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.points(t))

	second, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: f.cart(1, 0), Payments: cash(11900)})
	require.NoError(t, err)
	f.uc.now = func() time.Time { return time.Now().AddDate(0, 0, 1) }
	_, err = f.uc.Void(ctx, f.gerente, second.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, hardware.Options{})
	f.openSession(t, f.cajero)
	_, err := f.uc.Checkout(ctx, f.cajero, dto.CheckoutRequest{Cart: f.cart(1, 0), Payments: cash(11900)})
	require.NoError(t, err)
	_, err = f.uc.Hold(ctx, f.cajero, dto.HoldRequest{Cart: f.cart(1, 0)})
	require.NoError(t, err)

	all, err := f.uc.List(ctx, f.company.ID, dto.SaleListRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 20, all.Page.Limit)

	completed, err := f.uc.List(ctx, f.company.ID, dto.SaleListRequest{Status: entity.SaleStatusCompleted})
	require.NoError(t, err)
	assert.Len(t, completed.Items, 1)

	today := time.Now().Format(dto.DateLayout)
	ranged, err := f.uc.List(ctx, f.company.ID, dto.SaleListRequest{From: today, To: today})
	require.NoError(t, err)
	assert.Len(t, ranged.Items, 2)

	_, err = f.uc.List(ctx, f.company.ID, dto.SaleListRequest{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
