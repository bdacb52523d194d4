package billing

import (
	"context"
	"fmt"
	"sync"
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

var today = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type defaults struct{}

func (defaults) Effective(_ context.Context, companyID string) (entity.Settings, error) {
	return entity.DefaultSettings(companyID), nil
}

type fakePDF struct{ got InvoiceDocument }

func (f *fakePDF) GenerateInvoicePDF(_ context.Context, doc InvoiceDocument) ([]byte, error) {
	f.got = doc
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	repos    memory.Repositories
	uc       *InvoiceUseCase
	pdf      *fakePDF
	supplier *entity.Supplier
	customer *entity.Customer
	actor    dto.Actor
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	r := memory.NewStore().Repositories()
	require.NoError(t, r.Companies.Create(ctx, &entity.Company{ID: company, Name: "Tiendas Demo", NIT: "900123456"}))
	supplier := &entity.Supplier{CompanyID: company, Name: "Lácteos del Valle", Status: "active"}
	require.NoError(t, r.Suppliers.Create(ctx, supplier))
	customer := &entity.Customer{CompanyID: company, Name: "Hotel Central"}
	require.NoError(t, r.Customers.Create(ctx, customer))
	pdf := &fakePDF{}
	uc := NewInvoiceUseCase(r.Tx, r.Invoices, r.Suppliers, r.Customers, r.Companies, defaults{}, pdf, nil, zerolog.Nop())
	uc.now = func() time.Time { return today }
	return &fixture{
		repos: r, uc: uc, pdf: pdf, supplier: supplier, customer: customer,
		actor: dto.Actor{CompanyID: company, UserID: "contador", Role: entity.RoleContador},
	}
}

func (f *fixture) create(t *testing.T, number string, due time.Time) *dto.InvoiceResponse {
	t.Helper()
	inv, err := f.uc.Create(context.Background(), f.actor, dto.CreateInvoiceRequest{
		Type: entity.InvoiceReceivable, Number: number, CounterpartyID: f.customer.ID,
		IssueDate: due.AddDate(0, 0, -30), DueDate: due,
		Lines: []dto.InvoiceLineRequest{{Description: "Suministro", Quantity: dec(2), UnitPrice: dec(50000), TaxRate: dec(19)}},
	})
	require.NoError(t, err)
	return inv
}

func TestInvoice_CreateComputesTotals(t *testing.T) {
	f := newFixture(t)
	inv := f.create(t, "FC-1", today.AddDate(0, 0, 10))
	assert.True(t, inv.Subtotal.Equal(dec(100000)))
	assert.True(t, inv.TaxTotal.Equal(dec(19000)))
	assert.True(t, inv.Total.Equal(dec(119000)))
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	assert.Equal(t, "Hotel Central", inv.CounterpartyName)
}

func TestInvoice_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	line := []dto.InvoiceLineRequest{{Description: "x", Quantity: dec(1), UnitPrice: dec(1)}}

	_, err := f.uc.Create(ctx, f.actor, dto.CreateInvoiceRequest{Type: "gasto", Number: "1", CounterpartyID: f.supplier.ID, Lines: line})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, f.actor, dto.CreateInvoiceRequest{Type: entity.InvoicePayable, Number: "1", CounterpartyID: f.customer.ID, Lines: line})
	assert.ErrorIs(t, err, domain.ErrNotFound, "un cliente no es proveedor")

	_, err = f.uc.Create(ctx, f.actor, dto.CreateInvoiceRequest{
		Type: entity.InvoicePayable, Number: "1", CounterpartyID: f.supplier.ID, Lines: line,
		IssueDate: today, DueDate: today.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, f.actor, dto.CreateInvoiceRequest{Type: entity.InvoicePayable, Number: "P-1", CounterpartyID: f.supplier.ID, Lines: line})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, f.actor, dto.CreateInvoiceRequest{Type: entity.InvoicePayable, Number: "P-1", CounterpartyID: f.supplier.ID, Lines: line})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	// El mismo número se admite en el otro tipo.
	_, err = f.uc.Create(ctx, f.actor, dto.CreateInvoiceRequest{Type: entity.InvoiceReceivable, Number: "P-1", CounterpartyID: f.customer.ID, Lines: line})
	assert.NoError(t, err)
}

func TestInvoice_RecordPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.create(t, "FC-2", today.AddDate(0, 0, 5))

	_, err := f.uc.RecordPayment(ctx, f.actor, inv.ID, dto.RecordPaymentRequest{Amount: dec(0), Method: "cash"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.RecordPayment(ctx, f.actor, inv.ID, dto.RecordPaymentRequest{Amount: dec(1), Method: "bitcoin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.RecordPayment(ctx, f.actor, inv.ID, dto.RecordPaymentRequest{Amount: dec(119001), Method: "cash"})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	partial, err := f.uc.RecordPayment(ctx, f.actor, inv.ID, dto.RecordPaymentRequest{Amount: dec(19000), Method: "transfer", Reference: "TRX-1"})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPartial, partial.Status)
	assert.True(t, partial.Balance.Equal(dec(100000)))
	require.Len(t, partial.Payments, 1)

	paid, err := f.uc.RecordPayment(ctx, f.actor, inv.ID, dto.RecordPaymentRequest{Amount: dec(100000), Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)
	assert.Len(t, paid.Payments, 2)

	_, err = f.uc.RecordPayment(ctx, f.actor, inv.ID, dto.RecordPaymentRequest{Amount: dec(1), Method: "cash"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.Cancel(ctx, company, inv.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoice_OverdueTakesPrecedenceOverPartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.create(t, "FC-3", today.AddDate(0, 0, -3))
	assert.Equal(t, entity.InvoiceStatusOverdue, inv.Status)
	assert.Equal(t, 3, inv.DaysPastDue)

	got, err := f.uc.RecordPayment(ctx, f.actor, inv.ID, dto.RecordPaymentRequest{Amount: dec(1000), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusOverdue, got.Status)
}

func TestInvoice_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.create(t, "FC-4", today)

	cancelled, err := f.uc.Cancel(ctx, company, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, cancelled.Status)

	_, err = f.uc.Cancel(ctx, company, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.RecordPayment(ctx, f.actor, inv.ID, dto.RecordPaymentRequest{Amount: dec(1), Method: "cash"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Get(ctx, "otra", inv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestInvoice_CancelConcurrenteConAbono(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 20; i++ {
		inv := f.create(t, fmt.Sprintf("FC-C%d", i), today.AddDate(0, 0, 10))

		var wg sync.WaitGroup
		var payErr, cancelErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, payErr = f.uc.RecordPayment(ctx, f.actor, inv.ID, dto.RecordPaymentRequest{Amount: dec(1000), Method: "cash"})
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = f.uc.Cancel(ctx, company, inv.ID)
		}()
		wg.Wait()

		got, err := f.uc.Get(ctx, company, inv.ID)
		require.NoError(t, err)
		if got.Status == entity.InvoiceStatusCancelled {
			require.NoError(t, cancelErr)
			assert.ErrorIs(t, payErr, domain.ErrInvalidTransition)
			assert.True(t, got.AmountPaid.IsZero())
			assert.Empty(t, got.Payments)
			continue
		}
		require.NoError(t, payErr)
		assert.ErrorIs(t, cancelErr, domain.ErrConflict)
		assert.True(t, got.AmountPaid.Equal(dec(1000)))
		assert.Len(t, got.Payments, 1)
	}
}

func TestInvoice_AgingAndMarkOverdue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.create(t, "A-current", today.AddDate(0, 0, 3))
	f.create(t, "A-10", today.AddDate(0, 0, -10))
	f.create(t, "A-45", today.AddDate(0, 0, -45))
	f.create(t, "A-120", today.AddDate(0, 0, -120))
	cancelled := f.create(t, "A-cancel", today.AddDate(0, 0, -10))
	_, err := f.uc.Cancel(ctx, company, cancelled.ID)
	require.NoError(t, err)

	report, err := f.uc.Aging(ctx, company, entity.InvoiceReceivable)
	require.NoError(t, err)
	require.Len(t, report.Buckets, 5)
	counts := map[string]int{}
	for _, b := range report.Buckets {
		counts[b.Bucket] = b.Count
	}
	assert.Equal(t, map[string]int{BucketCurrent: 1, Bucket1To30: 1, Bucket31To60: 1, Bucket61To90: 0, BucketOver90: 1}, counts)
	assert.True(t, report.Total.Equal(dec(4*119000)))

	_, err = f.uc.Aging(ctx, company, "otro")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Tres facturas nacieron vencidas; al avanzar el reloj vence también la vigente.
	f.uc.now = func() time.Time { return today.AddDate(0, 0, 5) }
	n, err := f.uc.MarkOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := f.uc.List(ctx, company, dto.InvoiceListRequest{Status: entity.InvoiceStatusOverdue})
	require.NoError(t, err)
	assert.Len(t, list.Items, 4)
}

func TestAgingBucket(t *testing.T) {
	cases := map[int]string{0: BucketCurrent, 1: Bucket1To30, 30: Bucket1To30, 31: Bucket31To60, 60: Bucket31To60, 61: Bucket61To90, 90: Bucket61To90, 91: BucketOver90}
	for days, want := range cases {
		assert.Equal(t, want, AgingBucket(days), "días %d", days)
	}
}

func TestInvoice_DownloadPDF(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.create(t, "FC-9", today)

	data, name, err := f.uc.DownloadInvoicePDF(ctx, company, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	assert.Equal(t, "factura_receivable_FC-9.pdf", name)
	assert.Equal(t, "COP", f.pdf.got.CurrencyCode)
	assert.Equal(t, "Tiendas Demo", f.pdf.got.Company.Name)
}
