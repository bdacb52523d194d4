// Package billing gestiona las facturas por pagar (proveedores) y por cobrar
// (clientes): registro, abonos, anulación, cartera por edades y PDF.
package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Rangos de mora de la cartera por edades.
const (
	BucketCurrent = "current"
	Bucket1To30   = "1-30"
	Bucket31To60  = "31-60"
	Bucket61To90  = "61-90"
	BucketOver90  = "90+"
)

var agingBuckets = []string{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, BucketOver90}

var maxTaxRate = decimal.NewFromInt(100)

// SettingsReader configuración efectiva de la empresa.
type SettingsReader interface {
	Effective(ctx context.Context, companyID string) (entity.Settings, error)
}

// InvoiceUseCase casos de uso de facturas y abonos.
type InvoiceUseCase struct {
	txRunner     repository.TxRunner
	repo         repository.InvoiceRepository
	supplierRepo repository.SupplierRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	settings     SettingsReader
	generator    InvoicePDFGenerator
	publisher    *realtime.Publisher
	log          zerolog.Logger
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso inyectando todas sus dependencias.
func NewInvoiceUseCase(
	txRunner repository.TxRunner,
	repo repository.InvoiceRepository,
	supplierRepo repository.SupplierRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	settings SettingsReader,
	generator InvoicePDFGenerator,
	publisher *realtime.Publisher,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		repo:         repo,
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		settings:     settings,
		generator:    generator,
		publisher:    publisher,
		log:          log,
		now:          time.Now,
	}
}

// Create registra una factura. El número es único por empresa y tipo.
func (uc *InvoiceUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	name, err := uc.counterparty(ctx, actor.CompanyID, in.Type, in.CounterpartyID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	issue, due := in.IssueDate, in.DueDate
	if issue.IsZero() {
		issue = now
	}
	if due.IsZero() {
		due = issue
	}
	if due.Before(issue) {
		return nil, domain.ErrInvalidInput
	}

	lines := make([]entity.InvoiceLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if strings.TrimSpace(l.Description) == "" || !l.Quantity.IsPositive() || l.UnitPrice.IsNegative() ||
			l.TaxRate.IsNegative() || l.TaxRate.GreaterThan(maxTaxRate) {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, entity.InvoiceLine{
			Description: strings.TrimSpace(l.Description),
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		})
	}

	inv := &entity.Invoice{
		ID:               uuid.New().String(),
		CompanyID:        actor.CompanyID,
		Type:             in.Type,
		Number:           number,
		CounterpartyID:   in.CounterpartyID,
		CounterpartyName: name,
		IssueDate:        issue,
		DueDate:          due,
		Lines:            lines,
		AmountPaid:       decimal.Zero,
		Notes:            in.Notes,
		CreatedBy:        actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	inv.Recalculate()
	inv.Status = inv.DeriveStatus(now)
	if err := uc.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	out := uc.toResponse(inv, nil)
	uc.publisher.Notify(ctx, inv.CompanyID, realtime.TopicInvoices, realtime.EventCreated, inv.ID, out)
	return out, nil
}

func (uc *InvoiceUseCase) counterparty(ctx context.Context, companyID, invoiceType, id string) (string, error) {
	if id == "" {
		return "", domain.ErrInvalidInput
	}
	switch invoiceType {
	case entity.InvoicePayable:
		s, err := uc.supplierRepo.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if s == nil || s.CompanyID != companyID {
			return "", domain.ErrNotFound
		}
		return s.Name, nil
	case entity.InvoiceReceivable:
		c, err := uc.customerRepo.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if c == nil || c.CompanyID != companyID {
			return "", domain.ErrNotFound
		}
		return c.Name, nil
	}
	return "", domain.ErrInvalidInput
}

// RecordPayment registra un abono. No se admiten abonos a facturas anuladas o pagadas
// ni por encima del saldo.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, actor dto.Actor, id string, in dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	if !in.Amount.IsPositive() || !validPaymentMethod(in.Method) {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Invoice
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		inv, err := r.Invoices.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.CompanyID != actor.CompanyID {
			return domain.ErrForbidden
		}
		now := uc.now()
		if status := inv.DeriveStatus(now); status == entity.InvoiceStatusCancelled || status == entity.InvoiceStatusPaid {
			return domain.ErrInvalidTransition
		}
		if in.Amount.GreaterThan(inv.Balance()) {
			return domain.ErrOverpayment
		}
		paidAt := now
		if in.PaidAt != nil && !in.PaidAt.IsZero() {
			paidAt = *in.PaidAt
		}
		err = r.Invoices.CreatePayment(ctx, &entity.InvoicePayment{
			InvoiceID:  inv.ID,
			Amount:     in.Amount,
			Method:     in.Method,
			Reference:  in.Reference,
			PaidAt:     paidAt,
			RecordedBy: actor.UserID,
			CreatedAt:  now,
		})
		if err != nil {
			return err
		}
		inv.AmountPaid = inv.AmountPaid.Add(in.Amount)
		inv.Status = inv.DeriveStatus(now)
		inv.UpdatedAt = now
		result = inv
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", result.ID).Str("amount", in.Amount.String()).Str("status", result.Status).Msg("abono registrado")
	out, err := uc.withPayments(ctx, result)
	if err != nil {
		return nil, err
	}
	uc.publisher.Notify(ctx, result.CompanyID, realtime.TopicInvoices, realtime.EventUpdated, result.ID, out)
	return out, nil
}

func validPaymentMethod(m string) bool {
	switch m {
	case entity.InvoicePaymentCash, entity.InvoicePaymentTransfer, entity.InvoicePaymentCard, entity.InvoicePaymentCheck:
		return true
	}
	return false
}

// Cancel anula una factura sin abonos. La factura se bloquea igual que en
// RecordPayment, así un abono concurrente no se pierde.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		current, err := r.Invoices.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if current.Status == entity.InvoiceStatusCancelled {
			return domain.ErrInvalidTransition
		}
		if current.AmountPaid.IsPositive() {
			return domain.ErrConflict
		}
		current.Status = entity.InvoiceStatusCancelled
		current.UpdatedAt = uc.now()
		inv = current
		return r.Invoices.Update(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	out := uc.toResponse(inv, nil)
	uc.publisher.Notify(ctx, companyID, realtime.TopicInvoices, realtime.EventUpdated, inv.ID, out)
	return out, nil
}

// Get factura con sus abonos.
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return uc.withPayments(ctx, inv)
}

// List facturas de la empresa con filtros.
func (uc *InvoiceUseCase) List(ctx context.Context, companyID string, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, companyID, repository.InvoiceFilter{
		Type:           in.Type,
		Status:         in.Status,
		CounterpartyID: in.CounterpartyID,
		OpenOnly:       in.OpenOnly,
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *uc.toResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// Aging agrupa el saldo abierto por días de mora. invoiceType vacío incluye ambos tipos.
func (uc *InvoiceUseCase) Aging(ctx context.Context, companyID, invoiceType string) (*dto.AgingReportDTO, error) {
	if invoiceType != "" && invoiceType != entity.InvoicePayable && invoiceType != entity.InvoiceReceivable {
		return nil, domain.ErrInvalidInput
	}
	open, err := uc.repo.List(ctx, companyID, repository.InvoiceFilter{Type: invoiceType, OpenOnly: true})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	idx := make(map[string]int, len(agingBuckets))
	report := &dto.AgingReportDTO{Type: invoiceType, AsOf: now, Buckets: make([]dto.AgingBucketDTO, len(agingBuckets)), Total: decimal.Zero}
	for i, b := range agingBuckets {
		idx[b] = i
		report.Buckets[i] = dto.AgingBucketDTO{Bucket: b, Balance: decimal.Zero}
	}
	for _, inv := range open {
		bal := inv.Balance()
		if !bal.IsPositive() {
			continue
		}
		b := &report.Buckets[idx[AgingBucket(inv.DaysPastDue(now))]]
		b.Count++
		b.Balance = b.Balance.Add(bal)
		report.Total = report.Total.Add(bal)
	}
	return report, nil
}

// AgingBucket rango de mora para los días de atraso indicados.
func AgingBucket(daysPastDue int) string {
	switch {
	case daysPastDue <= 0:
		return BucketCurrent
	case daysPastDue <= 30:
		return Bucket1To30
	case daysPastDue <= 60:
		return Bucket31To60
	case daysPastDue <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// MarkOverdue actualiza a overdue las facturas abiertas vencidas (job invoice-sync).
func (uc *InvoiceUseCase) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := uc.repo.MarkOverdue(ctx, uc.now())
	if err != nil {
		return 0, fmt.Errorf("billing: marcar vencidas: %w", err)
	}
	if n > 0 {
		uc.log.Info().Int64("invoices", n).Msg("facturas marcadas como vencidas")
	}
	return n, nil
}

// DownloadInvoicePDF genera la representación impresa de la factura.
func (uc *InvoiceUseCase) DownloadInvoicePDF(ctx context.Context, companyID, id string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	payments, err := uc.repo.ListPayments(ctx, inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener abonos: %w", err)
	}
	settings, err := uc.settings.Effective(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	inv.Status = inv.DeriveStatus(uc.now())
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoiceDocument{
		Invoice:      inv,
		Company:      company,
		Payments:     payments,
		CurrencyCode: settings.CurrencyCode,
		Locale:       settings.Locale,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s_%s.pdf", inv.Type, inv.Number), nil
}

func (uc *InvoiceUseCase) owned(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func (uc *InvoiceUseCase) withPayments(ctx context.Context, inv *entity.Invoice) (*dto.InvoiceResponse, error) {
	payments, err := uc.repo.ListPayments(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(inv, payments), nil
}

// toResponse deriva estado y mora al momento de la consulta.
func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, payments []*entity.InvoicePayment) *dto.InvoiceResponse {
	now := uc.now()
	lines := make([]dto.InvoiceLineResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, dto.InvoiceLineResponse{
			Description: l.Description,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			Subtotal:    l.Subtotal,
			TaxAmount:   l.TaxAmount,
		})
	}
	var pays []dto.InvoicePaymentResponse
	for _, p := range payments {
		pays = append(pays, dto.InvoicePaymentResponse{
			ID:         p.ID,
			Amount:     p.Amount,
			Method:     p.Method,
			Reference:  p.Reference,
			PaidAt:     p.PaidAt,
			RecordedBy: p.RecordedBy,
		})
	}
	return &dto.InvoiceResponse{
		ID:               inv.ID,
		Type:             inv.Type,
		Number:           inv.Number,
		CounterpartyID:   inv.CounterpartyID,
		CounterpartyName: inv.CounterpartyName,
		PurchaseOrderID:  inv.PurchaseOrderID,
		IssueDate:        inv.IssueDate,
		DueDate:          inv.DueDate,
		Lines:            lines,
		Subtotal:         inv.Subtotal,
		TaxTotal:         inv.TaxTotal,
		Total:            inv.Total,
		AmountPaid:       inv.AmountPaid,
		Balance:          inv.Balance(),
		Status:           inv.DeriveStatus(now),
		DaysPastDue:      inv.DaysPastDue(now),
		Notes:            inv.Notes,
		Payments:         pays,
		CreatedAt:        inv.CreatedAt,
	}
}
