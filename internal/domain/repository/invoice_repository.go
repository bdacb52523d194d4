package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	Type           string
	Status         string
	CounterpartyID string
	OpenOnly       bool // pending, partial u overdue
	Limit          int
	Offset         int
}

// InvoiceRepository define el puerto de persistencia para facturas y abonos.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, companyID, invoiceType, number string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la factura para registrar un abono.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	Update(ctx context.Context, inv *entity.Invoice) error
	List(ctx context.Context, companyID string, f InvoiceFilter) ([]*entity.Invoice, error)
	CreatePayment(ctx context.Context, p *entity.InvoicePayment) error
	ListPayments(ctx context.Context, invoiceID string) ([]*entity.InvoicePayment, error)
	// MarkOverdue pasa a overdue las facturas abiertas vencidas antes de now. Devuelve cuántas cambió.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}
