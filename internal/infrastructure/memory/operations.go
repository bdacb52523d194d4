package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.StockRepository             = (*StockRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
	_ repository.SaleRepository              = (*SaleRepo)(nil)
	_ repository.TransferRepository          = (*TransferRepo)(nil)
	_ repository.PurchaseOrderRepository     = (*PurchaseOrderRepo)(nil)
	_ repository.InvoiceRepository           = (*InvoiceRepo)(nil)
	_ repository.CashSessionRepository       = (*CashSessionRepo)(nil)
	_ repository.SettingsRepository          = (*SettingsRepo)(nil)
)

// StockRepo stock por producto y tienda.
type StockRepo struct{ s *Store }

func (r *StockRepo) Get(_ context.Context, productID, storeID string) (*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.data.stock[stockKey{productID, storeID}]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *StockRepo) GetForUpdate(_ context.Context, productID, storeID string) (*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.data.stock[stockKey{productID, storeID}]
	if !ok {
		return &entity.Stock{ProductID: productID, StoreID: storeID, Quantity: decimal.Zero}, nil
	}
	return &st, nil
}

func (r *StockRepo) Upsert(_ context.Context, st *entity.Stock) error {
	defer r.s.lockWrite()()
	r.s.data.stock[stockKey{st.ProductID, st.StoreID}] = *st
	return nil
}

func (r *StockRepo) List(_ context.Context, companyID string, f repository.StockFilter) ([]repository.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []repository.StockLevel
	for _, p := range r.s.data.products {
		if p.CompanyID != companyID || !p.IsActive {
			continue
		}
		qty := stockQty(r.s.data, p.ID, f.StoreID)
		if f.LowOnly && !entity.IsLowStock(qty, p.ReorderPoint, f.LowThreshold) {
			continue
		}
		out = append(out, repository.StockLevel{
			ProductID:    p.ID,
			SKU:          p.SKU,
			ProductName:  p.Name,
			StoreID:      f.StoreID,
			Quantity:     qty,
			ReorderPoint: p.ReorderPoint,
		})
	}
	sortByName(out, func(l repository.StockLevel) string { return l.ProductName })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *StockRepo) BelowReorderPoint(_ context.Context, companyID, storeID string) ([]repository.ReplenishmentItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []repository.ReplenishmentItem
	for _, p := range r.s.data.products {
		if p.CompanyID != companyID || !p.IsActive || !p.ReorderPoint.IsPositive() {
			continue
		}
		qty := stockQty(r.s.data, p.ID, storeID)
		if !qty.LessThan(p.ReorderPoint) {
			continue
		}
		out = append(out, repository.ReplenishmentItem{
			ProductID:    p.ID,
			SKU:          p.SKU,
			ProductName:  p.Name,
			SupplierID:   p.SupplierID,
			CurrentStock: qty,
			ReorderPoint: p.ReorderPoint,
			ReorderQty:   p.ReorderQty,
			UnitCost:     p.Cost,
			Price:        p.Price,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		di := out[i].ReorderPoint.Sub(out[i].CurrentStock)
		dj := out[j].ReorderPoint.Sub(out[j].CurrentStock)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

// MovementRepo kardex.
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	defer r.s.lockWrite()()
	m.ID = newID(m.ID)
	r.s.data.movements = append(r.s.data.movements, *m)
	return nil
}

func (r *MovementRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.InventoryMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InventoryMovement
	for i := len(r.s.data.movements) - 1; i >= 0; i-- {
		m := r.s.data.movements[i]
		if m.ProductID == productID {
			out = append(out, &m)
		}
	}
	return paginate(out, limit, 0), nil
}

// SaleRepo ventas y canastas.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	defer r.s.lockWrite()()
	sale.ID = newID(sale.ID)
	for i := range sale.Items {
		sale.Items[i].ID = newID(sale.Items[i].ID)
		sale.Items[i].SaleID = sale.ID
	}
	for i := range sale.Payments {
		sale.Payments[i].ID = newID(sale.Payments[i].ID)
		sale.Payments[i].SaleID = sale.ID
	}
	r.s.data.sales[sale.ID] = copySale(*sale)
	return nil
}

// GetByIDForUpdate equivale a GetByID: las transacciones ya están serializadas.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.data.sales[id]
	if !ok {
		return nil, nil
	}
	sale = copySale(sale)
	return &sale, nil
}

func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	for i := range sale.Payments {
		sale.Payments[i].ID = newID(sale.Payments[i].ID)
		sale.Payments[i].SaleID = sale.ID
	}
	r.s.data.sales[sale.ID] = copySale(*sale)
	return nil
}

func (r *SaleRepo) List(_ context.Context, companyID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Sale
	for _, sale := range r.s.data.sales {
		if sale.CompanyID != companyID {
			continue
		}
		if (f.StoreID != "" && sale.StoreID != f.StoreID) ||
			(f.Status != "" && sale.Status != f.Status) ||
			(f.CashierID != "" && sale.CashierID != f.CashierID) {
			continue
		}
		if (f.From != nil && sale.CreatedAt.Before(*f.From)) || (f.To != nil && sale.CreatedAt.After(*f.To)) {
			continue
		}
		cp := copySale(sale)
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *SaleRepo) ListBySession(_ context.Context, sessionID string) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Sale
	for _, sale := range r.s.data.sales {
		if sale.CashSessionID == sessionID {
			cp := copySale(sale)
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// TransferRepo traslados entre tiendas.
type TransferRepo struct{ s *Store }

func (r *TransferRepo) Create(_ context.Context, t *entity.InventoryTransfer) error {
	defer r.s.lockWrite()()
	t.ID = newID(t.ID)
	r.s.data.transfers[t.ID] = copyTransfer(*t)
	return nil
}

// GetByIDForUpdate equivale a GetByID: las transacciones ya están serializadas.
func (r *TransferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.InventoryTransfer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.data.transfers[id]
	if !ok {
		return nil, nil
	}
	t = copyTransfer(t)
	return &t, nil
}

func (r *TransferRepo) Update(_ context.Context, t *entity.InventoryTransfer) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.transfers[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.transfers[t.ID] = copyTransfer(*t)
	return nil
}

func (r *TransferRepo) ListByCompany(_ context.Context, companyID, status string, limit, offset int) ([]*entity.InventoryTransfer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InventoryTransfer
	for _, t := range r.s.data.transfers {
		if t.CompanyID == companyID && (status == "" || t.Status == status) {
			cp := copyTransfer(t)
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// PurchaseOrderRepo órdenes de compra.
type PurchaseOrderRepo struct{ s *Store }

func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	defer r.s.lockWrite()()
	po.ID = newID(po.ID)
	r.s.data.purchaseOrders[po.ID] = copyPurchaseOrder(*po)
	return nil
}

// GetByIDForUpdate equivale a GetByID: las transacciones ya están serializadas.
func (r *PurchaseOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	po, ok := r.s.data.purchaseOrders[id]
	if !ok {
		return nil, nil
	}
	po = copyPurchaseOrder(po)
	return &po, nil
}

func (r *PurchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.purchaseOrders[po.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.purchaseOrders[po.ID] = copyPurchaseOrder(*po)
	return nil
}

func (r *PurchaseOrderRepo) ListByCompany(_ context.Context, companyID, status, supplierID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.PurchaseOrder
	for _, po := range r.s.data.purchaseOrders {
		if po.CompanyID != companyID || (status != "" && po.Status != status) || (supplierID != "" && po.SupplierID != supplierID) {
			continue
		}
		cp := copyPurchaseOrder(po)
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *PurchaseOrderRepo) OpenQuantity(_ context.Context, productID, storeID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, po := range r.s.data.purchaseOrders {
		if !po.IsOpen() || po.StoreID != storeID {
			continue
		}
		for _, it := range po.Items {
			if it.ProductID == productID {
				total = total.Add(it.Quantity)
			}
		}
	}
	return total, nil
}

func (r *PurchaseOrderRepo) CountOpenBySupplier(_ context.Context, supplierID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, po := range r.s.data.purchaseOrders {
		if po.SupplierID == supplierID && po.IsOpen() {
			n++
		}
	}
	return n, nil
}

// InvoiceRepo facturas por pagar/cobrar y abonos.
type InvoiceRepo struct{ s *Store }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	defer r.s.lockWrite()()
	for _, existing := range r.s.data.invoices {
		if existing.CompanyID == inv.CompanyID && existing.Type == inv.Type && existing.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	inv.ID = newID(inv.ID)
	r.s.data.invoices[inv.ID] = copyInvoice(*inv)
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.data.invoices[id]
	if !ok {
		return nil, nil
	}
	inv = copyInvoice(inv)
	return &inv, nil
}

func (r *InvoiceRepo) GetByNumber(_ context.Context, companyID, invoiceType, number string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inv := range r.s.data.invoices {
		if inv.CompanyID == companyID && inv.Type == invoiceType && inv.Number == number {
			cp := copyInvoice(inv)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.invoices[inv.ID] = copyInvoice(*inv)
	return nil
}

func (r *InvoiceRepo) List(_ context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Invoice
	for _, inv := range r.s.data.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		if (f.Type != "" && inv.Type != f.Type) || (f.Status != "" && inv.Status != f.Status) ||
			(f.CounterpartyID != "" && inv.CounterpartyID != f.CounterpartyID) {
			continue
		}
		if f.OpenOnly && !isOpenInvoice(inv.Status) {
			continue
		}
		cp := copyInvoice(inv)
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *InvoiceRepo) CreatePayment(_ context.Context, p *entity.InvoicePayment) error {
	defer r.s.lockWrite()()
	p.ID = newID(p.ID)
	r.s.data.invoicePayments = append(r.s.data.invoicePayments, *p)
	return nil
}

func (r *InvoiceRepo) ListPayments(_ context.Context, invoiceID string) ([]*entity.InvoicePayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InvoicePayment
	for _, p := range r.s.data.invoicePayments {
		if p.InvoiceID == invoiceID {
			out = append(out, &p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidAt.Before(out[j].PaidAt) })
	return out, nil
}

func (r *InvoiceRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	defer r.s.lockWrite()()
	var n int64
	for id, inv := range r.s.data.invoices {
		if !isOpenInvoice(inv.Status) {
			continue
		}
		next := inv.DeriveStatus(now)
		if next == entity.InvoiceStatusOverdue && inv.Status != next {
			inv.Status = next
			inv.UpdatedAt = now
			r.s.data.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

func isOpenInvoice(status string) bool {
	return status == entity.InvoiceStatusPending || status == entity.InvoiceStatusPartial || status == entity.InvoiceStatusOverdue
}

// CashSessionRepo sesiones de caja.
type CashSessionRepo struct{ s *Store }

func (r *CashSessionRepo) Create(_ context.Context, cs *entity.CashSession) error {
	defer r.s.lockWrite()()
	for _, existing := range r.s.data.cashSessions {
		if existing.UserID == cs.UserID && existing.Status == entity.CashSessionOpen {
			return domain.ErrSessionAlreadyOpen
		}
	}
	cs.ID = newID(cs.ID)
	r.s.data.cashSessions[cs.ID] = *cs
	return nil
}

// GetByIDForUpdate equivale a GetByID: las transacciones ya están serializadas.
func (r *CashSessionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.GetByID(ctx, id)
}

func (r *CashSessionRepo) GetByID(_ context.Context, id string) (*entity.CashSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	cs, ok := r.s.data.cashSessions[id]
	if !ok {
		return nil, nil
	}
	return &cs, nil
}

func (r *CashSessionRepo) GetOpenByUser(_ context.Context, userID string) (*entity.CashSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, cs := range r.s.data.cashSessions {
		if cs.UserID == userID && cs.Status == entity.CashSessionOpen {
			return &cs, nil
		}
	}
	return nil, nil
}

func (r *CashSessionRepo) Update(_ context.Context, cs *entity.CashSession) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.cashSessions[cs.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.cashSessions[cs.ID] = *cs
	return nil
}

func (r *CashSessionRepo) ListByCompany(_ context.Context, companyID, storeID, status string, limit, offset int) ([]*entity.CashSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.CashSession
	for _, cs := range r.s.data.cashSessions {
		if cs.CompanyID != companyID || (storeID != "" && cs.StoreID != storeID) || (status != "" && cs.Status != status) {
			continue
		}
		out = append(out, &cs)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return paginate(out, limit, offset), nil
}

// SettingsRepo configuración por empresa.
type SettingsRepo struct{ s *Store }

func (r *SettingsRepo) Get(_ context.Context, companyID string) (*entity.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.data.settings[companyID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *SettingsRepo) Upsert(_ context.Context, st *entity.Settings) error {
	defer r.s.lockWrite()()
	r.s.data.settings[st.CompanyID] = *st
	return nil
}

func (r *SettingsRepo) ListAutoReorder(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []string
	for id, st := range r.s.data.settings {
		if st.AutoReorderEnabled {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}
