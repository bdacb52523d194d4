package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados calculados recorriendo las ventas en memoria.
type AnalyticsRepo struct{ s *Store }

// completedSales ventas completadas de la empresa en [from, to], opcionalmente por tienda.
func (r *AnalyticsRepo) completedSales(companyID, storeID string, from, to time.Time) []entity.Sale {
	var out []entity.Sale
	for _, sale := range r.s.data.sales {
		if sale.CompanyID != companyID || sale.Status != entity.SaleStatusCompleted {
			continue
		}
		if storeID != "" && sale.StoreID != storeID {
			continue
		}
		at := saleDate(sale)
		if at.Before(from) || at.After(to) {
			continue
		}
		out = append(out, sale)
	}
	return out
}

func saleDate(sale entity.Sale) time.Time {
	if sale.CompletedAt != nil {
		return *sale.CompletedAt
	}
	return sale.CreatedAt
}

func (r *AnalyticsRepo) GetSalesMetrics(_ context.Context, companyID, storeID string, from, to time.Time) (repository.SalesMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var m repository.SalesMetrics
	for _, sale := range r.completedSales(companyID, storeID, from, to) {
		m.SalesCount++
		m.Tax = m.Tax.Add(sale.TaxTotal)
		m.Discounts = m.Discounts.Add(sale.DiscountTotal)
		for _, it := range sale.Items {
			m.Revenue = m.Revenue.Add(it.Subtotal.Sub(it.Discount))
			m.Cost = m.Cost.Add(it.Quantity.Mul(it.UnitCost))
			m.UnitsSold = m.UnitsSold.Add(it.Quantity)
		}
	}
	return m, nil
}

func (r *AnalyticsRepo) productSales(companyID string, from, to time.Time) []repository.ProductSalesResult {
	byID := map[string]*repository.ProductSalesResult{}
	for _, sale := range r.completedSales(companyID, "", from, to) {
		for _, it := range sale.Items {
			ps, ok := byID[it.ProductID]
			if !ok {
				ps = &repository.ProductSalesResult{ProductID: it.ProductID, SKU: it.SKU, ProductName: it.Name}
				byID[it.ProductID] = ps
			}
			ps.UnitsSold = ps.UnitsSold.Add(it.Quantity)
			ps.Revenue = ps.Revenue.Add(it.Subtotal.Sub(it.Discount))
			ps.Cost = ps.Cost.Add(it.Quantity.Mul(it.UnitCost))
		}
	}
	out := make([]repository.ProductSalesResult, 0, len(byID))
	for _, ps := range byID {
		out = append(out, *ps)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}

func (r *AnalyticsRepo) GetTopProducts(_ context.Context, companyID string, from, to time.Time, limit int) ([]repository.ProductSalesResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paginate(r.productSales(companyID, from, to), limit, 0), nil
}

func (r *AnalyticsRepo) GetProductSales(_ context.Context, companyID string, from, to time.Time) ([]repository.ProductSalesResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.productSales(companyID, from, to), nil
}

func (r *AnalyticsRepo) GetPaymentBreakdown(_ context.Context, companyID, storeID string, from, to time.Time) ([]repository.PaymentMethodTotal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byMethod := map[string]*repository.PaymentMethodTotal{}
	add := func(method string, amount decimal.Decimal) {
		t, ok := byMethod[method]
		if !ok {
			t = &repository.PaymentMethodTotal{Method: method}
			byMethod[method] = t
		}
		t.Count++
		t.Amount = t.Amount.Add(amount)
	}
	for _, sale := range r.completedSales(companyID, storeID, from, to) {
		cash := sale.CashReceived()
		if cash.IsPositive() {
			add(entity.PaymentCash, cash)
		}
		for _, p := range sale.Payments {
			if p.Method != entity.PaymentCash {
				add(p.Method, p.Amount)
			}
		}
	}
	out := make([]repository.PaymentMethodTotal, 0, len(byMethod))
	for _, t := range byMethod {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out, nil
}

func (r *AnalyticsRepo) GetDailySales(_ context.Context, companyID, storeID string, from, to time.Time) ([]repository.DailySalesResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byDay := map[time.Time]*repository.DailySalesResult{}
	for _, sale := range r.completedSales(companyID, storeID, from, to) {
		at := saleDate(sale)
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
		d, ok := byDay[day]
		if !ok {
			d = &repository.DailySalesResult{Day: day}
			byDay[day] = d
		}
		d.SalesCount++
		for _, it := range sale.Items {
			d.Revenue = d.Revenue.Add(it.Subtotal.Sub(it.Discount))
			d.Cost = d.Cost.Add(it.Quantity.Mul(it.UnitCost))
		}
	}
	out := make([]repository.DailySalesResult, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *AnalyticsRepo) GetCashierStats(_ context.Context, companyID string, from, to time.Time) ([]repository.CashierStatsResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byUser := map[string]*repository.CashierStatsResult{}
	get := func(userID string) *repository.CashierStatsResult {
		cs, ok := byUser[userID]
		if !ok {
			cs = &repository.CashierStatsResult{UserID: userID}
			if u, found := r.s.data.users[userID]; found {
				cs.UserName = u.Name
			}
			byUser[userID] = cs
		}
		return cs
	}
	for _, sale := range r.s.data.sales {
		if sale.CompanyID != companyID {
			continue
		}
		at := saleDate(sale)
		if at.Before(from) || at.After(to) {
			continue
		}
		switch sale.Status {
		case entity.SaleStatusCompleted:
			cs := get(sale.CashierID)
			cs.SalesCount++
			for _, it := range sale.Items {
				cs.Revenue = cs.Revenue.Add(it.Subtotal.Sub(it.Discount))
				cs.UnitsSold = cs.UnitsSold.Add(it.Quantity)
			}
		case entity.SaleStatusVoided:
			get(sale.CashierID).VoidCount++
		}
	}
	for _, session := range r.s.data.cashSessions {
		if session.CompanyID != companyID || session.ClosedAt == nil || session.Status == entity.CashSessionOpen {
			continue
		}
		if session.ClosedAt.Before(from) || session.ClosedAt.After(to) {
			continue
		}
		cs := get(session.UserID)
		cs.CashDifference = cs.CashDifference.Add(session.Difference)
	}
	out := make([]repository.CashierStatsResult, 0, len(byUser))
	for _, cs := range byUser {
		out = append(out, *cs)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].UserName < out[j].UserName
	})
	return out, nil
}

func (r *AnalyticsRepo) GetOperationalCounters(_ context.Context, companyID string, lowStockThreshold decimal.Decimal, now time.Time) (repository.OperationalCounters, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var c repository.OperationalCounters
	for _, p := range r.s.data.products {
		if p.CompanyID == companyID && p.IsActive && entity.IsLowStock(stockQty(r.s.data, p.ID, ""), p.ReorderPoint, lowStockThreshold) {
			c.LowStockProducts++
		}
	}
	for _, sale := range r.s.data.sales {
		if sale.CompanyID == companyID && sale.Status == entity.SaleStatusPendingApproval {
			c.PendingBaskets++
		}
	}
	for _, t := range r.s.data.transfers {
		if t.CompanyID == companyID && t.Status == entity.TransferStatusInTransit {
			c.TransfersInTransit++
		}
	}
	for _, inv := range r.s.data.invoices {
		if inv.CompanyID == companyID && isOpenInvoice(inv.Status) && inv.DeriveStatus(now) == entity.InvoiceStatusOverdue {
			c.OverdueInvoices++
		}
	}
	return c, nil
}
