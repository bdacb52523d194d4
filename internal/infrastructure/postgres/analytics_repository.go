package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para reportes y dashboard.
// Solo cuentan ventas completadas, fechadas por completed_at.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// completedSalesCTE ventas completadas de $1 en [$3, $4]; $2 vacío = todas las tiendas.
const completedSalesCTE = `
	WITH done AS (
	    SELECT s.id, s.cashier_id, s.tax_total, s.discount_total, s.change_due,
	           COALESCE(s.completed_at, s.created_at) AS sold_at
	    FROM sales s
	    WHERE s.company_id = $1
	      AND ($2 = '' OR s.store_id::text = $2)
	      AND s.status = 'completed'
	      AND COALESCE(s.completed_at, s.created_at) BETWEEN $3 AND $4
	)`

// GetSalesMetrics totales del período. Revenue = subtotal - descuento de línea; Cost = cantidad × costo congelado.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, companyID, storeID string, from, to time.Time) (repository.SalesMetrics, error) {
	const query = completedSalesCTE + `
	SELECT
	    (SELECT COUNT(*) FROM done)                              AS sales_count,
	    (SELECT COALESCE(SUM(tax_total), 0) FROM done)           AS tax,
	    (SELECT COALESCE(SUM(discount_total), 0) FROM done)      AS discounts,
	    COALESCE(SUM(i.subtotal - i.discount), 0)                AS revenue,
	    COALESCE(SUM(i.quantity * i.unit_cost), 0)               AS cost,
	    COALESCE(SUM(i.quantity), 0)                             AS units
	FROM sale_items i
	JOIN done d ON d.id = i.sale_id`

	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, query, companyID, storeID, from, to).Scan(
		&m.SalesCount, &m.Tax, &m.Discounts, &m.Revenue, &m.Cost, &m.UnitsSold,
	)
	if err != nil {
		return m, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return m, nil
}

// GetTopProducts productos con más ingresos del período.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, companyID string, from, to time.Time, limit int) ([]repository.ProductSalesResult, error) {
	return r.productSales(ctx, companyID, from, to, limit)
}

// GetProductSales ventas de todos los productos vendidos en el período.
func (r *AnalyticsRepo) GetProductSales(ctx context.Context, companyID string, from, to time.Time) ([]repository.ProductSalesResult, error) {
	return r.productSales(ctx, companyID, from, to, 0)
}

func (r *AnalyticsRepo) productSales(ctx context.Context, companyID string, from, to time.Time, limit int) ([]repository.ProductSalesResult, error) {
	const query = completedSalesCTE + `
	SELECT
	    i.product_id,
	    MIN(i.sku)                            AS sku,
	    MIN(i.name)                           AS name,
	    SUM(i.quantity)                       AS units_sold,
	    SUM(i.subtotal - i.discount)          AS revenue,
	    SUM(i.quantity * i.unit_cost)         AS cost
	FROM sale_items i
	JOIN done d ON d.id = i.sale_id
	GROUP BY i.product_id
	ORDER BY revenue DESC, sku
	LIMIT $5`

	rows, err := r.q.Query(ctx, query, companyID, "", from, to, pageLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("analytics.productSales: %w", err)
	}
	defer rows.Close()

	results := []repository.ProductSalesResult{}
	for rows.Next() {
		var row repository.ProductSalesResult
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName, &row.UnitsSold, &row.Revenue, &row.Cost); err != nil {
			return nil, fmt.Errorf("analytics.productSales scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetPaymentBreakdown total por medio de pago. El efectivo se cuenta una vez por venta, neto de vueltas.
func (r *AnalyticsRepo) GetPaymentBreakdown(ctx context.Context, companyID, storeID string, from, to time.Time) ([]repository.PaymentMethodTotal, error) {
	const query = completedSalesCTE + `,
	cash AS (
	    SELECT d.id, SUM(p.amount) - d.change_due AS net
	    FROM done d
	    JOIN sale_payments p ON p.sale_id = d.id AND p.method = 'cash'
	    GROUP BY d.id, d.change_due
	)
	SELECT 'cash' AS method, COUNT(*) AS n, COALESCE(SUM(net), 0) AS amount
	FROM cash WHERE net > 0
	HAVING COUNT(*) > 0
	UNION ALL
	SELECT p.method, COUNT(*), SUM(p.amount)
	FROM sale_payments p
	JOIN done d ON d.id = p.sale_id
	WHERE p.method <> 'cash'
	GROUP BY p.method
	ORDER BY method`

	rows, err := r.q.Query(ctx, query, companyID, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetPaymentBreakdown: %w", err)
	}
	defer rows.Close()

	results := []repository.PaymentMethodTotal{}
	for rows.Next() {
		var row repository.PaymentMethodTotal
		if err := rows.Scan(&row.Method, &row.Count, &row.Amount); err != nil {
			return nil, fmt.Errorf("analytics.GetPaymentBreakdown scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetDailySales ventas agrupadas por día calendario (zona horaria de la sesión).
func (r *AnalyticsRepo) GetDailySales(ctx context.Context, companyID, storeID string, from, to time.Time) ([]repository.DailySalesResult, error) {
	const query = completedSalesCTE + `
	SELECT
	    date_trunc('day', d.sold_at)                         AS day,
	    COUNT(DISTINCT d.id)                                 AS sales_count,
	    COALESCE(SUM(i.subtotal - i.discount), 0)            AS revenue,
	    COALESCE(SUM(i.quantity * i.unit_cost), 0)           AS cost
	FROM done d
	LEFT JOIN sale_items i ON i.sale_id = d.id
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.q.Query(ctx, query, companyID, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDailySales: %w", err)
	}
	defer rows.Close()

	results := []repository.DailySalesResult{}
	for rows.Next() {
		var row repository.DailySalesResult
		if err := rows.Scan(&row.Day, &row.SalesCount, &row.Revenue, &row.Cost); err != nil {
			return nil, fmt.Errorf("analytics.GetDailySales scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetCashierStats ventas, anulaciones y diferencias de caja por cajero.
func (r *AnalyticsRepo) GetCashierStats(ctx context.Context, companyID string, from, to time.Time) ([]repository.CashierStatsResult, error) {
	const salesQuery = `
	SELECT
	    s.cashier_id,
	    COUNT(DISTINCT s.id) FILTER (WHERE s.status = 'completed')                      AS sales_count,
	    COUNT(DISTINCT s.id) FILTER (WHERE s.status = 'voided')                         AS void_count,
	    COALESCE(SUM(i.subtotal - i.discount) FILTER (WHERE s.status = 'completed'), 0) AS revenue,
	    COALESCE(SUM(i.quantity) FILTER (WHERE s.status = 'completed'), 0)              AS units
	FROM sales s
	LEFT JOIN sale_items i ON i.sale_id = s.id
	WHERE s.company_id = $1
	  AND s.status IN ('completed', 'voided')
	  AND COALESCE(s.completed_at, s.created_at) BETWEEN $2 AND $3
	GROUP BY s.cashier_id`

	const sessionsQuery = `
	SELECT user_id::text, COALESCE(SUM(difference), 0)
	FROM cash_sessions
	WHERE company_id = $1 AND status <> 'open' AND closed_at BETWEEN $2 AND $3
	GROUP BY user_id`

	byUser := map[string]*repository.CashierStatsResult{}
	get := func(userID string) *repository.CashierStatsResult {
		cs, ok := byUser[userID]
		if !ok {
			cs = &repository.CashierStatsResult{UserID: userID}
			byUser[userID] = cs
		}
		return cs
	}

	rows, err := r.q.Query(ctx, salesQuery, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetCashierStats: %w", err)
	}
	for rows.Next() {
		var userID string
		var salesCount, voidCount int
		var revenue, units decimal.Decimal
		if err := rows.Scan(&userID, &salesCount, &voidCount, &revenue, &units); err != nil {
			rows.Close()
			return nil, fmt.Errorf("analytics.GetCashierStats scan: %w", err)
		}
		cs := get(userID)
		cs.SalesCount, cs.VoidCount, cs.Revenue, cs.UnitsSold = salesCount, voidCount, revenue, units
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetCashierStats: %w", err)
	}

	rows, err = r.q.Query(ctx, sessionsQuery, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetCashierStats sessions: %w", err)
	}
	for rows.Next() {
		var userID string
		var diff decimal.Decimal
		if err := rows.Scan(&userID, &diff); err != nil {
			rows.Close()
			return nil, fmt.Errorf("analytics.GetCashierStats sessions scan: %w", err)
		}
		get(userID).CashDifference = diff
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetCashierStats sessions: %w", err)
	}

	if len(byUser) == 0 {
		return []repository.CashierStatsResult{}, nil
	}
	ids := make([]string, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	rows, err = r.q.Query(ctx, `SELECT id::text, name FROM users WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetCashierStats users: %w", err)
	}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("analytics.GetCashierStats users scan: %w", err)
		}
		byUser[id].UserName = name
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetCashierStats users: %w", err)
	}

	results := make([]repository.CashierStatsResult, 0, len(byUser))
	for _, cs := range byUser {
		results = append(results, *cs)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].Revenue.Equal(results[j].Revenue) {
			return results[i].Revenue.GreaterThan(results[j].Revenue)
		}
		return results[i].UserName < results[j].UserName
	})
	return results, nil
}

// GetOperationalCounters contadores del dashboard: stock bajo (criterio de entity.IsLowStock sobre el
// stock total), canastas pendientes, traslados en tránsito y facturas vencidas.
func (r *AnalyticsRepo) GetOperationalCounters(ctx context.Context, companyID string, lowStockThreshold decimal.Decimal, now time.Time) (repository.OperationalCounters, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*)
	       FROM products p
	       LEFT JOIN (SELECT product_id, SUM(quantity) AS qty FROM stock GROUP BY product_id) st ON st.product_id = p.id
	      WHERE p.company_id = $1 AND p.is_active
	        AND CASE WHEN p.reorder_point > 0 THEN COALESCE(st.qty, 0) < p.reorder_point
	                 ELSE COALESCE(st.qty, 0) <= $2 END)                                  AS low_stock,
	    (SELECT COUNT(*) FROM sales
	      WHERE company_id = $1 AND status = 'pending_approval')                          AS pending_baskets,
	    (SELECT COUNT(*) FROM inventory_transfers
	      WHERE company_id = $1 AND status = 'in_transit')                                AS in_transit,
	    (SELECT COUNT(*) FROM invoices
	      WHERE company_id = $1 AND status IN ('pending', 'partial', 'overdue')
	        AND amount_paid < total AND due_date < $3)                                     AS overdue`

	var c repository.OperationalCounters
	err := r.q.QueryRow(ctx, query, companyID, lowStockThreshold, startOfDay(now)).Scan(
		&c.LowStockProducts, &c.PendingBaskets, &c.TransfersInTransit, &c.OverdueInvoices,
	)
	if err != nil {
		return c, fmt.Errorf("analytics.GetOperationalCounters: %w", err)
	}
	return c, nil
}
