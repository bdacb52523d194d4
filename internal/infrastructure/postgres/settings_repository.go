package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración por empresa (una fila por company_id).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador de persistencia para la configuración.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) Get(ctx context.Context, companyID string) (*entity.Settings, error) {
	query := `
		SELECT company_id, currency_code, locale, default_tax_rate, points_per_unit, point_value, max_cashier_discount_pct,
			receipt_header, receipt_footer, auto_reorder_enabled, low_stock_threshold, updated_at
		FROM settings WHERE company_id = $1`
	var s entity.Settings
	err := r.q.QueryRow(ctx, query, companyID).Scan(
		&s.CompanyID, &s.CurrencyCode, &s.Locale, &s.DefaultTaxRate, &s.PointsPerUnit, &s.PointValue,
		&s.MaxCashierDiscountPct, &s.ReceiptHeader, &s.ReceiptFooter, &s.AutoReorderEnabled, &s.LowStockThreshold,
		&s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.Settings) error {
	query := `
		INSERT INTO settings (company_id, currency_code, locale, default_tax_rate, points_per_unit, point_value,
			max_cashier_discount_pct, receipt_header, receipt_footer, auto_reorder_enabled, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (company_id) DO UPDATE SET
			currency_code = EXCLUDED.currency_code,
			locale = EXCLUDED.locale,
			default_tax_rate = EXCLUDED.default_tax_rate,
			points_per_unit = EXCLUDED.points_per_unit,
			point_value = EXCLUDED.point_value,
			max_cashier_discount_pct = EXCLUDED.max_cashier_discount_pct,
			receipt_header = EXCLUDED.receipt_header,
			receipt_footer = EXCLUDED.receipt_footer,
			auto_reorder_enabled = EXCLUDED.auto_reorder_enabled,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		s.CompanyID, s.CurrencyCode, s.Locale, s.DefaultTaxRate, s.PointsPerUnit, s.PointValue,
		s.MaxCashierDiscountPct, s.ReceiptHeader, s.ReceiptFooter, s.AutoReorderEnabled, s.LowStockThreshold, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func (r *SettingsRepo) ListAutoReorder(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT company_id::text FROM settings WHERE auto_reorder_enabled ORDER BY company_id`)
	if err != nil {
		return nil, fmt.Errorf("list auto reorder: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan auto reorder: %w", err)
	}
	return ids, nil
}
