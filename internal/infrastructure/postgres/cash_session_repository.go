package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

// CashSessionRepo sesiones de caja. El índice único parcial garantiza una sesión abierta por usuario.
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx.
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

const cashSessionColumns = `id, company_id, store_id, user_id, status, opening_float, expected_cash, counted_cash, difference,
	notes, reviewed_by, review_notes, opened_at, closed_at, reviewed_at, updated_at`

func scanCashSession(row pgx.Row) (*entity.CashSession, error) {
	var cs entity.CashSession
	var reviewedBy *string
	err := row.Scan(&cs.ID, &cs.CompanyID, &cs.StoreID, &cs.UserID, &cs.Status, &cs.OpeningFloat, &cs.ExpectedCash,
		&cs.CountedCash, &cs.Difference, &cs.Notes, &reviewedBy, &cs.ReviewNotes, &cs.OpenedAt, &cs.ClosedAt,
		&cs.ReviewedAt, &cs.UpdatedAt)
	if err != nil {
		return nil, err
	}
	cs.ReviewedBy = derefString(reviewedBy)
	return &cs, nil
}

// Create abre una sesión. Devuelve ErrSessionAlreadyOpen si el usuario ya tiene una abierta.
func (r *CashSessionRepo) Create(ctx context.Context, cs *entity.CashSession) error {
	ensureID(&cs.ID)
	query := `INSERT INTO cash_sessions (` + cashSessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query, cs.ID, cs.CompanyID, cs.StoreID, cs.UserID, cs.Status, cs.OpeningFloat,
		cs.ExpectedCash, cs.CountedCash, cs.Difference, cs.Notes, nullIfEmpty(cs.ReviewedBy), cs.ReviewNotes,
		cs.OpenedAt, cs.ClosedAt, cs.ReviewedAt, cs.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionAlreadyOpen
		}
		return fmt.Errorf("insert cash session: %w", err)
	}
	return nil
}

func (r *CashSessionRepo) getOne(ctx context.Context, where string, args ...any) (*entity.CashSession, error) {
	cs, err := scanCashSession(r.q.QueryRow(ctx, `SELECT `+cashSessionColumns+` FROM cash_sessions WHERE `+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash session: %w", err)
	}
	return cs, nil
}

func (r *CashSessionRepo) GetByID(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *CashSessionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.getOne(ctx, `id = $1 FOR UPDATE`, id)
}

func (r *CashSessionRepo) GetOpenByUser(ctx context.Context, userID string) (*entity.CashSession, error) {
	return r.getOne(ctx, `user_id = $1 AND status = 'open'`, userID)
}

func (r *CashSessionRepo) Update(ctx context.Context, cs *entity.CashSession) error {
	query := `
		UPDATE cash_sessions SET status = $2, expected_cash = $3, counted_cash = $4, difference = $5, notes = $6,
			reviewed_by = $7, review_notes = $8, closed_at = $9, reviewed_at = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, cs.ID, cs.Status, cs.ExpectedCash, cs.CountedCash, cs.Difference, cs.Notes,
		nullIfEmpty(cs.ReviewedBy), cs.ReviewNotes, cs.ClosedAt, cs.ReviewedAt, cs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update cash session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CashSessionRepo) ListByCompany(ctx context.Context, companyID, storeID, status string, limit, offset int) ([]*entity.CashSession, error) {
	query := `
		SELECT ` + cashSessionColumns + `
		FROM cash_sessions
		WHERE company_id = $1 AND ($2 = '' OR store_id::text = $2) AND ($3 = '' OR status = $3)
		ORDER BY opened_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, companyID, storeID, status, pageLimit(limit), pageOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list cash sessions: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.CashSession, error) { return scanCashSession(row) })
	if err != nil {
		return nil, fmt.Errorf("scan cash sessions: %w", err)
	}
	return list, nil
}
