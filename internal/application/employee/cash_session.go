// Package employee contiene los turnos de caja (apertura, cierre y revisión) y
// el reporte de desempeño de los cajeros.
package employee

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// CashSessionUseCase turnos de caja por cajero.
type CashSessionUseCase struct {
	txRunner  repository.TxRunner
	repo      repository.CashSessionRepository
	salesRepo repository.SaleRepository
	storeRepo repository.StoreRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewCashSessionUseCase construye el caso de uso.
func NewCashSessionUseCase(
	txRunner repository.TxRunner,
	repo repository.CashSessionRepository,
	salesRepo repository.SaleRepository,
	storeRepo repository.StoreRepository,
	log zerolog.Logger,
) *CashSessionUseCase {
	return &CashSessionUseCase{txRunner: txRunner, repo: repo, salesRepo: salesRepo, storeRepo: storeRepo, log: log, now: time.Now}
}

// Open abre un turno para el usuario. Solo puede haber uno abierto por usuario.
func (uc *CashSessionUseCase) Open(ctx context.Context, actor dto.Actor, in dto.OpenCashSessionRequest) (*dto.CashSessionResponse, error) {
	storeID := in.StoreID
	if storeID == "" {
		storeID = actor.StoreID
	}
	if storeID == "" || in.OpeningFloat.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	current, err := uc.repo.GetOpenByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, domain.ErrSessionAlreadyOpen
	}
	now := uc.now()
	cs := &entity.CashSession{
		CompanyID:    actor.CompanyID,
		StoreID:      storeID,
		UserID:       actor.UserID,
		Status:       entity.CashSessionOpen,
		OpeningFloat: in.OpeningFloat,
		ExpectedCash: in.OpeningFloat,
		OpenedAt:     now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, cs); err != nil {
		return nil, err
	}
	uc.log.Info().Str("session_id", cs.ID).Str("user_id", actor.UserID).Str("store_id", storeID).Msg("caja: turno abierto")
	return toResponse(cs), nil
}

// Close cierra el turno con el efectivo contado. Esperado = base + efectivo neto de las
// ventas completadas del turno (las anuladas no cuentan). Solo el dueño del turno o
// quien tenga cashout.review puede cerrarlo.
func (uc *CashSessionUseCase) Close(ctx context.Context, actor dto.Actor, id string, in dto.CloseCashSessionRequest) (*dto.CashSessionResponse, error) {
	if in.CountedCash.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.CashSession
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		cs, err := owned(ctx, r.CashSessions.GetByIDForUpdate, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if cs.UserID != actor.UserID && !permission.Has(actor.Role, permission.CashoutReview) {
			return domain.ErrForbidden
		}
		if cs.Status != entity.CashSessionOpen {
			return domain.ErrInvalidTransition
		}
		sales, err := r.Sales.ListBySession(ctx, cs.ID)
		if err != nil {
			return err
		}
		now := uc.now()
		cs.ExpectedCash = ExpectedCash(cs.OpeningFloat, sales)
		cs.CountedCash = in.CountedCash
		cs.Difference = in.CountedCash.Sub(cs.ExpectedCash)
		cs.Notes = strings.TrimSpace(in.Notes)
		cs.Status = entity.CashSessionClosed
		cs.ClosedAt = &now
		cs.UpdatedAt = now
		result = cs
		return r.CashSessions.Update(ctx, cs)
	})
	if err != nil {
		return nil, err
	}
	ev := uc.log.Info()
	if !result.Difference.IsZero() {
		ev = uc.log.Warn()
	}
	ev.Str("session_id", result.ID).Str("expected", result.ExpectedCash.String()).
		Str("difference", result.Difference.String()).Msg("caja: turno cerrado")
	return toResponse(result), nil
}

// ExpectedCash base inicial más el efectivo recibido (menos vueltas) de las ventas completadas.
func ExpectedCash(openingFloat decimal.Decimal, sales []*entity.Sale) decimal.Decimal {
	expected := openingFloat
	for _, s := range sales {
		if s.Status == entity.SaleStatusCompleted {
			expected = expected.Add(s.CashReceived())
		}
	}
	return expected
}

// Review marca un turno cerrado como revisado.
func (uc *CashSessionUseCase) Review(ctx context.Context, actor dto.Actor, id string, in dto.ReviewCashSessionRequest) (*dto.CashSessionResponse, error) {
	var result *entity.CashSession
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		cs, err := owned(ctx, r.CashSessions.GetByIDForUpdate, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if cs.Status != entity.CashSessionClosed {
			return domain.ErrInvalidTransition
		}
		now := uc.now()
		cs.Status = entity.CashSessionReviewed
		cs.ReviewedBy = actor.UserID
		cs.ReviewNotes = strings.TrimSpace(in.Notes)
		cs.ReviewedAt = &now
		cs.UpdatedAt = now
		result = cs
		return r.CashSessions.Update(ctx, cs)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

// Current turno abierto del usuario; ErrNoOpenSession si no tiene.
// El esperado se calcula al momento con las ventas registradas.
func (uc *CashSessionUseCase) Current(ctx context.Context, actor dto.Actor) (*dto.CashSessionResponse, error) {
	cs, err := uc.repo.GetOpenByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if cs == nil || cs.CompanyID != actor.CompanyID {
		return nil, domain.ErrNoOpenSession
	}
	list, err := uc.salesRepo.ListBySession(ctx, cs.ID)
	if err != nil {
		return nil, err
	}
	cs.ExpectedCash = ExpectedCash(cs.OpeningFloat, list)
	return toResponse(cs), nil
}

// List turnos de la empresa, filtrados por tienda y estado.
func (uc *CashSessionUseCase) List(ctx context.Context, companyID, storeID, status string, page dto.PageRequest) (*dto.CashSessionListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, storeID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CashSessionListResponse{
		Items: make([]dto.CashSessionResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, cs := range list {
		out.Items = append(out.Items, *toResponse(cs))
	}
	return out, nil
}

func owned(ctx context.Context, get func(context.Context, string) (*entity.CashSession, error), companyID, id string) (*entity.CashSession, error) {
	cs, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, domain.ErrNotFound
	}
	if cs.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return cs, nil
}

func toResponse(cs *entity.CashSession) *dto.CashSessionResponse {
	return &dto.CashSessionResponse{
		ID:           cs.ID,
		StoreID:      cs.StoreID,
		UserID:       cs.UserID,
		Status:       cs.Status,
		OpeningFloat: cs.OpeningFloat,
		ExpectedCash: cs.ExpectedCash,
		CountedCash:  cs.CountedCash,
		Difference:   cs.Difference,
		Notes:        cs.Notes,
		ReviewedBy:   cs.ReviewedBy,
		ReviewNotes:  cs.ReviewNotes,
		OpenedAt:     cs.OpenedAt,
		ClosedAt:     cs.ClosedAt,
		ReviewedAt:   cs.ReviewedAt,
	}
}
