package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TransferUseCase traslados de mercancía entre tiendas de la misma empresa.
// El stock sale del origen al aprobar y entra al destino al recibir.
type TransferUseCase struct {
	txRunner    repository.TxRunner
	repo        repository.TransferRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	publisher   *realtime.Publisher
	log         zerolog.Logger
	now         func() time.Time
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner repository.TxRunner,
	repo repository.TransferRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	publisher *realtime.Publisher,
	log zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:    txRunner,
		repo:        repo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

// Request crea un traslado en estado pending.
func (uc *TransferUseCase) Request(ctx context.Context, actor dto.Actor, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if in.FromStoreID == "" || in.ToStoreID == "" || in.FromStoreID == in.ToStoreID || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, id := range []string{in.FromStoreID, in.ToStoreID} {
		if err := checkStore(ctx, uc.storeRepo, actor.CompanyID, id); err != nil {
			return nil, err
		}
	}
	seen := make(map[string]bool, len(in.Items))
	items := make([]entity.TransferItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() || seen[it.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.CompanyID != actor.CompanyID {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.TransferItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	now := uc.now()
	t := &entity.InventoryTransfer{
		CompanyID:   actor.CompanyID,
		Number:      entity.DocumentNumber(entity.PrefixTransfer, now),
		FromStoreID: in.FromStoreID,
		ToStoreID:   in.ToStoreID,
		Status:      entity.TransferStatusPending,
		Items:       items,
		Notes:       in.Notes,
		RequestedBy: actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	out := toTransferResponse(t)
	uc.publisher.Notify(ctx, actor.CompanyID, realtime.TopicTransfers, realtime.EventCreated, t.ID, out)
	return out, nil
}

// Approve despacha el traslado: descuenta el stock del origen (todo o nada) y pasa a in_transit.
func (uc *TransferUseCase) Approve(ctx context.Context, actor dto.Actor, id string) (*dto.TransferResponse, error) {
	var result *entity.InventoryTransfer
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		t, err := uc.loadForTransition(ctx, r, actor.CompanyID, id, entity.TransferStatusInTransit)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, it := range t.Items {
			_, err := StockOut(ctx, r, StockChange{
				ProductID:     it.ProductID,
				StoreID:       t.FromStoreID,
				Type:          entity.MovementTypeTRANSFER,
				Quantity:      it.Quantity,
				TransactionID: t.ID,
				UserID:        actor.UserID,
				At:            now,
			})
			if err != nil {
				return err
			}
		}
		t.Status = entity.TransferStatusInTransit
		t.ApprovedBy = actor.UserID
		t.ApprovedAt = &now
		t.UpdatedAt = now
		result = t
		return r.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, result, true)
	return toTransferResponse(result), nil
}

// Receive ingresa el stock en la tienda destino y completa el traslado.
// El costo del producto no cambia: la mercancía ya estaba valorizada.
func (uc *TransferUseCase) Receive(ctx context.Context, actor dto.Actor, id string) (*dto.TransferResponse, error) {
	var result *entity.InventoryTransfer
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		t, err := uc.loadForTransition(ctx, r, actor.CompanyID, id, entity.TransferStatusCompleted)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, it := range t.Items {
			p, err := r.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			unitCost := decimal.Zero
			if p != nil {
				unitCost = p.Cost
			}
			err = StockIn(ctx, r, StockChange{
				ProductID:     it.ProductID,
				StoreID:       t.ToStoreID,
				Type:          entity.MovementTypeTRANSFER,
				Quantity:      it.Quantity,
				UnitCost:      unitCost,
				TransactionID: t.ID,
				UserID:        actor.UserID,
				At:            now,
			}, true)
			if err != nil {
				return err
			}
		}
		t.Status = entity.TransferStatusCompleted
		t.ReceivedBy = actor.UserID
		t.ReceivedAt = &now
		t.UpdatedAt = now
		result = t
		return r.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, result, true)
	return toTransferResponse(result), nil
}

// Reject rechaza un traslado pendiente con un motivo.
func (uc *TransferUseCase) Reject(ctx context.Context, actor dto.Actor, id, reason string) (*dto.TransferResponse, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.close(ctx, actor, id, entity.TransferStatusRejected, func(t *entity.InventoryTransfer) error {
		t.Reason = reason
		t.ApprovedBy = actor.UserID
		return nil
	})
}

// Cancel anula un traslado pendiente. Solo el solicitante o quien puede aprobar traslados.
func (uc *TransferUseCase) Cancel(ctx context.Context, actor dto.Actor, id string) (*dto.TransferResponse, error) {
	return uc.close(ctx, actor, id, entity.TransferStatusCancelled, func(t *entity.InventoryTransfer) error {
		if t.RequestedBy != actor.UserID && !permission.Has(actor.Role, permission.InventoryTransferApprove) {
			return domain.ErrForbidden
		}
		return nil
	})
}

func (uc *TransferUseCase) close(ctx context.Context, actor dto.Actor, id, status string, apply func(*entity.InventoryTransfer) error) (*dto.TransferResponse, error) {
	var result *entity.InventoryTransfer
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		t, err := uc.loadForTransition(ctx, r, actor.CompanyID, id, status)
		if err != nil {
			return err
		}
		if err := apply(t); err != nil {
			return err
		}
		t.Status = status
		t.UpdatedAt = uc.now()
		result = t
		return r.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, result, false)
	return toTransferResponse(result), nil
}

// Get traslado por ID dentro de la empresa.
func (uc *TransferUseCase) Get(ctx context.Context, companyID, id string) (*dto.TransferResponse, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toTransferResponse(t), nil
}

// List traslados de la empresa, opcionalmente por estado.
func (uc *TransferUseCase) List(ctx context.Context, companyID, status string, page dto.PageRequest) (*dto.TransferListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return &dto.TransferListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func (uc *TransferUseCase) loadForTransition(ctx context.Context, r repository.TxRepos, companyID, id, next string) (*entity.InventoryTransfer, error) {
	t, err := r.Transfers.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if !t.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}
	return t, nil
}

func (uc *TransferUseCase) notify(ctx context.Context, t *entity.InventoryTransfer, stockChanged bool) {
	uc.log.Info().Str("transfer_id", t.ID).Str("status", t.Status).Msg("traslado actualizado")
	uc.publisher.Notify(ctx, t.CompanyID, realtime.TopicTransfers, realtime.EventUpdated, t.ID, toTransferResponse(t))
	if stockChanged {
		for _, it := range t.Items {
			uc.publisher.Notify(ctx, t.CompanyID, realtime.TopicStock, realtime.EventUpdated, it.ProductID, map[string]string{
				"product_id":     it.ProductID,
				"type":           entity.MovementTypeTRANSFER,
				"transaction_id": t.ID,
			})
		}
	}
}

func toTransferResponse(t *entity.InventoryTransfer) *dto.TransferResponse {
	items := make([]dto.TransferItemRequest, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TransferItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &dto.TransferResponse{
		ID:          t.ID,
		Number:      t.Number,
		FromStoreID: t.FromStoreID,
		ToStoreID:   t.ToStoreID,
		Status:      t.Status,
		Items:       items,
		Notes:       t.Notes,
		Reason:      t.Reason,
		RequestedBy: t.RequestedBy,
		ApprovedBy:  t.ApprovedBy,
		ReceivedBy:  t.ReceivedBy,
		CreatedAt:   t.CreatedAt,
		ApprovedAt:  t.ApprovedAt,
		ReceivedAt:  t.ReceivedAt,
	}
}
