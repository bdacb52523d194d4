package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (IN, OUT, ADJUSTMENT, TRANSFER) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner    repository.TxRunner
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	publisher   *realtime.Publisher
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner repository.TxRunner,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	publisher *realtime.Publisher,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		publisher:   publisher,
	}
}

// MovementInputDTO entrada para registrar un movimiento de inventario.
// Para IN/OUT/ADJUSTMENT: ProductID, StoreID, Type, Quantity; UnitCost obligatorio en IN.
// Para TRANSFER: ProductID, FromStoreID, ToStoreID, Type=TRANSFER, Quantity.
type MovementInputDTO struct {
	CompanyID   string
	UserID      string
	ProductID   string
	StoreID     string
	FromStoreID string
	ToStoreID   string
	Type        string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) error {
	return uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID:   companyID,
		UserID:      userID,
		ProductID:   in.ProductID,
		StoreID:     in.StoreID,
		FromStoreID: in.FromStoreID,
		ToStoreID:   in.ToStoreID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
	})
}

// RegisterMovement valida la entrada, abre una transacción y aplica la lógica según el tipo.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) error {
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT:
		if input.ProductID == "" || input.StoreID == "" || input.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
		if input.Type == entity.MovementTypeIN && (input.UnitCost == nil || input.UnitCost.IsNegative()) {
			return domain.ErrInvalidInput
		}
		if input.Type != entity.MovementTypeADJUSTMENT && input.Quantity.IsNegative() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeTRANSFER:
		if input.ProductID == "" || input.FromStoreID == "" || input.ToStoreID == "" {
			return domain.ErrInvalidInput
		}
		if input.FromStoreID == input.ToStoreID || !input.Quantity.IsPositive() {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}
	stores := []string{input.StoreID}
	if input.Type == entity.MovementTypeTRANSFER {
		stores = []string{input.FromStoreID, input.ToStoreID}
	}
	for _, id := range stores {
		if err := checkStore(ctx, uc.storeRepo, input.CompanyID, id); err != nil {
			return err
		}
	}

	now := time.Now()
	txID := uuid.New().String()
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		switch input.Type {
		case entity.MovementTypeIN:
			return uc.doIN(ctx, r, input, now, txID)
		case entity.MovementTypeOUT:
			return uc.doOUT(ctx, r, input, now, txID)
		case entity.MovementTypeADJUSTMENT:
			return uc.doADJUSTMENT(ctx, r, product, input, now, txID)
		case entity.MovementTypeTRANSFER:
			return uc.doTRANSFER(ctx, r, input, now, txID)
		}
		return domain.ErrInvalidInput
	})
	if err != nil {
		return err
	}
	uc.publisher.Notify(ctx, input.CompanyID, realtime.TopicStock, realtime.EventUpdated, input.ProductID, map[string]string{
		"product_id":     input.ProductID,
		"type":           input.Type,
		"transaction_id": txID,
	})
	return nil
}

// doIN: entrada con costo; recalcula el costo promedio ponderado.
func (uc *RegisterMovementUseCase) doIN(ctx context.Context, r repository.TxRepos, input MovementInputDTO, now time.Time, txID string) error {
	return StockIn(ctx, r, StockChange{
		ProductID:     input.ProductID,
		StoreID:       input.StoreID,
		Type:          entity.MovementTypeIN,
		Quantity:      input.Quantity,
		UnitCost:      *input.UnitCost,
		TransactionID: txID,
		UserID:        input.UserID,
		At:            now,
	}, false)
}

// doOUT: salida al costo promedio actual; falla con ErrInsufficientStock.
func (uc *RegisterMovementUseCase) doOUT(ctx context.Context, r repository.TxRepos, input MovementInputDTO, now time.Time, txID string) error {
	_, err := StockOut(ctx, r, StockChange{
		ProductID:     input.ProductID,
		StoreID:       input.StoreID,
		Type:          entity.MovementTypeOUT,
		Quantity:      input.Quantity,
		TransactionID: txID,
		UserID:        input.UserID,
		At:            now,
	})
	return err
}

// doADJUSTMENT: positivo como entrada (sin costo informado conserva el promedio), negativo como salida.
func (uc *RegisterMovementUseCase) doADJUSTMENT(ctx context.Context, r repository.TxRepos, product *entity.Product, input MovementInputDTO, now time.Time, txID string) error {
	change := StockChange{
		ProductID:     input.ProductID,
		StoreID:       input.StoreID,
		Type:          entity.MovementTypeADJUSTMENT,
		TransactionID: txID,
		UserID:        input.UserID,
		At:            now,
	}
	if input.Quantity.IsPositive() {
		change.Quantity = input.Quantity
		if input.UnitCost != nil {
			change.UnitCost = *input.UnitCost
			return StockIn(ctx, r, change, false)
		}
		change.UnitCost = product.Cost
		return StockIn(ctx, r, change, true)
	}
	change.Quantity = input.Quantity.Neg()
	_, err := StockOut(ctx, r, change)
	return err
}

// doTRANSFER: resta de la tienda origen y suma en la destino en la misma transacción.
func (uc *RegisterMovementUseCase) doTRANSFER(ctx context.Context, r repository.TxRepos, input MovementInputDTO, now time.Time, txID string) error {
	change := StockChange{
		ProductID:     input.ProductID,
		StoreID:       input.FromStoreID,
		Type:          entity.MovementTypeTRANSFER,
		Quantity:      input.Quantity,
		TransactionID: txID,
		UserID:        input.UserID,
		At:            now,
	}
	unitCost, err := StockOut(ctx, r, change)
	if err != nil {
		return err
	}
	change.StoreID = input.ToStoreID
	change.UnitCost = unitCost
	return StockIn(ctx, r, change, true)
}

func checkStore(ctx context.Context, repo repository.StoreRepository, companyID, storeID string) error {
	if storeID == "" {
		return domain.ErrInvalidInput
	}
	store, err := repo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil || store.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}
