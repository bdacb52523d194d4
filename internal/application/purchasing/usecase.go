// Package purchasing gestiona las órdenes de compra a proveedores: alta, envío,
// recepción (entrada de inventario y factura por pagar) y reorden automático.
package purchasing

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SystemUser autor de las órdenes generadas por el reorden automático.
const SystemUser = "system"

const supplierActive = "active"

// PurchaseOrderUseCase casos de uso de órdenes de compra.
type PurchaseOrderUseCase struct {
	txRunner     repository.TxRunner
	repo         repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	storeRepo    repository.StoreRepository
	stockRepo    repository.StockRepository
	settingsRepo repository.SettingsRepository
	publisher    *realtime.Publisher
	log          zerolog.Logger
	now          func() time.Time
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	txRunner repository.TxRunner,
	repo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	stockRepo repository.StockRepository,
	settingsRepo repository.SettingsRepository,
	publisher *realtime.Publisher,
	log zerolog.Logger,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		txRunner:     txRunner,
		repo:         repo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		storeRepo:    storeRepo,
		stockRepo:    stockRepo,
		settingsRepo: settingsRepo,
		publisher:    publisher,
		log:          log,
		now:          time.Now,
	}
}

// Create registra una orden en borrador.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.supplier(ctx, actor.CompanyID, in.SupplierID); err != nil {
		return nil, err
	}
	if err := uc.checkStore(ctx, actor.CompanyID, in.StoreID); err != nil {
		return nil, err
	}
	items := make([]entity.PurchaseOrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() || it.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.CompanyID != actor.CompanyID {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.PurchaseOrderItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	po := uc.newOrder(actor.CompanyID, in.StoreID, in.SupplierID, actor.UserID, items)
	po.Notes = in.Notes
	po.ExpectedAt = in.ExpectedAt
	if err := uc.repo.Create(ctx, po); err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

func (uc *PurchaseOrderUseCase) newOrder(companyID, storeID, supplierID, userID string, items []entity.PurchaseOrderItem) *entity.PurchaseOrder {
	now := uc.now()
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity.Mul(it.UnitCost))
	}
	return &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		StoreID:    storeID,
		SupplierID: supplierID,
		Number:     entity.DocumentNumber(entity.PrefixPurchaseOrder, now),
		Status:     entity.POStatusDraft,
		Items:      items,
		Total:      total.Round(2),
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Send marca la orden como enviada al proveedor.
func (uc *PurchaseOrderUseCase) Send(ctx context.Context, companyID, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, companyID, id, entity.POStatusSent)
}

// Cancel anula una orden en borrador o enviada.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, companyID, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, companyID, id, entity.POStatusCancelled)
}

func (uc *PurchaseOrderUseCase) transition(ctx context.Context, companyID, id, next string) (*dto.PurchaseOrderResponse, error) {
	var result *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		po, err := ownedOrder(ctx, r.PurchaseOrders.GetByIDForUpdate, companyID, id)
		if err != nil {
			return err
		}
		if !po.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}
		po.Status = next
		po.UpdatedAt = uc.now()
		result = po
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(result), nil
}

// Receive ingresa la mercancía (movimientos RECEIPT al costo de la orden, recalculando
// el costo promedio) y genera la factura por pagar al proveedor, todo en una transacción.
// El vencimiento de la factura es la fecha de recepción más los días de crédito del proveedor.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, actor dto.Actor, id string, in dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.owned(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, po.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	var result *entity.PurchaseOrder
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		po, err := ownedOrder(ctx, r.PurchaseOrders.GetByIDForUpdate, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if !po.CanTransitionTo(entity.POStatusReceived) {
			return domain.ErrInvalidTransition
		}
		now := uc.now()
		lines := make([]entity.InvoiceLine, 0, len(po.Items))
		for _, it := range po.Items {
			err := inventory.StockIn(ctx, r, inventory.StockChange{
				ProductID:     it.ProductID,
				StoreID:       po.StoreID,
				Type:          entity.MovementTypeRECEIPT,
				Quantity:      it.Quantity,
				UnitCost:      it.UnitCost,
				TransactionID: po.ID,
				UserID:        actor.UserID,
				At:            now,
			}, false)
			if err != nil {
				return err
			}
			description := it.ProductID
			if p, err := r.Products.GetByID(ctx, it.ProductID); err == nil && p != nil {
				description = p.SKU + " " + p.Name
			}
			lines = append(lines, entity.InvoiceLine{
				Description: description,
				ProductID:   it.ProductID,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitCost,
				TaxRate:     decimal.Zero,
			})
		}

		number := strings.TrimSpace(in.InvoiceNumber)
		if number == "" {
			number = po.Number
		}
		inv := &entity.Invoice{
			ID:               uuid.New().String(),
			CompanyID:        po.CompanyID,
			Type:             entity.InvoicePayable,
			Number:           number,
			CounterpartyID:   supplier.ID,
			CounterpartyName: supplier.Name,
			PurchaseOrderID:  po.ID,
			IssueDate:        now,
			DueDate:          now.AddDate(0, 0, supplier.PaymentTermsDays),
			Lines:            lines,
			AmountPaid:       decimal.Zero,
			CreatedBy:        actor.UserID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		inv.Recalculate()
		inv.Status = inv.DeriveStatus(now)
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}

		po.Status = entity.POStatusReceived
		po.ReceivedAt = &now
		po.InvoiceID = inv.ID
		po.UpdatedAt = now
		result = po
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("purchase_order_id", result.ID).Str("invoice_id", result.InvoiceID).Msg("orden de compra recibida")
	uc.publisher.Notify(ctx, result.CompanyID, realtime.TopicInvoices, realtime.EventCreated, result.InvoiceID, nil)
	for _, it := range result.Items {
		uc.publisher.Notify(ctx, result.CompanyID, realtime.TopicStock, realtime.EventUpdated, it.ProductID, map[string]string{
			"product_id":     it.ProductID,
			"type":           entity.MovementTypeRECEIPT,
			"transaction_id": result.ID,
		})
	}
	return toPurchaseOrderResponse(result), nil
}

// Get orden por ID dentro de la empresa.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, companyID, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

// List órdenes de la empresa filtradas por estado y proveedor.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, companyID, status, supplierID string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, status, supplierID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toPurchaseOrderResponse(po))
	}
	return &dto.PurchaseOrderListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// AutoReorder genera órdenes en borrador para los productos bajo punto de reorden de cada
// tienda, descontando lo ya pedido en órdenes abiertas. Agrupa por proveedor preferido;
// los productos sin proveedor se omiten.
func (uc *PurchaseOrderUseCase) AutoReorder(ctx context.Context, companyID string) (*dto.AutoReorderResult, error) {
	result := &dto.AutoReorderResult{CompanyID: companyID, OrdersCreated: []string{}, SkippedProducts: []string{}}
	stores, err := uc.storeRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, store := range stores {
		if !store.IsActive {
			continue
		}
		items, err := uc.stockRepo.BelowReorderPoint(ctx, companyID, store.ID)
		if err != nil {
			return nil, err
		}
		bySupplier := map[string][]entity.PurchaseOrderItem{}
		for _, item := range items {
			_, qty := inventory.SuggestedQty(item)
			open, err := uc.repo.OpenQuantity(ctx, item.ProductID, store.ID)
			if err != nil {
				return nil, err
			}
			qty = qty.Sub(open)
			if !qty.IsPositive() {
				continue
			}
			if item.SupplierID == "" {
				uc.log.Warn().Str("company_id", companyID).Str("sku", item.SKU).Msg("reorden: producto sin proveedor")
				result.SkippedProducts = append(result.SkippedProducts, item.SKU)
				continue
			}
			bySupplier[item.SupplierID] = append(bySupplier[item.SupplierID], entity.PurchaseOrderItem{
				ProductID: item.ProductID,
				Quantity:  qty,
				UnitCost:  item.UnitCost,
			})
		}

		supplierIDs := make([]string, 0, len(bySupplier))
		for id := range bySupplier {
			supplierIDs = append(supplierIDs, id)
		}
		sort.Strings(supplierIDs)
		for _, supplierID := range supplierIDs {
			if _, err := uc.supplier(ctx, companyID, supplierID); err != nil {
				uc.log.Warn().Err(err).Str("supplier_id", supplierID).Msg("reorden: proveedor no disponible")
				continue
			}
			po := uc.newOrder(companyID, store.ID, supplierID, SystemUser, bySupplier[supplierID])
			po.Auto = true
			po.Notes = "Reorden automático"
			if err := uc.repo.Create(ctx, po); err != nil {
				return nil, err
			}
			result.OrdersCreated = append(result.OrdersCreated, po.ID)
		}
	}
	if len(result.OrdersCreated) > 0 {
		uc.log.Info().Str("company_id", companyID).Int("orders", len(result.OrdersCreated)).Msg("reorden automático")
	}
	return result, nil
}

// RunAutoReorder ejecuta AutoReorder para todas las empresas que lo tienen activo.
func (uc *PurchaseOrderUseCase) RunAutoReorder(ctx context.Context) ([]dto.AutoReorderResult, error) {
	companies, err := uc.settingsRepo.ListAutoReorder(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AutoReorderResult, 0, len(companies))
	for _, companyID := range companies {
		res, err := uc.AutoReorder(ctx, companyID)
		if err != nil {
			uc.log.Error().Err(err).Str("company_id", companyID).Msg("reorden automático falló")
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

func (uc *PurchaseOrderUseCase) owned(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	return ownedOrder(ctx, uc.repo.GetByID, companyID, id)
}

func ownedOrder(ctx context.Context, get func(context.Context, string) (*entity.PurchaseOrder, error), companyID, id string) (*entity.PurchaseOrder, error) {
	po, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return po, nil
}

func (uc *PurchaseOrderUseCase) supplier(ctx context.Context, companyID, id string) (*entity.Supplier, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || s.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if s.Status != supplierActive {
		return nil, domain.ErrConflict
	}
	return s, nil
}

func (uc *PurchaseOrderUseCase) checkStore(ctx context.Context, companyID, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	st, err := uc.storeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if st == nil || st.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemRequest, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.PurchaseOrderItemRequest{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	return &dto.PurchaseOrderResponse{
		ID:         po.ID,
		Number:     po.Number,
		SupplierID: po.SupplierID,
		StoreID:    po.StoreID,
		Status:     po.Status,
		Auto:       po.Auto,
		Items:      items,
		Total:      po.Total,
		Notes:      po.Notes,
		ExpectedAt: po.ExpectedAt,
		ReceivedAt: po.ReceivedAt,
		InvoiceID:  po.InvoiceID,
		CreatedBy:  po.CreatedBy,
		CreatedAt:  po.CreatedAt,
	}
}
