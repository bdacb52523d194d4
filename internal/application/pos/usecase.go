// Package pos contiene los casos de uso del punto de venta: cotización, cobro con
// pago dividido, canastas temporales con aprobación, anulaciones y recibos.
package pos

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
)

// SettingsReader configuración efectiva de la empresa.
type SettingsReader interface {
	Effective(ctx context.Context, companyID string) (entity.Settings, error)
}

// Devices periféricos usados por el POS (implementado por hardware.Manager).
type Devices interface {
	AuthorizeCard(ctx context.Context, amount decimal.Decimal) (hardware.CardAuthorization, error)
	VoidCard(ctx context.Context, auth hardware.CardAuthorization) error
	OpenCashDrawer(ctx context.Context) error
	PrintReceipt(ctx context.Context, r hardware.Receipt) (string, error)
}

// Deps dependencias del caso de uso. Devices y Renderer son opcionales:
// sin datáfono no se aceptan pagos con tarjeta y sin renderer no hay PDF de recibo.
type Deps struct {
	TxRunner     repository.TxRunner
	Sales        repository.SaleRepository
	Products     repository.ProductRepository
	Customers    repository.CustomerRepository
	Promotions   repository.PromotionRepository
	CashSessions repository.CashSessionRepository
	Stores       repository.StoreRepository
	Companies    repository.CompanyRepository
	Users        repository.UserRepository
	Settings     SettingsReader
	Devices      Devices
	Renderer     hardware.ReceiptRenderer
	Publisher    *realtime.Publisher
	Log          zerolog.Logger
}

// SaleUseCase operaciones del terminal POS.
type SaleUseCase struct {
	Deps
	now func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(deps Deps) *SaleUseCase {
	return &SaleUseCase{Deps: deps, now: time.Now}
}

// owned carga la venta y verifica que pertenezca a la empresa.
// owned carga la venta con get (GetByID, o GetByIDForUpdate dentro de una
// transacción) y verifica que pertenezca a la empresa.
func owned(ctx context.Context, get func(context.Context, string) (*entity.Sale, error), companyID, id string) (*entity.Sale, error) {
	sale, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

func (uc *SaleUseCase) checkStore(ctx context.Context, companyID, storeID string) error {
	if storeID == "" {
		return domain.ErrInvalidInput
	}
	st, err := uc.Stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if st == nil || st.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if !st.IsActive {
		return domain.ErrConflict
	}
	return nil
}

func (uc *SaleUseCase) publishSale(ctx context.Context, sale *entity.Sale, eventType string, stockChanged bool) {
	topic := realtime.TopicSales
	if sale.Status == entity.SaleStatusPendingApproval || sale.Status == entity.SaleStatusApproved ||
		sale.Status == entity.SaleStatusRejected {
		topic = realtime.TopicBaskets
	}
	out := toSaleResponse(sale, "")
	uc.Publisher.Notify(ctx, sale.CompanyID, topic, eventType, sale.ID, out)
	if !stockChanged {
		return
	}
	for _, it := range sale.Items {
		uc.Publisher.Notify(ctx, sale.CompanyID, realtime.TopicStock, realtime.EventUpdated, it.ProductID, map[string]string{
			"store_id": sale.StoreID,
			"sale_id":  sale.ID,
		})
	}
}
