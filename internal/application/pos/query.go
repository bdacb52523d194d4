package pos

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
)

// Get devuelve una venta o canasta de la empresa.
func (uc *SaleUseCase) Get(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	sale, err := owned(ctx, uc.Sales.GetByID, companyID, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, ""), nil
}

// List ventas con filtros de tienda, estado, cajero y rango de fechas (YYYY-MM-DD).
func (uc *SaleUseCase) List(ctx context.Context, companyID string, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	f := repository.SaleFilter{
		StoreID:   in.StoreID,
		Status:    in.Status,
		CashierID: in.CashierID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	loc := uc.now().Location()
	if in.From != "" {
		from, err := time.ParseInLocation(dto.DateLayout, in.From, loc)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.From = &from
	}
	if in.To != "" {
		to, err := time.ParseInLocation(dto.DateLayout, in.To, loc)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
		f.To = &to
	}
	list, err := uc.Sales.List(ctx, companyID, f)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, *toSaleResponse(s, ""))
	}
	return out, nil
}

// ReceiptPDF genera el recibo de una venta completada o anulada para descarga.
func (uc *SaleUseCase) ReceiptPDF(ctx context.Context, companyID, id string) ([]byte, string, error) {
	if uc.Renderer == nil {
		return nil, "", domain.ErrDeviceUnavailable
	}
	sale, err := owned(ctx, uc.Sales.GetByID, companyID, id)
	if err != nil {
		return nil, "", err
	}
	if sale.Status != entity.SaleStatusCompleted && sale.Status != entity.SaleStatusVoided {
		return nil, "", domain.ErrConflict
	}
	receipt, err := uc.buildReceipt(ctx, sale)
	if err != nil {
		return nil, "", err
	}
	raw, err := uc.Renderer.RenderReceipt(ctx, receipt)
	if err != nil {
		return nil, "", err
	}
	return raw, "recibo_" + sale.Number + ".pdf", nil
}

// buildReceipt reúne los datos de empresa, tienda, cajero y cliente para el recibo.
func (uc *SaleUseCase) buildReceipt(ctx context.Context, sale *entity.Sale) (hardware.Receipt, error) {
	settings, err := uc.Settings.Effective(ctx, sale.CompanyID)
	if err != nil {
		return hardware.Receipt{}, err
	}
	r := hardware.Receipt{
		Number:         sale.Number,
		Header:         settings.ReceiptHeader,
		Footer:         settings.ReceiptFooter,
		CurrencyCode:   settings.CurrencyCode,
		Locale:         settings.Locale,
		Subtotal:       sale.Subtotal,
		Discount:       sale.DiscountTotal,
		Tax:            sale.TaxTotal,
		Total:          sale.Total,
		Change:         sale.ChangeDue,
		PointsEarned:   sale.PointsEarned,
		PointsRedeemed: sale.PointsRedeemed,
		IssuedAt:       sale.CreatedAt,
		Voided:         sale.Status == entity.SaleStatusVoided,
	}
	if sale.CompletedAt != nil {
		r.IssuedAt = *sale.CompletedAt
	}
	company, err := uc.Companies.GetByID(ctx, sale.CompanyID)
	if err != nil {
		return hardware.Receipt{}, err
	}
	if company != nil {
		r.CompanyName, r.CompanyNIT = company.Name, company.NIT
	}
	store, err := uc.Stores.GetByID(ctx, sale.StoreID)
	if err != nil {
		return hardware.Receipt{}, err
	}
	if store != nil {
		r.StoreName = store.Name
	}
	cashier, err := uc.Users.GetByID(ctx, sale.CashierID)
	if err != nil {
		return hardware.Receipt{}, err
	}
	if cashier != nil {
		r.CashierName = cashier.Name
	}
	if sale.CustomerID != "" {
		cust, err := uc.Customers.GetByID(ctx, sale.CustomerID)
		if err != nil {
			return hardware.Receipt{}, err
		}
		if cust != nil {
			r.CustomerName = cust.Name
			r.PointsBalance = cust.LoyaltyPoints
		}
	}
	for _, it := range sale.Items {
		r.Lines = append(r.Lines, hardware.ReceiptLine{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			Total:     it.Total,
		})
	}
	for _, p := range sale.Payments {
		r.Payments = append(r.Payments, hardware.ReceiptPayment{Method: p.Method, Amount: p.Amount})
	}
	return r, nil
}

func toLineResponse(it entity.SaleItem) dto.SaleLineResponse {
	return dto.SaleLineResponse{
		ProductID:   it.ProductID,
		SKU:         it.SKU,
		Name:        it.Name,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		DiscountPct: it.DiscountPct,
		Discount:    it.Discount,
		TaxRate:     it.TaxRate,
		TaxAmount:   it.TaxAmount,
		Subtotal:    it.Subtotal,
		Total:       it.Total,
	}
}

func toSaleResponse(s *entity.Sale, receiptPath string) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:             s.ID,
		Number:         s.Number,
		StoreID:        s.StoreID,
		CashierID:      s.CashierID,
		CustomerID:     s.CustomerID,
		CashSessionID:  s.CashSessionID,
		Status:         s.Status,
		PromotionCode:  s.PromotionCode,
		Lines:          make([]dto.SaleLineResponse, 0, len(s.Items)),
		Payments:       make([]dto.SalePaymentResponse, 0, len(s.Payments)),
		Subtotal:       s.Subtotal,
		DiscountTotal:  s.DiscountTotal,
		TaxTotal:       s.TaxTotal,
		Total:          s.Total,
		ChangeDue:      s.ChangeDue,
		PointsEarned:   s.PointsEarned,
		PointsRedeemed: s.PointsRedeemed,
		Notes:          s.Notes,
		ApprovedBy:     s.ApprovedBy,
		VoidReason:     s.VoidReason,
		ReceiptPath:    receiptPath,
		CreatedAt:      s.CreatedAt,
		CompletedAt:    s.CompletedAt,
	}
	for _, it := range s.Items {
		out.Lines = append(out.Lines, toLineResponse(it))
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, dto.SalePaymentResponse{
			Method:    p.Method,
			Amount:    p.Amount,
			Reference: p.Reference,
			CardLast4: p.CardLast4,
		})
	}
	return out
}
