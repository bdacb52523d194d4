package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// SettingsUseCase configuración de operación por empresa.
type SettingsUseCase struct {
	repo repository.SettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// Effective devuelve la configuración guardada o los valores por defecto.
func (uc *SettingsUseCase) Effective(ctx context.Context, companyID string) (entity.Settings, error) {
	s, err := uc.repo.Get(ctx, companyID)
	if err != nil {
		return entity.Settings{}, err
	}
	if s == nil {
		return entity.DefaultSettings(companyID), nil
	}
	return *s, nil
}

// Get configuración efectiva como DTO.
func (uc *SettingsUseCase) Get(ctx context.Context, companyID string) (*dto.SettingsResponse, error) {
	s, err := uc.Effective(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(s), nil
}

// Update aplica cambios parciales y valida el resultado completo antes de guardar.
func (uc *SettingsUseCase) Update(ctx context.Context, companyID string, in dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	s, err := uc.Effective(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if in.CurrencyCode != nil {
		s.CurrencyCode = *in.CurrencyCode
	}
	if in.Locale != nil {
		s.Locale = *in.Locale
	}
	if in.DefaultTaxRate != nil {
		s.DefaultTaxRate = *in.DefaultTaxRate
	}
	if in.PointsPerUnit != nil {
		s.PointsPerUnit = *in.PointsPerUnit
	}
	if in.PointValue != nil {
		s.PointValue = *in.PointValue
	}
	if in.MaxCashierDiscountPct != nil {
		s.MaxCashierDiscountPct = *in.MaxCashierDiscountPct
	}
	if in.ReceiptHeader != nil {
		s.ReceiptHeader = *in.ReceiptHeader
	}
	if in.ReceiptFooter != nil {
		s.ReceiptFooter = *in.ReceiptFooter
	}
	if in.AutoReorderEnabled != nil {
		s.AutoReorderEnabled = *in.AutoReorderEnabled
	}
	if in.LowStockThreshold != nil {
		s.LowStockThreshold = *in.LowStockThreshold
	}
	if err := ValidateSettings(s); err != nil {
		return nil, err
	}
	s.CompanyID = companyID
	s.UpdatedAt = time.Now()
	if err := uc.repo.Upsert(ctx, &s); err != nil {
		return nil, err
	}
	return toSettingsResponse(s), nil
}

// ValidateSettings revisa rangos y códigos de moneda/idioma.
func ValidateSettings(s entity.Settings) error {
	switch {
	case !money.ValidCurrency(s.CurrencyCode), !money.ValidLocale(s.Locale):
		return domain.ErrInvalidInput
	case !ValidTaxRate(s.DefaultTaxRate):
		return domain.ErrInvalidInput
	case !s.PointsPerUnit.IsPositive(), s.PointValue.IsNegative():
		return domain.ErrInvalidInput
	case s.MaxCashierDiscountPct.IsNegative(), s.MaxCashierDiscountPct.GreaterThan(hundred):
		return domain.ErrInvalidInput
	case s.LowStockThreshold.IsNegative():
		return domain.ErrInvalidInput
	}
	return nil
}

func toSettingsResponse(s entity.Settings) *dto.SettingsResponse {
	resp := &dto.SettingsResponse{
		CurrencyCode:          s.CurrencyCode,
		Locale:                s.Locale,
		DefaultTaxRate:        s.DefaultTaxRate,
		PointsPerUnit:         s.PointsPerUnit,
		PointValue:            s.PointValue,
		MaxCashierDiscountPct: s.MaxCashierDiscountPct,
		ReceiptHeader:         s.ReceiptHeader,
		ReceiptFooter:         s.ReceiptFooter,
		AutoReorderEnabled:    s.AutoReorderEnabled,
		LowStockThreshold:     s.LowStockThreshold,
	}
	if !s.UpdatedAt.IsZero() {
		at := s.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}
