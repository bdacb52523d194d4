package employee

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// PerformanceUseCase desempeño de cajeros (EmployeeMonitoring).
type PerformanceUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewPerformanceUseCase construye el caso de uso.
func NewPerformanceUseCase(analyticsRepo repository.AnalyticsRepository) *PerformanceUseCase {
	return &PerformanceUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// Report ventas, ticket promedio, unidades, anulaciones y diferencias de caja por cajero.
// from/to en YYYY-MM-DD; vacíos = mes en curso.
func (uc *PerformanceUseCase) Report(ctx context.Context, companyID, from, to string) (*dto.PerformanceReportDTO, error) {
	start, end, err := dto.ParsePeriod(from, to, uc.now())
	if err != nil {
		return nil, err
	}
	stats, err := uc.analyticsRepo.GetCashierStats(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	out := &dto.PerformanceReportDTO{
		Period:   dto.PeriodDTO{From: start, To: end},
		Cashiers: make([]dto.CashierPerformanceDTO, 0, len(stats)),
	}
	for _, s := range stats {
		avg := decimal.Zero
		if s.SalesCount > 0 {
			avg = s.Revenue.Div(decimal.NewFromInt(int64(s.SalesCount))).Round(2)
		}
		out.Cashiers = append(out.Cashiers, dto.CashierPerformanceDTO{
			UserID:         s.UserID,
			UserName:       s.UserName,
			SalesCount:     s.SalesCount,
			Revenue:        s.Revenue.Round(2),
			AverageTicket:  avg,
			ItemsSold:      s.UnitsSold,
			VoidCount:      s.VoidCount,
			CashDifference: s.CashDifference,
		})
	}
	return out, nil
}
