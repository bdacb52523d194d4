package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/employee"
)

// ReportsHandler reportes financieros y de desempeño de cajeros.
type ReportsHandler struct {
	financial   *appanalytics.FinancialReportUseCase
	performance *employee.PerformanceUseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(financial *appanalytics.FinancialReportUseCase, performance *employee.PerformanceUseCase) *ReportsHandler {
	return &ReportsHandler{financial: financial, performance: performance}
}

// Financial godoc
// @Summary      Reporte financiero del período
// @Description  Ingresos, costo de ventas, utilidad bruta, margen, impuestos y descuentos,
//               desglosados por medio de pago y por día. Las ventas anuladas no cuentan.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from      query  string  false  "Inicio del período (YYYY-MM-DD). Default: primer día del mes."
// @Param        to        query  string  false  "Fin del período (YYYY-MM-DD). Default: hoy."
// @Param        store_id  query  string  false  "Tienda"
// @Success      200  {object}  dto.FinancialReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/financial [get]
func (h *ReportsHandler) Financial(c *fiber.Ctx) error {
	var req dto.FinancialReportRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidQuery(c)
	}
	report, err := h.financial.Generate(c.Context(), GetCompanyID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// Performance godoc
// @Summary      Desempeño por cajero
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.PerformanceReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/performance [get]
func (h *ReportsHandler) Performance(c *fiber.Ctx) error {
	report, err := h.performance.Report(c.Context(), GetCompanyID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
