package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
)

// HardwareHandler periféricos del terminal: lector, impresora, cajón y datáfono.
type HardwareHandler struct {
	manager  *hardware.Manager
	products *usecase.ProductUseCase
}

// NewHardwareHandler construye el handler.
func NewHardwareHandler(manager *hardware.Manager, products *usecase.ProductUseCase) *HardwareHandler {
	return &HardwareHandler{manager: manager, products: products}
}

// Status godoc
// @Summary      Estado de los periféricos
// @Tags         hardware
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DeviceStatusResponse
// @Router       /api/hardware/status [get]
func (h *HardwareHandler) Status(c *fiber.Ctx) error {
	return c.JSON(deviceStatuses(h.manager))
}

func deviceStatuses(m *hardware.Manager) []dto.DeviceStatusResponse {
	states := m.Statuses()
	out := make([]dto.DeviceStatusResponse, 0, len(hardware.Devices))
	for _, d := range hardware.Devices {
		st := states[d]
		out = append(out, dto.DeviceStatusResponse{
			Device:    string(d),
			Status:    string(st.Status),
			LastError: st.LastError,
			UpdatedAt: st.UpdatedAt,
		})
	}
	return out
}

// Connect POST /api/hardware/:device/connect
func (h *HardwareHandler) Connect(c *fiber.Ctx) error {
	d, ok := hardware.ParseDevice(c.Params("device"))
	if !ok {
		return respondError(c, domain.ErrDeviceUnavailable)
	}
	if err := h.manager.Connect(c.Context(), d); err != nil {
		return respondError(c, err)
	}
	return c.JSON(deviceStatuses(h.manager))
}

// Disconnect POST /api/hardware/:device/disconnect
func (h *HardwareHandler) Disconnect(c *fiber.Ctx) error {
	d, ok := hardware.ParseDevice(c.Params("device"))
	if !ok {
		return respondError(c, domain.ErrDeviceUnavailable)
	}
	if err := h.manager.Disconnect(d); err != nil {
		return respondError(c, err)
	}
	return c.JSON(deviceStatuses(h.manager))
}

// OpenCashDrawer POST /api/hardware/cash-drawer/open
func (h *HardwareHandler) OpenCashDrawer(c *fiber.Ctx) error {
	if err := h.manager.OpenCashDrawer(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StatusMessage{Status: "ok", Message: "cajón abierto"})
}

// Scan godoc
// @Summary      Lectura del escáner
// @Description  Un cliente tipo wedge envía el código leído; se devuelve el producto por código de barras o SKU.
// @Tags         hardware
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "código leído"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse  "lector desconectado"
// @Router       /api/hardware/scan [post]
func (h *HardwareHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ev, err := h.manager.Scan(in.Code)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.products.GetByCode(c.Context(), GetCompanyID(c), ev.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}
