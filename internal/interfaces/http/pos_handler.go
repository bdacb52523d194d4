package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/pos"
)

// POSHandler terminal de venta: cotización, cobro, canastas y anulaciones.
type POSHandler struct {
	uc *pos.SaleUseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(uc *pos.SaleUseCase) *POSHandler {
	return &POSHandler{uc: uc}
}

// Quote godoc
// @Summary      Cotizar carrito
// @Description  Calcula subtotal, descuentos, impuestos y total sin registrar la venta.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartRequest  true  "carrito"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/pos/quote [post]
func (h *POSHandler) Quote(c *fiber.Ctx) error {
	var in dto.CartRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Quote(c.Context(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Cobrar venta
// @Description  Pago en efectivo, tarjeta o dividido. El efectivo exige sesión de caja abierta.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "carrito y pagos"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse  "pago rechazado o insuficiente"
// @Failure      422   {object}  dto.ErrorResponse  "requiere aprobación, sin stock o sin sesión de caja"
// @Failure      503   {object}  dto.ErrorResponse  "datáfono no disponible"
// @Router       /api/pos/checkout [post]
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Checkout(c.Context(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Hold godoc
// @Summary      Guardar canasta temporal
// @Description  La canasta queda pendiente de aprobación de un gerente; no mueve stock.
// @Tags         baskets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HoldRequest  true  "carrito y nota"
// @Success      201   {object}  dto.SaleResponse
// @Router       /api/pos/baskets [post]
func (h *POSHandler) Hold(c *fiber.Ctx) error {
	var in dto.HoldRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Hold(c.Context(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPending GET /api/pos/baskets?store_id=
func (h *POSHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.Context(), GetCompanyID(c), c.Query("store_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve POST /api/pos/baskets/:id/approve
func (h *POSHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject POST /api/pos/baskets/:id/reject
func (h *POSHandler) Reject(c *fiber.Ctx) error {
	var in dto.ReasonRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Reject(c.Context(), ActorFrom(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CheckoutBasket POST /api/pos/baskets/:id/checkout
func (h *POSHandler) CheckoutBasket(c *fiber.Ctx) error {
	var in dto.PayBasketRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CheckoutBasket(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Void godoc
// @Summary      Anular venta del día
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la venta"
// @Param        body  body  dto.ReasonRequest  true  "motivo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/sales/{id}/void [post]
func (h *POSHandler) Void(c *fiber.Ctx) error {
	var in dto.ReasonRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Void(c.Context(), ActorFrom(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get GET /api/pos/sales/:id
func (h *POSHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        store_id    query  string  false  "Tienda"
// @Param        status      query  string  false  "Estado"
// @Param        cashier_id  query  string  false  "Cajero"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/pos/sales [get]
func (h *POSHandler) List(c *fiber.Ctx) error {
	var in dto.SaleListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.List(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt GET /api/pos/sales/:id/receipt (PDF)
func (h *POSHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.ReceiptPDF(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(filename)
	return c.Send(pdf)
}
