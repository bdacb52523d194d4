package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
)

// CompanyHandler maneja las peticiones HTTP de empresas (tenants) y sus módulos.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empresa
// @Description  Alta de un tenant; se activan todos los módulos.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Name == "" || in.NIT == "" {
		return validation(c, "name y nit son requeridos")
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "me" {
		id = GetCompanyID(c)
	}
	if id != GetCompanyID(c) {
		return respondError(c, domain.ErrForbidden)
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas
// @Tags         companies
// @Produce      json
// @Security     Bearer
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.CompanyListResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Suspender o reactivar una empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.CompanyStatusRequest  true  "active, suspended o inactive"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/status [patch]
func (h *CompanyHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.CompanyStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetStatus(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Modules GET /api/companies/me/modules
func (h *CompanyHandler) Modules(c *fiber.Ctx) error {
	out, err := h.uc.Modules(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ActivateModule godoc
// @Summary      Activar módulo SaaS
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.ActivateModuleRequest  true  "módulo y vencimiento opcional"
// @Success      200   {array}   dto.ModuleStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies/me/modules [post]
func (h *CompanyHandler) ActivateModule(c *fiber.Ctx) error {
	var in dto.ActivateModuleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	companyID := GetCompanyID(c)
	if err := h.uc.ActivateModule(c.Context(), companyID, in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Modules(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
