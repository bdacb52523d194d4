package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/employee"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/permission"
)

// UserHandler empleados de la empresa.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empleado
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "email, password, nombre y rol"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if len(in.Password) < 8 {
		return validation(c, "password debe tener al menos 8 caracteres")
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/users/:id
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/users?limit=&offset=
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Permissions godoc
// @Summary      Permisos por rol
// @Description  Sin parámetro devuelve todos los roles; con :role solo ese rol.
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Param        role  path  string  false  "Rol"
// @Success      200   {array}   dto.RolePermissionsResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/permissions/{role} [get]
func (h *UserHandler) Permissions(c *fiber.Ctx) error {
	role := c.Params("role")
	if role != "" {
		if !permission.ValidRole(role) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "rol desconocido"})
		}
		return c.JSON([]dto.RolePermissionsResponse{{Role: role, Permissions: permission.ForRole(role)}})
	}
	roles := permission.Roles()
	out := make([]dto.RolePermissionsResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.RolePermissionsResponse{Role: r, Permissions: permission.ForRole(r)})
	}
	return c.JSON(out)
}

// CashSessionHandler apertura, cierre y revisión de caja.
type CashSessionHandler struct {
	uc *employee.CashSessionUseCase
}

// NewCashSessionHandler construye el handler.
func NewCashSessionHandler(uc *employee.CashSessionUseCase) *CashSessionHandler {
	return &CashSessionHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir caja
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashSessionRequest  true  "tienda y base inicial"
// @Success      201   {object}  dto.CashSessionResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya hay una caja abierta"
// @Router       /api/cash-sessions [post]
func (h *CashSessionHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCashSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Open(c.Context(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Current GET /api/cash-sessions/current
func (h *CashSessionHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.Context(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar caja (arqueo)
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la sesión"
// @Param        body  body  dto.CloseCashSessionRequest  true  "efectivo contado"
// @Success      200   {object}  dto.CashSessionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/close [post]
func (h *CashSessionHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Close(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Review POST /api/cash-sessions/:id/review
func (h *CashSessionHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewCashSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Review(c.Context(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/cash-sessions?store_id=&status=
func (h *CashSessionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.List(c.Context(), GetCompanyID(c), c.Query("store_id"), c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
