package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

// moduleChecker lo implementa *usecase.ModuleService.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}

// RequireModule corta la petición si la empresa del token no puede usar el módulo
// (no contratado, vencido o empresa suspendida). Va después de AuthMiddleware.
// Un fallo al consultar responde 503 para no confundirlo con falta de permiso.
func RequireModule(moduleName string, checker moduleChecker, log zerolog.Logger) fiber.Handler {
	deny := func(c *fiber.Ctx, status int, code, msg string) error {
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
	}
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return deny(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "company_id no encontrado en el token")
		}

		active, err := checker.HasActiveModule(c.Context(), companyID, moduleName)
		switch {
		case err != nil:
			log.Error().Err(err).Str("company_id", companyID).Str("module", moduleName).Msg("no se pudo verificar el módulo")
			return deny(c, fiber.StatusServiceUnavailable, "MODULE_CHECK_FAILED", "no se pudo verificar el módulo, intente más tarde")
		case !active:
			return deny(c, fiber.StatusForbidden, "MODULE_DISABLED", "el módulo '"+moduleName+"' no está activo para esta empresa")
		}
		return c.Next()
	}
}
