package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable traduce errores de dominio a HTTP. Se evalúa en orden con errors.Is.
var errorTable = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrSessionAlreadyOpen, fiber.StatusConflict, "SESSION_ALREADY_OPEN"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrPaymentDeclined, fiber.StatusPaymentRequired, "PAYMENT_DECLINED"},
	{domain.ErrPaymentInsufficient, fiber.StatusPaymentRequired, "PAYMENT_INSUFFICIENT"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{domain.ErrApprovalRequired, fiber.StatusUnprocessableEntity, "APPROVAL_REQUIRED"},
	{domain.ErrOverpayment, fiber.StatusUnprocessableEntity, "OVERPAYMENT"},
	{domain.ErrInsufficientPoints, fiber.StatusUnprocessableEntity, "INSUFFICIENT_POINTS"},
	{domain.ErrNoOpenSession, fiber.StatusUnprocessableEntity, "NO_OPEN_SESSION"},
	{domain.ErrPromotionInvalid, fiber.StatusUnprocessableEntity, "PROMOTION_INVALID"},
	{domain.ErrDeviceUnavailable, fiber.StatusServiceUnavailable, "DEVICE_UNAVAILABLE"},
}

// StatusFor devuelve el código HTTP y el código de error para err.
func StatusFor(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe err como dto.ErrorResponse. Los errores internos no exponen detalle.
func respondError(c *fiber.Ctx, err error) error {
	status, code := StatusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func invalidQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
}

func validation(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}
