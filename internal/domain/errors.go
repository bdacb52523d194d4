package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Punto de venta y flujos con estado.
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrApprovalRequired    = errors.New("la operación requiere aprobación de un gerente")
	ErrPaymentInsufficient = errors.New("los pagos no cubren el total")
	ErrPaymentDeclined     = errors.New("pago rechazado por el datáfono")
	ErrOverpayment         = errors.New("el pago excede el saldo")
	ErrInsufficientPoints  = errors.New("puntos insuficientes")
	ErrNoOpenSession       = errors.New("no hay una sesión de caja abierta")
	ErrSessionAlreadyOpen  = errors.New("ya existe una sesión de caja abierta")
	ErrDeviceUnavailable   = errors.New("dispositivo no disponible")
	ErrPromotionInvalid    = errors.New("promoción no aplicable")
)
