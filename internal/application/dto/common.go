package dto

import (
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
)

// DateLayout formato de fechas en query params (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PeriodDTO rango de fechas aplicado a un reporte.
type PeriodDTO struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// StatusMessage respuesta simple para operaciones sin cuerpo.
type StatusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Actor usuario autenticado que ejecuta una operación (tomado de los claims del JWT).
type Actor struct {
	CompanyID string
	UserID    string
	StoreID   string
	Role      string
}

// ParsePeriod interpreta from/to (YYYY-MM-DD, zona de now) como el rango
// [from 00:00, to 23:59:59.999999999]. Vacíos: del primer día del mes de now hasta hoy.
func ParsePeriod(from, to string, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var err error
	if from != "" {
		if start, err = time.ParseInLocation(DateLayout, from, now.Location()); err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
	}
	if to != "" {
		if end, err = time.ParseInLocation(DateLayout, to, now.Location()); err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
	}
	end = end.Add(24*time.Hour - time.Nanosecond)
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return start, end, nil
}
