package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Cada operación retorna un
// error de esta taxonomía para que la capa HTTP decida el código de respuesta:
// validación → 400 con detalle de línea, no encontrado → 404, persistencia y
// exportación → fallo genérico.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrPersistence  = errors.New("error de persistencia")
	ErrExport       = errors.New("error al exportar el documento")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// LineItemError señala una línea inválida dentro de una factura, atribuible
// por índice y por el tratamiento de origen. Envuelve ErrInvalidInput para que
// errors.Is(err, ErrInvalidInput) siga funcionando en los callers.
type LineItemError struct {
	Index       int    // Posición de la línea en la lista (base 0)
	TreatmentID string // ID del tratamiento de origen, si se conoce
	Field       string // Campo ofensivo: base_price, vat_percent, paid_amount, payment_status
	Reason      string
}

func (e *LineItemError) Error() string {
	return fmt.Sprintf("línea %d (tratamiento %q): %s: %s", e.Index, e.TreatmentID, e.Field, e.Reason)
}

func (e *LineItemError) Unwrap() error { return ErrInvalidInput }
