package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago a nivel de línea.
const (
	LinePaymentFull    = "full"    // La línea quedó cubierta (se abona el precio base)
	LinePaymentPartial = "partial" // Abono parcial declarado por el caller
	LinePaymentUnpaid  = "unpaid"  // Sin abono
)

// ValidLinePaymentStatus verifica que el estado de línea pertenezca al enum.
func ValidLinePaymentStatus(s string) bool {
	switch s {
	case LinePaymentFull, LinePaymentPartial, LinePaymentUnpaid:
		return true
	}
	return false
}

// InvoiceLineItem es una línea de factura ya valorada: un tratamiento aplicado
// a un paciente con su precio, IVA y abono resueltos. Los campos derivados
// (VATAmount, PaidAmount según estado, TotalAmount) los fija el valuador; una
// línea nunca se construye a mano fuera de él.
type InvoiceLineItem struct {
	ID            string          // Referencia al tratamiento del catálogo
	Name          string          // Snapshot del nombre al facturar
	Description   string
	Date          time.Time       // Fecha de realización del tratamiento
	BasePrice     decimal.Decimal // Precio sin IVA
	IncludeVAT    bool
	VATPercent    decimal.Decimal // Solo relevante si IncludeVAT
	VATAmount     decimal.Decimal // BasePrice * VATPercent / 100, o cero
	PaymentStatus string          // full | partial | unpaid
	PaidAmount    decimal.Decimal // Derivado del estado de pago
	Notes         string
	TotalAmount   decimal.Decimal // BasePrice + VATAmount
}
