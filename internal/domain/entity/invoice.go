package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de la factura, siempre derivados de las líneas.
const (
	InvoiceStatusUnpaid  = "UNPAID"  // Sin abonos registrados
	InvoiceStatusPartial = "PARTIAL" // Abonos parciales, saldo pendiente
	InvoiceStatusPaid    = "PAID"    // Saldo pendiente <= 0
)

// Métodos de pago aceptados al marcar una factura como pagada.
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCard         = "CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodMobileMoney  = "MOBILE_MONEY"
	PaymentMethodOther        = "OTHER"
)

// ValidInvoiceStatus verifica que el estado pertenezca al enum.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// ValidPaymentMethod verifica que el método de pago pertenezca al enum.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer,
		PaymentMethodMobileMoney, PaymentMethodOther:
		return true
	}
	return false
}

// Invoice representa la cabecera de una factura de la clínica.
// Todos los campos agregados (Subtotal, VATTotal, TotalAmount, PaidAmount,
// PendingAmount, Status) son función pura de LineItems: se recalculan completos
// en cada mutación y nunca se editan a mano.
type Invoice struct {
	ID            string // Formato INV-<año>-<sufijo de 6 dígitos>
	PatientID     string
	LineItems     []InvoiceLineItem // Orden = orden de presentación
	Subtotal      decimal.Decimal   // Σ BasePrice
	VATTotal      decimal.Decimal   // Σ VATAmount de las líneas con IVA
	TotalAmount   decimal.Decimal   // Subtotal + VATTotal
	PaidAmount    decimal.Decimal   // Σ PaidAmount de las líneas
	PendingAmount decimal.Decimal   // TotalAmount - PaidAmount (puede ser negativo por sobrepago)
	Status        string            // UNPAID | PARTIAL | PAID
	CreatedByID   string            // Referencia al miembro del personal que la creó
	PaymentMethod string            // Solo se registra en el override explícito a PAID
	PaidAt        *time.Time        // Sello al marcar PAID por override
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
