package billing

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
)

// Totals son los agregados de la factura derivados de sus líneas.
type Totals struct {
	Subtotal      decimal.Decimal
	VATTotal      decimal.Decimal
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	PendingAmount decimal.Decimal
	Status        string
}

// Aggregate recalcula los totales desde cero a partir de la lista de líneas.
// Nunca se parchea un agregado de forma incremental: el recálculo completo
// elimina la clase entera de bugs de totales obsoletos tras editar una línea,
// a costo O(n) con n de un dígito en la práctica.
//
// Lista vacía produce totales en cero y estado UNPAID; el rechazo de facturas
// sin líneas ocurre en el servicio de ciclo de vida, no aquí. PendingAmount
// puede quedar negativo por sobrepago y se reporta tal cual, sin recortar.
func Aggregate(items []entity.InvoiceLineItem) Totals {
	if len(items) == 0 {
		// Sin líneas no hay nada pagable: UNPAID, no PAID por saldo cero.
		return Totals{
			Subtotal:      decimal.Zero,
			VATTotal:      decimal.Zero,
			TotalAmount:   decimal.Zero,
			PaidAmount:    decimal.Zero,
			PendingAmount: decimal.Zero,
			Status:        entity.InvoiceStatusUnpaid,
		}
	}

	subtotal := decimal.Zero
	vatTotal := decimal.Zero
	paidAmount := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.BasePrice)
		if it.IncludeVAT {
			vatTotal = vatTotal.Add(it.VATAmount)
		}
		paidAmount = paidAmount.Add(it.PaidAmount)
	}
	totalAmount := subtotal.Add(vatTotal)
	pendingAmount := totalAmount.Sub(paidAmount)

	return Totals{
		Subtotal:      subtotal,
		VATTotal:      vatTotal,
		TotalAmount:   totalAmount,
		PaidAmount:    paidAmount,
		PendingAmount: pendingAmount,
		Status:        deriveStatus(paidAmount, pendingAmount),
	}
}

// deriveStatus aplica la ley de derivación del estado:
// pending <= 0 → PAID; paid > 0 → PARTIAL; si no → UNPAID.
func deriveStatus(paid, pending decimal.Decimal) string {
	switch {
	case pending.LessThanOrEqual(decimal.Zero):
		return entity.InvoiceStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return entity.InvoiceStatusPartial
	default:
		return entity.InvoiceStatusUnpaid
	}
}

// ApplyTotals copia los agregados recalculados sobre la factura.
func ApplyTotals(inv *entity.Invoice, t Totals) {
	inv.Subtotal = t.Subtotal
	inv.VATTotal = t.VATTotal
	inv.TotalAmount = t.TotalAmount
	inv.PaidAmount = t.PaidAmount
	inv.PendingAmount = t.PendingAmount
	inv.Status = t.Status
}
