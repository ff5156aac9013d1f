package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dental-pro/internal/domain"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// RawLineItemInput es la línea tal como la entrega el caller antes de valorar.
// Name, Description y BasePrice son el snapshot tomado del catálogo de
// tratamientos al momento de facturar.
type RawLineItemInput struct {
	TreatmentID   string
	Name          string
	Description   string
	Date          time.Time
	BasePrice     decimal.Decimal
	IncludeVAT    bool
	VATPercent    decimal.Decimal // 0..100
	PaymentStatus string          // full | partial | unpaid
	PaidAmount    decimal.Decimal // Solo relevante con PaymentStatus = partial
	Notes         string
}

// Valuate normaliza una línea: calcula IVA, total y monto pagado según el
// estado de pago. Es determinista y sin efectos secundarios. El índice se usa
// únicamente para atribuir errores de validación a la línea ofensiva.
//
// Reglas, en este orden:
//  1. VATAmount = BasePrice * VATPercent / 100 si IncludeVAT, si no 0.
//  2. TotalAmount = BasePrice + VATAmount.
//  3. PaidAmount según PaymentStatus:
//     full    → BasePrice (el IVA NO se suma aquí: comportamiento heredado del
//     sistema original, pendiente de aclaración con negocio; una línea "full"
//     con IVA deja saldo pendiente igual al IVA. No corregir sin decisión.)
//     unpaid  → 0.
//     partial → monto del caller, no negativo.
func Valuate(index int, in RawLineItemInput) (entity.InvoiceLineItem, error) {
	if in.BasePrice.IsNegative() {
		return entity.InvoiceLineItem{}, &domain.LineItemError{
			Index: index, TreatmentID: in.TreatmentID,
			Field: "base_price", Reason: "el precio base no puede ser negativo",
		}
	}
	if in.VATPercent.IsNegative() || in.VATPercent.GreaterThan(hundred) {
		return entity.InvoiceLineItem{}, &domain.LineItemError{
			Index: index, TreatmentID: in.TreatmentID,
			Field: "vat_percent", Reason: "el porcentaje de IVA debe estar entre 0 y 100",
		}
	}
	if !entity.ValidLinePaymentStatus(in.PaymentStatus) {
		return entity.InvoiceLineItem{}, &domain.LineItemError{
			Index: index, TreatmentID: in.TreatmentID,
			Field: "payment_status", Reason: "estado de pago desconocido: " + in.PaymentStatus,
		}
	}

	vatAmount := decimal.Zero
	if in.IncludeVAT {
		vatAmount = in.BasePrice.Mul(in.VATPercent).Div(hundred)
	}
	totalAmount := in.BasePrice.Add(vatAmount)

	var paidAmount decimal.Decimal
	switch in.PaymentStatus {
	case entity.LinePaymentFull:
		paidAmount = in.BasePrice
	case entity.LinePaymentUnpaid:
		paidAmount = decimal.Zero
	case entity.LinePaymentPartial:
		if in.PaidAmount.IsNegative() {
			return entity.InvoiceLineItem{}, &domain.LineItemError{
				Index: index, TreatmentID: in.TreatmentID,
				Field: "paid_amount", Reason: "el abono parcial no puede ser negativo",
			}
		}
		paidAmount = in.PaidAmount
	}

	return entity.InvoiceLineItem{
		ID:            in.TreatmentID,
		Name:          in.Name,
		Description:   in.Description,
		Date:          in.Date,
		BasePrice:     in.BasePrice,
		IncludeVAT:    in.IncludeVAT,
		VATPercent:    in.VATPercent,
		VATAmount:     vatAmount,
		PaymentStatus: in.PaymentStatus,
		PaidAmount:    paidAmount,
		Notes:         in.Notes,
		TotalAmount:   totalAmount,
	}, nil
}

// ValuateAll valora la lista completa; retorna el primer error de línea.
func ValuateAll(inputs []RawLineItemInput) ([]entity.InvoiceLineItem, error) {
	items := make([]entity.InvoiceLineItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := Valuate(i, in)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
