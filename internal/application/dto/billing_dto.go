package dto

import "github.com/shopspring/decimal"

// LineItemRequest línea de factura tal como la envía el caller.
// Name, Description y BasePrice son opcionales: si van vacíos se toma el
// snapshot del catálogo de tratamientos al momento de facturar.
type LineItemRequest struct {
	TreatmentID   string          `json:"treatment_id"`
	Name          string          `json:"name,omitempty"`
	Description   string          `json:"description,omitempty"`
	Date          string          `json:"date,omitempty"` // formato 2006-01-02; vacío = hoy
	BasePrice     decimal.Decimal `json:"base_price"`     // cero = precio del catálogo
	IncludeVAT    bool            `json:"include_vat"`
	VATPercent    decimal.Decimal `json:"vat_percent"`
	PaymentStatus string          `json:"payment_status"` // full | partial | unpaid
	PaidAmount    decimal.Decimal `json:"paid_amount,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	PatientID string            `json:"patient_id"`
	Items     []LineItemRequest `json:"items"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id.
// Reemplazo completo de las líneas; nunca parches incrementales.
type UpdateInvoiceRequest struct {
	Items []LineItemRequest `json:"items"`
}

// SetStatusRequest body para PUT /api/invoices/:id/status (override explícito).
type SetStatusRequest struct {
	Status        string `json:"status"`                   // UNPAID | PARTIAL | PAID
	PaymentMethod string `json:"payment_method,omitempty"` // solo con PAID
}

// LineItemResponse línea valorada en respuestas.
type LineItemResponse struct {
	TreatmentID   string          `json:"treatment_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Date          string          `json:"date"`
	BasePrice     decimal.Decimal `json:"base_price"`
	IncludeVAT    bool            `json:"include_vat"`
	VATPercent    decimal.Decimal `json:"vat_percent"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	PaymentStatus string          `json:"payment_status"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Notes         string          `json:"notes,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// InvoiceResponse factura completa con líneas y agregados.
type InvoiceResponse struct {
	ID            string             `json:"id"`
	PatientID     string             `json:"patient_id"`
	Items         []LineItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	VATTotal      decimal.Decimal    `json:"vat_total"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	PendingAmount decimal.Decimal    `json:"pending_amount"`
	Status        string             `json:"status"`
	CreatedByID   string             `json:"created_by_id"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	PaidAt        string             `json:"paid_at,omitempty"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
}

// TreatmentResponse entrada del catálogo en respuestas.
type TreatmentResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Active      bool            `json:"active"`
}
