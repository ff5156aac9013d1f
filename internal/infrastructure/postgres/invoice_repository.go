package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
	"github.com/tu-usuario/dental-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// Versión vigente del documento JSONB de líneas. La versión 0 es el formato
// heredado (arreglo plano sin envoltura) y se acepta solo en lectura.
const lineItemsDocVersion = 1

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Las líneas se guardan embebidas en la cabecera como documento JSONB
// versionado, no normalizadas: viajan y se reemplazan siempre completas.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// lineItemsDoc envuelve las líneas con su versión de esquema para poder
// migrar formas históricas de forma explícita en lugar de asumir compatibilidad.
type lineItemsDoc struct {
	Version int              `json:"version"`
	Items   []lineItemRecord `json:"items"`
}

type lineItemRecord struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Date          time.Time       `json:"date"`
	BasePrice     decimal.Decimal `json:"base_price"`
	IncludeVAT    bool            `json:"include_vat"`
	VATPercent    decimal.Decimal `json:"vat_percent"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	PaymentStatus string          `json:"payment_status"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Notes         string          `json:"notes,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

func encodeLineItems(items []entity.InvoiceLineItem) ([]byte, error) {
	doc := lineItemsDoc{Version: lineItemsDocVersion, Items: make([]lineItemRecord, 0, len(items))}
	for _, it := range items {
		doc.Items = append(doc.Items, lineItemRecord(it))
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal line items: %w", err)
	}
	return data, nil
}

func decodeLineItems(data []byte) ([]entity.InvoiceLineItem, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var doc lineItemsDoc
	if err := json.Unmarshal(data, &doc); err != nil || doc.Version == 0 && doc.Items == nil {
		// Forma heredada: arreglo plano sin envoltura de versión.
		var legacy []lineItemRecord
		if legacyErr := json.Unmarshal(data, &legacy); legacyErr != nil {
			return nil, fmt.Errorf("unmarshal line items: %w", legacyErr)
		}
		doc.Items = legacy
	}
	items := make([]entity.InvoiceLineItem, 0, len(doc.Items))
	for _, rec := range doc.Items {
		items = append(items, entity.InvoiceLineItem(rec))
	}
	return items, nil
}

const invoiceColumns = `
	id, patient_id, line_items, subtotal, vat_total, total_amount,
	paid_amount, pending_amount, status, created_by, payment_method,
	paid_at, created_at, updated_at`

// Create persiste la factura completa (cabecera + líneas embebidas).
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	lineItems, err := encodeLineItems(invoice.LineItems)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(context.Background(), query,
		invoice.ID, invoice.PatientID, lineItems,
		invoice.Subtotal, invoice.VATTotal, invoice.TotalAmount,
		invoice.PaidAmount, invoice.PendingAmount, invoice.Status,
		invoice.CreatedByID, nullIfEmpty(invoice.PaymentMethod),
		invoice.PaidAt, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice id already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update reemplaza cabecera y líneas completas.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	lineItems, err := encodeLineItems(invoice.LineItems)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices
		SET line_items     = $2,
		    subtotal       = $3,
		    vat_total      = $4,
		    total_amount   = $5,
		    paid_amount    = $6,
		    pending_amount = $7,
		    status         = $8,
		    payment_method = $9,
		    paid_at        = $10,
		    updated_at     = $11
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		invoice.ID, lineItems,
		invoice.Subtotal, invoice.VATTotal, invoice.TotalAmount,
		invoice.PaidAmount, invoice.PendingAmount, invoice.Status,
		nullIfEmpty(invoice.PaymentMethod), invoice.PaidAt, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Delete elimina la factura de forma permanente. found=false si no existía.
func (r *InvoiceRepo) Delete(id string) (bool, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete invoice: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID obtiene una factura completa por ID. Retorna (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := r.scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ExistsID verifica si el ID ya está asignado (chequeo de colisión de sufijo).
func (r *InvoiceRepo) ExistsID(id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists invoice: %w", err)
	}
	return exists, nil
}

// ListByPatient lista las facturas de un paciente, más recientes primero.
func (r *InvoiceRepo) ListByPatient(patientID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices WHERE patient_id = $1 ORDER BY created_at DESC`
	return r.list(query, patientID)
}

// ListByStatus lista las facturas en un estado dado, más recientes primero.
func (r *InvoiceRepo) ListByStatus(status string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices WHERE status = $1 ORDER BY created_at DESC`
	return r.list(query, status)
}

// ListByDateRange lista las facturas creadas en [from, to].
func (r *InvoiceRepo) ListByDateRange(from, to time.Time) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at DESC`
	return r.list(query, from, to)
}

func (r *InvoiceRepo) list(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var lineItems []byte
	var paymentMethod *string
	err := row.Scan(
		&inv.ID, &inv.PatientID, &lineItems,
		&inv.Subtotal, &inv.VATTotal, &inv.TotalAmount,
		&inv.PaidAmount, &inv.PendingAmount, &inv.Status,
		&inv.CreatedByID, &paymentMethod,
		&inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.PaymentMethod = derefStr(paymentMethod)
	items, err := decodeLineItems(lineItems)
	if err != nil {
		return nil, err
	}
	inv.LineItems = items
	return &inv, nil
}
