package repository

import (
	"time"

	"github.com/tu-usuario/dental-pro/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para la factura y sus
// líneas. Las líneas viajan embebidas en la cabecera como documento versionado
// (no se normalizan relacionalmente). Los Get retornan (nil, nil) si no existe.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	// Update reemplaza cabecera y líneas completas (nunca parches parciales).
	Update(invoice *entity.Invoice) error
	// Delete elimina de forma permanente. found=false si el ID no existe.
	Delete(id string) (found bool, err error)
	GetByID(id string) (*entity.Invoice, error)
	// ExistsID verifica si un ID ya está asignado (chequeo de colisión).
	ExistsID(id string) (bool, error)
	ListByPatient(patientID string) ([]*entity.Invoice, error)
	ListByStatus(status string) ([]*entity.Invoice, error)
	ListByDateRange(from, to time.Time) ([]*entity.Invoice, error)
}
