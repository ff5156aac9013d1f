package repository

import "github.com/tu-usuario/dental-pro/internal/domain/entity"

// TreatmentRepository puerto de solo lectura hacia el catálogo de tratamientos.
// Facturación no es dueña de los precios: los snapshotea al valorar la línea.
type TreatmentRepository interface {
	GetByID(id string) (*entity.Treatment, error)
	ListActive(limit, offset int) ([]*entity.Treatment, error)
}
