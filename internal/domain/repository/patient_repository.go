package repository

import "github.com/tu-usuario/dental-pro/internal/domain/entity"

// PatientRepository puerto de solo lectura hacia el subsistema de pacientes.
// Facturación solo necesita nombre y teléfono para el documento exportado.
type PatientRepository interface {
	GetByID(id string) (*entity.Patient, error)
}
