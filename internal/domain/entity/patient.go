package entity

import "time"

// Patient representa un paciente de la clínica. El expediente clínico es
// propiedad de otro subsistema; aquí solo se lee para facturar y para el
// encabezado del documento exportado.
type Patient struct {
	ID         string
	Name       string
	DocumentID string // Documento de identidad (cédula)
	Phone      string
	Email      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
