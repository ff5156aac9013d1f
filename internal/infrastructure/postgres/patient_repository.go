package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
	"github.com/tu-usuario/dental-pro/internal/domain/repository"
)

var _ repository.PatientRepository = (*PatientRepo)(nil)

// PatientRepo adaptador de lectura sobre la tabla de pacientes, propiedad del
// subsistema de pacientes. Facturación nunca escribe aquí.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

// GetByID obtiene un paciente por ID. Retorna (nil, nil) si no existe.
func (r *PatientRepo) GetByID(id string) (*entity.Patient, error) {
	query := `
		SELECT id, name, document_id, phone, email, created_at, updated_at
		FROM patients WHERE id = $1`
	var p entity.Patient
	var phone, email *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.DocumentID, &phone, &email, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	p.Phone = derefStr(phone)
	p.Email = derefStr(email)
	return &p, nil
}
