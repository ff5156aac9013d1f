package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
	"github.com/tu-usuario/dental-pro/internal/domain/repository"
)

var _ repository.TreatmentRepository = (*TreatmentRepo)(nil)

// TreatmentRepo adaptador de lectura sobre el catálogo de tratamientos.
// Los precios son propiedad del catálogo; facturación solo los snapshotea.
type TreatmentRepo struct {
	q Querier
}

// NewTreatmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTreatmentRepository(q Querier) *TreatmentRepo {
	return &TreatmentRepo{q: q}
}

// GetByID obtiene un tratamiento por ID. Retorna (nil, nil) si no existe.
func (r *TreatmentRepo) GetByID(id string) (*entity.Treatment, error) {
	query := `
		SELECT id, name, description, base_price, active, created_at, updated_at
		FROM treatments WHERE id = $1`
	var t entity.Treatment
	var description *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.Name, &description, &t.BasePrice, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get treatment: %w", err)
	}
	t.Description = derefStr(description)
	return &t, nil
}

// ListActive lista los tratamientos activos con paginación, ordenados por nombre.
func (r *TreatmentRepo) ListActive(limit, offset int) ([]*entity.Treatment, error) {
	query := `
		SELECT id, name, description, base_price, active, created_at, updated_at
		FROM treatments WHERE active ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Treatment
	for rows.Next() {
		var t entity.Treatment
		var description *string
		if err := rows.Scan(&t.ID, &t.Name, &description, &t.BasePrice, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan treatment: %w", err)
		}
		t.Description = derefStr(description)
		list = append(list, &t)
	}
	return list, rows.Err()
}
