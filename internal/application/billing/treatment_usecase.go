package billing

import (
	"context"
	"fmt"

	"github.com/tu-usuario/dental-pro/internal/application/dto"
	"github.com/tu-usuario/dental-pro/internal/domain"
	"github.com/tu-usuario/dental-pro/internal/domain/repository"
)

// TreatmentUseCase lectura del catálogo de tratamientos facturables.
// El catálogo es propiedad de otro subsistema; aquí solo se consulta para
// armar líneas de factura.
type TreatmentUseCase struct {
	treatmentRepo repository.TreatmentRepository
}

// NewTreatmentUseCase construye el caso de uso.
func NewTreatmentUseCase(treatmentRepo repository.TreatmentRepository) *TreatmentUseCase {
	return &TreatmentUseCase{treatmentRepo: treatmentRepo}
}

// ListActive lista los tratamientos activos del catálogo con paginación.
func (uc *TreatmentUseCase) ListActive(ctx context.Context, page dto.PageRequest) ([]dto.TreatmentResponse, error) {
	page.DefaultPage()
	list, err := uc.treatmentRepo.ListActive(page.Limit, page.Offset)
	if err != nil {
		return nil, persistErr("listar tratamientos", err)
	}
	out := make([]dto.TreatmentResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TreatmentResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			BasePrice:   t.BasePrice,
			Active:      t.Active,
		})
	}
	return out, nil
}

// Get obtiene un tratamiento por ID.
func (uc *TreatmentUseCase) Get(ctx context.Context, id string) (*dto.TreatmentResponse, error) {
	t, err := uc.treatmentRepo.GetByID(id)
	if err != nil {
		return nil, persistErr("consultar tratamiento", err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: tratamiento %s", domain.ErrNotFound, id)
	}
	return &dto.TreatmentResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		BasePrice:   t.BasePrice,
		Active:      t.Active,
	}, nil
}
