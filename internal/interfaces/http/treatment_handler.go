package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/dental-pro/internal/application/billing"
	"github.com/tu-usuario/dental-pro/internal/application/dto"
)

// TreatmentHandler lectura del catálogo de tratamientos (protegido).
type TreatmentHandler struct {
	uc *billing.TreatmentUseCase
}

// NewTreatmentHandler construye el handler.
func NewTreatmentHandler(uc *billing.TreatmentUseCase) *TreatmentHandler {
	return &TreatmentHandler{uc: uc}
}

// List lista los tratamientos activos con paginación (?limit=&offset=).
// GET /api/treatments
func (h *TreatmentHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	list, err := h.uc.ListActive(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID obtiene un tratamiento del catálogo.
// GET /api/treatments/:id
func (h *TreatmentHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	t, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}
