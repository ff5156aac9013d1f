package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/dental-pro/internal/application/dto"
	"github.com/tu-usuario/dental-pro/internal/domain"
	domainbilling "github.com/tu-usuario/dental-pro/internal/domain/billing"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
	"github.com/tu-usuario/dental-pro/internal/domain/repository"
)

// Intentos de asignación de ID ante colisión del sufijo de reloj.
const idAllocationAttempts = 3

// InvoiceUseCase orquesta el ciclo de vida de la factura: crear, leer,
// actualizar (reemplazo completo de líneas), eliminar, override de estado y
// listados filtrados. Toda mutación re-valora las líneas y recalcula los
// agregados antes de persistir; la validación ocurre completa antes de
// cualquier llamada a persistencia.
//
// No hay lock optimista sobre la factura: dos ediciones concurrentes compiten
// en la capa de persistencia y gana la última escritura, descartando en
// silencio los cambios de la primera. Limitación aceptada para una clínica de
// un solo operador; endurecerlo requiere precondición de versión en el Update.
type InvoiceUseCase struct {
	invoiceRepo   repository.InvoiceRepository
	patientRepo   repository.PatientRepository
	userRepo      repository.UserRepository
	treatmentRepo repository.TreatmentRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	treatmentRepo repository.TreatmentRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo:   invoiceRepo,
		patientRepo:   patientRepo,
		userRepo:      userRepo,
		treatmentRepo: treatmentRepo,
	}
}

// persistErr marca un fallo del colaborador de persistencia. Opaco para el
// caller: no se asume reintentable y no se reintenta internamente.
func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}

// Create valida y crea una factura con al menos una línea.
func (uc *InvoiceUseCase) Create(ctx context.Context, createdByID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.PatientID == "" {
		return nil, fmt.Errorf("%w: patient_id requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la factura requiere al menos una línea", domain.ErrInvalidInput)
	}

	patient, err := uc.patientRepo.GetByID(in.PatientID)
	if err != nil {
		return nil, persistErr("consultar paciente", err)
	}
	if patient == nil {
		return nil, fmt.Errorf("%w: paciente %s", domain.ErrNotFound, in.PatientID)
	}

	raws, err := uc.resolveLineInputs(in.Items)
	if err != nil {
		return nil, err
	}
	items, err := domainbilling.ValuateAll(raws)
	if err != nil {
		return nil, err
	}
	totals := domainbilling.Aggregate(items)

	now := time.Now()
	id, err := uc.allocateID(now)
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:          id,
		PatientID:   in.PatientID,
		LineItems:   items,
		CreatedByID: createdByID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	domainbilling.ApplyTotals(inv, totals)

	if err := uc.invoiceRepo.Create(inv); err != nil {
		return nil, persistErr("insertar factura", err)
	}
	return toInvoiceResponse(inv), nil
}

// allocateID genera el ID INV-<año>-<6 dígitos> y verifica colisión contra
// los registros existentes; el sufijo es el reloj truncado, así que dos
// creaciones en la misma ventana de milisegundos podrían chocar.
func (uc *InvoiceUseCase) allocateID(now time.Time) (string, error) {
	for attempt := 0; attempt < idAllocationAttempts; attempt++ {
		id := domainbilling.NewInvoiceID(now)
		exists, err := uc.invoiceRepo.ExistsID(id)
		if err != nil {
			return "", persistErr("verificar ID de factura", err)
		}
		if !exists {
			return id, nil
		}
		time.Sleep(time.Millisecond) // mover la ventana del sufijo
		now = time.Now()
	}
	return "", persistErr("asignar ID de factura", fmt.Errorf("colisión persistente de sufijo"))
}

// Get obtiene una factura por ID con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, persistErr("consultar factura", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return toInvoiceResponse(inv), nil
}

// Update reemplaza la lista completa de líneas y recalcula los agregados.
// Actualizar con las mismas líneas es un no-op sobre los totales.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la factura requiere al menos una línea", domain.ErrInvalidInput)
	}
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, persistErr("consultar factura", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}

	raws, err := uc.resolveLineInputs(in.Items)
	if err != nil {
		return nil, err
	}
	items, err := domainbilling.ValuateAll(raws)
	if err != nil {
		return nil, err
	}
	totals := domainbilling.Aggregate(items)

	inv.LineItems = items
	domainbilling.ApplyTotals(inv, totals)
	// El sello de pago manual solo tiene sentido mientras el estado derivado
	// siga siendo PAID; al reabrirse el saldo se limpia.
	if inv.Status != entity.InvoiceStatusPaid {
		inv.PaidAt = nil
		inv.PaymentMethod = ""
	}
	inv.UpdatedAt = time.Now()

	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, persistErr("actualizar factura", err)
	}
	return toInvoiceResponse(inv), nil
}

// Delete elimina la factura de forma permanente (sin soft-delete ni auditoría).
// Los colaboradores que referencian la factura limpian por su cuenta.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	found, err := uc.invoiceRepo.Delete(id)
	if err != nil {
		return persistErr("eliminar factura", err)
	}
	if !found {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return nil
}

// SetStatus es el override manual de estado (ej. recepción marca PAID por un
// pago fuera del flujo de líneas). Al pasar a PAID sella PaidAt y registra el
// método de pago si viene. OJO: este camino NO reconcilia PaidAmount ni
// PendingAmount con el nuevo estado: es un override de presentación y puede
// dejar la factura inconsistente con sus líneas hasta la siguiente edición.
func (uc *InvoiceUseCase) SetStatus(ctx context.Context, id string, in dto.SetStatusRequest) (*dto.InvoiceResponse, error) {
	if !entity.ValidInvoiceStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, in.Status)
	}
	if in.PaymentMethod != "" && !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago desconocido %q", domain.ErrInvalidInput, in.PaymentMethod)
	}

	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, persistErr("consultar factura", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}

	now := time.Now()
	inv.Status = in.Status
	if in.Status == entity.InvoiceStatusPaid {
		inv.PaidAt = &now
		if in.PaymentMethod != "" {
			inv.PaymentMethod = in.PaymentMethod
		}
	} else {
		inv.PaidAt = nil
		inv.PaymentMethod = ""
	}
	inv.UpdatedAt = now

	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, persistErr("actualizar estado de factura", err)
	}
	return toInvoiceResponse(inv), nil
}

// ListByPatient lista las facturas de un paciente. Solo lectura.
func (uc *InvoiceUseCase) ListByPatient(ctx context.Context, patientID string) ([]*dto.InvoiceResponse, error) {
	if patientID == "" {
		return nil, fmt.Errorf("%w: patient_id requerido", domain.ErrInvalidInput)
	}
	list, err := uc.invoiceRepo.ListByPatient(patientID)
	if err != nil {
		return nil, persistErr("listar facturas por paciente", err)
	}
	return toInvoiceResponses(list), nil
}

// ListByStatus lista las facturas en un estado dado. Solo lectura.
func (uc *InvoiceUseCase) ListByStatus(ctx context.Context, status string) ([]*dto.InvoiceResponse, error) {
	if !entity.ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, status)
	}
	list, err := uc.invoiceRepo.ListByStatus(status)
	if err != nil {
		return nil, persistErr("listar facturas por estado", err)
	}
	return toInvoiceResponses(list), nil
}

// ListByDateRange lista las facturas creadas en [from, to]. Solo lectura.
func (uc *InvoiceUseCase) ListByDateRange(ctx context.Context, from, to time.Time) ([]*dto.InvoiceResponse, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}
	list, err := uc.invoiceRepo.ListByDateRange(from, to)
	if err != nil {
		return nil, persistErr("listar facturas por rango", err)
	}
	return toInvoiceResponses(list), nil
}

// resolveLineInputs convierte las líneas del request en entradas para el
// valuator, tomando del catálogo el snapshot de nombre, descripción y precio
// cuando el caller no los manda (mismo patrón que precio cero = precio de
// catálogo).
func (uc *InvoiceUseCase) resolveLineInputs(items []dto.LineItemRequest) ([]domainbilling.RawLineItemInput, error) {
	raws := make([]domainbilling.RawLineItemInput, 0, len(items))
	for i, it := range items {
		if it.TreatmentID == "" {
			return nil, &domain.LineItemError{
				Index: i, Field: "treatment_id", Reason: "tratamiento requerido",
			}
		}
		treatment, err := uc.treatmentRepo.GetByID(it.TreatmentID)
		if err != nil {
			return nil, persistErr("consultar tratamiento", err)
		}
		if treatment == nil {
			return nil, &domain.LineItemError{
				Index: i, TreatmentID: it.TreatmentID,
				Field: "treatment_id", Reason: "el tratamiento no existe en el catálogo",
			}
		}

		raw := domainbilling.RawLineItemInput{
			TreatmentID:   it.TreatmentID,
			Name:          it.Name,
			Description:   it.Description,
			BasePrice:     it.BasePrice,
			IncludeVAT:    it.IncludeVAT,
			VATPercent:    it.VATPercent,
			PaymentStatus: it.PaymentStatus,
			PaidAmount:    it.PaidAmount,
			Notes:         it.Notes,
		}
		if raw.Name == "" {
			raw.Name = treatment.Name
		}
		if raw.Description == "" {
			raw.Description = treatment.Description
		}
		if raw.BasePrice.IsZero() {
			raw.BasePrice = treatment.BasePrice
		}
		if it.Date == "" {
			raw.Date = time.Now()
		} else {
			d, err := time.Parse("2006-01-02", it.Date)
			if err != nil {
				return nil, &domain.LineItemError{
					Index: i, TreatmentID: it.TreatmentID,
					Field: "date", Reason: "fecha inválida, formato esperado 2006-01-02",
				}
			}
			raw.Date = d
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		PatientID:     inv.PatientID,
		Items:         make([]dto.LineItemResponse, 0, len(inv.LineItems)),
		Subtotal:      inv.Subtotal,
		VATTotal:      inv.VATTotal,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		PendingAmount: inv.PendingAmount,
		Status:        inv.Status,
		CreatedByID:   inv.CreatedByID,
		PaymentMethod: inv.PaymentMethod,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     inv.UpdatedAt.Format(time.RFC3339),
	}
	if inv.PaidAt != nil {
		resp.PaidAt = inv.PaidAt.Format(time.RFC3339)
	}
	for _, it := range inv.LineItems {
		resp.Items = append(resp.Items, dto.LineItemResponse{
			TreatmentID:   it.ID,
			Name:          it.Name,
			Description:   it.Description,
			Date:          it.Date.Format("2006-01-02"),
			BasePrice:     it.BasePrice,
			IncludeVAT:    it.IncludeVAT,
			VATPercent:    it.VATPercent,
			VATAmount:     it.VATAmount,
			PaymentStatus: it.PaymentStatus,
			PaidAmount:    it.PaidAmount,
			Notes:         it.Notes,
			TotalAmount:   it.TotalAmount,
		})
	}
	return resp
}

func toInvoiceResponses(list []*entity.Invoice) []*dto.InvoiceResponse {
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out
}
