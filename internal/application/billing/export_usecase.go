package billing

import (
	"context"
	"fmt"

	"github.com/tu-usuario/dental-pro/internal/domain"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
	"github.com/tu-usuario/dental-pro/internal/domain/repository"
)

// ClinicInfo es el membrete de la clínica que encabeza los documentos
// exportados. Viene de configuración (CLINIC_*), no de la base de datos.
type ClinicInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	TaxID   string
}

// ExportUseCase arma el mapa de campos de una factura persistida y lo entrega
// a los colaboradores de salida: el renderer de plantillas (PDF) y el
// exportador contable (XML).
type ExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
	renderer    DocumentRenderer
	accounting  AccountingExporter
	clinic      ClinicInfo
}

// NewExportUseCase construye el caso de uso inyectando sus dependencias.
func NewExportUseCase(
	invoiceRepo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	renderer DocumentRenderer,
	accounting AccountingExporter,
	clinic ClinicInfo,
) *ExportUseCase {
	return &ExportUseCase{
		invoiceRepo: invoiceRepo,
		patientRepo: patientRepo,
		userRepo:    userRepo,
		renderer:    renderer,
		accounting:  accounting,
		clinic:      clinic,
	}
}

// loadInvoiceWithHeader carga la factura y resuelve los datos de cabecera
// (paciente y autor). Paciente o autor ausentes no bloquean la exportación:
// sus campos van como string vacío, el renderer exige la clave, no el valor.
func (uc *ExportUseCase) loadInvoiceWithHeader(id string) (*entity.Invoice, ExportHeader, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, ExportHeader{}, fmt.Errorf("%w: obtener factura: %v", domain.ErrPersistence, err)
	}
	if inv == nil {
		return nil, ExportHeader{}, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}

	hdr := ExportHeader{
		ClinicName:    uc.clinic.Name,
		ClinicAddress: uc.clinic.Address,
		ClinicPhone:   uc.clinic.Phone,
		ClinicEmail:   uc.clinic.Email,
		ClinicTaxID:   uc.clinic.TaxID,
	}
	if patient, pErr := uc.patientRepo.GetByID(inv.PatientID); pErr == nil && patient != nil {
		hdr.PatientName = patient.Name
		hdr.PatientPhone = patient.Phone
	}
	if user, uErr := uc.userRepo.GetByID(inv.CreatedByID); uErr == nil && user != nil {
		hdr.CreatedByName = user.Name
	}
	return inv, hdr, nil
}

// FieldMap devuelve el diccionario completo de campos de la factura, listo
// para sustitución directa en la plantilla.
func (uc *ExportUseCase) FieldMap(ctx context.Context, id string) (map[string]string, error) {
	inv, hdr, err := uc.loadInvoiceWithHeader(id)
	if err != nil {
		return nil, err
	}
	return ToFieldMap(inv, hdr), nil
}

// DownloadInvoicePDF genera el documento imprimible de la factura.
// Retorna (bytes, filename, nil) o un error de la taxonomía: ErrNotFound si la
// factura no existe, ErrExport si el renderer falla o no produce salida.
func (uc *ExportUseCase) DownloadInvoicePDF(ctx context.Context, id string) ([]byte, string, error) {
	inv, hdr, err := uc.loadInvoiceWithHeader(id)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.renderer.Render(ctx, ToFieldMap(inv, hdr))
	if err != nil {
		return nil, "", fmt.Errorf("%w: renderer: %v", domain.ErrExport, err)
	}
	if len(doc) == 0 {
		return nil, "", fmt.Errorf("%w: el renderer no produjo salida", domain.ErrExport)
	}
	return doc, fmt.Sprintf("factura_%s.pdf", inv.ID), nil
}

// DownloadInvoiceXML genera el archivo de intercambio contable de la factura.
func (uc *ExportUseCase) DownloadInvoiceXML(ctx context.Context, id string) ([]byte, string, error) {
	inv, hdr, err := uc.loadInvoiceWithHeader(id)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.accounting.Export(inv, hdr)
	if err != nil {
		return nil, "", fmt.Errorf("%w: exportador contable: %v", domain.ErrExport, err)
	}
	return doc, fmt.Sprintf("factura_%s.xml", inv.ID), nil
}
