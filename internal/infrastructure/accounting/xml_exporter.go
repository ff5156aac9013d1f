// Package accounting serializa facturas al formato XML plano que importa el
// sistema contable de la clínica. El importador es un sistema heredado que
// solo acepta ASCII: los textos se pliegan quitando diacríticos antes de
// escribirse.
package accounting

import (
	"fmt"
	"unicode"

	"github.com/beevik/etree"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	appbilling "github.com/tu-usuario/dental-pro/internal/application/billing"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
)

var _ appbilling.AccountingExporter = (*XMLExporter)(nil)

// Versión del esquema del archivo de intercambio.
const exportSchemaVersion = "1"

// XMLExporter implementa billing.AccountingExporter con etree.
// Sin estado: una misma instancia atiende exportaciones concurrentes.
type XMLExporter struct{}

// NewXMLExporter construye el exportador.
func NewXMLExporter() *XMLExporter {
	return &XMLExporter{}
}

// Export serializa la factura completa (cabecera, líneas y totales) al XML de
// intercambio contable, con sangría para inspección manual.
func (e *XMLExporter) Export(invoice *entity.Invoice, header appbilling.ExportHeader) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("FacturaVenta")
	root.CreateAttr("version", exportSchemaVersion)

	enc := root.CreateElement("Encabezado")
	enc.CreateElement("Numero").SetText(invoice.ID)
	enc.CreateElement("Fecha").SetText(invoice.CreatedAt.Format("2006-01-02"))
	clinic := enc.CreateElement("Clinica")
	clinic.CreateAttr("nit", header.ClinicTaxID)
	clinic.SetText(e.sanitize(header.ClinicName))
	patient := enc.CreateElement("Paciente")
	patient.CreateAttr("id", invoice.PatientID)
	patient.SetText(e.sanitize(header.PatientName))
	enc.CreateElement("ElaboradoPor").SetText(e.sanitize(header.CreatedByName))
	enc.CreateElement("Estado").SetText(invoice.Status)
	if invoice.PaymentMethod != "" {
		enc.CreateElement("MetodoPago").SetText(invoice.PaymentMethod)
	}
	if invoice.PaidAt != nil {
		enc.CreateElement("FechaPago").SetText(invoice.PaidAt.Format("2006-01-02"))
	}

	lines := root.CreateElement("Lineas")
	for i, it := range invoice.LineItems {
		ln := lines.CreateElement("Linea")
		ln.CreateAttr("numero", fmt.Sprintf("%d", i+1))
		ln.CreateElement("TratamientoID").SetText(it.ID)
		ln.CreateElement("Descripcion").SetText(e.sanitize(it.Name))
		ln.CreateElement("Fecha").SetText(it.Date.Format("2006-01-02"))
		ln.CreateElement("PrecioBase").SetText(it.BasePrice.StringFixed(2))
		iva := ln.CreateElement("IVA")
		iva.CreateAttr("porcentaje", it.VATPercent.StringFixed(2))
		iva.SetText(it.VATAmount.StringFixed(2))
		ln.CreateElement("Total").SetText(it.TotalAmount.StringFixed(2))
		ln.CreateElement("Abonado").SetText(it.PaidAmount.StringFixed(2))
		ln.CreateElement("EstadoPago").SetText(it.PaymentStatus)
	}

	totals := root.CreateElement("Totales")
	totals.CreateElement("Subtotal").SetText(invoice.Subtotal.StringFixed(2))
	totals.CreateElement("TotalIVA").SetText(invoice.VATTotal.StringFixed(2))
	totals.CreateElement("TotalGeneral").SetText(invoice.TotalAmount.StringFixed(2))
	totals.CreateElement("TotalPagado").SetText(invoice.PaidAmount.StringFixed(2))
	totals.CreateElement("SaldoPendiente").SetText(invoice.PendingAmount.StringFixed(2))

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: serializar factura: %w", err)
	}
	return out, nil
}

// sanitize pliega diacríticos para el importador contable heredado:
// NFD + eliminar marcas combinantes + NFC, "Ortodoncia básica" → "Ortodoncia basica".
// La cadena de transformers guarda buffers internos, así que se arma por
// llamada en vez de compartirse entre exportaciones concurrentes.
func (e *XMLExporter) sanitize(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(fold, s)
	if err != nil {
		return s
	}
	return out
}
