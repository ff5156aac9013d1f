package billing

import (
	"fmt"

	"github.com/tu-usuario/dental-pro/internal/domain/entity"
)

// ExportLineSlots es el número fijo de filas de detalle que admite la plantilla
// del documento. El renderer no tiene mecanismo de página de continuación:
// las líneas que exceden los slots se omiten y se anuncian en nota_desborde.
const ExportLineSlots = 10

// ExportHeader son los datos de cabecera que no viven en la factura: membrete
// de la clínica (desde configuración) y nombres resueltos de paciente y autor.
type ExportHeader struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string
	ClinicEmail   string
	ClinicTaxID   string
	PatientName   string
	PatientPhone  string
	CreatedByName string
}

// ToFieldMap aplana la factura al diccionario clave→string que consume el
// renderer de plantillas. Transformación pura: siempre emite el set completo
// de claves (valores ausentes = string vacío, nunca clave omitida), montos con
// dos decimales y fechas dd/mm/aaaa.
func ToFieldMap(inv *entity.Invoice, hdr ExportHeader) map[string]string {
	fields := map[string]string{
		"clinica_nombre":    hdr.ClinicName,
		"clinica_direccion": hdr.ClinicAddress,
		"clinica_telefono":  hdr.ClinicPhone,
		"clinica_email":     hdr.ClinicEmail,
		"clinica_nit":       hdr.ClinicTaxID,
		"numero_factura":    inv.ID,
		"fecha":             inv.CreatedAt.Format("02/01/2006"),
		"paciente_nombre":   hdr.PatientName,
		"paciente_telefono": hdr.PatientPhone,
		"elaborado_por":     hdr.CreatedByName,
		"subtotal":          inv.Subtotal.StringFixed(2),
		"total_iva":         inv.VATTotal.StringFixed(2),
		"total_general":     inv.TotalAmount.StringFixed(2),
		"total_pagado":      inv.PaidAmount.StringFixed(2),
		"saldo_pendiente":   inv.PendingAmount.StringFixed(2),
		"estado":            inv.Status,
	}

	for slot := 1; slot <= ExportLineSlots; slot++ {
		prefix := fmt.Sprintf("fila_%d_", slot)
		if slot <= len(inv.LineItems) {
			it := inv.LineItems[slot-1]
			fields[prefix+"numero"] = fmt.Sprintf("%d", slot)
			fields[prefix+"descripcion"] = it.Name
			fields[prefix+"precio_unitario"] = it.BasePrice.StringFixed(2)
			fields[prefix+"cantidad"] = "1"
			fields[prefix+"total"] = it.TotalAmount.StringFixed(2)
		} else {
			fields[prefix+"numero"] = ""
			fields[prefix+"descripcion"] = ""
			fields[prefix+"precio_unitario"] = ""
			fields[prefix+"cantidad"] = ""
			fields[prefix+"total"] = ""
		}
	}

	// La plantilla no pagina: si hay más líneas que slots se indica de forma
	// explícita en vez de truncar en silencio.
	overflow := len(inv.LineItems) - ExportLineSlots
	if overflow > 0 {
		fields["nota_desborde"] = fmt.Sprintf("y %d tratamiento(s) adicionales no listados", overflow)
	} else {
		fields["nota_desborde"] = ""
	}

	return fields
}
