package billing_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/dental-pro/internal/application/billing"
	domainbilling "github.com/tu-usuario/dental-pro/internal/domain/billing"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
)

func testHeader() billing.ExportHeader {
	return billing.ExportHeader{
		ClinicName:    "Clínica Dental Sonrisa",
		ClinicAddress: "Calle 10 # 5-23",
		ClinicPhone:   "3001234567",
		ClinicEmail:   "facturacion@sonrisa.co",
		ClinicTaxID:   "900123456-7",
		PatientName:   "María Pérez",
		PatientPhone:  "3109876543",
		CreatedByName: "Dra. Gómez",
	}
}

// testInvoice arma una factura valorada con n líneas idénticas de 100 + IVA 15%.
func testInvoice(t *testing.T, n int) *entity.Invoice {
	t.Helper()
	inputs := make([]domainbilling.RawLineItemInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, domainbilling.RawLineItemInput{
			TreatmentID:   fmt.Sprintf("trt-%03d", i+1),
			Name:          fmt.Sprintf("Tratamiento %d", i+1),
			Date:          time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			BasePrice:     decimal.NewFromInt(100),
			IncludeVAT:    true,
			VATPercent:    decimal.NewFromInt(15),
			PaymentStatus: entity.LinePaymentUnpaid,
		})
	}
	items, err := domainbilling.ValuateAll(inputs)
	require.NoError(t, err)

	inv := &entity.Invoice{
		ID:        "INV-2026-000123",
		PatientID: "pac-001",
		LineItems: items,
		CreatedAt: time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
	}
	domainbilling.ApplyTotals(inv, domainbilling.Aggregate(items))
	return inv
}

// ──────────────────────────────────────────────────────────────────────────────
// Contrato del mapa de campos
// ──────────────────────────────────────────────────────────────────────────────

// El renderer exige el set completo de claves: toda clave existe siempre,
// incluidas las de slots vacíos, con string vacío como valor ausente.
func TestToFieldMap_EmiteSetCompletoDeClaves(t *testing.T) {
	fields := billing.ToFieldMap(testInvoice(t, 2), testHeader())

	for _, key := range []string{
		"clinica_nombre", "clinica_direccion", "clinica_telefono", "clinica_email",
		"clinica_nit", "numero_factura", "fecha", "paciente_nombre",
		"paciente_telefono", "elaborado_por", "subtotal", "total_iva",
		"total_general", "total_pagado", "saldo_pendiente", "estado", "nota_desborde",
	} {
		_, ok := fields[key]
		assert.True(t, ok, "clave de cabecera ausente: %s", key)
	}
	for slot := 1; slot <= billing.ExportLineSlots; slot++ {
		for _, suffix := range []string{"numero", "descripcion", "precio_unitario", "cantidad", "total"} {
			key := fmt.Sprintf("fila_%d_%s", slot, suffix)
			_, ok := fields[key]
			assert.True(t, ok, "clave de fila ausente: %s", key)
		}
	}
}

func TestToFieldMap_FormatosDeMontosYFechas(t *testing.T) {
	fields := billing.ToFieldMap(testInvoice(t, 1), testHeader())

	assert.Equal(t, "100.00", fields["subtotal"], "montos con dos decimales")
	assert.Equal(t, "15.00", fields["total_iva"])
	assert.Equal(t, "115.00", fields["total_general"])
	assert.Equal(t, "02/04/2026", fields["fecha"], "fecha dd/mm/aaaa")
	assert.Equal(t, "INV-2026-000123", fields["numero_factura"])
	assert.Equal(t, "UNPAID", fields["estado"])
}

func TestToFieldMap_SlotsOcupadosYVacios(t *testing.T) {
	fields := billing.ToFieldMap(testInvoice(t, 3), testHeader())

	assert.Equal(t, "1", fields["fila_1_numero"])
	assert.Equal(t, "Tratamiento 1", fields["fila_1_descripcion"])
	assert.Equal(t, "1", fields["fila_1_cantidad"], "cada línea representa un tratamiento")
	assert.Equal(t, "115.00", fields["fila_3_total"])

	assert.Equal(t, "", fields["fila_4_numero"], "slot sin línea queda vacío, no ausente")
	assert.Equal(t, "", fields["fila_10_total"])
	assert.Equal(t, "", fields["nota_desborde"], "sin desborde la nota va vacía")
}

func TestToFieldMap_DesbordeDeSlots_AnunciaOmitidos(t *testing.T) {
	fields := billing.ToFieldMap(testInvoice(t, billing.ExportLineSlots+3), testHeader())

	assert.Equal(t, fmt.Sprintf("%d", billing.ExportLineSlots),
		fields[fmt.Sprintf("fila_%d_numero", billing.ExportLineSlots)],
		"el último slot queda ocupado")
	assert.Contains(t, fields["nota_desborde"], "3 tratamiento(s) adicionales",
		"las líneas fuera de los slots se anuncian, no se omiten en silencio")

	// Los totales siguen cubriendo TODAS las líneas, también las no listadas.
	assert.Equal(t, "1300.00", fields["subtotal"])
}

func TestToFieldMap_CabeceraVacia_ClavesPresentesConVacio(t *testing.T) {
	fields := billing.ToFieldMap(testInvoice(t, 1), billing.ExportHeader{})

	assert.Equal(t, "", fields["paciente_nombre"])
	assert.Equal(t, "", fields["elaborado_por"])
}
