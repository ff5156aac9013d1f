package accounting_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/tu-usuario/dental-pro/internal/application/billing"
	domainbilling "github.com/tu-usuario/dental-pro/internal/domain/billing"
	"github.com/tu-usuario/dental-pro/internal/domain/entity"
	"github.com/tu-usuario/dental-pro/internal/infrastructure/accounting"
)

func exportedInvoice(t *testing.T) *entity.Invoice {
	t.Helper()
	items, err := domainbilling.ValuateAll([]domainbilling.RawLineItemInput{
		{
			TreatmentID:   "trt-001",
			Name:          "Ortodoncia básica",
			Date:          time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			BasePrice:     decimal.NewFromInt(100),
			IncludeVAT:    true,
			VATPercent:    decimal.NewFromInt(15),
			PaymentStatus: entity.LinePaymentPartial,
			PaidAmount:    decimal.NewFromInt(50),
		},
	})
	require.NoError(t, err)

	inv := &entity.Invoice{
		ID:        "INV-2026-000042",
		PatientID: "pac-001",
		LineItems: items,
		CreatedAt: time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
	}
	domainbilling.ApplyTotals(inv, domainbilling.Aggregate(items))
	return inv
}

func parseExport(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	return doc
}

func TestExport_EstructuraDelDocumento(t *testing.T) {
	out, err := accounting.NewXMLExporter().Export(exportedInvoice(t), appbilling.ExportHeader{
		ClinicName:  "Clínica Sonrisa",
		ClinicTaxID: "900123456-7",
		PatientName: "María Pérez",
	})
	require.NoError(t, err)

	doc := parseExport(t, out)
	root := doc.SelectElement("FacturaVenta")
	require.NotNil(t, root)
	assert.Equal(t, "1", root.SelectAttrValue("version", ""))

	enc := root.SelectElement("Encabezado")
	require.NotNil(t, enc)
	assert.Equal(t, "INV-2026-000042", enc.SelectElement("Numero").Text())
	assert.Equal(t, "2026-04-02", enc.SelectElement("Fecha").Text())
	assert.Equal(t, "900123456-7", enc.SelectElement("Clinica").SelectAttrValue("nit", ""))
	assert.Equal(t, "pac-001", enc.SelectElement("Paciente").SelectAttrValue("id", ""))
	assert.Equal(t, "PARTIAL", enc.SelectElement("Estado").Text())

	lines := root.SelectElement("Lineas").SelectElements("Linea")
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].SelectAttrValue("numero", ""))
	assert.Equal(t, "100.00", lines[0].SelectElement("PrecioBase").Text())
	assert.Equal(t, "15.00", lines[0].SelectElement("IVA").Text())
	assert.Equal(t, "115.00", lines[0].SelectElement("Total").Text())
	assert.Equal(t, "50.00", lines[0].SelectElement("Abonado").Text())

	totals := root.SelectElement("Totales")
	require.NotNil(t, totals)
	assert.Equal(t, "115.00", totals.SelectElement("TotalGeneral").Text())
	assert.Equal(t, "65.00", totals.SelectElement("SaldoPendiente").Text())
}

// El importador contable heredado solo acepta ASCII: los textos se pliegan.
func TestExport_PliegaDiacriticos(t *testing.T) {
	out, err := accounting.NewXMLExporter().Export(exportedInvoice(t), appbilling.ExportHeader{
		ClinicName:  "Clínica Sonrisa",
		PatientName: "María Pérez",
	})
	require.NoError(t, err)

	doc := parseExport(t, out)
	enc := doc.SelectElement("FacturaVenta").SelectElement("Encabezado")
	assert.Equal(t, "Clinica Sonrisa", enc.SelectElement("Clinica").Text())
	assert.Equal(t, "Maria Perez", enc.SelectElement("Paciente").Text())

	line := doc.SelectElement("FacturaVenta").SelectElement("Lineas").SelectElements("Linea")[0]
	assert.Equal(t, "Ortodoncia basica", line.SelectElement("Descripcion").Text())
}

// Un mismo exportador atiende descargas concurrentes: el plegado de
// diacríticos no debe compartir estado entre llamadas.
func TestExport_ConcurrenciaSegura(t *testing.T) {
	exporter := accounting.NewXMLExporter()
	inv := exportedInvoice(t)
	hdr := appbilling.ExportHeader{
		ClinicName:  "Clínica Sonrisa",
		PatientName: "María Pérez",
	}

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				out, err := exporter.Export(inv, hdr)
				if err != nil {
					errs <- err
					return
				}
				if !strings.Contains(string(out), "Maria Perez") {
					errs <- fmt.Errorf("salida sin plegar: %s", out)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

// Sin sello de pago manual no se emiten MetodoPago ni FechaPago.
func TestExport_SinSelloDePago_OmiteElementosOpcionales(t *testing.T) {
	out, err := accounting.NewXMLExporter().Export(exportedInvoice(t), appbilling.ExportHeader{})
	require.NoError(t, err)

	enc := parseExport(t, out).SelectElement("FacturaVenta").SelectElement("Encabezado")
	assert.Nil(t, enc.SelectElement("MetodoPago"))
	assert.Nil(t, enc.SelectElement("FechaPago"))
}

func TestExport_ConSelloDePago_EmiteMetodoYFecha(t *testing.T) {
	inv := exportedInvoice(t)
	paidAt := time.Date(2026, 4, 5, 16, 0, 0, 0, time.UTC)
	inv.Status = entity.InvoiceStatusPaid
	inv.PaymentMethod = entity.PaymentMethodCash
	inv.PaidAt = &paidAt

	out, err := accounting.NewXMLExporter().Export(inv, appbilling.ExportHeader{})
	require.NoError(t, err)

	enc := parseExport(t, out).SelectElement("FacturaVenta").SelectElement("Encabezado")
	assert.Equal(t, "CASH", enc.SelectElement("MetodoPago").Text())
	assert.Equal(t, "2026-04-05", enc.SelectElement("FechaPago").Text())
}
