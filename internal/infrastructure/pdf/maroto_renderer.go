// Package pdf implementa el colaborador de plantillas que convierte el mapa de
// campos de una factura en su documento imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Clínica + NIT  │  N° Factura + Fecha               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLÍNICA: Dirección / Tel / Email                           │
//	│  PACIENTE: Nombre + teléfono | Elaborado por                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: N° | Descripción | P.Unit | Cant | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA / TOTAL / Pagado / Saldo           │
//	│  FOOTER: estado + nota de desborde                          │
//	└─────────────────────────────────────────────────────────────┘
//
// El renderer consume exclusivamente el set fijo de claves del adaptador de
// exportación: es un sustituidor de plantilla, no conoce la entidad factura.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/tu-usuario/dental-pro/internal/application/billing"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 102}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Claves de cabecera que el renderer exige presentes en el mapa. Las claves de
// fila y de totales se derivan del número de slots.
var requiredHeaderKeys = []string{
	"clinica_nombre", "numero_factura", "fecha", "paciente_nombre",
	"subtotal", "total_iva", "total_general",
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa billing.DocumentRenderer usando Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// Render sustituye el mapa de campos en la plantilla y genera el PDF.
// Falla si falta alguna clave requerida de la plantilla.
func (g *MarotoRenderer) Render(_ context.Context, fields map[string]string) ([]byte, error) {
	for _, key := range requiredHeaderKeys {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("pdf: campo de plantilla ausente: %s", key)
		}
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+fields["numero_factura"], true).
		WithAuthor(fields["clinica_nombre"], true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(fields))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clinicRow(fields))
	m.AddRows(patientRow(fields))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(fields) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(fields))
	m.AddRows(footerRows(fields)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: clínica + NIT (izq) y N° de factura + fecha (der).
func headerRow(fields map[string]string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(fields["clinica_nombre"], props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+fields["clinica_nit"], props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE SERVICIOS ODONTOLÓGICOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fields["numero_factura"], props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fields["fecha"], props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clinicRow: datos de contacto de la clínica.
func clinicRow(fields map[string]string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE LA CLÍNICA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(fields["clinica_direccion"], "—"),
				nonEmpty(fields["clinica_telefono"], "—"),
				nonEmpty(fields["clinica_email"], "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// patientRow: datos del paciente y autor de la factura.
func patientRow(fields map[string]string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PACIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(fields["paciente_nombre"], "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tel: %s   |   Elaborado por: %s",
				nonEmpty(fields["paciente_telefono"], "—"),
				nonEmpty(fields["elaborado_por"], "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de tratamientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("N°", 1, align.Center),
		h("Tratamiento", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Cant.", 1, align.Center),
		h("Total", 2, align.Right),
	)
}

// tableRows: una fila por slot ocupado de la plantilla.
func tableRows(fields map[string]string) []core.Row {
	result := make([]core.Row, 0, appbilling.ExportLineSlots)
	for slot := 1; slot <= appbilling.ExportLineSlots; slot++ {
		prefix := fmt.Sprintf("fila_%d_", slot)
		if fields[prefix+"numero"] == "" {
			break // los slots se llenan en orden; el primero vacío termina la tabla
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fields[prefix+"numero"],
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				fields[prefix+"descripcion"],
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+fields[prefix+"precio_unitario"],
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				fields[prefix+"cantidad"],
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+fields[prefix+"total"],
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(fields map[string]string) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grandLabel := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: top,
		})
	}
	grandValue := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	return row.New(40).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:", 2),
			label("IVA:", 9),
			grandLabel("TOTAL:", 16),
			label("Pagado:", 25),
			label("Saldo pendiente:", 32),
		),
		col.New(4).Add(
			value("$"+fields["subtotal"], 2),
			value("$"+fields["total_iva"], 9),
			grandValue("$"+fields["total_general"], 16),
			value("$"+fields["total_pagado"], 25),
			value("$"+fields["saldo_pendiente"], 32),
		),
	)
}

// footerRows: estado de pago + nota de desborde si la plantilla se quedó corta.
func footerRows(fields map[string]string) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New("Estado de pago: "+fields["estado"], props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
			}),
		)),
	}
	if nota := fields["nota_desborde"]; nota != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Nota: "+nota, props.Text{Size: 7.5, Color: colorGray, Top: 1}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Documento generado por el sistema de administración de la clínica. "+
			"Conserve este documento como soporte de pago.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
