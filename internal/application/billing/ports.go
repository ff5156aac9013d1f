package billing

import (
	"context"

	"github.com/tu-usuario/dental-pro/internal/domain/entity"
)

// DocumentRenderer es el colaborador externo que convierte el mapa de campos
// en los bytes del documento imprimible. El renderer exige el set completo de
// claves fijas: el adaptador de exportación siempre las emite todas, con
// string vacío para valores ausentes.
type DocumentRenderer interface {
	Render(ctx context.Context, fields map[string]string) ([]byte, error)
}

// AccountingExporter serializa una factura al formato de intercambio contable
// (XML) que consume el sistema contable de la clínica.
type AccountingExporter interface {
	Export(invoice *entity.Invoice, header ExportHeader) ([]byte, error)
}
