package billing

import (
	"fmt"
	"time"
)

// NewInvoiceID genera el identificador visible de la factura con el formato
// INV-<año>-<sufijo de 6 dígitos>, donde el sufijo es el reloj en milisegundos
// truncado a 6 dígitos. El truncamiento puede colisionar dentro de la misma
// ventana; el servicio de ciclo de vida verifica existencia y reintenta antes
// de persistir.
func NewInvoiceID(now time.Time) string {
	return fmt.Sprintf("INV-%d-%06d", now.Year(), now.UnixMilli()%1_000_000)
}
