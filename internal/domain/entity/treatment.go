package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Treatment es una entrada del catálogo de tratamientos facturables.
// Al facturar se toma un snapshot de nombre, descripción y precio: los cambios
// posteriores del catálogo no alteran facturas emitidas.
type Treatment struct {
	ID          string
	Name        string
	Description string
	BasePrice   decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
