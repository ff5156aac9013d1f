package entity

import "time"

// User representa un miembro del personal de la clínica. La gestión de cuentas
// y sesiones es propiedad del servicio de identidad; aquí solo se lee el nombre
// para el documento exportado.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string // admin, odontologo, recepcion
	CreatedAt time.Time
}
