package repository

import "github.com/tu-usuario/dental-pro/internal/domain/entity"

// UserRepository puerto de solo lectura hacia el personal de la clínica.
type UserRepository interface {
	GetByID(id string) (*entity.User, error)
}
