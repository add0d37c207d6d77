package repository

import (
	"context"

	"github.com/jhoicas/bazar-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update guarda nombre, hash de contraseña y rol.
	Update(ctx context.Context, user *entity.User) error
}
