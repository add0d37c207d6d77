package repository

import (
	"context"

	"github.com/jhoicas/bazar-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	// Create inserta cabecera y líneas; asigna IDs en order y order.Items.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
