package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/bazar-api/internal/domain"
	"github.com/jhoicas/bazar-api/internal/domain/entity"
	"github.com/jhoicas/bazar-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository (pedidos + pedido_items).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera y sus líneas. Debe llamarse dentro de una tx para que sea atómico.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO pedidos (referencia, usuario_id, estado, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, o.Reference, o.UserID, o.Status, o.Total, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert pedido: %w", err)
	}
	itemQuery := `
		INSERT INTO pedido_items (pedido_id, producto_id, nombre, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		if err := r.q.QueryRow(ctx, itemQuery,
			o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal,
		).Scan(&it.ID); err != nil {
			return fmt.Errorf("insert pedido_item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pedido con sus líneas. nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	query := `
		SELECT id, referencia::text, usuario_id, estado, total, created_at, updated_at
		FROM pedidos WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListByUser lista los pedidos del usuario, más recientes primero.
func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.Order, error) {
	query := `
		SELECT id, referencia::text, usuario_id, estado, total, created_at, updated_at
		FROM pedidos WHERE usuario_id = $1 ORDER BY id DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list pedidos: %w", err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// las líneas se leen después de cerrar rows: la conexión no admite dos cursores a la vez
	for _, o := range list {
		if o.Items, err = r.items(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE pedidos SET estado = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update estado pedido: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) items(ctx context.Context, orderID int64) ([]entity.OrderItem, error) {
	query := `
		SELECT id, pedido_id, producto_id, nombre, cantidad, precio_unitario, subtotal
		FROM pedido_items WHERE pedido_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list pedido_items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan pedido_item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.Reference, &o.UserID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
