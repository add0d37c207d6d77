package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea solicitada: producto y cantidad.
type OrderItemRequest struct {
	ProductoID int64 `json:"producto_id"`
	Cantidad   int   `json:"cantidad"`
}

// CreateOrderRequest entrada para crear un pedido.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// UpdateOrderStatusRequest entrada para cambiar el estado de un pedido.
type UpdateOrderStatusRequest struct {
	Estado string `json:"estado"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ProductoID     int64           `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID         int64               `json:"id"`
	Referencia string              `json:"referencia"`
	UsuarioID  int64               `json:"usuario_id"`
	Estado     string              `json:"estado"`
	Total      decimal.Decimal     `json:"total"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
}

// OrderEnvelope envoltorio { success, data } de un pedido.
type OrderEnvelope struct {
	Success bool          `json:"success"`
	Data    OrderResponse `json:"data"`
}

// OrderListResponse envoltorio { success, data } del listado.
type OrderListResponse struct {
	Success bool            `json:"success"`
	Data    []OrderResponse `json:"data"`
}
