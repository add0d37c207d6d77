package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusPending   = "pendiente"
	OrderStatusPaid      = "pagado"
	OrderStatusShipped   = "enviado"
	OrderStatusCancelled = "cancelado"
)

// ValidOrderStatus indica si s es un estado de pedido conocido.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// Order (pedido) agrupa las líneas compradas por un usuario. Total = Σ Subtotal de las líneas.
type Order struct {
	ID        int64
	Reference string // código público (uuid) para el comprobante
	UserID    int64
	Status    string
	Total     decimal.Decimal
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem línea de pedido con el precio congelado al momento de la compra.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
