package storefront

import (
	"github.com/shopspring/decimal"
)

// Product producto del catálogo tal como lo devuelve GET /productos.
type Product struct {
	ID          int64           `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
}

// LineItem línea del carrito. Stock es la foto del stock del producto al momento de agregarlo.
type LineItem struct {
	ID       int64           `json:"id"`
	Nombre   string          `json:"nombre"`
	Precio   decimal.Decimal `json:"precio"`
	Cantidad int             `json:"cantidad"`
	Stock    int             `json:"stock"`
}

// Subtotal precio × cantidad.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}

// Usuario identidad autenticada (campo "usuario" de login y registro).
type Usuario struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol,omitempty"`
}

// Session par usuario + token. O están ambos o ninguno.
type Session struct {
	Usuario *Usuario
	Token   string
}

// Valid indica si la sesión está completa.
func (s Session) Valid() bool {
	return s.Usuario != nil && s.Token != ""
}
