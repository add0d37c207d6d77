package storefront

import "github.com/shopspring/decimal"

// Renderer recibe los cambios de estado para redibujar. Siempre recibe copias, de a una llamada
// por vez y en el orden en que se aplicaron las mutaciones. Los métodos no deben modificar el Store.
type Renderer interface {
	CatalogChanged(products []Product)
	CartChanged(items []LineItem, total decimal.Decimal, count int)
	SessionChanged(usuario *Usuario)
}

// NopRenderer ignora las notificaciones (uso sin interfaz).
type NopRenderer struct{}

func (NopRenderer) CatalogChanged([]Product)                     {}
func (NopRenderer) CartChanged([]LineItem, decimal.Decimal, int) {}
func (NopRenderer) SessionChanged(*Usuario)                      {}
