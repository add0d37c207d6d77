package storefront

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bazar-api/internal/domain"
)

// AddToCart agrega cantidad unidades del producto. Los controles se evalúan en orden y
// cualquier fallo deja el carrito intacto:
//  1. sesión iniciada (domain.ErrNotAuthenticated)
//  2. producto en el catálogo (domain.ErrProductNotFound)
//  3. cantidad >= 1 (domain.ErrInvalidQuantity)
//  4. cantidad <= stock del producto (*StockError)
//  5. si ya está en el carrito, la suma no supera el stock actual del producto (*StockError)
func (s *Store) AddToCart(productID int64, cantidad int) error {
	s.mu.Lock()
	if !s.authenticated() {
		s.mu.Unlock()
		return domain.ErrNotAuthenticated
	}
	product, ok := s.findProduct(productID)
	if !ok {
		s.mu.Unlock()
		return domain.ErrProductNotFound
	}
	if cantidad < 1 {
		s.mu.Unlock()
		return domain.ErrInvalidQuantity
	}
	if cantidad > product.Stock {
		s.mu.Unlock()
		return &StockError{
			Available: product.Stock,
			Message:   fmt.Sprintf("Solo hay %d unidades disponibles", product.Stock),
		}
	}

	if i := s.lineIndex(productID); i >= 0 {
		nueva := s.carrito[i].Cantidad + cantidad
		// tope: stock vivo del producto, no la foto de la línea
		if nueva > product.Stock {
			s.mu.Unlock()
			return &StockError{
				Available: product.Stock,
				Message:   fmt.Sprintf("No hay suficiente stock. Máximo: %d", product.Stock),
			}
		}
		s.carrito[i].Cantidad = nueva
		s.log.Info().Str("producto", product.Nombre).Int("cantidad", nueva).Msg("cantidad actualizada")
	} else {
		s.carrito = append(s.carrito, LineItem{
			ID:       product.ID,
			Nombre:   product.Nombre,
			Precio:   product.Precio,
			Cantidad: cantidad,
			Stock:    product.Stock,
		})
		s.log.Info().Str("producto", product.Nombre).Int("cantidad", cantidad).Msg("producto agregado al carrito")
	}
	s.notifyCartLocked()
	return nil
}

// RemoveFromCart quita la línea del producto. No-op si no está.
func (s *Store) RemoveFromCart(productID int64) {
	s.mu.Lock()
	i := s.lineIndex(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.carrito[i]
	s.carrito = append(s.carrito[:i], s.carrito[i+1:]...)
	s.log.Info().Str("producto", removed.Nombre).Msg("producto quitado del carrito")
	s.notifyCartLocked()
}

// ChangeQuantity fija la cantidad de una línea. n < 1 quita la línea; una línea inexistente es no-op.
// El tope es la foto de stock guardada en la línea.
func (s *Store) ChangeQuantity(productID int64, n int) error {
	if n < 1 {
		s.RemoveFromCart(productID)
		return nil
	}
	s.mu.Lock()
	i := s.lineIndex(productID)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	if n > s.carrito[i].Stock {
		stock := s.carrito[i].Stock
		s.mu.Unlock()
		return &StockError{Available: stock, Message: fmt.Sprintf("Stock máximo: %d", stock)}
	}
	s.carrito[i].Cantidad = n
	s.notifyCartLocked()
	return nil
}

// CalculateTotal Σ precio × cantidad, exacto. Cero con el carrito vacío.
func (s *Store) CalculateTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.carrito)
}

// ItemCount unidades en el carrito (indicador del carrito).
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.carrito)
}

// Items copia de las líneas en orden de inserción.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem(nil), s.carrito...)
}

// ClearCart vacía el carrito (p. ej. tras confirmar un pedido).
func (s *Store) ClearCart() {
	s.mu.Lock()
	if len(s.carrito) == 0 {
		s.mu.Unlock()
		return
	}
	s.carrito = nil
	s.notifyCartLocked()
}

// RemoveOrdered descuenta del carrito las cantidades ya pedidas. Una línea cuya cantidad actual no
// supera la pedida se quita; si creció después de la foto, queda la diferencia.
func (s *Store) RemoveOrdered(ordered []LineItem) {
	s.mu.Lock()
	changed := false
	for _, o := range ordered {
		i := s.lineIndex(o.ID)
		if i < 0 {
			continue
		}
		changed = true
		if s.carrito[i].Cantidad <= o.Cantidad {
			s.carrito = append(s.carrito[:i], s.carrito[i+1:]...)
			continue
		}
		s.carrito[i].Cantidad -= o.Cantidad
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.log.Info().Int("lineas", len(ordered)).Msg("líneas pedidas quitadas del carrito")
	s.notifyCartLocked()
}

func (s *Store) lineIndex(productID int64) int {
	for i, it := range s.carrito {
		if it.ID == productID {
			return i
		}
	}
	return -1
}

// notifyCartLocked toma la foto del carrito, suelta el lock y avisa al renderer.
func (s *Store) notifyCartLocked() {
	items, sum, n := s.cartSnapshot()
	s.unlockAndNotify(func() { s.renderer.CartChanged(items, sum, n) })
}
