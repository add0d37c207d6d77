package storefront

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

// recordingRenderer guarda las notificaciones recibidas.
type recordingRenderer struct {
	mu       sync.Mutex
	catalogs [][]Product
	carts    [][]LineItem
	totals   []decimal.Decimal
	counts   []int
	sessions []*Usuario
}

func (r *recordingRenderer) CatalogChanged(products []Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs = append(r.catalogs, products)
}

func (r *recordingRenderer) CartChanged(items []LineItem, total decimal.Decimal, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = append(r.carts, items)
	r.totals = append(r.totals, total)
	r.counts = append(r.counts, count)
}

func (r *recordingRenderer) SessionChanged(u *Usuario) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, u)
}

func (r *recordingRenderer) cartCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var testUsuario = &Usuario{ID: 1, Nombre: "Ana", Email: "ana@example.com", Rol: "cliente"}

// loggedStore Store con sesión iniciada y el catálogo dado.
func loggedStore(t *testing.T, products ...Product) (*Store, *recordingRenderer) {
	t.Helper()
	r := &recordingRenderer{}
	s := NewStore(r, nil)
	s.SetSession(Session{Usuario: testUsuario, Token: "tok"})
	s.SetProducts(products)
	return s, r
}
