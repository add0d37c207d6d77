package storefront

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bazar-api/pkg/logger"
)

// Store estado de la aplicación: sesión, catálogo y carrito (en orden de inserción).
type Store struct {
	mu sync.Mutex
	// notifyMu se toma antes de soltar mu: las notificaciones salen en el orden de las mutaciones.
	notifyMu  sync.Mutex
	usuario   *Usuario
	token     string
	productos []Product
	carrito   []LineItem

	renderer Renderer
	log      *logger.Logger
}

// NewStore crea el estado vacío. renderer y log pueden ser nil.
func NewStore(renderer Renderer, log *logger.Logger) *Store {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{renderer: renderer, log: log}
}

// ── Sesión ────────────────────────────────────────────────────────────────────

// IsAuthenticated true si hay usuario y token.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated()
}

func (s *Store) authenticated() bool {
	return s.usuario != nil && s.token != ""
}

// Session copia de la sesión actual.
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{Usuario: copyUsuario(s.usuario), Token: s.token}
}

// Token token actual ("" sin sesión).
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetSession fija usuario y token juntos. Una sesión incompleta equivale a ClearSession.
func (s *Store) SetSession(session Session) {
	if !session.Valid() {
		s.ClearSession()
		return
	}
	u := copyUsuario(session.Usuario)
	s.mu.Lock()
	s.usuario, s.token = u, session.Token
	s.unlockAndNotify(func() { s.renderer.SessionChanged(copyUsuario(u)) })
}

// ClearSession borra usuario y token. Idempotente.
func (s *Store) ClearSession() {
	s.mu.Lock()
	s.usuario, s.token = nil, ""
	s.unlockAndNotify(func() { s.renderer.SessionChanged(nil) })
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// Products copia del catálogo.
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Product(nil), s.productos...)
}

// SetProducts reemplaza el catálogo completo.
func (s *Store) SetProducts(products []Product) {
	list := append([]Product(nil), products...)
	s.mu.Lock()
	s.productos = list
	s.unlockAndNotify(func() { s.renderer.CatalogChanged(append([]Product(nil), list...)) })
}

// unlockAndNotify suelta mu y ejecuta notify fuera del lock de estado, serializado con las demás
// notificaciones. El Renderer puede leer el Store pero no modificarlo desde el callback.
func (s *Store) unlockAndNotify(notify func()) {
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	notify()
}

func (s *Store) findProduct(id int64) (Product, bool) {
	for _, p := range s.productos {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func copyUsuario(u *Usuario) *Usuario {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// cartSnapshot copia del carrito, total y unidades. Llamar con el lock tomado.
func (s *Store) cartSnapshot() ([]LineItem, decimal.Decimal, int) {
	items := append([]LineItem(nil), s.carrito...)
	return items, total(items), count(items)
}

func total(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

func count(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Cantidad
	}
	return n
}
