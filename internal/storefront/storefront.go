package storefront

import (
	"time"

	"github.com/jhoicas/bazar-api/pkg/logger"
)

// Options dependencias para New.
type Options struct {
	APIBaseURL string
	Timeout    time.Duration
	Storage    Storage  // nil: MemoryStorage
	Renderer   Renderer // nil: NopRenderer
	Log        *logger.Logger
	Client     *Client // opcional, si no se arma con APIBaseURL y Timeout
}

// Storefront agrupa el estado y los servicios que lo modifican.
type Storefront struct {
	Store   *Store
	Session *SessionManager
	Catalog *CatalogLoader
	Orders  *OrderService
}

// New arma la tienda completa.
func New(opts Options) *Storefront {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	storage := opts.Storage
	if storage == nil {
		storage = NewMemoryStorage()
	}
	client := opts.Client
	if client == nil {
		client = NewClient(opts.APIBaseURL, opts.Timeout)
	}
	store := NewStore(opts.Renderer, log.Named("carrito"))
	sessions := NewSessionManager(store, client, NewSessionStore(storage), log.Named("sesion"))
	catalog := NewCatalogLoader(store, client, log.Named("catalogo"))
	return &Storefront{
		Store:   store,
		Session: sessions,
		Catalog: catalog,
		Orders:  NewOrderService(store, client, sessions, catalog, log.Named("pedidos")),
	}
}
