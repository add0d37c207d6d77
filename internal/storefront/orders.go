package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bazar-api/internal/domain"
	"github.com/jhoicas/bazar-api/pkg/logger"
)

// Pedido pedido confirmado por la API.
type Pedido struct {
	ID         int64           `json:"id"`
	Referencia string          `json:"referencia"`
	Estado     string          `json:"estado"`
	Total      decimal.Decimal `json:"total"`
	Items      []PedidoItem    `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PedidoItem línea de un pedido con el precio cobrado.
type PedidoItem struct {
	ProductoID     int64           `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// OrderService envía el carrito como pedido y consulta los pedidos del usuario.
// La API vuelve a validar stock y sesión; aquí solo se evita la petición obvia.
type OrderService struct {
	store    *Store
	client   *Client
	sessions *SessionManager
	catalog  *CatalogLoader
	log      *logger.Logger
}

// NewOrderService construye el servicio. catalog puede ser nil (no se recarga tras comprar).
func NewOrderService(store *Store, client *Client, sessions *SessionManager, catalog *CatalogLoader, log *logger.Logger) *OrderService {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderService{store: store, client: client, sessions: sessions, catalog: catalog, log: log}
}

type orderLine struct {
	ProductoID int64 `json:"producto_id"`
	Cantidad   int   `json:"cantidad"`
}

// Checkout POST /pedidos con las líneas del carrito. Si la API lo acepta se descuentan del carrito
// las unidades enviadas (lo agregado mientras la petición estaba en curso se conserva) y se recarga
// el catálogo (el stock cambió). Con el carrito vacío devuelve domain.ErrInvalidInput.
func (o *OrderService) Checkout(ctx context.Context) (*Pedido, error) {
	if !o.store.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	items := o.store.Items()
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]orderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, orderLine{ProductoID: it.ID, Cantidad: it.Cantidad})
	}
	resp, err := o.client.do(ctx, http.MethodPost, "/pedidos", o.sessions.AuthHeaders(), map[string]any{"items": lines})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(resp, "Error al crear el pedido")
	}
	var out struct {
		Data Pedido `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, &ConnectionError{Err: err}
	}
	o.store.RemoveOrdered(items)
	o.log.Info().Int64("pedido", out.Data.ID).Str("total", out.Data.Total.StringFixed(2)).Msg("pedido creado")
	if o.catalog != nil {
		_ = o.catalog.LoadProducts(ctx) // un fallo queda en el log del loader
	}
	return &out.Data, nil
}

// List GET /pedidos del usuario autenticado.
func (o *OrderService) List(ctx context.Context) ([]Pedido, error) {
	if !o.store.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	resp, err := o.client.do(ctx, http.MethodGet, "/pedidos", o.sessions.AuthHeaders(), nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(resp, "Error al obtener los pedidos")
	}
	var out struct {
		Data []Pedido `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return out.Data, nil
}
