package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/bazar-api/pkg/logger"
)

// CatalogLoader descarga el catálogo y lo vuelca en el Store.
type CatalogLoader struct {
	store  *Store
	client *Client
	log    *logger.Logger
}

// NewCatalogLoader construye el cargador.
func NewCatalogLoader(store *Store, client *Client, log *logger.Logger) *CatalogLoader {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogLoader{store: store, client: client, log: log}
}

// LoadProducts GET /productos. Acepta {"data": [...]} o el array directo. Si falla, el catálogo
// anterior se conserva y el error solo se registra en el log (y se devuelve al llamador).
func (l *CatalogLoader) LoadProducts(ctx context.Context) error {
	resp, err := l.client.do(ctx, http.MethodGet, "/productos", nil, nil)
	if err != nil {
		l.log.Error().Err(err).Msg("error de conexión al cargar productos")
		return err
	}
	if !resp.ok() {
		apiErr := apiError(resp, "Error al cargar productos")
		l.log.Error().Int("status", resp.status).Str("message", apiErr.Message).Msg("error al cargar productos")
		return apiErr
	}
	products, err := decodeProducts(resp.body)
	if err != nil {
		l.log.Error().Err(err).Msg("respuesta de productos inválida")
		return err
	}
	l.store.SetProducts(products)
	l.log.Debug().Int("productos", len(products)).Msg("catálogo cargado")
	return nil
}

// RawProducts devuelve el cuerpo de GET /productos indentado, tal cual lo envía el servidor.
func (l *CatalogLoader) RawProducts(ctx context.Context) (string, error) {
	resp, err := l.client.do(ctx, http.MethodGet, "/productos", nil, nil)
	if err != nil {
		l.log.Error().Err(err).Msg("error al obtener JSON")
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, resp.body, "", "  "); err != nil {
		return "", fmt.Errorf("respuesta no es JSON: %w", err)
	}
	return out.String(), nil
}

func decodeProducts(body []byte) ([]Product, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []Product
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decodificar productos: %w", err)
		}
		return list, nil
	}
	var envelope struct {
		Data *[]Product `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decodificar productos: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("decodificar productos: falta data")
	}
	return *envelope.Data, nil
}
