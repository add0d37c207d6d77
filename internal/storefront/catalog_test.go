package storefront

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogoJSON = `{"success":true,"data":[
	{"id":1,"nombre":"Mesa","descripcion":"Roble","precio":"50.10","stock":3},
	{"id":2,"nombre":"Silla","descripcion":"","precio":19.95,"stock":10}
]}`

func TestLoadProducts_Envoltorio(t *testing.T) {
	api := newFakeAPI(t)
	api.on(http.MethodGet, "/api/productos", reply(http.StatusOK, catalogoJSON))
	sf, rend := newTestStorefront(t, api, nil)

	require.NoError(t, sf.Catalog.LoadProducts(context.Background()))

	products := sf.Store.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "Mesa", products[0].Nombre)
	assert.True(t, products[0].Precio.Equal(dec("50.10")))
	assert.True(t, products[1].Precio.Equal(dec("19.95")))
	assert.Equal(t, 10, products[1].Stock)
	require.Len(t, rend.catalogs, 1)
}

func TestLoadProducts_ArrayDirecto(t *testing.T) {
	api := newFakeAPI(t)
	api.on(http.MethodGet, "/api/productos", reply(http.StatusOK, `[{"id":7,"nombre":"Lámpara","precio":"12","stock":1}]`))
	sf, _ := newTestStorefront(t, api, nil)

	require.NoError(t, sf.Catalog.LoadProducts(context.Background()))
	require.Len(t, sf.Store.Products(), 1)
	assert.Equal(t, int64(7), sf.Store.Products()[0].ID)
}

func TestLoadProducts_ErrorConservaCatalogo(t *testing.T) {
	api := newFakeAPI(t)
	api.on(http.MethodGet, "/api/productos", reply(http.StatusInternalServerError, `{"success":false,"message":"Error interno del servidor"}`))
	sf, _ := newTestStorefront(t, api, nil)
	sf.Store.SetProducts([]Product{{ID: 1, Nombre: "Mesa", Precio: dec("50"), Stock: 3}})

	err := sf.Catalog.LoadProducts(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Error interno del servidor", apiErr.Message)
	require.Len(t, sf.Store.Products(), 1)
}

func TestLoadProducts_JSONInvalido(t *testing.T) {
	api := newFakeAPI(t)
	sf, _ := newTestStorefront(t, api, nil)
	sf.Store.SetProducts([]Product{{ID: 1, Nombre: "Mesa", Precio: dec("50"), Stock: 3}})

	for _, body := range []string{`<html>`, `{"success":true}`} {
		api.on(http.MethodGet, "/api/productos", reply(http.StatusOK, body))
		assert.Error(t, sf.Catalog.LoadProducts(context.Background()), body)
		assert.Len(t, sf.Store.Products(), 1, body)
	}
}

func TestLoadProducts_SinConexion(t *testing.T) {
	api := newFakeAPI(t)
	sf, _ := newTestStorefront(t, api, nil)
	api.server.Close()

	err := sf.Catalog.LoadProducts(context.Background())
	assert.ErrorIs(t, err, ErrConnection)
	assert.Empty(t, sf.Store.Products())
}

func TestRawProducts_Indentado(t *testing.T) {
	api := newFakeAPI(t)
	api.on(http.MethodGet, "/api/productos", reply(http.StatusOK, `{"data":[{"id":1}]}`))
	sf, _ := newTestStorefront(t, api, nil)

	raw, err := sf.Catalog.RawProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"data\": [\n    {\n      \"id\": 1\n    }\n  ]\n}", raw)
}
