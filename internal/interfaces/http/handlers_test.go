package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bazar-api/internal/application/auth"
	"github.com/jhoicas/bazar-api/internal/application/dto"
	"github.com/jhoicas/bazar-api/internal/application/orders"
	"github.com/jhoicas/bazar-api/internal/application/usecase"
	"github.com/jhoicas/bazar-api/internal/domain/entity"
	"github.com/jhoicas/bazar-api/internal/infrastructure/memory"
	"github.com/jhoicas/bazar-api/internal/infrastructure/metrics"
	"github.com/jhoicas/bazar-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/bazar-api/internal/interfaces/http"
	"github.com/jhoicas/bazar-api/pkg/config"
	pkgjwt "github.com/jhoicas/bazar-api/pkg/jwt"
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	mesa  *entity.Product
	silla *entity.Product
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	mesa := &entity.Product{Name: "Mesa", Price: decimal.RequireFromString("50.10"), Stock: 3}
	silla := &entity.Product{Name: "Silla", Price: decimal.RequireFromString("19.95"), Stock: 10}
	require.NoError(t, store.Products().Create(ctx, mesa))
	require.NoError(t, store.Products().Create(ctx, silla))

	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}).WithBcryptCost(bcrypt.MinCost)
	orderUC := orders.NewOrderUseCase(store, store.Orders(), store.Users(), pdf.NewReceiptGenerator("Bazar"), nil)

	app := apphttp.NewApp(apphttp.AppDeps{
		Name:    "bazar-test",
		CORS:    config.CORSConfig{AllowOrigins: "*"},
		Metrics: metrics.New(),
		Router: apphttp.RouterDeps{
			ProductUC: usecase.NewProductUseCase(store.Products()),
			AuthUC:    authUC,
			OrderUC:   orderUC,
			JWTSecret: testJWTSecret,
		},
	})
	return &testEnv{app: app, store: store, mesa: mesa, silla: silla}
}

// userToken crea un usuario en el store y devuelve su Bearer token.
func (e *testEnv) userToken(t *testing.T, email, role string) (int64, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{Name: email, Email: email, PasswordHash: string(hash), Role: role, CreatedAt: time.Now()}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Email, u.Role, testIssuer, testExpMin)
	require.NoError(t, err)
	return u.ID, "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (e *testEnv) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := e.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

// ──────────────────────────────────────────────────────────────────────────────
// Servidor
// ──────────────────────────────────────────────────────────────────────────────

func TestRaiz_Salud(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Servidor API Bazar funcionando")
	assert.Contains(t, string(body), "timestamp")
}

func TestRutaNoEncontrada_404JSON(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/no/existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"code":"NOT_FOUND","message":"Ruta no encontrada"}`, string(body))
}

func TestCORS_PermiteCualquierOrigen(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/productos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetrics_Expuestas(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/productos", "", nil)
	resp, body := env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `bazar_http_requests_total{method="GET",path="/api/productos`)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_DevuelveSesion(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Nombre: "Ana", Email: "Ana@Example.com", Password: "secreto1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out dto.AuthResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ana@example.com", out.Usuario.Email)
	assert.Equal(t, entity.RoleCliente, out.Usuario.Rol)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Nombre: "Otra", Email: "ana@example.com", Password: "secreto1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_Validacion(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Nombre: "Ana", Email: "ana@example.com", Password: "123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "al menos 6 caracteres")

	resp, _ = env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "x@y.z", Password: "secreto1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	env := newTestEnv(t)
	env.userToken(t, "ana@example.com", entity.RoleCliente)

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "Credenciales inválidas")

	resp, _ = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nadie@example.com", Password: "secreto1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_YPerfil(t *testing.T) {
	env := newTestEnv(t)
	env.userToken(t, "ana@example.com", entity.RoleCliente)

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "secreto1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.AuthResponse
	require.NoError(t, json.Unmarshal(body, &out))

	resp, body = env.do(t, http.MethodGet, "/api/auth/perfil", "Bearer "+out.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile dto.ProfileResponse
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "ana@example.com", profile.Usuario.Email)

	resp, _ = env.do(t, http.MethodGet, "/api/auth/perfil", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductos_ListaPublica(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/productos", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ProductListResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Success)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "Mesa", out.Data[0].Nombre)
	assert.True(t, out.Data[0].Precio.Equal(decimal.RequireFromString("50.10")))
}

func TestProductos_GetByID(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/productos/2", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/productos/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/productos/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductos_EscrituraSoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, cliente := env.userToken(t, "cli@example.com", entity.RoleCliente)
	_, admin := env.userToken(t, "admin@example.com", entity.RoleAdmin)
	in := dto.CreateProductRequest{Nombre: "Lámpara", Precio: decimal.RequireFromString("35.00"), Stock: 4}

	resp, _ := env.do(t, http.MethodPost, "/api/productos", "", in)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/productos", cliente, in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/productos", admin, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.ProductEnvelope
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Lámpara", created.Data.Nombre)

	nuevoStock := 9
	resp, body = env.do(t, http.MethodPut, "/api/productos/3", admin, dto.UpdateProductRequest{Stock: &nuevoStock})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, 9, env.stock(t, 3))

	resp, _ = env.do(t, http.MethodDelete, "/api/productos/3", admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/productos/3", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductos_PrecioNegativo400(t *testing.T) {
	env := newTestEnv(t)
	_, admin := env.userToken(t, "admin@example.com", entity.RoleAdmin)
	resp, _ := env.do(t, http.MethodPost, "/api/productos", admin, dto.CreateProductRequest{
		Nombre: "X", Precio: decimal.RequireFromString("-1"), Stock: 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestPedidos_CrearDescuentaStock(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.userToken(t, "ana@example.com", entity.RoleCliente)

	resp, body := env.do(t, http.MethodPost, "/api/pedidos", tok, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{
		{ProductoID: env.mesa.ID, Cantidad: 2},
		{ProductoID: env.silla.ID, Cantidad: 3},
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out dto.OrderEnvelope
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Data.Total.Equal(decimal.RequireFromString("160.05")), out.Data.Total.String())
	assert.Equal(t, entity.OrderStatusPending, out.Data.Estado)
	assert.NotEmpty(t, out.Data.Referencia)
	assert.Equal(t, 1, env.stock(t, env.mesa.ID))
	assert.Equal(t, 7, env.stock(t, env.silla.ID))

	resp, body = env.do(t, http.MethodGet, "/api/pedidos", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.OrderListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Data, 1)
}

func TestPedidos_StockInsuficiente409(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.userToken(t, "ana@example.com", entity.RoleCliente)

	resp, body := env.do(t, http.MethodPost, "/api/pedidos", tok, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{
		{ProductoID: env.silla.ID, Cantidad: 1},
		{ProductoID: env.mesa.ID, Cantidad: 4},
	}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "stock insuficiente")
	assert.Equal(t, 3, env.stock(t, env.mesa.ID))
	assert.Equal(t, 10, env.stock(t, env.silla.ID))
}

func TestPedidos_ProductoInexistente404(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.userToken(t, "ana@example.com", entity.RoleCliente)
	resp, _ := env.do(t, http.MethodPost, "/api/pedidos", tok, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{
		{ProductoID: 999, Cantidad: 1},
	}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPedidos_SinLineas400(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.userToken(t, "ana@example.com", entity.RoleCliente)
	resp, _ := env.do(t, http.MethodPost, "/api/pedidos", tok, dto.CreateOrderRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPedidos_VisibilidadYComprobante(t *testing.T) {
	env := newTestEnv(t)
	_, ana := env.userToken(t, "ana@example.com", entity.RoleCliente)
	_, beto := env.userToken(t, "beto@example.com", entity.RoleCliente)
	_, admin := env.userToken(t, "admin@example.com", entity.RoleAdmin)

	resp, body := env.do(t, http.MethodPost, "/api/pedidos", ana, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{
		{ProductoID: env.mesa.ID, Cantidad: 1},
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = env.do(t, http.MethodGet, "/api/pedidos/1", beto, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/api/pedidos/1", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/api/pedidos/99", ana, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/pedidos/1/comprobante", ana, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestPedidos_CancelarReponeStock(t *testing.T) {
	env := newTestEnv(t)
	_, ana := env.userToken(t, "ana@example.com", entity.RoleCliente)
	_, admin := env.userToken(t, "admin@example.com", entity.RoleAdmin)

	resp, _ := env.do(t, http.MethodPost, "/api/pedidos", ana, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{
		{ProductoID: env.mesa.ID, Cantidad: 2},
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 1, env.stock(t, env.mesa.ID))

	cancel := dto.UpdateOrderStatusRequest{Estado: entity.OrderStatusCancelled}
	resp, _ = env.do(t, http.MethodPatch, "/api/pedidos/1/estado", ana, cancel)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPatch, "/api/pedidos/1/estado", admin, cancel)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, env.stock(t, env.mesa.ID))

	resp, _ = env.do(t, http.MethodPatch, "/api/pedidos/1/estado", admin, dto.UpdateOrderStatusRequest{Estado: "perdido"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
