package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/bazar-api/internal/application/auth"
	"github.com/jhoicas/bazar-api/internal/application/orders"
	"github.com/jhoicas/bazar-api/internal/application/usecase"
	"github.com/jhoicas/bazar-api/internal/domain/entity"
	"github.com/jhoicas/bazar-api/internal/infrastructure/metrics"
	"github.com/jhoicas/bazar-api/pkg/config"
	"github.com/jhoicas/bazar-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	AuthUC    *auth.AuthUseCase
	OrderUC   *orders.OrderUseCase
	JWTSecret string
}

// AppDeps lo necesario para construir la aplicación Fiber completa.
type AppDeps struct {
	Name    string
	CORS    config.CORSConfig
	Log     *logger.Logger
	Metrics *metrics.Metrics // nil desactiva /metrics
	Router  RouterDeps
	// Mount registra rutas extra (p. ej. Swagger) antes del 404.
	Mount func(app *fiber.App)
}

// NewApp construye la app con middlewares globales, rutas y manejo de errores.
func NewApp(deps AppDeps) *fiber.App {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      deps.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORS.AllowOrigins,
		AllowCredentials: deps.CORS.AllowCredentials,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(RequestLogger(log.Named("http")))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Servidor API Bazar funcionando",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Name})
	})

	Router(app, deps.Router)
	if deps.Mount != nil {
		deps.Mount(app)
	}

	// Ruta no encontrada: debe ir al final
	app.Use(NotFound)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/perfil", requireAuth, authHandler.Profile)

	// Productos: lectura pública, escritura admin
	products := api.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireAuth, adminOnly, productHandler.Create)
	products.Put("/:id", requireAuth, adminOnly, productHandler.Update)
	products.Delete("/:id", requireAuth, adminOnly, productHandler.Delete)

	// Pedidos (protegido)
	pedidos := api.Group("/pedidos", requireAuth)
	orderHandler := NewOrderHandler(deps.OrderUC)
	pedidos.Post("/", orderHandler.Create)
	pedidos.Get("/", orderHandler.List)
	pedidos.Get("/:id", orderHandler.GetByID)
	pedidos.Get("/:id/comprobante", orderHandler.Receipt)
	pedidos.Patch("/:id/estado", adminOnly, orderHandler.UpdateStatus)
}
