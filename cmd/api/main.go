package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bazar-api/internal/application/auth"
	"github.com/jhoicas/bazar-api/internal/application/dto"
	"github.com/jhoicas/bazar-api/internal/application/orders"
	"github.com/jhoicas/bazar-api/internal/application/usecase"
	"github.com/jhoicas/bazar-api/internal/domain/repository"
	"github.com/jhoicas/bazar-api/internal/infrastructure/memory"
	"github.com/jhoicas/bazar-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/bazar-api/internal/infrastructure/pdf"
	"github.com/jhoicas/bazar-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/bazar-api/internal/interfaces/http"
	"github.com/jhoicas/bazar-api/pkg/config"
	"github.com/jhoicas/bazar-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

type repositories struct {
	products repository.ProductRepository
	users    repository.UserRepository
	orders   repository.OrderRepository
	tx       orders.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	// precios como números JSON, igual que el frontend los espera
	decimal.MarshalJSONWithoutQuotes = true

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	repos, err := openRepositories(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.close()

	var m *metrics.Metrics
	var recorder orders.Recorder
	if cfg.Metrics.Enabled {
		m = metrics.New()
		recorder = m
	}

	productUC := usecase.NewProductUseCase(repos.products)
	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	orderUC := orders.NewOrderUseCase(
		repos.tx, repos.orders, repos.users,
		infrapdf.NewReceiptGenerator("Bazar"),
		recorder,
	)

	if cfg.App.AdminEmail != "" {
		admin, err := authUC.EnsureAdmin(ctx, dto.RegisterRequest{
			Nombre:   cfg.App.AdminName,
			Email:    cfg.App.AdminEmail,
			Password: cfg.App.AdminPassword,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("crear cuenta admin")
		}
		log.Info().Int64("id", admin.ID).Str("email", admin.Email).Msg("cuenta admin lista")
	} else {
		log.Warn().Msg("sin ADMIN_EMAIL: las rutas de administración no tendrán usuario")
	}
	if cfg.DB.Driver == "memory" {
		seedCatalog(ctx, productUC, log)
	}

	app := httpRouter.NewApp(httpRouter.AppDeps{
		Name:    cfg.App.Name,
		CORS:    cfg.CORS,
		Log:     log,
		Metrics: m,
		Router: httpRouter.RouterDeps{
			ProductUC: productUC,
			AuthUC:    authUC,
			OrderUC:   orderUC,
			JWTSecret: cfg.JWT.Secret,
		},
		Mount: mountSwagger(log),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openRepositories(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*repositories, error) {
	if cfg.Driver == "memory" {
		store := memory.NewStore()
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		return &repositories{
			products: store.Products(),
			users:    store.Users(),
			orders:   store.Orders(),
			tx:       store,
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &repositories{
		products: postgres.NewProductRepository(pool),
		users:    postgres.NewUserRepository(pool),
		orders:   postgres.NewOrderRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}

// Swagger UI en local: http://localhost:<port>/docs, solo si existe el archivo.
func mountSwagger(log *logger.Logger) func(app *fiber.App) {
	return func(app *fiber.App) {
		if _, err := os.Stat(swaggerFile); err != nil {
			log.Debug().Str("file", swaggerFile).Msg("swagger deshabilitado")
			return
		}
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Bazar API",
		}))
	}
}

func seedCatalog(ctx context.Context, uc *usecase.ProductUseCase, log *logger.Logger) {
	demo := []dto.CreateProductRequest{
		{Nombre: "Mesa de roble", Descripcion: "Mesa de comedor para seis personas", Precio: decimal.RequireFromString("250.00"), Stock: 3},
		{Nombre: "Silla tapizada", Descripcion: "Silla con asiento acolchado", Precio: decimal.RequireFromString("45.50"), Stock: 12},
		{Nombre: "Lámpara de pie", Descripcion: "Lámpara LED regulable", Precio: decimal.RequireFromString("79.90"), Stock: 5},
		{Nombre: "Alfombra", Descripcion: "Alfombra de lana 160x230", Precio: decimal.RequireFromString("120.00"), Stock: 2},
	}
	for _, p := range demo {
		if _, err := uc.Create(ctx, p); err != nil {
			log.Error().Err(err).Str("producto", p.Nombre).Msg("sembrar catálogo")
		}
	}
	log.Info().Int("productos", len(demo)).Msg("catálogo de demostración cargado")
}
