package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/purchase"
	"github.com/jhoicas/almacen-api/internal/application/request"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/application/stockin"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/internal/infrastructure/rediscache"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché de proyecciones opcional. Las interfaces quedan en nil cuando
	// Redis está deshabilitado; los casos de uso lo toleran.
	var itemCache *rediscache.ItemCache
	var projectionCache usecase.ItemProjectionCache
	var mutationCache stock.ItemCache
	if cfg.Redis.Enabled {
		itemCache, err = rediscache.NewItemCache(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer itemCache.Close()
		projectionCache = itemCache
		mutationCache = itemCache
		log.Info().Str("addr", cfg.Redis.Addr()).Msg("caché de proyecciones habilitado")
	}

	itemRepo := postgres.NewItemRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	adjustmentRepo := postgres.NewAdjustmentRepository(pool)
	stockInRepo := postgres.NewStockInRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mutationSvc := stock.NewMutationService(txRunner, mutationCache)
	adjustmentUC := stock.NewAdjustmentUseCase(txRunner, adjustmentRepo, mutationCache)
	requestUC := request.NewUseCase(txRunner, itemRepo, requestRepo, mutationCache)
	purchaseUC := purchase.NewUseCase(txRunner, itemRepo, supplierRepo, orderRepo, mutationCache)
	stockInUC := stockin.NewUseCase(txRunner, supplierRepo, stockInRepo, mutationCache)
	itemUC := usecase.NewItemUseCase(itemRepo, projectionCache)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, itemRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:      itemUC,
		SupplierUC:  supplierUC,
		LedgerUC:    ledgerUC,
		Mutations:   mutationSvc,
		Adjustments: adjustmentUC,
		RequestUC:   requestUC,
		PurchaseUC:  purchaseUC,
		StockInUC:   stockInUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	httpLog := log.Component("http")
	go func() {
		httpLog.Info().Str("addr", cfg.HTTP.Addr()).Msg("escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			httpLog.Error().Err(err).Msg("servidor HTTP finalizado")
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
