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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/inventario-stock/docs"
	"github.com/jhoicas/inventario-stock/internal/application/auth"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/events"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-stock/internal/interfaces/http"
	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/jwt"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// @title        Inventario Stock API
// @version      1.0
// @description  Movimientos de inventario (entradas y salidas), productos, categorías y usuarios.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.DB.RunMigrations {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	healthChecks := map[string]httpRouter.HealthCheck{
		"postgres": pool.Ping,
	}

	// Eventos de dominio: Redis si está configurado, si no solo log
	var publisher inventory.EventPublisher = events.LogPublisher{}
	if cfg.Redis.URL != "" {
		rdb, err := events.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb)
		events.StartAlertConsumer(ctx, rdb, events.LogAlert)
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	statsCache := cache.NewStatsCache(1000, cfg.Inventory.StatsCacheTTL)
	defer statsCache.Stop()

	limits := inventory.DefaultLimits()
	limits.Timeout = cfg.Inventory.MovementTimeout
	limits.PublishTimeout = cfg.Inventory.PublishTimeout

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := inventory.NewRegisterMovementUseCase(txRunner, userRepo, publisher, statsCache, limits)
	movementUC := inventory.NewMovementUseCase(engine, movementRepo, productRepo)
	aggregationUC := inventory.NewAggregationUseCase(productRepo, movementRepo, analyticsRepo, statsCache, limits)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, txRunner, engine, limits)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, productRepo)
	roleUC := usecase.NewRoleUseCase(roleRepo, userRepo)
	userUC := usecase.NewUserUseCase(userRepo, roleRepo, movementRepo, cfg.Security.BcryptCost)

	if cfg.Admin.Username != "" {
		if err := userUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("crear usuario administrador")
		}
	}

	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración JWT")
	}
	authUC := auth.NewAuthUseCase(userRepo, signer)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Stock API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		MovementUC:    movementUC,
		AggregationUC: aggregationUC,
		ProductUC:     productUC,
		CategoryUC:    categoryUC,
		RoleUC:        roleUC,
		UserUC:        userUC,
		Tokens:        signer,
		HealthChecks:  healthChecks,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
