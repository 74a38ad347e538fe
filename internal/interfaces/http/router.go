package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/auth"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	MovementUC    *inventory.MovementUseCase
	AggregationUC *inventory.AggregationUseCase
	ProductUC     *usecase.ProductUseCase
	CategoryUC    *usecase.CategoryUseCase
	RoleUC        *usecase.RoleUseCase
	UserUC        *usecase.UserUseCase
	Tokens        TokenParser
	HealthChecks  map[string]HealthCheck
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.HealthChecks).Health)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.Tokens))
	protected.Get("/auth/me", authHandler.Me)

	anyRole := RequireRole(entity.RoleAdmin, entity.RoleGerente, entity.RoleEmpleado)
	managers := RequireRole(entity.RoleAdmin, entity.RoleGerente)
	admins := RequireRole(entity.RoleAdmin)

	// Movimientos: rutas estáticas antes de /:id
	movementHandler := NewMovementHandler(deps.MovementUC)
	statsHandler := NewStatsHandler(deps.AggregationUC)
	movs := protected.Group("/movimientos", anyRole)
	movs.Post("/entrada", movementHandler.Entry)
	movs.Post("/salida", movementHandler.Exit)
	movs.Post("/", movementHandler.Create)
	movs.Get("/", movementHandler.List)
	movs.Get("/estadisticas", statsHandler.Period)
	movs.Get("/productos-mas-movidos", statsHandler.TopMoved)
	movs.Get("/resumen-producto/:productoId", statsHandler.ProductSummary)
	movs.Get("/producto/:productoId", movementHandler.ListByProduct)
	movs.Get("/:id", movementHandler.GetByID)

	// Productos
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/productos")
	products.Get("/", anyRole, productHandler.List)
	products.Get("/stock-bajo", anyRole, statsHandler.LowStock)
	products.Get("/stock-critico", anyRole, statsHandler.CriticalStock)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", managers, productHandler.Create)
	products.Put("/:id", managers, productHandler.Update)
	products.Delete("/:id", admins, productHandler.Delete)

	// Categorías
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categorias")
	categories.Get("/", anyRole, categoryHandler.List)
	categories.Get("/:id", anyRole, categoryHandler.GetByID)
	categories.Post("/", managers, categoryHandler.Create)
	categories.Put("/:id", managers, categoryHandler.Update)
	categories.Delete("/:id", admins, categoryHandler.Delete)

	// Roles y usuarios (solo ADMIN)
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles := protected.Group("/roles", admins)
	roles.Get("/", roleHandler.List)
	roles.Post("/", roleHandler.Create)
	roles.Get("/:id", roleHandler.GetByID)
	roles.Put("/:id", roleHandler.Update)
	roles.Delete("/:id", roleHandler.Delete)

	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/usuarios", admins)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id/activar", userHandler.Activate)
	users.Patch("/:id/desactivar", userHandler.Deactivate)
	users.Delete("/:id", userHandler.Delete)
}
