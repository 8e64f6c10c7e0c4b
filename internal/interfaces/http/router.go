package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jcamargo/stocktrack-api/internal/application/auth"
	"github.com/jcamargo/stocktrack-api/internal/application/stock"
	"github.com/jcamargo/stocktrack-api/internal/application/usecase"
	"github.com/jcamargo/stocktrack-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	DashboardUC *usecase.DashboardUseCase
	Operations  *stock.OperationUseCase
	Commit      *stock.CommitOperationUseCase
	Queries     *stock.QueryUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de productos: escritura solo ADMIN/MANAGER
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleManager), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleManager), productHandler.Update)

	// Catálogo de ubicaciones: escritura solo ADMIN/MANAGER
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", RequireRole(entity.RoleAdmin, entity.RoleManager), locationHandler.Create)
	locations.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleManager), locationHandler.Update)

	// Operaciones de stock: cualquier usuario autenticado crea borradores y commitea
	operations := protected.Group("/operations")
	operationHandler := NewOperationHandler(deps.Operations, deps.Commit, deps.Queries)
	operations.Get("/", operationHandler.History)
	operations.Post("/", operationHandler.Create)
	operations.Post("/:id/commit", operationHandler.Commit)
	operations.Post("/:id/cancel", operationHandler.Cancel)

	// Niveles de stock (solo lectura)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Queries)
	stockGroup.Get("/levels", stockHandler.Levels)
	stockGroup.Get("/levels/:productId/:locationId", stockHandler.CurrentLevel)
	stockGroup.Get("/low", stockHandler.LowStock)

	// Tablero
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/kpis", dashboardHandler.KPIs)
}
