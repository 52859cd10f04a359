package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/purchase"
	"github.com/jhoicas/almacen-api/internal/application/request"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/application/stockin"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC      *usecase.ItemUseCase
	SupplierUC  *usecase.SupplierUseCase
	LedgerUC    *usecase.LedgerUseCase
	Mutations   *stock.MutationService
	Adjustments *stock.AdjustmentUseCase
	RequestUC   *request.UseCase
	PurchaseUC  *purchase.UseCase
	StockInUC   *stockin.UseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Las operaciones que mueven existencias
// (aprobar, recibir, ajustar) exigen rol admin o almacenista; consultar y
// solicitar está abierto a cualquier usuario autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	staff := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Usuarios (administración, solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	users.Get("/", authHandler.ListUsers)
	users.Put("/:id", authHandler.UpdateUser)

	// Items (catálogo)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", staff, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/below-reorder-level", itemHandler.ListBelowReorderLevel)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", staff, itemHandler.Update)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", staff, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Stock: movimientos manuales, ajustes y ledger
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Mutations, deps.Adjustments, deps.LedgerUC)
	stockGroup.Post("/movements", staff, stockHandler.RegisterMovement)
	stockGroup.Post("/adjustments", staff, stockHandler.CreateAdjustment)
	stockGroup.Get("/adjustments", stockHandler.ListAdjustments)
	stockGroup.Get("/ledger/entries/:id", stockHandler.GetLedgerEntry)
	stockGroup.Get("/ledger/:id", stockHandler.ListLedger)
	stockGroup.Get("/ledger/:id/reconcile", stockHandler.Reconcile)

	// Solicitudes de artículos
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Post("/:id/approve", staff, requestHandler.Approve)
	requests.Post("/:id/reject", staff, requestHandler.Reject)
	requests.Post("/:id/return", requestHandler.Return)

	// Órdenes de compra
	orders := protected.Group("/purchase-orders")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	orders.Post("/", staff, purchaseHandler.Create)
	orders.Get("/", purchaseHandler.List)
	orders.Get("/:id", purchaseHandler.GetByID)
	orders.Post("/:id/receive", staff, purchaseHandler.Receive)
	orders.Post("/:id/cancel", staff, purchaseHandler.Cancel)

	// Actas de entrada
	stockIn := protected.Group("/stock-in")
	stockInHandler := NewStockInHandler(deps.StockInUC)
	stockIn.Post("/", staff, stockInHandler.Create)
	stockIn.Get("/", stockInHandler.List)
	stockIn.Get("/:id", stockInHandler.GetByID)
	stockIn.Post("/:id/lines", staff, stockInHandler.AddLines)
	stockIn.Post("/:id/cancel", staff, stockInHandler.Cancel)
}
