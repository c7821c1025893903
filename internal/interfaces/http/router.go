package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/erp-fulfillment/internal/application/auth"
	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderStatus    StatusChanger
	OrderQuery     OrderReader
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
	MetricsHandler http.Handler // nil = sin /metrics
	MetricsPath    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.MetricsHandler != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Auth (público)
	if deps.AuthUC != nil {
		authHandler := NewAuthHandler(deps.AuthUC)
		api.Post("/auth/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	orders := api.Group("/orders", AuthMiddleware(deps.JWTSecret))
	orderHandler := NewOrderHandler(deps.OrderStatus, deps.OrderQuery)

	orders.Get("/statuses/:status/next", orderHandler.NextStatuses)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/movements", orderHandler.Movements)
	orders.Get("/:id/transactions", orderHandler.Transactions)
	orders.Get("/:id/packing-slip", orderHandler.PackingSlip)
	orders.Patch("/:id/status",
		RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor),
		orderHandler.ChangeStatus,
	)
}
