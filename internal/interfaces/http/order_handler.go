package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-fulfillment/internal/application/dto"
	"github.com/jhoicas/erp-fulfillment/internal/domain"
	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
)

// StatusChanger lo que el handler usa de fulfillment.OrderStatusUseCase.
type StatusChanger interface {
	RequestStatusChange(ctx context.Context, orderID, newStatus string) dto.StatusChangeResult
	ValidNextStatuses(current string) ([]order.Status, error)
}

// OrderReader lo que el handler usa de fulfillment.OrderQueryUseCase.
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
	ListMovements(ctx context.Context, id string) ([]dto.StockMovementResponse, error)
	ListTransactions(ctx context.Context, id string) ([]dto.TransactionResponse, error)
	PackingSlip(ctx context.Context, id string) ([]byte, string, error)
}

// statusRoles roles autorizados por estado destino: ventas confirma, alista y cancela;
// bodega despacha y entrega. admin puede todo.
var statusRoles = map[order.Status][]string{
	order.StatusConfirmed:  {entity.RoleAdmin, entity.RoleVendedor},
	order.StatusProcessing: {entity.RoleAdmin, entity.RoleVendedor},
	order.StatusCancelled:  {entity.RoleAdmin, entity.RoleVendedor},
	order.StatusShipped:    {entity.RoleAdmin, entity.RoleBodeguero},
	order.StatusDelivered:  {entity.RoleAdmin, entity.RoleBodeguero},
}

// OrderHandler maneja el ciclo de vida de pedidos.
type OrderHandler struct {
	status StatusChanger
	reader OrderReader
}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler(status StatusChanger, reader OrderReader) *OrderHandler {
	return &OrderHandler{status: status, reader: reader}
}

// ChangeStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  Valida la transición y aplica reserva, despacho o registro de ingreso en una sola transacción.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.ChangeStatusRequest  true  "estado destino"
// @Success      200   {object}  dto.StatusChangeResult
// @Failure      400   {object}  dto.StatusChangeResult
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.StatusChangeResult
// @Failure      409   {object}  dto.StatusChangeResult
// @Failure      503   {object}  dto.StatusChangeResult
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.Status = strings.TrimSpace(in.Status)
	// Un estado desconocido no tiene roles: lo rechaza el caso de uso con VALIDATION.
	if target, ok := order.ParseStatus(in.Status); ok {
		if allowed, guarded := statusRoles[target]; guarded && !hasRole(GetRole(c), allowed) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: fmt.Sprintf("su rol no puede pasar pedidos a %s", target),
			})
		}
	}

	res := h.status.RequestStatusChange(c.UserContext(), c.Params("id"), in.Status)
	if res.Success {
		return c.JSON(res)
	}
	return c.Status(statusForResult(res)).JSON(res)
}

// NextStatuses godoc
// @Summary      Estados destino válidos
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  path  string  true  "estado actual"
// @Success      200  {object}  dto.NextStatusesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/statuses/{status}/next [get]
func (h *OrderHandler) NextStatuses(c *fiber.Ctx) error {
	current := c.Params("status")
	next, err := h.status.ValidNextStatuses(current)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.NextStatusesResponse{Status: current, Next: make([]string, 0, len(next))}
	for _, s := range next {
		out.Next = append(out.Next, string(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.reader.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimientos de inventario del pedido
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/movements [get]
func (h *OrderHandler) Movements(c *fiber.Ctx) error {
	out, err := h.reader.ListMovements(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Transacciones financieras del pedido
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/transactions [get]
func (h *OrderHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.reader.ListTransactions(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PackingSlip godoc
// @Summary      Remisión en PDF
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/packing-slip [get]
func (h *OrderHandler) PackingSlip(c *fiber.Ctx) error {
	pdf, orderNumber, err := h.reader.PackingSlip(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="remision-%s.pdf"`, orderNumber))
	return c.Send(pdf)
}

// statusForResult HTTP status según el tipo de fallo.
func statusForResult(res dto.StatusChangeResult) int {
	if res.Error == nil {
		return fiber.StatusInternalServerError
	}
	return statusForKind(domain.ErrorKind(res.Error.Kind), res.Error.Retryable)
}

func statusForKind(kind domain.ErrorKind, retryable bool) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindInvalidTransition, domain.KindInsufficientStock:
		return fiber.StatusConflict
	}
	if retryable {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// writeError traduce errores de dominio a dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	return c.Status(statusForKind(kind, domain.IsRetryable(err))).JSON(dto.ErrorResponse{
		Code:    string(kind),
		Message: domain.UserMessage(err),
	})
}
