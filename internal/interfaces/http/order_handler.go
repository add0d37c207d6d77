package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bazar-api/internal/application/dto"
	"github.com/jhoicas/bazar-api/internal/application/orders"
)

// OrderHandler maneja los pedidos del usuario autenticado.
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func viewer(c *fiber.Ctx) orders.Viewer {
	return orders.Viewer{UserID: GetUserID(c), Role: GetRole(c)}
}

// Create godoc
// @Summary      Crear pedido (descuenta stock)
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Líneas del pedido"
// @Success      201   {object}  dto.OrderEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pedidos [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OrderEnvelope{Success: true, Data: *out})
}

// List godoc
// @Summary      Mis pedidos
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/pedidos [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.OrderListResponse{Success: true, Data: out})
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderEnvelope
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badID(c)
	}
	out, err := h.uc.Get(c.UserContext(), int64(id), viewer(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.OrderEnvelope{Success: true, Data: *out})
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         pedidos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id}/comprobante [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badID(c)
	}
	pdf, order, err := h.uc.Receipt(c.UserContext(), int64(id), viewer(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="pedido-%d.pdf"`, order.ID))
	return c.Send(pdf)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido (admin)
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "pendiente | pagado | enviado | cancelado"
// @Success      200   {object}  dto.OrderEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id}/estado [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badID(c)
	}
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), int64(id), in.Estado)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.OrderEnvelope{Success: true, Data: *out})
}
