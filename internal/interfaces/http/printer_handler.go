package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-gst-engine/internal/application/dto"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/printer"
)

// PrinterRegistry conexiones con impresoras (printer.Registry).
type PrinterRegistry interface {
	Connect(ctx context.Context, id, kind, address string) (*printer.Device, error)
	Disconnect(id string) error
	Devices() []printer.Device
}

// PrinterHandler conecta, lista y desconecta impresoras térmicas.
type PrinterHandler struct {
	registry PrinterRegistry
}

// NewPrinterHandler construye el handler.
func NewPrinterHandler(registry PrinterRegistry) *PrinterHandler {
	return &PrinterHandler{registry: registry}
}

// Connect godoc
// @Summary      Conectar impresora
// @Tags         printers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConnectPrinterRequest  true  "Impresora"
// @Success      201   {object}  dto.Result
// @Router       /api/printers/connect [post]
func (h *PrinterHandler) Connect(c *fiber.Ctx) error {
	var in dto.ConnectPrinterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	dev, err := h.registry.Connect(c.UserContext(), in.ID, in.Kind, in.Address)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(dev))
}

// List godoc
// @Summary      Impresoras conectadas
// @Tags         printers
// @Produce      json
// @Success      200  {object}  dto.Result
// @Router       /api/printers [get]
func (h *PrinterHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.OK(h.registry.Devices()))
}

// Disconnect godoc
// @Summary      Desconectar impresora
// @Tags         printers
// @Param        id   path  string  true  "ID de la impresora"
// @Success      204
// @Failure      404  {object}  dto.Result
// @Router       /api/printers/{id} [delete]
func (h *PrinterHandler) Disconnect(c *fiber.Ctx) error {
	if err := h.registry.Disconnect(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
