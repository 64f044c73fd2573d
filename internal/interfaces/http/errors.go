package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invoice-gst-engine/internal/application/dto"
	"github.com/jhoicas/invoice-gst-engine/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: los errores específicos envuelven ErrInvalidInput.
var errorMappings = []errorMapping{
	{domain.ErrNoLineItems, fiber.StatusBadRequest, "NO_LINE_ITEMS"},
	{domain.ErrMissingInvoiceNumber, fiber.StatusBadRequest, "MISSING_INVOICE_NUMBER"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrPrinterNotConnected, fiber.StatusConflict, "PRINTER_NOT_CONNECTED"},
	{domain.ErrPrinterDisconnected, fiber.StatusBadGateway, "PRINTER_DISCONNECTED"},
	{domain.ErrSequenceUnavailable, fiber.StatusServiceUnavailable, "SEQUENCE_UNAVAILABLE"},
	{domain.ErrRenderFailed, fiber.StatusInternalServerError, "RENDER_FAILED"},
}

// writeError traduce un error de dominio al resultado {success:false,error}.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.Fail(m.code, err.Error()))
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("INTERNAL", err.Error()))
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
}
