package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invoice-gst-engine/internal/application/dto"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/repository"
)

// SequenceHandler expone el servicio de consecutivos con su contrato propio
// {prefix,date} → {success,next_number}, el que consume el nivel remoto del asignador.
type SequenceHandler struct {
	repo repository.SequenceRepository
}

// NewSequenceHandler construye el handler.
func NewSequenceHandler(repo repository.SequenceRepository) *SequenceHandler {
	return &SequenceHandler{repo: repo}
}

// Next godoc
// @Summary      Siguiente consecutivo para (prefijo, fecha)
// @Tags         sequences
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SequenceNextRequest  true  "Prefijo y fecha"
// @Success      200   {object}  dto.SequenceNextResponse
// @Router       /api/invoice-sequences/next [post]
func (h *SequenceHandler) Next(c *fiber.Ctx) error {
	var in dto.SequenceNextRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SequenceNextResponse{Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Prefix) == "" || strings.TrimSpace(in.Date) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SequenceNextResponse{Message: "prefix y date son requeridos"})
	}
	n, err := h.repo.Next(c.UserContext(), in.Prefix, in.Date)
	if err != nil {
		log.Error().Err(err).Str("prefix", in.Prefix).Str("date", in.Date).Msg("consecutivo no asignado")
		return c.JSON(dto.SequenceNextResponse{Message: "no fue posible asignar el consecutivo"})
	}
	return c.JSON(dto.SequenceNextResponse{Success: true, NextNumber: n})
}
