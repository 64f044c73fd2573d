package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-gst-engine/internal/application/dto"
	"github.com/jhoicas/invoice-gst-engine/internal/domain"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/repository"
)

// ClientHandler configuración del negocio emisor.
type ClientHandler struct {
	repo repository.ClientConfigRepository
}

// NewClientHandler construye el handler.
func NewClientHandler(repo repository.ClientConfigRepository) *ClientHandler {
	return &ClientHandler{repo: repo}
}

// GetConfig godoc
// @Summary      Obtener configuración del cliente
// @Tags         clients
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.Result
// @Failure      404  {object}  dto.Result
// @Router       /api/clients/{id}/config [get]
func (h *ClientHandler) GetConfig(c *fiber.Ctx) error {
	id := c.Params("id")
	cfg, err := h.repo.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if cfg == nil {
		return writeError(c, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id))
	}
	return c.JSON(dto.OK(cfg))
}

// PutConfig godoc
// @Summary      Crear o reemplazar configuración del cliente
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del cliente"
// @Param        body  body  entity.ClientConfig  true  "Configuración"
// @Success      200   {object}  dto.Result
// @Router       /api/clients/{id}/config [put]
func (h *ClientHandler) PutConfig(c *fiber.Ctx) error {
	var in entity.ClientConfig
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.ID = c.Params("id")
	if in.ClientName == "" {
		return writeError(c, fmt.Errorf("%w: client_name es requerido", domain.ErrInvalidInput))
	}
	if err := h.repo.Upsert(c.UserContext(), &in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(in))
}
