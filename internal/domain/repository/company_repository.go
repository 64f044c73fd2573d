package repository

import (
	"context"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
)

// ClientConfigRepository define el puerto de persistencia de la configuración del negocio.
type ClientConfigRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ClientConfig, error)
	Upsert(ctx context.Context, cfg *entity.ClientConfig) error
}
