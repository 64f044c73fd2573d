package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/repository"
)

// Asegura que ClientConfigRepo implementa repository.ClientConfigRepository.
var _ repository.ClientConfigRepository = (*ClientConfigRepo)(nil)

// ClientConfigRepo configuración del negocio emisor sobre PostgreSQL.
type ClientConfigRepo struct {
	q Querier
}

// NewClientConfigRepository construye el adaptador.
func NewClientConfigRepository(q Querier) *ClientConfigRepo {
	return &ClientConfigRepo{q: q}
}

// GetByID devuelve nil, nil si no existe.
func (r *ClientConfigRepo) GetByID(ctx context.Context, id string) (*entity.ClientConfig, error) {
	query := `
		SELECT id, inv_prefix, gst_method, client_name, client_address, gst_no, phone, email, updated_at
		FROM client_configs WHERE id = $1`
	var (
		c      entity.ClientConfig
		method string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.InvPrefix, &method, &c.ClientName, &c.ClientAddress,
		&c.GSTNo, &c.Phone, &c.Email, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client config: %w", err)
	}
	c.GSTMethod = entity.ParseGSTMethod(method)
	return &c, nil
}

// Upsert crea o reemplaza la configuración.
func (r *ClientConfigRepo) Upsert(ctx context.Context, c *entity.ClientConfig) error {
	query := `
		INSERT INTO client_configs (id, inv_prefix, gst_method, client_name, client_address, gst_no, phone, email, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE SET
			inv_prefix     = EXCLUDED.inv_prefix,
			gst_method     = EXCLUDED.gst_method,
			client_name    = EXCLUDED.client_name,
			client_address = EXCLUDED.client_address,
			gst_no         = EXCLUDED.gst_no,
			phone          = EXCLUDED.phone,
			email          = EXCLUDED.email,
			updated_at     = now()
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query,
		c.ID, c.InvPrefix, c.GSTMethod.String(), c.ClientName, c.ClientAddress,
		c.GSTNo, c.Phone, c.Email,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert client config: %w", err)
	}
	return nil
}
