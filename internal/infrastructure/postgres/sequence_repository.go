package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos por (prefijo, fecha) en la tabla invoice_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo en una sola sentencia; el bloqueo de
// fila de ON CONFLICT serializa llamadas concurrentes.
func (r *SequenceRepo) Next(ctx context.Context, prefix, date string) (int, error) {
	const q = `
		INSERT INTO invoice_sequences (prefix, seq_date, last_value, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (prefix, seq_date) DO UPDATE
		SET last_value = invoice_sequences.last_value + 1, updated_at = now()
		RETURNING last_value`
	var next int
	if err := r.q.QueryRow(ctx, q, prefix, date).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence %s/%s: %w", prefix, date, err)
	}
	return next, nil
}

// NextNumber alias de Next para usarlo como nivel remoto del asignador.
func (r *SequenceRepo) NextNumber(ctx context.Context, prefix, date string) (int, error) {
	return r.Next(ctx, prefix, date)
}

// Bump sube last_value hasta seq si está por debajo. Se usa al registrar
// números asignados fuera de línea para que el servidor no los repita.
func (r *SequenceRepo) Bump(ctx context.Context, prefix, date string, seq int) error {
	const q = `
		INSERT INTO invoice_sequences (prefix, seq_date, last_value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (prefix, seq_date) DO UPDATE
		SET last_value = GREATEST(invoice_sequences.last_value, EXCLUDED.last_value), updated_at = now()`
	if _, err := r.q.Exec(ctx, q, prefix, date, seq); err != nil {
		return fmt.Errorf("bump sequence %s/%s: %w", prefix, date, err)
	}
	return nil
}
