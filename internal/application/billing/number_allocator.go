package billing

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/metrics"
)

// Niveles de asignación, en orden de preferencia.
const (
	TierRemote = "remote"
	TierLocal  = "local"
	TierRandom = "random"

	// TierProvided el llamador ya traía el número.
	TierProvided = "provided"
)

const randomSequenceMax = 999

// Allocation resultado de una asignación.
type Allocation struct {
	Number entity.InvoiceNumber
	Tier   string
}

// NumberAllocator asigna números de factura con tres niveles:
// servicio remoto → contador local → aleatorio en [1,999].
// Nunca falla; el nivel aleatorio no garantiza unicidad.
type NumberAllocator struct {
	remote SequenceAllocator
	local  CounterStore
	random func() int
}

// NewNumberAllocator construye el asignador. remote o local pueden ser nil
// (el nivel correspondiente se salta).
func NewNumberAllocator(remote SequenceAllocator, local CounterStore) *NumberAllocator {
	return &NumberAllocator{
		remote: remote,
		local:  local,
		random: func() int { return rand.IntN(randomSequenceMax) + 1 },
	}
}

// WithRandomSource reemplaza el generador del último nivel (tests).
func (a *NumberAllocator) WithRandomSource(fn func() int) *NumberAllocator {
	a.random = fn
	return a
}

// CounterKey clave del contador local para (prefijo, fecha).
func CounterKey(prefix, date string) string {
	return fmt.Sprintf("invoice_counter_%s_%s", prefix, date)
}

// Allocate devuelve el número formateado, p. ej. "INV-D-2025-01-05-007".
func (a *NumberAllocator) Allocate(ctx context.Context, prefix, date string) string {
	return a.AllocateDetailed(ctx, prefix, date).Number.String()
}

// AllocateDetailed igual que Allocate pero indica qué nivel resolvió.
func (a *NumberAllocator) AllocateDetailed(ctx context.Context, prefix, date string) Allocation {
	logger := log.With().Str("prefix", prefix).Str("date", date).Logger()

	// ── 1. Servicio remoto ────────────────────────────────────────────────────
	if a.remote != nil {
		seq, err := a.remote.NextNumber(ctx, prefix, date)
		if err == nil && seq >= 1 {
			return a.done(prefix, date, seq, TierRemote)
		}
		if err == nil {
			err = fmt.Errorf("consecutivo inválido: %d", seq)
		}
		logger.Warn().Err(err).Msg("consecutivo remoto no disponible, usando contador local")
	}

	// ── 2. Contador local del dispositivo ─────────────────────────────────────
	if a.local != nil {
		seq, err := a.local.Increment(ctx, CounterKey(prefix, date))
		if err == nil && seq >= 1 {
			return a.done(prefix, date, seq, TierLocal)
		}
		if err == nil {
			err = fmt.Errorf("contador local inválido: %d", seq)
		}
		logger.Warn().Err(err).Msg("contador local falló, usando consecutivo aleatorio")
	}

	// ── 3. Aleatorio (degradado, puede repetirse) ─────────────────────────────
	seq := a.random()
	if seq < 1 || seq > randomSequenceMax {
		seq = rand.IntN(randomSequenceMax) + 1
	}
	logger.Warn().Int("sequence", seq).Msg("número de factura asignado aleatoriamente")
	return a.done(prefix, date, seq, TierRandom)
}

func (a *NumberAllocator) done(prefix, date string, seq int, tier string) Allocation {
	metrics.InvoiceNumbersAllocated.WithLabelValues(tier).Inc()
	return Allocation{
		Number: entity.InvoiceNumber{Prefix: prefix, Date: date, Sequence: seq},
		Tier:   tier,
	}
}
