package repository

import "context"

// SequenceRepository asigna consecutivos en el servidor, estrictamente crecientes
// por (prefijo, fecha). Es la contraparte del nivel remoto del asignador.
type SequenceRepository interface {
	Next(ctx context.Context, prefix, date string) (int, error)
}
