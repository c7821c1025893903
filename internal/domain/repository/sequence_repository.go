package repository

import "context"

// SequenceRepository contador atómico por prefijo. Next debe ejecutarse en la misma
// transacción que el insert que consume el número.
type SequenceRepository interface {
	// Next incrementa y devuelve el contador del prefijo. Si el contador no existe
	// (o va por detrás) arranca en seed.
	Next(ctx context.Context, prefix string, seed int64) (int64, error)
}
