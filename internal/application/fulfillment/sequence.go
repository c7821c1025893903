package fulfillment

import (
	"context"

	"github.com/jhoicas/erp-fulfillment/internal/domain/sequence"
)

// allocator entrega consecutivos de un prefijo anual dentro de la transacción en curso.
// La semilla se calcula una vez desde el último ID del libro ("último que coincide con el
// prefijo") y el contador atómico de la BD garantiza unicidad entre transacciones concurrentes.
type allocator struct {
	seq    Stores
	prefix string
	seed   int64
}

func newAllocator(
	ctx context.Context,
	s Stores,
	kind string,
	year int,
	lastID func(ctx context.Context, prefix string) (string, error),
) (*allocator, error) {
	prefix := sequence.Prefix(kind, year)
	last, err := lastID(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return &allocator{seq: s, prefix: prefix, seed: sequence.NextFromLast(prefix, last)}, nil
}

func (a *allocator) next(ctx context.Context) (string, error) {
	n, err := a.seq.Sequences.Next(ctx, a.prefix, a.seed)
	if err != nil {
		return "", err
	}
	return sequence.Format(a.prefix, n), nil
}
