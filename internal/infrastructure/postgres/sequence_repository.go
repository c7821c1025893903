package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-fulfillment/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores por prefijo en sequence_counters.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Debe recibir la tx del insert que consume el número.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa el contador de forma atómica. El upsert toma el lock de la fila, así que
// dos transacciones concurrentes con el mismo prefijo nunca obtienen el mismo valor.
// seed cubre contadores nuevos y libros con IDs previos a la tabla de contadores.
func (r *SequenceRepo) Next(ctx context.Context, prefix string, seed int64) (int64, error) {
	if seed < 1 {
		seed = 1
	}
	query := `
		INSERT INTO sequence_counters (prefix, last_value)
		VALUES ($1, $2)
		ON CONFLICT (prefix)
		DO UPDATE SET last_value = GREATEST(sequence_counters.last_value + 1, EXCLUDED.last_value)
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, prefix, seed).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", prefix, err)
	}
	return n, nil
}
