// Package sequence genera números de referencia legibles con alcance anual:
// <TIPO>-<año>-<contador con ceros a la izquierda>, p. ej. SM-2026-0001.
package sequence

import (
	"fmt"
	"strconv"
	"strings"
)

// Tipos de secuencia.
const (
	KindStockMovement = "SM"
	KindTransaction   = "TXN"
)

// Width ancho mínimo del contador.
const Width = 4

// Prefix arma el prefijo anual, p. ej. Prefix("SM", 2026) = "SM-2026".
func Prefix(kind string, year int) string {
	return fmt.Sprintf("%s-%d", kind, year)
}

// Format devuelve prefix-NNNN. Contadores mayores a 9999 simplemente usan más dígitos.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, Width, n)
}

// ParseSuffix extrae el contador numérico de un ID con el prefijo dado.
func ParseSuffix(prefix, id string) (int64, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextFromLast calcula el siguiente contador a partir del último ID existente del prefijo.
// Sin ID previo (o ilegible) empieza en 1.
func NextFromLast(prefix, lastID string) int64 {
	n, ok := ParseSuffix(prefix, lastID)
	if !ok {
		return 1
	}
	return n + 1
}
