package entity

import (
	"strconv"
	"time"
)

const (
	// ReceiptPrefix prefijo fijo de los números de recibo ("CEP1000").
	ReceiptPrefix = "CEP"
	// ReceiptCounterFloor valor inicial y mínimo permitido del contador.
	ReceiptCounterFloor int64 = 1000
)

// FormatReceiptNumber concatena el prefijo fijo con el id: 1001 -> "CEP1001".
func FormatReceiptNumber(id int64) string {
	return ReceiptPrefix + strconv.FormatInt(id, 10)
}

// FallbackReceiptNumber número derivado del reloj para cuando el almacén no responde.
// No garantiza unicidad; solo es un último recurso.
func FallbackReceiptNumber(now time.Time) string {
	return ReceiptPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}
