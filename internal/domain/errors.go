package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los adaptadores de persistencia envuelven sus fallos con %w sobre estos valores
// para que los casos de uso y los handlers los clasifiquen con errors.Is.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrStoreUnavailable = errors.New("almacén de documentos no disponible")
	ErrCorruptRecord    = errors.New("registro persistido ilegible")
)
