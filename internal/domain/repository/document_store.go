package repository

import "context"

// Document documento del almacén remoto: id + campos planos (string/número/lista de strings).
type Document struct {
	ID     string
	Fields map[string]any
}

// DocumentStore puerto hacia el almacén de documentos (Postgres JSONB, Mongo, Redis o memoria).
// Todas las operaciones son viajes de red independientes, sin transacción entre ellas.
type DocumentStore interface {
	// GetDocument devuelve domain.ErrNotFound si el documento no existe.
	GetDocument(ctx context.Context, collection, id string) (*Document, error)
	// CreateDocument devuelve domain.ErrDuplicate si el id ya existe.
	CreateDocument(ctx context.Context, collection, id string, fields map[string]any) (*Document, error)
	// UpdateDocument fusiona los campos dados; domain.ErrNotFound si no existe.
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) (*Document, error)
	// DeleteDocument devuelve domain.ErrNotFound si no existe.
	DeleteDocument(ctx context.Context, collection, id string) error
	ListDocuments(ctx context.Context, collection string, query Query) ([]*Document, error)
}

// ConditionalStore capacidad opcional: escritura condicionada (compare-and-swap).
// UpdateDocumentIf solo aplica fields si cada campo de expect tiene el valor esperado;
// si no, devuelve domain.ErrConflict sin modificar nada.
type ConditionalStore interface {
	DocumentStore
	UpdateDocumentIf(ctx context.Context, collection, id string, expect, fields map[string]any) (*Document, error)
}

// Colecciones lógicas del almacén.
const (
	CollectionCounters      = "counters"
	CollectionStockProducts = "stock_products"
)
