// Package memory implementa repository.ConditionalStore en memoria.
// Se usa en desarrollo local (STORE_DRIVER=memory) y en los tests de casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

var _ repository.ConditionalStore = (*Store)(nil)

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]map[string]any)}
}

func (s *Store) GetDocument(_ context.Context, collection, id string) (*repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.collections[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &repository.Document{ID: id, Fields: cloneFields(fields)}, nil
}

func (s *Store) CreateDocument(_ context.Context, collection, id string, fields map[string]any) (*repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]map[string]any)
		s.collections[collection] = col
	}
	if _, exists := col[id]; exists {
		return nil, domain.ErrDuplicate
	}
	col[id] = cloneFields(fields)
	return &repository.Document{ID: id, Fields: cloneFields(fields)}, nil
}

func (s *Store) UpdateDocument(_ context.Context, collection, id string, fields map[string]any) (*repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.collections[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	merge(current, fields)
	return &repository.Document{ID: id, Fields: cloneFields(current)}, nil
}

// UpdateDocumentIf compara y escribe bajo el mismo lock, por lo que es atómico.
func (s *Store) UpdateDocumentIf(_ context.Context, collection, id string, expect, fields map[string]any) (*repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.collections[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !repository.ExpectationHolds(current, expect) {
		return nil, domain.ErrConflict
	}
	merge(current, fields)
	return &repository.Document{ID: id, Fields: cloneFields(current)}, nil
}

func (s *Store) DeleteDocument(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collections[collection]
	if _, ok := col[id]; !ok {
		return domain.ErrNotFound
	}
	delete(col, id)
	return nil
}

// ListDocuments devuelve los documentos que cumplen la query, ordenados por id.
func (s *Store) ListDocuments(_ context.Context, collection string, query repository.Query) ([]*repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col := s.collections[collection]
	list := make([]*repository.Document, 0, len(col))
	for id, fields := range col {
		if !query.Match(fields) {
			continue
		}
		list = append(list, &repository.Document{ID: id, Fields: cloneFields(fields)})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func merge(dst, src map[string]any) {
	for k, v := range cloneFields(src) {
		dst[k] = v
	}
}

// cloneFields copia el mapa y las listas para que el llamador no pueda mutar el estado interno.
func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch list := v.(type) {
		case []string:
			out[k] = append([]string(nil), list...)
		case []any:
			out[k] = append([]any(nil), list...)
		default:
			out[k] = v
		}
	}
	return out
}
