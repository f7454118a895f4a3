package redisdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

var _ repository.ConditionalStore = (*DocumentStore)(nil)

// maxWatchRetries reintentos de UpdateDocument cuando otra escritura invalida el WATCH.
const maxWatchRetries = 3

// DocumentStore adaptador de repository.DocumentStore sobre Redis.
type DocumentStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewDocumentStore construye el adaptador. prefix separa espacios de claves (ej. "cep").
func NewDocumentStore(rdb redis.UniversalClient, prefix string) *DocumentStore {
	return &DocumentStore{rdb: rdb, prefix: prefix}
}

func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (*repository.Document, error) {
	raw, err := s.rdb.Get(ctx, s.docKey(collection, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("get document", err)
	}
	return decode(id, raw)
}

func (s *DocumentStore) CreateDocument(ctx context.Context, collection, id string, fields map[string]any) (*repository.Document, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("serializar campos: %w", err)
	}
	var created *redis.BoolCmd
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		created = p.SetNX(ctx, s.docKey(collection, id), raw, 0)
		p.SAdd(ctx, s.indexKey(collection), id)
		return nil
	})
	if err != nil {
		return nil, wrapErr("create document", err)
	}
	if !created.Val() {
		return nil, domain.ErrDuplicate
	}
	return decode(id, raw)
}

func (s *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) (*repository.Document, error) {
	var (
		doc *repository.Document
		err error
	)
	for i := 0; i < maxWatchRetries; i++ {
		doc, err = s.watchedMerge(ctx, collection, id, nil, fields)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("update document: %w", domain.ErrConflict)
	}
	return doc, err
}

// UpdateDocumentIf compara dentro de WATCH/MULTI; si otra escritura toca la clave
// entre la lectura y el EXEC, Redis aborta y se reporta conflicto.
func (s *DocumentStore) UpdateDocumentIf(ctx context.Context, collection, id string, expect, fields map[string]any) (*repository.Document, error) {
	doc, err := s.watchedMerge(ctx, collection, id, expect, fields)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, domain.ErrConflict
	}
	return doc, err
}

func (s *DocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	var deleted *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		deleted = p.Del(ctx, s.docKey(collection, id))
		p.SRem(ctx, s.indexKey(collection), id)
		return nil
	})
	if err != nil {
		return wrapErr("delete document", err)
	}
	if deleted.Val() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDocuments lee el índice de la colección y filtra en el cliente; Redis no tiene
// consultas sobre el contenido del JSON.
func (s *DocumentStore) ListDocuments(ctx context.Context, collection string, q repository.Query) ([]*repository.Document, error) {
	ids, err := s.rdb.SMembers(ctx, s.indexKey(collection)).Result()
	if err != nil {
		return nil, wrapErr("list ids", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(collection, id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, wrapErr("list documents", err)
	}
	var list []*repository.Document
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // id huérfano en el índice
		}
		doc, err := decode(ids[i], []byte(str))
		if err != nil {
			return nil, err
		}
		if q.Match(doc.Fields) {
			list = append(list, doc)
		}
	}
	return list, nil
}

func (s *DocumentStore) watchedMerge(ctx context.Context, collection, id string, expect, fields map[string]any) (*repository.Document, error) {
	key := s.docKey(collection, id)
	var result *repository.Document
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrNotFound
			}
			return err
		}
		current, err := decode(id, raw)
		if err != nil {
			return err
		}
		if expect != nil && !repository.ExpectationHolds(current.Fields, expect) {
			return domain.ErrConflict
		}
		for k, v := range fields {
			current.Fields[k] = v
		}
		merged, err := json.Marshal(current.Fields)
		if err != nil {
			return fmt.Errorf("serializar campos: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, merged, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result, err = decode(id, merged)
		return err
	}, key)
	if err != nil {
		return nil, wrapErr("update document", err)
	}
	return result, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *DocumentStore) docKey(collection, id string) string {
	return fmt.Sprintf("%s:doc:%s:%s", s.prefix, collection, id)
}

func (s *DocumentStore) indexKey(collection string) string {
	return fmt.Sprintf("%s:ids:%s", s.prefix, collection)
}

func decode(id string, raw []byte) (*repository.Document, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: documento %s: %v", domain.ErrCorruptRecord, id, err)
	}
	return &repository.Document{ID: id, Fields: fields}, nil
}

// wrapErr deja pasar los errores de dominio y redis.TxFailedErr (los clasifica el llamador);
// cualquier otro fallo del cliente es de red.
func wrapErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrCorruptRecord),
		errors.Is(err, redis.TxFailedErr):
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
