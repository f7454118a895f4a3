package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

var _ repository.ConditionalStore = (*DocumentStore)(nil)

// DocumentStore adaptador de repository.DocumentStore sobre una base Mongo.
type DocumentStore struct {
	db *mongo.Database
}

// NewDocumentStore construye el adaptador.
func NewDocumentStore(db *mongo.Database) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (*repository.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("get document", err)
	}
	return toDocument(raw), nil
}

func (s *DocumentStore) CreateDocument(ctx context.Context, collection, id string, fields map[string]any) (*repository.Document, error) {
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, wrapErr("create document", err)
	}
	return toDocument(doc), nil
}

func (s *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) (*repository.Document, error) {
	return s.findOneAndSet(ctx, collection, bson.D{{Key: "_id", Value: id}}, fields)
}

// UpdateDocumentIf incluye los valores esperados en el filtro del FindOneAndUpdate,
// por lo que la comparación y la escritura son atómicas en el servidor.
func (s *DocumentStore) UpdateDocumentIf(ctx context.Context, collection, id string, expect, fields map[string]any) (*repository.Document, error) {
	filter := bson.D{{Key: "_id", Value: id}}
	keys := make([]string, 0, len(expect))
	for k := range expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		filter = append(filter, bson.E{Key: k, Value: expect[k]})
	}
	doc, err := s.findOneAndSet(ctx, collection, filter, fields)
	if !errors.Is(err, domain.ErrNotFound) {
		return doc, err
	}
	if _, getErr := s.GetDocument(ctx, collection, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrConflict
}

func (s *DocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapErr("delete document", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) ListDocuments(ctx context.Context, collection string, q repository.Query) ([]*repository.Document, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	cur, err := s.db.Collection(collection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, wrapErr("list documents", err)
	}
	defer cur.Close(ctx)
	var list []*repository.Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		list = append(list, toDocument(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, wrapErr("list documents", err)
	}
	return list, nil
}

func (s *DocumentStore) findOneAndSet(ctx context.Context, collection string, filter bson.D, fields map[string]any) (*repository.Document, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var raw bson.M
	err := s.db.Collection(collection).
		FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).
		Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("update document", err)
	}
	return toDocument(raw), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// buildFilter traduce la query a un filtro $and; con dos condiciones sobre el mismo
// campo (rango de fechas) un documento plano repetiría la clave.
func buildFilter(q repository.Query) (bson.D, error) {
	if len(q.Conditions) == 0 {
		return bson.D{}, nil
	}
	clauses := make(bson.A, 0, len(q.Conditions))
	for _, c := range q.Conditions {
		var op string
		switch c.Op {
		case repository.OpEq:
			op = "$eq"
		case repository.OpGte:
			op = "$gte"
		case repository.OpLt:
			op = "$lt"
		default:
			return nil, fmt.Errorf("%w: operador %q", domain.ErrInvalidInput, c.Op)
		}
		clauses = append(clauses, bson.D{{Key: c.Field, Value: bson.D{{Key: op, Value: c.Value}}}})
	}
	return bson.D{{Key: "$and", Value: clauses}}, nil
}

// toDocument separa _id y normaliza los tipos bson a los del puerto.
func toDocument(raw bson.M) *repository.Document {
	doc := &repository.Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			doc.ID = fmt.Sprint(v)
			continue
		}
		doc.Fields[k] = normalize(v)
	}
	return doc
}

func normalize(v any) any {
	switch n := v.(type) {
	case bson.A:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = item
		}
		return out
	case int32:
		return int64(n)
	}
	return v
}

// wrapErr los errores de servidor (mongo.ServerError) se propagan tal cual;
// el resto (red, selección de servidor, timeouts) es indisponibilidad.
func wrapErr(op string, err error) error {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
