package repository

import (
	"fmt"
	"strconv"
)

// Operator operador de comparación soportado por todos los adaptadores.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
)

// Condition predicado simple sobre un campo plano.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Query conjunción de condiciones. Query{} lista toda la colección.
type Query struct {
	Conditions []Condition
}

// Where agrega una condición y devuelve la query resultante.
func (q Query) Where(field string, op Operator, value any) Query {
	conds := make([]Condition, len(q.Conditions), len(q.Conditions)+1)
	copy(conds, q.Conditions)
	q.Conditions = append(conds, Condition{Field: field, Op: op, Value: value})
	return q
}

// Match evalúa la query en memoria. Lo usan los adaptadores sin motor de consultas
// (memoria, Redis). Los strings se comparan lexicográficamente y los números como float64.
func (q Query) Match(fields map[string]any) bool {
	for _, c := range q.Conditions {
		v, ok := fields[c.Field]
		if !ok {
			return false
		}
		cmp, ok := compareValues(v, c.Value)
		if !ok {
			return false
		}
		switch c.Op {
		case OpEq:
			if cmp != 0 {
				return false
			}
		case OpGte:
			if cmp < 0 {
				return false
			}
		case OpLt:
			if cmp >= 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ExpectationHolds indica si fields cumple todos los valores esperados de un CAS.
func ExpectationHolds(fields, expect map[string]any) bool {
	for k, want := range expect {
		got, ok := fields[k]
		if !ok {
			return false
		}
		if cmp, ok := compareValues(got, want); !ok || cmp != 0 {
			return false
		}
	}
	return true
}

func compareValues(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1, true
	case sa > sb:
		return 1, true
	}
	return 0, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// FieldString lee un campo como string ("" si falta).
func (d *Document) FieldString(key string) string {
	v, ok := d.Fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// FieldInt lee un campo numérico o string numérico. Cada backend devuelve tipos
// distintos (int64 en memoria/Mongo, float64 en JSON).
func (d *Document) FieldInt(key string) (int64, error) {
	v, ok := d.Fields[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("campo %q ausente", key)
	}
	switch n := v.(type) {
	case string:
		return strconv.ParseInt(n, 10, 64)
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	}
	return 0, fmt.Errorf("campo %q con tipo %T", key, v)
}

// FieldStrings lee un campo lista de strings ([]string, []any o bson.A).
func (d *Document) FieldStrings(key string) ([]string, error) {
	v, ok := d.Fields[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("campo %q[%d] con tipo %T", key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("campo %q con tipo %T", key, v)
}
