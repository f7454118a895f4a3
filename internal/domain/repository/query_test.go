package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

func TestQuery_Match(t *testing.T) {
	fields := map[string]any{
		"name":      "Silla",
		"createdAt": "2026-10-15T05:00:00.000000000Z",
		"revision":  int64(3),
	}

	tests := []struct {
		name  string
		query repository.Query
		want  bool
	}{
		{"sin condiciones", repository.Query{}, true},
		{"eq string", repository.Query{}.Where("name", repository.OpEq, "Silla"), true},
		{"eq distinto", repository.Query{}.Where("name", repository.OpEq, "Mesa"), false},
		{"eq número entre tipos", repository.Query{}.Where("revision", repository.OpEq, 3.0), true},
		{"rango del día", repository.Query{}.
			Where("createdAt", repository.OpGte, "2026-10-15T05:00:00.000000000Z").
			Where("createdAt", repository.OpLt, "2026-10-16T05:00:00.000000000Z"), true},
		{"lt excluye el borde", repository.Query{}.Where("createdAt", repository.OpLt, "2026-10-15T05:00:00.000000000Z"), false},
		{"campo ausente", repository.Query{}.Where("sign", repository.OpEq, "x"), false},
		{"operador desconocido", repository.Query{Conditions: []repository.Condition{{Field: "name", Op: "like", Value: "S"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Match(fields))
		})
	}
}

func TestQuery_WhereDoesNotAlias(t *testing.T) {
	base := repository.Query{}.Where("a", repository.OpEq, 1)
	q1 := base.Where("b", repository.OpEq, 2)
	q2 := base.Where("c", repository.OpEq, 3)

	require.Len(t, q1.Conditions, 2)
	require.Len(t, q2.Conditions, 2)
	assert.Equal(t, "b", q1.Conditions[1].Field)
	assert.Equal(t, "c", q2.Conditions[1].Field)
	assert.Len(t, base.Conditions, 1)
}

func TestExpectationHolds(t *testing.T) {
	fields := map[string]any{"currentId": "1004", "revision": float64(7)}

	assert.True(t, repository.ExpectationHolds(fields, map[string]any{"currentId": "1004"}))
	assert.True(t, repository.ExpectationHolds(fields, map[string]any{"revision": int64(7)}))
	assert.False(t, repository.ExpectationHolds(fields, map[string]any{"currentId": "1005"}))
	assert.False(t, repository.ExpectationHolds(fields, map[string]any{"lastUpdated": "x"}))
}

func TestDocument_FieldAccessors(t *testing.T) {
	doc := &repository.Document{ID: "p1", Fields: map[string]any{
		"currentId": "1000",
		"revision":  float64(2),
		"movements": []any{"{}", "{}"},
		"broken":    []any{"{}", 3},
		"flag":      true,
	}}

	n, err := doc.FieldInt("currentId")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), n)

	n, err = doc.FieldInt("revision")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = doc.FieldInt("missing")
	assert.Error(t, err)
	_, err = doc.FieldInt("flag")
	assert.Error(t, err)

	list, err := doc.FieldStrings("movements")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = doc.FieldStrings("broken")
	assert.Error(t, err)

	list, err = doc.FieldStrings("missing")
	require.NoError(t, err)
	assert.Nil(t, list)

	assert.Equal(t, "true", doc.FieldString("flag"))
	assert.Equal(t, "", doc.FieldString("missing"))
}
