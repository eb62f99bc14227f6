package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeRanking(t *testing.T) {
	// The ordinal order is the widening order.
	ordered := []Type{Undetermined, Bit, TinyInt, SmallInt, Int, BigInt, Time, Date, DateTime, Decimal, Float, VarChar, Text}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1], ordered[i])
	}
}

func TestTypeFamily(t *testing.T) {
	assert.Equal(t, FamilyInteger, BigInt.Family())
	assert.Equal(t, FamilyDateTime, Time.Family())
	assert.Equal(t, FamilyCharacter, Text.Family())
	assert.Equal(t, FamilyNone, Undetermined.Family())

	assert.True(t, Decimal.Numeric())
	assert.True(t, Bit.Numeric())
	assert.False(t, DateTime.Numeric())
	assert.False(t, VarChar.Numeric())
}

func TestColumnSpec(t *testing.T) {
	assert.Equal(t, "varchar(20)", Column{Type: VarChar, Size: 20}.Spec())
	assert.Equal(t, "decimal(18,6)", Column{Type: Decimal, Precision: 18, Scale: 6}.Spec())
	assert.Equal(t, "bigint", Column{Type: BigInt}.Spec())
}

func TestBatchHelpers(t *testing.T) {
	b := Batch{
		Columns: []string{"id", "name"},
		Rows: [][]any{
			{1, "alpha"},
			{2, "beta"},
			{3},
		},
	}

	assert.Equal(t, 1, b.ColumnIndex("name"))
	assert.Equal(t, -1, b.ColumnIndex("missing"))
	// Short rows yield nil for trailing columns.
	assert.Equal(t, []any{"alpha", "beta", nil}, b.ColumnValues("name"))
	assert.Equal(t, []any{nil, nil, nil}, b.ColumnValues("missing"))
}

func TestTableSchemaHelpers(t *testing.T) {
	s := TableSchema{Name: "sales", Columns: []Column{
		{Name: "region", Type: VarChar, PrimaryKey: true},
		{Name: "id", Type: Int, PrimaryKey: true},
		{Name: "amount", Type: Decimal},
	}}

	col, ok := s.Column("amount")
	assert.True(t, ok)
	assert.Equal(t, Decimal, col.Type)
	_, ok = s.Column("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"region", "id"}, s.PrimaryKey())
}

func TestTransportErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &TransportError{Op: "load", Table: "sales", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "sales")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&TableNotFoundError{Table: "sales"}))
	assert.False(t, IsNotFound(errors.New("other")))
}
