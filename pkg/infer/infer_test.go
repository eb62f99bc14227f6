package infer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/framesync/pkg/core"
)

func TestColumn(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   core.Column
	}{
		{
			name:   "small integers stay tinyint",
			values: []any{"1", "2", "3"},
			want:   core.Column{Name: "c", Type: core.TinyInt, NotNull: true},
		},
		{
			name:   "one wide value promotes the column to bigint",
			values: []any{"1", "2", "3", "2147483648"},
			want:   core.Column{Name: "c", Type: core.BigInt, NotNull: true},
		},
		{
			name:   "negative values skip the unsigned tinyint range",
			values: []any{"-1", "5"},
			want:   core.Column{Name: "c", Type: core.SmallInt, NotNull: true},
		},
		{
			name:   "a fractional value makes the whole column decimal",
			values: []any{"1.1", "2", "3"},
			want:   core.Column{Name: "c", Type: core.Decimal, Precision: 18, Scale: 6, NotNull: true},
		},
		{
			name:   "fraction beyond the scale budget falls through to float",
			values: []any{"1.1234567"},
			want:   core.Column{Name: "c", Type: core.Float, NotNull: true},
		},
		{
			name:   "native floats are float, not decimal",
			values: []any{1.5, 2.25},
			want:   core.Column{Name: "c", Type: core.Float, NotNull: true},
		},
		{
			name:   "zeros and ones with a true and enough values are bit",
			values: []any{"1", "0", "1"},
			want:   core.Column{Name: "c", Type: core.Bit, NotNull: true},
		},
		{
			name:   "two values are too few to call a column bit",
			values: []any{"1", "0"},
			want:   core.Column{Name: "c", Type: core.TinyInt, NotNull: true},
		},
		{
			name:   "all zeros never become bit",
			values: []any{"0", "0", "0", "0"},
			want:   core.Column{Name: "c", Type: core.TinyInt, NotNull: true},
		},
		{
			name:   "native bools are bit regardless of count",
			values: []any{true, false},
			want:   core.Column{Name: "c", Type: core.Bit, NotNull: true},
		},
		{
			name:   "time of day strings",
			values: []any{"12:00:00", "13:30:15"},
			want:   core.Column{Name: "c", Type: core.Time, NotNull: true},
		},
		{
			name:   "timestamps on the reference date are time of day",
			values: []any{"1900-01-01 12:00:00"},
			want:   core.Column{Name: "c", Type: core.Time, NotNull: true},
		},
		{
			name:   "midnight-only values are dates",
			values: []any{"2021-06-22", "2021-06-23"},
			want:   core.Column{Name: "c", Type: core.Date, NotNull: true},
		},
		{
			name:   "a clock component promotes date to datetime",
			values: []any{"2021-06-22", "2021-06-23 14:30:00"},
			want:   core.Column{Name: "c", Type: core.DateTime, NotNull: true},
		},
		{
			name:   "native times off the reference date are datetime",
			values: []any{time.Date(2021, 6, 22, 14, 30, 0, 0, time.UTC)},
			want:   core.Column{Name: "c", Type: core.DateTime, NotNull: true},
		},
		{
			name:   "free text is varchar sized to the longest value",
			values: []any{"apple", "banana"},
			want:   core.Column{Name: "c", Type: core.VarChar, Size: 6, NotNull: true},
		},
		{
			name:   "a null leaves the column nullable",
			values: []any{"5", nil, ""},
			want:   core.Column{Name: "c", Type: core.TinyInt},
		},
		{
			name:   "all nulls leave the type undetermined",
			values: []any{nil, "", nil},
			want:   core.Column{Name: "c", Type: core.Undetermined},
		},
		{
			name:   "mixed text and numbers are varchar",
			values: []any{"12", "abc"},
			want:   core.Column{Name: "c", Type: core.VarChar, Size: 3, NotNull: true},
		},
		{
			name:   "zero-valued decimal tails keep integers integer",
			values: []any{"2.0", "3.000"},
			want:   core.Column{Name: "c", Type: core.TinyInt, NotNull: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Column("c", tt.values, DefaultOptions())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnTextThreshold(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxVarCharLength = 5

	got := Column("c", []any{"short", "toolong"}, opts)
	assert.Equal(t, core.Text, got.Type)
	assert.Zero(t, got.Size)
}

func TestSchema(t *testing.T) {
	batch := core.Batch{
		Columns: []string{"id", "name", "amount"},
		Rows: [][]any{
			{"1", "alpha", "1.5"},
			{"2", "beta", nil},
		},
	}

	schema := Schema("sales", batch, DefaultOptions())

	assert.Equal(t, "sales", schema.Name)
	assert.Equal(t, []core.Column{
		{Name: "id", Type: core.TinyInt, NotNull: true},
		{Name: "name", Type: core.VarChar, Size: 5, NotNull: true},
		{Name: "amount", Type: core.Decimal, Precision: 18, Scale: 6},
	}, schema.Columns)
}
