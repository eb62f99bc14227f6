// Package infer derives the minimal lossless column type for a batch of
// heterogeneous textual or scalar values.
//
// Candidates are evaluated in ascending rank order as a declarative table
// of (type, feasibility predicate) pairs; the first candidate every
// non-null value converts to losslessly wins. Columns containing only
// nulls come back as core.Undetermined and must be resolved by the caller
// before they can be materialized.
package infer

import (
	"github.com/leapstack-labs/framesync/pkg/core"
)

// Options bound the sized candidate types.
type Options struct {
	// DecimalPrecision and DecimalScale form the exact-decimal digit
	// budget: total digits and fractional digits.
	DecimalPrecision int
	DecimalScale     int
	// MaxVarCharLength is the longest bounded-text column; anything
	// longer becomes unbounded text.
	MaxVarCharLength int
}

// DefaultOptions returns the standard candidate bounds.
func DefaultOptions() Options {
	return Options{
		DecimalPrecision: 18,
		DecimalScale:     6,
		MaxVarCharLength: 4000,
	}
}

// candidate is one entry of the ranked feasibility table.
type candidate struct {
	typ core.Type
	// value reports whether a single non-null value converts losslessly.
	value func(v any, opts Options) bool
	// column applies batch-wide rules once every value has passed;
	// nil means no extra rule.
	column func(p *profile, opts Options) bool
}

// candidates is evaluated in rank order; see candidates.go for the
// predicates. The first fully feasible entry is the inferred type.
var candidates = []candidate{
	{typ: core.Bit, value: bitValue, column: bitColumn},
	{typ: core.TinyInt, value: tinyIntValue},
	{typ: core.SmallInt, value: smallIntValue},
	{typ: core.Int, value: intValue},
	{typ: core.BigInt, value: bigIntValue},
	{typ: core.Time, value: timeValue},
	{typ: core.Date, value: dateValue},
	{typ: core.DateTime, value: dateTimeValue},
	{typ: core.Decimal, value: decimalValue},
	{typ: core.Float, value: floatValue},
}

// profile accumulates batch-wide facts the column rules need.
type profile struct {
	nonNull    int
	trueSeen   bool
	nativeBool bool // every value is a Go bool
	maxLen     int  // longest string form, in runes
}

// Column infers the minimal column definition for one column's values.
// Nil values and blank strings count as nulls.
func Column(name string, values []any, opts Options) core.Column {
	col := core.Column{Name: name}

	p := &profile{nativeBool: true}
	nonNull := make([]any, 0, len(values))
	for _, v := range values {
		if isNull(v) {
			continue
		}
		nonNull = append(nonNull, v)
		p.nonNull++
		if b, ok := v.(bool); ok {
			p.trueSeen = p.trueSeen || b
		} else {
			p.nativeBool = false
			if truthyBit(v) {
				p.trueSeen = true
			}
		}
		if n := displayLen(v); n > p.maxLen {
			p.maxLen = n
		}
	}

	col.NotNull = p.nonNull == len(values) && len(values) > 0

	if p.nonNull == 0 {
		col.Type = core.Undetermined
		col.NotNull = false
		return col
	}

	for _, c := range candidates {
		feasible := true
		for _, v := range nonNull {
			if !c.value(v, opts) {
				feasible = false
				break
			}
		}
		if feasible && c.column != nil {
			feasible = c.column(p, opts)
		}
		if feasible {
			col.Type = c.typ
			if c.typ == core.Decimal {
				col.Precision = opts.DecimalPrecision
				col.Scale = opts.DecimalScale
			}
			return col
		}
	}

	// No typed candidate is feasible: bounded text sized to the longest
	// observed value, unbounded past the threshold.
	if p.maxLen > opts.MaxVarCharLength {
		col.Type = core.Text
	} else {
		col.Type = core.VarChar
		col.Size = p.maxLen
	}
	return col
}

// Schema infers the required schema for a whole batch, column by column.
func Schema(table string, batch core.Batch, opts Options) core.TableSchema {
	schema := core.TableSchema{Name: table}
	for _, name := range batch.Columns {
		schema.Columns = append(schema.Columns, Column(name, batch.ColumnValues(name), opts))
	}
	return schema
}

// isNull reports whether a batch value counts as null: nil, or a string
// that is empty after trimming.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return trimmed(s) == ""
	}
	return false
}
