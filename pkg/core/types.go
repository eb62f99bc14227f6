// Package core defines the shared vocabulary of framesync: the ranked
// column type system, column and schema shapes, the tabular batch, and
// the write request/result surface.
package core

import "fmt"

// Type is a store-neutral column type. The ordinal order is the
// inference ranking: a lower-ranked type holds a narrower set of values,
// and a column widens only toward higher ranks.
type Type int

const (
	// Undetermined marks a column whose batch values were all null, so no
	// type could be committed.
	Undetermined Type = iota
	Bit
	TinyInt
	SmallInt
	Int
	BigInt
	Time
	Date
	DateTime
	Decimal
	Float
	VarChar
	Text
)

var typeNames = map[Type]string{
	Undetermined: "undetermined",
	Bit:          "bit",
	TinyInt:      "tinyint",
	SmallInt:     "smallint",
	Int:          "int",
	BigInt:       "bigint",
	Time:         "time",
	Date:         "date",
	DateTime:     "datetime",
	Decimal:      "decimal",
	Float:        "float",
	VarChar:      "varchar",
	Text:         "text",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Family groups types that widen into each other.
type Family int

const (
	FamilyNone Family = iota
	FamilyBoolean
	FamilyInteger
	FamilyDateTime
	FamilyExactDecimal
	FamilyApproximate
	FamilyCharacter
)

// Family returns the widening group a type belongs to.
func (t Type) Family() Family {
	switch t {
	case Bit:
		return FamilyBoolean
	case TinyInt, SmallInt, Int, BigInt:
		return FamilyInteger
	case Time, Date, DateTime:
		return FamilyDateTime
	case Decimal:
		return FamilyExactDecimal
	case Float:
		return FamilyApproximate
	case VarChar, Text:
		return FamilyCharacter
	default:
		return FamilyNone
	}
}

// Numeric reports whether the type carries numeric values, booleans
// included.
func (t Type) Numeric() bool {
	switch t.Family() {
	case FamilyBoolean, FamilyInteger, FamilyExactDecimal, FamilyApproximate:
		return true
	}
	return false
}

// Metadata column names stamped by the writer with server-side
// timestamps.
const (
	MetaTimeInsert = "_time_insert"
	MetaTimeUpdate = "_time_update"
)

// Column is one column definition, required (inferred from a batch) or
// observed (read from the target catalog).
type Column struct {
	Name       string
	Type       Type
	Size       int // VarChar character length
	Precision  int // Decimal total digits
	Scale      int // Decimal fractional digits
	NotNull    bool
	PrimaryKey bool
}

// Spec renders the column shape for error messages, e.g. "varchar(20)"
// or "decimal(18,6)".
func (c Column) Spec() string {
	switch c.Type {
	case VarChar:
		return fmt.Sprintf("varchar(%d)", c.Size)
	case Decimal:
		return fmt.Sprintf("decimal(%d,%d)", c.Precision, c.Scale)
	default:
		return c.Type.String()
	}
}

// TableSchema is an ordered set of column definitions for one table.
type TableSchema struct {
	Name    string
	Columns []Column
}

// Column looks up a column by name.
func (s *TableSchema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKey returns the names of the primary key columns, in schema
// order.
func (s *TableSchema) PrimaryKey() []string {
	var names []string
	for _, c := range s.Columns {
		if c.PrimaryKey {
			names = append(names, c.Name)
		}
	}
	return names
}

// Batch is one tabular batch of values: named columns over row-major
// cells. A cell is nil, a Go scalar, a time.Time, or a string rendering
// of any of those.
type Batch struct {
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the position of a column, or -1 when absent.
func (b *Batch) ColumnIndex(name string) int {
	for i, c := range b.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnValues collects one column's cells across all rows. Rows shorter
// than the column's position contribute nil.
func (b *Batch) ColumnValues(name string) []any {
	idx := b.ColumnIndex(name)
	values := make([]any, len(b.Rows))
	if idx < 0 {
		return values
	}
	for i, row := range b.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}

// WriteMode selects how staged rows are applied to the target.
type WriteMode int

const (
	// ModeInsert appends all staged rows.
	ModeInsert WriteMode = iota
	// ModeUpdate overwrites target rows matched by the match columns.
	ModeUpdate
	// ModeUpsert updates matched rows and inserts unmatched ones.
	ModeUpsert
	// ModeMerge upserts, then deletes target rows absent from the batch.
	ModeMerge
)

func (m WriteMode) String() string {
	switch m {
	case ModeInsert:
		return "insert"
	case ModeUpdate:
		return "update"
	case ModeUpsert:
		return "upsert"
	case ModeMerge:
		return "merge"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// WriteRequest describes one batch write against a target table.
type WriteRequest struct {
	// Table is the target table, optionally schema-qualified.
	Table string

	// Batch holds the rows to write.
	Batch Batch

	// Mode selects insert, update, upsert, or merge.
	Mode WriteMode

	// MatchColumns identify rows across the batch and the target for
	// update, upsert, and merge. Empty means the target's primary key.
	MatchColumns []string

	// DeleteConditions restricts merge deletion to target rows whose
	// listed column values appear somewhere in the batch.
	DeleteConditions []string

	// Autoadjust permits creating the table and altering its schema to
	// fit the batch.
	Autoadjust bool

	// IncludeMetadata adds the _time_insert/_time_update stamp columns.
	IncludeMetadata bool
}

// Result reports what a write did. Columns holds the finalized column
// definitions the rows were written with, type adjustments included.
type Result struct {
	Table        string
	Columns      []Column
	RowsStaged   int
	RowsAffected int
}
