// Package dialect provides SQL dialect configuration for framesync.
//
// A Dialect describes how a target store quotes identifiers, numbers
// placeholders, names column types, and spells the DDL variants the
// schema reconciler emits. Concrete dialects register themselves in the
// global registry; see builtin.go for postgres and sqlserver.
package dialect

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/framesync/pkg/core"
)

// Dialect represents one SQL dialect configuration.
type Dialect struct {
	Name          string
	DefaultSchema string

	// Identifier quoting. QuoteEnd is doubled when it appears inside an
	// identifier, which is all the escaping delimited identifiers need.
	QuoteStart string
	QuoteEnd   string

	// NumberedPlaceholders selects $N style ($1, $2, ...) over ?.
	NumberedPlaceholders bool

	// ServerTime is the expression yielding the server-captured timestamp
	// used for metadata stamps. It must be stable within one statement.
	ServerTime string

	// Temp-table creation: postgres uses a TEMPORARY keyword, sqlserver a
	// name prefix (#) with a plain CREATE TABLE.
	TempCreate     string // "CREATE TEMPORARY TABLE" or "CREATE TABLE"
	TempNamePrefix string // "" or "#"

	// DDL formats, filled with (table, column, type) quoted tokens.
	AddColumnFormat   string
	AlterColumnFormat string

	// UpdateFromFormat spells an update joined against a second table.
	// Verbs: %[1]s target, %[2]s set list, %[3]s source, %[4]s join
	// condition. The target is aliased t and the source s.
	UpdateFromFormat string

	// Types maps core types to dialect type names. VarChar and Decimal
	// entries are bases that TypeName suffixes with size attributes.
	Types map[core.Type]string
	// TextType overrides the unbounded-text rendering (e.g. varchar(max)).
	TextType string

	// CatalogTypes maps lowercase information_schema data_type names back
	// to core types for catalog reads.
	CatalogTypes map[string]core.Type
}

// QuoteIdent wraps a single identifier in the dialect's delimiters,
// doubling any embedded end-delimiter. Identifiers are always emitted
// this way; they are never concatenated raw.
func (d *Dialect) QuoteIdent(name string) string {
	escaped := strings.ReplaceAll(name, d.QuoteEnd, d.QuoteEnd+d.QuoteEnd)
	return d.QuoteStart + escaped + d.QuoteEnd
}

// QuoteTable quotes a possibly schema-qualified table reference.
func (d *Dialect) QuoteTable(table string) string {
	if parts := strings.SplitN(table, ".", 2); len(parts) == 2 {
		return d.QuoteIdent(parts[0]) + "." + d.QuoteIdent(parts[1])
	}
	return d.QuoteIdent(table)
}

// SplitTable splits a table reference into schema and name, applying the
// dialect default schema when unqualified.
func (d *Dialect) SplitTable(table string) (schema, name string) {
	if parts := strings.SplitN(table, ".", 2); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return d.DefaultSchema, table
}

// Placeholder returns the n-th (1-based) statement parameter marker.
func (d *Dialect) Placeholder(n int) string {
	if d.NumberedPlaceholders {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// TypeName renders a column's declared type, including size attributes.
func (d *Dialect) TypeName(col core.Column) string {
	switch col.Type {
	case core.VarChar:
		return fmt.Sprintf("%s(%d)", d.Types[core.VarChar], col.Size)
	case core.Decimal:
		return fmt.Sprintf("%s(%d,%d)", d.Types[core.Decimal], col.Precision, col.Scale)
	case core.Text:
		if d.TextType != "" {
			return d.TextType
		}
		return d.Types[core.Text]
	default:
		if name, ok := d.Types[col.Type]; ok {
			return name
		}
		return col.Type.String()
	}
}

// ScanType maps a catalog data_type name plus size attributes to a core
// column shape. Unknown names come back as unbounded text so observed
// schemas always rank.
func (d *Dialect) ScanType(dataType string, charMax, precision, scale int) (core.Type, int, int, int) {
	t, ok := d.CatalogTypes[strings.ToLower(strings.TrimSpace(dataType))]
	if !ok {
		return core.Text, 0, 0, 0
	}
	switch t {
	case core.VarChar:
		if charMax < 0 { // varchar(max) and friends
			return core.Text, 0, 0, 0
		}
		return core.VarChar, charMax, 0, 0
	case core.Decimal:
		return core.Decimal, 0, precision, scale
	default:
		return t, 0, 0, 0
	}
}

// TempTableName prefixes a staging table name per dialect convention.
func (d *Dialect) TempTableName(base string) string {
	return d.TempNamePrefix + base
}

// AddColumnSQL builds the additive column DDL for a reconciliation plan op.
func (d *Dialect) AddColumnSQL(table string, col core.Column) string {
	return fmt.Sprintf(d.AddColumnFormat, d.QuoteTable(table), d.QuoteIdent(col.Name), d.TypeName(col))
}

// AlterColumnSQL builds the widening DDL for a reconciliation plan op.
func (d *Dialect) AlterColumnSQL(table string, col core.Column) string {
	return fmt.Sprintf(d.AlterColumnFormat, d.QuoteTable(table), d.QuoteIdent(col.Name), d.TypeName(col))
}

// UpdateFromSQL builds an update of target rows from matching source
// rows. setList assigns unqualified target columns from s-qualified
// source columns; joinCond compares t-qualified and s-qualified columns.
func (d *Dialect) UpdateFromSQL(target, setList, source, joinCond string) string {
	return fmt.Sprintf(d.UpdateFromFormat, d.QuoteTable(target), setList, d.QuoteTable(source), joinCond)
}

// DropTableSQL builds the idempotent staging cleanup statement.
func (d *Dialect) DropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteTable(table))
}
