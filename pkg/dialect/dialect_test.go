package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/framesync/pkg/core"
)

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		name  string
		d     *Dialect
		ident string
		want  string
	}{
		{"postgres plain", Postgres, "amount", `"amount"`},
		{"postgres embedded quote doubles", Postgres, `am"ount`, `"am""ount"`},
		{"postgres injection attempt stays inert", Postgres, `x"; DROP TABLE y; --`, `"x""; DROP TABLE y; --"`},
		{"sqlserver plain", SQLServer, "amount", "[amount]"},
		{"sqlserver embedded bracket doubles", SQLServer, "am]ount", "[am]]ount]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.QuoteIdent(tt.ident))
		})
	}
}

func TestQuoteTable(t *testing.T) {
	assert.Equal(t, `"public"."sales"`, Postgres.QuoteTable("public.sales"))
	assert.Equal(t, `"sales"`, Postgres.QuoteTable("sales"))
	assert.Equal(t, "[dbo].[sales]", SQLServer.QuoteTable("dbo.sales"))
}

func TestSplitTable(t *testing.T) {
	schema, name := Postgres.SplitTable("sales")
	assert.Equal(t, "public", schema)
	assert.Equal(t, "sales", name)

	schema, name = SQLServer.SplitTable("reporting.sales")
	assert.Equal(t, "reporting", schema)
	assert.Equal(t, "sales", name)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", Postgres.Placeholder(1))
	assert.Equal(t, "$17", Postgres.Placeholder(17))
	assert.Equal(t, "?", SQLServer.Placeholder(1))
	assert.Equal(t, "?", SQLServer.Placeholder(17))
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name string
		d    *Dialect
		col  core.Column
		want string
	}{
		{"postgres varchar", Postgres, core.Column{Type: core.VarChar, Size: 20}, "varchar(20)"},
		{"postgres decimal", Postgres, core.Column{Type: core.Decimal, Precision: 18, Scale: 6}, "numeric(18,6)"},
		{"postgres text", Postgres, core.Column{Type: core.Text}, "text"},
		{"postgres datetime", Postgres, core.Column{Type: core.DateTime}, "timestamp"},
		{"postgres bit", Postgres, core.Column{Type: core.Bit}, "boolean"},
		{"sqlserver text is varchar max", SQLServer, core.Column{Type: core.Text}, "varchar(max)"},
		{"sqlserver datetime", SQLServer, core.Column{Type: core.DateTime}, "datetime2"},
		{"sqlserver tinyint", SQLServer, core.Column{Type: core.TinyInt}, "tinyint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.TypeName(tt.col))
		})
	}
}

func TestScanType(t *testing.T) {
	typ, size, _, _ := Postgres.ScanType("character varying", 40, 0, 0)
	assert.Equal(t, core.VarChar, typ)
	assert.Equal(t, 40, size)

	// Unbounded character columns scan as text.
	typ, _, _, _ = Postgres.ScanType("character varying", -1, 0, 0)
	assert.Equal(t, core.Text, typ)

	typ, _, precision, scale := Postgres.ScanType("numeric", 0, 18, 6)
	assert.Equal(t, core.Decimal, typ)
	assert.Equal(t, 18, precision)
	assert.Equal(t, 6, scale)

	typ, _, _, _ = SQLServer.ScanType("NVARCHAR", 100, 0, 0)
	assert.Equal(t, core.VarChar, typ)

	// Unknown catalog types fall back to text.
	typ, _, _, _ = Postgres.ScanType("tsvector", 0, 0, 0)
	assert.Equal(t, core.Text, typ)
}

func TestDDLStatements(t *testing.T) {
	col := core.Column{Name: "note", Type: core.VarChar, Size: 12}

	assert.Equal(t, `ALTER TABLE "sales" ADD COLUMN "note" varchar(12)`, Postgres.AddColumnSQL("sales", col))
	assert.Equal(t, `ALTER TABLE "sales" ALTER COLUMN "note" TYPE varchar(12)`, Postgres.AlterColumnSQL("sales", col))
	assert.Equal(t, `DROP TABLE IF EXISTS "sales"`, Postgres.DropTableSQL("sales"))

	assert.Equal(t, "ALTER TABLE [dbo].[sales] ADD [note] varchar(12)", SQLServer.AddColumnSQL("dbo.sales", col))
	assert.Equal(t, "ALTER TABLE [dbo].[sales] ALTER COLUMN [note] varchar(12)", SQLServer.AlterColumnSQL("dbo.sales", col))
}

func TestTempTableName(t *testing.T) {
	assert.Equal(t, "_source_sales_ab12", Postgres.TempTableName("_source_sales_ab12"))
	assert.Equal(t, "#_source_sales_ab12", SQLServer.TempTableName("_source_sales_ab12"))
}

func TestRegistry(t *testing.T) {
	d, ok := Get("postgres")
	require.True(t, ok)
	assert.Equal(t, "postgres", d.Name)

	_, ok = Get("oracle")
	assert.False(t, ok)

	assert.Contains(t, List(), "sqlserver")
}
