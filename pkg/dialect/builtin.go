package dialect

import "github.com/leapstack-labs/framesync/pkg/core"

// Postgres is the PostgreSQL dialect. Merge-mode writes require a server
// supporting WHEN NOT MATCHED BY SOURCE (PostgreSQL 17+); update and
// upsert modes work on any version with MERGE.
var Postgres = &Dialect{
	Name:                 "postgres",
	DefaultSchema:        "public",
	QuoteStart:           `"`,
	QuoteEnd:             `"`,
	NumberedPlaceholders: true,
	ServerTime:           "now()",
	TempCreate:           "CREATE TEMPORARY TABLE",
	AddColumnFormat:      "ALTER TABLE %s ADD COLUMN %s %s",
	AlterColumnFormat:    "ALTER TABLE %s ALTER COLUMN %s TYPE %s",
	UpdateFromFormat:     "UPDATE %[1]s AS t SET %[2]s FROM %[3]s AS s WHERE %[4]s",
	Types: map[core.Type]string{
		core.Bit:      "boolean",
		core.TinyInt:  "smallint", // no unsigned single-byte type
		core.SmallInt: "smallint",
		core.Int:      "integer",
		core.BigInt:   "bigint",
		core.Time:     "time",
		core.Date:     "date",
		core.DateTime: "timestamp",
		core.Decimal:  "numeric",
		core.Float:    "double precision",
		core.VarChar:  "varchar",
		core.Text:     "text",
	},
	CatalogTypes: map[string]core.Type{
		"boolean":                     core.Bit,
		"smallint":                    core.SmallInt,
		"integer":                     core.Int,
		"bigint":                      core.BigInt,
		"time without time zone":      core.Time,
		"time with time zone":         core.Time,
		"date":                        core.Date,
		"timestamp without time zone": core.DateTime,
		"timestamp with time zone":    core.DateTime,
		"numeric":                     core.Decimal,
		"real":                        core.Float,
		"double precision":            core.Float,
		"character varying":           core.VarChar,
		"character":                   core.VarChar,
		"text":                        core.Text,
	},
}

// SQLServer is the Transact-SQL dialect. Staging tables are session-local
// #-prefixed temp tables; metadata stamps use GETDATE(), which is captured
// once per statement execution.
var SQLServer = &Dialect{
	Name:              "sqlserver",
	DefaultSchema:     "dbo",
	QuoteStart:        "[",
	QuoteEnd:          "]",
	ServerTime:        "GETDATE()",
	TempCreate:        "CREATE TABLE",
	TempNamePrefix:    "#",
	AddColumnFormat:   "ALTER TABLE %s ADD %s %s",
	AlterColumnFormat: "ALTER TABLE %s ALTER COLUMN %s %s",
	UpdateFromFormat:  "UPDATE t SET %[2]s FROM %[1]s AS t INNER JOIN %[3]s AS s ON %[4]s",
	TextType:          "varchar(max)",
	Types: map[core.Type]string{
		core.Bit:      "bit",
		core.TinyInt:  "tinyint",
		core.SmallInt: "smallint",
		core.Int:      "int",
		core.BigInt:   "bigint",
		core.Time:     "time",
		core.Date:     "date",
		core.DateTime: "datetime2",
		core.Decimal:  "decimal",
		core.Float:    "float",
		core.VarChar:  "varchar",
	},
	CatalogTypes: map[string]core.Type{
		"bit":           core.Bit,
		"tinyint":       core.TinyInt,
		"smallint":      core.SmallInt,
		"int":           core.Int,
		"bigint":        core.BigInt,
		"time":          core.Time,
		"date":          core.Date,
		"datetime":      core.DateTime,
		"datetime2":     core.DateTime,
		"smalldatetime": core.DateTime,
		"decimal":       core.Decimal,
		"numeric":       core.Decimal,
		"float":         core.Float,
		"real":          core.Float,
		"char":          core.VarChar,
		"nchar":         core.VarChar,
		"varchar":       core.VarChar,
		"nvarchar":      core.VarChar,
		"text":          core.Text,
		"ntext":         core.Text,
	},
}

func init() {
	Register(Postgres)
	Register(SQLServer)
}
