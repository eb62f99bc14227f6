package writer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leapstack-labs/framesync/pkg/core"
	"github.com/leapstack-labs/framesync/pkg/dialect"
)

// stagingName derives a collision-safe staging table name for one write
// call, dialect temp-prefix included.
func stagingName(d *dialect.Dialect, table string) string {
	_, base := d.SplitTable(table)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return d.TempTableName(fmt.Sprintf("_source_%s_%s", base, suffix))
}

// createTableSQL renders the target-table DDL for a reconciliation plan's
// finalized schema, primary key constraint included.
func createTableSQL(d *dialect.Dialect, schema core.TableSchema) string {
	defs := make([]string, 0, len(schema.Columns)+1)
	for _, col := range schema.Columns {
		def := d.QuoteIdent(col.Name) + " " + d.TypeName(col)
		if col.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	if pk := schema.PrimaryKey(); len(pk) > 0 {
		quoted := make([]string, len(pk))
		for i, name := range pk {
			quoted[i] = d.QuoteIdent(name)
		}
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteTable(schema.Name), strings.Join(defs, ", "))
}

// createStagingSQL renders the staging-table DDL. Staging columns carry
// the target shapes but no constraints; validity is the target's job.
func createStagingSQL(d *dialect.Dialect, name string, columns []core.Column) string {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, d.QuoteIdent(col.Name)+" "+d.TypeName(col))
	}
	return fmt.Sprintf("%s %s (%s)", d.TempCreate, d.QuoteTable(name), strings.Join(defs, ", "))
}
