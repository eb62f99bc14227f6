package writer

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/framesync/pkg/core"
	"github.com/leapstack-labs/framesync/pkg/dialect"
)

// statementInput carries everything the apply-statement builders need:
// the target table, the loaded staging table, the staged column set, and
// the request's matching knobs.
type statementInput struct {
	target      string
	staging     string
	columns     []core.Column
	match       []string
	deleteConds []string
	metadata    bool
}

// updateColumns returns the staged columns that are not match columns,
// i.e. the ones an update or merge overwrites.
func (in statementInput) updateColumns() []core.Column {
	var cols []core.Column
	for _, c := range in.columns {
		if !contains(in.match, c.Name) {
			cols = append(cols, c)
		}
	}
	return cols
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// insertFromStagingSQL appends every staged row to the target, stamping
// _time_insert with the server clock when metadata is on.
func insertFromStagingSQL(d *dialect.Dialect, in statementInput) string {
	cols := make([]string, 0, len(in.columns)+1)
	selects := make([]string, 0, len(in.columns)+1)
	for _, c := range in.columns {
		cols = append(cols, d.QuoteIdent(c.Name))
		selects = append(selects, d.QuoteIdent(c.Name))
	}
	if in.metadata {
		cols = append(cols, d.QuoteIdent(core.MetaTimeInsert))
		selects = append(selects, d.ServerTime)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
		d.QuoteTable(in.target),
		strings.Join(cols, ", "),
		strings.Join(selects, ", "),
		d.QuoteTable(in.staging))
}

// updateFromStagingSQL overwrites target rows matched by the match
// columns with their staged counterparts.
func updateFromStagingSQL(d *dialect.Dialect, in statementInput) (string, error) {
	var sets []string
	for _, c := range in.updateColumns() {
		sets = append(sets, fmt.Sprintf("%s = s.%s", d.QuoteIdent(c.Name), d.QuoteIdent(c.Name)))
	}
	if in.metadata {
		sets = append(sets, fmt.Sprintf("%s = %s", d.QuoteIdent(core.MetaTimeUpdate), d.ServerTime))
	}
	if len(sets) == 0 {
		return "", fmt.Errorf("update of %s: every batch column is a match column, nothing to set", in.target)
	}
	return d.UpdateFromSQL(in.target, strings.Join(sets, ", "), in.staging, joinCondition(d, in.match)), nil
}

// mergeFromStagingSQL builds the MERGE applying staged rows: matched rows
// are updated, unmatched ones inserted, and (with delete on) target rows
// absent from the staging table are removed. Delete conditions narrow the
// delete branch to rows whose column value occurs somewhere in the batch.
func mergeFromStagingSQL(d *dialect.Dialect, in statementInput, withDelete bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "MERGE INTO %s AS t USING %s AS s ON %s",
		d.QuoteTable(in.target), d.QuoteTable(in.staging), joinCondition(d, in.match))

	var sets []string
	for _, c := range in.updateColumns() {
		sets = append(sets, fmt.Sprintf("%s = s.%s", d.QuoteIdent(c.Name), d.QuoteIdent(c.Name)))
	}
	if in.metadata {
		sets = append(sets, fmt.Sprintf("%s = %s", d.QuoteIdent(core.MetaTimeUpdate), d.ServerTime))
	}
	if len(sets) > 0 {
		fmt.Fprintf(&b, " WHEN MATCHED THEN UPDATE SET %s", strings.Join(sets, ", "))
	}

	insertCols := make([]string, 0, len(in.columns)+1)
	insertVals := make([]string, 0, len(in.columns)+1)
	for _, c := range in.columns {
		insertCols = append(insertCols, d.QuoteIdent(c.Name))
		insertVals = append(insertVals, "s."+d.QuoteIdent(c.Name))
	}
	if in.metadata {
		insertCols = append(insertCols, d.QuoteIdent(core.MetaTimeInsert))
		insertVals = append(insertVals, d.ServerTime)
	}
	fmt.Fprintf(&b, " WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)",
		strings.Join(insertCols, ", "), strings.Join(insertVals, ", "))

	if withDelete {
		b.WriteString(" WHEN NOT MATCHED BY SOURCE")
		for _, cond := range in.deleteConds {
			fmt.Fprintf(&b, " AND t.%s IN (SELECT %s FROM %s)",
				d.QuoteIdent(cond), d.QuoteIdent(cond), d.QuoteTable(in.staging))
		}
		b.WriteString(" THEN DELETE")
	}

	b.WriteString(";")
	return b.String()
}

// joinCondition renders the match predicate between target alias t and
// staging alias s.
func joinCondition(d *dialect.Dialect, match []string) string {
	conds := make([]string, 0, len(match))
	for _, m := range match {
		conds = append(conds, fmt.Sprintf("t.%s = s.%s", d.QuoteIdent(m), d.QuoteIdent(m)))
	}
	return strings.Join(conds, " AND ")
}
