package adapter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/framesync/pkg/core"
	"github.com/leapstack-labs/framesync/pkg/dialect"
)

// defaultMaxParams keeps each INSERT under the strictest statement
// parameter limit of the supported stores.
const defaultMaxParams = 2000

// BulkLoader performs one batched insertion of rows into a table using
// chunked multi-row INSERT statements with bound parameters.
type BulkLoader struct {
	d      *dialect.Dialect
	logger *slog.Logger

	// MaxParams caps bound parameters per statement; zero uses the default.
	MaxParams int
}

// NewBulkLoader creates a loader for a dialect.
// If logger is nil, a discard logger is used.
func NewBulkLoader(d *dialect.Dialect, logger *slog.Logger) *BulkLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BulkLoader{d: d, logger: logger}
}

// Load inserts all rows into the table in column order. Rows must already
// be converted to driver-level values. Returns the number of rows loaded.
func (l *BulkLoader) Load(ctx context.Context, sess Session, table string, columns []core.Column, rows [][]any) (int, error) {
	if len(rows) == 0 || len(columns) == 0 {
		return 0, nil
	}

	maxParams := l.MaxParams
	if maxParams <= 0 {
		maxParams = defaultMaxParams
	}
	perChunk := maxParams / len(columns)
	if perChunk < 1 {
		perChunk = 1
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = l.d.QuoteIdent(col.Name)
	}
	prefix := "INSERT INTO " + l.d.QuoteTable(table) + " (" + strings.Join(quoted, ", ") + ") VALUES "

	loaded := 0
	for start := 0; start < len(rows); start += perChunk {
		end := start + perChunk
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		var b strings.Builder
		b.WriteString(prefix)
		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j := range columns {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(l.d.Placeholder(len(args) + 1))
				args = append(args, row[j])
			}
			b.WriteString(")")
		}

		l.logger.Debug("bulk loading chunk",
			slog.String("table", table), slog.Int("rows", len(chunk)))
		if _, err := sess.ExecContext(ctx, b.String(), args...); err != nil {
			return loaded, &core.TransportError{Op: "load", Table: table, Err: err}
		}
		loaded += len(chunk)
	}
	return loaded, nil
}
