package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/framesync/pkg/core"
	"github.com/leapstack-labs/framesync/pkg/dialect"
)

// Catalog reads table schemas from information_schema, including
// size/precision attributes and primary-key membership.
type Catalog struct {
	d      *dialect.Dialect
	logger *slog.Logger
}

// NewCatalog creates a catalog reader for a dialect.
// If logger is nil, a discard logger is used.
func NewCatalog(d *dialect.Dialect, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{d: d, logger: logger}
}

// TableSchema returns the observed schema of a table, or a
// core.TableNotFoundError when the table does not exist.
func (c *Catalog) TableSchema(ctx context.Context, sess Session, table string) (*core.TableSchema, error) {
	schemaName, tableName := c.d.SplitTable(table)

	// Placeholders come from the dialect and are safe (? or $N).
	query := fmt.Sprintf(`
		SELECT
			c.column_name,
			c.data_type,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.is_nullable,
			CASE WHEN pk.column_name IS NULL THEN 0 ELSE 1 END AS is_primary_key
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT kcu.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON kcu.constraint_name = tc.constraint_name
				AND kcu.table_schema = tc.table_schema
				AND kcu.table_name = tc.table_name
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = %s AND tc.table_name = %s
		) pk ON pk.column_name = c.column_name
		WHERE c.table_schema = %s AND c.table_name = %s
		ORDER BY c.ordinal_position`,
		c.d.Placeholder(1), c.d.Placeholder(2), c.d.Placeholder(3), c.d.Placeholder(4))

	c.logger.Debug("reading table schema",
		slog.String("schema", schemaName), slog.String("table", tableName))

	rows, err := sess.QueryContext(ctx, query, schemaName, tableName, schemaName, tableName)
	if err != nil {
		return nil, &core.TransportError{Op: "catalog", Table: table, Err: err}
	}
	defer func() { _ = rows.Close() }()

	observed := &core.TableSchema{Name: table}
	for rows.Next() {
		var (
			name, dataType   string
			charMax          sql.NullInt64
			precision, scale sql.NullInt64
			nullable         string
			isPrimaryKey     int
		)
		if err := rows.Scan(&name, &dataType, &charMax, &precision, &scale, &nullable, &isPrimaryKey); err != nil {
			return nil, &core.TransportError{Op: "catalog", Table: table, Err: err}
		}
		col := core.Column{
			Name:       name,
			NotNull:    nullable == "NO",
			PrimaryKey: isPrimaryKey == 1,
		}
		// Unbounded character columns report a NULL length; fold that into
		// the -1 "no bound" convention varchar(max) already uses.
		length := int(charMax.Int64)
		if !charMax.Valid {
			length = -1
		}
		col.Type, col.Size, col.Precision, col.Scale = c.d.ScanType(
			dataType, length, int(precision.Int64), int(scale.Int64))
		observed.Columns = append(observed.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.TransportError{Op: "catalog", Table: table, Err: err}
	}

	if len(observed.Columns) == 0 {
		return nil, &core.TableNotFoundError{Table: table}
	}
	return observed, nil
}
