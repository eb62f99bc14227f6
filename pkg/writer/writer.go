// Package writer applies tabular batches to relational tables through a
// staged write: infer the required schema, reconcile the target, load a
// session-local staging table, then apply one insert, update, upsert, or
// merge statement. Values travel as bound parameters and identifiers are
// always quoted, so batch content never becomes SQL text.
package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/framesync/pkg/adapter"
	"github.com/leapstack-labs/framesync/pkg/core"
	"github.com/leapstack-labs/framesync/pkg/dialect"
	"github.com/leapstack-labs/framesync/pkg/infer"
	"github.com/leapstack-labs/framesync/pkg/reconcile"
)

// Writer executes batch writes for one dialect.
//
// The session passed to Write must stay pinned to a single connection for
// the duration of the call where the dialect's staging tables are
// session-local; adapter.Adapter.Session provides exactly that.
type Writer struct {
	d       *dialect.Dialect
	catalog *adapter.Catalog
	loader  *adapter.BulkLoader
	logger  *slog.Logger

	// Options tune type inference and conversion.
	Options infer.Options
}

// New creates a writer for a dialect.
// If logger is nil, a discard logger is used.
func New(d *dialect.Dialect, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{
		d:       d,
		catalog: adapter.NewCatalog(d, logger),
		loader:  adapter.NewBulkLoader(d, logger),
		logger:  logger,
		Options: infer.DefaultOptions(),
	}
}

// Write runs one batch write end to end. The staging table is dropped on
// every exit path, including failures and context cancellation.
func (w *Writer) Write(ctx context.Context, sess adapter.Session, req core.WriteRequest) (*core.Result, error) {
	if req.Table == "" {
		return nil, fmt.Errorf("target table is required")
	}
	if len(req.Batch.Columns) == 0 {
		return nil, fmt.Errorf("%s into %s: batch has no columns", req.Mode, req.Table)
	}
	if len(req.Batch.Rows) == 0 {
		if req.Mode == core.ModeInsert {
			return &core.Result{Table: req.Table}, nil
		}
		// An empty merge would read as "delete everything"; refuse it.
		return nil, fmt.Errorf("%s into %s: batch has no rows", req.Mode, req.Table)
	}
	if len(req.DeleteConditions) > 0 && req.Mode != core.ModeMerge {
		return nil, fmt.Errorf("%s into %s: delete conditions apply to merge only",
			req.Mode, req.Table)
	}

	observed, err := w.catalog.TableSchema(ctx, sess, req.Table)
	if err != nil {
		if !core.IsNotFound(err) {
			return nil, err
		}
		observed = nil
	}

	match := req.MatchColumns
	if req.Mode != core.ModeInsert {
		if len(match) == 0 && observed != nil {
			match = observed.PrimaryKey()
		}
		if len(match) == 0 {
			return nil, fmt.Errorf("%s into %s: no match columns given and no primary key to default to",
				req.Mode, req.Table)
		}
		for _, m := range match {
			if req.Batch.ColumnIndex(m) < 0 {
				return nil, fmt.Errorf("%s into %s: match column %s is not in the batch",
					req.Mode, req.Table, m)
			}
		}
	}
	for _, cond := range req.DeleteConditions {
		if req.Batch.ColumnIndex(cond) < 0 {
			return nil, fmt.Errorf("merge into %s: delete condition column %s is not in the batch",
				req.Table, cond)
		}
	}

	required := infer.Schema(req.Table, req.Batch, w.Options)
	if observed == nil {
		// Creating the table: match columns become its primary key.
		for i := range required.Columns {
			if contains(match, required.Columns[i].Name) {
				required.Columns[i].PrimaryKey = true
				required.Columns[i].NotNull = true
			}
		}
	}

	plan, err := reconcile.Build(required, observed, reconcile.Options{
		Autoadjust:      req.Autoadjust,
		IncludeMetadata: req.IncludeMetadata,
	})
	if err != nil {
		return nil, err
	}
	if err := w.applyPlan(ctx, sess, plan); err != nil {
		return nil, err
	}

	staged := stagedColumns(plan.Schema, req.Batch)
	rows := make([][]any, len(req.Batch.Rows))
	for i := range req.Batch.Rows {
		row, err := infer.Row(req.Batch, i, staged, w.Options)
		if err != nil {
			var inv *core.InvalidColumnValueError
			if errors.As(err, &inv) {
				inv.Table = req.Table
			}
			return nil, err
		}
		rows[i] = row
	}

	staging := stagingName(w.d, req.Table)
	if _, err := sess.ExecContext(ctx, createStagingSQL(w.d, staging, staged)); err != nil {
		return nil, &core.TransportError{Op: "stage", Table: req.Table, Err: err}
	}
	defer w.dropStaging(ctx, sess, staging)

	loaded, err := w.loader.Load(ctx, sess, staging, staged, rows)
	if err != nil {
		return nil, err
	}

	in := statementInput{
		target:      req.Table,
		staging:     staging,
		columns:     staged,
		match:       match,
		deleteConds: req.DeleteConditions,
		metadata:    req.IncludeMetadata,
	}
	var stmt string
	switch req.Mode {
	case core.ModeInsert:
		stmt = insertFromStagingSQL(w.d, in)
	case core.ModeUpdate:
		stmt, err = updateFromStagingSQL(w.d, in)
		if err != nil {
			return nil, err
		}
	case core.ModeUpsert:
		stmt = mergeFromStagingSQL(w.d, in, false)
	case core.ModeMerge:
		stmt = mergeFromStagingSQL(w.d, in, true)
	default:
		return nil, fmt.Errorf("unknown write mode %s", req.Mode)
	}

	w.logger.Debug("applying batch",
		slog.String("mode", req.Mode.String()),
		slog.String("table", req.Table),
		slog.Int("rows", loaded))
	res, err := sess.ExecContext(ctx, stmt)
	if err != nil {
		return nil, &core.TransportError{Op: req.Mode.String(), Table: req.Table, Err: err}
	}
	affected64, err := res.RowsAffected()
	if err != nil {
		w.logger.Warn("rows affected unavailable",
			slog.String("table", req.Table), slog.Any("error", err))
		affected64 = 0
	}
	affected := int(affected64)

	if req.Mode == core.ModeUpdate && affected > loaded {
		return nil, &core.AmbiguousMatchError{
			Table:        req.Table,
			MatchColumns: match,
			Staged:       loaded,
			Affected:     affected,
		}
	}

	return &core.Result{
		Table:        req.Table,
		Columns:      staged,
		RowsStaged:   loaded,
		RowsAffected: affected,
	}, nil
}

// Insert appends all batch rows to the target.
func (w *Writer) Insert(ctx context.Context, sess adapter.Session, req core.WriteRequest) (*core.Result, error) {
	req.Mode = core.ModeInsert
	return w.Write(ctx, sess, req)
}

// Update overwrites target rows matched by the match columns.
func (w *Writer) Update(ctx context.Context, sess adapter.Session, req core.WriteRequest) (*core.Result, error) {
	req.Mode = core.ModeUpdate
	return w.Write(ctx, sess, req)
}

// Upsert updates matched rows and inserts unmatched ones.
func (w *Writer) Upsert(ctx context.Context, sess adapter.Session, req core.WriteRequest) (*core.Result, error) {
	req.Mode = core.ModeUpsert
	return w.Write(ctx, sess, req)
}

// Merge upserts, then deletes target rows absent from the batch.
func (w *Writer) Merge(ctx context.Context, sess adapter.Session, req core.WriteRequest) (*core.Result, error) {
	req.Mode = core.ModeMerge
	return w.Write(ctx, sess, req)
}

// applyPlan executes a reconciliation plan's DDL in order.
func (w *Writer) applyPlan(ctx context.Context, sess adapter.Session, plan *reconcile.Plan) error {
	for _, op := range plan.Ops {
		var stmt string
		switch op.Kind {
		case reconcile.OpCreateTable:
			stmt = createTableSQL(w.d, plan.Schema)
		case reconcile.OpAddColumn:
			stmt = w.d.AddColumnSQL(plan.Table, op.Column)
		case reconcile.OpWidenColumn:
			stmt = w.d.AlterColumnSQL(plan.Table, op.Column)
		default:
			return fmt.Errorf("unknown plan op %s", op.Kind)
		}
		w.logger.Info("adjusting schema",
			slog.String("op", op.Kind.String()),
			slog.String("table", plan.Table),
			slog.String("column", op.Column.Name))
		if _, err := sess.ExecContext(ctx, stmt); err != nil {
			return &core.TransportError{Op: op.Kind.String(), Table: plan.Table, Err: err}
		}
	}
	return nil
}

// dropStaging removes the staging table, surviving a canceled context so
// failed writes do not strand staging tables.
func (w *Writer) dropStaging(ctx context.Context, sess adapter.Session, staging string) {
	ctx = context.WithoutCancel(ctx)
	if _, err := sess.ExecContext(ctx, w.d.DropTableSQL(staging)); err != nil {
		w.logger.Warn("failed to drop staging table",
			slog.String("table", staging), slog.Any("error", err))
	}
}

// stagedColumns picks the finalized columns that the batch actually
// carries, in schema order. Metadata columns are never staged; their
// stamps are server-side expressions.
func stagedColumns(schema core.TableSchema, batch core.Batch) []core.Column {
	var cols []core.Column
	for _, col := range schema.Columns {
		if batch.ColumnIndex(col.Name) >= 0 {
			cols = append(cols, col)
		}
	}
	return cols
}
