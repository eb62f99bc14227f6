// Package commands implements the framesync subcommands.
package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/framesync/internal/config"
	"github.com/leapstack-labs/framesync/pkg/adapter"
	_ "github.com/leapstack-labs/framesync/pkg/adapters/postgres"
	"github.com/leapstack-labs/framesync/pkg/core"
	"github.com/leapstack-labs/framesync/pkg/writer"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

// SetRuntime hands the loaded configuration and logger to the commands.
// Called by the root command after config loading.
func SetRuntime(c *config.Config, l *slog.Logger) {
	cfg = c
	logger = l
}

// NewLoadCommand creates the load command: read a CSV file and write it
// to a target table.
func NewLoadCommand() *cobra.Command {
	var (
		tableName   string
		mode        string
		match       []string
		deleteConds []string
		autoadjust  bool
		metadata    bool
	)

	cmd := &cobra.Command{
		Use:   "load <file.csv>",
		Short: "Load a CSV file into a target table",
		Long: `Load reads a CSV file (first row is the header) and writes it to the
target table. Column types are inferred from the values; with
--autoadjust the table is created or adjusted to fit the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tableName == "" {
				return fmt.Errorf("--table is required")
			}
			writeMode, err := parseMode(mode)
			if err != nil {
				return err
			}

			batch, err := readCSVBatch(args[0])
			if err != nil {
				return err
			}

			req := core.WriteRequest{
				Table:            tableName,
				Batch:            batch,
				Mode:             writeMode,
				MatchColumns:     match,
				DeleteConditions: deleteConds,
				Autoadjust:       autoadjust || cfg.Write.Autoadjust,
				IncludeMetadata:  metadata || cfg.Write.IncludeMetadata,
			}

			result, err := runWrite(cmd.Context(), req)
			if err != nil {
				return err
			}
			renderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&tableName, "table", "", "target table (optionally schema-qualified)")
	cmd.Flags().StringVar(&mode, "mode", "insert", "write mode (insert|update|upsert|merge)")
	cmd.Flags().StringSliceVar(&match, "match", nil, "match columns (default: target primary key)")
	cmd.Flags().StringSliceVar(&deleteConds, "delete-condition", nil, "restrict merge deletion to rows matching these batch columns")
	cmd.Flags().BoolVar(&autoadjust, "autoadjust", false, "create or adjust the table to fit the batch")
	cmd.Flags().BoolVar(&metadata, "metadata", false, "stamp _time_insert/_time_update columns")

	return cmd
}

func parseMode(s string) (core.WriteMode, error) {
	switch s {
	case "insert":
		return core.ModeInsert, nil
	case "update":
		return core.ModeUpdate, nil
	case "upsert":
		return core.ModeUpsert, nil
	case "merge":
		return core.ModeMerge, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (expected insert, update, upsert, or merge)", s)
	}
}

// readCSVBatch reads a CSV file into a batch. The first record is the
// header; empty cells become nulls during inference.
func readCSVBatch(path string) (core.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Batch{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return core.Batch{}, fmt.Errorf("%s is empty", path)
	}
	if err != nil {
		return core.Batch{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	batch := core.Batch{Columns: header}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return core.Batch{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		row := make([]any, len(record))
		for i, cell := range record {
			row[i] = cell
		}
		batch.Rows = append(batch.Rows, row)
	}
	return batch, nil
}

// runWrite connects the configured adapter, pins a session, and runs the
// write.
func runWrite(ctx context.Context, req core.WriteRequest) (*core.Result, error) {
	if err := cfg.Target.Validate(); err != nil {
		return nil, err
	}
	a, err := adapter.New(cfg.Target.ToAdapterConfig(), logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, cfg.Target.ToAdapterConfig()); err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	sess, err := a.Session(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sess.Close() }()

	w := writer.New(a.Dialect(), logger)
	w.Options = cfg.Write.InferOptions()
	return w.Write(ctx, sess, req)
}

func renderResult(out io.Writer, result *core.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%s: staged %d, affected %d", result.Table, result.RowsStaged, result.RowsAffected))
	t.AppendHeader(table.Row{"column", "type"})
	for _, col := range result.Columns {
		t.AppendRow(table.Row{col.Name, col.Spec()})
	}
	t.Render()
}
