// Package reconcile compares a required table schema against the observed
// one and produces a plan of additive-only DDL changes.
//
// Build is a pure function over synthetic schemas: it never touches a
// store. The writer applies the resulting plan before staging, so a
// disallowed change fails before any statement reaches the target.
package reconcile

import (
	"fmt"

	"github.com/leapstack-labs/framesync/pkg/core"
)

// OpKind discriminates plan operations.
type OpKind int

const (
	OpCreateTable OpKind = iota
	OpAddColumn
	OpWidenColumn
)

func (k OpKind) String() string {
	switch k {
	case OpCreateTable:
		return "create-table"
	case OpAddColumn:
		return "add-column"
	case OpWidenColumn:
		return "widen-column"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// Op is one reconciliation operation. Column holds the definition after
// the operation; From holds the observed definition a widen starts from.
type Op struct {
	Kind   OpKind
	Column core.Column
	From   core.Column
}

// Plan is the ordered list of operations plus the finalized schema the
// batch will be written with once the plan is applied.
type Plan struct {
	Table string
	Ops   []Op
	// Schema contains one finalized column per required column, shaped
	// exactly as the target will be after the plan applies.
	Schema core.TableSchema
}

// Empty reports whether the plan requires no DDL.
func (p *Plan) Empty() bool { return len(p.Ops) == 0 }

// Options control what the reconciler may plan.
type Options struct {
	// Autoadjust permits create-table, add-column, and widen-column.
	Autoadjust bool
	// IncludeMetadata plans the _time_insert/_time_update stamp columns.
	// These are added even without Autoadjust, matching the write path's
	// unconditional handling of its own metadata columns.
	IncludeMetadata bool
}

// Build computes the reconciliation plan. observed is nil when the target
// table does not exist. Any required narrowing, nullability removal, or
// cross-family change is rejected regardless of Options.
func Build(required core.TableSchema, observed *core.TableSchema, opts Options) (*Plan, error) {
	plan := &Plan{Table: required.Name, Schema: core.TableSchema{Name: required.Name}}

	if observed == nil {
		if !opts.Autoadjust {
			return nil, &core.TableNotFoundError{Table: required.Name}
		}
		schema := core.TableSchema{Name: required.Name}
		for _, col := range required.Columns {
			if col.Type == core.Undetermined {
				return nil, &core.UndeterminedColumnError{Table: required.Name, Column: col.Name}
			}
			schema.Columns = append(schema.Columns, col)
		}
		if opts.IncludeMetadata {
			schema.Columns = append(schema.Columns, metadataColumns()...)
		}
		plan.Ops = append(plan.Ops, Op{Kind: OpCreateTable})
		plan.Schema = schema
		return plan, nil
	}

	var adds, widens []Op
	for _, col := range required.Columns {
		obs, exists := observed.Column(col.Name)
		if !exists {
			if col.Type == core.Undetermined {
				return nil, &core.UndeterminedColumnError{Table: required.Name, Column: col.Name}
			}
			if !opts.Autoadjust {
				return nil, &core.SchemaIncompatibleError{
					Table:    required.Name,
					Column:   col.Name,
					Required: col.Spec(),
					Reason:   "autoadjust disabled",
				}
			}
			// Added columns are always nullable so existing rows stay valid.
			add := col
			add.NotNull = false
			add.PrimaryKey = false
			adds = append(adds, Op{Kind: OpAddColumn, Column: add})
			plan.Schema.Columns = append(plan.Schema.Columns, add)
			continue
		}

		final, widened, err := widen(required.Name, col, obs)
		if err != nil {
			return nil, err
		}
		if widened {
			if !opts.Autoadjust {
				return nil, &core.SchemaIncompatibleError{
					Table:    required.Name,
					Column:   col.Name,
					Required: col.Spec(),
					Observed: obs.Spec(),
					Reason:   "autoadjust disabled",
				}
			}
			widens = append(widens, Op{Kind: OpWidenColumn, Column: final, From: obs})
		}
		plan.Schema.Columns = append(plan.Schema.Columns, final)
	}
	plan.Ops = append(plan.Ops, adds...)
	plan.Ops = append(plan.Ops, widens...)

	if opts.IncludeMetadata {
		for _, meta := range metadataColumns() {
			if obs, exists := observed.Column(meta.Name); exists {
				plan.Schema.Columns = append(plan.Schema.Columns, obs)
				continue
			}
			plan.Ops = append(plan.Ops, Op{Kind: OpAddColumn, Column: meta})
			plan.Schema.Columns = append(plan.Schema.Columns, meta)
		}
	}

	return plan, nil
}

func metadataColumns() []core.Column {
	return []core.Column{
		{Name: core.MetaTimeInsert, Type: core.DateTime},
		{Name: core.MetaTimeUpdate, Type: core.DateTime},
	}
}

// widen resolves one required/observed column pair into the finalized
// definition, reporting whether a widen-column op is needed.
func widen(table string, required, observed core.Column) (core.Column, bool, error) {
	// All-null columns take whatever shape the target already has.
	if required.Type == core.Undetermined {
		return observed, false, nil
	}

	incompatible := func(reason string) error {
		return &core.SchemaIncompatibleError{
			Table:    table,
			Column:   required.Name,
			Required: required.Spec(),
			Observed: observed.Spec(),
			Reason:   reason,
		}
	}

	if required.Type == observed.Type {
		final := observed
		switch required.Type {
		case core.VarChar:
			if required.Size > observed.Size {
				final.Size = required.Size
				return final, true, nil
			}
		case core.Decimal:
			if required.Precision > observed.Precision || required.Scale > observed.Scale {
				final.Precision = max(required.Precision, observed.Precision)
				final.Scale = max(required.Scale, observed.Scale)
				return final, true, nil
			}
		}
		return final, false, nil
	}

	if required.Type < observed.Type {
		// The observed column is ranked wider; accept it when it can hold
		// the required values without a cross-family surprise.
		if holdable(required.Type, observed.Type) {
			return observed, false, nil
		}
		return observed, false, incompatible("observed type cannot hold required values")
	}

	// required.Type > observed.Type: a widen is needed.
	if !widenable(observed.Type, required.Type) {
		return observed, false, incompatible("widening across incompatible families")
	}
	final := required
	final.NotNull = observed.NotNull
	final.PrimaryKey = observed.PrimaryKey
	return final, true, nil
}

// widenable reports whether from can grow into to without loss: wider
// integer widths, integer to exact then approximate decimal, date or time
// to datetime, and character to wider character. A numeric-family type is
// never converted to a text-family type automatically.
func widenable(from, to core.Type) bool {
	switch from.Family() {
	case core.FamilyBoolean, core.FamilyInteger:
		return to.Numeric()
	case core.FamilyExactDecimal:
		return to == core.Float
	case core.FamilyDateTime:
		// time or date grow into datetime; time never fits a bare date.
		return to == core.DateTime
	case core.FamilyCharacter:
		return to == core.Text
	default:
		return false
	}
}

// holdable reports whether a value of type t fits a column observed as
// wider-ranked type obs without an incompatible conversion.
func holdable(t, obs core.Type) bool {
	if obs.Family() == core.FamilyCharacter {
		return true // anything renders as text
	}
	if t.Numeric() && obs.Numeric() {
		return true
	}
	if t.Family() == core.FamilyDateTime && obs == core.DateTime {
		return true
	}
	return false
}
