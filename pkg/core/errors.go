package core

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidColumnValueError is returned when a batch value does not
// convert to its column's committed type.
type InvalidColumnValueError struct {
	Table  string
	Column string
	Value  any
	Type   Type
}

func (e *InvalidColumnValueError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("table %s column %s: value %v does not convert to %s",
			e.Table, e.Column, e.Value, e.Type)
	}
	return fmt.Sprintf("column %s: value %v does not convert to %s", e.Column, e.Value, e.Type)
}

// SchemaIncompatibleError is returned when the batch requires a schema
// change the target cannot or may not take.
type SchemaIncompatibleError struct {
	Table    string
	Column   string
	Required string
	Observed string
	Reason   string
}

func (e *SchemaIncompatibleError) Error() string {
	msg := fmt.Sprintf("table %s column %s: required %s", e.Table, e.Column, e.Required)
	if e.Observed != "" {
		msg += fmt.Sprintf(", observed %s", e.Observed)
	}
	if e.Reason != "" {
		msg += fmt.Sprintf(" (%s)", e.Reason)
	}
	return msg
}

// TableNotFoundError is returned when the target table does not exist.
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %s does not exist", e.Table)
}

// IsNotFound reports whether err is a missing-table error.
func IsNotFound(err error) bool {
	var tnf *TableNotFoundError
	return errors.As(err, &tnf)
}

// UndeterminedColumnError is returned when an all-null batch column
// gives no type to create or add it with.
type UndeterminedColumnError struct {
	Table  string
	Column string
}

func (e *UndeterminedColumnError) Error() string {
	return fmt.Sprintf("table %s column %s: all values are null, type cannot be determined",
		e.Table, e.Column)
}

// AmbiguousMatchError is returned when an update touches more target
// rows than were staged, meaning the match columns do not identify rows
// uniquely.
type AmbiguousMatchError struct {
	Table        string
	MatchColumns []string
	Staged       int
	Affected     int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("table %s: match columns [%s] matched %d rows for %d staged rows",
		e.Table, strings.Join(e.MatchColumns, ", "), e.Affected, e.Staged)
}

// TransportError wraps a driver-level failure with the operation and
// table it occurred on.
type TransportError struct {
	Op    string
	Table string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
