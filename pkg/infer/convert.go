package infer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/framesync/pkg/core"
)

// Value converts a batch value to the driver-level representation for its
// finalized column: bool for bit, int64 for integer widths, exact string
// for decimal, float64 for float, time.Time for date/datetime, normalized
// string for time-of-day, string for text. Nulls pass through as nil.
//
// A value that cannot convert losslessly is an InvalidColumnValueError;
// the caller fills in the table name.
func Value(v any, col core.Column, opts Options) (any, error) {
	if isNull(v) {
		return nil, nil
	}
	invalid := func() error {
		return &core.InvalidColumnValueError{Column: col.Name, Value: v, Type: col.Type}
	}

	switch col.Type {
	case core.Bit:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		if !bitValue(v, opts) {
			return nil, invalid()
		}
		return truthyBit(v), nil

	case core.TinyInt, core.SmallInt, core.Int, core.BigInt:
		if !candidateFor(col.Type)(v, opts) {
			return nil, invalid()
		}
		n, _ := parseInt(v)
		return n, nil

	case core.Time:
		if !timeValue(v, opts) {
			return nil, invalid()
		}
		return timeOfDayString(v), nil

	case core.Date, core.DateTime:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			s := trimmed(x)
			if t, ok := parseTemporal(s); ok {
				return t, nil
			}
			// Time-of-day values land in datetime columns on the
			// reference date.
			if col.Type == core.DateTime {
				for _, layout := range timeLayouts {
					if t, err := time.Parse(layout, s); err == nil {
						return time.Date(referenceDate.Year(), referenceDate.Month(), referenceDate.Day(),
							t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
					}
				}
			}
			return nil, invalid()
		default:
			return nil, invalid()
		}

	case core.Decimal:
		if !decimalValue(v, opts) {
			return nil, invalid()
		}
		if s, ok := v.(string); ok {
			return trimmed(s), nil
		}
		n, _ := asInt64(v)
		return strconv.FormatInt(n, 10), nil

	case core.Float:
		if !floatValue(v, opts) {
			return nil, invalid()
		}
		if s, ok := v.(string); ok {
			f, _ := strconv.ParseFloat(trimmed(s), 64)
			return f, nil
		}
		f, _ := asFloat64(v)
		return f, nil

	case core.VarChar, core.Text:
		if s, ok := v.(string); ok {
			s = trimmed(s)
			if col.Type == core.VarChar && col.Size > 0 && displayLen(s) > col.Size {
				return nil, invalid()
			}
			return s, nil
		}
		return fmt.Sprint(v), nil

	default:
		return nil, invalid()
	}
}

// candidateFor looks up the value predicate for a ranked type.
func candidateFor(t core.Type) func(any, Options) bool {
	for _, c := range candidates {
		if c.typ == t {
			return c.value
		}
	}
	return func(any, Options) bool { return false }
}

// timeOfDayString normalizes a time-feasible value to HH:MM:SS[.fffffffff].
func timeOfDayString(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("15:04:05.999999999")
	}
	s := trimmed(v.(string))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05.999999999")
		}
	}
	if t, ok := parseTemporal(s); ok {
		return t.Format("15:04:05.999999999")
	}
	return s
}

// Row converts one batch row to bind parameters for the given columns,
// in column order. Column names absent from the row map to nil.
func Row(batch core.Batch, rowIdx int, columns []core.Column, opts Options) ([]any, error) {
	out := make([]any, 0, len(columns))
	for _, col := range columns {
		idx := batch.ColumnIndex(col.Name)
		if idx < 0 {
			out = append(out, nil)
			continue
		}
		v, err := Value(batch.Rows[rowIdx][idx], col, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// RoundTrip re-renders a converted value as text, used by tests to verify
// the lossless round-trip property.
func RoundTrip(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		if midnight(x) {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05.999999999")
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return strings.TrimSuffix(x, ".000000000")
	default:
		return fmt.Sprint(x)
	}
}
