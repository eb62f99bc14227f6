package infer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// referenceDate disambiguates time strings from genuine date/time strings:
// a value is time-feasible only when any date component it parses with
// equals this single fixed date.
var referenceDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// trailingZeroDecimals strips decimal tails like ".0" or ".000" so values
// such as "2.0" stay integer-feasible.
var trailingZeroDecimals = regexp.MustCompile(`\.0+$`)

// decimalPattern captures sign, integer digits, and fractional digits of
// an exact decimal; scientific notation deliberately does not match.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+)(?:\.(\d*))?$|^[+-]?\.(\d+)$`)

func trimmed(s string) string { return strings.TrimSpace(s) }

// displayLen is the rune length of a value's string form, used to size
// bounded text columns.
func displayLen(v any) int {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(trimmed(s))
	}
	return utf8.RuneCountInString(fmt.Sprint(v))
}

// truthyBit reports whether a non-bool value represents boolean true.
func truthyBit(v any) bool {
	switch x := v.(type) {
	case string:
		s := strings.ToLower(trimmed(x))
		return s == "1" || s == "true"
	case int, int8, int16, int32, int64:
		n, _ := asInt64(v)
		return n == 1
	case float32, float64:
		f, _ := asFloat64(x)
		return f == 1
	}
	return false
}

// asInt64 converts native numeric values to int64 without loss.
func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float32:
		return asInt64(float64(x))
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		if n, ok := asInt64(v); ok {
			return float64(n), true
		}
	}
	return 0, false
}

// parseInt extracts an integer from a batch value, also accepting string
// forms with zero-valued decimal tails ("2.0").
func parseInt(v any) (int64, bool) {
	switch x := v.(type) {
	case string:
		s := trailingZeroDecimals.ReplaceAllString(trimmed(x), "")
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case bool, time.Time:
		return 0, false
	default:
		return asInt64(v)
	}
}

func intInRange(v any, min, max int64) bool {
	n, ok := parseInt(v)
	return ok && n >= min && n <= max
}

func bitValue(v any, _ Options) bool {
	switch x := v.(type) {
	case bool:
		return true
	case string:
		switch strings.ToLower(trimmed(x)) {
		case "0", "1", "true", "false":
			return true
		}
		return false
	case time.Time:
		return false
	default:
		n, ok := asInt64(v)
		return ok && (n == 0 || n == 1)
	}
}

// bitColumn guards against calling every small integer column boolean: a
// non-native column is bit only when a true value occurs and there are
// more than two non-null values.
func bitColumn(p *profile, _ Options) bool {
	if p.nativeBool {
		return true
	}
	return p.trueSeen && p.nonNull > 2
}

func tinyIntValue(v any, _ Options) bool  { return intInRange(v, 0, 255) }
func smallIntValue(v any, _ Options) bool { return intInRange(v, math.MinInt16, math.MaxInt16) }
func intValue(v any, _ Options) bool      { return intInRange(v, math.MinInt32, math.MaxInt32) }
func bigIntValue(v any, _ Options) bool   { return intInRange(v, math.MinInt64, math.MaxInt64) }

var timeLayouts = []string{
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// parseTemporal tries datetime layouts first, then bare dates.
func parseTemporal(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sameDate(t time.Time, ref time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func midnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}

func timeValue(v any, _ Options) bool {
	switch x := v.(type) {
	case string:
		s := trimmed(x)
		for _, layout := range timeLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return true
			}
		}
		// Full temporal values whose date component is the fixed
		// reference date still count as time-of-day.
		if t, ok := parseTemporal(s); ok {
			return sameDate(t, referenceDate)
		}
		return false
	case time.Time:
		return sameDate(x, referenceDate)
	default:
		return false
	}
}

func dateValue(v any, _ Options) bool {
	switch x := v.(type) {
	case string:
		t, ok := parseTemporal(trimmed(x))
		return ok && midnight(t)
	case time.Time:
		return midnight(x)
	default:
		return false
	}
}

func dateTimeValue(v any, _ Options) bool {
	switch x := v.(type) {
	case string:
		_, ok := parseTemporal(trimmed(x))
		return ok
	case time.Time:
		return true
	default:
		return false
	}
}

// decimalDigits splits an exact-decimal string into significant integer
// digit and fractional digit counts. Trailing fractional zeros do not
// count against the scale.
func decimalDigits(s string) (intDigits, fracDigits int, ok bool) {
	m := decimalPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	whole, frac := m[1], m[2]
	if m[3] != "" { // leading-dot form like ".5"
		frac = m[3]
	}
	whole = strings.TrimLeft(whole, "0")
	frac = strings.TrimRight(frac, "0")
	intDigits = len(whole)
	if intDigits == 0 {
		intDigits = 1
	}
	return intDigits, len(frac), true
}

// decimalValue enforces the exact-decimal digit budget: the fractional
// part may not exceed the allotted scale, detected by pattern rather than
// by rounding.
func decimalValue(v any, opts Options) bool {
	switch x := v.(type) {
	case string:
		intDigits, fracDigits, ok := decimalDigits(trimmed(x))
		if !ok {
			return false
		}
		return intDigits <= opts.DecimalPrecision-opts.DecimalScale &&
			fracDigits <= opts.DecimalScale
	case bool, time.Time, float32, float64:
		return false
	default:
		n, ok := asInt64(v)
		if !ok {
			return false
		}
		return len(strconv.FormatInt(abs64(n), 10)) <= opts.DecimalPrecision-opts.DecimalScale
	}
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func floatValue(v any, _ Options) bool {
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(trimmed(x), 64)
		return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case bool, time.Time:
		return false
	default:
		_, ok := asFloat64(v)
		return ok
	}
}
