// Package validation holds the input rules shared by every entry point.
// Interactive callers may run the same checks for early feedback; the
// service layer always runs them before touching storage.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"

	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/shopspring/decimal"
)

// Violations maps a field name to a human-readable problem. A non-empty
// Violations is an error matching errors.ErrInvalidInput.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return fmt.Sprintf("%v: %s", e.ErrInvalidInput, strings.Join(parts, "; "))
}

func (v Violations) Is(target error) bool { return target == e.ErrInvalidInput }

// Merge copies the entries of other that v does not already report.
func (v Violations) Merge(other Violations) Violations {
	for f, msg := range other {
		if _, ok := v[f]; !ok {
			v[f] = msg
		}
	}
	return v
}

// Err returns nil when there is nothing to report.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

// NormalizeKey canonicalizes a value used as a uniqueness key: surrounding
// and inner whitespace removed, upper-cased, path separators replaced.
func NormalizeKey(key string) string {
	key = strings.Join(strings.Fields(key), "")
	key = strings.ToUpper(key)
	return strings.NewReplacer("/", "_", "\\", "_").Replace(key)
}

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MaxLength(field, value string, max int, v Violations) {
	if len(value) > max {
		v[field] = fmt.Sprintf("must be at most %d characters", max)
	}
}

func RangeDecimal(field string, val, minVal, maxVal decimal.Decimal, v Violations) {
	if val.LessThan(minVal) || val.GreaterThan(maxVal) {
		v[field] = fmt.Sprintf("must be between %s and %s", minVal, maxVal)
	}
}

func NonNegative(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = "must not be negative"
	}
}

// Numeric rejects values a decimal(precision, scale) column would round or
// overflow. An earlier violation on the field is kept.
func Numeric(field string, val decimal.Decimal, precision, scale int32, v Violations) {
	if v[field] != "" {
		return
	}
	if !val.Equal(val.Round(scale)) {
		v[field] = fmt.Sprintf("must have at most %d decimal places", scale)
		return
	}
	if val.Abs().GreaterThanOrEqual(decimal.New(1, precision-scale)) {
		v[field] = "out of range"
	}
}

func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v[field] = "must be a valid email address"
	}
}

func HTTPURL(field, value string, v Violations) {
	if value == "" {
		return
	}
	u, err := url.ParseRequestURI(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v[field] = "must be an http(s) URL"
	}
}

// Currency upper-cases *code, defaults it, and checks it is three letters.
func Currency(field string, code *string, fallback string, v Violations) {
	*code = strings.ToUpper(*code)
	if *code == "" {
		*code = fallback
		return
	}
	if len(*code) != 3 || strings.Trim(*code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		v[field] = "must be a 3-letter currency code"
	}
}

// OneOf canonicalizes *val against allowed, case-insensitively. An empty
// value takes fallback.
func OneOf[T ~string](field string, val *T, allowed []T, fallback T, v Violations) {
	if *val == "" {
		*val = fallback
		return
	}
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if strings.EqualFold(string(*val), string(a)) {
			*val = a
			return
		}
		names = append(names, string(a))
	}
	v[field] = "must be one of " + strings.Join(names, ", ")
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// normalizeSet trims, drops empty entries and removes duplicates, keeping
// first-seen order.
func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, s := range values {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func trimSet(values *[]string) {
	if values != nil {
		*values = normalizeSet(*values)
	}
}

// DefaultCurrency is used when a record names none.
const DefaultCurrency = "THB"
