// Package export encodes transactions, budgets and goals as delimited text.
package export

import (
	"strings"
)

// Column names a field and extracts its rendered value from a row.
type Column[T any] struct {
	Header string
	Value  func(row T) string
}

// Options controls encoding.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// Encode renders rows as a header line followed by one line per row.
// Lines are joined with "\n" and there is no trailing newline.
func Encode[T any](rows []T, columns []Column[T], opts Options) string {
	delim := opts.delimiter()
	sep := string(delim)

	var b strings.Builder
	fields := make([]string, len(columns))

	for i, col := range columns {
		fields[i] = quote(col.Header, delim)
	}
	b.WriteString(strings.Join(fields, sep))

	for _, row := range rows {
		for i, col := range columns {
			fields[i] = quote(col.Value(row), delim)
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(fields, sep))
	}
	return b.String()
}

// quote wraps v in double quotes when it holds the delimiter, a quote or
// a line break, doubling any inner quotes.
func quote(v string, delim rune) string {
	if !strings.ContainsRune(v, delim) && !strings.ContainsAny(v, "\"\r\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
