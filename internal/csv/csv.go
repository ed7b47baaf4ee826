// Package csv provides the line-level wire format used for student import
// and export: delimiter detection, a quote-aware splitter, header name
// normalisation and RFC 4180 style field quoting.
//
// The standard encoding/csv reader is not used for import because the
// delimiter is detected from the header and malformed quoting must be
// tolerated per row instead of aborting the whole file.
package csv

import (
	"strings"
	"unicode"
)

// Supported field delimiters.
const (
	Comma     = ','
	Semicolon = ';'
)

// DetectDelimiter picks the delimiter that occurs most often in the header
// line. Ties, including a header with neither, favour the comma.
func DetectDelimiter(header string) rune {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return Semicolon
	}
	return Comma
}

// SplitLine splits a single line on delim, honouring double quotes.
//
// A quote toggles the "inside quotes" state and the delimiter only separates
// fields outside quotes. Inside quotes a doubled quote yields one literal
// quote. Fields are returned trimmed of surrounding whitespace.
func SplitLine(line string, delim rune) []string {
	var (
		fields   []string
		b        strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				b.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))

	return fields
}

// CleanHeader normalises a header cell for matching: lower-cased with every
// whitespace rune removed, so "Student Id" and "studentid" compare equal.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

// HeaderIndex maps normalised column names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from the header cells. When a name
// repeats, the first occurrence wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := CleanHeader(h)
		if key == "" {
			continue
		}
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

// Lookup returns the index of the first name present in the header.
func (h HeaderIndex) Lookup(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := h[CleanHeader(n)]; ok {
			return i, true
		}
	}
	return 0, false
}

// Field returns the trimmed cell for the first matching name, or "" when the
// column is absent or the row is short.
func (h HeaderIndex) Field(row []string, names ...string) (string, bool) {
	i, ok := h.Lookup(names...)
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

// QuoteField returns v ready to be written as a comma-delimited cell. Values
// containing a comma, quote, CR or LF are wrapped in quotes with internal
// quotes doubled.
func QuoteField(v string) string {
	if !strings.ContainsAny(v, ",\"\r\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// JoinRow quotes and comma-joins a row of cells.
func JoinRow(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = QuoteField(c)
	}
	return strings.Join(quoted, ",")
}

// IsBlank reports whether a line has no non-whitespace content.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
