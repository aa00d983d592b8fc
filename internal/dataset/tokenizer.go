package dataset

import "strings"

// SplitLine tokenizes one physical line of a data file.
//
// The accepted grammar is deliberately narrow: fields are separated by
// commas, a double quote toggles quoted mode in which commas are part of
// the field, and the quote characters themselves are not emitted. There
// is no escape sequence (a doubled "" is simply two toggles) and a
// record never spans physical lines. Surrounding whitespace is trimmed
// from every field after extraction.
func SplitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}
