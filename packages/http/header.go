package http

import (
	"strings"
)

// HeaderField is a single name/value pair. Slices of HeaderField keep the
// order in which fields were written.
type HeaderField struct {
	Name  string
	Value string
}

// ParseHeaders turns a free-text block of "Key: Value" lines into header
// fields. Each line is split on its first colon and both halves are trimmed.
// Lines without a colon are dropped. Duplicates are kept in input order.
func ParseHeaders(raw string) []HeaderField {
	var fields []HeaderField
	for _, line := range strings.Split(raw, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields = append(fields, HeaderField{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return fields
}

// FormatHeaders renders fields back into the "Key: Value" block form.
func FormatHeaders(fields []HeaderField) string {
	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Value)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Lookup returns the last value stored under name, compared case-insensitively.
func Lookup(fields []HeaderField, name string) (string, bool) {
	value, found := "", false
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			value, found = f.Value, true
		}
	}
	return value, found
}
