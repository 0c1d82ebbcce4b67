// Package gluer binds plain data records onto HTML templates and wires
// delegated event handlers to the rows it renders. Templates declare
// bindings with data-* marker attributes; rendered rows carry opaque
// bone tags that the delegation registry matches events against.
package gluer

import (
	"strings"
	"unicode"
)

// Item is one record to render: field name to scalar value (string,
// number, bool or time-like). Keys are canonically lowerCamelCase;
// use NewItem to normalize records arriving with PascalCase keys.
type Item map[string]interface{}

// NewItem copies raw into an Item with every key normalized to
// lowerCamelCase. Normalization happens once here, at the decode
// boundary, so lookups never have to probe multiple casings.
func NewItem(raw map[string]interface{}) Item {
	item := make(Item, len(raw))
	for k, v := range raw {
		item[camelKey(k)] = v
	}
	return item
}

// Field returns the value for a field name given in either casing.
func (it Item) Field(name string) (interface{}, bool) {
	if v, ok := it[name]; ok {
		return v, true
	}
	v, ok := it[camelKey(name)]
	return v, ok
}

// camelKey lowercases the leading rune: "IsActive" -> "isActive".
func camelKey(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// hyphensToCamel converts a hyphenated attribute name to a camelCase
// key: "member-id" -> "memberId".
func hyphensToCamel(s string) string {
	parts := strings.Split(s, "-")
	var sb strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			sb.WriteString(p)
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}
	return sb.String()
}
