// Package paging provides pagination metadata and a headless pagination
// controller: windowed page controls, URL/history synchronization and
// optional column-sort header wiring.
package paging

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Sort directions. The sort column itself is an opaque string validated
// against a server-side allow-list; the client never invents columns.
const (
	Ascending  = "asc"
	Descending = "desc"
)

// Metadata describes one page of a paginated result set. TotalPages,
// HasPreviousPage and HasNextPage are pure functions of the other
// fields; use NewMetadata to compute them.
type Metadata struct {
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// Sort is the sort half of a list response.
type Sort struct {
	SortBy        string `json:"sortBy"`
	SortDirection string `json:"sortDirection"`
}

// NewMetadata computes derived pagination fields. Page and size are
// clamped to at least 1; a zero total yields zero pages, treated as
// page 1 with no results.
func NewMetadata(page, size, total int) Metadata {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}
	return Metadata{
		PageNumber:      page,
		PageSize:        size,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
	}
}

// UnmarshalJSON accepts payloads keyed in either lowerCamelCase or
// PascalCase and normalizes once, here at the decode boundary.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	fields, err := camelFields(data)
	if err != nil {
		return err
	}
	type plain Metadata
	var p plain
	if err := unmarshalFields(fields, &p); err != nil {
		return err
	}
	*m = Metadata(p)
	return nil
}

// UnmarshalJSON accepts either key casing, like Metadata's.
func (s *Sort) UnmarshalJSON(data []byte) error {
	fields, err := camelFields(data)
	if err != nil {
		return err
	}
	type plain Sort
	var p plain
	if err := unmarshalFields(fields, &p); err != nil {
		return err
	}
	*s = Sort(p)
	return nil
}

func camelFields(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		fields[lowerFirst(k)] = v
	}
	return fields, nil
}

func unmarshalFields(fields map[string]json.RawMessage, dst interface{}) error {
	buf, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// NormalizeDirection maps any casing of "desc" to Descending and
// everything else to Ascending.
func NormalizeDirection(dir string) string {
	if strings.EqualFold(dir, Descending) {
		return Descending
	}
	return Ascending
}
