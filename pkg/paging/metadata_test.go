package paging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadataInvariants(t *testing.T) {
	for total := 0; total <= 50; total++ {
		for size := 1; size <= 7; size++ {
			wantPages := 0
			if total > 0 {
				wantPages = (total + size - 1) / size
			}
			for page := 1; page <= wantPages+1; page++ {
				m := NewMetadata(page, size, total)
				assert.Equal(t, wantPages, m.TotalPages)
				assert.Equal(t, page > 1, m.HasPreviousPage)
				assert.Equal(t, page < wantPages, m.HasNextPage)
			}
		}
	}
}

func TestNewMetadataClamps(t *testing.T) {
	m := NewMetadata(0, 0, -5)
	assert.Equal(t, 1, m.PageNumber)
	assert.Equal(t, 1, m.PageSize)
	assert.Equal(t, 0, m.TotalCount)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasPreviousPage)
	assert.False(t, m.HasNextPage)
}

func TestMetadataUnmarshalAcceptsBothCasings(t *testing.T) {
	cases := []string{
		`{"pageNumber":3,"pageSize":10,"totalCount":95,"totalPages":10,"hasPreviousPage":true,"hasNextPage":true}`,
		`{"PageNumber":3,"PageSize":10,"TotalCount":95,"TotalPages":10,"HasPreviousPage":true,"HasNextPage":true}`,
	}
	for _, payload := range cases {
		var m Metadata
		require.NoError(t, json.Unmarshal([]byte(payload), &m))
		assert.Equal(t, 3, m.PageNumber)
		assert.Equal(t, 10, m.PageSize)
		assert.Equal(t, 95, m.TotalCount)
		assert.Equal(t, 10, m.TotalPages)
		assert.True(t, m.HasPreviousPage)
		assert.True(t, m.HasNextPage)
	}
}

func TestSortUnmarshalAcceptsBothCasings(t *testing.T) {
	for _, payload := range []string{
		`{"sortBy":"name","sortDirection":"desc"}`,
		`{"SortBy":"name","SortDirection":"desc"}`,
	} {
		var s Sort
		require.NoError(t, json.Unmarshal([]byte(payload), &s))
		assert.Equal(t, "name", s.SortBy)
		assert.Equal(t, "desc", s.SortDirection)
	}
}

func TestNormalizeDirection(t *testing.T) {
	assert.Equal(t, Descending, NormalizeDirection("DESC"))
	assert.Equal(t, Descending, NormalizeDirection("desc"))
	assert.Equal(t, Ascending, NormalizeDirection("asc"))
	assert.Equal(t, Ascending, NormalizeDirection(""))
	assert.Equal(t, Ascending, NormalizeDirection("sideways"))
}
