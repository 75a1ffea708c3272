package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterFromQueryDefaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, DefaultPageSize, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Filter)
}

func TestParseFilterFromQueryPagination(t *testing.T) {
	query, err := url.ParseQuery("pagina=3&registrosPorPagina=20")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(query)

	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, 40, filter.Offset)
}

func TestParseFilterFromQueryCapsPageSize(t *testing.T) {
	query, _ := url.ParseQuery("registrosPorPagina=5000")

	filter := ParseFilterFromQuery(query)

	assert.Equal(t, MaxPageSize, filter.Limit)
}

func TestParseFilterFromQueryIgnoresInvalidPagination(t *testing.T) {
	query, _ := url.ParseQuery("pagina=abc&registrosPorPagina=-5")

	filter := ParseFilterFromQuery(query)

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, DefaultPageSize, filter.Limit)
}

func TestParseFilterFromQueryFilterKeys(t *testing.T) {
	query, _ := url.ParseQuery("filter[categoria_id]=2&filter[estado]=PENDING&search=PSG")

	filter := ParseFilterFromQuery(query)

	assert.Equal(t, "2", filter.Filter["categoria_id"])
	assert.Equal(t, "PENDING", filter.Filter["estado"])
	assert.Equal(t, "PSG", filter.Search)
}

func TestParseFilterFromQuerySort(t *testing.T) {
	query, _ := url.ParseQuery("sort=-created_at")
	filter := ParseFilterFromQuery(query)
	assert.Equal(t, "desc", filter.Sort["created_at"])

	query, _ = url.ParseQuery("sort=name")
	filter = ParseFilterFromQuery(query)
	assert.Equal(t, "asc", filter.Sort["name"])
}

func TestParseUint64Slice(t *testing.T) {
	ids, err := ParseUint64Slice([]string{"1", "42", ""})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 42}, ids)

	_, err = ParseUint64Slice([]string{"1", "x"})
	assert.Error(t, err)

	ids, err = ParseUint64Slice(nil)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestBuildPagination(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})
	p := BuildPagination(25, filter)

	assert.Equal(t, uint64(25), p.TotalRecords)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
}

func TestBuildPaginationEmpty(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})
	p := BuildPagination(0, filter)

	assert.Equal(t, 0, p.TotalPages)
}
