package utils

import (
	"net/url"
	"strconv"
	"strings"

	"inventory-system/pkg/types"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ParseFilterFromQuery binds `pagina`, `registrosPorPagina`, `search`,
// `sort` and `filter[...]` query parameters into a Filter.
//
// Example: /api/articulo?search=PSG&sort=-created_at&filter[categoria_id]=2&pagina=2&registrosPorPagina=20
func ParseFilterFromQuery(query url.Values) types.Filter {
	filter := types.Filter{
		Filter: make(map[string]interface{}),
		Sort:   make(map[string]string),
		Limit:  DefaultPageSize,
		Page:   1,
	}

	for key, values := range query {
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") && len(values) > 0 {
			filterKey := key[7 : len(key)-1]
			filter.Filter[filterKey] = values[0]
		}
	}

	if sizeStr := query.Get("registrosPorPagina"); sizeStr != "" {
		if n, err := strconv.Atoi(sizeStr); err == nil && n > 0 {
			if n > MaxPageSize {
				n = MaxPageSize
			}
			filter.Limit = n
		}
	}
	if pageStr := query.Get("pagina"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filter.Page = p
		}
	}
	filter.Offset = (filter.Page - 1) * filter.Limit

	if search := query.Get("search"); search != "" {
		filter.Search = search
	}

	if sort := query.Get("sort"); sort != "" {
		if strings.HasPrefix(sort, "-") {
			filter.Sort[sort[1:]] = "desc"
		} else {
			filter.Sort[sort] = "asc"
		}
	}

	return filter
}

// ParseUint64Slice converts query-string id lists; trailing empty entries
// from a dangling comma are skipped.
func ParseUint64Slice(s []string) ([]uint64, error) {
	if len(s) == 0 {
		return nil, nil
	}
	result := make([]uint64, 0, len(s))
	for _, v := range s {
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, nil
}

// BuildPagination derives the page metadata for a list response.
func BuildPagination(total uint64, filter types.Filter) types.Pagination {
	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + uint64(filter.Limit) - 1) / uint64(filter.Limit))
	}
	return types.Pagination{
		TotalRecords: total,
		CurrentPage:  filter.Page,
		TotalPages:   totalPages,
	}
}
