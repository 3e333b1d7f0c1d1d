package pagescope

import (
	"fmt"
	"net/url"
)

// RawPager is intended for API payloads. Inline it into request filters:
//
//	type UserFilter struct {
//	    Paging pagescope.RawPager `json:",inline"`
//	    Name   string             `json:"name"`
//	}
//
// Page and PerPage are deliberately untyped: strings, JSON numbers and nil
// are all accepted and normalized the same way Scope.Page and Scope.Per do.
type RawPager struct {
	// Page - requested page number, 1 based.
	Page any `json:"page,omitempty"`
	// PerPage - requested number of records per page.
	PerPage any `json:"perPage,omitempty"`
	// Sort - orderings in ParseSort format, e.g. ["name", "-created_at"].
	Sort []string `json:"sort,omitempty"`
}

// RawPagerFromQuery reads page, per-page and sort parameters from a query
// string using the parameter names of cfg. Missing parameters stay nil.
func RawPagerFromQuery(values url.Values, cfg Config) RawPager {
	var raw RawPager

	if values.Has(cfg.pageParam()) {
		raw.Page = values.Get(cfg.pageParam())
	}
	if values.Has(cfg.perPageParam()) {
		raw.PerPage = values.Get(cfg.perPageParam())
	}
	raw.Sort = values["sort"]

	return raw
}

// Bind applies the raw request to scope. Nil fields, and page sizes that are
// not non-negative numbers, leave the scope as is. Sort entries are resolved
// through columnMapping; a nil mapping rejects any sort request.
func Bind[T any](scope *Scope[T], raw RawPager, columnMapping ColumnMapping) (*Scope[T], error) {
	if raw.Page != nil {
		scope = scope.Page(raw.Page)
	}
	if raw.PerPage != nil {
		scope = scope.Per(raw.PerPage)
	}

	if len(raw.Sort) == 0 {
		return scope, nil
	}

	orderings, err := ParseSort(raw.Sort, columnMapping)
	if err != nil {
		return nil, fmt.Errorf("cannot bind sort: %w", err)
	}

	return scope.Sort(orderings...), nil
}
