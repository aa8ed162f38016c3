package dto

import (
	"github.com/noah-isme/employee-admin-client/internal/models"
)

// EmployeeFilter mirrors the service's EmployeeFilter input. Unset fields are
// omitted from the request.
type EmployeeFilter struct {
	Name   string `json:"name,omitempty"`
	Class  string `json:"class,omitempty"`
	MinAge *int   `json:"minAge,omitempty"`
	MaxAge *int   `json:"maxAge,omitempty"`
}

// Empty reports whether no filter criterion is set.
func (f EmployeeFilter) Empty() bool {
	return f.Name == "" && f.Class == "" && f.MinAge == nil && f.MaxAge == nil
}

// ListParams are the variables of the employees query. Page is one-based.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    models.SortField
	SortOrder models.SortOrder
	Filter    *EmployeeFilter
}

// ParamsFromState derives query variables from the list state.
func ParamsFromState(s models.ListQueryState) ListParams {
	params := ListParams{
		Page:      s.Page + 1,
		Limit:     s.PageSize,
		SortBy:    s.SortBy,
		SortOrder: s.SortOrder,
	}
	filter := EmployeeFilter{Name: s.AppliedSearch, Class: s.Class, MinAge: s.MinAge, MaxAge: s.MaxAge}
	if !filter.Empty() {
		params.Filter = &filter
	}
	return params
}

// Variables renders the params as GraphQL variables.
func (p ListParams) Variables() map[string]any {
	vars := map[string]any{
		"page":      p.Page,
		"limit":     p.Limit,
		"sortBy":    string(p.SortBy),
		"sortOrder": string(p.SortOrder),
	}
	if p.Filter != nil {
		vars["filter"] = p.Filter
	}
	return vars
}

// Equal reports whether p and o would issue the same query.
func (p ListParams) Equal(o ListParams) bool {
	if p.Page != o.Page || p.Limit != o.Limit || p.SortBy != o.SortBy || p.SortOrder != o.SortOrder {
		return false
	}
	if p.Filter == nil || o.Filter == nil {
		return p.Filter == nil && o.Filter == nil
	}
	return p.Filter.Name == o.Filter.Name &&
		p.Filter.Class == o.Filter.Class &&
		equalIntPtr(p.Filter.MinAge, o.Filter.MinAge) &&
		equalIntPtr(p.Filter.MaxAge, o.Filter.MaxAge)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
