package models

// SortField enumerates the columns the list can be ordered by.
type SortField string

const (
	SortByName       SortField = "name"
	SortByAge        SortField = "age"
	SortByClass      SortField = "class"
	SortByAttendance SortField = "attendance"
)

// SortFields lists the sortable fields in display order.
var SortFields = []SortField{SortByName, SortByAge, SortByClass, SortByAttendance}

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	for _, known := range SortFields {
		if f == known {
			return true
		}
	}
	return false
}

// SortOrder is the sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// Valid reports whether o is ASC or DESC.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Toggle flips the direction.
func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// ListQueryState is the per-view list state. Page is zero-based. SearchText is
// what the user typed; AppliedSearch is what the last query used.
type ListQueryState struct {
	Page          int
	PageSize      int
	SortBy        SortField
	SortOrder     SortOrder
	SearchText    string
	AppliedSearch string
	Class         string
	MinAge        *int
	MaxAge        *int
}

// DefaultListQueryState returns the state a freshly mounted view starts with.
func DefaultListQueryState(pageSize int) ListQueryState {
	return ListQueryState{
		Page:      0,
		PageSize:  pageSize,
		SortBy:    SortByName,
		SortOrder: SortAsc,
	}
}
