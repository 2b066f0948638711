package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FilterAll is the sentinel that disables the type and category filters.
const FilterAll = "all"

type SortField string

const (
	SortByDate        SortField = "date"
	SortByAmount      SortField = "amount"
	SortByDescription SortField = "description"
	SortByCategory    SortField = "category"
	SortByCreatedAt   SortField = "createdAt"
)

func (s SortField) IsValid() bool {
	switch s {
	case SortByDate, SortByAmount, SortByDescription, SortByCategory, SortByCreatedAt:
		return true
	}
	return false
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPageSize = 20
	MinPageSize     = 5
	MaxPageSize     = 100
)

// TransactionFilters is the filter specification applied to a collection.
// Type and Category hold raw values: "all", empty and unknown values
// disable the corresponding filter.
type TransactionFilters struct {
	Type      string           `json:"type,omitempty"`
	Category  string           `json:"category,omitempty"`
	StartDate *time.Time       `json:"startDate,omitempty"`
	EndDate   *time.Time       `json:"endDate,omitempty"`
	MinAmount *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount *decimal.Decimal `json:"maxAmount,omitempty"`
	Search    string           `json:"search,omitempty"`
	Tags      []string         `json:"tags,omitempty"`
	SortBy    SortField        `json:"sortBy,omitempty"`
	SortOrder SortOrder        `json:"sortOrder,omitempty"`
	Page      int              `json:"page,omitempty"`
	PageSize  int              `json:"pageSize,omitempty"`
}

// DefaultFilters returns the filters a fresh session starts with.
func DefaultFilters() TransactionFilters {
	return TransactionFilters{
		Type:      FilterAll,
		Category:  FilterAll,
		SortBy:    SortByDate,
		SortOrder: SortDesc,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

// TypeFilter returns the effective type filter and whether one applies.
func (f TransactionFilters) TypeFilter() (TransactionType, bool) {
	t := TransactionType(f.Type)
	return t, t.IsValid()
}

// CategoryFilter returns the effective category filter and whether one applies.
func (f TransactionFilters) CategoryFilter() (Category, bool) {
	c := Category(f.Category)
	return c, c.IsValid()
}

// Paginated reports whether both page and page size are set.
func (f TransactionFilters) Paginated() bool {
	return f.Page >= 1 && f.PageSize >= 1
}

// WithoutPagination returns a copy with paging cleared.
func (f TransactionFilters) WithoutPagination() TransactionFilters {
	f.Page = 0
	f.PageSize = 0
	return f
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the calendar date of t is within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(DateOnly(r.Start)) && !d.After(DateOnly(r.End))
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return NewFieldError("dateRange", ErrDateRequired)
	}
	if DateOnly(r.End).Before(DateOnly(r.Start)) {
		return NewFieldError("dateRange", ErrInvalidDateRange)
	}
	return nil
}
