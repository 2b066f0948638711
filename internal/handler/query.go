package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// parseTransactionFilters reads the filter specification from the query
// string. Unknown type, category and sort values are kept as sent; the
// filter engine ignores them. Malformed dates, amounts and page numbers
// are rejected.
func parseTransactionFilters(c echo.Context) (domain.TransactionFilters, error) {
	f := domain.TransactionFilters{
		Type:      c.QueryParam("type"),
		Category:  c.QueryParam("category"),
		Search:    strings.TrimSpace(c.QueryParam("search")),
		Tags:      splitList(c.QueryParam("tags")),
		SortBy:    domain.SortField(c.QueryParam("sortBy")),
		SortOrder: domain.SortOrder(c.QueryParam("sortOrder")),
	}

	var err error
	if f.StartDate, err = queryDate(c, "startDate"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(c, "endDate"); err != nil {
		return f, err
	}
	if f.MinAmount, err = queryDecimal(c, "minAmount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = queryDecimal(c, "maxAmount"); err != nil {
		return f, err
	}
	if f.Page, err = queryInt(c, "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = queryInt(c, "pageSize"); err != nil {
		return f, err
	}
	return f, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	t, err := util.ParseISODate(raw)
	if err != nil {
		return nil, domain.NewFieldError(name, domain.ErrInvalidDate)
	}
	return &t, nil
}

// requiredDate parses a mandatory YYYY-MM-DD query parameter.
func requiredDate(c echo.Context, name string) (time.Time, error) {
	t, err := queryDate(c, name)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, domain.NewFieldError(name, domain.ErrDateRequired)
	}
	return *t, nil
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.NewFieldError(name, domain.ErrInvalidAmount)
	}
	return &d, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewFieldError(name, domain.ErrInvalidInput)
	}
	return n, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(c echo.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewFieldError(name, domain.ErrInvalidInput)
	}
	return &b, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitCategories(raw string) []domain.Category {
	items := splitList(raw)
	if items == nil {
		return nil
	}
	out := make([]domain.Category, len(items))
	for i, item := range items {
		out[i] = domain.Category(item)
	}
	return out
}
