package handler

import (
	"net/http"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// StatsHandler serves aggregated statistics
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetSummary godoc
// @Summary Totals over every transaction
// @Tags stats
// @Produce json
// @Success 200 {object} domain.StatsSummary
// @Router /stats [get]
func (h *StatsHandler) GetSummary(c echo.Context) error {
	summary, err := h.statsService.GetSummary(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GetDetailed godoc
// @Summary Detailed statistics
// @Description Statistics over the transactions matching the same filters as the list endpoint. Pagination is ignored.
// @Tags stats
// @Produce json
// @Param locale query string false "Locale for month labels"
// @Success 200 {object} domain.TransactionStats
// @Failure 400 {object} api.ErrorResponse
// @Router /stats/detailed [get]
func (h *StatsHandler) GetDetailed(c echo.Context) error {
	filters, err := parseTransactionFilters(c)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := h.statsService.GetDetailed(c.Request().Context(), filters, c.QueryParam("locale"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Compare godoc
// @Summary Compare two periods
// @Tags stats
// @Produce json
// @Param currentStart query string true "YYYY-MM-DD"
// @Param currentEnd query string true "YYYY-MM-DD"
// @Param previousStart query string true "YYYY-MM-DD"
// @Param previousEnd query string true "YYYY-MM-DD"
// @Param locale query string false "Locale for month labels"
// @Success 200 {object} domain.PeriodComparison
// @Failure 400 {object} api.ErrorResponse
// @Router /stats/compare [get]
func (h *StatsHandler) Compare(c echo.Context) error {
	current, err := dateRange(c, "currentStart", "currentEnd")
	if err != nil {
		return respondError(c, err)
	}
	previous, err := dateRange(c, "previousStart", "previousEnd")
	if err != nil {
		return respondError(c, err)
	}

	comparison, err := h.statsService.Compare(c.Request().Context(), current, previous, c.QueryParam("locale"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, comparison)
}

// GetSpending godoc
// @Summary Expenses per category in a date range
// @Tags stats
// @Produce json
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Param categories query string false "Comma separated categories"
// @Success 200 {object} map[string]number
// @Failure 400 {object} api.ErrorResponse
// @Router /stats/spending [get]
func (h *StatsHandler) GetSpending(c echo.Context) error {
	r, err := dateRange(c, "startDate", "endDate")
	if err != nil {
		return respondError(c, err)
	}

	spending, err := h.statsService.GetSpending(c.Request().Context(), splitCategories(c.QueryParam("categories")), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, spending)
}

func dateRange(c echo.Context, startParam, endParam string) (domain.DateRange, error) {
	start, err := requiredDate(c, startParam)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := requiredDate(c, endParam)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{Start: start, End: end}, nil
}
