package handler

import (
	"net/http"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// GetBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Param active query bool false "Only active or inactive budgets"
// @Param category query string false "Budgets covering this category"
// @Param period query string false "monthly, quarterly, yearly or custom"
// @Success 200 {array} api.Budget
// @Failure 400 {object} api.ErrorResponse
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	active, err := queryBool(c, "active")
	if err != nil {
		return respondError(c, err)
	}

	budgets, err := h.budgetService.ListBudgets(c.Request().Context(), service.BudgetFilter{
		Active:   active,
		Category: domain.Category(c.QueryParam("category")),
		Period:   domain.BudgetPeriod(c.QueryParam("period")),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewBudgets(budgets))
}

// GetBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} api.Budget
// @Failure 404 {object} api.ErrorResponse
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	budget, err := h.budgetService.GetBudget(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewBudget(budget))
}

// CreateBudget godoc
// @Summary Create a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body api.CreateBudgetRequest true "Budget"
// @Success 201 {object} api.Budget
// @Failure 400 {object} api.ErrorResponse
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	var req api.CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	input, err := req.ToDomain()
	if err != nil {
		return respondError(c, err)
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	log.Info().
		Str("budget_id", budget.ID).
		Str("period", string(budget.Period)).
		Msg("Budget created")

	return c.JSON(http.StatusCreated, api.NewBudget(budget))
}

// UpdateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body api.UpdateBudgetRequest true "Fields to change"
// @Success 200 {object} api.Budget
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	var req api.UpdateBudgetRequest
	if err := bindStrict(c, &req); err != nil {
		return invalidBody(c, err)
	}

	budget, err := h.budgetService.UpdateBudget(c.Request().Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewBudget(budget))
}

// UpdateSpent godoc
// @Summary Set the amount spent against a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body api.UpdateSpentRequest true "Spent amount"
// @Success 200 {object} api.Budget
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /budgets/{id}/spent [put]
func (h *BudgetHandler) UpdateSpent(c echo.Context) error {
	var req api.UpdateSpentRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}
	if req.Spent == nil {
		return respondError(c, domain.NewFieldError("spent", domain.ErrAmountRequired))
	}

	budget, err := h.budgetService.UpdateSpent(c.Request().Context(), c.Param("id"), req.Spent.Decimal)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewBudget(budget))
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param id path string true "Budget ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	if err := h.budgetService.DeleteBudget(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkDeleteBudgets godoc
// @Summary Delete several budgets
// @Tags budgets
// @Accept json
// @Param request body api.IDsRequest true "Budget IDs"
// @Success 204
// @Router /budgets/bulk-delete [post]
func (h *BudgetHandler) BulkDeleteBudgets(c echo.Context) error {
	var req api.IDsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.budgetService.DeleteBudgets(c.Request().Context(), req.IDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetOverBudget godoc
// @Summary Budgets whose spending exceeds their amount
// @Tags budgets
// @Produce json
// @Success 200 {array} api.Budget
// @Router /budgets/over [get]
func (h *BudgetHandler) GetOverBudget(c echo.Context) error {
	budgets, err := h.budgetService.GetOverBudget(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewBudgets(budgets))
}

// GetNearLimit godoc
// @Summary Budgets close to their limit
// @Tags budgets
// @Produce json
// @Param threshold query int false "Usage percentage, 1 to 100 (default 80)"
// @Success 200 {array} api.Budget
// @Failure 400 {object} api.ErrorResponse
// @Router /budgets/near-limit [get]
func (h *BudgetHandler) GetNearLimit(c echo.Context) error {
	threshold, err := queryInt(c, "threshold")
	if err != nil {
		return respondError(c, err)
	}

	budgets, err := h.budgetService.GetNearLimit(c.Request().Context(), threshold)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewBudgets(budgets))
}

// SyncSpending godoc
// @Summary Recompute budget spending from transactions
// @Tags budgets
// @Produce json
// @Success 200 {object} service.SyncResult
// @Router /budgets/sync [post]
func (h *BudgetHandler) SyncSpending(c echo.Context) error {
	result, err := h.budgetService.SyncSpending(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	log.Info().
		Int("checked", result.Checked).
		Int("updated", result.Updated).
		Int("over_budget", len(result.OverBudget)).
		Msg("Budget spending synced on request")

	return c.JSON(http.StatusOK, result)
}
