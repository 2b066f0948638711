package handler

import (
	"net/http"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GetGoals godoc
// @Summary List goals
// @Tags goals
// @Produce json
// @Param status query string false "active, paused, completed or cancelled"
// @Param priority query string false "low, medium, high or critical"
// @Success 200 {array} api.Goal
// @Router /goals [get]
func (h *GoalHandler) GetGoals(c echo.Context) error {
	goals, err := h.goalService.ListGoals(c.Request().Context(), service.GoalFilter{
		Status:   domain.GoalStatus(c.QueryParam("status")),
		Priority: domain.GoalPriority(c.QueryParam("priority")),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewGoals(goals))
}

// GetGoal godoc
// @Summary Get a goal
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} api.Goal
// @Failure 404 {object} api.ErrorResponse
// @Router /goals/{id} [get]
func (h *GoalHandler) GetGoal(c echo.Context) error {
	goal, err := h.goalService.GetGoal(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewGoal(goal))
}

// CreateGoal godoc
// @Summary Create a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param request body api.CreateGoalRequest true "Goal"
// @Success 201 {object} api.Goal
// @Failure 400 {object} api.ErrorResponse
// @Router /goals [post]
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	var req api.CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	input, err := req.ToDomain()
	if err != nil {
		return respondError(c, err)
	}

	goal, err := h.goalService.CreateGoal(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	log.Info().Str("goal_id", goal.ID).Msg("Goal created")
	return c.JSON(http.StatusCreated, api.NewGoal(goal))
}

// UpdateGoal godoc
// @Summary Update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body api.UpdateGoalRequest true "Fields to change"
// @Success 200 {object} api.Goal
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	var req api.UpdateGoalRequest
	if err := bindStrict(c, &req); err != nil {
		return invalidBody(c, err)
	}

	goal, err := h.goalService.UpdateGoal(c.Request().Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewGoal(goal))
}

// DeleteGoal godoc
// @Summary Delete a goal
// @Tags goals
// @Param id path string true "Goal ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	if err := h.goalService.DeleteGoal(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkDeleteGoals godoc
// @Summary Delete several goals
// @Tags goals
// @Accept json
// @Param request body api.IDsRequest true "Goal IDs"
// @Success 204
// @Router /goals/bulk-delete [post]
func (h *GoalHandler) BulkDeleteGoals(c echo.Context) error {
	var req api.IDsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.goalService.DeleteGoals(c.Request().Context(), req.IDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Contribute godoc
// @Summary Add money to a goal
// @Description Completes reached milestones, and the goal once its target is met
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body api.ContributeRequest true "Amount"
// @Success 200 {object} api.Goal
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /goals/{id}/contribute [post]
func (h *GoalHandler) Contribute(c echo.Context) error {
	var req api.ContributeRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}
	if req.Amount == nil {
		return respondError(c, domain.NewFieldError("amount", domain.ErrAmountRequired))
	}

	goal, err := h.goalService.Contribute(c.Request().Context(), c.Param("id"), req.Amount.Decimal)
	if err != nil {
		return respondError(c, err)
	}

	log.Info().
		Str("goal_id", goal.ID).
		Str("amount", req.Amount.StringFixed(2)).
		Str("status", string(goal.Status)).
		Msg("Goal contribution")

	return c.JSON(http.StatusOK, api.NewGoal(goal))
}

// AddMilestone godoc
// @Summary Add a milestone
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body api.MilestoneRequest true "Milestone"
// @Success 201 {object} api.Goal
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /goals/{id}/milestones [post]
func (h *GoalHandler) AddMilestone(c echo.Context) error {
	var req api.MilestoneRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	milestone, err := req.ToDomain()
	if err != nil {
		return respondError(c, err)
	}

	goal, err := h.goalService.AddMilestone(c.Request().Context(), c.Param("id"), milestone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, api.NewGoal(goal))
}

// ToggleMilestone godoc
// @Summary Flip a milestone's completion
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Param milestoneId path string true "Milestone ID"
// @Success 200 {object} api.Goal
// @Failure 404 {object} api.ErrorResponse
// @Router /goals/{id}/milestones/{milestoneId}/toggle [put]
func (h *GoalHandler) ToggleMilestone(c echo.Context) error {
	goal, err := h.goalService.ToggleMilestone(c.Request().Context(), c.Param("id"), c.Param("milestoneId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewGoal(goal))
}

// RemoveMilestone godoc
// @Summary Remove a milestone
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Param milestoneId path string true "Milestone ID"
// @Success 200 {object} api.Goal
// @Failure 404 {object} api.ErrorResponse
// @Router /goals/{id}/milestones/{milestoneId} [delete]
func (h *GoalHandler) RemoveMilestone(c echo.Context) error {
	goal, err := h.goalService.RemoveMilestone(c.Request().Context(), c.Param("id"), c.Param("milestoneId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, api.NewGoal(goal))
}
