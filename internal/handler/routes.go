package handler

import (
	"net/http"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Transaction *TransactionHandler
	Attachment  *AttachmentHandler
	Stats       *StatsHandler
	Budget      *BudgetHandler
	Goal        *GoalHandler
	Settings    *SettingsHandler
	Export      *ExportHandler
	WebSocket   *WebSocketHandler
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} api.HealthResponse
// @Router /health [get]
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// RegisterRoutes sets up all API routes. apiMiddleware is applied to the
// /api group only.
func RegisterRoutes(e *echo.Echo, h Handlers, apiMiddleware ...echo.MiddlewareFunc) {
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/swagger/index.html")
	})
	e.GET("/health", Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", ServeOpenAPI3Spec)

	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}

	apiRoutes := e.Group("/api", apiMiddleware...)

	// Transaction routes
	transactions := apiRoutes.Group("/transactions")
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.POST("/bulk-delete", h.Transaction.BulkDeleteTransactions)
	transactions.POST("/import", h.Transaction.ImportTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
	transactions.POST("/:id/attachments", h.Attachment.UploadAttachment)
	transactions.DELETE("/:id/attachments/:attachmentId", h.Attachment.DeleteAttachment)

	// Stats routes
	stats := apiRoutes.Group("/stats")
	stats.GET("", h.Stats.GetSummary)
	stats.GET("/detailed", h.Stats.GetDetailed)
	stats.GET("/compare", h.Stats.Compare)
	stats.GET("/spending", h.Stats.GetSpending)

	// Budget routes
	budgets := apiRoutes.Group("/budgets")
	budgets.GET("", h.Budget.GetBudgets)
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("/over", h.Budget.GetOverBudget)
	budgets.GET("/near-limit", h.Budget.GetNearLimit)
	budgets.POST("/sync", h.Budget.SyncSpending)
	budgets.POST("/bulk-delete", h.Budget.BulkDeleteBudgets)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)
	budgets.PUT("/:id/spent", h.Budget.UpdateSpent)

	// Goal routes
	goals := apiRoutes.Group("/goals")
	goals.GET("", h.Goal.GetGoals)
	goals.POST("", h.Goal.CreateGoal)
	goals.POST("/bulk-delete", h.Goal.BulkDeleteGoals)
	goals.GET("/:id", h.Goal.GetGoal)
	goals.PUT("/:id", h.Goal.UpdateGoal)
	goals.DELETE("/:id", h.Goal.DeleteGoal)
	goals.POST("/:id/contribute", h.Goal.Contribute)
	goals.POST("/:id/milestones", h.Goal.AddMilestone)
	goals.PUT("/:id/milestones/:milestoneId/toggle", h.Goal.ToggleMilestone)
	goals.DELETE("/:id/milestones/:milestoneId", h.Goal.RemoveMilestone)

	// Settings routes
	apiRoutes.GET("/settings", h.Settings.GetSettings)
	apiRoutes.PUT("/settings", h.Settings.UpdateSettings)
	apiRoutes.DELETE("/settings", h.Settings.ResetSettings)
	apiRoutes.GET("/filters", h.Settings.GetFilters)
	apiRoutes.PUT("/filters", h.Settings.SaveFilters)
	apiRoutes.DELETE("/filters", h.Settings.ResetFilters)

	// Export routes
	export := apiRoutes.Group("/export")
	export.GET("/transactions", h.Export.ExportTransactions)
	export.GET("/budgets", h.Export.ExportBudgets)
	export.GET("/goals", h.Export.ExportGoals)
}
