package controller

import (
	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// History godoc
// @Summary Summary of the caller's completed attempts
// @Tags stats
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.HistorySummary}
// @Router /api/my-stats [get]
func (c *StatsController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	summary, err := c.StatsService.History(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// ErrorStats godoc
// @Summary Error statistics across all the caller's answers
// @Description Category and topic breakdowns are ordered worst-first by
// @Description error count.
// @Tags stats
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ErrorStatsReport}
// @Router /api/my-stats/errors [get]
func (c *StatsController) ErrorStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	report, err := c.StatsService.ErrorStats(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
