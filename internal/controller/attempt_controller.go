package controller

import (
	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// Start godoc
// @Summary Start or resume a quiz attempt
// @Description Runs the category access and tournament window gates.
// @Description Progress quizzes resume an active attempt; other types
// @Description abandon it and start fresh.
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Category id"
// @Param quizId path int true "Quiz id"
// @Success 201 {object} util.Response{data=model.AttemptView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/categories/{id}/quizzes/{quizId}/start [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	categoryID := util.MustParseUint(ctx.Param("id"))
	quizID := util.MustParseUint(ctx.Param("quizId"))
	if categoryID == 0 || quizID == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	view, err := c.AttemptService.StartAttempt(claims.UserID, categoryID, quizID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// CurrentQuestion godoc
// @Summary The attempt's current (first unanswered) question
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Attempt id"
// @Success 200 {object} util.Response{data=service.QuestionPayload}
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id}/question [get]
func (c *AttemptController) CurrentQuestion(ctx *gin.Context) {
	c.serveQuestion(ctx, 0)
}

// Question godoc
// @Summary One question of the attempt, by id
// @Description Correct answers are revealed only once the question has
// @Description been answered in this attempt.
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Attempt id"
// @Param questionId path int true "Question id"
// @Success 200 {object} util.Response{data=service.QuestionPayload}
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id}/question/{questionId} [get]
func (c *AttemptController) Question(ctx *gin.Context) {
	questionID := util.MustParseUint(ctx.Param("questionId"))
	if questionID == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	c.serveQuestion(ctx, questionID)
}

func (c *AttemptController) serveQuestion(ctx *gin.Context, questionID uint) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID := util.MustParseUint(ctx.Param("id"))
	if attemptID == 0 {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	payload, err := c.AttemptService.GetQuestion(claims.UserID, attemptID, questionID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, payload)
}

// SubmitAnswer godoc
// @Summary Submit an answer for one question
// @Description A question can be answered once per attempt; the attempt
// @Description completes when its last question is answered.
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Attempt id"
// @Param body body service.SubmitAnswerRequest true "Selection"
// @Success 200 {object} util.Response{data=service.SubmitAnswerResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/attempts/{id}/answer [post]
func (c *AttemptController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID := util.MustParseUint(ctx.Param("id"))
	if attemptID == 0 {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttemptService.SubmitAnswer(claims.UserID, attemptID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Navigation godoc
// @Summary Per-question answered map of the attempt
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Attempt id"
// @Success 200 {object} util.Response{data=service.NavigationView}
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id}/navigation [get]
func (c *AttemptController) Navigation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID := util.MustParseUint(ctx.Param("id"))
	if attemptID == 0 {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	view, err := c.AttemptService.GetNavigation(claims.UserID, attemptID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Results godoc
// @Summary Question-by-question review of a finished attempt
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Attempt id"
// @Success 200 {object} util.Response{data=service.ResultsView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id}/results [get]
func (c *AttemptController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID := util.MustParseUint(ctx.Param("id"))
	if attemptID == 0 {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	view, err := c.AttemptService.GetResults(claims.UserID, attemptID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// History godoc
// @Summary The caller's attempt history, newest first
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param type query string false "Filter by quiz type" Enums(standard, progress, tournament)
// @Param status query string false "Filter by status" Enums(started, in_progress, completed, abandoned)
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/my-attempts [get]
func (c *AttemptController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attempts, err := c.AttemptService.History(claims.UserID, ctx.Query("type"), ctx.Query("status"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
