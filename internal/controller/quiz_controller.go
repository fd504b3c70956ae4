package controller

import (
	"io"
	"path/filepath"
	"strings"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuizController struct {
	QuizService    *service.QuizService
	StorageService *service.StorageService
}

func NewQuizController(quizService *service.QuizService, storageService *service.StorageService) *QuizController {
	return &QuizController{QuizService: quizService, StorageService: storageService}
}

// ListByCategory godoc
// @Summary Quizzes of a category
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Category id"
// @Param type query string false "Filter by quiz type" Enums(standard, progress, tournament)
// @Success 200 {object} util.Response{data=[]model.QuizView}
// @Failure 404 {object} util.Response
// @Router /api/categories/{id}/quizzes [get]
func (c *QuizController) ListByCategory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	categoryID := util.MustParseUint(ctx.Param("id"))
	if categoryID == 0 {
		util.BadRequest(ctx, "invalid category id")
		return
	}
	views, err := c.QuizService.ListByCategory(categoryID, claims.UserID, ctx.Query("type"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// Get godoc
// @Summary Quiz detail within a category
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Category id"
// @Param quizId path int true "Quiz id"
// @Success 200 {object} util.Response{data=model.QuizView}
// @Failure 404 {object} util.Response
// @Router /api/categories/{id}/quizzes/{quizId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
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
	view, err := c.QuizService.GetInCategory(quizID, categoryID, claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// swagger:model QuizRequest
type QuizRequest struct {
	Title               string `json:"title" binding:"required"`
	Description         string `json:"description"`
	CategoryID          uint   `json:"categoryId" binding:"required"`
	QuizType            string `json:"quizType" binding:"omitempty,oneof=standard progress tournament"`
	Difficulty          string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	TimeLimit           int    `json:"timeLimit"`
	TournamentStartTime string `json:"tournamentStartTime"`
	TournamentEndTime   string `json:"tournamentEndTime"`
}

// Create godoc
// @Summary Create a quiz
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body QuizRequest true "Quiz fields"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz := &model.Quiz{
		Title:               req.Title,
		Description:         req.Description,
		CategoryID:          req.CategoryID,
		QuizType:            model.QuizType(req.QuizType),
		Difficulty:          model.QuizDifficulty(req.Difficulty),
		TimeLimit:           req.TimeLimit,
		TournamentStartTime: req.TournamentStartTime,
		TournamentEndTime:   req.TournamentEndTime,
	}
	if quiz.QuizType == "" {
		quiz.QuizType = model.QuizStandard
	}
	if err := c.QuizService.Create(quiz); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// Update godoc
// @Summary Update a quiz
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz id"
// @Param body body QuizRequest true "Quiz fields"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.QuizService.QuizRepo.FindByID(id)
	if err != nil {
		util.HandleServiceError(ctx, util.ErrQuizNotFound)
		return
	}
	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.CategoryID = req.CategoryID
	quiz.QuizType = model.QuizType(req.QuizType)
	quiz.Difficulty = model.QuizDifficulty(req.Difficulty)
	quiz.TimeLimit = req.TimeLimit
	quiz.TournamentStartTime = req.TournamentStartTime
	quiz.TournamentEndTime = req.TournamentEndTime
	if err := c.QuizService.Update(quiz); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary Delete a quiz
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz id"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	if err := c.QuizService.Delete(id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "quiz deleted"})
}

// UploadFile godoc
// @Summary Attach a PDF to a quiz
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz id"
// @Param file formData file true "PDF file"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/admin/quizzes/{id}/file [post]
func (c *QuizController) UploadFile(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	quiz, err := c.QuizService.QuizRepo.FindByID(id)
	if err != nil {
		util.HandleServiceError(ctx, util.ErrQuizNotFound)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType, err := util.ValidateMimeType(file, []string{util.MimePDF})
	if err != nil || !util.IsPDF(contentType) {
		util.BadRequest(ctx, "attachment must be a PDF")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	filename := "quizzes/" + uuid.NewString() + ext
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if quiz.FileURL != "" {
		_ = c.StorageService.Delete(ctx.Request.Context(), service.ObjectName(quiz.FileURL))
	}

	quiz.FileURL = url
	if err := c.QuizService.Update(quiz); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"fileUrl": url})
}

// swagger:model AnswerOptionRequest
type AnswerOptionRequest struct {
	AnswerText string `json:"answerText" binding:"required"`
	IsCorrect  bool   `json:"isCorrect"`
	Order      int    `json:"order"`
}

// swagger:model QuestionRequest
type QuestionRequest struct {
	QuestionText string                `json:"questionText" binding:"required"`
	QuestionType string                `json:"questionType" binding:"omitempty,oneof=single multiple key"`
	TopicID      uint                  `json:"topicId"`
	Explanation  string                `json:"explanation"`
	Score        int                   `json:"score"`
	CorrectKey   string                `json:"correctKey"`
	Order        int                   `json:"order"`
	Answers      []AnswerOptionRequest `json:"answers"`
}

// AddQuestion godoc
// @Summary Add a question to a quiz
// @Description Order is auto-assigned as max+1 within the quiz when omitted.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz id"
// @Param body body QuestionRequest true "Question fields"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/admin/quizzes/{id}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	if quizID == 0 {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := &model.Question{
		QuizID:       quizID,
		TopicID:      req.TopicID,
		QuestionText: req.QuestionText,
		QuestionType: model.QuestionType(req.QuestionType),
		Explanation:  req.Explanation,
		Score:        req.Score,
		CorrectKey:   req.CorrectKey,
		Order:        req.Order,
	}
	if question.QuestionType == "" {
		question.QuestionType = model.SingleChoice
	}
	if question.Score <= 0 {
		question.Score = 1
	}
	for _, opt := range req.Answers {
		question.Answers = append(question.Answers, model.AnswerOption{
			AnswerText: opt.AnswerText,
			IsCorrect:  opt.IsCorrect,
			Order:      opt.Order,
		})
	}

	if err := c.QuizService.AddQuestion(question); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Description Existing answer options are kept; only question fields change.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question id"
// @Param body body QuestionRequest true "Question fields"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/admin/questions/{id} [put]
func (c *QuizController) UpdateQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.QuizService.QuestionRepo.FindByID(id)
	if err != nil {
		util.HandleServiceError(ctx, util.ErrQuestionNotFound)
		return
	}
	question.QuestionText = req.QuestionText
	question.TopicID = req.TopicID
	question.Explanation = req.Explanation
	question.CorrectKey = req.CorrectKey
	if req.QuestionType != "" {
		question.QuestionType = model.QuestionType(req.QuestionType)
	}
	if req.Score > 0 {
		question.Score = req.Score
	}
	if req.Order > 0 {
		question.Order = req.Order
	}
	if err := c.QuizService.UpdateQuestion(question); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// AddOption godoc
// @Summary Add an answer option to a question
// @Description Order is auto-assigned as max+1 within the question when omitted.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question id"
// @Param body body AnswerOptionRequest true "Option fields"
// @Success 201 {object} util.Response{data=model.AnswerOption}
// @Router /api/admin/questions/{id}/options [post]
func (c *QuizController) AddOption(ctx *gin.Context) {
	questionID := util.MustParseUint(ctx.Param("id"))
	if questionID == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	var req AnswerOptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	option := &model.AnswerOption{
		AnswerText: req.AnswerText,
		IsCorrect:  req.IsCorrect,
		Order:      req.Order,
	}
	if err := c.QuizService.AddOption(questionID, option); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, option)
}

// ListOptions godoc
// @Summary Options of a question
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question id"
// @Success 200 {object} util.Response{data=[]model.AnswerOption}
// @Router /api/admin/questions/{id}/options [get]
func (c *QuizController) ListOptions(ctx *gin.Context) {
	questionID := util.MustParseUint(ctx.Param("id"))
	if questionID == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	options, err := c.QuizService.ListOptions(questionID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, options)
}

// DeleteOption godoc
// @Summary Delete an answer option
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Option id"
// @Success 200 {object} util.Response
// @Router /api/admin/options/{id} [delete]
func (c *QuizController) DeleteOption(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid option id")
		return
	}
	if err := c.QuizService.DeleteOption(id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "option deleted"})
}

// ListQuestions godoc
// @Summary Questions of a quiz, with answers
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz id"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/admin/quizzes/{id}/questions [get]
func (c *QuizController) ListQuestions(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	if quizID == 0 {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	questions, err := c.QuizService.ListQuestions(quizID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Description Remaining questions keep their order slots; no renumbering.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question id"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	if err := c.QuizService.DeleteQuestion(id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "question deleted"})
}
