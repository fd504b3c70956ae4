package service

import (
	"errors"
	"sync"
	"time"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"
	"quizarena_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// AttemptService owns the attempt lifecycle: starting, answering,
// navigation and results. Answer submissions are serialized per attempt.
type AttemptService struct {
	DB           *gorm.DB
	AttemptRepo  *repository.AttemptRepository
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	CategorySvc  *CategoryService
	StatsSvc     *StatsService

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewAttemptService(db *gorm.DB, attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository, categorySvc *CategoryService, statsSvc *StatsService) *AttemptService {
	return &AttemptService{
		DB:           db,
		AttemptRepo:  attemptRepo,
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		CategorySvc:  categorySvc,
		StatsSvc:     statsSvc,
		locks:        make(map[uint]*sync.Mutex),
	}
}

// attemptLock returns the mutex serializing submissions for one attempt.
func (s *AttemptService) attemptLock(attemptID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[attemptID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[attemptID] = lock
	}
	return lock
}

func (s *AttemptService) releaseLock(attemptID uint) {
	s.mu.Lock()
	delete(s.locks, attemptID)
	s.mu.Unlock()
}

// StartAttempt runs the access and scheduling gates, then either resumes
// or creates an attempt. Progress quizzes resume their active attempt;
// every other type abandons a stale active attempt and starts fresh.
func (s *AttemptService) StartAttempt(userID, categoryID, quizID uint) (*model.AttemptView, error) {
	hasAccess, err := s.CategorySvc.HasAccess(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, util.ErrNoAccess
	}

	quiz, err := s.QuizRepo.FindByIDInCategory(quizID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsTournamentActive(time.Now()) {
		return nil, util.ErrTournamentClosed
	}

	active, err := s.AttemptRepo.FindActive(userID, quizID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if active != nil && active.ID != 0 {
		if quiz.QuizType == model.QuizProgress {
			return s.buildAttemptView(active, quiz)
		}
		active.Status = model.AttemptAbandoned
		if err := s.AttemptRepo.Update(active); err != nil {
			return nil, err
		}
		s.releaseLock(active.ID)
	}

	total, err := s.QuizRepo.CountQuestions(quizID)
	if err != nil {
		return nil, err
	}
	attempt := &model.QuizAttempt{
		UserID:         userID,
		QuizID:         quizID,
		Status:         model.AttemptStarted,
		TotalQuestions: total,
		StartedAt:      time.Now(),
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	monitoring.AttemptsStarted.WithLabelValues(string(quiz.QuizType)).Inc()
	return s.buildAttemptView(attempt, quiz)
}

func (s *AttemptService) buildAttemptView(attempt *model.QuizAttempt, quiz *model.Quiz) (*model.AttemptView, error) {
	catalog, err := s.loadCatalog(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	answered, err := s.AttemptRepo.AnsweredQuestionIDs(attempt.ID)
	if err != nil {
		return nil, err
	}
	spent, err := s.AttemptRepo.SumAnswerTime(attempt.ID)
	if err != nil {
		return nil, err
	}
	return &model.AttemptView{
		QuizAttempt:          *attempt,
		FirstQuestionID:      catalog.FirstID(),
		LastQuestionID:       catalog.LastID(),
		CurrentQuestionID:    catalog.CurrentID(answered),
		RemainingTimeSeconds: remainingTime(attempt, quiz, spent),
	}, nil
}

// remainingTime is the unspent part of the quiz's time budget, measured
// against the client-reported per-answer times so resumed attempts keep
// their balance. Zero for terminal attempts or quizzes without a limit.
func remainingTime(attempt *model.QuizAttempt, quiz *model.Quiz, spentSeconds int) int {
	if quiz.TimeLimit <= 0 || attempt.Status.IsTerminal() {
		return 0
	}
	remaining := quiz.TimeLimit*60 - spentSeconds
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *AttemptService) loadCatalog(quizID uint) (*questionCatalog, error) {
	questions, err := s.QuestionRepo.ListByQuiz(quizID)
	if err != nil {
		return nil, err
	}
	return newQuestionCatalog(questions), nil
}

func (s *AttemptService) findOwnedAttempt(attemptID, userID uint) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByIDForUser(attemptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

// QuestionPayload is a served question plus its navigation neighbours.
type QuestionPayload struct {
	Question   interface{} `json:"question"`
	PreviousID *uint       `json:"previousQuestionId"`
	NextID     *uint       `json:"nextQuestionId"`
	IsAnswered bool        `json:"isAnswered"`
}

// GetQuestion serves one question of the attempt. With questionID zero
// the navigation resolver picks the current question. Correct options
// are only revealed once the question has been answered. Abandoned
// attempts are no longer servable.
func (s *AttemptService) GetQuestion(userID, attemptID, questionID uint) (*QuestionPayload, error) {
	attempt, err := s.findOwnedAttempt(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.AttemptAbandoned {
		return nil, util.ErrInvalidState
	}
	catalog, err := s.loadCatalog(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	answered, err := s.AttemptRepo.AnsweredQuestionIDs(attempt.ID)
	if err != nil {
		return nil, err
	}

	if questionID == 0 {
		current := catalog.CurrentID(answered)
		if current == nil {
			return nil, util.ErrNoQuestion
		}
		questionID = *current
	}
	question := catalog.ByID(questionID)
	if question == nil {
		return nil, util.ErrQuestionNotFound
	}

	payload := &QuestionPayload{
		PreviousID: catalog.PreviousID(questionID),
		NextID:     catalog.NextID(questionID),
		IsAnswered: answered[questionID],
	}
	if payload.IsAnswered {
		answer, err := s.AttemptRepo.FindAnswer(attempt.ID, questionID)
		if err != nil {
			return nil, err
		}
		payload.Question = buildQuestionReveal(question, answer)
	} else {
		payload.Question = buildQuestionView(question)
	}
	return payload, nil
}

func buildQuestionView(question *model.Question) model.QuestionView {
	view := model.QuestionView{
		ID:           question.ID,
		QuestionText: question.QuestionText,
		QuestionType: question.QuestionType,
		Score:        question.Score,
		Order:        question.Order,
		Answers:      make([]model.AnswerOptionView, 0, len(question.Answers)),
	}
	for _, opt := range question.Answers {
		view.Answers = append(view.Answers, model.AnswerOptionView{
			ID:         opt.ID,
			AnswerText: opt.AnswerText,
			Order:      opt.Order,
		})
	}
	return view
}

func buildQuestionReveal(question *model.Question, answer *model.UserAnswer) model.QuestionReveal {
	reveal := model.QuestionReveal{
		ID:           question.ID,
		QuestionText: question.QuestionText,
		QuestionType: question.QuestionType,
		Explanation:  question.Explanation,
		Score:        question.Score,
		Order:        question.Order,
		Answers:      make([]model.AnswerOptionReveal, 0, len(question.Answers)),
	}
	for _, opt := range question.Answers {
		reveal.Answers = append(reveal.Answers, model.AnswerOptionReveal{
			ID:         opt.ID,
			AnswerText: opt.AnswerText,
			IsCorrect:  opt.IsCorrect,
			Order:      opt.Order,
		})
	}
	if answer != nil {
		view := buildAnswerView(answer)
		reveal.UserAnswer = &view
	}
	return reveal
}

func buildAnswerView(answer *model.UserAnswer) model.UserAnswerView {
	view := model.UserAnswerView{
		ID:               answer.ID,
		SelectedKey:      answer.SelectedKey,
		IsCorrect:        answer.IsCorrect,
		ScoreEarned:      answer.ScoreEarned,
		TimeTakenSeconds: answer.TimeTakenSeconds,
		AnsweredAt:       answer.AnsweredAt,
	}
	for _, sel := range answer.Selections {
		view.SelectedOptionIDs = append(view.SelectedOptionIDs, sel.AnswerOptionID)
	}
	return view
}

// SubmitAnswerRequest is the submission payload.
type SubmitAnswerRequest struct {
	QuestionID        uint   `json:"questionId"`
	SelectedAnswerIDs []uint `json:"selectedAnswerIds"`
	SelectedKey       string `json:"selectedKey"`
	TimeTakenSeconds  int    `json:"timeTaken"`
}

// SubmitAnswerResult reveals the outcome of one submission.
type SubmitAnswerResult struct {
	Answer         model.UserAnswerView `json:"answer"`
	Question       model.QuestionReveal `json:"question"`
	Attempt        model.AttemptView    `json:"attempt"`
	NextQuestionID *uint                `json:"nextQuestionId"`
}

// SubmitAnswer validates, grades and persists one answer, then runs the
// completion check. The write path is a single transaction under the
// attempt's lock, so concurrent submissions cannot double-answer a
// question or lose counter updates.
func (s *AttemptService) SubmitAnswer(userID, attemptID uint, req SubmitAnswerRequest) (*SubmitAnswerResult, error) {
	lock := s.attemptLock(attemptID)
	lock.Lock()
	defer lock.Unlock()

	attempt, err := s.findOwnedAttempt(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if !attempt.Status.IsActive() {
		// Terminal attempts take no more submissions, so the mutex
		// has no further use.
		s.releaseLock(attemptID)
		return nil, util.ErrInvalidState
	}

	quiz, err := s.QuizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.loadCatalog(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	answered, err := s.AttemptRepo.AnsweredQuestionIDs(attempt.ID)
	if err != nil {
		return nil, err
	}

	questionID := req.QuestionID
	if questionID == 0 {
		current := catalog.CurrentID(answered)
		if current == nil {
			return nil, util.ErrNoQuestion
		}
		questionID = *current
	}
	question := catalog.ByID(questionID)
	if question == nil {
		return nil, util.ErrQuestionNotFound
	}
	if len(req.SelectedAnswerIDs) == 0 && req.SelectedKey == "" {
		return nil, util.ErrEmptySelection
	}
	if !validOptionIDs(question, req.SelectedAnswerIDs) {
		return nil, util.ErrInvalidSelection
	}
	if answered[questionID] {
		return nil, util.ErrAlreadyAnswered
	}

	timeTaken := req.TimeTakenSeconds
	if timeTaken < 0 {
		timeTaken = 0
	}
	isCorrect, scoreEarned := evaluateAnswer(question, req.SelectedAnswerIDs, req.SelectedKey)

	answer := &model.UserAnswer{
		AttemptID:        attempt.ID,
		QuestionID:       questionID,
		SelectedKey:      req.SelectedKey,
		IsCorrect:        isCorrect,
		ScoreEarned:      scoreEarned,
		TimeTakenSeconds: timeTaken,
		AnsweredAt:       time.Now(),
	}
	for _, optionID := range req.SelectedAnswerIDs {
		answer.Selections = append(answer.Selections, model.UserAnswerOption{AnswerOptionID: optionID})
	}

	completed := false
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}
		if isCorrect {
			attempt.CorrectAnswers++
			attempt.Score += scoreEarned
		}
		answeredCount := len(answered) + 1
		if answeredCount >= catalog.Len() {
			now := time.Now()
			attempt.Status = model.AttemptCompleted
			attempt.CompletedAt = &now
			attempt.TimeTakenSeconds = int(now.Sub(attempt.StartedAt).Seconds())
			attempt.CalculateResults()
			completed = true
		} else {
			attempt.Status = model.AttemptInProgress
		}
		return tx.Save(attempt).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	result := "incorrect"
	if isCorrect {
		result = "correct"
	}
	monitoring.AnswersSubmitted.WithLabelValues(result).Inc()
	if completed {
		monitoring.AttemptsCompleted.WithLabelValues(string(quiz.QuizType)).Inc()
		s.releaseLock(attemptID)
		if s.StatsSvc != nil {
			s.StatsSvc.InvalidateCache(userID)
		}
	}

	answered[questionID] = true
	view, err := s.buildAttemptView(attempt, quiz)
	if err != nil {
		return nil, err
	}
	return &SubmitAnswerResult{
		Answer:         buildAnswerView(answer),
		Question:       buildQuestionReveal(question, answer),
		Attempt:        *view,
		NextQuestionID: catalog.NextID(questionID),
	}, nil
}

// NavigationView is the full per-question answered map of an attempt.
type NavigationView struct {
	Attempt   model.AttemptView         `json:"attempt"`
	Questions []model.QuestionNavStatus `json:"questions"`
}

func (s *AttemptService) GetNavigation(userID, attemptID uint) (*NavigationView, error) {
	attempt, err := s.findOwnedAttempt(attemptID, userID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.QuizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.loadCatalog(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	answered, err := s.AttemptRepo.AnsweredQuestionIDs(attempt.ID)
	if err != nil {
		return nil, err
	}
	view, err := s.buildAttemptView(attempt, quiz)
	if err != nil {
		return nil, err
	}
	return &NavigationView{
		Attempt:   *view,
		Questions: catalog.NavStatuses(answered),
	}, nil
}

// ResultsView is the post-completion review of an attempt.
type ResultsView struct {
	Attempt model.QuizAttempt     `json:"attempt"`
	Results []model.AttemptResult `json:"results"`
}

// GetResults reviews a completed attempt question by question. Active
// attempts have no results yet.
func (s *AttemptService) GetResults(userID, attemptID uint) (*ResultsView, error) {
	attempt, err := s.findOwnedAttempt(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Status.IsActive() {
		return nil, util.ErrInvalidState
	}
	catalog, err := s.loadCatalog(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	answers, err := s.AttemptRepo.ListAnswers(attempt.ID)
	if err != nil {
		return nil, err
	}

	results := make([]model.AttemptResult, 0, len(answers))
	for i := range answers {
		answer := &answers[i]
		question := catalog.ByID(answer.QuestionID)
		if question == nil {
			continue
		}
		results = append(results, model.AttemptResult{
			Question:   buildQuestionReveal(question, answer),
			UserAnswer: buildAnswerView(answer),
		})
	}
	return &ResultsView{Attempt: *attempt, Results: results}, nil
}

func (s *AttemptService) History(userID uint, quizType, status string) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByUser(userID, quizType, status)
}
