package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"
	"quizarena_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	testDBSeq int
	userSeq   int
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:attempt_test_%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newAttemptService(db *gorm.DB) *AttemptService {
	categorySvc := NewCategoryService(repository.NewCategoryRepository(db))
	return NewAttemptService(
		db,
		repository.NewAttemptRepository(db),
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		categorySvc,
		nil,
	)
}

type fixture struct {
	user     *model.User
	category *model.Category
	quiz     *model.Quiz
	// questions in order, each single-choice with option[0] correct
	questions []*model.Question
}

func seedQuiz(t *testing.T, db *gorm.DB, quizType model.QuizType, questionCount int) *fixture {
	t.Helper()

	userSeq++
	user := &model.User{FirstName: "Nino", LastName: "K", Email: fmt.Sprintf("nino%d@example.com", userSeq), Password: "x"}
	require.NoError(t, db.Create(user).Error)

	category := &model.Category{Title: "History", IsPaid: false}
	require.NoError(t, db.Create(category).Error)

	quiz := &model.Quiz{Title: "Antiquity", CategoryID: category.ID, QuizType: quizType, TimeLimit: 10}
	require.NoError(t, db.Create(quiz).Error)

	f := &fixture{user: user, category: category, quiz: quiz}
	for i := 0; i < questionCount; i++ {
		q := &model.Question{
			QuizID:       quiz.ID,
			QuestionText: fmt.Sprintf("question %d", i+1),
			QuestionType: model.SingleChoice,
			Score:        2,
			Answers: []model.AnswerOption{
				{AnswerText: "right", IsCorrect: true},
				{AnswerText: "wrong", IsCorrect: false},
			},
		}
		require.NoError(t, db.Create(q).Error)
		f.questions = append(f.questions, q)
	}
	return f
}

func (f *fixture) correctOption(i int) uint   { return f.questions[i].Answers[0].ID }
func (f *fixture) incorrectOption(i int) uint { return f.questions[i].Answers[1].ID }

func TestQuestionOrderAutoAssigned(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 3)

	for i, q := range f.questions {
		assert.Equal(t, i+1, q.Order)
	}

	// deleting the middle question must not renumber the rest
	require.NoError(t, db.Delete(f.questions[1]).Error)
	next := &model.Question{QuizID: f.quiz.ID, QuestionText: "question 4", QuestionType: model.SingleChoice}
	require.NoError(t, db.Create(next).Error)
	assert.Equal(t, 4, next.Order, "order keeps counting past gaps")

	// options auto-assign within their question the same way
	opt := &model.AnswerOption{QuestionID: f.questions[0].ID, AnswerText: "third"}
	require.NoError(t, db.Create(opt).Error)
	assert.Equal(t, 3, opt.Order)
}

func TestOptionOrderUniqueInBatchInsert(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)

	q := &model.Question{
		QuizID:       f.quiz.ID,
		QuestionText: "batch",
		QuestionType: model.SingleChoice,
		Answers: []model.AnswerOption{
			{AnswerText: "first", IsCorrect: true},
			{AnswerText: "second"},
			{AnswerText: "third"},
		},
	}
	require.NoError(t, db.Create(q).Error)

	var options []model.AnswerOption
	require.NoError(t, db.Where("question_id = ?", q.ID).Order("`order` ASC").Find(&options).Error)
	require.Len(t, options, 3)
	for i, opt := range options {
		assert.Equal(t, i+1, opt.Order)
	}
}

func TestStartAttemptSnapshotsTotals(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 3)
	svc := newAttemptService(db)

	view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)

	assert.Equal(t, model.AttemptStarted, view.Status)
	assert.Equal(t, 3, view.TotalQuestions)
	require.NotNil(t, view.FirstQuestionID)
	assert.Equal(t, f.questions[0].ID, *view.FirstQuestionID)
	require.NotNil(t, view.CurrentQuestionID)
	assert.Equal(t, f.questions[0].ID, *view.CurrentQuestionID)
	assert.Greater(t, view.RemainingTimeSeconds, 0)
}

func TestRemainingTimeBudget(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 2)
	svc := newAttemptService(db)

	view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 600, view.RemainingTimeSeconds)

	res, err := svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[0].ID,
		SelectedAnswerIDs: []uint{f.correctOption(0)},
		TimeTakenSeconds:  60,
	})
	require.NoError(t, err)
	assert.Equal(t, 540, res.Attempt.RemainingTimeSeconds, "budget shrinks by reported answer time")
}

func TestStartAttemptUnknownQuiz(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newAttemptService(db)

	_, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID+99)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestStartAttemptResumePolicy(t *testing.T) {
	t.Run("progress quizzes resume the active attempt", func(t *testing.T) {
		db := newTestDB(t)
		f := seedQuiz(t, db, model.QuizProgress, 2)
		svc := newAttemptService(db)

		first, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
		require.NoError(t, err)
		second, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("standard quizzes abandon the stale attempt", func(t *testing.T) {
		db := newTestDB(t)
		f := seedQuiz(t, db, model.QuizStandard, 2)
		svc := newAttemptService(db)

		first, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
		require.NoError(t, err)
		second, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
		require.NoError(t, err)
		require.NotEqual(t, first.ID, second.ID)

		var stale model.QuizAttempt
		require.NoError(t, db.First(&stale, first.ID).Error)
		assert.Equal(t, model.AttemptAbandoned, stale.Status)
	})
}

func clockOffset(d time.Duration) string {
	return time.Now().Add(d).Format("15:04:05")
}

func TestStartAttemptTournamentWindow(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizTournament, 1)
	svc := newAttemptService(db)

	// window centered on now; wraps past midnight when now is near
	// either end of the day, which exercises the wrap branch too
	f.quiz.TournamentStartTime = clockOffset(-time.Hour)
	f.quiz.TournamentEndTime = clockOffset(time.Hour)
	require.NoError(t, db.Save(f.quiz).Error)

	_, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	assert.NoError(t, err)

	f.quiz.TournamentStartTime = clockOffset(time.Hour)
	f.quiz.TournamentEndTime = clockOffset(2 * time.Hour)
	require.NoError(t, db.Save(f.quiz).Error)

	_, err = svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	assert.ErrorIs(t, err, util.ErrTournamentClosed)
}

func TestStartAttemptPaidCategoryGate(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newAttemptService(db)

	f.category.IsPaid = true
	f.category.Price = 9.99
	require.NoError(t, db.Save(f.category).Error)

	_, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	assert.ErrorIs(t, err, util.ErrNoAccess)

	access := &model.UserCategoryAccess{
		UserID:     f.user.ID,
		CategoryID: f.category.ID,
		GrantedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(24 * time.Hour),
		IsActive:   true,
	}
	require.NoError(t, db.Create(access).Error)

	_, err = svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	assert.NoError(t, err)
}

func TestSubmitAnswerFlow(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 3)
	svc := newAttemptService(db)

	view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)

	// correct answer
	result, err := svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[0].ID,
		SelectedAnswerIDs: []uint{f.correctOption(0)},
		TimeTakenSeconds:  7,
	})
	require.NoError(t, err)
	assert.True(t, result.Answer.IsCorrect)
	assert.Equal(t, 2, result.Answer.ScoreEarned)
	assert.Equal(t, model.AttemptInProgress, result.Attempt.Status)
	assert.Equal(t, 1, result.Attempt.CorrectAnswers)
	require.NotNil(t, result.NextQuestionID)
	assert.Equal(t, f.questions[1].ID, *result.NextQuestionID)

	// incorrect answer leaves the counters untouched
	result, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[1].ID,
		SelectedAnswerIDs: []uint{f.incorrectOption(1)},
	})
	require.NoError(t, err)
	assert.False(t, result.Answer.IsCorrect)
	assert.Equal(t, 0, result.Answer.ScoreEarned)
	assert.Equal(t, 1, result.Attempt.CorrectAnswers)
	assert.Equal(t, 2, result.Attempt.Score)

	// last answer completes the attempt, never earlier
	result, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[2].ID,
		SelectedAnswerIDs: []uint{f.correctOption(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptCompleted, result.Attempt.Status)
	require.NotNil(t, result.Attempt.CompletedAt)
	assert.Equal(t, 2, result.Attempt.CorrectAnswers)
	assert.Equal(t, 4, result.Attempt.Score)
	assert.InDelta(t, 100.0*2/3, result.Attempt.Percentage, 0.01)
	assert.Nil(t, result.Attempt.CurrentQuestionID, "no unanswered question left")

	// score equals the sum of earned scores over the attempt's answers
	var earned int
	require.NoError(t, db.Model(&model.UserAnswer{}).
		Where("attempt_id = ?", view.ID).
		Select("COALESCE(SUM(score_earned), 0)").Scan(&earned).Error)
	assert.Equal(t, result.Attempt.Score, earned)
}

func TestSubmitAnswerValidationOrder(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 2)
	foreign := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newAttemptService(db)

	view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)

	// question from another quiz
	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        foreign.questions[0].ID,
		SelectedAnswerIDs: []uint{foreign.correctOption(0)},
	})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	// empty selection
	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID: f.questions[0].ID,
	})
	assert.ErrorIs(t, err, util.ErrEmptySelection)

	// option belonging to another question fails the whole submission
	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[0].ID,
		SelectedAnswerIDs: []uint{f.correctOption(0), foreign.correctOption(0)},
	})
	assert.ErrorIs(t, err, util.ErrInvalidSelection)

	// resubmission is rejected, not treated as an update
	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[0].ID,
		SelectedAnswerIDs: []uint{f.incorrectOption(0)},
	})
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[0].ID,
		SelectedAnswerIDs: []uint{f.correctOption(0)},
	})
	assert.ErrorIs(t, err, util.ErrAlreadyAnswered)

	var count int64
	require.NoError(t, db.Model(&model.UserAnswer{}).
		Where("attempt_id = ? AND question_id = ?", view.ID, f.questions[0].ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "the first answer stands")
}

func TestSubmitAnswerCompletedAttempt(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newAttemptService(db)

	view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[0].ID,
		SelectedAnswerIDs: []uint{f.correctOption(0)},
	})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[0].ID,
		SelectedAnswerIDs: []uint{f.correctOption(0)},
	})
	assert.ErrorIs(t, err, util.ErrInvalidState)
}

func lockHeld(svc *AttemptService, attemptID uint) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	_, ok := svc.locks[attemptID]
	return ok
}

func TestAttemptLocksPruned(t *testing.T) {
	t.Run("abandoning a stale attempt drops its lock", func(t *testing.T) {
		db := newTestDB(t)
		f := seedQuiz(t, db, model.QuizStandard, 2)
		svc := newAttemptService(db)

		stale, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
		require.NoError(t, err)
		_, err = svc.SubmitAnswer(f.user.ID, stale.ID, SubmitAnswerRequest{
			QuestionID:        f.questions[0].ID,
			SelectedAnswerIDs: []uint{f.correctOption(0)},
		})
		require.NoError(t, err)
		require.True(t, lockHeld(svc, stale.ID))

		_, err = svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
		require.NoError(t, err)

		assert.False(t, lockHeld(svc, stale.ID))
	})

	t.Run("submitting to a terminal attempt drops its lock", func(t *testing.T) {
		db := newTestDB(t)
		f := seedQuiz(t, db, model.QuizStandard, 1)
		svc := newAttemptService(db)

		view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
		require.NoError(t, err)
		_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
			QuestionID:        f.questions[0].ID,
			SelectedAnswerIDs: []uint{f.correctOption(0)},
		})
		require.NoError(t, err)

		_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
			QuestionID:        f.questions[0].ID,
			SelectedAnswerIDs: []uint{f.correctOption(0)},
		})
		require.ErrorIs(t, err, util.ErrInvalidState)

		assert.False(t, lockHeld(svc, view.ID))
	})
}

func TestGetQuestionAbandonedAttempt(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 2)
	svc := newAttemptService(db)

	stale, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)
	_, err = svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)

	_, err = svc.GetQuestion(f.user.ID, stale.ID, f.questions[0].ID)
	assert.ErrorIs(t, err, util.ErrInvalidState)
}

func TestSubmitAnswerResolvesCurrentQuestion(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 2)
	svc := newAttemptService(db)

	view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)

	// no question id: the navigation resolver picks the first unanswered
	result, err := svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		SelectedAnswerIDs: []uint{f.correctOption(0)},
	})
	require.NoError(t, err)
	assert.Equal(t, f.questions[0].ID, result.Question.ID)
}

func TestConcurrentSubmissionsSameQuestion(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 2)
	svc := newAttemptService(db)

	view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
				QuestionID:        f.questions[0].ID,
				SelectedAnswerIDs: []uint{f.correctOption(0)},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	accepted := 0
	for err := range errs {
		if err == nil {
			accepted++
		} else {
			assert.ErrorIs(t, err, util.ErrAlreadyAnswered)
		}
	}
	assert.Equal(t, 1, accepted, "exactly one submission wins")

	var attempt model.QuizAttempt
	require.NoError(t, db.First(&attempt, view.ID).Error)
	assert.Equal(t, 1, attempt.CorrectAnswers, "counters cannot race")
	assert.Equal(t, 2, attempt.Score)
}

func TestNavigationAndResults(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 2)
	svc := newAttemptService(db)

	view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)

	// results are unavailable while the attempt is active
	_, err = svc.GetResults(f.user.ID, view.ID)
	assert.ErrorIs(t, err, util.ErrInvalidState)

	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[0].ID,
		SelectedAnswerIDs: []uint{f.correctOption(0)},
	})
	require.NoError(t, err)

	nav, err := svc.GetNavigation(f.user.ID, view.ID)
	require.NoError(t, err)
	require.Len(t, nav.Questions, 2)
	assert.True(t, nav.Questions[0].IsAnswered)
	assert.False(t, nav.Questions[1].IsAnswered)
	require.NotNil(t, nav.Attempt.CurrentQuestionID)
	assert.Equal(t, f.questions[1].ID, *nav.Attempt.CurrentQuestionID)

	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[1].ID,
		SelectedAnswerIDs: []uint{f.incorrectOption(1)},
	})
	require.NoError(t, err)

	results, err := svc.GetResults(f.user.ID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptCompleted, results.Attempt.Status)
	require.Len(t, results.Results, 2)
	assert.True(t, results.Results[0].UserAnswer.IsCorrect)
	assert.False(t, results.Results[1].UserAnswer.IsCorrect)
	// the review reveals correctness flags
	assert.True(t, results.Results[0].Question.Answers[0].IsCorrect)

	// another user cannot read this attempt
	_, err = svc.GetResults(f.user.ID+1, view.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestGetQuestionRevealAfterAnswer(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 2)
	svc := newAttemptService(db)

	view, err := svc.StartAttempt(f.user.ID, f.category.ID, f.quiz.ID)
	require.NoError(t, err)

	payload, err := svc.GetQuestion(f.user.ID, view.ID, f.questions[0].ID)
	require.NoError(t, err)
	assert.False(t, payload.IsAnswered)
	pre, ok := payload.Question.(model.QuestionView)
	require.True(t, ok, "unanswered questions must not reveal correctness")
	assert.Len(t, pre.Answers, 2)

	_, err = svc.SubmitAnswer(f.user.ID, view.ID, SubmitAnswerRequest{
		QuestionID:        f.questions[0].ID,
		SelectedAnswerIDs: []uint{f.correctOption(0)},
	})
	require.NoError(t, err)

	payload, err = svc.GetQuestion(f.user.ID, view.ID, f.questions[0].ID)
	require.NoError(t, err)
	assert.True(t, payload.IsAnswered)
	post, ok := payload.Question.(model.QuestionReveal)
	require.True(t, ok)
	require.NotNil(t, post.UserAnswer)
	assert.True(t, post.UserAnswer.IsCorrect)
}
