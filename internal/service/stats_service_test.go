package service

import (
	"context"
	"testing"
	"time"

	"quizarena_backend/internal/config"
	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStatsService(db *gorm.DB) *StatsService {
	return NewStatsService(repository.NewStatsRepository(db), nil, &config.Config{})
}

func TestErrorStatsNoAnswers(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newStatsService(db)

	report, err := svc.ErrorStats(context.Background(), f.user.ID)
	require.NoError(t, err)

	assert.Zero(t, report.Overall.TotalAnswers)
	assert.Zero(t, report.Overall.TotalErrors)
	assert.Zero(t, report.Overall.Accuracy)
	assert.Zero(t, report.Overall.AverageTimeSeconds)
	assert.Empty(t, report.Categories.Labels)
	assert.Empty(t, report.Topics.Labels)
}

// seedAnswer writes one answer row with a fixed outcome, bypassing the
// evaluator, so aggregation can be tested against known inputs.
func seedAnswer(t *testing.T, db *gorm.DB, attemptID uint, q *model.Question, correct bool, seconds int) {
	t.Helper()
	scoreEarned := 0
	if correct {
		scoreEarned = q.Score
	}
	optionIdx := 1 // wrong option
	if correct {
		optionIdx = 0
	}
	answer := &model.UserAnswer{
		AttemptID:        attemptID,
		QuestionID:       q.ID,
		IsCorrect:        correct,
		ScoreEarned:      scoreEarned,
		TimeTakenSeconds: seconds,
		AnsweredAt:       time.Now(),
		Selections: []model.UserAnswerOption{
			{AnswerOptionID: q.Answers[optionIdx].ID},
		},
	}
	require.NoError(t, db.Create(answer).Error)
}

func completedAttempt(t *testing.T, db *gorm.DB, userID, quizID uint, total, correct int) *model.QuizAttempt {
	t.Helper()
	now := time.Now()
	attempt := &model.QuizAttempt{
		UserID:         userID,
		QuizID:         quizID,
		Status:         model.AttemptCompleted,
		TotalQuestions: total,
		CorrectAnswers: correct,
		StartedAt:      now.Add(-time.Minute),
		CompletedAt:    &now,
	}
	attempt.CalculateResults()
	require.NoError(t, db.Create(attempt).Error)
	return attempt
}

func TestErrorStatsBreakdownsWorstFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)

	// two categories: "History" with 1 error out of 2, second with 3 of 3
	f := seedQuiz(t, db, model.QuizStandard, 2)

	weak := &model.Category{Title: "Grammar"}
	require.NoError(t, db.Create(weak).Error)
	weakQuiz := &model.Quiz{Title: "Cases", CategoryID: weak.ID, QuizType: model.QuizStandard}
	require.NoError(t, db.Create(weakQuiz).Error)

	topic := &model.Topic{Name: "Declension"}
	require.NoError(t, db.Create(topic).Error)

	var weakQuestions []*model.Question
	for i := 0; i < 3; i++ {
		q := &model.Question{
			QuizID:       weakQuiz.ID,
			TopicID:      topic.ID,
			QuestionText: "q",
			QuestionType: model.SingleChoice,
			Score:        1,
			Answers: []model.AnswerOption{
				{AnswerText: "right", IsCorrect: true},
				{AnswerText: "wrong", IsCorrect: false},
			},
		}
		require.NoError(t, db.Create(q).Error)
		weakQuestions = append(weakQuestions, q)
	}

	a1 := completedAttempt(t, db, f.user.ID, f.quiz.ID, 2, 1)
	seedAnswer(t, db, a1.ID, f.questions[0], true, 10)
	seedAnswer(t, db, a1.ID, f.questions[1], false, 20)

	a2 := completedAttempt(t, db, f.user.ID, weakQuiz.ID, 3, 0)
	for _, q := range weakQuestions {
		seedAnswer(t, db, a2.ID, q, false, 30)
	}

	report, err := svc.ErrorStats(context.Background(), f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Overall.TotalAnswers)
	assert.Equal(t, 4, report.Overall.TotalErrors)
	assert.InDelta(t, 0.2, report.Overall.Accuracy, 0.001)
	assert.InDelta(t, 24.0, report.Overall.AverageTimeSeconds, 0.001)

	// worst category first
	require.Equal(t, []string{"Grammar", "History"}, report.Categories.Labels)
	assert.Equal(t, []int{3, 1}, report.Categories.Datasets.TotalErrors)
	assert.InDelta(t, 100.0, report.Categories.Datasets.ErrorPercentages[0], 0.001)
	assert.InDelta(t, 50.0, report.Categories.Datasets.ErrorPercentages[1], 0.001)

	// topic breakdown only covers questions that carry a topic
	require.Equal(t, []string{"Declension"}, report.Topics.Labels)
	assert.Equal(t, []int{3}, report.Topics.Datasets.TotalErrors)

	require.Equal(t, []string{"Declension"}, report.TopicAccuracy.Labels)
	assert.Equal(t, []int{0}, report.TopicAccuracy.Datasets.Correct)
	assert.Equal(t, []int{3}, report.TopicAccuracy.Datasets.Incorrect)
	assert.InDelta(t, 0.0, report.TopicAccuracy.Datasets.AccuracyPercentage[0], 0.001)

	// one first-slot pick, four second-slot picks
	require.Equal(t, []string{"a", "b"}, report.AnswerDistribution.Labels)
	assert.Equal(t, []int{1, 4}, report.AnswerDistribution.Datasets.Counts)
}

func TestAnswerDistributionBeyondAlphabet(t *testing.T) {
	// slots past the key alphabet keep their numeric labels and sort
	// after the letters, no matter how high they run
	dist := buildDistribution(
		map[int]int{1: 2, 5: 3, 70: 1, 12: 4},
		map[string]int{"b": 1},
	)

	require.Equal(t, []string{"a", "b", "5", "12", "70"}, dist.Labels)
	assert.Equal(t, []int{2, 1, 3, 4, 1}, dist.Datasets.Counts)
}

func TestHistorySummaryCompletedOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)
	f := seedQuiz(t, db, model.QuizStandard, 2)

	hardQuiz := &model.Quiz{
		Title:      "Hard one",
		CategoryID: f.category.ID,
		QuizType:   model.QuizTournament,
		Difficulty: model.DifficultyHard,
	}
	require.NoError(t, db.Create(hardQuiz).Error)

	completedAttempt(t, db, f.user.ID, f.quiz.ID, 2, 2)     // 100%
	completedAttempt(t, db, f.user.ID, f.quiz.ID, 2, 1)     // 50%
	completedAttempt(t, db, f.user.ID, hardQuiz.ID, 4, 3)   // 75%
	abandoned := &model.QuizAttempt{
		UserID:    f.user.ID,
		QuizID:    f.quiz.ID,
		Status:    model.AttemptAbandoned,
		StartedAt: time.Now(),
	}
	require.NoError(t, db.Create(abandoned).Error)
	inProgress := &model.QuizAttempt{
		UserID:    f.user.ID,
		QuizID:    f.quiz.ID,
		Status:    model.AttemptInProgress,
		StartedAt: time.Now(),
	}
	require.NoError(t, db.Create(inProgress).Error)

	summary, err := svc.History(context.Background(), f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalAttempts, "abandoned and in-progress attempts are excluded")
	assert.InDelta(t, 75.0, summary.AverageScore, 0.001)
	assert.InDelta(t, 100.0, summary.BestScore, 0.001)
	assert.Equal(t, 2, summary.QuizzesPassed, "passing threshold is 70%")

	standard := summary.ByQuizType["standard"]
	assert.Equal(t, 2, standard.Attempts)
	assert.InDelta(t, 75.0, standard.AverageScore, 0.001)
	assert.InDelta(t, 100.0, standard.BestScore, 0.001)

	tournament := summary.ByQuizType["tournament"]
	assert.Equal(t, 1, tournament.Attempts)

	hard := summary.ByDifficulty["hard"]
	assert.Equal(t, 1, hard.Attempts)
	assert.InDelta(t, 75.0, hard.AverageScore, 0.001)
}

func TestHistorySummaryEmpty(t *testing.T) {
	db := newTestDB(t)
	f := seedQuiz(t, db, model.QuizStandard, 1)
	svc := newStatsService(db)

	summary, err := svc.History(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalAttempts)
	assert.Zero(t, summary.AverageScore)
	assert.Zero(t, summary.BestScore)
	assert.Empty(t, summary.ByQuizType)
}
