package repository

import (
	"quizarena_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) Update(attempt *model.QuizAttempt) error {
	return r.DB.Save(attempt).Error
}

func (r *AttemptRepository) FindByIDForUser(id, userID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindActive returns the user's started/in_progress attempt for a quiz,
// or gorm.ErrRecordNotFound.
func (r *AttemptRepository) FindActive(userID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ? AND status IN ?",
		userID, quizID, []model.AttemptStatus{model.AttemptStarted, model.AttemptInProgress}).
		Order("started_at DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// LatestForQuiz returns the user's most recent attempt for a quiz,
// regardless of status.
func (r *AttemptRepository) LatestForQuiz(userID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("started_at DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// ListByUser returns attempt history newest-first, optionally filtered
// by quiz type and attempt status.
func (r *AttemptRepository) ListByUser(userID uint, quizType, status string) ([]model.QuizAttempt, error) {
	q := r.DB.Where("quiz_attempts.user_id = ?", userID)
	if quizType != "" {
		q = q.Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
			Where("quizzes.quiz_type = ?", quizType)
	}
	if status != "" {
		q = q.Where("quiz_attempts.status = ?", status)
	}
	var attempts []model.QuizAttempt
	err := q.Order("quiz_attempts.started_at DESC").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) FindAnswer(attemptID, questionID uint) (*model.UserAnswer, error) {
	var answer model.UserAnswer
	err := r.DB.Preload("Selections").
		Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *AttemptRepository) ListAnswers(attemptID uint) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.DB.Preload("Selections").
		Where("attempt_id = ?", attemptID).
		Order("answered_at ASC").
		Find(&answers).Error
	return answers, err
}

// AnsweredQuestionIDs returns the set of question ids already answered
// in the attempt.
func (r *AttemptRepository) AnsweredQuestionIDs(attemptID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UserAnswer{}).
		Where("attempt_id = ?", attemptID).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	answered := make(map[uint]bool, len(ids))
	for _, id := range ids {
		answered[id] = true
	}
	return answered, nil
}

// SumAnswerTime returns total client-reported seconds spent across the
// attempt's answers.
func (r *AttemptRepository) SumAnswerTime(attemptID uint) (int, error) {
	var total *int
	err := r.DB.Model(&model.UserAnswer{}).
		Where("attempt_id = ?", attemptID).
		Select("SUM(time_taken_seconds)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}
