package repository

import (
	"quizarena_backend/internal/model"

	"gorm.io/gorm"
)

// StatsRepository runs the aggregate queries behind error statistics and
// attempt history summaries. All SQL here is plain enough to run on both
// MySQL and SQLite.
type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

type overallRow struct {
	TotalAnswers int     `gorm:"column:total_answers"`
	TotalErrors  int     `gorm:"column:total_errors"`
	AvgTime      float64 `gorm:"column:avg_time"`
}

// GroupRow is one aggregation bucket keyed by a label (category title
// or topic name).
type GroupRow struct {
	Label   string  `gorm:"column:label"`
	Total   int     `gorm:"column:total"`
	Errors  int     `gorm:"column:errors"`
	Correct int     `gorm:"column:correct"`
	AvgTime float64 `gorm:"column:avg_time"`
}

func (r *StatsRepository) Overall(userID uint) (model.OverallStats, error) {
	var row overallRow
	err := r.DB.Raw(`
		SELECT COUNT(*) AS total_answers,
		       COALESCE(SUM(CASE WHEN ua.is_correct THEN 0 ELSE 1 END), 0) AS total_errors,
		       COALESCE(AVG(ua.time_taken_seconds), 0) AS avg_time
		FROM user_answers ua
		JOIN quiz_attempts qa ON qa.id = ua.attempt_id
		WHERE qa.user_id = ? AND qa.status = ?`, userID, model.AttemptCompleted).Scan(&row).Error
	if err != nil {
		return model.OverallStats{}, err
	}
	stats := model.OverallStats{
		TotalAnswers:       row.TotalAnswers,
		TotalErrors:        row.TotalErrors,
		AverageTimeSeconds: row.AvgTime,
	}
	// Accuracy is the 0-1 fraction; percent scaling is reserved for the
	// *_percentage breakdown fields.
	if row.TotalAnswers > 0 {
		stats.Accuracy = float64(row.TotalAnswers-row.TotalErrors) / float64(row.TotalAnswers)
	}
	return stats, nil
}

// ErrorsByCategory returns per-category answer and error counts,
// worst category first.
func (r *StatsRepository) ErrorsByCategory(userID uint) ([]GroupRow, error) {
	var rows []GroupRow
	err := r.DB.Raw(`
		SELECT c.title AS label,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN ua.is_correct THEN 0 ELSE 1 END), 0) AS errors,
		       COALESCE(SUM(CASE WHEN ua.is_correct THEN 1 ELSE 0 END), 0) AS correct,
		       COALESCE(AVG(ua.time_taken_seconds), 0) AS avg_time
		FROM user_answers ua
		JOIN quiz_attempts qa ON qa.id = ua.attempt_id
		JOIN quizzes q ON q.id = qa.quiz_id
		JOIN categories c ON c.id = q.category_id
		WHERE qa.user_id = ? AND qa.status = ?
		GROUP BY c.id, c.title
		ORDER BY errors DESC, label ASC`, userID, model.AttemptCompleted).Scan(&rows).Error
	return rows, err
}

// ErrorsByTopic returns per-topic answer and error counts for questions
// that carry a topic, worst topic first.
func (r *StatsRepository) ErrorsByTopic(userID uint) ([]GroupRow, error) {
	var rows []GroupRow
	err := r.DB.Raw(`
		SELECT t.name AS label,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN ua.is_correct THEN 0 ELSE 1 END), 0) AS errors,
		       COALESCE(SUM(CASE WHEN ua.is_correct THEN 1 ELSE 0 END), 0) AS correct,
		       COALESCE(AVG(ua.time_taken_seconds), 0) AS avg_time
		FROM user_answers ua
		JOIN quiz_attempts qa ON qa.id = ua.attempt_id
		JOIN questions qu ON qu.id = ua.question_id
		JOIN topics t ON t.id = qu.topic_id
		WHERE qa.user_id = ? AND qa.status = ?
		GROUP BY t.id, t.name
		ORDER BY errors DESC, label ASC`, userID, model.AttemptCompleted).Scan(&rows).Error
	return rows, err
}

type slotRow struct {
	Slot  int `gorm:"column:slot"`
	Count int `gorm:"column:count"`
}

// SelectedSlotCounts buckets choice answers by the picked option's
// position within its question.
func (r *StatsRepository) SelectedSlotCounts(userID uint) (map[int]int, error) {
	var rows []slotRow
	err := r.DB.Raw("SELECT ao.`order` AS slot, COUNT(*) AS count"+`
		FROM user_answer_options uao
		JOIN answer_options ao ON ao.id = uao.answer_option_id
		JOIN user_answers ua ON ua.id = uao.user_answer_id
		JOIN quiz_attempts qa ON qa.id = ua.attempt_id
		WHERE qa.user_id = ? AND qa.status = ?
		GROUP BY ao.`+"`order`", userID, model.AttemptCompleted).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int]int, len(rows))
	for _, row := range rows {
		out[row.Slot] = row.Count
	}
	return out, nil
}

type keyRow struct {
	Key   string `gorm:"column:selected_key"`
	Count int    `gorm:"column:count"`
}

// SelectedKeyCounts buckets key answers by the submitted key.
func (r *StatsRepository) SelectedKeyCounts(userID uint) (map[string]int, error) {
	var rows []keyRow
	err := r.DB.Raw(`
		SELECT ua.selected_key, COUNT(*) AS count
		FROM user_answers ua
		JOIN quiz_attempts qa ON qa.id = ua.attempt_id
		WHERE qa.user_id = ? AND qa.status = ? AND ua.selected_key <> ''
		GROUP BY ua.selected_key`, userID, model.AttemptCompleted).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

type historyRow struct {
	TotalAttempts int     `gorm:"column:total_attempts"`
	AvgScore      float64 `gorm:"column:avg_score"`
	BestScore     float64 `gorm:"column:best_score"`
	Passed        int     `gorm:"column:passed"`
}

// HistoryOverall summarises the user's completed attempts. An attempt
// passes at or above the given percentage threshold.
func (r *StatsRepository) HistoryOverall(userID uint, passingPct float64) (model.HistorySummary, error) {
	var row historyRow
	err := r.DB.Raw(`
		SELECT COUNT(*) AS total_attempts,
		       COALESCE(AVG(qa.percentage), 0) AS avg_score,
		       COALESCE(MAX(qa.percentage), 0) AS best_score,
		       COALESCE(SUM(CASE WHEN qa.percentage >= ? THEN 1 ELSE 0 END), 0) AS passed
		FROM quiz_attempts qa
		WHERE qa.user_id = ? AND qa.status = ?`,
		passingPct, userID, model.AttemptCompleted).Scan(&row).Error
	if err != nil {
		return model.HistorySummary{}, err
	}
	return model.HistorySummary{
		TotalAttempts: row.TotalAttempts,
		AverageScore:  row.AvgScore,
		BestScore:     row.BestScore,
		QuizzesPassed: row.Passed,
	}, nil
}

type groupStatsRow struct {
	Label     string  `gorm:"column:label"`
	Attempts  int     `gorm:"column:attempts"`
	AvgScore  float64 `gorm:"column:avg_score"`
	BestScore float64 `gorm:"column:best_score"`
}

// HistoryByQuizType breaks completed attempts down by quiz type.
func (r *StatsRepository) HistoryByQuizType(userID uint) (map[string]model.GroupStats, error) {
	return r.historyGrouped(userID, "q.quiz_type")
}

// HistoryByDifficulty breaks completed attempts down by quiz difficulty.
func (r *StatsRepository) HistoryByDifficulty(userID uint) (map[string]model.GroupStats, error) {
	return r.historyGrouped(userID, "q.difficulty")
}

func (r *StatsRepository) historyGrouped(userID uint, column string) (map[string]model.GroupStats, error) {
	var rows []groupStatsRow
	err := r.DB.Raw(`
		SELECT `+column+` AS label,
		       COUNT(*) AS attempts,
		       COALESCE(AVG(qa.percentage), 0) AS avg_score,
		       COALESCE(MAX(qa.percentage), 0) AS best_score
		FROM quiz_attempts qa
		JOIN quizzes q ON q.id = qa.quiz_id
		WHERE qa.user_id = ? AND qa.status = ?
		GROUP BY `+column, userID, model.AttemptCompleted).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.GroupStats, len(rows))
	for _, row := range rows {
		out[row.Label] = model.GroupStats{
			Attempts:     row.Attempts,
			AverageScore: row.AvgScore,
			BestScore:    row.BestScore,
		}
	}
	return out, nil
}
