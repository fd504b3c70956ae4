package model

// OverallStats summarizes every answer a user has submitted in
// completed attempts.
type OverallStats struct {
	TotalAnswers       int     `json:"total_answers"`
	TotalErrors        int     `json:"total_errors"`
	Accuracy           float64 `json:"accuracy"`
	AverageTimeSeconds float64 `json:"average_time_seconds"`
}

// BreakdownDatasets carries the per-label series of an error breakdown.
type BreakdownDatasets struct {
	TotalErrors        []int     `json:"total_errors"`
	ErrorPercentages   []float64 `json:"error_percentages"`
	AverageTimeSeconds []float64 `json:"average_time_seconds"`
}

// ErrorBreakdown lists labels worst-first (descending error count).
type ErrorBreakdown struct {
	Labels   []string          `json:"labels"`
	Datasets BreakdownDatasets `json:"datasets"`
}

// AnswerDistribution counts which answer slot users picked across all
// their answers.
type AnswerDistribution struct {
	Labels   []string `json:"labels"`
	Datasets struct {
		Counts []int `json:"counts"`
	} `json:"datasets"`
}

// TopicAccuracy gives per-topic correct/incorrect counts.
type TopicAccuracy struct {
	Labels   []string `json:"labels"`
	Datasets struct {
		Correct            []int     `json:"correct"`
		Incorrect          []int     `json:"incorrect"`
		AccuracyPercentage []float64 `json:"accuracy_percentage"`
	} `json:"datasets"`
}

// ErrorStatsReport is the full error-statistics payload.
type ErrorStatsReport struct {
	Overall            OverallStats       `json:"overall"`
	Categories         ErrorBreakdown     `json:"categories"`
	Topics             ErrorBreakdown     `json:"topics"`
	AnswerDistribution AnswerDistribution `json:"answer_distribution"`
	TopicAccuracy      TopicAccuracy      `json:"topic_accuracy"`
}

// GroupStats aggregates completed attempts for one quiz type or
// difficulty bucket.
type GroupStats struct {
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
	BestScore    float64 `json:"best_score"`
}

// HistorySummary aggregates a user's completed attempts.
type HistorySummary struct {
	TotalAttempts int                   `json:"total_attempts"`
	AverageScore  float64               `json:"average_score"`
	BestScore     float64               `json:"best_score"`
	QuizzesPassed int                   `json:"quizzes_passed"`
	ByQuizType    map[string]GroupStats `json:"by_quiz_type"`
	ByDifficulty  map[string]GroupStats `json:"by_difficulty"`
}
