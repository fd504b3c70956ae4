package model

import "time"

type AttemptStatus string

const (
	AttemptStarted    AttemptStatus = "started"
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// IsActive reports whether the attempt can still accept answers.
func (s AttemptStatus) IsActive() bool {
	return s == AttemptStarted || s == AttemptInProgress
}

// IsTerminal reports whether the attempt reached a final state.
func (s AttemptStatus) IsTerminal() bool {
	return s == AttemptCompleted || s == AttemptAbandoned
}

// QuizAttempt is one user's run through one quiz, from start to a
// terminal state. TotalQuestions is snapshotted at creation.
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID uint `gorm:"index;not null" json:"-"`
	QuizID uint `gorm:"index;not null" json:"quiz"`

	Status         AttemptStatus `gorm:"size:20;default:'started';index" json:"status"`
	Score          int           `gorm:"default:0" json:"score"`
	TotalQuestions int           `gorm:"default:0" json:"totalQuestions"`
	CorrectAnswers int           `gorm:"default:0" json:"correctAnswers"`
	Percentage     float64       `gorm:"type:decimal(5,2);default:0" json:"percentage"`

	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// TimeTakenSeconds = CompletedAt - StartedAt, set only on completion.
	TimeTakenSeconds int `gorm:"default:0" json:"timeTaken"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// CalculateResults derives the percentage from the completion counters.
// A quiz with zero questions completes at 0%, never a division fault.
func (a *QuizAttempt) CalculateResults() {
	if a.TotalQuestions > 0 {
		a.Percentage = float64(a.CorrectAnswers) / float64(a.TotalQuestions) * 100
	} else {
		a.Percentage = 0
	}
}
