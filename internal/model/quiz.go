package model

import (
	"time"
)

type QuizType string

const (
	// QuizStandard always starts a fresh attempt.
	QuizStandard QuizType = "standard"
	// QuizProgress resumes an active attempt instead of starting a new one.
	QuizProgress QuizType = "progress"
	// QuizTournament is only playable inside its daily time window.
	QuizTournament QuizType = "tournament"
)

type QuizDifficulty string

const (
	DifficultyEasy   QuizDifficulty = "easy"
	DifficultyMedium QuizDifficulty = "medium"
	DifficultyHard   QuizDifficulty = "hard"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	CategoryID  uint           `gorm:"index;not null" json:"categoryId"`
	QuizType    QuizType       `gorm:"size:20;default:'standard'" json:"quizType"`
	Difficulty  QuizDifficulty `gorm:"size:20;default:'medium'" json:"difficulty"`

	// TimeLimit is in minutes.
	TimeLimit int `gorm:"default:30" json:"timeLimit"`

	// Daily window for tournament quizzes, "15:04:05" clock times.
	// The window may wrap past midnight (start > end).
	TournamentStartTime string `gorm:"size:8" json:"tournamentStartTime,omitempty"`
	TournamentEndTime   string `gorm:"size:8" json:"tournamentEndTime,omitempty"`

	// Optional PDF attachment, stored via the storage service.
	FileURL string `gorm:"size:255" json:"fileUrl,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

const clockLayout = "15:04:05"

// IsTournamentActive reports whether the quiz is playable at the given
// instant. Non-tournament quizzes and tournaments without a configured
// window are always playable.
func (q *Quiz) IsTournamentActive(now time.Time) bool {
	if q.QuizType != QuizTournament {
		return true
	}
	if q.TournamentStartTime == "" || q.TournamentEndTime == "" {
		return true
	}
	start, err := time.Parse(clockLayout, q.TournamentStartTime)
	if err != nil {
		return false
	}
	end, err := time.Parse(clockLayout, q.TournamentEndTime)
	if err != nil {
		return false
	}

	secs := func(t time.Time) int { return t.Hour()*3600 + t.Minute()*60 + t.Second() }
	s, e, n := secs(start), secs(end), secs(now)

	if s <= e {
		return n >= s && n < e
	}
	// Window wraps past midnight, e.g. 22:00-02:00.
	return n >= s || n < e
}
