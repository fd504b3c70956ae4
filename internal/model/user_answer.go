package model

import "time"

// UserAnswer records a single submission for one question of one attempt.
// A question can be answered at most once per attempt; rows are immutable
// after creation and are removed together with their attempt.
// swagger:model UserAnswer
type UserAnswer struct {
	BaseModel
	AttemptID  uint `gorm:"uniqueIndex:uniq_attempt_question;not null" json:"-"`
	QuestionID uint `gorm:"uniqueIndex:uniq_attempt_question;not null" json:"questionId"`

	// SelectedKey is set for key-answer questions, selections via
	// UserAnswerOption rows for option-based questions.
	SelectedKey string `gorm:"size:1" json:"selectedKey,omitempty"`

	IsCorrect   bool `gorm:"default:false" json:"isCorrect"`
	ScoreEarned int  `gorm:"default:0" json:"scoreEarned"`

	// TimeTakenSeconds is client-reported and not verified server-side.
	TimeTakenSeconds int       `gorm:"default:0" json:"timeTaken"`
	AnsweredAt       time.Time `json:"answeredAt"`

	Selections []UserAnswerOption `gorm:"foreignKey:UserAnswerID;constraint:OnDelete:CASCADE" json:"selections,omitempty"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

// UserAnswerOption links a UserAnswer to a selected AnswerOption.
type UserAnswerOption struct {
	ID             uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserAnswerID   uint `gorm:"index;not null" json:"-"`
	AnswerOptionID uint `gorm:"index;not null" json:"answerOptionId"`
}

func (UserAnswerOption) TableName() string {
	return "user_answer_options"
}
