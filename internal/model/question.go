package model

import "gorm.io/gorm"

type QuestionType string

const (
	// SingleChoice is correct iff exactly the one correct option is selected.
	SingleChoice QuestionType = "single"
	// MultipleChoice is correct iff the selection equals the correct set.
	MultipleChoice QuestionType = "multiple"
	// KeyAnswer compares a submitted letter key against CorrectKey.
	KeyAnswer QuestionType = "key"
)

// Valid keys for KeyAnswer questions.
const KeyChoices = "abgd"

type Topic struct {
	BaseModel
	Name string `gorm:"size:255;not null" json:"name"`
	URL  string `gorm:"size:255" json:"url"`
}

func (Topic) TableName() string {
	return "topics"
}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID       uint         `gorm:"index;not null" json:"quizId"`
	TopicID      uint         `gorm:"index" json:"topicId"`
	QuestionText string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType QuestionType `gorm:"size:20;default:'single'" json:"questionType"`
	Explanation  string       `gorm:"type:text" json:"explanation,omitempty"`
	Score        int          `gorm:"default:1" json:"score"`

	// CorrectKey holds the stored answer for KeyAnswer questions (a/b/g/d).
	CorrectKey string `gorm:"size:1" json:"-"`

	// Order is 1-based and unique within a quiz. Assigned as max+1 at
	// insert time when left zero; never renumbered on delete.
	Order int `gorm:"column:order;default:0" json:"order"`

	Answers []AnswerOption `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// BeforeCreate assigns the next order slot inside the insert transaction,
// so concurrent inserts cannot both read the same max. Nested options are
// inserted as one batch whose per-row hooks would all read the same max,
// so they are numbered sequentially here instead.
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.Order == 0 {
		var maxOrder int
		err := tx.Model(&Question{}).
			Where("quiz_id = ?", q.QuizID).
			Select("COALESCE(MAX(`order`), 0)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}
		q.Order = maxOrder + 1
	}

	next := 0
	for i := range q.Answers {
		if q.Answers[i].Order > next {
			next = q.Answers[i].Order
		}
	}
	for i := range q.Answers {
		if q.Answers[i].Order == 0 {
			next++
			q.Answers[i].Order = next
		}
	}
	return nil
}

// swagger:model AnswerOption
type AnswerOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	AnswerText string `gorm:"type:text;not null" json:"answerText"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
	Order      int    `gorm:"column:order;default:0" json:"order"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}

func (a *AnswerOption) BeforeCreate(tx *gorm.DB) error {
	if a.Order != 0 {
		return nil
	}
	var maxOrder int
	err := tx.Model(&AnswerOption{}).
		Where("question_id = ?", a.QuestionID).
		Select("COALESCE(MAX(`order`), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		return err
	}
	a.Order = maxOrder + 1
	return nil
}
