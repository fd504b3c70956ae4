package service

import (
	"testing"

	"quizarena_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func choiceQuestion(qType model.QuestionType, score int) *model.Question {
	q := &model.Question{
		QuestionType: qType,
		Score:        score,
	}
	q.ID = 10
	q.Answers = []model.AnswerOption{
		{BaseModel: model.BaseModel{ID: 1}, QuestionID: 10, IsCorrect: true, Order: 1},
		{BaseModel: model.BaseModel{ID: 2}, QuestionID: 10, IsCorrect: true, Order: 2},
		{BaseModel: model.BaseModel{ID: 3}, QuestionID: 10, IsCorrect: false, Order: 3},
		{BaseModel: model.BaseModel{ID: 4}, QuestionID: 10, IsCorrect: false, Order: 4},
	}
	return q
}

func TestEvaluateSingleChoice(t *testing.T) {
	q := choiceQuestion(model.SingleChoice, 3)
	q.Answers[1].IsCorrect = false

	correct, score := evaluateAnswer(q, []uint{1}, "")
	assert.True(t, correct)
	assert.Equal(t, 3, score)

	correct, score = evaluateAnswer(q, []uint{3}, "")
	assert.False(t, correct)
	assert.Equal(t, 0, score)

	// more than one selection can never be correct for single choice
	correct, _ = evaluateAnswer(q, []uint{1, 3}, "")
	assert.False(t, correct)
}

func TestEvaluateMultipleChoiceExactSetOnly(t *testing.T) {
	q := choiceQuestion(model.MultipleChoice, 2)

	tests := []struct {
		name      string
		selection []uint
		want      bool
	}{
		{"exact set", []uint{1, 2}, true},
		{"exact set reversed", []uint{2, 1}, true},
		{"subset", []uint{1}, false},
		{"superset", []uint{1, 2, 3}, false},
		{"disjoint", []uint{3, 4}, false},
		{"duplicate ids collapse to subset", []uint{1, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, score := evaluateAnswer(q, tt.selection, "")
			assert.Equal(t, tt.want, correct)
			if tt.want {
				assert.Equal(t, 2, score)
			} else {
				assert.Equal(t, 0, score)
			}
		})
	}
}

func TestEvaluateKeyAnswer(t *testing.T) {
	q := &model.Question{QuestionType: model.KeyAnswer, Score: 1, CorrectKey: "g"}

	correct, score := evaluateAnswer(q, nil, "g")
	assert.True(t, correct)
	assert.Equal(t, 1, score)

	correct, _ = evaluateAnswer(q, nil, "a")
	assert.False(t, correct)

	correct, _ = evaluateAnswer(q, nil, "")
	assert.False(t, correct)
}

func TestValidOptionIDs(t *testing.T) {
	q := choiceQuestion(model.MultipleChoice, 1)

	assert.True(t, validOptionIDs(q, []uint{1, 4}))
	assert.True(t, validOptionIDs(q, nil))
	assert.False(t, validOptionIDs(q, []uint{1, 99}))
}
