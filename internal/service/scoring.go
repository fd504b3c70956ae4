package service

import "quizarena_backend/internal/model"

// evaluateAnswer grades a submission against a question. Selections are
// answer option ids for choice questions; selectedKey is used for key
// questions. Score is all-or-nothing, there is no partial credit.
func evaluateAnswer(question *model.Question, selections []uint, selectedKey string) (bool, int) {
	correct := false
	switch question.QuestionType {
	case model.SingleChoice:
		correct = len(selections) == 1 && isCorrectOption(question, selections[0])
	case model.MultipleChoice:
		correct = matchesCorrectSet(question, selections)
	case model.KeyAnswer:
		correct = selectedKey != "" && selectedKey == question.CorrectKey
	}
	if correct {
		return true, question.Score
	}
	return false, 0
}

func isCorrectOption(question *model.Question, optionID uint) bool {
	for _, opt := range question.Answers {
		if opt.ID == optionID {
			return opt.IsCorrect
		}
	}
	return false
}

// matchesCorrectSet checks set equality between the selection and the
// question's correct options.
func matchesCorrectSet(question *model.Question, selections []uint) bool {
	correct := make(map[uint]bool)
	for _, opt := range question.Answers {
		if opt.IsCorrect {
			correct[opt.ID] = true
		}
	}
	if len(correct) == 0 {
		return false
	}
	selected := make(map[uint]bool, len(selections))
	for _, id := range selections {
		selected[id] = true
	}
	if len(selected) != len(correct) {
		return false
	}
	for id := range selected {
		if !correct[id] {
			return false
		}
	}
	return true
}

// validOptionIDs reports whether every selected id belongs to the
// question's own options.
func validOptionIDs(question *model.Question, selections []uint) bool {
	known := make(map[uint]bool, len(question.Answers))
	for _, opt := range question.Answers {
		known[opt.ID] = true
	}
	for _, id := range selections {
		if !known[id] {
			return false
		}
	}
	return true
}
