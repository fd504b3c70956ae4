package model

import "time"

// AnswerOptionView hides correctness; served before a question is answered.
type AnswerOptionView struct {
	ID         uint   `json:"id"`
	AnswerText string `json:"answerText"`
	Order      int    `json:"order"`
}

// AnswerOptionReveal includes correctness; served only after submission.
type AnswerOptionReveal struct {
	ID         uint   `json:"id"`
	AnswerText string `json:"answerText"`
	IsCorrect  bool   `json:"isCorrect"`
	Order      int    `json:"order"`
}

// QuestionView is the pre-answer shape of a question.
type QuestionView struct {
	ID           uint               `json:"id"`
	QuestionText string             `json:"questionText"`
	QuestionType QuestionType       `json:"questionType"`
	Score        int                `json:"score"`
	Order        int                `json:"order"`
	Answers      []AnswerOptionView `json:"answers"`
}

// QuestionReveal is the post-answer shape: correct options, explanation
// and the user's own answer.
type QuestionReveal struct {
	ID           uint                 `json:"id"`
	QuestionText string               `json:"questionText"`
	QuestionType QuestionType         `json:"questionType"`
	Explanation  string               `json:"explanation,omitempty"`
	Score        int                  `json:"score"`
	Order        int                  `json:"order"`
	Answers      []AnswerOptionReveal `json:"answers"`
	UserAnswer   *UserAnswerView      `json:"userAnswer,omitempty"`
}

// UserAnswerView is the serialized form of a recorded answer.
type UserAnswerView struct {
	ID                uint      `json:"id"`
	SelectedOptionIDs []uint    `json:"selectedAnswerIds,omitempty"`
	SelectedKey       string    `json:"selectedKey,omitempty"`
	IsCorrect         bool      `json:"isCorrect"`
	ScoreEarned       int       `json:"scoreEarned"`
	TimeTakenSeconds  int       `json:"timeTaken"`
	AnsweredAt        time.Time `json:"answeredAt"`
}

// AttemptView decorates an attempt with derived navigation ids and the
// remaining time budget.
type AttemptView struct {
	QuizAttempt
	FirstQuestionID      *uint `json:"firstQuestionId"`
	LastQuestionID       *uint `json:"lastQuestionId"`
	CurrentQuestionID    *uint `json:"currentQuestionId"`
	RemainingTimeSeconds int   `json:"remainingTime"`
}

// QuestionNavStatus is one row of the attempt navigation map.
type QuestionNavStatus struct {
	ID         uint   `json:"id"`
	Order      int    `json:"order"`
	IsAnswered bool   `json:"isAnswered"`
	Status     string `json:"status"`
}

// QuizView decorates a quiz with counts and the caller's latest attempt.
type QuizView struct {
	Quiz
	CategoryTitle      string       `json:"categoryTitle"`
	TotalQuestions     int          `json:"totalQuestions"`
	TotalScore         int          `json:"totalScore"`
	IsTournamentActive bool         `json:"isTournamentActive"`
	Attempt            *AttemptView `json:"attempt,omitempty"`
}

// AttemptResult is one question + answer pair of the results view.
type AttemptResult struct {
	Question   QuestionReveal `json:"question"`
	UserAnswer UserAnswerView `json:"userAnswer"`
}
