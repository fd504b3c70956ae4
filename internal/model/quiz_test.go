package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04:05", value)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

func TestIsTournamentActiveSameDayWindow(t *testing.T) {
	quiz := &Quiz{
		QuizType:            QuizTournament,
		TournamentStartTime: "10:00:00",
		TournamentEndTime:   "12:00:00",
	}

	assert.True(t, quiz.IsTournamentActive(clock(t, "10:00:00")), "start is inclusive")
	assert.True(t, quiz.IsTournamentActive(clock(t, "11:59:59")))
	assert.False(t, quiz.IsTournamentActive(clock(t, "12:00:00")), "end is exclusive")
	assert.False(t, quiz.IsTournamentActive(clock(t, "09:59:59")))
	assert.False(t, quiz.IsTournamentActive(clock(t, "23:30:00")))
}

func TestIsTournamentActiveWrappingWindow(t *testing.T) {
	quiz := &Quiz{
		QuizType:            QuizTournament,
		TournamentStartTime: "22:00:00",
		TournamentEndTime:   "02:00:00",
	}

	assert.True(t, quiz.IsTournamentActive(clock(t, "23:30:00")), "before midnight branch")
	assert.True(t, quiz.IsTournamentActive(clock(t, "01:30:00")), "after midnight branch")
	assert.True(t, quiz.IsTournamentActive(clock(t, "22:00:00")))
	assert.False(t, quiz.IsTournamentActive(clock(t, "02:00:00")))
	assert.False(t, quiz.IsTournamentActive(clock(t, "12:00:00")))
}

func TestIsTournamentActiveNonTournament(t *testing.T) {
	quiz := &Quiz{QuizType: QuizStandard, TournamentStartTime: "10:00:00", TournamentEndTime: "11:00:00"}
	assert.True(t, quiz.IsTournamentActive(clock(t, "03:00:00")))

	open := &Quiz{QuizType: QuizTournament}
	assert.True(t, open.IsTournamentActive(clock(t, "03:00:00")), "no window configured means always open")
}

func TestCalculateResults(t *testing.T) {
	attempt := &QuizAttempt{TotalQuestions: 4, CorrectAnswers: 3}
	attempt.CalculateResults()
	assert.InDelta(t, 75.0, attempt.Percentage, 0.001)

	empty := &QuizAttempt{TotalQuestions: 0, CorrectAnswers: 0}
	empty.CalculateResults()
	assert.Zero(t, empty.Percentage)
}

func TestAttemptStatusTransitions(t *testing.T) {
	assert.True(t, AttemptStarted.IsActive())
	assert.True(t, AttemptInProgress.IsActive())
	assert.False(t, AttemptCompleted.IsActive())
	assert.False(t, AttemptAbandoned.IsActive())

	assert.True(t, AttemptCompleted.IsTerminal())
	assert.True(t, AttemptAbandoned.IsTerminal())
	assert.False(t, AttemptStarted.IsTerminal())
}
