package service

import (
	"sort"

	"quizarena_backend/internal/model"
)

// questionCatalog is an in-memory index over a quiz's questions, sorted
// by order with id as tiebreaker. It backs all attempt navigation.
type questionCatalog struct {
	questions []model.Question
	position  map[uint]int
}

func newQuestionCatalog(questions []model.Question) *questionCatalog {
	sorted := make([]model.Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})
	position := make(map[uint]int, len(sorted))
	for i, q := range sorted {
		position[q.ID] = i
	}
	return &questionCatalog{questions: sorted, position: position}
}

func (c *questionCatalog) Len() int { return len(c.questions) }

func (c *questionCatalog) FirstID() *uint {
	if len(c.questions) == 0 {
		return nil
	}
	id := c.questions[0].ID
	return &id
}

func (c *questionCatalog) LastID() *uint {
	if len(c.questions) == 0 {
		return nil
	}
	id := c.questions[len(c.questions)-1].ID
	return &id
}

// CurrentID is the first unanswered question, nil when every question
// has an answer.
func (c *questionCatalog) CurrentID(answered map[uint]bool) *uint {
	for _, q := range c.questions {
		if !answered[q.ID] {
			id := q.ID
			return &id
		}
	}
	return nil
}

func (c *questionCatalog) ByID(id uint) *model.Question {
	i, ok := c.position[id]
	if !ok {
		return nil
	}
	return &c.questions[i]
}

func (c *questionCatalog) NextID(id uint) *uint {
	i, ok := c.position[id]
	if !ok || i+1 >= len(c.questions) {
		return nil
	}
	next := c.questions[i+1].ID
	return &next
}

func (c *questionCatalog) PreviousID(id uint) *uint {
	i, ok := c.position[id]
	if !ok || i == 0 {
		return nil
	}
	prev := c.questions[i-1].ID
	return &prev
}

// NavStatuses renders the per-question answered map in catalog order.
func (c *questionCatalog) NavStatuses(answered map[uint]bool) []model.QuestionNavStatus {
	statuses := make([]model.QuestionNavStatus, 0, len(c.questions))
	for _, q := range c.questions {
		status := "unanswered"
		if answered[q.ID] {
			status = "answered"
		}
		statuses = append(statuses, model.QuestionNavStatus{
			ID:         q.ID,
			Order:      q.Order,
			IsAnswered: answered[q.ID],
			Status:     status,
		})
	}
	return statuses
}
