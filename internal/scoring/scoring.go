package scoring

import (
	"math"

	"github.com/classpad/classpad/internal/model"
)

// Strategy grades one recorded answer against its question, returning
// the points earned. Partial credit is never awarded.
type Strategy interface {
	Grade(q *model.Question, answer model.AnswerValue) int
}

// Grader routes by question type to the matching Strategy and totals a
// whole attempt.
type Grader interface {
	Score(questions []*model.Question, answers map[string]model.AnswerValue) Summary
}

// Summary is the outcome of scoring one attempt.
type Summary struct {
	EarnedPoints int
	TotalPoints  int
}

// Percent is round(100*earned/total) as a 0..100 integer, or 0 for a
// quiz with no points at stake (the contract, not an error).
func (s Summary) Percent() int {
	if s.TotalPoints <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.EarnedPoints) / float64(s.TotalPoints)))
}

type defaultGrader struct {
	strategies map[string]Strategy
}

// NewGrader installs the built-in strategies: exact equality for
// multiple_choice and true_false, case-insensitive (whitespace-
// preserving) match for short_answer, and no auto-grading for essay.
func NewGrader() Grader {
	return &defaultGrader{
		strategies: map[string]Strategy{
			model.QuestionMultipleChoice: exactStrategy{},
			model.QuestionTrueFalse:      exactStrategy{},
			model.QuestionShortAnswer:    foldStrategy{},
			model.QuestionEssay:          manualStrategy{},
		},
	}
}

// Score sums points over every question in the quiz. Unanswered and
// essay questions contribute zero earned points but full weight to the
// total.
func (g *defaultGrader) Score(questions []*model.Question, answers map[string]model.AnswerValue) Summary {
	var sum Summary
	for _, q := range questions {
		sum.TotalPoints += q.Points
		answer, ok := answers[q.QuestionID]
		if !ok {
			continue
		}
		if s, ok := g.strategies[q.QuestionType]; ok {
			sum.EarnedPoints += s.Grade(q, answer)
		}
	}
	return sum
}

type exactStrategy struct{}

func (exactStrategy) Grade(q *model.Question, answer model.AnswerValue) int {
	if answer.Equal(q.CorrectAnswer) {
		return q.Points
	}
	return 0
}

type foldStrategy struct{}

func (foldStrategy) Grade(q *model.Question, answer model.AnswerValue) int {
	if answer.EqualFold(q.CorrectAnswer) {
		return q.Points
	}
	return 0
}

// manualStrategy covers essay questions, which are graded by a person
// and never contribute to the automatic score.
type manualStrategy struct{}

func (manualStrategy) Grade(*model.Question, model.AnswerValue) int { return 0 }
