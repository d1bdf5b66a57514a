package repository

import (
	"fmt"

	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/scoring"
	"github.com/classpad/classpad/internal/store"
)

// AttemptRepository is the attempt state machine: in_progress ->
// completed (or abandoned, a legal terminal state no operation drives
// yet). Availability and due-date cutoffs are enforced at start time;
// the score is computed once, at completion, from the live question set.
type AttemptRepository interface {
	StartAttempt(quizID string, studentTgID int64) (*model.Attempt, error)
	RecordAnswer(attemptID, questionID string, answer model.AnswerValue) (*model.Attempt, error)
	CompleteAttempt(attemptID string) (*model.Attempt, error)
	GetAttempt(attemptID string) (*model.Attempt, error)
	ListAttemptsForStudent(studentTgID int64, quizID string) ([]*model.Attempt, error)
	ListAttemptsForQuiz(quizID string) ([]*model.Attempt, error)
}

type attemptRepository struct {
	store  *store.Store
	grader scoring.Grader
	now    Clock
}

func NewAttemptRepository(s *store.Store, grader scoring.Grader, now Clock) AttemptRepository {
	return &attemptRepository{store: s, grader: grader, now: now}
}

func (r *attemptRepository) StartAttempt(quizID string, studentTgID int64) (*model.Attempt, error) {
	var attempt *model.Attempt
	err := r.store.Mutate(func(d *model.Document) error {
		quiz, ok := d.Quizzes[quizID]
		if !ok {
			return fmt.Errorf("quiz %s: %w", quizID, model.ErrNotFound)
		}
		if quiz.Status != model.QuizPublished {
			return fmt.Errorf("quiz %s is %s, not published: %w", quizID, quiz.Status, model.ErrInvalidState)
		}
		if quiz.DueAt != nil && model.AfterNaive(r.now(), *quiz.DueAt) {
			return fmt.Errorf("quiz %s: %w", quizID, model.ErrExpired)
		}
		start := model.FormatTime(r.now())
		attempt = &model.Attempt{
			AttemptID:   model.NewAttemptID(),
			QuizID:      quizID,
			StudentTgID: studentTgID,
			StartTime:   start,
			Answers:     map[string]model.AnswerValue{},
			Status:      model.AttemptInProgress,
			CreatedAt:   start,
			UpdatedAt:   start,
		}
		d.Attempts[attempt.AttemptID] = attempt
		d.AppendEvent("quiz_attempt_started", studentTgID, map[string]any{
			"quiz_id":    quizID,
			"attempt_id": attempt.AttemptID,
		}, r.now())
		return nil
	})
	return attempt, err
}

// RecordAnswer upserts one answer; a second answer for the same question
// overwrites the first. The answer shape is not validated against the
// question type.
func (r *attemptRepository) RecordAnswer(attemptID, questionID string, answer model.AnswerValue) (*model.Attempt, error) {
	var attempt *model.Attempt
	err := r.store.Mutate(func(d *model.Document) error {
		a, ok := d.Attempts[attemptID]
		if !ok {
			return fmt.Errorf("attempt %s: %w", attemptID, model.ErrNotFound)
		}
		if a.Status != model.AttemptInProgress {
			return fmt.Errorf("attempt %s is %s: %w", attemptID, a.Status, model.ErrInvalidState)
		}
		q, ok := d.Questions[questionID]
		if !ok {
			return fmt.Errorf("question %s: %w", questionID, model.ErrNotFound)
		}
		if q.QuizID != a.QuizID {
			return fmt.Errorf("question %s belongs to quiz %s, not %s: %w",
				questionID, q.QuizID, a.QuizID, model.ErrMismatch)
		}
		a.Answers[questionID] = answer
		a.UpdatedAt = model.FormatTime(r.now())
		attempt = a
		return nil
	})
	return attempt, err
}

// CompleteAttempt scores the attempt against the quiz's question set as
// it stands right now and seals the record. A second completion fails
// with ErrInvalidState and never re-scores.
func (r *attemptRepository) CompleteAttempt(attemptID string) (*model.Attempt, error) {
	var attempt *model.Attempt
	err := r.store.Mutate(func(d *model.Document) error {
		a, ok := d.Attempts[attemptID]
		if !ok {
			return fmt.Errorf("attempt %s: %w", attemptID, model.ErrNotFound)
		}
		if a.Status != model.AttemptInProgress {
			return fmt.Errorf("attempt %s is %s: %w", attemptID, a.Status, model.ErrInvalidState)
		}
		var questions []*model.Question
		for _, q := range d.Questions {
			if q.QuizID == a.QuizID {
				questions = append(questions, q)
			}
		}
		score := r.grader.Score(questions, a.Answers).Percent()

		now := model.FormatTime(r.now())
		a.EndTime = &now
		a.Score = &score
		a.Status = model.AttemptCompleted
		a.UpdatedAt = now
		d.AppendEvent("quiz_attempt_completed", a.StudentTgID, map[string]any{
			"quiz_id":    a.QuizID,
			"attempt_id": attemptID,
			"score":      score,
		}, r.now())
		attempt = a
		return nil
	})
	return attempt, err
}

func (r *attemptRepository) GetAttempt(attemptID string) (*model.Attempt, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	a, ok := doc.Attempts[attemptID]
	if !ok {
		return nil, fmt.Errorf("attempt %s: %w", attemptID, model.ErrNotFound)
	}
	return a, nil
}

// ListAttemptsForStudent filters by student, and by quiz when quizID is
// non-empty.
func (r *attemptRepository) ListAttemptsForStudent(studentTgID int64, quizID string) ([]*model.Attempt, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	var attempts []*model.Attempt
	for _, a := range doc.Attempts {
		if a.StudentTgID != studentTgID {
			continue
		}
		if quizID != "" && a.QuizID != quizID {
			continue
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func (r *attemptRepository) ListAttemptsForQuiz(quizID string) ([]*model.Attempt, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	var attempts []*model.Attempt
	for _, a := range doc.Attempts {
		if a.QuizID == quizID {
			attempts = append(attempts, a)
		}
	}
	return attempts, nil
}
