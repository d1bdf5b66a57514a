package repository

import (
	"fmt"

	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/store"
)

// QuizUpdate carries the partial fields of an update; nil fields are
// left untouched.
type QuizUpdate struct {
	Title            *string
	Description      *string
	TimeLimitMinutes *int
	DueAt            *string
	PassingScore     *int
	Status           *string
}

// QuizRepository is the quiz half of the registry: CRUD over quiz
// records scoped to a class. Every mutation appends an audit event
// inside the same store mutation.
type QuizRepository interface {
	CreateQuiz(classID, title, description string, timeLimitMinutes *int, dueAt *string, passingScore *int) (*model.Quiz, error)
	UpdateQuiz(quizID string, upd QuizUpdate) (*model.Quiz, error)
	GetQuiz(quizID string) (*model.Quiz, error)
	ListQuizzes(classID string) ([]*model.Quiz, error)
}

type quizRepository struct {
	store *store.Store
	now   Clock
}

func NewQuizRepository(s *store.Store, now Clock) QuizRepository {
	return &quizRepository{store: s, now: now}
}

func (r *quizRepository) CreateQuiz(classID, title, description string, timeLimitMinutes *int, dueAt *string, passingScore *int) (*model.Quiz, error) {
	var quiz *model.Quiz
	err := r.store.Mutate(func(d *model.Document) error {
		class, ok := d.Classes[classID]
		if !ok {
			return fmt.Errorf("class %s: %w", classID, model.ErrNotFound)
		}
		now := model.FormatTime(r.now())
		quiz = &model.Quiz{
			QuizID:           model.NewQuizID(),
			ClassID:          classID,
			Title:            title,
			Description:      description,
			TimeLimitMinutes: timeLimitMinutes,
			DueAt:            dueAt,
			PassingScore:     passingScore,
			Status:           model.QuizDraft,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		d.Quizzes[quiz.QuizID] = quiz
		d.AppendEvent("quiz_created", class.TeacherTgID, map[string]any{"quiz_id": quiz.QuizID}, r.now())
		return nil
	})
	return quiz, err
}

// UpdateQuiz merges the non-nil fields. The first transition into
// published stamps published_at; later republishes leave it alone.
func (r *quizRepository) UpdateQuiz(quizID string, upd QuizUpdate) (*model.Quiz, error) {
	var quiz *model.Quiz
	err := r.store.Mutate(func(d *model.Document) error {
		q, ok := d.Quizzes[quizID]
		if !ok {
			return fmt.Errorf("quiz %s: %w", quizID, model.ErrNotFound)
		}
		var changed []string
		if upd.Title != nil {
			q.Title = *upd.Title
			changed = append(changed, "title")
		}
		if upd.Description != nil {
			q.Description = *upd.Description
			changed = append(changed, "description")
		}
		if upd.TimeLimitMinutes != nil {
			q.TimeLimitMinutes = upd.TimeLimitMinutes
			changed = append(changed, "time_limit_minutes")
		}
		if upd.DueAt != nil {
			q.DueAt = upd.DueAt
			changed = append(changed, "due_at")
		}
		if upd.PassingScore != nil {
			q.PassingScore = upd.PassingScore
			changed = append(changed, "passing_score")
		}
		if upd.Status != nil {
			q.Status = *upd.Status
			changed = append(changed, "status")
			if *upd.Status == model.QuizPublished && q.PublishedAt == nil {
				ts := model.FormatTime(r.now())
				q.PublishedAt = &ts
			}
		}
		q.UpdatedAt = model.FormatTime(r.now())

		d.AppendEvent("quiz_updated", classActor(d, q.ClassID), map[string]any{
			"quiz_id": quizID,
			"updates": changed,
		}, r.now())
		quiz = q
		return nil
	})
	return quiz, err
}

func (r *quizRepository) GetQuiz(quizID string) (*model.Quiz, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	q, ok := doc.Quizzes[quizID]
	if !ok {
		return nil, fmt.Errorf("quiz %s: %w", quizID, model.ErrNotFound)
	}
	return q, nil
}

func (r *quizRepository) ListQuizzes(classID string) ([]*model.Quiz, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	var quizzes []*model.Quiz
	for _, q := range doc.Quizzes {
		if q.ClassID == classID {
			quizzes = append(quizzes, q)
		}
	}
	return quizzes, nil
}
