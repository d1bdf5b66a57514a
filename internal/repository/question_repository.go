package repository

import (
	"fmt"

	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/store"
)

// QuestionUpdate carries the partial fields of an update; nil fields are
// left untouched.
type QuestionUpdate struct {
	QuestionText  *string
	Options       *[]model.Option
	CorrectAnswer *model.AnswerValue
	Points        *int
}

// QuestionRepository is the question half of the registry. The
// draft-only guard lives here, once, so no caller can slip a question
// mutation past a published quiz.
type QuestionRepository interface {
	AddQuestion(quizID, questionText, questionType string, options []model.Option, correctAnswer model.AnswerValue, points int) (*model.Question, error)
	UpdateQuestion(questionID string, upd QuestionUpdate) (*model.Question, error)
	DeleteQuestion(questionID string) error
	GetQuestion(questionID string) (*model.Question, error)
	ListQuestions(quizID string) ([]*model.Question, error)
}

type questionRepository struct {
	store *store.Store
	now   Clock
}

func NewQuestionRepository(s *store.Store, now Clock) QuestionRepository {
	return &questionRepository{store: s, now: now}
}

func requireDraftQuiz(d *model.Document, quizID string) (*model.Quiz, error) {
	quiz, ok := d.Quizzes[quizID]
	if !ok {
		return nil, fmt.Errorf("quiz %s: %w", quizID, model.ErrNotFound)
	}
	if quiz.Status != model.QuizDraft {
		return nil, fmt.Errorf("quiz %s is %s, questions are only mutable in draft: %w",
			quizID, quiz.Status, model.ErrInvalidState)
	}
	return quiz, nil
}

func (r *questionRepository) AddQuestion(quizID, questionText, questionType string, options []model.Option, correctAnswer model.AnswerValue, points int) (*model.Question, error) {
	if points <= 0 {
		points = 1
	}
	var question *model.Question
	err := r.store.Mutate(func(d *model.Document) error {
		quiz, err := requireDraftQuiz(d, quizID)
		if err != nil {
			return err
		}
		if options == nil {
			options = []model.Option{}
		}
		now := model.FormatTime(r.now())
		question = &model.Question{
			QuestionID:    model.NewQuestionID(),
			QuizID:        quizID,
			QuestionText:  questionText,
			QuestionType:  questionType,
			Options:       options,
			CorrectAnswer: correctAnswer,
			Points:        points,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		d.Questions[question.QuestionID] = question
		d.AppendEvent("question_added", classActor(d, quiz.ClassID), map[string]any{
			"quiz_id":     quizID,
			"question_id": question.QuestionID,
		}, r.now())
		return nil
	})
	return question, err
}

func (r *questionRepository) UpdateQuestion(questionID string, upd QuestionUpdate) (*model.Question, error) {
	var question *model.Question
	err := r.store.Mutate(func(d *model.Document) error {
		q, ok := d.Questions[questionID]
		if !ok {
			return fmt.Errorf("question %s: %w", questionID, model.ErrNotFound)
		}
		quiz, err := requireDraftQuiz(d, q.QuizID)
		if err != nil {
			return err
		}
		var changed []string
		if upd.QuestionText != nil {
			q.QuestionText = *upd.QuestionText
			changed = append(changed, "question_text")
		}
		if upd.Options != nil {
			q.Options = *upd.Options
			changed = append(changed, "options")
		}
		if upd.CorrectAnswer != nil {
			q.CorrectAnswer = *upd.CorrectAnswer
			changed = append(changed, "correct_answer")
		}
		if upd.Points != nil && *upd.Points > 0 {
			q.Points = *upd.Points
			changed = append(changed, "points")
		}
		q.UpdatedAt = model.FormatTime(r.now())
		d.AppendEvent("question_updated", classActor(d, quiz.ClassID), map[string]any{
			"question_id": questionID,
			"updates":     changed,
		}, r.now())
		question = q
		return nil
	})
	return question, err
}

// DeleteQuestion removes the question record. Attempts that already hold
// an answer under this question keep the orphaned key, by contract.
func (r *questionRepository) DeleteQuestion(questionID string) error {
	return r.store.Mutate(func(d *model.Document) error {
		q, ok := d.Questions[questionID]
		if !ok {
			return fmt.Errorf("question %s: %w", questionID, model.ErrNotFound)
		}
		quiz, err := requireDraftQuiz(d, q.QuizID)
		if err != nil {
			return err
		}
		delete(d.Questions, questionID)
		d.AppendEvent("question_deleted", classActor(d, quiz.ClassID), map[string]any{
			"question_id": questionID,
		}, r.now())
		return nil
	})
}

func (r *questionRepository) GetQuestion(questionID string) (*model.Question, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	q, ok := doc.Questions[questionID]
	if !ok {
		return nil, fmt.Errorf("question %s: %w", questionID, model.ErrNotFound)
	}
	return q, nil
}

func (r *questionRepository) ListQuestions(quizID string) ([]*model.Question, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	var questions []*model.Question
	for _, q := range doc.Questions {
		if q.QuizID == quizID {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func classActor(d *model.Document, classID string) int64 {
	if class, ok := d.Classes[classID]; ok {
		return class.TeacherTgID
	}
	return 0
}
