package repository

import (
	"errors"
	"testing"

	"github.com/classpad/classpad/internal/model"
)

func TestAddQuestionDefaultsPointsToOne(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	quiz, err := env.quizzes.CreateQuiz(classID, "Checkpoint", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	q, err := env.questions.AddQuestion(quiz.QuizID, "Capital of France?", model.QuestionShortAnswer, nil, model.TextAnswer("Paris"), 0)
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if q.Points != 1 {
		t.Errorf("points = %d, want 1", q.Points)
	}
	if q.Options == nil {
		t.Error("options should be an empty slice, not nil")
	}
}

func TestQuestionMutationsRequireDraft(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	quiz, questions := seedPublishedQuiz(t, env, classID)

	if _, err := env.questions.AddQuestion(quiz.QuizID, "Late addition", model.QuestionEssay, nil, model.AnswerValue{}, 1); !errors.Is(err, model.ErrInvalidState) {
		t.Errorf("AddQuestion on published quiz: got %v, want ErrInvalidState", err)
	}
	text := "changed"
	if _, err := env.questions.UpdateQuestion(questions[0].QuestionID, QuestionUpdate{QuestionText: &text}); !errors.Is(err, model.ErrInvalidState) {
		t.Errorf("UpdateQuestion on published quiz: got %v, want ErrInvalidState", err)
	}
	if err := env.questions.DeleteQuestion(questions[0].QuestionID); !errors.Is(err, model.ErrInvalidState) {
		t.Errorf("DeleteQuestion on published quiz: got %v, want ErrInvalidState", err)
	}

	// Back in draft the same mutations go through.
	draft := model.QuizDraft
	if _, err := env.quizzes.UpdateQuiz(quiz.QuizID, QuizUpdate{Status: &draft}); err != nil {
		t.Fatalf("back to draft: %v", err)
	}
	if err := env.questions.DeleteQuestion(questions[0].QuestionID); err != nil {
		t.Errorf("DeleteQuestion in draft: %v", err)
	}
}

func TestAddQuestionToMissingQuiz(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.questions.AddQuestion("Q0", "text", model.QuestionEssay, nil, model.AnswerValue{}, 1); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteQuestionLeavesRecordedAnswers(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	quiz, questions := seedPublishedQuiz(t, env, classID)

	attempt, err := env.attempts.StartAttempt(quiz.QuizID, testStudentID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if _, err := env.attempts.RecordAnswer(attempt.AttemptID, questions[0].QuestionID, model.TextAnswer("a")); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	draft := model.QuizDraft
	if _, err := env.quizzes.UpdateQuiz(quiz.QuizID, QuizUpdate{Status: &draft}); err != nil {
		t.Fatalf("back to draft: %v", err)
	}
	if err := env.questions.DeleteQuestion(questions[0].QuestionID); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}

	got, err := env.attempts.GetAttempt(attempt.AttemptID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if _, ok := got.Answers[questions[0].QuestionID]; !ok {
		t.Error("recorded answer dropped when its question was deleted")
	}
}
