package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/classpad/classpad/internal/model"
)

func TestCreateQuizStartsInDraft(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)

	quiz, err := env.quizzes.CreateQuiz(classID, "Checkpoint", "weekly", nil, nil, nil)
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if quiz.Status != model.QuizDraft {
		t.Errorf("status = %q, want draft", quiz.Status)
	}
	if quiz.PublishedAt != nil {
		t.Errorf("published_at set on a draft: %v", *quiz.PublishedAt)
	}
}

func TestCreateQuizRequiresClass(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.quizzes.CreateQuiz("-1", "Checkpoint", "", nil, nil, nil); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestPublishStampsPublishedAtOnce(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	quiz, err := env.quizzes.CreateQuiz(classID, "Checkpoint", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	published := model.QuizPublished
	quiz, err = env.quizzes.UpdateQuiz(quiz.QuizID, QuizUpdate{Status: &published})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if quiz.PublishedAt == nil {
		t.Fatal("published_at not stamped on publish")
	}
	stamped := *quiz.PublishedAt

	closed := model.QuizClosed
	if _, err := env.quizzes.UpdateQuiz(quiz.QuizID, QuizUpdate{Status: &closed}); err != nil {
		t.Fatalf("close: %v", err)
	}
	env.clock.now = env.clock.now.Add(time.Hour)
	quiz, err = env.quizzes.UpdateQuiz(quiz.QuizID, QuizUpdate{Status: &published})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if *quiz.PublishedAt != stamped {
		t.Errorf("republish moved published_at from %s to %s", stamped, *quiz.PublishedAt)
	}
}

func TestUpdateQuizMergesPartialFields(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	quiz, err := env.quizzes.CreateQuiz(classID, "Checkpoint", "weekly", nil, nil, nil)
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	limit := 30
	quiz, err = env.quizzes.UpdateQuiz(quiz.QuizID, QuizUpdate{TimeLimitMinutes: &limit})
	if err != nil {
		t.Fatalf("UpdateQuiz: %v", err)
	}
	if quiz.Title != "Checkpoint" || quiz.Description != "weekly" {
		t.Errorf("untouched fields changed: title=%q description=%q", quiz.Title, quiz.Description)
	}
	if quiz.TimeLimitMinutes == nil || *quiz.TimeLimitMinutes != 30 {
		t.Errorf("time limit not applied: %v", quiz.TimeLimitMinutes)
	}
}

func TestListQuizzesScopedToClass(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	other, err := env.classes.LinkClass(-200600, "Geometry", testTeacherID)
	if err != nil {
		t.Fatalf("LinkClass: %v", err)
	}
	if _, err := env.quizzes.CreateQuiz(classID, "One", "", nil, nil, nil); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if _, err := env.quizzes.CreateQuiz(other.ClassID, "Two", "", nil, nil, nil); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	quizzes, err := env.quizzes.ListQuizzes(classID)
	if err != nil {
		t.Fatalf("ListQuizzes: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].Title != "One" {
		t.Errorf("got %d quizzes for class, want only \"One\"", len(quizzes))
	}
}
