package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/scoring"
	"github.com/classpad/classpad/internal/store"
)

const (
	testTeacherID = int64(100)
	testStudentID = int64(200)
	testGroupID   = int64(-100500)
)

// testClock is a settable clock shared by all repositories in a fixture.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type testEnv struct {
	store       *store.Store
	clock       *testClock
	classes     ClassRepository
	quizzes     QuizRepository
	questions   QuestionRepository
	attempts    AttemptRepository
	assignments AssignmentRepository
	submissions SubmissionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	clock := &testClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	return &testEnv{
		store:       s,
		clock:       clock,
		classes:     NewClassRepository(s, clock.Now),
		quizzes:     NewQuizRepository(s, clock.Now),
		questions:   NewQuestionRepository(s, clock.Now),
		attempts:    NewAttemptRepository(s, scoring.NewGrader(), clock.Now),
		assignments: NewAssignmentRepository(s, clock.Now),
		submissions: NewSubmissionRepository(s, clock.Now),
	}
}

// seedClass links a group chat as a class and returns its id.
func seedClass(t *testing.T, env *testEnv) string {
	t.Helper()
	class, err := env.classes.LinkClass(testGroupID, "Algebra II", testTeacherID)
	if err != nil {
		t.Fatalf("LinkClass: %v", err)
	}
	return class.ClassID
}

// seedPublishedQuiz creates a quiz with two one-point multiple choice
// questions and publishes it.
func seedPublishedQuiz(t *testing.T, env *testEnv, classID string) (*model.Quiz, []*model.Question) {
	t.Helper()
	quiz, err := env.quizzes.CreateQuiz(classID, "Checkpoint", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	opts := []model.Option{{ID: "a", Text: "first"}, {ID: "b", Text: "second"}}
	q1, err := env.questions.AddQuestion(quiz.QuizID, "Pick a", model.QuestionMultipleChoice, opts, model.TextAnswer("a"), 1)
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	q2, err := env.questions.AddQuestion(quiz.QuizID, "Pick b", model.QuestionMultipleChoice, opts, model.TextAnswer("b"), 1)
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	published := model.QuizPublished
	quiz, err = env.quizzes.UpdateQuiz(quiz.QuizID, QuizUpdate{Status: &published})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	return quiz, []*model.Question{q1, q2}
}
