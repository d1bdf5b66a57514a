package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/classpad/classpad/internal/dto"
	"github.com/classpad/classpad/internal/files"
	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/notify"
	"github.com/classpad/classpad/internal/repository"
	"github.com/classpad/classpad/internal/scoring"
	"github.com/classpad/classpad/internal/store"
)

const (
	teacherID = int64(100)
	otherID   = int64(101)
	studentID = int64(200)
	groupID   = int64(-100500)
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type testEnv struct {
	store       *store.Store
	clock       *testClock
	classes     repository.ClassRepository
	submissions repository.SubmissionRepository
	teacherQuiz TeacherQuizService
	studentQuiz StudentQuizService
	assignments AssignmentService
	students    StudentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	s, err := store.New(filepath.Join(dir, "data.json"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	fileStore, err := files.NewStore(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("files.NewStore: %v", err)
	}
	clock := &testClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}

	classes := repository.NewClassRepository(s, clock.Now)
	quizzes := repository.NewQuizRepository(s, clock.Now)
	questions := repository.NewQuestionRepository(s, clock.Now)
	attempts := repository.NewAttemptRepository(s, scoring.NewGrader(), clock.Now)
	assignments := repository.NewAssignmentRepository(s, clock.Now)
	submissions := repository.NewSubmissionRepository(s, clock.Now)

	notifier := notify.NopNotifier{}
	snapshots := NewSnapshotService(s, notifier, clock.Now)

	return &testEnv{
		store:       s,
		clock:       clock,
		classes:     classes,
		submissions: submissions,
		teacherQuiz: NewTeacherQuizService(classes, quizzes, questions, attempts),
		studentQuiz: NewStudentQuizService(classes, quizzes, questions, attempts),
		assignments: NewAssignmentService(classes, assignments, submissions, notifier, snapshots, fileStore),
		students:    NewStudentService(classes, assignments, submissions, fileStore, snapshots),
	}
}

// seedClass links a group as a class for teacherID and returns it.
func seedClass(t *testing.T, env *testEnv) *model.Class {
	t.Helper()
	class, err := env.assignments.LinkClass(teacherID, "Ms. Ada", dto.LinkClassRequest{
		GroupChatID: groupID,
		GroupTitle:  "Algebra II",
	})
	if err != nil {
		t.Fatalf("LinkClass: %v", err)
	}
	return class
}

// enroll enrolls studentID into the class via its course code.
func enroll(t *testing.T, env *testEnv, class *model.Class) {
	t.Helper()
	if _, err := env.students.Enroll(studentID, "Sam", class.CourseCode); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
}

// draftQuizRequest is a minimal quiz creation payload left in draft.
func draftQuizRequest(classID string) dto.CreateQuizRequest {
	return dto.CreateQuizRequest{ClassID: classID, Title: "Draft quiz"}
}

// seedPublishedQuiz creates and publishes a quiz with two one-point
// multiple choice questions, acting as teacherID.
func seedPublishedQuiz(t *testing.T, env *testEnv, classID string, passingScore *int) (*model.Quiz, []*model.Question) {
	t.Helper()
	quiz, err := env.teacherQuiz.CreateQuiz(teacherID, dto.CreateQuizRequest{
		ClassID:      classID,
		Title:        "Checkpoint",
		PassingScore: passingScore,
	})
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	opts := []model.Option{{ID: "a", Text: "first"}, {ID: "b", Text: "second"}}
	q1, err := env.teacherQuiz.AddQuestion(teacherID, dto.CreateQuestionRequest{
		QuizID:        quiz.QuizID,
		QuestionText:  "Pick a",
		QuestionType:  model.QuestionMultipleChoice,
		Options:       opts,
		CorrectAnswer: model.TextAnswer("a"),
		Points:        1,
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	q2, err := env.teacherQuiz.AddQuestion(teacherID, dto.CreateQuestionRequest{
		QuizID:        quiz.QuizID,
		QuestionText:  "Pick b",
		QuestionType:  model.QuestionMultipleChoice,
		Options:       opts,
		CorrectAnswer: model.TextAnswer("b"),
		Points:        1,
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	published := model.QuizPublished
	quiz, err = env.teacherQuiz.UpdateQuiz(teacherID, quiz.QuizID, dto.UpdateQuizRequest{Status: &published})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	return quiz, []*model.Question{q1, q2}
}
