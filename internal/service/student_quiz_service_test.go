package service

import (
	"errors"
	"testing"

	"github.com/classpad/classpad/internal/model"
)

func TestStudentSeesOnlyPublishedQuizzesInOwnCourses(t *testing.T) {
	env := newTestEnv(t)
	class := seedClass(t, env)
	seedPublishedQuiz(t, env, class.ClassID, nil)

	// A draft next to the published one.
	if _, err := env.teacherQuiz.CreateQuiz(teacherID, draftQuizRequest(class.ClassID)); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	// Before enrollment: nothing.
	quizzes, err := env.studentQuiz.ListQuizzes(studentID)
	if err != nil {
		t.Fatalf("ListQuizzes: %v", err)
	}
	if len(quizzes) != 0 {
		t.Errorf("unenrolled student sees %d quizzes, want 0", len(quizzes))
	}

	enroll(t, env, class)
	quizzes, err = env.studentQuiz.ListQuizzes(studentID)
	if err != nil {
		t.Fatalf("ListQuizzes: %v", err)
	}
	if len(quizzes) != 1 {
		t.Fatalf("got %d quizzes, want only the published one", len(quizzes))
	}
	if quizzes[0].CourseTitle != "Algebra II" {
		t.Errorf("course_title = %q", quizzes[0].CourseTitle)
	}
}

func TestStartAttemptHidesAnswerKey(t *testing.T) {
	env := newTestEnv(t)
	class := seedClass(t, env)
	quiz, _ := seedPublishedQuiz(t, env, class.ClassID, nil)
	enroll(t, env, class)

	started, err := env.studentQuiz.StartAttempt(studentID, quiz.QuizID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if len(started.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(started.Questions))
	}
	for _, q := range started.Questions {
		if len(q.Options) != 2 {
			t.Errorf("question %s lost its options", q.QuestionID)
		}
	}
}

func TestStartAttemptRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	class := seedClass(t, env)
	quiz, _ := seedPublishedQuiz(t, env, class.ClassID, nil)

	if _, err := env.studentQuiz.StartAttempt(studentID, quiz.QuizID); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestDraftQuizIsInvisibleToStudents(t *testing.T) {
	env := newTestEnv(t)
	class := seedClass(t, env)
	enroll(t, env, class)
	draft, err := env.teacherQuiz.CreateQuiz(teacherID, draftQuizRequest(class.ClassID))
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	if _, err := env.studentQuiz.GetQuiz(studentID, draft.QuizID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetQuiz on draft: got %v, want ErrNotFound", err)
	}
	if _, err := env.studentQuiz.StartAttempt(studentID, draft.QuizID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("StartAttempt on draft: got %v, want ErrNotFound", err)
	}
}

func TestCompleteComputesPassedAgainstPassingScore(t *testing.T) {
	env := newTestEnv(t)
	class := seedClass(t, env)
	passing := 60
	quiz, questions := seedPublishedQuiz(t, env, class.ClassID, &passing)
	enroll(t, env, class)

	started, err := env.studentQuiz.StartAttempt(studentID, quiz.QuizID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	// One of two right: 50, below the 60 bar.
	if _, err := env.studentQuiz.Answer(studentID, started.Attempt.AttemptID, questions[0].QuestionID, model.TextAnswer("a")); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	done, err := env.studentQuiz.CompleteAttempt(studentID, started.Attempt.AttemptID)
	if err != nil {
		t.Fatalf("CompleteAttempt: %v", err)
	}
	if done.Attempt.Score == nil || *done.Attempt.Score != 50 {
		t.Fatalf("score = %v, want 50", done.Attempt.Score)
	}
	if done.Passed == nil || *done.Passed {
		t.Errorf("passed = %v, want false", done.Passed)
	}
}

func TestCompleteWithoutPassingScoreLeavesPassedNil(t *testing.T) {
	env := newTestEnv(t)
	class := seedClass(t, env)
	quiz, _ := seedPublishedQuiz(t, env, class.ClassID, nil)
	enroll(t, env, class)

	started, err := env.studentQuiz.StartAttempt(studentID, quiz.QuizID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	done, err := env.studentQuiz.CompleteAttempt(studentID, started.Attempt.AttemptID)
	if err != nil {
		t.Fatalf("CompleteAttempt: %v", err)
	}
	if done.Passed != nil {
		t.Errorf("passed = %v, want nil", *done.Passed)
	}
}

func TestAttemptOwnershipIsEnforced(t *testing.T) {
	env := newTestEnv(t)
	class := seedClass(t, env)
	quiz, questions := seedPublishedQuiz(t, env, class.ClassID, nil)
	enroll(t, env, class)

	started, err := env.studentQuiz.StartAttempt(studentID, quiz.QuizID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	intruder := studentID + 1
	if _, err := env.studentQuiz.Answer(intruder, started.Attempt.AttemptID, questions[0].QuestionID, model.TextAnswer("a")); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("Answer by intruder: got %v, want ErrForbidden", err)
	}
	if _, err := env.studentQuiz.CompleteAttempt(intruder, started.Attempt.AttemptID); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("Complete by intruder: got %v, want ErrForbidden", err)
	}
	if _, err := env.studentQuiz.GetAttempt(intruder, started.Attempt.AttemptID); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("GetAttempt by intruder: got %v, want ErrForbidden", err)
	}
}

func TestAttemptDetailRevealsKeyOnlyWhenCompleted(t *testing.T) {
	env := newTestEnv(t)
	class := seedClass(t, env)
	quiz, _ := seedPublishedQuiz(t, env, class.ClassID, nil)
	enroll(t, env, class)

	started, err := env.studentQuiz.StartAttempt(studentID, quiz.QuizID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	detail, err := env.studentQuiz.GetAttempt(studentID, started.Attempt.AttemptID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if _, ok := detail.Questions.([]*model.Question); ok {
		t.Error("in-progress attempt exposes full questions with answer key")
	}

	if _, err := env.studentQuiz.CompleteAttempt(studentID, started.Attempt.AttemptID); err != nil {
		t.Fatalf("CompleteAttempt: %v", err)
	}
	detail, err = env.studentQuiz.GetAttempt(studentID, started.Attempt.AttemptID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if _, ok := detail.Questions.([]*model.Question); !ok {
		t.Error("completed attempt should expose the full questions")
	}
}
