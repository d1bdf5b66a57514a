package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/classpad/classpad/internal/model"
)

func TestCreateAssignmentStartsOpen(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)

	a, err := env.assignments.CreateAssignment(classID, "Essay 1", "500 words", nil)
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if a.Status != model.AssignmentOpen {
		t.Errorf("status = %q, want open", a.Status)
	}

	if _, err := env.assignments.CreateAssignment("-1", "Essay 1", "", nil); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing class: got %v, want ErrNotFound", err)
	}
}

func TestSetPostedMessageID(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	a, err := env.assignments.CreateAssignment(classID, "Essay 1", "", nil)
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}

	if err := env.assignments.SetPostedMessageID(a.AssignmentID, 4242); err != nil {
		t.Fatalf("SetPostedMessageID: %v", err)
	}
	got, err := env.assignments.GetAssignment(a.AssignmentID)
	if err != nil {
		t.Fatalf("GetAssignment: %v", err)
	}
	if got.PostedMessageID == nil || *got.PostedMessageID != 4242 {
		t.Errorf("posted message id = %v, want 4242", got.PostedMessageID)
	}
}

func TestSubmissionLateFlag(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	due := "2025-03-10T13:00:00"
	a, err := env.assignments.CreateAssignment(classID, "Essay 1", "", &due)
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}

	env.clock.now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	onTime, err := env.submissions.AddSubmission(a.AssignmentID, testStudentID, "Sam", "draft", nil, nil)
	if err != nil {
		t.Fatalf("AddSubmission: %v", err)
	}
	if onTime.Late {
		t.Error("submission before due date flagged late")
	}

	env.clock.now = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	late, err := env.submissions.AddSubmission(a.AssignmentID, testStudentID, "Sam", "final", nil, nil)
	if err != nil {
		t.Fatalf("AddSubmission: %v", err)
	}
	if !late.Late {
		t.Error("submission after due date not flagged late")
	}
}

func TestResubmissionsAreKeptAndLatestWins(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	a, err := env.assignments.CreateAssignment(classID, "Essay 1", "", nil)
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}

	if _, err := env.submissions.AddSubmission(a.AssignmentID, testStudentID, "Sam", "first", nil, nil); err != nil {
		t.Fatalf("AddSubmission: %v", err)
	}
	env.clock.now = env.clock.now.Add(time.Minute)
	if _, err := env.submissions.AddSubmission(a.AssignmentID, testStudentID, "Sam", "second", nil, nil); err != nil {
		t.Fatalf("AddSubmission: %v", err)
	}

	all, err := env.submissions.ListSubmissions(a.AssignmentID)
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d submissions, want both kept", len(all))
	}

	latest, err := env.submissions.GetStudentSubmission(a.AssignmentID, testStudentID)
	if err != nil {
		t.Fatalf("GetStudentSubmission: %v", err)
	}
	if latest.Text != "second" {
		t.Errorf("latest submission text = %q, want \"second\"", latest.Text)
	}

	submitted, err := env.submissions.HasStudentSubmitted(a.AssignmentID, testStudentID)
	if err != nil || !submitted {
		t.Errorf("HasStudentSubmitted = %v, %v, want true, nil", submitted, err)
	}
}

func TestAddSubmissionToMissingAssignment(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.submissions.AddSubmission("A0", testStudentID, "Sam", "text", nil, nil); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
