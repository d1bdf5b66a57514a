package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/classpad/classpad/internal/model"
)

func TestEnsureTeacherIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.classes.EnsureTeacher(testTeacherID, "Ada")
	if err != nil {
		t.Fatalf("EnsureTeacher: %v", err)
	}
	second, err := env.classes.EnsureTeacher(testTeacherID, "Renamed")
	if err != nil {
		t.Fatalf("EnsureTeacher again: %v", err)
	}
	if second.Name != first.Name {
		t.Errorf("second EnsureTeacher changed name to %q, want %q kept", second.Name, first.Name)
	}

	doc, err := env.store.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(doc.Teachers) != 1 {
		t.Errorf("got %d teacher records, want 1", len(doc.Teachers))
	}
}

func TestRelinkClassKeepsCourseCode(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.classes.LinkClass(testGroupID, "Algebra II", testTeacherID)
	if err != nil {
		t.Fatalf("LinkClass: %v", err)
	}
	if len(first.CourseCode) != 8 {
		t.Fatalf("course code %q, want 8 characters", first.CourseCode)
	}
	second, err := env.classes.LinkClass(testGroupID, "Algebra II (renamed)", testTeacherID)
	if err != nil {
		t.Fatalf("re-link: %v", err)
	}
	if second.CourseCode != first.CourseCode {
		t.Errorf("re-link changed course code from %q to %q", first.CourseCode, second.CourseCode)
	}
	if second.Title != "Algebra II (renamed)" {
		t.Errorf("re-link kept stale title %q", second.Title)
	}
}

func TestGetClassByCodeNormalizesInput(t *testing.T) {
	env := newTestEnv(t)
	class, err := env.classes.LinkClass(testGroupID, "Algebra II", testTeacherID)
	if err != nil {
		t.Fatalf("LinkClass: %v", err)
	}

	found, err := env.classes.GetClassByCode("  " + strings.ToLower(class.CourseCode) + " ")
	if err != nil {
		t.Fatalf("GetClassByCode: %v", err)
	}
	if found.ClassID != class.ClassID {
		t.Errorf("got class %s, want %s", found.ClassID, class.ClassID)
	}

	if _, err := env.classes.GetClassByCode("NOPE1234"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unknown code: got %v, want ErrNotFound", err)
	}
}

func TestEnrollStudentIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)

	if _, err := env.classes.EnrollStudent(testStudentID, classID); err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}
	if _, err := env.classes.EnrollStudent(testStudentID, classID); err != nil {
		t.Fatalf("EnrollStudent again: %v", err)
	}

	doc, err := env.store.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(doc.Enrollments) != 1 {
		t.Errorf("got %d enrollments, want 1", len(doc.Enrollments))
	}

	enrolled, err := env.classes.IsStudentEnrolled(testStudentID, classID)
	if err != nil || !enrolled {
		t.Errorf("IsStudentEnrolled = %v, %v, want true, nil", enrolled, err)
	}
}

func TestEnrollStudentInMissingClass(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.classes.EnrollStudent(testStudentID, "-1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListStudentClasses(t *testing.T) {
	env := newTestEnv(t)
	classID := seedClass(t, env)
	other, err := env.classes.LinkClass(-200600, "Geometry", testTeacherID)
	if err != nil {
		t.Fatalf("LinkClass: %v", err)
	}
	if _, err := env.classes.EnrollStudent(testStudentID, classID); err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}

	classes, err := env.classes.ListStudentClasses(testStudentID)
	if err != nil {
		t.Fatalf("ListStudentClasses: %v", err)
	}
	if len(classes) != 1 || classes[0].ClassID != classID {
		t.Errorf("got %d classes, want just %s (not %s)", len(classes), classID, other.ClassID)
	}
}
