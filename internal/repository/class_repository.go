package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/store"
)

// ClassRepository owns the roster side of the document: teacher and
// student identities, linked classes, and enrollments.
type ClassRepository interface {
	EnsureTeacher(tgUserID int64, name string) (*model.Teacher, error)
	GetTeacher(tgUserID int64) (*model.Teacher, error)
	EnsureStudent(tgUserID int64, name string) (*model.Student, error)
	GetStudent(tgUserID int64) (*model.Student, error)

	LinkClass(groupChatID int64, groupTitle string, teacherTgID int64) (*model.Class, error)
	GetClass(classID string) (*model.Class, error)
	GetClassByCode(courseCode string) (*model.Class, error)

	EnrollStudent(studentTgID int64, classID string) (*model.Enrollment, error)
	IsStudentEnrolled(studentTgID int64, classID string) (bool, error)
	ListStudentClasses(studentTgID int64) ([]*model.Class, error)
}

type classRepository struct {
	store *store.Store
	now   Clock
}

func NewClassRepository(s *store.Store, now Clock) ClassRepository {
	return &classRepository{store: s, now: now}
}

func (r *classRepository) EnsureTeacher(tgUserID int64, name string) (*model.Teacher, error) {
	var teacher *model.Teacher
	err := r.store.Mutate(func(d *model.Document) error {
		key := model.UserKey(tgUserID)
		if t, ok := d.Teachers[key]; ok {
			teacher = t
			return nil
		}
		teacher = &model.Teacher{
			TgUserID:  tgUserID,
			Name:      name,
			CreatedAt: model.FormatTime(r.now()),
		}
		d.Teachers[key] = teacher
		d.AppendEvent("teacher_created", tgUserID, map[string]any{"name": name}, r.now())
		return nil
	})
	return teacher, err
}

func (r *classRepository) GetTeacher(tgUserID int64) (*model.Teacher, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	t, ok := doc.Teachers[model.UserKey(tgUserID)]
	if !ok {
		return nil, fmt.Errorf("teacher %d: %w", tgUserID, model.ErrNotFound)
	}
	return t, nil
}

func (r *classRepository) EnsureStudent(tgUserID int64, name string) (*model.Student, error) {
	var student *model.Student
	err := r.store.Mutate(func(d *model.Document) error {
		key := model.UserKey(tgUserID)
		if s, ok := d.Students[key]; ok {
			student = s
			return nil
		}
		student = &model.Student{
			TgUserID:  tgUserID,
			Name:      name,
			CreatedAt: model.FormatTime(r.now()),
		}
		d.Students[key] = student
		d.AppendEvent("student_created", tgUserID, map[string]any{"name": name}, r.now())
		return nil
	})
	return student, err
}

func (r *classRepository) GetStudent(tgUserID int64) (*model.Student, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	s, ok := doc.Students[model.UserKey(tgUserID)]
	if !ok {
		return nil, fmt.Errorf("student %d: %w", tgUserID, model.ErrNotFound)
	}
	return s, nil
}

// LinkClass registers (or re-registers) a group chat as a class owned by
// the teacher. Re-linking keeps the existing course code so handed-out
// codes stay valid.
func (r *classRepository) LinkClass(groupChatID int64, groupTitle string, teacherTgID int64) (*model.Class, error) {
	var class *model.Class
	err := r.store.Mutate(func(d *model.Document) error {
		classID := model.UserKey(groupChatID)
		code := newCourseCode()
		if existing, ok := d.Classes[classID]; ok && existing.CourseCode != "" {
			code = existing.CourseCode
		}
		class = &model.Class{
			ClassID:     classID,
			Title:       groupTitle,
			TeacherTgID: teacherTgID,
			CourseCode:  code,
			CreatedAt:   model.FormatTime(r.now()),
		}
		d.Classes[classID] = class
		d.AppendEvent("class_linked", teacherTgID, map[string]any{
			"group_chat_id": groupChatID,
			"title":         groupTitle,
		}, r.now())
		return nil
	})
	return class, err
}

func (r *classRepository) GetClass(classID string) (*model.Class, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	c, ok := doc.Classes[classID]
	if !ok {
		return nil, fmt.Errorf("class %s: %w", classID, model.ErrNotFound)
	}
	return c, nil
}

func (r *classRepository) GetClassByCode(courseCode string) (*model.Class, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(courseCode))
	for _, c := range doc.Classes {
		if c.CourseCode == code {
			return c, nil
		}
	}
	return nil, fmt.Errorf("course code %s: %w", courseCode, model.ErrNotFound)
}

// EnrollStudent is idempotent: enrolling twice keeps the original record.
func (r *classRepository) EnrollStudent(studentTgID int64, classID string) (*model.Enrollment, error) {
	var enrollment *model.Enrollment
	err := r.store.Mutate(func(d *model.Document) error {
		if _, ok := d.Classes[classID]; !ok {
			return fmt.Errorf("class %s: %w", classID, model.ErrNotFound)
		}
		key := model.EnrollmentKey(studentTgID, classID)
		if e, ok := d.Enrollments[key]; ok {
			enrollment = e
			return nil
		}
		enrollment = &model.Enrollment{
			StudentTgID: studentTgID,
			ClassID:     classID,
			EnrolledAt:  model.FormatTime(r.now()),
		}
		d.Enrollments[key] = enrollment
		d.AppendEvent("student_enrolled", studentTgID, map[string]any{"class_id": classID}, r.now())
		return nil
	})
	return enrollment, err
}

func (r *classRepository) IsStudentEnrolled(studentTgID int64, classID string) (bool, error) {
	doc, err := r.store.Read()
	if err != nil {
		return false, err
	}
	_, ok := doc.Enrollments[model.EnrollmentKey(studentTgID, classID)]
	return ok, nil
}

func (r *classRepository) ListStudentClasses(studentTgID int64) ([]*model.Class, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	var classes []*model.Class
	for _, e := range doc.Enrollments {
		if e.StudentTgID != studentTgID {
			continue
		}
		if c, ok := doc.Classes[e.ClassID]; ok {
			classes = append(classes, c)
		}
	}
	return classes, nil
}

// newCourseCode derives a short join token from a UUID.
func newCourseCode() string {
	id := uuid.NewString()
	return strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
