package repository

import (
	"fmt"

	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/store"
)

// AssignmentUpdate carries the partial fields of an update; nil fields
// are left untouched.
type AssignmentUpdate struct {
	Title          *string
	InstructionsMD *string
	DueAt          *string
	Status         *string
}

// AssignmentRepository manages homework assignments posted to a class.
type AssignmentRepository interface {
	CreateAssignment(classID, title, instructionsMD string, dueAt *string) (*model.Assignment, error)
	SetPostedMessageID(assignmentID string, messageID int) error
	UpdateAssignment(assignmentID string, upd AssignmentUpdate) (*model.Assignment, error)
	GetAssignment(assignmentID string) (*model.Assignment, error)
	ListAssignments(classID string) ([]*model.Assignment, error)
}

type assignmentRepository struct {
	store *store.Store
	now   Clock
}

func NewAssignmentRepository(s *store.Store, now Clock) AssignmentRepository {
	return &assignmentRepository{store: s, now: now}
}

func (r *assignmentRepository) CreateAssignment(classID, title, instructionsMD string, dueAt *string) (*model.Assignment, error) {
	var assignment *model.Assignment
	err := r.store.Mutate(func(d *model.Document) error {
		if _, ok := d.Classes[classID]; !ok {
			return fmt.Errorf("class %s: %w", classID, model.ErrNotFound)
		}
		now := model.FormatTime(r.now())
		assignment = &model.Assignment{
			AssignmentID:   model.NewAssignmentID(),
			ClassID:        classID,
			Title:          title,
			InstructionsMD: instructionsMD,
			DueAt:          dueAt,
			Status:         model.AssignmentOpen,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		d.Assignments[assignment.AssignmentID] = assignment
		d.AppendEvent("assignment_created", classActor(d, classID), map[string]any{
			"assignment_id": assignment.AssignmentID,
		}, r.now())
		return nil
	})
	return assignment, err
}

// SetPostedMessageID records the chat message the assignment was
// announced with, so reply-based submissions can be matched back to it.
func (r *assignmentRepository) SetPostedMessageID(assignmentID string, messageID int) error {
	return r.store.Mutate(func(d *model.Document) error {
		a, ok := d.Assignments[assignmentID]
		if !ok {
			return fmt.Errorf("assignment %s: %w", assignmentID, model.ErrNotFound)
		}
		a.PostedMessageID = &messageID
		a.UpdatedAt = model.FormatTime(r.now())
		return nil
	})
}

func (r *assignmentRepository) UpdateAssignment(assignmentID string, upd AssignmentUpdate) (*model.Assignment, error) {
	var assignment *model.Assignment
	err := r.store.Mutate(func(d *model.Document) error {
		a, ok := d.Assignments[assignmentID]
		if !ok {
			return fmt.Errorf("assignment %s: %w", assignmentID, model.ErrNotFound)
		}
		var changed []string
		if upd.Title != nil {
			a.Title = *upd.Title
			changed = append(changed, "title")
		}
		if upd.InstructionsMD != nil {
			a.InstructionsMD = *upd.InstructionsMD
			changed = append(changed, "instructions_md")
		}
		if upd.DueAt != nil {
			a.DueAt = upd.DueAt
			changed = append(changed, "due_at")
		}
		if upd.Status != nil {
			a.Status = *upd.Status
			changed = append(changed, "status")
		}
		a.UpdatedAt = model.FormatTime(r.now())
		d.AppendEvent("assignment_updated", classActor(d, a.ClassID), map[string]any{
			"assignment_id": assignmentID,
			"updates":       changed,
		}, r.now())
		assignment = a
		return nil
	})
	return assignment, err
}

func (r *assignmentRepository) GetAssignment(assignmentID string) (*model.Assignment, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	a, ok := doc.Assignments[assignmentID]
	if !ok {
		return nil, fmt.Errorf("assignment %s: %w", assignmentID, model.ErrNotFound)
	}
	return a, nil
}

func (r *assignmentRepository) ListAssignments(classID string) ([]*model.Assignment, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	var assignments []*model.Assignment
	for _, a := range doc.Assignments {
		if a.ClassID == classID {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}
