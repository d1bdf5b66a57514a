package repository

import (
	"fmt"

	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/store"
)

// SubmissionRepository records student work handed in against an
// assignment. A student may submit more than once; every submission is
// kept.
type SubmissionRepository interface {
	AddSubmission(assignmentID string, studentTgID int64, studentName, text string, file *model.FileMeta, messageID *int) (*model.Submission, error)
	GetSubmission(submissionID string) (*model.Submission, error)
	ListSubmissions(assignmentID string) ([]*model.Submission, error)
	HasStudentSubmitted(assignmentID string, studentTgID int64) (bool, error)
	GetStudentSubmission(assignmentID string, studentTgID int64) (*model.Submission, error)
	GetFileMeta(fileID string) (*model.FileMeta, error)
}

type submissionRepository struct {
	store *store.Store
	now   Clock
}

func NewSubmissionRepository(s *store.Store, now Clock) SubmissionRepository {
	return &submissionRepository{store: s, now: now}
}

// AddSubmission stamps the submission and marks it late when the
// assignment has a due date that has already passed.
func (r *submissionRepository) AddSubmission(assignmentID string, studentTgID int64, studentName, text string, file *model.FileMeta, messageID *int) (*model.Submission, error) {
	var submission *model.Submission
	err := r.store.Mutate(func(d *model.Document) error {
		a, ok := d.Assignments[assignmentID]
		if !ok {
			return fmt.Errorf("assignment %s: %w", assignmentID, model.ErrNotFound)
		}
		late := a.DueAt != nil && model.AfterNaive(r.now(), *a.DueAt)
		submission = &model.Submission{
			SubmissionID: model.NewSubmissionID(),
			AssignmentID: assignmentID,
			StudentTgID:  studentTgID,
			StudentName:  studentName,
			TS:           model.FormatTime(r.now()),
			Late:         late,
			Text:         text,
			File:         file,
			MessageID:    messageID,
		}
		d.Submissions[submission.SubmissionID] = submission
		d.AppendEvent("submission_added", studentTgID, map[string]any{
			"assignment_id": assignmentID,
			"submission_id": submission.SubmissionID,
			"late":          late,
		}, r.now())
		return nil
	})
	return submission, err
}

func (r *submissionRepository) GetSubmission(submissionID string) (*model.Submission, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	s, ok := doc.Submissions[submissionID]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", submissionID, model.ErrNotFound)
	}
	return s, nil
}

func (r *submissionRepository) ListSubmissions(assignmentID string) ([]*model.Submission, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	var submissions []*model.Submission
	for _, s := range doc.Submissions {
		if s.AssignmentID == assignmentID {
			submissions = append(submissions, s)
		}
	}
	return submissions, nil
}

func (r *submissionRepository) HasStudentSubmitted(assignmentID string, studentTgID int64) (bool, error) {
	doc, err := r.store.Read()
	if err != nil {
		return false, err
	}
	for _, s := range doc.Submissions {
		if s.AssignmentID == assignmentID && s.StudentTgID == studentTgID {
			return true, nil
		}
	}
	return false, nil
}

// GetFileMeta finds the stored file metadata for an uploaded submission
// file by its id.
func (r *submissionRepository) GetFileMeta(fileID string) (*model.FileMeta, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	for _, s := range doc.Submissions {
		if s.File != nil && s.File.FileID == fileID {
			return s.File, nil
		}
	}
	return nil, fmt.Errorf("file %s: %w", fileID, model.ErrNotFound)
}

// GetStudentSubmission returns the student's most recent submission for
// the assignment.
func (r *submissionRepository) GetStudentSubmission(assignmentID string, studentTgID int64) (*model.Submission, error) {
	doc, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	var latest *model.Submission
	for _, s := range doc.Submissions {
		if s.AssignmentID != assignmentID || s.StudentTgID != studentTgID {
			continue
		}
		if latest == nil || s.TS > latest.TS {
			latest = s
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("submission for assignment %s by %d: %w", assignmentID, studentTgID, model.ErrNotFound)
	}
	return latest, nil
}
