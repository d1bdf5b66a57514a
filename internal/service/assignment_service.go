package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/dto"
	"github.com/classpad/classpad/internal/files"
	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/notify"
	"github.com/classpad/classpad/internal/repository"
)

// AssignmentService is the teacher-facing assignment surface: linking
// classes, posting and editing assignments in the group chat, reading
// submissions and exporting them. Group-chat side effects always run
// after the document mutation has committed, and their failure is
// logged, never returned.
type AssignmentService interface {
	LinkClass(teacherID int64, teacherName string, req dto.LinkClassRequest) (*model.Class, error)
	CreateAssignment(teacherID int64, req dto.CreateAssignmentRequest) (*model.Assignment, error)
	ListAssignments(teacherID int64, classID string) ([]*model.Assignment, error)
	UpdateAssignment(teacherID int64, assignmentID string, req dto.UpdateAssignmentRequest) (*model.Assignment, error)
	ListSubmissions(teacherID int64, assignmentID string) ([]*model.Submission, error)
	Remind(teacherID int64, assignmentID string) error
	ExportCSV(teacherID int64, assignmentID string) (string, error)
}

type assignmentService struct {
	classes     repository.ClassRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	notifier    notify.Notifier
	snapshots   SnapshotService
	files       *files.Store
}

func NewAssignmentService(
	classes repository.ClassRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	notifier notify.Notifier,
	snapshots SnapshotService,
	fileStore *files.Store,
) AssignmentService {
	return &assignmentService{
		classes:     classes,
		assignments: assignments,
		submissions: submissions,
		notifier:    notifier,
		snapshots:   snapshots,
		files:       fileStore,
	}
}

// requireClassOwner resolves a class and rejects teachers who do not own
// it; a missing class is treated the same as a foreign one.
func requireClassOwner(classes repository.ClassRepository, classID string, teacherID int64) (*model.Class, error) {
	class, err := classes.GetClass(classID)
	if err != nil || class.TeacherTgID != teacherID {
		return nil, fmt.Errorf("class %s is not owned by %d: %w", classID, teacherID, model.ErrForbidden)
	}
	return class, nil
}

func (s *assignmentService) LinkClass(teacherID int64, teacherName string, req dto.LinkClassRequest) (*model.Class, error) {
	if teacherName == "" {
		teacherName = "tg:" + strconv.FormatInt(teacherID, 10)
	}
	if _, err := s.classes.EnsureTeacher(teacherID, teacherName); err != nil {
		return nil, err
	}
	class, err := s.classes.LinkClass(req.GroupChatID, req.GroupTitle, teacherID)
	if err != nil {
		return nil, err
	}
	s.snapshots.SendTeacherSnapshot(teacherID)
	return class, nil
}

func (s *assignmentService) CreateAssignment(teacherID int64, req dto.CreateAssignmentRequest) (*model.Assignment, error) {
	class, err := requireClassOwner(s.classes, req.ClassID, teacherID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignments.CreateAssignment(req.ClassID, req.Title, req.InstructionsMD, req.DueAt)
	if err != nil {
		return nil, err
	}

	messageID, err := s.notifier.PostAssignment(class.ChatID(), assignment)
	if err != nil {
		log.Warn().Err(err).Str("assignment_id", assignment.AssignmentID).Msg("Failed to post assignment to group")
	} else if messageID != 0 {
		if err := s.assignments.SetPostedMessageID(assignment.AssignmentID, messageID); err != nil {
			log.Error().Err(err).Str("assignment_id", assignment.AssignmentID).Msg("Failed to record posted message id")
		}
	}
	s.snapshots.SendTeacherSnapshot(teacherID)
	return s.assignments.GetAssignment(assignment.AssignmentID)
}

func (s *assignmentService) ListAssignments(teacherID int64, classID string) ([]*model.Assignment, error) {
	if _, err := requireClassOwner(s.classes, classID, teacherID); err != nil {
		return nil, err
	}
	return s.assignments.ListAssignments(classID)
}

// requireOwnedAssignment resolves an assignment and its class, checking
// the acting teacher owns it.
func (s *assignmentService) requireOwnedAssignment(assignmentID string, teacherID int64) (*model.Assignment, *model.Class, error) {
	assignment, err := s.assignments.GetAssignment(assignmentID)
	if err != nil {
		return nil, nil, err
	}
	class, err := requireClassOwner(s.classes, assignment.ClassID, teacherID)
	if err != nil {
		return nil, nil, err
	}
	return assignment, class, nil
}

func (s *assignmentService) UpdateAssignment(teacherID int64, assignmentID string, req dto.UpdateAssignmentRequest) (*model.Assignment, error) {
	if _, _, err := s.requireOwnedAssignment(assignmentID, teacherID); err != nil {
		return nil, err
	}
	updated, err := s.assignments.UpdateAssignment(assignmentID, repository.AssignmentUpdate{
		Title:          req.Title,
		InstructionsMD: req.InstructionsMD,
		DueAt:          req.DueAt,
		Status:         req.Status,
	})
	if err != nil {
		return nil, err
	}

	if updated.PostedMessageID != nil {
		class, err := s.classes.GetClass(updated.ClassID)
		if err == nil {
			if err := s.notifier.EditAssignment(class.ChatID(), *updated.PostedMessageID, updated); err != nil {
				log.Warn().Err(err).Str("assignment_id", assignmentID).Msg("Failed to edit group message")
			}
		}
	}
	s.snapshots.SendTeacherSnapshot(teacherID)
	return updated, nil
}

func (s *assignmentService) ListSubmissions(teacherID int64, assignmentID string) ([]*model.Submission, error) {
	if _, _, err := s.requireOwnedAssignment(assignmentID, teacherID); err != nil {
		return nil, err
	}
	return s.submissions.ListSubmissions(assignmentID)
}

func (s *assignmentService) Remind(teacherID int64, assignmentID string) error {
	assignment, class, err := s.requireOwnedAssignment(assignmentID, teacherID)
	if err != nil {
		return err
	}
	if err := s.notifier.SendReminder(class.ChatID(), assignment); err != nil {
		log.Warn().Err(err).Str("assignment_id", assignmentID).Msg("Failed to send reminder")
	}
	s.snapshots.SendTeacherSnapshot(teacherID)
	return nil
}

// ExportCSV writes the assignment's submissions next to the uploaded
// files and returns the path.
func (s *assignmentService) ExportCSV(teacherID int64, assignmentID string) (string, error) {
	if _, _, err := s.requireOwnedAssignment(assignmentID, teacherID); err != nil {
		return "", err
	}
	subs, err := s.submissions.ListSubmissions(assignmentID)
	if err != nil {
		return "", err
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].TS < subs[j].TS })

	path := filepath.Join(s.files.Dir(), "export_"+assignmentID+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"submission_id", "student_tg_id", "student_name", "ts", "late", "has_file", "local_path", "text"}); err != nil {
		return "", err
	}
	for _, sub := range subs {
		localPath := ""
		if sub.File != nil {
			localPath = sub.File.LocalPath
		}
		row := []string{
			sub.SubmissionID,
			strconv.FormatInt(sub.StudentTgID, 10),
			sub.StudentName,
			sub.TS,
			strconv.FormatBool(sub.Late),
			strconv.FormatBool(sub.File != nil),
			localPath,
			strings.ReplaceAll(sub.Text, "\n", " "),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
