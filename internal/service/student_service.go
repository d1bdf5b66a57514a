package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/dto"
	"github.com/classpad/classpad/internal/files"
	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/repository"
)

// StudentService is the student-facing assignment surface: course list,
// self-enrollment by course code, assignment views and submission upload.
type StudentService interface {
	Courses(studentID int64, studentName string) ([]dto.CourseResponse, error)
	Enroll(studentID int64, studentName, courseCode string) (*dto.EnrollResponse, error)
	Assignments(studentID int64) ([]dto.StudentAssignmentResponse, error)
	AssignmentDetail(studentID int64, assignmentID string) (*dto.StudentAssignmentDetailResponse, error)
	Submit(studentID int64, assignmentID, text string, upload *multipart.FileHeader) (*dto.SubmitResponse, error)
}

type studentService struct {
	classes     repository.ClassRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	files       *files.Store
	snapshots   SnapshotService
}

func NewStudentService(
	classes repository.ClassRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	fileStore *files.Store,
	snapshots SnapshotService,
) StudentService {
	return &studentService{
		classes:     classes,
		assignments: assignments,
		submissions: submissions,
		files:       fileStore,
		snapshots:   snapshots,
	}
}

func (s *studentService) ensureStudent(studentID int64, name string) (*model.Student, error) {
	if name == "" {
		name = "User " + strconv.FormatInt(studentID, 10)
	}
	return s.classes.EnsureStudent(studentID, name)
}

func (s *studentService) Courses(studentID int64, studentName string) ([]dto.CourseResponse, error) {
	if _, err := s.ensureStudent(studentID, studentName); err != nil {
		return nil, err
	}
	classes, err := s.classes.ListStudentClasses(studentID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CourseResponse, 0, len(classes))
	for _, class := range classes {
		assignments, err := s.assignments.ListAssignments(class.ClassID)
		if err != nil {
			return nil, err
		}
		completed := 0
		for _, a := range assignments {
			submitted, err := s.submissions.HasStudentSubmitted(a.AssignmentID, studentID)
			if err != nil {
				return nil, err
			}
			if submitted {
				completed++
			}
		}
		result = append(result, dto.CourseResponse{
			ID:              class.ClassID,
			Title:           class.Title,
			TeacherName:     s.teacherName(class.TeacherTgID),
			AssignmentCount: len(assignments),
			CompletedCount:  completed,
		})
	}
	return result, nil
}

func (s *studentService) teacherName(teacherTgID int64) string {
	if t, err := s.classes.GetTeacher(teacherTgID); err == nil && t.Name != "" {
		return t.Name
	}
	return "tg:" + strconv.FormatInt(teacherTgID, 10)
}

func (s *studentService) Enroll(studentID int64, studentName, courseCode string) (*dto.EnrollResponse, error) {
	if _, err := s.ensureStudent(studentID, studentName); err != nil {
		return nil, err
	}
	class, err := s.classes.GetClassByCode(courseCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.classes.EnrollStudent(studentID, class.ClassID); err != nil {
		return nil, err
	}
	return &dto.EnrollResponse{Success: true, CourseID: class.ClassID}, nil
}

func (s *studentService) Assignments(studentID int64) ([]dto.StudentAssignmentResponse, error) {
	classes, err := s.classes.ListStudentClasses(studentID)
	if err != nil {
		return nil, err
	}
	result := []dto.StudentAssignmentResponse{}
	for _, class := range classes {
		assignments, err := s.assignments.ListAssignments(class.ClassID)
		if err != nil {
			return nil, err
		}
		for _, a := range assignments {
			submitted, err := s.submissions.HasStudentSubmitted(a.AssignmentID, studentID)
			if err != nil {
				return nil, err
			}
			result = append(result, dto.StudentAssignmentResponse{
				ID:           a.AssignmentID,
				Title:        a.Title,
				Instructions: a.InstructionsMD,
				CourseID:     class.ClassID,
				CourseTitle:  class.Title,
				DueAt:        a.DueAt,
				Closed:       a.Status == model.AssignmentClosed,
				Submitted:    submitted,
			})
		}
	}
	return result, nil
}

// requireEnrolledAssignment resolves an assignment and enforces the
// student's enrollment in its class.
func (s *studentService) requireEnrolledAssignment(studentID int64, assignmentID string) (*model.Assignment, *model.Class, error) {
	assignment, err := s.assignments.GetAssignment(assignmentID)
	if err != nil {
		return nil, nil, err
	}
	class, err := s.classes.GetClass(assignment.ClassID)
	if err != nil {
		return nil, nil, err
	}
	enrolled, err := s.classes.IsStudentEnrolled(studentID, assignment.ClassID)
	if err != nil {
		return nil, nil, err
	}
	if !enrolled {
		return nil, nil, fmt.Errorf("student %d is not enrolled in class %s: %w", studentID, assignment.ClassID, model.ErrForbidden)
	}
	return assignment, class, nil
}

func (s *studentService) AssignmentDetail(studentID int64, assignmentID string) (*dto.StudentAssignmentDetailResponse, error) {
	assignment, class, err := s.requireEnrolledAssignment(studentID, assignmentID)
	if err != nil {
		return nil, err
	}

	var submissionResp *dto.SubmissionResponse
	submission, err := s.submissions.GetStudentSubmission(assignmentID, studentID)
	switch {
	case err == nil:
		submissionResp = submissionToResponse(submission)
	case errors.Is(err, model.ErrNotFound):
		// No submission yet.
	default:
		return nil, err
	}

	return &dto.StudentAssignmentDetailResponse{
		ID:           assignment.AssignmentID,
		Title:        assignment.Title,
		Instructions: assignment.InstructionsMD,
		CourseID:     assignment.ClassID,
		CourseTitle:  class.Title,
		DueAt:        assignment.DueAt,
		Closed:       assignment.Status == model.AssignmentClosed,
		Submission:   submissionResp,
	}, nil
}

func submissionToResponse(sub *model.Submission) *dto.SubmissionResponse {
	resp := &dto.SubmissionResponse{
		ID:          sub.SubmissionID,
		SubmittedAt: sub.TS,
		Text:        sub.Text,
		Files:       []dto.SubmissionFileResponse{},
		Status:      "on_time",
	}
	if sub.Late {
		resp.Status = "late"
	}
	if sub.File != nil {
		name := sub.File.Filename
		if name == "" {
			name = "file"
		}
		resp.Files = append(resp.Files, dto.SubmissionFileResponse{
			Name:     name,
			URL:      "/api/files/" + sub.File.FileID,
			MimeType: sub.File.Mime,
			Size:     sub.File.Size,
		})
	}
	return resp
}

func (s *studentService) Submit(studentID int64, assignmentID, text string, upload *multipart.FileHeader) (*dto.SubmitResponse, error) {
	student, err := s.ensureStudent(studentID, "")
	if err != nil {
		return nil, err
	}
	assignment, class, err := s.requireEnrolledAssignment(studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.Status == model.AssignmentClosed {
		return nil, fmt.Errorf("assignment %s is closed: %w", assignmentID, model.ErrInvalidState)
	}

	var fileMeta *model.FileMeta
	if upload != nil {
		src, err := upload.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		fileMeta, err = s.saveUpload(src, student.Name, upload)
		src.Close()
		if err != nil {
			return nil, err
		}
	}

	submission, err := s.submissions.AddSubmission(assignmentID, studentID, student.Name, text, fileMeta, nil)
	if err != nil {
		return nil, err
	}
	s.snapshots.SendTeacherSnapshot(class.TeacherTgID)
	log.Info().
		Str("submission_id", submission.SubmissionID).
		Str("assignment_id", assignmentID).
		Int64("student", studentID).
		Msg("Submission stored")
	return &dto.SubmitResponse{Success: true, SubmissionID: submission.SubmissionID}, nil
}

func (s *studentService) saveUpload(src io.Reader, studentName string, upload *multipart.FileHeader) (*model.FileMeta, error) {
	fileID, path, size, err := s.files.Save(src, studentName, upload.Filename)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	mime := upload.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}
	return &model.FileMeta{
		FileID:    fileID,
		Filename:  upload.Filename,
		Mime:      mime,
		Size:      size,
		LocalPath: path,
	}, nil
}
