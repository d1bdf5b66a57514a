package dto

import "github.com/classpad/classpad/internal/model"

type ErrorResponse struct {
	Error string `json:"error"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// QuizSummaryResponse is a quiz with the counts the teacher dashboard
// shows in list views.
type QuizSummaryResponse struct {
	QuizID           string  `json:"quiz_id"`
	ClassID          string  `json:"class_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
	DueAt            *string `json:"due_at"`
	PassingScore     *int    `json:"passing_score"`
	Status           string  `json:"status"`
	PublishedAt      *string `json:"published_at"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	QuestionCount    int     `json:"question_count"`
	AttemptCount     int     `json:"attempt_count"`
}

// QuizStudentStats summarizes one student's attempts for the teacher's
// quiz detail view.
type QuizStudentStats struct {
	StudentID    int64  `json:"student_id"`
	StudentName  string `json:"student_name"`
	AttemptCount int    `json:"attempt_count"`
	BestScore    *int   `json:"best_score"`
}

type TeacherQuizDetailResponse struct {
	Quiz      *model.Quiz       `json:"quiz"`
	Questions []*model.Question `json:"questions"`
	Students  []QuizStudentStats `json:"students"`
}

// QuestionView is a question with the answer key stripped, shown to
// students while their attempt is in progress.
type QuestionView struct {
	QuestionID   string         `json:"question_id"`
	QuizID       string         `json:"quiz_id"`
	QuestionText string         `json:"question_text"`
	QuestionType string         `json:"question_type"`
	Options      []model.Option `json:"options"`
	Points       int            `json:"points"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

// StudentQuizResponse is a published quiz decorated with the student's
// own attempt history.
type StudentQuizResponse struct {
	QuizID           string  `json:"quiz_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	CourseID         string  `json:"course_id"`
	CourseTitle      string  `json:"course_title"`
	DueAt            *string `json:"due_at"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
	AttemptCount     int     `json:"attempt_count"`
	BestScore        *int    `json:"best_score"`
	PassingScore     *int    `json:"passing_score"`
}

type StudentQuizDetailResponse struct {
	Quiz     StudentQuizResponse `json:"quiz"`
	Attempts []*model.Attempt    `json:"attempts"`
}

type StartAttemptResponse struct {
	Attempt   *model.Attempt `json:"attempt"`
	Questions []QuestionView `json:"questions"`
}

// CompleteAttemptResponse carries the sealed attempt plus the pass/fail
// verdict; Passed is nil when the quiz has no passing score.
type CompleteAttemptResponse struct {
	Attempt *model.Attempt `json:"attempt"`
	Passed  *bool          `json:"passed"`
}

// AttemptDetailResponse shows questions with the answer key only once
// the attempt is completed.
type AttemptDetailResponse struct {
	Attempt   *model.Attempt `json:"attempt"`
	Quiz      *model.Quiz    `json:"quiz"`
	Questions any            `json:"questions"`
}

type CourseResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	TeacherName     string `json:"teacher_name"`
	AssignmentCount int    `json:"assignment_count"`
	CompletedCount  int    `json:"completed_count"`
}

type EnrollResponse struct {
	Success  bool   `json:"success"`
	CourseID string `json:"course_id"`
}

type StudentAssignmentResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Instructions string  `json:"instructions"`
	CourseID     string  `json:"course_id"`
	CourseTitle  string  `json:"course_title"`
	DueAt        *string `json:"due_at"`
	Closed       bool    `json:"closed"`
	Submitted    bool    `json:"submitted"`
}

type SubmissionFileResponse struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type SubmissionResponse struct {
	ID          string                   `json:"id"`
	SubmittedAt string                   `json:"submitted_at"`
	Text        string                   `json:"text"`
	Files       []SubmissionFileResponse `json:"files"`
	Status      string                   `json:"status"` // on_time|late
}

type StudentAssignmentDetailResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Instructions string              `json:"instructions"`
	CourseID     string              `json:"course_id"`
	CourseTitle  string              `json:"course_title"`
	DueAt        *string             `json:"due_at"`
	Closed       bool                `json:"closed"`
	Submission   *SubmissionResponse `json:"submission"`
}

type SubmitResponse struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submission_id"`
}

type ExportResponse struct {
	CSVPath string `json:"csv_path"`
}
