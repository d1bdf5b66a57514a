package model

const (
	AssignmentOpen   = "open"
	AssignmentClosed = "closed"
)

type Assignment struct {
	AssignmentID    string  `json:"assignment_id"`
	ClassID         string  `json:"class_id"`
	Title           string  `json:"title"`
	InstructionsMD  string  `json:"instructions_md"`
	DueAt           *string `json:"due_at"`
	PostedMessageID *int    `json:"posted_message_id"`
	Status          string  `json:"status"` // open|closed
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// FileMeta describes an uploaded or forwarded submission file. LocalPath
// is empty for files that only exist on the chat platform.
type FileMeta struct {
	FileID    string `json:"file_id"`
	Filename  string `json:"filename,omitempty"`
	Mime      string `json:"mime"`
	Size      int64  `json:"size"`
	LocalPath string `json:"local_path"`
}

type Submission struct {
	SubmissionID string    `json:"submission_id"`
	AssignmentID string    `json:"assignment_id"`
	StudentTgID  int64     `json:"student_tg_id"`
	StudentName  string    `json:"student_name"`
	TS           string    `json:"ts"`
	Late         bool      `json:"late"`
	Text         string    `json:"text"`
	File         *FileMeta `json:"file"`
	MessageID    *int      `json:"message_id"`
}
