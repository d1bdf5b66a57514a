package model

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
	AttemptAbandoned  = "abandoned"
)

// Attempt is one student's run through a quiz. Answers may be recorded
// only while in_progress; Score and EndTime are set exactly once, on the
// transition to completed. There is no transition out of a terminal
// state.
type Attempt struct {
	AttemptID   string                 `json:"attempt_id"`
	QuizID      string                 `json:"quiz_id"`
	StudentTgID int64                  `json:"student_tg_id"`
	StartTime   string                 `json:"start_time"`
	EndTime     *string                `json:"end_time"`
	Answers     map[string]AnswerValue `json:"answers"` // question_id -> answer
	Score       *int                   `json:"score"`   // 0..100, completion only
	Status      string                 `json:"status"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`
}
