package dto

import "github.com/classpad/classpad/internal/model"

type LinkClassRequest struct {
	GroupChatID int64  `json:"group_chat_id" binding:"required"`
	GroupTitle  string `json:"group_title" binding:"required"`
}

type CreateAssignmentRequest struct {
	ClassID        string  `json:"class_id" binding:"required"`
	Title          string  `json:"title" binding:"required"`
	InstructionsMD string  `json:"instructions_md"`
	DueAt          *string `json:"due_at"`
}

type UpdateAssignmentRequest struct {
	Title          *string `json:"title"`
	InstructionsMD *string `json:"instructions_md"`
	DueAt          *string `json:"due_at"`
	Status         *string `json:"status" binding:"omitempty,oneof=open closed"`
}

type CreateQuizRequest struct {
	ClassID          string  `json:"class_id" binding:"required"`
	Title            string  `json:"title" binding:"required"`
	Description      string  `json:"description"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
	DueAt            *string `json:"due_at"`
	PassingScore     *int    `json:"passing_score"`
}

type UpdateQuizRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
	DueAt            *string `json:"due_at"`
	PassingScore     *int    `json:"passing_score"`
	Status           *string `json:"status" binding:"omitempty,oneof=draft published closed"`
}

type CreateQuestionRequest struct {
	QuizID        string            `json:"quiz_id" binding:"required"`
	QuestionText  string            `json:"question_text" binding:"required"`
	QuestionType  string            `json:"question_type" binding:"required,oneof=multiple_choice true_false short_answer essay"`
	Options       []model.Option    `json:"options"`
	CorrectAnswer model.AnswerValue `json:"correct_answer"`
	Points        int               `json:"points"`
}

type UpdateQuestionRequest struct {
	QuestionText  *string            `json:"question_text"`
	Options       *[]model.Option    `json:"options"`
	CorrectAnswer *model.AnswerValue `json:"correct_answer"`
	Points        *int               `json:"points"`
}

type EnrollRequest struct {
	CourseCode string `json:"course_code" binding:"required"`
}

type StartAttemptRequest struct {
	QuizID string `json:"quiz_id" binding:"required"`
}

type AnswerRequest struct {
	QuestionID string            `json:"question_id" binding:"required"`
	Answer     model.AnswerValue `json:"answer"`
}
