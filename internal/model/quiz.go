package model

const (
	QuizDraft     = "draft"
	QuizPublished = "published"
	QuizClosed    = "closed"
)

// Quiz lifecycle: draft -> published -> closed. Questions are mutable
// only in draft; attempts may start only while published. PublishedAt is
// stamped exactly once, on the first transition into published.
type Quiz struct {
	QuizID           string  `json:"quiz_id"`
	ClassID          string  `json:"class_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
	DueAt            *string `json:"due_at"`
	PassingScore     *int    `json:"passing_score"` // 0..100
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	PublishedAt      *string `json:"published_at"`
}
