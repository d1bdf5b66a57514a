package model

import "time"

const SchemaVersion = 1

// Meta carries document-level bookkeeping. Version is written once and
// never read back to gate migrations.
type Meta struct {
	Version     int    `json:"version"`
	LastUpdated string `json:"last_updated"`
}

// Document is the entire persisted state: one JSON file, top-level
// mappings keyed by entity ID plus an append-only event list.
type Document struct {
	Meta        Meta                   `json:"meta"`
	Teachers    map[string]*Teacher    `json:"teachers"`
	Students    map[string]*Student    `json:"students"`
	Classes     map[string]*Class      `json:"classes"`
	Enrollments map[string]*Enrollment `json:"enrollments"`
	Assignments map[string]*Assignment `json:"assignments"`
	Submissions map[string]*Submission `json:"submissions"`
	Quizzes     map[string]*Quiz       `json:"quizzes"`
	Questions   map[string]*Question   `json:"questions"`
	Attempts    map[string]*Attempt    `json:"quiz_attempts"`
	Events      []Event                `json:"events"`
}

// NewDocument returns the default-shaped empty document.
func NewDocument(now time.Time) *Document {
	return &Document{
		Meta:        Meta{Version: SchemaVersion, LastUpdated: FormatTime(now)},
		Teachers:    map[string]*Teacher{},
		Students:    map[string]*Student{},
		Classes:     map[string]*Class{},
		Enrollments: map[string]*Enrollment{},
		Assignments: map[string]*Assignment{},
		Submissions: map[string]*Submission{},
		Quizzes:     map[string]*Quiz{},
		Questions:   map[string]*Question{},
		Attempts:    map[string]*Attempt{},
		Events:      []Event{},
	}
}

// EnsureMaps backfills nil collections after decoding an older or
// hand-edited file, so mutation closures can index them freely.
func (d *Document) EnsureMaps() {
	if d.Teachers == nil {
		d.Teachers = map[string]*Teacher{}
	}
	if d.Students == nil {
		d.Students = map[string]*Student{}
	}
	if d.Classes == nil {
		d.Classes = map[string]*Class{}
	}
	if d.Enrollments == nil {
		d.Enrollments = map[string]*Enrollment{}
	}
	if d.Assignments == nil {
		d.Assignments = map[string]*Assignment{}
	}
	if d.Submissions == nil {
		d.Submissions = map[string]*Submission{}
	}
	if d.Quizzes == nil {
		d.Quizzes = map[string]*Quiz{}
	}
	if d.Questions == nil {
		d.Questions = map[string]*Question{}
	}
	if d.Attempts == nil {
		d.Attempts = map[string]*Attempt{}
	}
	if d.Events == nil {
		d.Events = []Event{}
	}
}

// AppendEvent records one audit entry for a mutating operation.
func (d *Document) AppendEvent(eventType string, actor int64, payload map[string]any, now time.Time) {
	d.Events = append(d.Events, Event{
		ID:      NewEventID(),
		Type:    eventType,
		Actor:   actor,
		Payload: payload,
		TS:      FormatTime(now),
	})
}

// Event is an append-only audit log entry; entries are never modified or
// deleted.
type Event struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Actor   int64          `json:"actor"`
	Payload map[string]any `json:"payload"`
	TS      string         `json:"ts"`
}
