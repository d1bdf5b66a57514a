package model

import (
	"strconv"
	"sync/atomic"
	"time"
)

// ID generation keeps the human-readable prefix scheme of the data file
// (A..., S..., Q..., QQ..., QA..., E...). A process-wide counter is mixed
// into the timestamp so IDs minted in the same nanosecond stay unique.
var idSeq atomic.Int64

func newID(prefix string) string {
	n := time.Now().UnixNano() + idSeq.Add(1)
	return prefix + strconv.FormatInt(n, 10)
}

func NewAssignmentID() string { return newID("A") }
func NewSubmissionID() string { return newID("S") }
func NewQuizID() string       { return newID("Q") }
func NewQuestionID() string   { return newID("QQ") }
func NewAttemptID() string    { return newID("QA") }
func NewEventID() string      { return newID("E") }
