package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
	QuestionEssay          = "essay"
)

// Option is one multiple-choice alternative.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	QuestionID    string      `json:"question_id"`
	QuizID        string      `json:"quiz_id"`
	QuestionText  string      `json:"question_text"`
	QuestionType  string      `json:"question_type"`
	Options       []Option    `json:"options"`
	CorrectAnswer AnswerValue `json:"correct_answer"`
	Points        int         `json:"points"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
}

// AnswerKind tags the shape of a submitted or correct answer.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota // absent / null
	AnswerText                   // option id or free text
	AnswerBool                   // true_false
	AnswerNumber
	AnswerOther // any other JSON value, kept verbatim
)

// AnswerValue is the one value type flowing through answer recording and
// scoring: an option id or free text, a boolean, a number, or an
// arbitrary JSON value. Recording does not validate the shape against the
// question type; scoring compares whatever was stored.
type AnswerValue struct {
	Kind AnswerKind
	Text string
	Bool bool
	Num  float64
	Raw  json.RawMessage // only for AnswerOther
}

func TextAnswer(s string) AnswerValue { return AnswerValue{Kind: AnswerText, Text: s} }
func BoolAnswer(b bool) AnswerValue   { return AnswerValue{Kind: AnswerBool, Bool: b} }

// IsSet reports whether a value was recorded at all.
func (a AnswerValue) IsSet() bool { return a.Kind != AnswerNone }

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerText:
		return json.Marshal(a.Text)
	case AnswerBool:
		return json.Marshal(a.Bool)
	case AnswerNumber:
		return json.Marshal(a.Num)
	case AnswerOther:
		return a.Raw, nil
	default:
		return []byte("null"), nil
	}
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*a = AnswerValue{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = AnswerValue{Kind: AnswerText, Text: s}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*a = AnswerValue{Kind: AnswerBool, Bool: b}
		return nil
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		*a = AnswerValue{Kind: AnswerNumber, Num: n}
		return nil
	}
	raw := make(json.RawMessage, len(trimmed))
	copy(raw, trimmed)
	*a = AnswerValue{Kind: AnswerOther, Raw: raw}
	return nil
}

// Equal is the strict comparison used for multiple_choice and true_false:
// same kind, same value, no coercion.
func (a AnswerValue) Equal(b AnswerValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case AnswerText:
		return a.Text == b.Text
	case AnswerBool:
		return a.Bool == b.Bool
	case AnswerNumber:
		return a.Num == b.Num
	case AnswerOther:
		return bytes.Equal(a.Raw, b.Raw)
	default:
		return true
	}
}

// String renders the value the way the scoring contract stringifies
// answers for short_answer comparison.
func (a AnswerValue) String() string {
	switch a.Kind {
	case AnswerText:
		return a.Text
	case AnswerBool:
		return strconv.FormatBool(a.Bool)
	case AnswerNumber:
		return strconv.FormatFloat(a.Num, 'f', -1, 64)
	case AnswerOther:
		return string(a.Raw)
	default:
		return ""
	}
}

// EqualFold is the short_answer comparison: case-insensitive,
// whitespace-preserving equality of the stringified values.
func (a AnswerValue) EqualFold(b AnswerValue) bool {
	return strings.EqualFold(a.String(), b.String())
}
