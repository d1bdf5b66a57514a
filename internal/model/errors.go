package model

import "errors"

var (
	// ErrNotFound is returned when a referenced quiz, question, attempt,
	// class, assignment or submission does not exist in the document.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidState is returned when an operation is attempted outside
	// its legal lifecycle state, e.g. editing questions on a published
	// quiz or completing an attempt twice.
	ErrInvalidState = errors.New("invalid state for operation")
	// ErrExpired is returned when an attempt is started after the quiz
	// due date has passed.
	ErrExpired = errors.New("quiz past due date")
	// ErrMismatch is returned on cross-reference violations, e.g.
	// answering a question that belongs to a different quiz.
	ErrMismatch = errors.New("cross-reference mismatch")
	// ErrForbidden is returned when an ownership or enrollment check
	// fails. It is enforced in the service layer, not the registry.
	ErrForbidden = errors.New("forbidden")
)
