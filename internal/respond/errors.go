package respond

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange reports an Advance past the last question or a Retreat
	// before the first. A correctly built client never triggers it.
	ErrOutOfRange = errors.New("navigation out of range")

	// ErrAnswerType reports an answer variant that does not match the
	// current question's type.
	ErrAnswerType = errors.New("answer type does not match question type")

	// ErrNotReady reports a Submit attempt while the last question has no
	// qualifying answer.
	ErrNotReady = errors.New("current question has no qualifying answer")

	// ErrNotActive reports an operation on a session that is not in the
	// Active state (empty survey, failed load, or already submitted).
	ErrNotActive = errors.New("session is not active")
)

// DefinitionLoadError wraps a failure to fetch the survey definition.
type DefinitionLoadError struct {
	Err error
}

func (e *DefinitionLoadError) Error() string {
	return fmt.Sprintf("failed to load survey definition: %v", e.Err)
}

func (e *DefinitionLoadError) Unwrap() error { return e.Err }

// SubmissionError wraps a persistence failure during Submit. The session
// keeps all in-memory state so Submit can be re-invoked; a retry resends the
// full row set (at-least-once, duplicates possible after a partial write).
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to persist submission: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
