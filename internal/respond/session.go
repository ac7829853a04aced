package respond

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lifeinnovator/InsightFlow/internal/models"
	"github.com/lifeinnovator/InsightFlow/internal/quality"
)

// State is the lifecycle state of a respondent session.
type State int

const (
	StateLoading State = iota
	StateActive
	StateSubmitting
	StateComplete
	// StateEmpty is the terminal state for a survey with zero questions. It
	// is a valid, inert outcome, not an error; Submit is unreachable.
	StateEmpty
	// StateFailed is the terminal state after a definition load failure.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateSubmitting:
		return "submitting"
	case StateComplete:
		return "complete"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Session tracks one respondent's progress through a survey: the immutable
// question sequence, the current position and the answers collected so far.
// Answers are keyed by 0-based question index and survive navigation in both
// directions, so the respondent can review freely before submitting.
//
// A session is driven by one respondent, but its calls can still overlap:
// doubled-up requests from the same page land on separate goroutines, and the
// registry sweeper inspects sessions from its own. The mutex covers position,
// state, answers and the activity timestamp; id and def are fixed once Start
// returns.
type Session struct {
	id  string
	def *Definition

	mu        sync.Mutex
	answers   map[int]Answer
	current   int
	state     State
	startedAt time.Time
	lastSeen  time.Time
}

// Start fetches the survey definition behind the share token and opens a
// session on it. A zero-question survey yields a session in StateEmpty; a
// fetch failure yields StateFailed and a DefinitionLoadError.
func Start(ctx context.Context, source DefinitionSource, shareToken string) (*Session, error) {
	s := &Session{
		id:        uuid.NewString(),
		answers:   make(map[int]Answer),
		state:     StateLoading,
		startedAt: time.Now(),
		lastSeen:  time.Now(),
	}

	def, err := source.Definition(ctx, shareToken)
	if err != nil {
		s.state = StateFailed
		return s, &DefinitionLoadError{Err: err}
	}
	s.def = def

	if len(def.Questions) == 0 {
		s.state = StateEmpty
		return s, nil
	}
	s.state = StateActive
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateComplete
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Definition returns the loaded survey definition, nil before a successful
// load.
func (s *Session) Definition() *Definition { return s.def }

// Len is the number of questions in the session's survey.
func (s *Session) Len() int {
	if s.def == nil {
		return 0
	}
	return len(s.def.Questions)
}

// Question returns the question at the current index.
func (s *Session) Question() models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.def.Questions[s.current]
}

// AnswerAt returns the recorded answer for the given index, if any.
func (s *Session) AnswerAt(index int) (Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[index]
	return a, ok
}

// RecordAnswer stores the answer for the current question, overwriting any
// prior value at that position. The variant must match the question type and
// a likert value must be inside the question's scale; nothing else is
// validated. The current position does not move.
func (s *Session) RecordAnswer(a Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	q := s.def.Questions[s.current]
	switch v := a.(type) {
	case LikertAnswer:
		if q.Type != models.QuestionLikert {
			return fmt.Errorf("%w: question %s expects %s", ErrAnswerType, q.ID, q.Type)
		}
		if int(v) < 1 || int(v) > q.Scale {
			return fmt.Errorf("%w: likert value %d outside [1,%d]", ErrAnswerType, int(v), q.Scale)
		}
	case TextAnswer:
		if q.Type != models.QuestionOpenText {
			return fmt.Errorf("%w: question %s expects %s", ErrAnswerType, q.ID, q.Type)
		}
	default:
		return fmt.Errorf("%w: unsupported answer variant %T", ErrAnswerType, a)
	}
	s.answers[s.current] = a
	return nil
}

// CanAdvance reports whether the current question has a qualifying answer:
// present, and non-empty for open text. It gates the Next/Finish action in
// the consuming layer; Advance itself stays permissive so the gating policy
// lives with the caller.
func (s *Session) CanAdvance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAdvance()
}

func (s *Session) canAdvance() bool {
	if s.state != StateActive {
		return false
	}
	a, ok := s.answers[s.current]
	return ok && a.answered()
}

// Advance moves to the next question. At the last index it fails with
// ErrOutOfRange; the caller is expected to Submit at that boundary.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	if s.current >= len(s.def.Questions)-1 {
		return ErrOutOfRange
	}
	s.current++
	return nil
}

// Retreat moves back one question. Answers on either side of the move are
// untouched. At index 0 it fails with ErrOutOfRange.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	if s.current == 0 {
		return ErrOutOfRange
	}
	s.current--
	return nil
}

// Submit normalizes the collected answers into response rows and hands them
// to the gateway: participant first, then the full row set. Callable only at
// the last index with a qualifying answer there. On a persistence failure
// the session drops back to Active with every answer intact, so a second
// Submit resends the full row set.
//
// The lock is held across the gateway calls, so an overlapping Submit from a
// doubled-up request waits and then fails on the state check instead of
// writing a second participant.
func (s *Session) Submit(ctx context.Context, gw Gateway) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return "", ErrNotActive
	}
	if s.current != len(s.def.Questions)-1 || !s.canAdvance() {
		return "", ErrNotReady
	}

	rows := Normalize(s.def.Questions, s.answers)
	for i := range rows {
		rows[i].SurveyID = s.def.SurveyID
	}

	s.state = StateSubmitting
	participantID, err := gw.CreateParticipant(ctx, NewParticipant{
		ProjectID:       s.def.ProjectID,
		DurationSeconds: time.Since(s.startedAt).Seconds(),
		StraightLined:   quality.Straightlined(likertValues(rows)),
	})
	if err != nil {
		s.state = StateActive
		return "", &SubmissionError{Err: err}
	}

	for i := range rows {
		rows[i].ParticipantID = participantID
	}
	if err := gw.InsertResponseRows(ctx, rows); err != nil {
		s.state = StateActive
		return "", &SubmissionError{Err: err}
	}

	s.state = StateComplete
	return participantID, nil
}

// Touch records respondent activity for idle eviction.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// IdleSince returns the time of the last respondent activity.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func likertValues(rows []Row) []int {
	var values []int
	for _, r := range rows {
		if r.ValueNumeric != nil {
			values = append(values, *r.ValueNumeric)
		}
	}
	return values
}
