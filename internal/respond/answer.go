package respond

// Answer is the tagged union of respondent answer variants. A stored answer
// always matches its question's type; the mismatch is rejected at
// RecordAnswer time, not at persistence time.
type Answer interface {
	answered() bool
}

// LikertAnswer is a point on a likert scale, 1-based.
type LikertAnswer int

func (LikertAnswer) answered() bool { return true }

// TextAnswer is a free-text answer. The empty string is recorded but does
// not count as answered for progression gating.
type TextAnswer string

func (a TextAnswer) answered() bool { return a != "" }
