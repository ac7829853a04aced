package respond

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeinnovator/InsightFlow/internal/models"
)

type stubSource struct {
	def *Definition
	err error
}

func (s *stubSource) Definition(ctx context.Context, token string) (*Definition, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.def, nil
}

type stubGateway struct {
	createErr    error
	insertErr    error
	participants []NewParticipant
	inserted     [][]Row
}

func (g *stubGateway) CreateParticipant(ctx context.Context, p NewParticipant) (string, error) {
	if g.createErr != nil {
		return "", g.createErr
	}
	g.participants = append(g.participants, p)
	return "participant-1", nil
}

func (g *stubGateway) InsertResponseRows(ctx context.Context, rows []Row) error {
	if g.insertErr != nil {
		return g.insertErr
	}
	g.inserted = append(g.inserted, rows)
	return nil
}

func twoQuestionDef() *Definition {
	return &Definition{
		SurveyID:  7,
		ProjectID: 3,
		Title:     "Product feedback",
		Questions: []models.Question{
			{ID: "q0", Type: models.QuestionLikert, Scale: 7},
			{ID: "q1", Type: models.QuestionOpenText},
		},
	}
}

func startActive(t *testing.T, def *Definition) *Session {
	t.Helper()
	s, err := Start(context.Background(), &stubSource{def: def}, "tok")
	require.NoError(t, err)
	require.Equal(t, StateActive, s.State())
	return s
}

func TestStartEmptySurvey(t *testing.T) {
	s, err := Start(context.Background(), &stubSource{def: &Definition{SurveyID: 1}}, "tok")
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, s.State())

	// Nothing is navigable and submit is unreachable.
	assert.ErrorIs(t, s.Advance(), ErrNotActive)
	assert.ErrorIs(t, s.Retreat(), ErrNotActive)
	_, err = s.Submit(context.Background(), &stubGateway{})
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestStartLoadFailure(t *testing.T) {
	cause := errors.New("connection refused")
	s, err := Start(context.Background(), &stubSource{err: cause}, "tok")
	require.Error(t, err)

	var loadErr *DefinitionLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, loadErr.Err, cause)
	assert.Equal(t, StateFailed, s.State())
}

func TestFullRunProducesRowsInOrder(t *testing.T) {
	s := startActive(t, twoQuestionDef())
	gw := &stubGateway{}

	require.NoError(t, s.RecordAnswer(LikertAnswer(5)))
	require.True(t, s.CanAdvance())
	require.NoError(t, s.Advance())
	require.NoError(t, s.RecordAnswer(TextAnswer("Great product")))

	participantID, err := s.Submit(context.Background(), gw)
	require.NoError(t, err)
	assert.Equal(t, "participant-1", participantID)
	assert.Equal(t, StateComplete, s.State())
	assert.True(t, s.IsComplete())

	require.Len(t, gw.inserted, 1)
	rows := gw.inserted[0]
	require.Len(t, rows, 2)

	assert.Equal(t, "q0", rows[0].QuestionID)
	require.NotNil(t, rows[0].ValueNumeric)
	assert.Equal(t, 5, *rows[0].ValueNumeric)
	assert.Nil(t, rows[0].ValueText)

	assert.Equal(t, "q1", rows[1].QuestionID)
	assert.Nil(t, rows[1].ValueNumeric)
	require.NotNil(t, rows[1].ValueText)
	assert.Equal(t, "Great product", *rows[1].ValueText)

	for _, row := range rows {
		assert.Equal(t, uint(7), row.SurveyID)
		assert.Equal(t, "participant-1", row.ParticipantID)
	}
}

func TestRecordAnswerIdempotentAndOverwrite(t *testing.T) {
	s := startActive(t, twoQuestionDef())

	require.NoError(t, s.RecordAnswer(LikertAnswer(4)))
	require.NoError(t, s.RecordAnswer(LikertAnswer(4)))
	a, ok := s.AnswerAt(0)
	require.True(t, ok)
	assert.Equal(t, LikertAnswer(4), a)
	assert.Equal(t, 0, s.CurrentIndex())

	// A new value replaces the old one at the same position.
	require.NoError(t, s.RecordAnswer(LikertAnswer(2)))
	a, _ = s.AnswerAt(0)
	assert.Equal(t, LikertAnswer(2), a)
}

func TestRecordAnswerRejectsMismatchedVariant(t *testing.T) {
	s := startActive(t, twoQuestionDef())

	assert.ErrorIs(t, s.RecordAnswer(TextAnswer("five")), ErrAnswerType)
	assert.ErrorIs(t, s.RecordAnswer(LikertAnswer(0)), ErrAnswerType)
	assert.ErrorIs(t, s.RecordAnswer(LikertAnswer(8)), ErrAnswerType)

	require.NoError(t, s.RecordAnswer(LikertAnswer(7)))
	require.NoError(t, s.Advance())
	assert.ErrorIs(t, s.RecordAnswer(LikertAnswer(1)), ErrAnswerType)
}

func TestEmptyTextDoesNotQualify(t *testing.T) {
	s := startActive(t, twoQuestionDef())
	require.NoError(t, s.RecordAnswer(LikertAnswer(3)))
	require.NoError(t, s.Advance())

	require.NoError(t, s.RecordAnswer(TextAnswer("")))
	assert.False(t, s.CanAdvance())

	_, err := s.Submit(context.Background(), &stubGateway{})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestNavigationRoundTripKeepsAnswers(t *testing.T) {
	s := startActive(t, twoQuestionDef())

	require.NoError(t, s.RecordAnswer(LikertAnswer(6)))
	require.NoError(t, s.Advance())
	require.NoError(t, s.RecordAnswer(TextAnswer("fine")))

	require.NoError(t, s.Retreat())
	assert.Equal(t, 0, s.CurrentIndex())
	a, ok := s.AnswerAt(0)
	require.True(t, ok)
	assert.Equal(t, LikertAnswer(6), a)

	require.NoError(t, s.Advance())
	assert.Equal(t, 1, s.CurrentIndex())
	a, ok = s.AnswerAt(1)
	require.True(t, ok)
	assert.Equal(t, TextAnswer("fine"), a)
}

func TestNavigationBoundaries(t *testing.T) {
	s := startActive(t, twoQuestionDef())

	assert.ErrorIs(t, s.Retreat(), ErrOutOfRange)

	require.NoError(t, s.RecordAnswer(LikertAnswer(1)))
	require.NoError(t, s.Advance())
	assert.ErrorIs(t, s.Advance(), ErrOutOfRange)
}

func TestSubmitRequiresLastIndex(t *testing.T) {
	s := startActive(t, twoQuestionDef())
	require.NoError(t, s.RecordAnswer(LikertAnswer(5)))

	_, err := s.Submit(context.Background(), &stubGateway{})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSubmitRetryAfterFailure(t *testing.T) {
	s := startActive(t, twoQuestionDef())
	require.NoError(t, s.RecordAnswer(LikertAnswer(5)))
	require.NoError(t, s.Advance())
	require.NoError(t, s.RecordAnswer(TextAnswer("Great product")))

	gw := &stubGateway{insertErr: errors.New("bulk insert failed")}
	_, err := s.Submit(context.Background(), gw)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, StateActive, s.State())

	// All answers survived the failure.
	a, ok := s.AnswerAt(0)
	require.True(t, ok)
	assert.Equal(t, LikertAnswer(5), a)
	a, ok = s.AnswerAt(1)
	require.True(t, ok)
	assert.Equal(t, TextAnswer("Great product"), a)

	// The retry resends the full row set and completes.
	gw.insertErr = nil
	_, err = s.Submit(context.Background(), gw)
	require.NoError(t, err)
	assert.Equal(t, StateComplete, s.State())

	require.Len(t, gw.inserted, 1)
	rows := gw.inserted[0]
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].ValueNumeric)
	assert.Equal(t, 5, *rows[0].ValueNumeric)
	require.NotNil(t, rows[1].ValueText)
	assert.Equal(t, "Great product", *rows[1].ValueText)
}

func TestSubmitCreateParticipantFailureWritesNoRows(t *testing.T) {
	s := startActive(t, twoQuestionDef())
	require.NoError(t, s.RecordAnswer(LikertAnswer(5)))
	require.NoError(t, s.Advance())
	require.NoError(t, s.RecordAnswer(TextAnswer("ok")))

	gw := &stubGateway{createErr: errors.New("db down")}
	_, err := s.Submit(context.Background(), gw)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Empty(t, gw.inserted)
	assert.Equal(t, StateActive, s.State())
}

func TestSubmitFlagsStraightlinedRuns(t *testing.T) {
	def := &Definition{
		SurveyID:  1,
		ProjectID: 1,
		Questions: []models.Question{
			{ID: "a", Type: models.QuestionLikert, Scale: 5},
			{ID: "b", Type: models.QuestionLikert, Scale: 5},
			{ID: "c", Type: models.QuestionLikert, Scale: 5},
		},
	}
	s := startActive(t, def)
	gw := &stubGateway{}

	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordAnswer(LikertAnswer(4)))
		if i < 2 {
			require.NoError(t, s.Advance())
		}
	}
	_, err := s.Submit(context.Background(), gw)
	require.NoError(t, err)

	require.Len(t, gw.participants, 1)
	assert.True(t, gw.participants[0].StraightLined)
	assert.Equal(t, uint(1), gw.participants[0].ProjectID)
}

func TestCompletedSessionRejectsFurtherUse(t *testing.T) {
	def := &Definition{
		SurveyID:  1,
		ProjectID: 1,
		Questions: []models.Question{{ID: "a", Type: models.QuestionLikert, Scale: 5}},
	}
	s := startActive(t, def)
	require.NoError(t, s.RecordAnswer(LikertAnswer(2)))
	_, err := s.Submit(context.Background(), &stubGateway{})
	require.NoError(t, err)

	assert.ErrorIs(t, s.RecordAnswer(LikertAnswer(3)), ErrNotActive)
	_, err = s.Submit(context.Background(), &stubGateway{})
	assert.ErrorIs(t, err, ErrNotActive)
}
