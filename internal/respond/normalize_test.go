package respond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeinnovator/InsightFlow/internal/models"
)

func TestNormalizeOneRowPerQuestion(t *testing.T) {
	questions := []models.Question{
		{ID: "q0", Type: models.QuestionLikert, Scale: 7},
		{ID: "q1", Type: models.QuestionOpenText},
		{ID: "q2", Type: models.QuestionLikert, Scale: 5},
	}
	answers := map[int]Answer{
		0: LikertAnswer(5),
		1: TextAnswer("Great product"),
		// q2 left unanswered on purpose.
	}

	rows := Normalize(questions, answers)
	require.Len(t, rows, 3)

	require.NotNil(t, rows[0].ValueNumeric)
	assert.Equal(t, 5, *rows[0].ValueNumeric)
	assert.Nil(t, rows[0].ValueText)

	require.NotNil(t, rows[1].ValueText)
	assert.Equal(t, "Great product", *rows[1].ValueText)
	assert.Nil(t, rows[1].ValueNumeric)

	// Unanswered questions still produce a row, with both slots empty.
	assert.Equal(t, "q2", rows[2].QuestionID)
	assert.Nil(t, rows[2].ValueNumeric)
	assert.Nil(t, rows[2].ValueText)
}

func TestNormalizeNeverFillsBothSlots(t *testing.T) {
	questions := []models.Question{
		{ID: "a", Type: models.QuestionLikert, Scale: 5},
		{ID: "b", Type: models.QuestionOpenText},
	}
	answers := map[int]Answer{0: LikertAnswer(1), 1: TextAnswer("x")}

	for _, row := range Normalize(questions, answers) {
		filled := 0
		if row.ValueNumeric != nil {
			filled++
		}
		if row.ValueText != nil {
			filled++
		}
		assert.Equal(t, 1, filled, "row %s must fill exactly one value slot", row.QuestionID)
	}
}

func TestNormalizeEmptyTextTreatedAsUnanswered(t *testing.T) {
	questions := []models.Question{{ID: "q", Type: models.QuestionOpenText}}
	rows := Normalize(questions, map[int]Answer{0: TextAnswer("")})
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].ValueText)
	assert.Nil(t, rows[0].ValueNumeric)
}

func TestNormalizeIsPure(t *testing.T) {
	questions := []models.Question{
		{ID: "q0", Type: models.QuestionLikert, Scale: 7},
		{ID: "q1", Type: models.QuestionOpenText},
	}
	answers := map[int]Answer{0: LikertAnswer(3), 1: TextAnswer("same")}

	first := Normalize(questions, answers)
	second := Normalize(questions, answers)
	assert.Equal(t, first, second)
}
