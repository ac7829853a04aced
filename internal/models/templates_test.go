package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplateFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTemplates(t *testing.T) {
	path := writeTemplateFile(t, `
templates:
  - key: pulse
    name: Pulse Check
    questions:
      - id: p1
        type: likert
        title: How satisfied are you?
        scale: 7
        low_label: Very Unsatisfied
        high_label: Very Satisfied
      - id: p2
        type: open_text
        title: Tell us more.
`)

	library, err := LoadTemplates(path)
	require.NoError(t, err)
	require.Len(t, library.Templates, 1)

	tpl := library.Find("pulse")
	require.NotNil(t, tpl)
	assert.Nil(t, library.Find("missing"))

	questions := tpl.AsQuestions()
	require.Len(t, questions, 2)
	assert.Equal(t, QuestionLikert, questions[0].Type)
	assert.Equal(t, 7, questions[0].Scale)
	assert.Equal(t, "Very Satisfied", questions[0].HighLabel)
	assert.Equal(t, QuestionOpenText, questions[1].Type)
}

func TestLoadTemplatesRejectsInvalidQuestion(t *testing.T) {
	path := writeTemplateFile(t, `
templates:
  - key: broken
    name: Broken
    questions:
      - id: b1
        type: ranking
        title: Rank these.
`)
	_, err := LoadTemplates(path)
	assert.Error(t, err)
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	_, err := LoadTemplates(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
