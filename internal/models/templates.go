package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template is a ready-made question set the builder offers as a starting
// point (e.g. product satisfaction, UX benchmark).
type Template struct {
	Key         string             `yaml:"key"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Questions   []TemplateQuestion `yaml:"questions"`
}

// TemplateQuestion is the YAML shape of a template question.
type TemplateQuestion struct {
	ID        string `yaml:"id"`
	Type      string `yaml:"type"`
	Title     string `yaml:"title"`
	Scale     int    `yaml:"scale,omitempty"`
	LowLabel  string `yaml:"low_label,omitempty"`
	HighLabel string `yaml:"high_label,omitempty"`
}

// TemplateLibrary holds all templates loaded at startup.
type TemplateLibrary struct {
	Templates []Template `yaml:"templates"`
}

// LoadTemplates reads and parses the templates.yaml file.
func LoadTemplates(path string) (*TemplateLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var library TemplateLibrary
	if err := yaml.Unmarshal(data, &library); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template YAML: %w", err)
	}

	for _, tpl := range library.Templates {
		questions := tpl.AsQuestions()
		if err := ValidateQuestions(questions); err != nil {
			return nil, fmt.Errorf("template %s: %w", tpl.Key, err)
		}
	}
	return &library, nil
}

// Find returns the template with the given key, or nil.
func (l *TemplateLibrary) Find(key string) *Template {
	for i := range l.Templates {
		if l.Templates[i].Key == key {
			return &l.Templates[i]
		}
	}
	return nil
}

// AsQuestions converts the template's questions into builder questions.
func (t *Template) AsQuestions() []Question {
	questions := make([]Question, len(t.Questions))
	for i, q := range t.Questions {
		questions[i] = Question{
			ID:        q.ID,
			Type:      q.Type,
			Title:     q.Title,
			Scale:     q.Scale,
			LowLabel:  q.LowLabel,
			HighLabel: q.HighLabel,
		}
	}
	return questions
}
