package runner

import (
	"encoding/json"
	"strings"

	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/lshigami/fieldsurvey/internal/randomizer"
)

// Component is the interactive form of one question. The concrete types are
// *SingleChoice, *MultiSelect, *ContactVerification and *FreeText.
type Component interface {
	Base() *Question
	component()
}

// Question holds what every component shares.
type Question struct {
	ID       string
	Text     string
	Type     model.QuestionType
	Required bool
	// Display is the option order shown to this respondent, "other" included.
	Display []string

	ordering randomizer.Ordering
}

func (q *Question) Base() *Question { return q }

// Position is the authored index of label, or false if label is not an option.
func (q *Question) Position(label string) (int, bool) {
	return q.ordering.OriginalPosition(label)
}

type SingleChoice struct {
	Question
	AllowsOther bool
	Selected    string
	OtherText   string
}

type MultiSelect struct {
	Question
	AllowsOther bool
	Max         int
	Selected    []string
	OtherText   string
}

func (m *MultiSelect) IsSelected(label string) bool {
	for _, s := range m.Selected {
		if s == label {
			return true
		}
	}
	return false
}

type ContactVerification struct {
	Question
	Contact model.ContactVerification
}

type FreeText struct {
	Question
	Value string
}

func (*SingleChoice) component()        {}
func (*MultiSelect) component()         {}
func (*ContactVerification) component() {}
func (*FreeText) component()            {}

// newComponent binds q to a fresh option ordering.
func newComponent(q dto.QuestionDTO, randomize bool, defaultMax int) Component {
	qtype := model.QuestionType(q.QuestionType).Normalize()
	base := Question{ID: q.ID, Text: q.QuestionText, Type: qtype, Required: q.Required}

	if qtype.IsChoice() {
		options := q.Options
		if qtype.AllowsOther() {
			options = randomizer.WithOther(options)
		}
		base.ordering = randomizer.Shuffle(options, randomize && !q.FixedOrder)
		base.Display = base.ordering.Display
	}

	switch {
	case qtype.IsMultiSelect():
		limit := defaultMax
		if q.MaxSelections != nil && *q.MaxSelections > 0 {
			limit = *q.MaxSelections
		}
		return &MultiSelect{Question: base, AllowsOther: qtype.AllowsOther(), Max: limit}
	case qtype.IsChoice():
		return &SingleChoice{Question: base, AllowsOther: qtype.AllowsOther()}
	case qtype == model.QuestionContactVerification:
		return &ContactVerification{Question: base}
	default:
		return &FreeText{Question: base}
	}
}

// restore loads a stored answer into c. It reports false when the answer
// does not fit the component.
func restore(c Component, a dto.AnswerDTO) bool {
	text := ""
	if a.AnswerText != nil {
		text = *a.AnswerText
	}
	switch c := c.(type) {
	case *SingleChoice:
		c.Selected = a.AnswerValue
		c.OtherText = text
	case *MultiSelect:
		var selected []string
		if err := json.Unmarshal([]byte(a.AnswerValue), &selected); err != nil || len(selected) == 0 {
			return false
		}
		c.Selected = selected
		c.OtherText = text
	case *ContactVerification:
		if err := json.Unmarshal([]byte(a.AnswerValue), &c.Contact); err != nil {
			return false
		}
	case *FreeText:
		c.Value = a.AnswerValue
	}
	return true
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
