package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OtherValue is the answer value stored when the respondent picks the free-text "other" option.
const OtherValue = "other"

// EmptySelection is the stored value of a multi-select whose choices were all cleared.
const EmptySelection = "[]"

type QuestionType string

const (
	QuestionSingleChoice          QuestionType = "single_choice"
	QuestionSingleChoiceWithOther QuestionType = "single_choice_with_other"
	QuestionMultiSelect           QuestionType = "multi_select"
	QuestionMultiSelectWithOther  QuestionType = "multi_select_with_other"
	QuestionContactVerification   QuestionType = "contact_verification"
	QuestionFreeText              QuestionType = "free_text"
)

// legacy names still present in older survey rows
var questionTypeAliases = map[QuestionType]QuestionType{
	"multiple_choice":            QuestionSingleChoice,
	"multiple_choice_with_other": QuestionSingleChoiceWithOther,
	"multiple_select":            QuestionMultiSelect,
	"multiple_select_with_other": QuestionMultiSelectWithOther,
	"text":                       QuestionFreeText,
}

// Normalize maps legacy type names onto their current equivalent.
func (t QuestionType) Normalize() QuestionType {
	if canonical, ok := questionTypeAliases[t]; ok {
		return canonical
	}
	return t
}

func (t QuestionType) Valid() bool {
	switch t.Normalize() {
	case QuestionSingleChoice, QuestionSingleChoiceWithOther,
		QuestionMultiSelect, QuestionMultiSelectWithOther,
		QuestionContactVerification, QuestionFreeText:
		return true
	}
	return false
}

func (t QuestionType) AllowsOther() bool {
	n := t.Normalize()
	return n == QuestionSingleChoiceWithOther || n == QuestionMultiSelectWithOther
}

func (t QuestionType) IsMultiSelect() bool {
	n := t.Normalize()
	return n == QuestionMultiSelect || n == QuestionMultiSelectWithOther
}

func (t QuestionType) IsChoice() bool {
	n := t.Normalize()
	return n == QuestionSingleChoice || n == QuestionSingleChoiceWithOther || t.IsMultiSelect()
}

type Question struct {
	ID            string         `gorm:"primarykey;type:text" json:"id"`
	SurveyID      string         `json:"survey_id" gorm:"type:text;not null;index;uniqueIndex:idx_question_survey_order"`
	QuestionText  string         `json:"question_text" gorm:"type:text;not null"`
	QuestionType  QuestionType   `json:"question_type" gorm:"type:text;not null"`
	Options       datatypes.JSON `json:"options,omitempty"` // ordered option labels, null for non-choice types
	Required      bool           `json:"required" gorm:"not null"`
	OrderIndex    int            `json:"order_index" gorm:"not null;uniqueIndex:idx_question_survey_order"`
	MaxSelections *int           `json:"max_selections,omitempty"`
	FixedOrder    bool           `json:"fixed_order" gorm:"not null"` // yes/no and numeric ranges keep authored order
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Question) TableName() string {
	return "survey_questions"
}

// OptionList decodes the stored option labels. Questions without options yield an empty list.
func (q *Question) OptionList() ([]string, error) {
	if len(q.Options) == 0 || string(q.Options) == "null" {
		return []string{}, nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, fmt.Errorf("question %s has malformed options: %w", q.ID, err)
	}
	return opts, nil
}
