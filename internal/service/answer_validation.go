package service

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/model"
)

func hasText(text *string) bool {
	return text != nil && strings.TrimSpace(*text) != ""
}

// validateAnswer checks an answer's shape against its question type.
func validateAnswer(q *model.Question, value string, text *string, position *int, defaultMax int) error {
	opts, err := q.OptionList()
	if err != nil {
		return err
	}
	qt := q.QuestionType.Normalize()

	switch qt {
	case model.QuestionSingleChoice, model.QuestionSingleChoiceWithOther:
		if err := validateChoice(qt, opts, value, text); err != nil {
			return err
		}
	case model.QuestionMultiSelect, model.QuestionMultiSelectWithOther:
		var selected []string
		if err := json.Unmarshal([]byte(value), &selected); err != nil {
			return apperror.NewValidationError("multi-select answer must be a JSON array of strings", "answer_value")
		}
		if len(selected) == 0 && position != nil {
			return apperror.NewValidationError("cleared selection carries no original position", "original_position")
		}
		limit := defaultMax
		if q.MaxSelections != nil && *q.MaxSelections > 0 {
			limit = *q.MaxSelections
		}
		if limit > 0 && len(selected) > limit {
			return apperror.NewValidationError(fmt.Sprintf("at most %d selections allowed", limit), "answer_value")
		}
		seen := make(map[string]bool, len(selected))
		for _, label := range selected {
			if seen[label] {
				return apperror.NewValidationError("duplicate selection "+label, "answer_value")
			}
			seen[label] = true
			if err := validateChoice(qt, opts, label, text); err != nil {
				return err
			}
		}
	case model.QuestionContactVerification:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(value), &obj); err != nil || obj == nil {
			return apperror.NewValidationError("contact verification answer must be a JSON object", "answer_value")
		}
	case model.QuestionFreeText:
	default:
		return apperror.NewValidationError("unsupported question type "+string(q.QuestionType), "question_id")
	}

	if position != nil {
		if !qt.IsChoice() {
			return apperror.NewValidationError("original position only applies to choice questions", "original_position")
		}
		// the trailing slot len(opts) belongs to "other"
		last := len(opts) - 1
		if qt.AllowsOther() {
			last = len(opts)
		}
		if *position < 0 || *position > last {
			return apperror.NewValidationError("original position out of range", "original_position")
		}
	}
	return nil
}

func validateChoice(qt model.QuestionType, opts []string, value string, text *string) error {
	if value == model.OtherValue && qt.AllowsOther() {
		if !hasText(text) {
			return apperror.NewValidationError("other answer requires text", "answer_text")
		}
		return nil
	}
	if !slices.Contains(opts, value) {
		return apperror.NewValidationError("answer is not one of the question options", "answer_value")
	}
	return nil
}
