package dto

// UpsertResponseRequest records or replaces one answer. Presence of the
// identifying fields is checked by the response service so the missing ones
// can be listed back to the caller.
type UpsertResponseRequest struct {
	RespondentID     string  `json:"respondent_id"`
	SurveyID         string  `json:"survey_id"`
	QuestionID       string  `json:"question_id"`
	AnswerValue      string  `json:"answer_value"`
	AnswerText       *string `json:"answer_text,omitempty"`
	OriginalPosition *int    `json:"original_position,omitempty"`
}

type CompleteSessionRequest struct {
	RespondentID string `json:"respondent_id"`
	SurveyID     string `json:"survey_id"`
}
