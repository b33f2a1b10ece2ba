package dto

import "time"

type ExportMetadataDTO struct {
	SurveyID           string    `json:"survey_id"`
	SurveyTitle        string    `json:"survey_title"`
	SurveyDescription  string    `json:"survey_description"`
	SurveyCreatedAt    time.Time `json:"survey_created_at"`
	ExportedAt         time.Time `json:"exported_at"`
	TotalContacts      int       `json:"total_contacts"`
	CompletedResponses int       `json:"completed_responses"`
	PartialResponses   int       `json:"partial_responses"`
}

type ExportQuestionDTO struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	OrderIndex   int      `json:"order_index"`
}

type ExportAnswerDTO struct {
	QuestionID       string    `json:"question_id"`
	QuestionText     string    `json:"question_text"`
	QuestionOrder    int       `json:"question_order"`
	AnswerValue      string    `json:"answer_value"`
	AnswerText       *string   `json:"answer_text"`
	OriginalPosition *int      `json:"original_position"`
	AnsweredAt       time.Time `json:"answered_at"`
}

type ExportContactDTO struct {
	ContactID   string            `json:"contact_id"`
	StartedAt   *time.Time        `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at"`
	IsComplete  bool              `json:"is_complete"`
	Responses   []ExportAnswerDTO `json:"responses"`
}

type SurveyExportDTO struct {
	ExportMetadata ExportMetadataDTO   `json:"export_metadata"`
	Questions      []ExportQuestionDTO `json:"questions"`
	Responses      []ExportContactDTO  `json:"responses"`
}
