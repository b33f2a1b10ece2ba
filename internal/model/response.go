package model

import (
	"time"
)

// Response is one respondent's current answer to one question.
// AnswerValue holds a single option label, the OtherValue sentinel,
// a JSON array for multi-select or a JSON object for contact verification.
type Response struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	RespondentID     string    `json:"respondent_id" gorm:"type:text;not null;uniqueIndex:idx_response_respondent_question"`
	SurveyID         string    `json:"survey_id" gorm:"type:text;not null;index"`
	QuestionID       string    `json:"question_id" gorm:"type:text;not null;uniqueIndex:idx_response_respondent_question"`
	AnswerValue      string    `json:"answer_value" gorm:"type:text;not null"`
	AnswerText       *string   `json:"answer_text,omitempty" gorm:"type:text"`
	OriginalPosition *int      `json:"original_position,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Response) TableName() string {
	return "survey_responses"
}
