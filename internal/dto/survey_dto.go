package dto

import "time"

type QuestionDTO struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"question_text"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options" copier:"-"`
	Required      bool     `json:"required"`
	OrderIndex    int      `json:"order_index"`
	MaxSelections *int     `json:"max_selections,omitempty"`
	FixedOrder    bool     `json:"fixed_order"`
}

type SurveyDTO struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Active      bool          `json:"active"`
	Questions   []QuestionDTO `json:"questions" copier:"-"`
	CreatedAt   time.Time     `json:"created_at"`
}

type ResponseSavedDTO struct {
	Success    bool      `json:"success"`
	QuestionID string    `json:"question_id"`
	SavedAt    time.Time `json:"saved_at"`
}

type SessionCompletedDTO struct {
	Success     bool      `json:"success"`
	CompletedAt time.Time `json:"completed_at"`
}

type AnswerDTO struct {
	QuestionID       string    `json:"question_id"`
	AnswerValue      string    `json:"answer_value"`
	AnswerText       *string   `json:"answer_text,omitempty"`
	OriginalPosition *int      `json:"original_position,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProgressDTO lets a respondent resume an interrupted survey.
type ProgressDTO struct {
	RespondentID         string      `json:"respondent_id"`
	SurveyID             string      `json:"survey_id"`
	Status               string      `json:"status"`
	StartedAt            *time.Time  `json:"started_at,omitempty"`
	CompletedAt          *time.Time  `json:"completed_at,omitempty"`
	LastQuestionAnswered *string     `json:"last_question_answered,omitempty"`
	Answers              []AnswerDTO `json:"answers"`
}
