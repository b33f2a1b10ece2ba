package model

import (
	"time"
)

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// SurveySession tracks one respondent's pass through one survey.
// CompletedAt is set once and never cleared.
type SurveySession struct {
	ID                   uint       `gorm:"primarykey" json:"id"`
	RespondentID         string     `json:"respondent_id" gorm:"type:text;not null;uniqueIndex:idx_session_respondent_survey"`
	SurveyID             string     `json:"survey_id" gorm:"type:text;not null;uniqueIndex:idx_session_respondent_survey"`
	StartedAt            time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	LastQuestionAnswered *string    `json:"last_question_answered,omitempty" gorm:"type:text"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (SurveySession) TableName() string {
	return "survey_sessions"
}

func (s *SurveySession) Status() SessionStatus {
	if s == nil {
		return SessionNotStarted
	}
	if s.CompletedAt != nil {
		return SessionCompleted
	}
	return SessionInProgress
}
