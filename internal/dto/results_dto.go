package dto

import "time"

type AnswerStatDTO struct {
	Value      string  `json:"value"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type QuestionStatsDTO struct {
	QuestionID     string          `json:"question_id"`
	QuestionText   string          `json:"question_text"`
	QuestionType   string          `json:"question_type"`
	TotalResponses int64           `json:"total_responses"`
	Answers        []AnswerStatDTO `json:"answers"`
}

type SurveyResultsDTO struct {
	SurveyID       string             `json:"survey_id"`
	SurveyTitle    string             `json:"survey_title"`
	TotalStarted   int64              `json:"total_started"`
	TotalCompleted int64              `json:"total_completed"`
	CompletionRate float64            `json:"completion_rate"`
	Questions      []QuestionStatsDTO `json:"questions"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

type InsightDTO struct {
	SurveyID    string    `json:"survey_id"`
	QuestionID  string    `json:"question_id"`
	SampleSize  int       `json:"sample_size"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}
