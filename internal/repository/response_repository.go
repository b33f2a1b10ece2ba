package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/fieldsurvey/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnswerCount is one (question, value, text) group of a survey's responses.
type AnswerCount struct {
	QuestionID  string
	AnswerValue string
	AnswerText  *string
	Count       int64
}

// ExportRow is a response joined with its question and session.
type ExportRow struct {
	RespondentID     string
	QuestionID       string
	QuestionText     string
	OrderIndex       int
	AnswerValue      string
	AnswerText       *string
	OriginalPosition *int
	AnsweredAt       time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
}

type ResponseRepository interface {
	// Upsert writes the answer and touches the respondent's session in one transaction.
	Upsert(ctx context.Context, response *model.Response, at time.Time) error
	FindByRespondent(ctx context.Context, respondentID, surveyID string) ([]model.Response, error)
	CountAnswers(ctx context.Context, surveyID string) ([]AnswerCount, error)
	FindExportRows(ctx context.Context, surveyID string) ([]ExportRow, error)
	FindAnswerTexts(ctx context.Context, questionID string, column TextColumn, limit int) ([]string, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Upsert(ctx context.Context, response *model.Response, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		response.CreatedAt = at
		response.UpdatedAt = at
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "respondent_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer_value", "answer_text", "original_position", "updated_at"}),
		}).Create(response).Error
		if err != nil {
			return fmt.Errorf("failed to upsert response: %w", err)
		}

		lastQuestion := response.QuestionID
		session := model.SurveySession{
			RespondentID:         response.RespondentID,
			SurveyID:             response.SurveyID,
			StartedAt:            at,
			LastQuestionAnswered: &lastQuestion,
			UpdatedAt:            at,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "respondent_id"}, {Name: "survey_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_question_answered", "updated_at"}),
		}).Create(&session).Error
		if err != nil {
			return fmt.Errorf("failed to touch session: %w", err)
		}
		return nil
	})
}

func (r *responseRepository) FindByRespondent(ctx context.Context, respondentID, surveyID string) ([]model.Response, error) {
	responses := []model.Response{}
	err := r.db.WithContext(ctx).
		Where("respondent_id = ? AND survey_id = ?", respondentID, surveyID).
		Order("id ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepository) CountAnswers(ctx context.Context, surveyID string) ([]AnswerCount, error) {
	counts := []AnswerCount{}
	err := r.db.WithContext(ctx).Model(&model.Response{}).
		Select("question_id, answer_value, answer_text, COUNT(*) AS count").
		Where("survey_id = ?", surveyID).
		Group("question_id, answer_value, answer_text").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *responseRepository) FindExportRows(ctx context.Context, surveyID string) ([]ExportRow, error) {
	rows := []ExportRow{}
	err := r.db.WithContext(ctx).Table("survey_responses AS r").
		Select(`r.respondent_id, r.question_id, q.question_text, q.order_index,
			r.answer_value, r.answer_text, r.original_position, r.updated_at AS answered_at,
			s.started_at, s.completed_at`).
		Joins("JOIN survey_questions AS q ON q.id = r.question_id").
		Joins("LEFT JOIN survey_sessions AS s ON s.respondent_id = r.respondent_id AND s.survey_id = r.survey_id").
		Where("r.survey_id = ?", surveyID).
		Order("r.respondent_id ASC, q.order_index ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TextColumn selects where a question keeps its free text: the value itself for
// free-text questions, the companion text for "other" answers.
type TextColumn string

const (
	AnswerValueColumn TextColumn = "answer_value"
	AnswerTextColumn  TextColumn = "answer_text"
)

// FindAnswerTexts returns the non-empty free-text answers of a question, newest first.
func (r *responseRepository) FindAnswerTexts(ctx context.Context, questionID string, column TextColumn, limit int) ([]string, error) {
	if column != AnswerValueColumn {
		column = AnswerTextColumn
	}
	col := string(column)
	texts := []string{}
	err := r.db.WithContext(ctx).Model(&model.Response{}).
		Where("question_id = ? AND "+col+" IS NOT NULL AND "+col+" <> ''", questionID).
		Order("updated_at DESC").
		Limit(limit).
		Pluck(col, &texts).Error
	if err != nil {
		return nil, err
	}
	return texts, nil
}
