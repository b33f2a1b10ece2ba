package repository

import (
	"context"

	"github.com/lshigami/fieldsurvey/internal/model"
	"gorm.io/gorm"
)

type SurveyRepository interface {
	FindByID(ctx context.Context, id string) (*model.Survey, error)
	FindByIDWithQuestions(ctx context.Context, id string) (*model.Survey, error)
	FindActiveWithQuestions(ctx context.Context, id string) (*model.Survey, error)
}

type surveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) FindByID(ctx context.Context, id string) (*model.Survey, error) {
	var survey model.Survey
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&survey).Error; err != nil {
		return nil, translate(err)
	}
	return &survey, nil
}

func (r *surveyRepository) FindByIDWithQuestions(ctx context.Context, id string) (*model.Survey, error) {
	var survey model.Survey
	err := r.db.WithContext(ctx).Preload("Questions", orderedQuestions).
		Where("id = ?", id).First(&survey).Error
	if err != nil {
		return nil, translate(err)
	}
	return &survey, nil
}

// FindActiveWithQuestions treats an inactive survey as missing.
func (r *surveyRepository) FindActiveWithQuestions(ctx context.Context, id string) (*model.Survey, error) {
	var survey model.Survey
	err := r.db.WithContext(ctx).Preload("Questions", orderedQuestions).
		Where("id = ? AND active = ?", id, true).First(&survey).Error
	if err != nil {
		return nil, translate(err)
	}
	return &survey, nil
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("survey_questions.order_index ASC")
}
