package repository

import (
	"context"

	"github.com/lshigami/fieldsurvey/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(ctx context.Context, id string) (*model.Question, error)
	FindBySurveyID(ctx context.Context, surveyID string) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, translate(err)
	}
	return &question, nil
}

func (r *questionRepository) FindBySurveyID(ctx context.Context, surveyID string) ([]model.Question, error) {
	questions := []model.Question{}
	err := r.db.WithContext(ctx).Where("survey_id = ?", surveyID).
		Order("order_index ASC").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
