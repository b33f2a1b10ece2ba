package repository

import (
	"context"
	"time"

	"github.com/lshigami/fieldsurvey/internal/model"
	"gorm.io/gorm"
)

type SessionStats struct {
	Started   int64
	Completed int64
}

type SessionRepository interface {
	Find(ctx context.Context, respondentID, surveyID string) (*model.SurveySession, error)
	FindBySurveyID(ctx context.Context, surveyID string) ([]model.SurveySession, error)
	// Complete stamps completed_at only if the session exists and is still open.
	// It reports whether a row changed.
	Complete(ctx context.Context, respondentID, surveyID string, at time.Time) (bool, error)
	Stats(ctx context.Context, surveyID string) (SessionStats, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Find(ctx context.Context, respondentID, surveyID string) (*model.SurveySession, error) {
	var session model.SurveySession
	err := r.db.WithContext(ctx).
		Where("respondent_id = ? AND survey_id = ?", respondentID, surveyID).
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *sessionRepository) FindBySurveyID(ctx context.Context, surveyID string) ([]model.SurveySession, error) {
	sessions := []model.SurveySession{}
	err := r.db.WithContext(ctx).Where("survey_id = ?", surveyID).
		Order("respondent_id ASC").Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Complete(ctx context.Context, respondentID, surveyID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.SurveySession{}).
		Where("respondent_id = ? AND survey_id = ? AND completed_at IS NULL", respondentID, surveyID).
		Updates(map[string]interface{}{"completed_at": at, "updated_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepository) Stats(ctx context.Context, surveyID string) (SessionStats, error) {
	var stats SessionStats
	err := r.db.WithContext(ctx).Model(&model.SurveySession{}).
		Select("COUNT(*) AS started, COUNT(completed_at) AS completed").
		Where("survey_id = ?", surveyID).
		Scan(&stats).Error
	return stats, err
}
