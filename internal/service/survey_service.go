package service

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/lshigami/fieldsurvey/internal/repository"
	"github.com/rs/zerolog/log"
)

type SurveyService interface {
	// GetActiveSurvey returns an active survey with its questions in order.
	// Inactive and unknown surveys are both reported as not found.
	GetActiveSurvey(ctx context.Context, surveyID string) (*dto.SurveyDTO, error)
}

type surveyService struct {
	surveyRepo repository.SurveyRepository
}

func NewSurveyService(surveyRepo repository.SurveyRepository) SurveyService {
	return &surveyService{surveyRepo: surveyRepo}
}

func (s *surveyService) GetActiveSurvey(ctx context.Context, surveyID string) (*dto.SurveyDTO, error) {
	survey, err := s.surveyRepo.FindActiveWithQuestions(ctx, surveyID)
	if err != nil {
		log.Warn().Err(err).Str("surveyID", surveyID).Msg("Failed to load active survey")
		return nil, fmt.Errorf("survey %s: %w", surveyID, err)
	}
	return toSurveyDTO(survey)
}

func toSurveyDTO(survey *model.Survey) (*dto.SurveyDTO, error) {
	var resp dto.SurveyDTO
	if err := copier.Copy(&resp, survey); err != nil {
		log.Error().Err(err).Msg("Failed to copy Survey model to SurveyDTO")
		return nil, fmt.Errorf("error preparing survey response: %w", err)
	}
	resp.Questions = make([]dto.QuestionDTO, 0, len(survey.Questions))
	for i := range survey.Questions {
		q, err := toQuestionDTO(&survey.Questions[i])
		if err != nil {
			return nil, err
		}
		resp.Questions = append(resp.Questions, q)
	}
	return &resp, nil
}

func toQuestionDTO(question *model.Question) (dto.QuestionDTO, error) {
	var q dto.QuestionDTO
	if err := copier.Copy(&q, question); err != nil {
		return q, fmt.Errorf("error preparing question %s: %w", question.ID, err)
	}
	opts, err := question.OptionList()
	if err != nil {
		log.Error().Err(err).Str("questionID", question.ID).Msg("Stored options are malformed")
		return q, err
	}
	q.Options = opts
	q.QuestionType = string(question.QuestionType.Normalize())
	return q, nil
}
