package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/fieldsurvey/config"
	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/metrics"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/lshigami/fieldsurvey/internal/repository"
	"github.com/rs/zerolog/log"
)

type ResponseService interface {
	// UpsertResponse records the respondent's current answer to a question,
	// replacing any earlier one, and touches the respondent's session.
	UpsertResponse(ctx context.Context, req dto.UpsertResponseRequest) (*dto.ResponseSavedDTO, error)
}

type responseService struct {
	surveyRepo     repository.SurveyRepository
	questionRepo   repository.QuestionRepository
	responseRepo   repository.ResponseRepository
	metrics        *metrics.Collector
	multiSelectMax int
	now            func() time.Time
}

func NewResponseService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	mc *metrics.Collector,
	cfg *config.Config,
) ResponseService {
	return &responseService{
		surveyRepo:     surveyRepo,
		questionRepo:   questionRepo,
		responseRepo:   responseRepo,
		metrics:        mc,
		multiSelectMax: cfg.Survey.MultiSelectMax,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// normalizeRespondentID is applied on every path that reads or writes a
// respondent's rows, so padded ids from the access link resolve to one session.
func normalizeRespondentID(id string) string {
	return strings.TrimSpace(id)
}

func missingFields(fields ...[2]string) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	return missing
}

func (s *responseService) UpsertResponse(ctx context.Context, req dto.UpsertResponseRequest) (*dto.ResponseSavedDTO, error) {
	req.RespondentID = normalizeRespondentID(req.RespondentID)
	missing := missingFields(
		[2]string{"respondent_id", req.RespondentID},
		[2]string{"survey_id", req.SurveyID},
		[2]string{"question_id", req.QuestionID},
		[2]string{"answer_value", req.AnswerValue},
	)
	if len(missing) > 0 {
		s.record(req.SurveyID, "invalid")
		return nil, apperror.NewValidationError("missing required fields", missing...)
	}

	question, err := s.questionRepo.FindByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.record(req.SurveyID, "invalid")
			return nil, fmt.Errorf("question %s: %w", req.QuestionID, err)
		}
		s.record(req.SurveyID, "error")
		log.Error().Err(err).Str("questionID", req.QuestionID).Msg("Failed to load question for response")
		return nil, fmt.Errorf("error loading question: %w", err)
	}
	if question.SurveyID != req.SurveyID {
		s.record(req.SurveyID, "invalid")
		return nil, apperror.NewValidationError("question does not belong to survey", "question_id")
	}

	survey, err := s.surveyRepo.FindByID(ctx, req.SurveyID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.record(req.SurveyID, "invalid")
			return nil, fmt.Errorf("survey %s: %w", req.SurveyID, err)
		}
		s.record(req.SurveyID, "error")
		return nil, fmt.Errorf("error loading survey: %w", err)
	}
	if !survey.Active {
		s.record(req.SurveyID, "invalid")
		return nil, fmt.Errorf("survey %s is not active: %w", req.SurveyID, apperror.ErrNotFound)
	}

	if err := validateAnswer(question, req.AnswerValue, req.AnswerText, req.OriginalPosition, s.multiSelectMax); err != nil {
		s.record(req.SurveyID, "invalid")
		log.Warn().Err(err).Str("questionID", question.ID).Msg("Rejected answer")
		return nil, err
	}

	response := &model.Response{
		RespondentID:     req.RespondentID,
		SurveyID:         req.SurveyID,
		QuestionID:       req.QuestionID,
		AnswerValue:      req.AnswerValue,
		OriginalPosition: req.OriginalPosition,
	}
	if hasText(req.AnswerText) {
		text := strings.TrimSpace(*req.AnswerText)
		response.AnswerText = &text
	}

	now := s.now()
	if err := s.responseRepo.Upsert(ctx, response, now); err != nil {
		s.record(req.SurveyID, "error")
		log.Error().Err(err).
			Str("surveyID", req.SurveyID).
			Str("questionID", req.QuestionID).
			Msg("Failed to save response")
		return nil, fmt.Errorf("error saving response: %w", err)
	}
	s.record(req.SurveyID, "ok")

	log.Debug().Str("surveyID", req.SurveyID).Str("questionID", req.QuestionID).Msg("Response saved")
	return &dto.ResponseSavedDTO{Success: true, QuestionID: req.QuestionID, SavedAt: now}, nil
}

func (s *responseService) record(surveyID, result string) {
	if s.metrics != nil {
		s.metrics.ResponseSaved(surveyID, result)
	}
}
