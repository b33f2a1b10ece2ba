package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/metrics"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/lshigami/fieldsurvey/internal/repository"
	"github.com/rs/zerolog/log"
)

type SessionService interface {
	// CompleteSession marks an open session completed. A second call fails
	// with ErrAlreadyCompleted; a session that was never started fails with
	// ErrSessionNotFound.
	CompleteSession(ctx context.Context, req dto.CompleteSessionRequest) (*dto.SessionCompletedDTO, error)
	GetProgress(ctx context.Context, respondentID, surveyID string) (*dto.ProgressDTO, error)
}

type sessionService struct {
	surveyRepo   repository.SurveyRepository
	sessionRepo  repository.SessionRepository
	responseRepo repository.ResponseRepository
	metrics      *metrics.Collector
	now          func() time.Time
}

func NewSessionService(
	surveyRepo repository.SurveyRepository,
	sessionRepo repository.SessionRepository,
	responseRepo repository.ResponseRepository,
	mc *metrics.Collector,
) SessionService {
	return &sessionService{
		surveyRepo:   surveyRepo,
		sessionRepo:  sessionRepo,
		responseRepo: responseRepo,
		metrics:      mc,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *sessionService) CompleteSession(ctx context.Context, req dto.CompleteSessionRequest) (*dto.SessionCompletedDTO, error) {
	req.RespondentID = normalizeRespondentID(req.RespondentID)
	missing := missingFields(
		[2]string{"respondent_id", req.RespondentID},
		[2]string{"survey_id", req.SurveyID},
	)
	if len(missing) > 0 {
		return nil, apperror.NewValidationError("missing required fields", missing...)
	}

	now := s.now()
	changed, err := s.sessionRepo.Complete(ctx, req.RespondentID, req.SurveyID, now)
	if err != nil {
		s.record(req.SurveyID, "error")
		log.Error().Err(err).Str("surveyID", req.SurveyID).Msg("Failed to complete session")
		return nil, fmt.Errorf("error completing session: %w", err)
	}
	if changed {
		s.record(req.SurveyID, "completed")
		log.Info().Str("surveyID", req.SurveyID).Str("respondentID", req.RespondentID).Msg("Survey session completed")
		return &dto.SessionCompletedDTO{Success: true, CompletedAt: now}, nil
	}

	// Nothing changed: either there is no session or it was already completed.
	session, err := s.sessionRepo.Find(ctx, req.RespondentID, req.SurveyID)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		s.record(req.SurveyID, "not_found")
		return nil, fmt.Errorf("respondent %s in survey %s: %w", req.RespondentID, req.SurveyID, apperror.ErrSessionNotFound)
	case err != nil:
		s.record(req.SurveyID, "error")
		return nil, fmt.Errorf("error reading session: %w", err)
	case session.CompletedAt != nil:
		s.record(req.SurveyID, "already_completed")
		return nil, fmt.Errorf("respondent %s in survey %s: %w", req.RespondentID, req.SurveyID, apperror.ErrAlreadyCompleted)
	default:
		s.record(req.SurveyID, "error")
		return nil, fmt.Errorf("session for respondent %s changed during completion", req.RespondentID)
	}
}

func (s *sessionService) GetProgress(ctx context.Context, respondentID, surveyID string) (*dto.ProgressDTO, error) {
	respondentID = normalizeRespondentID(respondentID)
	missing := missingFields(
		[2]string{"respondent_id", respondentID},
		[2]string{"survey_id", surveyID},
	)
	if len(missing) > 0 {
		return nil, apperror.NewValidationError("missing required fields", missing...)
	}
	if _, err := s.surveyRepo.FindByID(ctx, surveyID); err != nil {
		return nil, fmt.Errorf("survey %s: %w", surveyID, err)
	}

	progress := &dto.ProgressDTO{
		RespondentID: respondentID,
		SurveyID:     surveyID,
		Status:       string(model.SessionNotStarted),
		Answers:      []dto.AnswerDTO{},
	}

	session, err := s.sessionRepo.Find(ctx, respondentID, surveyID)
	if errors.Is(err, apperror.ErrNotFound) {
		return progress, nil
	}
	if err != nil {
		log.Error().Err(err).Str("surveyID", surveyID).Msg("Failed to read session progress")
		return nil, fmt.Errorf("error reading session: %w", err)
	}
	progress.Status = string(session.Status())
	progress.StartedAt = &session.StartedAt
	progress.CompletedAt = session.CompletedAt
	progress.LastQuestionAnswered = session.LastQuestionAnswered

	responses, err := s.responseRepo.FindByRespondent(ctx, respondentID, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error reading answers: %w", err)
	}
	for _, r := range responses {
		progress.Answers = append(progress.Answers, dto.AnswerDTO{
			QuestionID:       r.QuestionID,
			AnswerValue:      r.AnswerValue,
			AnswerText:       r.AnswerText,
			OriginalPosition: r.OriginalPosition,
			UpdatedAt:        r.UpdatedAt,
		})
	}
	return progress, nil
}

func (s *sessionService) record(surveyID, result string) {
	if s.metrics != nil {
		s.metrics.SessionCompleted(surveyID, result)
	}
}
