package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lshigami/fieldsurvey/internal/cache"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/metrics"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/lshigami/fieldsurvey/internal/repository"
	"github.com/rs/zerolog/log"
)

type ResultsService interface {
	GetResults(ctx context.Context, surveyID string) (*dto.SurveyResultsDTO, error)
}

type resultsService struct {
	surveyRepo   repository.SurveyRepository
	sessionRepo  repository.SessionRepository
	responseRepo repository.ResponseRepository
	cache        cache.Cache
	metrics      *metrics.Collector
	now          func() time.Time
}

func NewResultsService(
	surveyRepo repository.SurveyRepository,
	sessionRepo repository.SessionRepository,
	responseRepo repository.ResponseRepository,
	resultsCache cache.Cache,
	mc *metrics.Collector,
) ResultsService {
	if resultsCache == nil {
		resultsCache = cache.Noop{}
	}
	return &resultsService{
		surveyRepo:   surveyRepo,
		sessionRepo:  sessionRepo,
		responseRepo: responseRepo,
		cache:        resultsCache,
		metrics:      mc,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *resultsService) GetResults(ctx context.Context, surveyID string) (*dto.SurveyResultsDTO, error) {
	if cached, ok := s.fromCache(ctx, surveyID); ok {
		return cached, nil
	}

	survey, err := s.surveyRepo.FindByIDWithQuestions(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("survey %s: %w", surveyID, err)
	}
	stats, err := s.sessionRepo.Stats(ctx, surveyID)
	if err != nil {
		log.Error().Err(err).Str("surveyID", surveyID).Msg("Failed to read session stats")
		return nil, fmt.Errorf("error reading session stats: %w", err)
	}
	counts, err := s.responseRepo.CountAnswers(ctx, surveyID)
	if err != nil {
		log.Error().Err(err).Str("surveyID", surveyID).Msg("Failed to count answers")
		return nil, fmt.Errorf("error counting answers: %w", err)
	}

	results := BuildResults(survey, stats, counts)
	results.GeneratedAt = s.now()
	s.toCache(ctx, surveyID, results)
	return results, nil
}

func (s *resultsService) fromCache(ctx context.Context, surveyID string) (*dto.SurveyResultsDTO, bool) {
	raw, err := s.cache.Get(ctx, surveyID)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Str("surveyID", surveyID).Msg("Results cache unavailable")
		}
		s.lookup(false)
		return nil, false
	}
	var results dto.SurveyResultsDTO
	if err := json.Unmarshal(raw, &results); err != nil {
		log.Warn().Err(err).Str("surveyID", surveyID).Msg("Discarding unreadable cached results")
		s.lookup(false)
		return nil, false
	}
	s.lookup(true)
	return &results, true
}

func (s *resultsService) toCache(ctx context.Context, surveyID string, results *dto.SurveyResultsDTO) {
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, surveyID, raw); err != nil {
		log.Warn().Err(err).Str("surveyID", surveyID).Msg("Failed to cache results")
	}
}

func (s *resultsService) lookup(hit bool) {
	if s.metrics != nil {
		s.metrics.CacheLookup(hit)
	}
}

// DisplayValue renders a stored answer for reporting. "other" answers with
// text show as "Other: <text>".
func DisplayValue(value string, text *string) string {
	if value == model.OtherValue && text != nil && *text != "" {
		return "Other: " + *text
	}
	return value
}

func percentage(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// BuildResults folds session stats and grouped answer counts into the per-question report.
// Questions keep catalog order; answers are ordered by count descending, then by display value.
func BuildResults(survey *model.Survey, stats repository.SessionStats, counts []repository.AnswerCount) *dto.SurveyResultsDTO {
	byQuestion := make(map[string][]repository.AnswerCount)
	for _, c := range counts {
		// cleared multi-selects are not answers
		if c.AnswerValue == model.EmptySelection {
			continue
		}
		byQuestion[c.QuestionID] = append(byQuestion[c.QuestionID], c)
	}

	results := &dto.SurveyResultsDTO{
		SurveyID:       survey.ID,
		SurveyTitle:    survey.Title,
		TotalStarted:   stats.Started,
		TotalCompleted: stats.Completed,
		CompletionRate: percentage(stats.Completed, stats.Started),
		Questions:      make([]dto.QuestionStatsDTO, 0, len(survey.Questions)),
	}

	for _, q := range survey.Questions {
		groups := byQuestion[q.ID]
		var total int64
		for _, g := range groups {
			total += g.Count
		}
		answers := make([]dto.AnswerStatDTO, 0, len(groups))
		for _, g := range groups {
			answers = append(answers, dto.AnswerStatDTO{
				Value:      DisplayValue(g.AnswerValue, g.AnswerText),
				Count:      g.Count,
				Percentage: percentage(g.Count, total),
			})
		}
		sort.SliceStable(answers, func(i, j int) bool {
			if answers[i].Count != answers[j].Count {
				return answers[i].Count > answers[j].Count
			}
			return answers[i].Value < answers[j].Value
		})
		results.Questions = append(results.Questions, dto.QuestionStatsDTO{
			QuestionID:     q.ID,
			QuestionText:   q.QuestionText,
			QuestionType:   string(q.QuestionType.Normalize()),
			TotalResponses: total,
			Answers:        answers,
		})
	}
	return results
}
