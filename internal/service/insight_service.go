package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/lshigami/fieldsurvey/internal/repository"
	"github.com/rs/zerolog/log"
)

const insightSampleLimit = 200

type InsightService interface {
	// SummarizeQuestion groups the free-text answers of a question into themes.
	SummarizeQuestion(ctx context.Context, surveyID, questionID string) (*dto.InsightDTO, error)
}

type insightService struct {
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	generator    TextGenerator
	now          func() time.Time
}

// NewInsightService accepts a nil generator; summaries then fail with ErrUnavailable.
func NewInsightService(
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	generator TextGenerator,
) InsightService {
	return &insightService{
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		generator:    generator,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *insightService) SummarizeQuestion(ctx context.Context, surveyID, questionID string) (*dto.InsightDTO, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", questionID, err)
	}
	if question.SurveyID != surveyID {
		return nil, fmt.Errorf("question %s in survey %s: %w", questionID, surveyID, apperror.ErrNotFound)
	}

	var column repository.TextColumn
	switch {
	case question.QuestionType.Normalize() == model.QuestionFreeText:
		column = repository.AnswerValueColumn
	case question.QuestionType.AllowsOther():
		column = repository.AnswerTextColumn
	default:
		return nil, apperror.NewValidationError("question has no free-text answers", "question_id")
	}

	texts, err := s.responseRepo.FindAnswerTexts(ctx, questionID, column, insightSampleLimit)
	if err != nil {
		return nil, fmt.Errorf("error reading answers: %w", err)
	}

	insight := &dto.InsightDTO{
		SurveyID:    surveyID,
		QuestionID:  questionID,
		SampleSize:  len(texts),
		GeneratedAt: s.now(),
	}
	if len(texts) == 0 {
		insight.Summary = "No free-text answers yet."
		return insight, nil
	}
	if s.generator == nil {
		return nil, fmt.Errorf("answer insights: %w", apperror.ErrUnavailable)
	}

	summary, err := s.generator.GenerateText(ctx, insightPrompt(question.QuestionText, texts))
	if err != nil {
		log.Error().Err(err).Str("questionID", questionID).Msg("Failed to summarize answers")
		return nil, fmt.Errorf("answer insights: %w", errors.Join(apperror.ErrUnavailable, err))
	}
	insight.Summary = summary
	return insight, nil
}

func insightPrompt(questionText string, answers []string) string {
	var sb strings.Builder
	sb.WriteString("You are analysing open-ended survey answers for a field campaign.\n")
	sb.WriteString("Question: ")
	sb.WriteString(questionText)
	sb.WriteString("\n\nAnswers:\n")
	for _, a := range answers {
		sb.WriteString("- ")
		sb.WriteString(strings.ReplaceAll(strings.TrimSpace(a), "\n", " "))
		sb.WriteString("\n")
	}
	sb.WriteString("\nGroup the answers into at most five themes. For each theme give a short name, ")
	sb.WriteString("the approximate number of answers, and one representative quote. Reply in plain text.")
	return sb.String()
}
