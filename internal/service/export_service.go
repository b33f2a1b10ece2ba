package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/repository"
	"github.com/rs/zerolog/log"
)

var csvHeader = []string{
	"Contact ID", "Question", "Answer", "Other Text", "Original Position",
	"Answered At", "Started At", "Completed At", "Status",
}

type CSVExport struct {
	Filename string
	Content  []byte
}

type ExportService interface {
	ExportCSV(ctx context.Context, surveyID string) (*CSVExport, error)
	ExportJSON(ctx context.Context, surveyID string) (*dto.SurveyExportDTO, error)
}

type exportService struct {
	surveyRepo   repository.SurveyRepository
	sessionRepo  repository.SessionRepository
	responseRepo repository.ResponseRepository
	now          func() time.Time
}

func NewExportService(
	surveyRepo repository.SurveyRepository,
	sessionRepo repository.SessionRepository,
	responseRepo repository.ResponseRepository,
) ExportService {
	return &exportService{
		surveyRepo:   surveyRepo,
		sessionRepo:  sessionRepo,
		responseRepo: responseRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func (s *exportService) ExportCSV(ctx context.Context, surveyID string) (*CSVExport, error) {
	if _, err := s.surveyRepo.FindByID(ctx, surveyID); err != nil {
		return nil, fmt.Errorf("survey %s: %w", surveyID, err)
	}
	rows, err := s.responseRepo.FindExportRows(ctx, surveyID)
	if err != nil {
		log.Error().Err(err).Str("surveyID", surveyID).Msg("Failed to read export rows")
		return nil, fmt.Errorf("error reading responses: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		otherText := ""
		if r.AnswerText != nil {
			otherText = *r.AnswerText
		}
		position := ""
		if r.OriginalPosition != nil {
			position = strconv.Itoa(*r.OriginalPosition)
		}
		status := "Partial"
		if r.CompletedAt != nil {
			status = "Complete"
		}
		answeredAt := r.AnsweredAt
		record := []string{
			r.RespondentID,
			r.QuestionText,
			r.AnswerValue,
			otherText,
			position,
			formatTime(&answeredAt),
			formatTime(r.StartedAt),
			formatTime(r.CompletedAt),
			status,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("error writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error writing csv: %w", err)
	}

	return &CSVExport{
		Filename: fmt.Sprintf("survey-%s-%d.csv", surveyID, s.now().UnixMilli()),
		Content:  buf.Bytes(),
	}, nil
}

func (s *exportService) ExportJSON(ctx context.Context, surveyID string) (*dto.SurveyExportDTO, error) {
	survey, err := s.surveyRepo.FindByIDWithQuestions(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("survey %s: %w", surveyID, err)
	}
	sessions, err := s.sessionRepo.FindBySurveyID(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error reading sessions: %w", err)
	}
	rows, err := s.responseRepo.FindExportRows(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error reading responses: %w", err)
	}

	completed := 0
	for _, sess := range sessions {
		if sess.CompletedAt != nil {
			completed++
		}
	}

	export := &dto.SurveyExportDTO{
		ExportMetadata: dto.ExportMetadataDTO{
			SurveyID:           survey.ID,
			SurveyTitle:        survey.Title,
			SurveyDescription:  survey.Description,
			SurveyCreatedAt:    survey.CreatedAt,
			ExportedAt:         s.now(),
			TotalContacts:      len(sessions),
			CompletedResponses: completed,
			PartialResponses:   len(sessions) - completed,
		},
		Questions: make([]dto.ExportQuestionDTO, 0, len(survey.Questions)),
		Responses: []dto.ExportContactDTO{},
	}

	for i := range survey.Questions {
		q := &survey.Questions[i]
		// non-choice questions carry no options
		var opts []string
		if q.QuestionType.IsChoice() {
			var err error
			if opts, err = q.OptionList(); err != nil {
				return nil, err
			}
		}
		export.Questions = append(export.Questions, dto.ExportQuestionDTO{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: string(q.QuestionType.Normalize()),
			Options:      opts,
			OrderIndex:   q.OrderIndex,
		})
	}

	// rows arrive grouped by respondent
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.RespondentID]
		if !ok {
			i = len(export.Responses)
			index[r.RespondentID] = i
			export.Responses = append(export.Responses, dto.ExportContactDTO{
				ContactID:   r.RespondentID,
				StartedAt:   r.StartedAt,
				CompletedAt: r.CompletedAt,
				IsComplete:  r.CompletedAt != nil,
				Responses:   []dto.ExportAnswerDTO{},
			})
		}
		export.Responses[i].Responses = append(export.Responses[i].Responses, dto.ExportAnswerDTO{
			QuestionID:       r.QuestionID,
			QuestionText:     r.QuestionText,
			QuestionOrder:    r.OrderIndex,
			AnswerValue:      r.AnswerValue,
			AnswerText:       r.AnswerText,
			OriginalPosition: r.OriginalPosition,
			AnsweredAt:       r.AnsweredAt,
		})
	}
	return export, nil
}
