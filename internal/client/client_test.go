package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

const api = "http://survey.test/api/v1"

func TestGetSurvey(t *testing.T) {
	defer gock.Off()
	gock.New("http://survey.test").
		Get("/api/v1/surveys/lnc-chair-2025").
		Reply(200).
		JSON(dto.SurveyDTO{ID: "lnc-chair-2025", Title: "LNC Chair Race Poll", Active: true, Questions: []dto.QuestionDTO{
			{ID: "lnc-chair-q1", QuestionType: "single_choice_with_other", Options: []string{"A", "B"}, Required: true, OrderIndex: 1},
		}})

	survey, err := New(api, time.Second).GetSurvey(context.Background(), "lnc-chair-2025")
	require.NoError(t, err)
	assert.Equal(t, "LNC Chair Race Poll", survey.Title)
	require.Len(t, survey.Questions, 1)
	assert.Equal(t, []string{"A", "B"}, survey.Questions[0].Options)
	assert.True(t, gock.IsDone())
}

func TestGetProgressEscapesRespondent(t *testing.T) {
	defer gock.Off()
	gock.New("http://survey.test").
		Get("/api/v1/surveys/poll/progress").
		MatchParam("respondent_id", "c 1").
		Reply(200).
		JSON(dto.ProgressDTO{RespondentID: "c 1", SurveyID: "poll", Status: "in_progress", Answers: []dto.AnswerDTO{}})

	progress, err := New(api, time.Second).GetProgress(context.Background(), "c 1", "poll")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", progress.Status)
	assert.True(t, gock.IsDone())
}

func TestSaveResponseSendsBody(t *testing.T) {
	defer gock.Off()
	gock.New("http://survey.test").
		Post("/api/v1/responses").
		MatchType("json").
		JSON(map[string]any{"respondent_id": "c1", "survey_id": "poll", "question_id": "q-yes", "answer_value": "Yes", "original_position": 0}).
		Reply(200).
		JSON(dto.ResponseSavedDTO{Success: true, QuestionID: "q-yes"})

	pos := 0
	err := New(api, time.Second).SaveResponse(context.Background(), dto.UpsertResponseRequest{
		RespondentID: "c1", SurveyID: "poll", QuestionID: "q-yes", AnswerValue: "Yes", OriginalPosition: &pos,
	})
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestErrorCodesMapToSentinels(t *testing.T) {
	defer gock.Off()
	gock.New("http://survey.test").
		Post("/api/v1/sessions/complete").
		Reply(409).
		JSON(dto.ErrorResponse{Message: "Failed to complete survey", Code: apperror.CodeAlreadyCompleted, Details: []string{"survey already completed"}})
	gock.New("http://survey.test").
		Post("/api/v1/responses").
		Reply(400).
		JSON(dto.ErrorResponse{Message: "missing required fields", Code: apperror.CodeValidation, Details: []string{"answer_value"}})

	c := New(api, time.Second)
	err := c.CompleteSession(context.Background(), dto.CompleteSessionRequest{RespondentID: "c1", SurveyID: "poll"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyCompleted)
	assert.False(t, IsRetryable(err))

	err = c.SaveResponse(context.Background(), dto.UpsertResponseRequest{RespondentID: "c1"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"answer_value"}, apiErr.Details)
}

func TestPlainNotFoundAndServerErrors(t *testing.T) {
	defer gock.Off()
	gock.New("http://survey.test").
		Get("/api/v1/surveys/gone").
		Reply(404).
		BodyString("404 page not found")
	gock.New("http://survey.test").
		Get("/api/v1/surveys/broken").
		Reply(500).
		JSON(dto.ErrorResponse{Message: "Survey not found", Code: apperror.CodeInternal})

	c := New(api, time.Second)
	_, err := c.GetSurvey(context.Background(), "gone")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = c.GetSurvey(context.Background(), "broken")
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}
