package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExportFixture(t *testing.T) (*exportService, *memStore) {
	t.Helper()
	store := newMemStore(pollSurvey())
	surveys, _, responses, sessions := store.repos()
	svc := NewExportService(surveys, sessions, responses).(*exportService)
	svc.now = fixedClock(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC))
	return svc, store
}

func TestExportCSVQuotesSpecialCharacters(t *testing.T) {
	svc, store := newExportFixture(t)
	at := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	_, _, responses, _ := store.repos()
	require.NoError(t, responses.Upsert(context.Background(), &model.Response{
		RespondentID: "c1", SurveyID: "poll", QuestionID: "q-chair",
		AnswerValue: model.OtherValue, AnswerText: strPtr(`Smith, "the best"`), OriginalPosition: intPtr(4),
	}, at))

	export, err := svc.ExportCSV(context.Background(), "poll")
	require.NoError(t, err)
	assert.Equal(t, "survey-poll-1746144000000.csv", export.Filename)

	content := string(export.Content)
	assert.True(t, strings.HasPrefix(content, "Contact ID,Question,Answer,Other Text,Original Position,Answered At,Started At,Completed At,Status\n"))
	assert.Contains(t, content, `"Smith, ""the best"""`)

	records, err := csv.NewReader(bytes.NewReader(export.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"c1", "Who would you vote for?", "other", `Smith, "the best"`, "4",
		"2025-05-01T09:30:00Z", "2025-05-01T09:30:00Z", "", "Partial",
	}, records[1])
}

func TestExportCSVOrdersByRespondentThenQuestion(t *testing.T) {
	svc, store := newExportFixture(t)
	at := time.Now()
	answer(t, store, "b", "q-chair", "Rob", at)
	answer(t, store, "a", "q-notes", "hi", at)
	answer(t, store, "a", "q-yes", "Yes", at)
	done := at.Add(time.Minute)
	store.sessions[key{"a", "poll"}].CompletedAt = &done

	export, err := svc.ExportCSV(context.Background(), "poll")
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(export.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"a", "Yes"}, []string{records[1][0], records[1][2]})
	assert.Equal(t, []string{"a", "hi"}, []string{records[2][0], records[2][2]})
	assert.Equal(t, "Complete", records[2][8])
	assert.Equal(t, []string{"b", "Rob", "Partial"}, []string{records[3][0], records[3][2], records[3][8]})
}

func TestExportWithNoSessions(t *testing.T) {
	svc, _ := newExportFixture(t)
	ctx := context.Background()

	csvExport, err := svc.ExportCSV(ctx, "poll")
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(csvExport.Content)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)

	jsonExport, err := svc.ExportJSON(ctx, "poll")
	require.NoError(t, err)
	assert.Equal(t, 0, jsonExport.ExportMetadata.TotalContacts)
	assert.Equal(t, 0, jsonExport.ExportMetadata.CompletedResponses)
	assert.Equal(t, 0, jsonExport.ExportMetadata.PartialResponses)
	assert.NotNil(t, jsonExport.Responses)
	assert.Empty(t, jsonExport.Responses)
	assert.Len(t, jsonExport.Questions, 5)
}

func TestExportJSONGroupsByContact(t *testing.T) {
	svc, store := newExportFixture(t)
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	answer(t, store, "c1", "q-yes", "Yes", at)
	answer(t, store, "c1", "q-chair", "Rob", at.Add(time.Minute))
	answer(t, store, "c2", "q-yes", "No", at)
	done := at.Add(2 * time.Minute)
	store.sessions[key{"c1", "poll"}].CompletedAt = &done
	store.addSession("c3", "poll", at, nil)

	export, err := svc.ExportJSON(context.Background(), "poll")
	require.NoError(t, err)

	meta := export.ExportMetadata
	assert.Equal(t, "poll", meta.SurveyID)
	assert.Equal(t, "Town poll", meta.SurveyTitle)
	assert.Equal(t, 3, meta.TotalContacts)
	assert.Equal(t, 1, meta.CompletedResponses)
	assert.Equal(t, 2, meta.PartialResponses)
	assert.Equal(t, []string{"Yes", "No"}, export.Questions[0].Options)
	assert.Equal(t, "single_choice_with_other", export.Questions[1].QuestionType)
	assert.Nil(t, export.Questions[3].Options)

	require.Len(t, export.Responses, 2)
	c1 := export.Responses[0]
	assert.Equal(t, "c1", c1.ContactID)
	assert.True(t, c1.IsComplete)
	require.Len(t, c1.Responses, 2)
	assert.Equal(t, dto.ExportAnswerDTO{
		QuestionID: "q-yes", QuestionText: "Do you support the measure?", QuestionOrder: 1,
		AnswerValue: "Yes", AnsweredAt: at,
	}, c1.Responses[0])
	assert.False(t, export.Responses[1].IsComplete)
}

func TestExportJSONOptionsAreNullForNonChoiceQuestions(t *testing.T) {
	svc, _ := newExportFixture(t)

	export, err := svc.ExportJSON(context.Background(), "poll")
	require.NoError(t, err)
	raw, err := json.Marshal(export.Questions)
	require.NoError(t, err)

	var questions []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &questions))
	require.Len(t, questions, 5)
	assert.JSONEq(t, `["Yes","No"]`, string(questions[0]["options"]))
	assert.Equal(t, "null", string(questions[3]["options"]), "contact verification")
	assert.Equal(t, "null", string(questions[4]["options"]), "free text")
}

func TestExportUnknownSurvey(t *testing.T) {
	svc, _ := newExportFixture(t)
	_, err := svc.ExportCSV(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.ExportJSON(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
