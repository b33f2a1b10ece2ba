package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/lshigami/fieldsurvey/internal/repository"
	"gorm.io/datatypes"
)

type key struct{ a, b string }

// memStore is an in-memory stand-in for the four survey tables.
type memStore struct {
	mu        sync.Mutex
	surveys   map[string]*model.Survey
	responses map[key]*model.Response // respondent, question
	sessions  map[key]*model.SurveySession
	nextID    uint
	upsertErr error
}

func newMemStore(surveys ...model.Survey) *memStore {
	s := &memStore{
		surveys:   map[string]*model.Survey{},
		responses: map[key]*model.Response{},
		sessions:  map[key]*model.SurveySession{},
	}
	for i := range surveys {
		sv := surveys[i]
		for j := range sv.Questions {
			sv.Questions[j].SurveyID = sv.ID
		}
		s.surveys[sv.ID] = &sv
	}
	return s
}

func (s *memStore) repos() (repository.SurveyRepository, repository.QuestionRepository, repository.ResponseRepository, repository.SessionRepository) {
	return surveyRepoFake{s}, questionRepoFake{s}, responseRepoFake{s}, sessionRepoFake{s}
}

// addSession inserts a session directly, bypassing the response path.
func (s *memStore) addSession(respondentID, surveyID string, started time.Time, completed *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.sessions[key{respondentID, surveyID}] = &model.SurveySession{
		ID: s.nextID, RespondentID: respondentID, SurveyID: surveyID,
		StartedAt: started, CompletedAt: completed, UpdatedAt: started,
	}
}

type surveyRepoFake struct{ s *memStore }

func (f surveyRepoFake) FindByID(_ context.Context, id string) (*model.Survey, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sv, ok := f.s.surveys[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *sv
	cp.Questions = nil
	return &cp, nil
}

func (f surveyRepoFake) FindByIDWithQuestions(_ context.Context, id string) (*model.Survey, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sv, ok := f.s.surveys[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *sv
	cp.Questions = append([]model.Question(nil), sv.Questions...)
	sort.Slice(cp.Questions, func(i, j int) bool { return cp.Questions[i].OrderIndex < cp.Questions[j].OrderIndex })
	return &cp, nil
}

func (f surveyRepoFake) FindActiveWithQuestions(ctx context.Context, id string) (*model.Survey, error) {
	sv, err := f.FindByIDWithQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sv.Active {
		return nil, apperror.ErrNotFound
	}
	return sv, nil
}

type questionRepoFake struct{ s *memStore }

func (f questionRepoFake) FindByID(_ context.Context, id string) (*model.Question, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, sv := range f.s.surveys {
		for _, q := range sv.Questions {
			if q.ID == id {
				cp := q
				return &cp, nil
			}
		}
	}
	return nil, apperror.ErrNotFound
}

func (f questionRepoFake) FindBySurveyID(ctx context.Context, surveyID string) ([]model.Question, error) {
	sv, err := surveyRepoFake(f).FindByIDWithQuestions(ctx, surveyID)
	if err != nil {
		return []model.Question{}, nil
	}
	return sv.Questions, nil
}

type responseRepoFake struct{ s *memStore }

func (f responseRepoFake) Upsert(_ context.Context, r *model.Response, at time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.upsertErr != nil {
		return f.s.upsertErr
	}
	k := key{r.RespondentID, r.QuestionID}
	if existing, ok := f.s.responses[k]; ok {
		existing.AnswerValue = r.AnswerValue
		existing.AnswerText = r.AnswerText
		existing.OriginalPosition = r.OriginalPosition
		existing.UpdatedAt = at
		r.ID = existing.ID
	} else {
		f.s.nextID++
		cp := *r
		cp.ID = f.s.nextID
		cp.CreatedAt = at
		cp.UpdatedAt = at
		f.s.responses[k] = &cp
		r.ID = cp.ID
	}

	last := r.QuestionID
	sk := key{r.RespondentID, r.SurveyID}
	if sess, ok := f.s.sessions[sk]; ok {
		sess.LastQuestionAnswered = &last
		sess.UpdatedAt = at
	} else {
		f.s.nextID++
		f.s.sessions[sk] = &model.SurveySession{
			ID: f.s.nextID, RespondentID: r.RespondentID, SurveyID: r.SurveyID,
			StartedAt: at, LastQuestionAnswered: &last, UpdatedAt: at,
		}
	}
	return nil
}

func (f responseRepoFake) FindByRespondent(_ context.Context, respondentID, surveyID string) ([]model.Response, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []model.Response{}
	for _, r := range f.s.responses {
		if r.RespondentID == respondentID && r.SurveyID == surveyID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f responseRepoFake) CountAnswers(_ context.Context, surveyID string) ([]repository.AnswerCount, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	type group struct{ q, v, t string }
	counts := map[group]*repository.AnswerCount{}
	var order []group
	for _, r := range f.s.responses {
		if r.SurveyID != surveyID {
			continue
		}
		g := group{q: r.QuestionID, v: r.AnswerValue}
		if r.AnswerText != nil {
			g.t = *r.AnswerText
		}
		c, ok := counts[g]
		if !ok {
			c = &repository.AnswerCount{QuestionID: r.QuestionID, AnswerValue: r.AnswerValue, AnswerText: r.AnswerText}
			counts[g] = c
			order = append(order, g)
		}
		c.Count++
	}
	out := []repository.AnswerCount{}
	for _, g := range order {
		out = append(out, *counts[g])
	}
	return out, nil
}

func (f responseRepoFake) FindExportRows(_ context.Context, surveyID string) ([]repository.ExportRow, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sv := f.s.surveys[surveyID]
	questions := map[string]model.Question{}
	if sv != nil {
		for _, q := range sv.Questions {
			questions[q.ID] = q
		}
	}
	rows := []repository.ExportRow{}
	for _, r := range f.s.responses {
		if r.SurveyID != surveyID {
			continue
		}
		q := questions[r.QuestionID]
		row := repository.ExportRow{
			RespondentID:     r.RespondentID,
			QuestionID:       r.QuestionID,
			QuestionText:     q.QuestionText,
			OrderIndex:       q.OrderIndex,
			AnswerValue:      r.AnswerValue,
			AnswerText:       r.AnswerText,
			OriginalPosition: r.OriginalPosition,
			AnsweredAt:       r.UpdatedAt,
		}
		if sess, ok := f.s.sessions[key{r.RespondentID, surveyID}]; ok {
			started := sess.StartedAt
			row.StartedAt = &started
			row.CompletedAt = sess.CompletedAt
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RespondentID != rows[j].RespondentID {
			return rows[i].RespondentID < rows[j].RespondentID
		}
		return rows[i].OrderIndex < rows[j].OrderIndex
	})
	return rows, nil
}

func (f responseRepoFake) FindAnswerTexts(_ context.Context, questionID string, column repository.TextColumn, limit int) ([]string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var matched []*model.Response
	for _, r := range f.s.responses {
		if r.QuestionID == questionID {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	out := []string{}
	for _, r := range matched {
		text := ""
		if column == repository.AnswerValueColumn {
			text = r.AnswerValue
		} else if r.AnswerText != nil {
			text = *r.AnswerText
		}
		if text != "" && len(out) < limit {
			out = append(out, text)
		}
	}
	return out, nil
}

type sessionRepoFake struct{ s *memStore }

func (f sessionRepoFake) Find(_ context.Context, respondentID, surveyID string) (*model.SurveySession, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sess, ok := f.s.sessions[key{respondentID, surveyID}]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (f sessionRepoFake) FindBySurveyID(_ context.Context, surveyID string) ([]model.SurveySession, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []model.SurveySession{}
	for _, sess := range f.s.sessions {
		if sess.SurveyID == surveyID {
			out = append(out, *sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RespondentID < out[j].RespondentID })
	return out, nil
}

func (f sessionRepoFake) Complete(_ context.Context, respondentID, surveyID string, at time.Time) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sess, ok := f.s.sessions[key{respondentID, surveyID}]
	if !ok || sess.CompletedAt != nil {
		return false, nil
	}
	sess.CompletedAt = &at
	sess.UpdatedAt = at
	return true, nil
}

func (f sessionRepoFake) Stats(_ context.Context, surveyID string) (repository.SessionStats, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var stats repository.SessionStats
	for _, sess := range f.s.sessions {
		if sess.SurveyID != surveyID {
			continue
		}
		stats.Started++
		if sess.CompletedAt != nil {
			stats.Completed++
		}
	}
	return stats, nil
}

func options(labels ...string) datatypes.JSON {
	out := "["
	for i, l := range labels {
		if i > 0 {
			out += ","
		}
		out += `"` + l + `"`
	}
	return datatypes.JSON(out + "]")
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// pollSurvey is a small survey covering every question type.
func pollSurvey() model.Survey {
	return model.Survey{
		ID:     "poll",
		Title:  "Town poll",
		Active: true,
		Questions: []model.Question{
			{ID: "q-yes", QuestionText: "Do you support the measure?", QuestionType: model.QuestionSingleChoice, Options: options("Yes", "No"), Required: true, OrderIndex: 1, FixedOrder: true},
			{ID: "q-chair", QuestionText: "Who would you vote for?", QuestionType: "multiple_choice_with_other", Options: options("Evan", "Rob", "Wes", "Jim"), Required: true, OrderIndex: 2},
			{ID: "q-issues", QuestionText: "Top issues?", QuestionType: model.QuestionMultiSelectWithOther, Options: options("Taxes", "Housing", "Schools", "Safety", "Roads"), Required: true, OrderIndex: 3},
			{ID: "q-contact", QuestionText: "Is your info correct?", QuestionType: model.QuestionContactVerification, Required: true, OrderIndex: 4},
			{ID: "q-notes", QuestionText: "Anything else?", QuestionType: model.QuestionFreeText, Required: false, OrderIndex: 5},
		},
	}
}
