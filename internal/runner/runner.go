// Package runner drives one respondent through a survey: it renders each
// question as an interactive component, writes answers in the background and
// completes the session at the end.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/client"
	"github.com/lshigami/fieldsurvey/internal/crm"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/rs/zerolog/log"
)

var (
	ErrAccessDenied     = errors.New("access denied: respondent id is required")
	ErrAnswerRequired   = errors.New("an answer is required to continue")
	ErrSelectionLimit   = errors.New("selection limit reached")
	ErrAlreadyCompleted = apperror.ErrAlreadyCompleted
	ErrUnknownOption    = errors.New("not an option of this question")
	ErrWrongQuestion    = errors.New("operation does not apply to the current question")
	ErrFirstQuestion    = errors.New("already at the first question")
	ErrLastQuestion     = errors.New("already at the last question")
	ErrNotLastQuestion  = errors.New("submit is only allowed on the last question")
	ErrNotActive        = errors.New("survey is not active")
	ErrUnsavedAnswers   = errors.New("some answers could not be saved")
)

type State int

const (
	StateLoading State = iota
	StateActive
	StateFailed
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	case StateSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Backend is the survey API as seen by a runner.
type Backend interface {
	GetSurvey(ctx context.Context, surveyID string) (*dto.SurveyDTO, error)
	SaveResponse(ctx context.Context, req dto.UpsertResponseRequest) error
	CompleteSession(ctx context.Context, req dto.CompleteSessionRequest) error
}

// ProgressSource reports what a respondent already answered.
type ProgressSource interface {
	GetProgress(ctx context.Context, respondentID, surveyID string) (*dto.ProgressDTO, error)
}

type Option func(*Runner)

// WithProgress resumes an interrupted survey from the stored answers.
func WithProgress(p ProgressSource) Option {
	return func(r *Runner) { r.progress = p }
}

// WithContacts prefills contact verification questions from the CRM.
func WithContacts(l crm.Lookup) Option {
	return func(r *Runner) { r.contacts = l }
}

// WithRandomize turns option shuffling on or off. It is on by default.
func WithRandomize(randomize bool) Option {
	return func(r *Runner) { r.randomize = randomize }
}

// WithMultiSelectMax sets the selection cap for questions that carry none.
func WithMultiSelectMax(n int) Option {
	return func(r *Runner) { r.defaultMax = n }
}

// WithErrorHandler is called from the write worker for every failed write.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Runner) { r.onError = fn }
}

// WithWriteTimeout bounds each background write.
func WithWriteTimeout(d time.Duration) Option {
	return func(r *Runner) { r.writeTimeout = d }
}

type job struct {
	req  *dto.UpsertResponseRequest
	done chan struct{}
}

// failedWrite is the latest write of a question that the backend did not take.
type failedWrite struct {
	req *dto.UpsertResponseRequest
	err error
}

// Runner is driven from a single goroutine; only the write worker runs beside it.
type Runner struct {
	backend      Backend
	progress     ProgressSource
	contacts     crm.Lookup
	respondentID string
	surveyID     string
	randomize    bool
	defaultMax   int
	writeTimeout time.Duration
	onError      func(error)

	state      State
	survey     *dto.SurveyDTO
	components []Component
	answered   map[string]bool
	current    int

	queue    chan job
	workerWG sync.WaitGroup

	errMu   sync.Mutex
	lastErr error
	failed  map[string]failedWrite
}

func New(backend Backend, respondentID, surveyID string, opts ...Option) (*Runner, error) {
	respondentID = strings.TrimSpace(respondentID)
	if respondentID == "" {
		return nil, ErrAccessDenied
	}
	r := &Runner{
		backend:      backend,
		respondentID: respondentID,
		surveyID:     surveyID,
		randomize:    true,
		defaultMax:   3,
		writeTimeout: 10 * time.Second,
		answered:     map[string]bool{},
		failed:       map[string]failedWrite{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start loads the survey and, when a progress source is set, resumes at the
// first unanswered question. A load failure leaves the runner Failed.
func (r *Runner) Start(ctx context.Context) error {
	if r.state != StateLoading {
		return fmt.Errorf("runner already started (%s)", r.state)
	}

	survey, err := r.backend.GetSurvey(ctx, r.surveyID)
	if err != nil {
		r.fail(err)
		return fmt.Errorf("failed to load survey %s: %w", r.surveyID, err)
	}
	r.survey = survey

	questions := append([]dto.QuestionDTO(nil), survey.Questions...)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].OrderIndex < questions[j].OrderIndex })
	r.components = make([]Component, 0, len(questions))
	for _, q := range questions {
		r.components = append(r.components, newComponent(q, r.randomize, r.defaultMax))
	}
	if len(r.components) == 0 {
		err := fmt.Errorf("survey %s has no questions: %w", r.surveyID, apperror.ErrNotFound)
		r.fail(err)
		return err
	}

	r.prefillContacts(ctx)
	if err := r.resume(ctx); err != nil {
		return err
	}

	r.queue = make(chan job, 64)
	r.workerWG.Add(1)
	go r.worker()
	r.state = StateActive
	return nil
}

func (r *Runner) fail(err error) {
	r.state = StateFailed
	r.setErr(err)
}

func (r *Runner) prefillContacts(ctx context.Context) {
	if r.contacts == nil {
		return
	}
	var contact *crm.Contact
	for _, c := range r.components {
		cv, ok := c.(*ContactVerification)
		if !ok {
			continue
		}
		if contact == nil {
			found, err := r.contacts.FindContact(ctx, r.respondentID)
			if err != nil {
				log.Warn().Err(err).Str("respondentID", r.respondentID).Msg("Contact prefill unavailable")
				return
			}
			contact = found
		}
		cv.Contact = contact.Prefill()
	}
}

func (r *Runner) resume(ctx context.Context) error {
	if r.progress == nil {
		return nil
	}
	progress, err := r.progress.GetProgress(ctx, r.respondentID, r.surveyID)
	if err != nil {
		log.Warn().Err(err).Str("surveyID", r.surveyID).Msg("Could not load progress, starting fresh")
		return nil
	}
	if progress.Status == string(model.SessionCompleted) {
		r.state = StateSubmitted
		return ErrAlreadyCompleted
	}

	byID := make(map[string]Component, len(r.components))
	for _, c := range r.components {
		byID[c.Base().ID] = c
	}
	for _, a := range progress.Answers {
		c, ok := byID[a.QuestionID]
		if !ok || !restore(c, a) {
			continue
		}
		r.answered[a.QuestionID] = true
	}

	r.current = len(r.components) - 1
	for i, c := range r.components {
		if !r.answered[c.Base().ID] {
			r.current = i
			break
		}
	}
	return nil
}

func (r *Runner) State() State            { return r.state }
func (r *Runner) Survey() *dto.SurveyDTO  { return r.survey }
func (r *Runner) Current() Component      { return r.components[r.current] }
func (r *Runner) Components() []Component { return r.components }
func (r *Runner) IsLast() bool            { return r.current == len(r.components)-1 }
func (r *Runner) Answered(id string) bool { return r.answered[id] }
func (r *Runner) RespondentID() string    { return r.respondentID }

// Progress returns the 1-based question number, the question count and the
// percentage of the survey reached.
func (r *Runner) Progress() (current, total int, percent float64) {
	total = len(r.components)
	if total == 0 {
		return 0, 0, 0
	}
	current = r.current + 1
	return current, total, float64(current) / float64(total) * 100
}

// Err returns the most recent write or load error.
func (r *Runner) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.lastErr
}

func (r *Runner) setErr(err error) {
	r.errMu.Lock()
	r.lastErr = err
	r.errMu.Unlock()
}

func (r *Runner) active() error {
	switch r.state {
	case StateActive:
		return nil
	case StateSubmitted:
		return ErrAlreadyCompleted
	}
	return ErrNotActive
}

// Select picks label on the current single-choice question. Picking "other"
// writes nothing until its text is filled in.
func (r *Runner) Select(label string) error {
	if err := r.active(); err != nil {
		return err
	}
	sc, ok := r.Current().(*SingleChoice)
	if !ok {
		return ErrWrongQuestion
	}
	pos, ok := sc.Position(label)
	if !ok {
		return ErrUnknownOption
	}
	sc.Selected = label
	if label == model.OtherValue {
		if blank(sc.OtherText) {
			return nil
		}
		r.write(sc.ID, label, &sc.OtherText, &pos)
		return nil
	}
	sc.OtherText = ""
	r.write(sc.ID, label, nil, &pos)
	return nil
}

// SetOtherText sets the "other" text of the current question and writes the
// answer once "other" is selected and the text is not blank.
func (r *Runner) SetOtherText(text string) error {
	if err := r.active(); err != nil {
		return err
	}
	switch c := r.Current().(type) {
	case *SingleChoice:
		if !c.AllowsOther {
			return ErrWrongQuestion
		}
		c.OtherText = text
		if c.Selected == model.OtherValue && !blank(text) {
			pos, _ := c.Position(model.OtherValue)
			r.write(c.ID, model.OtherValue, &c.OtherText, &pos)
		}
	case *MultiSelect:
		if !c.AllowsOther {
			return ErrWrongQuestion
		}
		c.OtherText = text
		if c.IsSelected(model.OtherValue) && !blank(text) {
			r.writeSelection(c)
		}
	default:
		return ErrWrongQuestion
	}
	return nil
}

// Toggle flips label on the current multi-select question and writes the
// whole selection.
func (r *Runner) Toggle(label string) error {
	if err := r.active(); err != nil {
		return err
	}
	ms, ok := r.Current().(*MultiSelect)
	if !ok {
		return ErrWrongQuestion
	}
	if _, ok := ms.Position(label); !ok {
		return ErrUnknownOption
	}

	if ms.IsSelected(label) {
		kept := ms.Selected[:0]
		for _, s := range ms.Selected {
			if s != label {
				kept = append(kept, s)
			}
		}
		ms.Selected = kept
		if label == model.OtherValue {
			ms.OtherText = ""
		}
	} else {
		if len(ms.Selected) >= ms.Max {
			return ErrSelectionLimit
		}
		ms.Selected = append(ms.Selected, label)
	}

	if ms.IsSelected(model.OtherValue) && blank(ms.OtherText) {
		return nil
	}
	r.writeSelection(ms)
	return nil
}

// writeSelection writes the whole selection. A cleared selection is written
// as an empty array so the stored row does not keep the old choices.
func (r *Runner) writeSelection(ms *MultiSelect) {
	if len(ms.Selected) == 0 {
		r.write(ms.ID, model.EmptySelection, nil, nil)
		delete(r.answered, ms.ID)
		return
	}
	raw, _ := json.Marshal(ms.Selected)
	pos, _ := ms.Position(ms.Selected[0])
	var text *string
	if ms.IsSelected(model.OtherValue) {
		t := ms.OtherText
		text = &t
	}
	r.write(ms.ID, string(raw), text, &pos)
}

// VerifyContact stores the respondent's confirmation of their contact details.
func (r *Runner) VerifyContact(contact model.ContactVerification) error {
	if err := r.active(); err != nil {
		return err
	}
	cv, ok := r.Current().(*ContactVerification)
	if !ok {
		return ErrWrongQuestion
	}
	raw, err := json.Marshal(contact)
	if err != nil {
		return err
	}
	cv.Contact = contact
	r.write(cv.ID, string(raw), nil, nil)
	return nil
}

// SetText answers the current free-text question. Blank text is not written.
func (r *Runner) SetText(text string) error {
	if err := r.active(); err != nil {
		return err
	}
	ft, ok := r.Current().(*FreeText)
	if !ok {
		return ErrWrongQuestion
	}
	ft.Value = text
	if blank(text) {
		return nil
	}
	r.write(ft.ID, text, nil, nil)
	return nil
}

// CanProceed reports whether the current question may be left.
func (r *Runner) CanProceed() bool {
	q := r.Current().Base()
	return r.answered[q.ID] || !q.Required
}

func (r *Runner) Next() error {
	if err := r.active(); err != nil {
		return err
	}
	if r.IsLast() {
		return ErrLastQuestion
	}
	if !r.CanProceed() {
		return ErrAnswerRequired
	}
	r.current++
	return nil
}

func (r *Runner) Back() error {
	if err := r.active(); err != nil {
		return err
	}
	if r.current == 0 {
		return ErrFirstQuestion
	}
	r.current--
	return nil
}

// Submit flushes pending writes and completes the session. It fails with
// ErrUnsavedAnswers while any answer is not stored. On failure the runner
// stays active so Submit can be retried.
func (r *Runner) Submit(ctx context.Context) error {
	if err := r.active(); err != nil {
		return err
	}
	if !r.IsLast() {
		return ErrNotLastQuestion
	}
	if !r.CanProceed() {
		return ErrAnswerRequired
	}
	if err := r.Flush(ctx); err != nil {
		return err
	}

	err := r.backend.CompleteSession(ctx, dto.CompleteSessionRequest{RespondentID: r.respondentID, SurveyID: r.surveyID})
	if errors.Is(err, apperror.ErrAlreadyCompleted) {
		r.state = StateSubmitted
		return ErrAlreadyCompleted
	}
	if err != nil {
		return fmt.Errorf("failed to complete survey: %w", err)
	}
	r.state = StateSubmitted
	return nil
}

// write records the answer locally and queues it for the worker.
func (r *Runner) write(questionID, value string, text *string, position *int) {
	r.answered[questionID] = true
	if r.queue == nil {
		return
	}
	req := dto.UpsertResponseRequest{
		RespondentID:     r.respondentID,
		SurveyID:         r.surveyID,
		QuestionID:       questionID,
		AnswerValue:      value,
		OriginalPosition: position,
	}
	if text != nil {
		t := strings.TrimSpace(*text)
		req.AnswerText = &t
	}
	r.queue <- job{req: &req}
}

func (r *Runner) worker() {
	defer r.workerWG.Done()
	for j := range r.queue {
		if j.done != nil {
			close(j.done)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
		err := r.backend.SaveResponse(ctx, *j.req)
		cancel()
		r.errMu.Lock()
		if err != nil {
			r.failed[j.req.QuestionID] = failedWrite{req: j.req, err: err}
			r.lastErr = err
		} else {
			delete(r.failed, j.req.QuestionID)
		}
		r.errMu.Unlock()
		if err != nil {
			log.Error().Err(err).
				Str("surveyID", j.req.SurveyID).
				Str("questionID", j.req.QuestionID).
				Msg("Failed to save response")
			if r.onError != nil {
				r.onError(err)
			}
		}
	}
}

// Unsaved returns the ids of questions whose latest write failed.
func (r *Runner) Unsaved() []string {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	ids := make([]string, 0, len(r.failed))
	for id := range r.failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Flush waits until every queued write has been attempted, then sends failed
// writes once more when the failure was transient. Answers still not stored
// afterwards are reported as ErrUnsavedAnswers.
func (r *Runner) Flush(ctx context.Context) error {
	if r.queue == nil {
		return nil
	}
	if err := r.barrier(ctx); err != nil {
		return err
	}

	r.errMu.Lock()
	var retry []*dto.UpsertResponseRequest
	for _, f := range r.failed {
		if client.IsRetryable(f.err) {
			retry = append(retry, f.req)
		}
	}
	r.errMu.Unlock()
	sort.Slice(retry, func(i, j int) bool { return retry[i].QuestionID < retry[j].QuestionID })

	for _, req := range retry {
		log.Info().Str("questionID", req.QuestionID).Msg("Retrying failed response")
		select {
		case r.queue <- job{req: req}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if len(retry) > 0 {
		if err := r.barrier(ctx); err != nil {
			return err
		}
	}

	r.errMu.Lock()
	defer r.errMu.Unlock()
	if len(r.failed) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.failed))
	for id := range r.failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	last := r.failed[ids[len(ids)-1]].err
	return fmt.Errorf("%w (%s): %w", ErrUnsavedAnswers, strings.Join(ids, ", "), last)
}

func (r *Runner) barrier(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case r.queue <- job{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the write queue and stops the worker.
func (r *Runner) Close() {
	if r.queue == nil {
		return
	}
	close(r.queue)
	r.workerWG.Wait()
	r.queue = nil
}
