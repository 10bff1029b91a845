// Package interview drives a fixed-length mock interview session: it sends each
// answer through grammar correction, asks the oracle for feedback and the next
// question, and falls back to static content whenever the oracle cannot help.
package interview

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Options carries the collaborators of an Orchestrator. Zero values are replaced
// with defaults: no oracle, a no-op logger, a time-seeded random source.
type Options struct {
	Oracle   Oracle
	Logger   *zap.Logger
	Rand     Rand
	Recorder Recorder
	Now      func() time.Time
}

// View is what the presentation layer renders for the current slot.
type View struct {
	ID              string
	CurrentQuestion string
	CurrentAnswer   string
	CurrentFeedback string
	QuestionNumber  int
	TotalQuestions  int
	Busy            bool
	Completed       bool
}

// Orchestrator holds the state of one interview session.
type Orchestrator struct {
	id     string
	oracle Oracle
	log    *zap.Logger
	rnd    Rand
	rec    Recorder
	now    func() time.Time

	busy atomic.Bool

	mu        sync.RWMutex
	questions slots
	answers   slots
	feedback  slots
	current   int
	profile   string
	asked     []string
	completed bool
	createdAt time.Time
	updatedAt time.Time

	reqMu     sync.Mutex
	reqSeq    uint64
	reqCancel context.CancelFunc
	subCancel context.CancelFunc
}

// New starts a fresh session with the opening question in slot 0.
func New(id string, opts Options) *Orchestrator {
	o := newOrchestrator(id, opts)
	_ = o.questions.set(0, 0, OpeningQuestion)
	o.asked = []string{OpeningQuestion}
	o.createdAt = o.now()
	o.updatedAt = o.createdAt
	return o
}

func newOrchestrator(id string, opts Options) *Orchestrator {
	o := &Orchestrator{
		id:        id,
		oracle:    opts.Oracle,
		log:       opts.Logger,
		rnd:       opts.Rand,
		rec:       opts.Recorder,
		now:       opts.Now,
		questions: newSlots(TotalQuestions),
		answers:   newSlots(TotalQuestions),
		feedback:  newSlots(TotalQuestions),
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.rnd == nil {
		o.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.rec == nil {
		o.rec = nopRecorder{}
	}
	if o.now == nil {
		o.now = time.Now
	}
	o.log = o.log.With(zap.String("session_id", id))
	return o
}

// SubmitAnswer processes an answer for the current slot. On success the answer,
// its feedback and (unless this is the last slot) the next question are
// committed together. ErrCancelled and every other error leave the session untouched.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, raw string) (err error) {
	if o.busy.Load() {
		return ErrBusy
	}
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyAnswer
	}
	if !o.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer o.busy.Store(false)

	subCtx, done := o.beginSubmission(ctx)
	defer done()

	defer func() {
		if r := recover(); r != nil {
			o.log.Error("submit_answer: recovered panic", zap.Any("panic", r), zap.Stack("stack"))
			err = ErrInternal
		}
	}()

	o.mu.RLock()
	index := o.current
	question, _ := o.questions.get(index)
	profile := o.profile
	asked := append([]string(nil), o.asked...)
	o.mu.RUnlock()

	o.log.Debug("submit_answer: processing",
		zap.Int("index", index),
		zap.Int("answer_len", len(raw)),
	)

	corrected, err := o.correctGrammar(subCtx, raw)
	if err != nil {
		return err
	}
	if index == 0 {
		profile = corrected
	}

	fb, err := o.generateFeedback(subCtx, corrected, question)
	if err != nil {
		return err
	}

	next := ""
	hasNext := index < TotalQuestions-1
	if hasNext {
		next, err = o.nextQuestion(subCtx, index, profile, asked)
		if err != nil {
			return err
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if subCtx.Err() != nil {
		return ErrCancelled
	}
	// the session moved on while the oracle was answering
	if o.current != index {
		o.log.Info("submit_answer: slot changed before commit, dropping result",
			zap.Int("index", index),
			zap.Int("current", o.current),
		)
		return ErrCancelled
	}

	questions := o.questions.clone()
	answers := o.answers.clone()
	feedback := o.feedback.clone()
	if err := answers.set(index, index, corrected); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := feedback.set(index, index, fb); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if hasNext {
		if err := questions.set(index+1, index+1, next); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if !slices.Contains(o.asked, next) {
			o.asked = append(o.asked, next)
		}
	}

	o.questions, o.answers, o.feedback = questions, answers, feedback
	if index == 0 {
		o.profile = corrected
	}
	o.updatedAt = o.now()

	o.log.Info("submit_answer: committed",
		zap.Int("index", index),
		zap.Bool("has_next", hasNext),
	)
	return nil
}

// Advance moves to the next slot. On the last slot it marks the session
// completed and returns ErrSessionComplete without moving.
func (o *Orchestrator) Advance() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy.Load() {
		return ErrBusy
	}

	if _, ok := o.feedback.get(o.current); !ok {
		return ErrNoFeedbackYet
	}
	if o.current >= TotalQuestions-1 {
		o.completed = true
		o.updatedAt = o.now()
		return ErrSessionComplete
	}

	next := o.current + 1
	if _, ok := o.questions.get(next); !ok {
		q := FallbackQuestion(o.current)
		if err := o.questions.set(next, next, q); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if !slices.Contains(o.asked, q) {
			o.asked = append(o.asked, q)
		}
	}
	o.current = next
	o.updatedAt = o.now()
	return nil
}

// Cancel aborts the in-flight oracle request and the submission waiting on it.
// It reports whether anything was pending.
func (o *Orchestrator) Cancel() bool {
	o.reqMu.Lock()
	defer o.reqMu.Unlock()

	cancelled := false
	if o.reqCancel != nil {
		o.reqCancel()
		o.reqCancel = nil
		cancelled = true
	}
	if o.subCancel != nil {
		o.subCancel()
		o.subCancel = nil
		cancelled = true
	}
	return cancelled
}

func (o *Orchestrator) beginSubmission(ctx context.Context) (context.Context, func()) {
	subCtx, cancel := context.WithCancel(ctx)
	o.reqMu.Lock()
	o.subCancel = cancel
	o.reqMu.Unlock()

	return subCtx, func() {
		o.reqMu.Lock()
		o.subCancel = nil
		o.reqMu.Unlock()
		cancel()
	}
}

// beginRequest cancels whatever oracle request is still pending and registers a new one.
func (o *Orchestrator) beginRequest(ctx context.Context) (context.Context, func()) {
	o.reqMu.Lock()
	defer o.reqMu.Unlock()

	if o.reqCancel != nil {
		o.reqCancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	o.reqSeq++
	seq := o.reqSeq
	o.reqCancel = cancel

	return reqCtx, func() {
		o.reqMu.Lock()
		if o.reqSeq == seq {
			o.reqCancel = nil
		}
		o.reqMu.Unlock()
		cancel()
	}
}

func (o *Orchestrator) correctGrammar(ctx context.Context, raw string) (string, error) {
	if o.oracle == nil {
		o.rec.OracleCall(CallGrammar, OutcomeDisabled, 0)
		return raw, nil
	}

	reqCtx, finish := o.beginRequest(ctx)
	start := time.Now()
	out, err := o.oracle.CorrectGrammar(reqCtx, raw)
	finish()

	switch {
	case isCancelled(ctx, err):
		o.rec.OracleCall(CallGrammar, OutcomeCancelled, time.Since(start))
		o.log.Debug("correct_grammar: cancelled")
		return "", ErrCancelled
	case err != nil:
		o.rec.OracleCall(CallGrammar, OutcomeFailed, time.Since(start))
		o.rec.Fallback(CallGrammar)
		o.log.Warn("correct_grammar: oracle failed, keeping raw answer", zap.Error(err))
		return raw, nil
	}

	o.rec.OracleCall(CallGrammar, OutcomeOK, time.Since(start))
	out = strings.TrimSpace(out)
	if out == "" {
		o.rec.Fallback(CallGrammar)
		return raw, nil
	}
	return out, nil
}

func (o *Orchestrator) generateFeedback(ctx context.Context, answer, question string) (string, error) {
	if o.oracle == nil {
		o.rec.OracleCall(CallFeedback, OutcomeDisabled, 0)
		o.rec.Fallback(CallFeedback)
		return fallbackFeedback(o.rnd), nil
	}

	reqCtx, finish := o.beginRequest(ctx)
	start := time.Now()
	out, err := o.oracle.GenerateFeedback(reqCtx, answer, question)
	finish()

	if isCancelled(ctx, err) {
		o.rec.OracleCall(CallFeedback, OutcomeCancelled, time.Since(start))
		o.log.Debug("generate_feedback: cancelled")
		return "", ErrCancelled
	}
	out = strings.TrimSpace(out)
	if err == nil && out == "" {
		err = errors.New("empty feedback")
	}
	if err != nil {
		o.rec.OracleCall(CallFeedback, OutcomeFailed, time.Since(start))
		o.rec.Fallback(CallFeedback)
		o.log.Warn("generate_feedback: oracle failed, using template", zap.Error(err))
		return fallbackFeedback(o.rnd), nil
	}

	o.rec.OracleCall(CallFeedback, OutcomeOK, time.Since(start))
	return out, nil
}

func (o *Orchestrator) nextQuestion(ctx context.Context, index int, profile string, asked []string) (string, error) {
	fallback := func(reason string, fields ...zap.Field) (string, error) {
		q := FallbackQuestion(index)
		o.rec.Fallback(CallQuestion)
		o.log.Info("next_question: using fallback bank",
			append([]zap.Field{zap.String("reason", reason), zap.Int("index", index)}, fields...)...,
		)
		return q, nil
	}

	if o.oracle == nil {
		o.rec.OracleCall(CallQuestion, OutcomeDisabled, 0)
		return fallback("oracle disabled")
	}
	if strings.TrimSpace(profile) == "" {
		return fallback("empty candidate profile")
	}

	reqCtx, finish := o.beginRequest(ctx)
	start := time.Now()
	var (
		q   string
		err error
	)
	if index == 0 {
		q, err = o.oracle.GenerateFirstTechnicalQuestion(reqCtx, profile, asked)
	} else {
		q, err = o.oracle.GenerateFollowupQuestion(reqCtx, profile, asked, index+1)
	}
	finish()

	if isCancelled(ctx, err) {
		o.rec.OracleCall(CallQuestion, OutcomeCancelled, time.Since(start))
		o.log.Debug("next_question: cancelled")
		return "", ErrCancelled
	}
	if err == nil && strings.TrimSpace(q) == "" {
		err = errors.New("empty question")
	}
	if err != nil {
		o.rec.OracleCall(CallQuestion, OutcomeFailed, time.Since(start))
		return fallback("oracle failed", zap.Error(err))
	}

	q = withQuestionMark(q)
	if isRepeat(asked, q) {
		o.rec.OracleCall(CallQuestion, OutcomeRejected, time.Since(start))
		return fallback("duplicate question", zap.String("candidate", q))
	}

	o.rec.OracleCall(CallQuestion, OutcomeOK, time.Since(start))
	return q, nil
}

// View returns the presentation state of the current slot.
func (o *Orchestrator) View() View {
	o.mu.RLock()
	defer o.mu.RUnlock()

	q, _ := o.questions.get(o.current)
	a, _ := o.answers.get(o.current)
	f, _ := o.feedback.get(o.current)
	return View{
		ID:              o.id,
		CurrentQuestion: q,
		CurrentAnswer:   a,
		CurrentFeedback: f,
		QuestionNumber:  o.current + 1,
		TotalQuestions:  TotalQuestions,
		Busy:            o.busy.Load(),
		Completed:       o.completed,
	}
}

func (o *Orchestrator) ID() string { return o.id }

func (o *Orchestrator) Busy() bool { return o.busy.Load() }

func (o *Orchestrator) CurrentIndex() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

func (o *Orchestrator) Completed() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.completed
}

func (o *Orchestrator) CandidateProfile() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.profile
}

// AskedQuestions returns every question generated or asked so far, in order.
func (o *Orchestrator) AskedQuestions() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]string(nil), o.asked...)
}

func (o *Orchestrator) AllQuestions() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.questions.list()
}

func (o *Orchestrator) AllAnswers() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.answers.list()
}

func (o *Orchestrator) AllFeedback() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.feedback.list()
}

func isCancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}

func withQuestionMark(q string) string {
	q = strings.TrimSpace(q)
	if !strings.HasSuffix(q, "?") {
		q += "?"
	}
	return q
}
