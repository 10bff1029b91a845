package interview

import (
	"context"
	"time"
)

// Oracle is the external text-generation service. A nil Oracle means the
// oracle is disabled and every step uses its fallback.
type Oracle interface {
	CorrectGrammar(ctx context.Context, text string) (string, error)
	GenerateFeedback(ctx context.Context, answer, question string) (string, error)
	GenerateFirstTechnicalQuestion(ctx context.Context, profile string, asked []string) (string, error)
	GenerateFollowupQuestion(ctx context.Context, profile string, asked []string, questionNumber int) (string, error)
}

// Call names used when recording oracle outcomes.
const (
	CallGrammar  = "grammar"
	CallFeedback = "feedback"
	CallQuestion = "question"
)

// Outcome of a single oracle call.
const (
	OutcomeOK        = "ok"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
	OutcomeDisabled  = "disabled"
	OutcomeRejected  = "rejected"
)

// Recorder observes oracle calls. internal/metrics provides the Prometheus one.
type Recorder interface {
	OracleCall(call, outcome string, took time.Duration)
	Fallback(call string)
}

type nopRecorder struct{}

func (nopRecorder) OracleCall(string, string, time.Duration) {}
func (nopRecorder) Fallback(string)                          {}
