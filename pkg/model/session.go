package model

import (
	"time"

	"github.com/vishruthp2003/KodnestF2FVersion/internal/interview"
)

type SubmitAnswerReq struct {
	Answer string `json:"answer"`
}

type SessionRes struct {
	SessionID       string `json:"session_id"`
	CurrentQuestion string `json:"current_question"`
	CurrentAnswer   string `json:"current_answer,omitempty"`
	CurrentFeedback string `json:"current_feedback,omitempty"`
	QuestionNumber  int    `json:"question_number"`
	TotalQuestions  int    `json:"total_questions"`
	Busy            bool   `json:"busy"`
	Completed       bool   `json:"completed"`
}

type CreateSessionRes struct {
	Session        SessionRes `json:"session"`
	Token          string     `json:"token"`
	TokenExpiresAt time.Time  `json:"token_expires_at"`
}

type HistoryRes struct {
	SessionID string   `json:"session_id"`
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
	Feedback  []string `json:"feedback"`
}

type CancelRes struct {
	Cancelled bool `json:"cancelled"`
}

func NewSessionRes(v interview.View) SessionRes {
	return SessionRes{
		SessionID:       v.ID,
		CurrentQuestion: v.CurrentQuestion,
		CurrentAnswer:   v.CurrentAnswer,
		CurrentFeedback: v.CurrentFeedback,
		QuestionNumber:  v.QuestionNumber,
		TotalQuestions:  v.TotalQuestions,
		Busy:            v.Busy,
		Completed:       v.Completed,
	}
}
