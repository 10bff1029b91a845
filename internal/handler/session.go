package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/interview"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/session"
	"github.com/vishruthp2003/KodnestF2FVersion/pkg/model"
	"github.com/vishruthp2003/KodnestF2FVersion/pkg/response"
	"go.uber.org/zap"
)

// CreateSession starts a new interview and returns the token that grants access to it
func (h *Handler) CreateSession(c *gin.Context) {
	o, err := h.Sessions.Create(c.Request.Context())
	if err != nil {
		h.Logger.Error("create_session: failed to create", zap.Error(err))
		response.InternalError(c, "failed to create session")
		return
	}

	token, claims, err := h.TokenMaker.CreateToken(o.ID())
	if err != nil {
		h.Logger.Error("create_session: failed to sign token",
			zap.String("session_id", o.ID()),
			zap.Error(err),
		)
		_ = h.Sessions.Delete(c.Request.Context(), o.ID())
		response.InternalError(c, "failed to create session")
		return
	}

	response.Created(c, model.CreateSessionRes{
		Session:        model.NewSessionRes(o.View()),
		Token:          token,
		TokenExpiresAt: claims.ExpiresAt.Time,
	})
}

func (h *Handler) GetSession(c *gin.Context) {
	o, ok := h.lookup(c, "get_session")
	if !ok {
		return
	}
	response.OK(c, model.NewSessionRes(o.View()))
}

// SubmitAnswer processes the answer for the current question. The request context
// bounds the oracle calls, so a client that disconnects cancels the submission.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	var req model.SubmitAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	o, ok := h.lookup(c, "submit_answer")
	if !ok {
		return
	}

	if err := o.SubmitAnswer(c.Request.Context(), req.Answer); err != nil {
		h.sessionError(c, "submit_answer", o.ID(), err)
		return
	}

	h.save(c, "submit_answer", o)
	response.OK(c, model.NewSessionRes(o.View()))
}

// Advance moves to the next question. Advancing past the last one marks the
// session completed and is not an error.
func (h *Handler) Advance(c *gin.Context) {
	o, ok := h.lookup(c, "advance")
	if !ok {
		return
	}

	err := o.Advance()
	if err != nil && !errors.Is(err, interview.ErrSessionComplete) {
		h.sessionError(c, "advance", o.ID(), err)
		return
	}
	if err != nil {
		h.Logger.Info("advance: session completed", zap.String("session_id", o.ID()))
	}

	h.save(c, "advance", o)
	response.OK(c, model.NewSessionRes(o.View()))
}

func (h *Handler) CancelPending(c *gin.Context) {
	o, ok := h.lookup(c, "cancel")
	if !ok {
		return
	}

	cancelled := o.Cancel()
	h.Logger.Info("cancel: pending request",
		zap.String("session_id", o.ID()),
		zap.Bool("cancelled", cancelled),
	)
	response.OK(c, model.CancelRes{Cancelled: cancelled})
}

func (h *Handler) GetHistory(c *gin.Context) {
	o, ok := h.lookup(c, "get_history")
	if !ok {
		return
	}

	response.OK(c, model.HistoryRes{
		SessionID: o.ID(),
		Questions: o.AllQuestions(),
		Answers:   o.AllAnswers(),
		Feedback:  o.AllFeedback(),
	})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.Sessions.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		h.Logger.Error("delete_session: failed to delete",
			zap.String("session_id", id),
			zap.Error(err),
		)
		response.InternalError(c, "failed to delete session")
		return
	}

	response.NoContent(c)
}

func (h *Handler) lookup(c *gin.Context, op string) (*interview.Orchestrator, bool) {
	id := c.Param("id")
	o, err := h.Sessions.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.NotFound(c, "session not found")
			return nil, false
		}
		h.Logger.Error(op+": failed to load session",
			zap.String("session_id", id),
			zap.Error(err),
		)
		response.InternalError(c, "failed to load session")
		return nil, false
	}
	return o, true
}

// save writes a snapshot. The live session already holds the change, so a
// failing store is logged and the request still succeeds.
func (h *Handler) save(c *gin.Context, op string, o *interview.Orchestrator) {
	err := h.Sessions.Save(c.Request.Context(), o)
	if errors.Is(err, session.ErrNotFound) {
		h.Logger.Debug(op+": session ended before snapshot", zap.String("session_id", o.ID()))
		return
	}
	if err != nil {
		h.Logger.Warn(op+": failed to snapshot session",
			zap.String("session_id", o.ID()),
			zap.Error(err),
		)
	}
}

func (h *Handler) sessionError(c *gin.Context, op, id string, err error) {
	switch {
	case errors.Is(err, interview.ErrBusy):
		response.Busy(c)
	case errors.Is(err, interview.ErrEmptyAnswer):
		response.ValidationError(c, "answer must not be empty")
	case errors.Is(err, interview.ErrNoFeedbackYet):
		response.Conflict(c, "answer the current question before advancing")
	case errors.Is(err, interview.ErrCancelled):
		response.Cancelled(c)
	default:
		h.Logger.Error(op+": failed",
			zap.String("session_id", id),
			zap.Error(err),
		)
		response.InternalError(c, "")
	}
}
