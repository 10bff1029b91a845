package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/auth"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/interview"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/session"
	"github.com/vishruthp2003/KodnestF2FVersion/pkg/model"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type firstRand struct{}

func (firstRand) Intn(int) int { return 0 }

func newTestRouter(t *testing.T, oracle interview.Oracle) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &Handler{
		Logger: zap.NewNop(),
		Sessions: session.NewManager(session.Options{
			TTL:     time.Hour,
			Oracle:  oracle,
			NewRand: func() interview.Rand { return firstRand{} },
		}),
		TokenMaker: auth.NewTokenMaker(strings.Repeat("k", 32), time.Hour),
	}

	r := gin.New()
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:id", h.GetSession)
	r.POST("/sessions/:id/answers", h.SubmitAnswer)
	r.POST("/sessions/:id/advance", h.Advance)
	r.POST("/sessions/:id/cancel", h.CancelPending)
	r.GET("/sessions/:id/history", h.GetHistory)
	r.DELETE("/sessions/:id", h.DeleteSession)
	return r, h
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func createSession(t *testing.T, r http.Handler) model.CreateSessionRes {
	t.Helper()
	code, env := do(t, r, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, code)
	var res model.CreateSessionRes
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res
}

func TestCreateSession(t *testing.T) {
	r, h := newTestRouter(t, nil)

	res := createSession(t, r)
	assert.NotEmpty(t, res.Session.SessionID)
	assert.Equal(t, interview.OpeningQuestion, res.Session.CurrentQuestion)
	assert.Equal(t, 1, res.Session.QuestionNumber)
	assert.Equal(t, interview.TotalQuestions, res.Session.TotalQuestions)

	claims, err := h.TokenMaker.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Session.SessionID, claims.SessionID)
}

func TestSubmitAdvanceHistory(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	id := createSession(t, r).Session.SessionID

	code, env := do(t, r, http.MethodPost, "/sessions/"+id+"/answers", `{"answer":"I build backend services in Go"}`)
	require.Equal(t, http.StatusOK, code)
	var view model.SessionRes
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "I build backend services in Go", view.CurrentAnswer)
	assert.Equal(t, interview.FeedbackTemplates()[0], view.CurrentFeedback)

	code, env = do(t, r, http.MethodPost, "/sessions/"+id+"/advance", "")
	require.Equal(t, http.StatusOK, code)
	var advanced model.SessionRes
	require.NoError(t, json.Unmarshal(env.Data, &advanced))
	assert.Equal(t, 2, advanced.QuestionNumber)
	assert.Equal(t, interview.FallbackQuestion(0), advanced.CurrentQuestion)
	assert.Empty(t, advanced.CurrentAnswer)
	assert.Empty(t, advanced.CurrentFeedback)

	code, env = do(t, r, http.MethodGet, "/sessions/"+id+"/history", "")
	require.Equal(t, http.StatusOK, code)
	var hist model.HistoryRes
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	assert.Equal(t, []string{interview.OpeningQuestion, interview.FallbackQuestion(0)}, hist.Questions)
	assert.Equal(t, []string{"I build backend services in Go"}, hist.Answers)
	assert.Len(t, hist.Feedback, 1)
}

func TestSubmitAnswer_Errors(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	id := createSession(t, r).Session.SessionID

	tests := []struct {
		name string
		body string
		code int
		err  string
	}{
		{"malformed", `{"answer":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"empty", `{"answer":""}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"whitespace", `{"answer":"   "}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, r, http.MethodPost, "/sessions/"+id+"/answers", tt.body)
			assert.Equal(t, tt.code, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.err, env.Error.Code)
		})
	}
}

func TestAdvance_BeforeFeedback(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	id := createSession(t, r).Session.SessionID

	code, env := do(t, r, http.MethodPost, "/sessions/"+id+"/advance", "")
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestAdvance_CompletesOnLastSlot(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	id := createSession(t, r).Session.SessionID

	for i := 0; i < interview.TotalQuestions; i++ {
		code, _ := do(t, r, http.MethodPost, "/sessions/"+id+"/answers", `{"answer":"an answer"}`)
		require.Equal(t, http.StatusOK, code)
		code, _ = do(t, r, http.MethodPost, "/sessions/"+id+"/advance", "")
		require.Equal(t, http.StatusOK, code)
	}

	code, env := do(t, r, http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, code)
	var view model.SessionRes
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Completed)
	assert.Equal(t, interview.TotalQuestions, view.QuestionNumber)
}

func TestSubmitAnswer_BusyAndCancel(t *testing.T) {
	entered := make(chan struct{})
	oracle := &stallingOracle{entered: entered}
	r, _ := newTestRouter(t, oracle)
	id := createSession(t, r).Session.SessionID

	type result struct {
		code int
		env  envelope
	}
	done := make(chan result, 1)
	go func() {
		code, env := do(t, r, http.MethodPost, "/sessions/"+id+"/answers", `{"answer":"first"}`)
		done <- result{code, env}
	}()
	<-entered

	code, env := do(t, r, http.MethodPost, "/sessions/"+id+"/answers", `{"answer":"second"}`)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_BUSY", env.Error.Code)

	code, env = do(t, r, http.MethodPost, "/sessions/"+id+"/cancel", "")
	require.Equal(t, http.StatusOK, code)
	var cancelled model.CancelRes
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.True(t, cancelled.Cancelled)

	res := <-done
	assert.Equal(t, http.StatusConflict, res.code)
	require.NotNil(t, res.env.Error)
	assert.Equal(t, "REQUEST_CANCELLED", res.env.Error.Code)

	code, env = do(t, r, http.MethodGet, "/sessions/"+id+"/history", "")
	require.Equal(t, http.StatusOK, code)
	var hist model.HistoryRes
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	assert.Empty(t, hist.Answers)
}

func TestUnknownSession(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/sessions/nope"},
		{http.MethodPost, "/sessions/nope/advance"},
		{http.MethodGet, "/sessions/nope/history"},
		{http.MethodDelete, "/sessions/nope"},
	} {
		code, env := do(t, r, req.method, req.path, "")
		assert.Equal(t, http.StatusNotFound, code, req.path)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	r, h := newTestRouter(t, nil)
	id := createSession(t, r).Session.SessionID

	code, _ := do(t, r, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, 0, h.Sessions.Count())
}

// stallingOracle blocks grammar correction until the request is cancelled.
type stallingOracle struct {
	entered chan struct{}
}

func (s *stallingOracle) CorrectGrammar(ctx context.Context, _ string) (string, error) {
	close(s.entered)
	<-ctx.Done()
	return "", ctx.Err()
}

func (s *stallingOracle) GenerateFeedback(context.Context, string, string) (string, error) {
	return "ok", nil
}

func (s *stallingOracle) GenerateFirstTechnicalQuestion(context.Context, string, []string) (string, error) {
	return "What is a channel?", nil
}

func (s *stallingOracle) GenerateFollowupQuestion(context.Context, string, []string, int) (string, error) {
	return "What is a mutex?", nil
}
