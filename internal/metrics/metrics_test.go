package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/interview"
)

var _ interview.Recorder = (*Metrics)(nil)

func TestOracleCall(t *testing.T) {
	m := New()

	m.OracleCall(interview.CallFeedback, interview.OutcomeOK, 200*time.Millisecond)
	m.OracleCall(interview.CallFeedback, interview.OutcomeOK, 300*time.Millisecond)
	m.OracleCall(interview.CallFeedback, interview.OutcomeFailed, time.Second)
	m.OracleCall(interview.CallGrammar, interview.OutcomeDisabled, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.oracleCalls.WithLabelValues(interview.CallFeedback, interview.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.oracleCalls.WithLabelValues(interview.CallFeedback, interview.OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.oracleCalls.WithLabelValues(interview.CallGrammar, interview.OutcomeDisabled)))

	// disabled calls are not timed
	assert.Equal(t, 1, testutil.CollectAndCount(m.oracleDuration))
}

func TestFallback(t *testing.T) {
	m := New()
	m.Fallback(interview.CallQuestion)
	m.Fallback(interview.CallQuestion)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fallbacks.WithLabelValues(interview.CallQuestion)))
}

func TestTrackSessions(t *testing.T) {
	m := New()
	n := 3
	m.TrackSessions(func() int { return n })

	expected := `
# HELP mockinterview_sessions_active Number of interview sessions held by this process
# TYPE mockinterview_sessions_active gauge
mockinterview_sessions_active 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "mockinterview_sessions_active"))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/sessions/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/sessions/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "unmatched", "404")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mockinterview_http_requests_total")
}
