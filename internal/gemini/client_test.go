package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return string(b)
}

func TestGenerate_RequestShape(t *testing.T) {
	var got GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(candidateBody("  hello  ")))
	}))
	defer srv.Close()

	c := NewClient("secret key", "gemini-test", srv.URL+"/v1/", 0)
	out, err := c.Generate(context.Background(), "prompt text", feedbackConfig)
	require.NoError(t, err)

	assert.Equal(t, "hello", out)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "prompt text", got.Contents[0].Parts[0].Text)
	assert.Equal(t, feedbackConfig, got.GenerationConfig)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "http status", status: http.StatusTooManyRequests, body: `{"error":{"message":"quota"}}`, wantErr: "429"},
		{name: "malformed payload", status: http.StatusOK, body: `not json`, wantErr: "decode error"},
		{name: "api error object", status: http.StatusOK, body: `{"error":{"code":400,"message":"bad key"}}`, wantErr: "bad key"},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: "no candidates"},
		{name: "blank text", status: http.StatusOK, body: candidateBody("   "), wantErr: "empty candidate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("k", "", srv.URL, 0)
			_, err := c.Generate(context.Background(), "p", grammarConfig)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	started := make(chan struct{})
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		select {
		case <-r.Context().Done():
		case <-done:
		}
	}))
	defer srv.Close()
	defer close(done)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := NewClient("k", "", srv.URL, 5*time.Second)
	_, err := c.Generate(ctx, "p", grammarConfig)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestCorrectGrammar_StripsQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Contents[0].Parts[0].Text, `"i has a dog"`)
		assert.Equal(t, grammarConfig, req.GenerationConfig)
		_, _ = w.Write([]byte(candidateBody(`"I have a dog."`)))
	}))
	defer srv.Close()

	out, err := NewClient("k", "", srv.URL, 0).CorrectGrammar(context.Background(), "i has a dog")
	require.NoError(t, err)
	assert.Equal(t, "I have a dog.", out)
}

func TestGenerateFollowupQuestion_Prompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt := req.Contents[0].Parts[0].Text
		assert.Contains(t, prompt, `CANDIDATE PROFILE: "I know Java"`)
		assert.Contains(t, prompt, "Tell me about yourself | What is a JVM?")
		assert.Contains(t, prompt, "Current question number: 3")
		assert.Equal(t, followupQuestionConfig, req.GenerationConfig)
		_, _ = w.Write([]byte(candidateBody("**How does garbage collection work in Java**\nThanks!")))
	}))
	defer srv.Close()

	q, err := NewClient("k", "", srv.URL, 0).GenerateFollowupQuestion(
		context.Background(), "I know Java", []string{"Tell me about yourself", "What is a JVM?"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "How does garbage collection work in Java?", q)
}

func TestGenerateFirstTechnicalQuestion_Config(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, firstQuestionConfig, req.GenerationConfig)
		assert.True(t, strings.Contains(req.Contents[0].Parts[0].Text, "to-do app"))
		_, _ = w.Write([]byte(candidateBody(`"How did you save tasks in your to-do app?"`)))
	}))
	defer srv.Close()

	q, err := NewClient("k", "", srv.URL, 0).GenerateFirstTechnicalQuestion(
		context.Background(), "I built a to-do app", []string{"Tell me about yourself"})
	require.NoError(t, err)
	assert.Equal(t, "How did you save tasks in your to-do app?", q)
}

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "What is Go", want: "What is Go?"},
		{in: "\n\n  What is Go?  \nextra", want: "What is Go?"},
		{in: "'What is a map?'", want: "What is a map?"},
		{in: "`What is a slice?`", want: "What is a slice?"},
		{in: "  \n ", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeQuestion(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
