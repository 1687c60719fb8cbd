package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"unavailable","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  "test-model",
			Choices: []openai.ChatCompletionChoice{{
				Index:   0,
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIJudge_Judge(t *testing.T) {
	srv := newChatServer(t, `{"correct":true,"confidence":0.92,"feedback":"Yes!","hint":""}`, http.StatusOK)
	j := NewOpenAIJudge(OpenAIConfig{APIKey: "test", BaseURL: srv.URL, RequestsPerSecond: 100})

	v, err := j.Judge(context.Background(), "Who visited?", "Alice", "my girl Alice")
	require.NoError(t, err)
	assert.True(t, v.Correct)
	assert.InDelta(t, 0.92, v.Confidence, 1e-9)
	assert.Equal(t, "Yes!", v.Feedback)
}

func TestOpenAIJudge_LowConfidenceRejected(t *testing.T) {
	srv := newChatServer(t, "```json\n{\"correct\":true,\"confidence\":0.4,\"feedback\":\"\",\"hint\":\"\"}\n```", http.StatusOK)
	j := NewOpenAIJudge(OpenAIConfig{APIKey: "test", BaseURL: srv.URL, RequestsPerSecond: 100})

	v, err := j.Judge(context.Background(), "q", "Alice", "maybe")
	require.NoError(t, err)
	assert.False(t, v.Correct)
}

func TestOpenAIJudge_ServerError(t *testing.T) {
	srv := newChatServer(t, "", http.StatusServiceUnavailable)
	j := NewOpenAIJudge(OpenAIConfig{APIKey: "test", BaseURL: srv.URL, RequestsPerSecond: 100, Timeout: 2 * time.Second})

	_, err := j.Judge(context.Background(), "q", "Alice", "Bob")
	assert.Error(t, err)
}

func TestOpenAIPhraser(t *testing.T) {
	srv := newChatServer(t, "  Good morning, Margaret.  ", http.StatusOK)
	p := NewOpenAIPhraser(OpenAIConfig{APIKey: "test", BaseURL: srv.URL, RequestsPerSecond: 100})

	text, err := p.Greeting(context.Background(), "Margaret")
	require.NoError(t, err)
	assert.Equal(t, "Good morning, Margaret.", text)
}

func TestParseVerdict_Invalid(t *testing.T) {
	_, err := parseVerdict("not json")
	assert.Error(t, err)

	v, err := parseVerdict(`{"correct":false,"confidence":3}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Confidence)
}
