package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contract-analyzer/internal/common"
	"github.com/joseph-ayodele/contract-analyzer/internal/llm"
)

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingCredentials)
}

func TestComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{
			"model": "gpt-test",
			"choices": [{"message": {"content": "  {\"ok\":true}  "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 4}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "gpt-test"}, nil)
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), llm.CompletionRequest{
		System:         "sys",
		Prompt:         "user",
		Schema:         map[string]any{"type": "object"},
		ThinkingBudget: 4096,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, llm.Usage{PromptTokens: 20, OutputTokens: 4}, resp.Usage)

	assert.Equal(t, "gpt-test", got["model"])
	assert.Equal(t, "medium", got["reasoning_effort"])
	rf := got["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", rf["type"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["content"])
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), llm.CompletionRequest{Prompt: "x"})
	assert.Error(t, err)
}

func TestResponseFormatAndEffort(t *testing.T) {
	assert.Equal(t, map[string]any{"type": "json_object"}, responseFormat(nil))
	assert.Equal(t, "", reasoningEffort(0))
	assert.Equal(t, "low", reasoningEffort(1024))
	assert.Equal(t, "high", reasoningEffort(10000))
}
