package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: Config{APIKey: "test-key"},
		},
		{
			name:    "missing API key",
			config:  Config{APIKey: ""},
			wantErr: true,
		},
		{
			name: "custom model and endpoint",
			config: Config{
				APIKey:  "test-key",
				Model:   "claude-3-opus-20240229",
				BaseURL: "http://localhost:9999/",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newAnthropicClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
			assert.NotEqual(t, byte('/'), client.baseURL[len(client.baseURL)-1])
		})
	}
}

func TestAnthropicClient_Complete(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		want       string
		statusCode int
		wantErr    bool
	}{
		{
			name:       "text reply",
			response:   `{"content":[{"type":"text","text":"Food"}]}`,
			statusCode: http.StatusOK,
			want:       "Food",
		},
		{
			name:       "API error",
			response:   `{"error":{"type":"overloaded_error"}}`,
			statusCode: http.StatusServiceUnavailable,
			wantErr:    true,
		},
		{
			name:       "no content in response",
			response:   `{"content":[]}`,
			statusCode: http.StatusOK,
			wantErr:    true,
		},
		{
			name:       "malformed body",
			response:   `{"content":`,
			statusCode: http.StatusOK,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/messages", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
				assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.EqualValues(t, 10, body["max_tokens"])
				assert.InDelta(t, 0.1, body["temperature"], 1e-9)
				assert.Equal(t, "be terse", body["system"])

				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
			require.NoError(t, err)

			got, err := client.Complete(context.Background(), CompletionRequest{
				System:      "be terse",
				Prompt:      "classify this",
				MaxTokens:   10,
				Temperature: 0.1,
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnthropicClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Complete(ctx, CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
