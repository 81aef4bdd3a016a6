package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   *int      `json:"max_tokens"`
	Temperature *float64  `json:"temperature"`
}

func writeChatResponse(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"id":"test-id","object":"chat.completion","created":0,"model":"test-model","choices":[` +
		`{"index":0,"message":{"role":"assistant","content":` + quote(content) + `},"finish_reason":"stop"}]}`))
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestOptions(server *httptest.Server) Options {
	return Options{BaseURL: server.URL + "/v1", APIKey: "test-key"}
}

func TestNewClient(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://localhost:8081/v1/", APIKey: "test-key"}, "test-model")
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.Model != "test-model" {
		t.Errorf("NewClient() Model = %v, want test-model", client.Model)
	}
}

func TestClient_ChatWithMessages(t *testing.T) {
	tests := []struct {
		name       string
		messages   []Message
		params     ChatParams
		serverResp func(t *testing.T, w http.ResponseWriter, r *http.Request)
		wantReply  string
		wantErr    bool
	}{
		{
			name: "successful chat",
			messages: []Message{
				{Role: RoleSystem, Content: "You are a helpful assistant"},
				{Role: RoleUser, Content: "Hello"},
				{Role: RoleAssistant, Content: "Hi"},
				{Role: RoleUser, Content: "How many batches?"},
			},
			params: ChatParams{MaxTokens: 500},
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if !strings.Contains(r.Header.Get("Authorization"), "Bearer test-key") {
					t.Error("missing Authorization header")
				}

				var req chatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode request: %v", err)
				}
				if len(req.Messages) != 4 {
					t.Errorf("expected 4 messages, got %d", len(req.Messages))
				}
				if req.Messages[2].Role != RoleAssistant {
					t.Errorf("messages[2].Role = %q, want assistant", req.Messages[2].Role)
				}
				if req.Model != "test-model" {
					t.Errorf("expected model test-model, got %s", req.Model)
				}
				if req.MaxTokens == nil || *req.MaxTokens != 500 {
					t.Errorf("max_tokens = %v, want 500", req.MaxTokens)
				}
				if req.Temperature == nil || *req.Temperature != 0 {
					t.Errorf("temperature = %v, want 0", req.Temperature)
				}
				writeChatResponse(w, "SELECT 1")
			},
			wantReply: "SELECT 1",
		},
		{
			name:     "model override and no max tokens",
			messages: []Message{{Role: RoleUser, Content: "Hello"}},
			params:   ChatParams{Model: "custom-model", Temperature: 0.5},
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				var req chatRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req.Model != "custom-model" {
					t.Errorf("expected model custom-model, got %s", req.Model)
				}
				if req.MaxTokens != nil {
					t.Errorf("max_tokens = %v, want unset", *req.MaxTokens)
				}
				writeChatResponse(w, "Response")
			},
			wantReply: "Response",
		},
		{
			name:     "no choices returned",
			messages: []Message{{Role: RoleUser, Content: "Hello"}},
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"test-id","object":"chat.completion","choices":[]}`))
			},
			wantErr: true,
		},
		{
			name:     "server error",
			messages: []Message{{Role: RoleUser, Content: "Hello"}},
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":{"message":"internal server error"}}`))
			},
			wantErr: true,
		},
		{
			name:     "unsupported role",
			messages: []Message{{Role: "tool", Content: "Hello"}},
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				t.Error("server should not be called")
			},
			wantErr: true,
		},
		{
			name:     "empty messages",
			messages: nil,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				t.Error("server should not be called")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				tt.serverResp(t, w, r)
			}))
			defer server.Close()

			client := NewClient(newTestOptions(server), "test-model")
			reply, err := client.ChatWithMessages(context.Background(), tt.messages, tt.params)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ChatWithMessages() expected error, got nil")
				}
				if calls > 1 {
					t.Errorf("ChatWithMessages() made %d calls, want at most 1", calls)
				}
				return
			}

			if err != nil {
				t.Errorf("ChatWithMessages() unexpected error: %v", err)
				return
			}

			if reply != tt.wantReply {
				t.Errorf("ChatWithMessages() reply = %v, want %v", reply, tt.wantReply)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleSystem, RoleUser, RoleAssistant} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "tool", "User"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}
